// Package travelpod provides the Agent orchestrator, which uses the LLM and
// the tools of its skills to answer a travel query.
package travelpod

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/boat-builder/travelpod/prompts"
	"github.com/openai/openai-go"
)

// DefaultMaxIterations bounds the number of model turns in one run.
const DefaultMaxIterations = 8

// Agent orchestrates calls to the LLM, uses Skills/Tools, and determines how to respond.
type Agent struct {
	prompt        string
	skills        []Skill
	maxIterations int
	logger        *slog.Logger
}

// NewAgent creates an Agent with the main prompt and the skills it may use.
func NewAgent(prompt string, skills []Skill) *Agent {
	return &Agent{
		prompt:        prompt,
		skills:        skills,
		maxIterations: DefaultMaxIterations,
		logger:        slog.Default(),
	}
}

func (a *Agent) GetLogger() *slog.Logger {
	return a.logger
}

func (a *Agent) SetLogger(logger *slog.Logger) {
	a.logger = logger
}

// SetMaxIterations changes the turn limit. Non-positive values are ignored.
func (a *Agent) SetMaxIterations(n int) {
	if n > 0 {
		a.maxIterations = n
	}
}

func (a *Agent) GetSkill(name string) (*Skill, error) {
	for i := range a.skills {
		if a.skills[i].Name == name {
			return &a.skills[i], nil
		}
	}
	return nil, fmt.Errorf("skill %s not found", name)
}

func (a *Agent) findTool(name string) (Tool, error) {
	for i := range a.skills {
		if tool, err := a.skills[i].GetTool(name); err == nil {
			return tool, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

// Tools lists the tools of every skill in catalog order.
func (a *Agent) Tools() []Tool {
	tools := []Tool{}
	for i := range a.skills {
		tools = append(tools, a.skills[i].Tools...)
	}
	return tools
}

// ConvertSkillsToTools flattens the tools of every skill into the list sent to the model.
func (a *Agent) ConvertSkillsToTools() []openai.ChatCompletionToolParam {
	tools := []openai.ChatCompletionToolParam{}
	for i := range a.skills {
		tools = append(tools, a.skills[i].GetTools()...)
	}
	return tools
}

func (a *Agent) systemPrompt() (string, error) {
	data := prompts.AgentPromptData{
		MainAgentSystemPrompt: a.prompt,
		Today:                 time.Now().Format("2006-01-02"),
	}
	for i := range a.skills {
		if a.skills[i].SystemPrompt != "" {
			data.SkillSystemPrompts = append(data.SkillSystemPrompts, a.skills[i].SystemPrompt)
		}
		data.ToolNames = append(data.ToolNames, a.skills[i].ToolNames()...)
	}
	return prompts.AgentPrompt(data)
}

func MessageWhenToolError(toolCallID string) openai.ChatCompletionMessageParamUnion {
	return openai.ToolMessage("Error occurred while running. Do not retry", toolCallID)
}

func MessageWhenToolErrorWithRetry(errorString string, toolCallID string) openai.ChatCompletionMessageParamUnion {
	return openai.ToolMessage(fmt.Sprintf("Error: %s.\nRetry", errorString), toolCallID)
}

// send delivers a response unless the context is done first.
func send(ctx context.Context, outChan chan Response, response Response) bool {
	select {
	case outChan <- response:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run drives the tool calling loop until the model answers without tool calls
// or the iteration limit is reached. Status updates, the answer and errors are
// written to outChan, which is closed when Run returns.
func (a *Agent) Run(ctx context.Context, llm LLM, history *MessageList, usage *Usage, outChan chan Response) {
	defer close(outChan)

	systemPrompt, err := a.systemPrompt()
	if err != nil {
		a.logger.Error("Error getting system prompt", "error", err)
		send(ctx, outChan, Response{Content: err.Error(), Type: ResponseTypeError})
		return
	}
	history.AddFirst(systemPrompt)
	tools := a.ConvertSkillsToTools()
	a.logger.Info("Agent started", "query", history.LastUserMessageString(), "tools", len(tools))

	for iteration := 0; iteration < a.maxIterations; iteration++ {
		a.logger.Debug("Calling LLM", "iteration", iteration, "messages", history.Len())
		params := openai.ChatCompletionNewParams{
			Messages: history.All(),
			Model:    llm.Model(),
		}
		if len(tools) > 0 {
			params.Tools = tools
		}

		completion, err := llm.New(ctx, params)
		if err != nil {
			a.logger.Error("Error calling LLM", "error", err, "iteration", iteration)
			send(ctx, outChan, Response{Content: err.Error(), Type: ResponseTypeError})
			return
		}
		if len(completion.Choices) == 0 {
			a.logger.Error("LLM returned no choices", "iteration", iteration)
			send(ctx, outChan, Response{Content: ErrNoAnswer.Error(), Type: ResponseTypeError})
			return
		}
		if usage != nil {
			usage.Add(completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
		}

		message := completion.Choices[0].Message
		history.Add(message.ToParam())

		if len(message.ToolCalls) == 0 {
			if strings.TrimSpace(message.Content) == "" {
				send(ctx, outChan, Response{Content: ErrNoAnswer.Error(), Type: ResponseTypeError})
				return
			}
			send(ctx, outChan, Response{Content: message.Content, Type: ResponseTypePartialText})
			return
		}

		if message.Content != "" {
			a.logger.Warn("Expectation is that tool call and content shouldn't both be non-empty", "content", message.Content)
		}

		history.Add(a.runTools(ctx, message.ToolCalls, outChan)...)
	}

	a.logger.Error("Agent stopped before answering", "maxIterations", a.maxIterations)
	send(ctx, outChan, Response{Content: ErrMaxIterations.Error(), Type: ResponseTypeError})
}

// runTools executes the tool calls of one model turn in parallel and returns
// the tool messages in the order the calls were made.
func (a *Agent) runTools(ctx context.Context, toolCalls []openai.ChatCompletionMessageToolCall, outChan chan Response) []openai.ChatCompletionMessageParamUnion {
	results := make([]openai.ChatCompletionMessageParamUnion, len(toolCalls))

	var wg sync.WaitGroup
	for i, toolCall := range toolCalls {
		wg.Add(1)
		go func(i int, toolCall openai.ChatCompletionMessageToolCall) {
			defer wg.Done()
			results[i] = a.runTool(ctx, toolCall, outChan)
		}(i, toolCall)
	}
	wg.Wait()

	return results
}

func (a *Agent) runTool(ctx context.Context, toolCall openai.ChatCompletionMessageToolCall, outChan chan Response) openai.ChatCompletionMessageParamUnion {
	tool, err := a.findTool(toolCall.Function.Name)
	if err != nil {
		a.logger.Error("Error getting tool", "error", err)
		return MessageWhenToolError(toolCall.ID)
	}

	if tool.StatusMessage() != "" {
		send(ctx, outChan, Response{Content: tool.StatusMessage(), Type: ResponseTypeStatus})
	}

	a.logger.Info("Tool", "tool", tool.Name(), "arguments", toolCall.Function.Arguments)
	rawArguments := toolCall.Function.Arguments
	if strings.TrimSpace(rawArguments) == "" {
		rawArguments = "{}"
	}
	arguments := map[string]interface{}{}
	if err := json.Unmarshal([]byte(rawArguments), &arguments); err != nil {
		a.logger.Error("Error unmarshalling tool arguments", "tool", tool.Name(), "error", err)
		return MessageWhenToolErrorWithRetry(err.Error(), toolCall.ID)
	}

	output, err := tool.Execute(ctx, arguments)
	if err != nil {
		a.logger.Error("Error executing tool", "tool", tool.Name(), "error", err)
		var ignErr *IgnorableError
		var retErr *RetryableError
		switch {
		case errors.As(err, &retErr):
			return MessageWhenToolErrorWithRetry(err.Error(), toolCall.ID)
		case errors.As(err, &ignErr):
			return MessageWhenToolError(toolCall.ID)
		default:
			return MessageWhenToolError(toolCall.ID)
		}
	}
	return openai.ToolMessage(output, toolCall.ID)
}
