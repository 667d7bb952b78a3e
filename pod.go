package travelpod

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ToolInfo describes one entry of the tool catalog.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Pod wires the LLM, the agent and the optional conversation storage into the
// operations the HTTP service exposes.
type Pod struct {
	llm     LLM
	agent   *Agent
	storage Storage
	logger  *slog.Logger
}

// NewPod constructs a new Pod with the given resources. storage may be nil.
func NewPod(llm LLM, ag *Agent, storage Storage) *Pod {
	return &Pod{
		llm:     llm,
		agent:   ag,
		storage: storage,
		logger:  slog.Default(),
	}
}

func (p *Pod) SetLogger(logger *slog.Logger) {
	p.logger = logger
}

// NewSession creates a session for a single user query.
func (p *Pod) NewSession(ctx context.Context) *Session {
	return NewSession(ctx, p.llm, p.agent, p.storage)
}

// Answer runs the agent on query and returns its final answer.
func (p *Pod) Answer(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	session := p.NewSession(ctx)
	defer session.Close()
	if err := session.In(query); err != nil {
		return "", err
	}

	var answer strings.Builder
	var failure string
	for {
		out := session.Out()
		if out.Type == ResponseTypeEnd {
			break
		}
		switch out.Type {
		case ResponseTypeStatus:
			p.logger.Debug("Agent status", "sessionID", session.ID(), "status", out.Content)
		case ResponseTypePartialText:
			answer.WriteString(out.Content)
		case ResponseTypeError:
			failure = out.Content
		}
	}

	if cost, ok := session.Cost(); ok {
		p.logger.Info("Query finished", "sessionID", session.ID(),
			"inputTokens", cost.InputTokens, "outputTokens", cost.OutputTokens, "cost", cost.TotalCost)
	} else {
		input, output := session.usage.Tokens()
		p.logger.Info("Query finished", "sessionID", session.ID(), "inputTokens", input, "outputTokens", output)
	}

	if failure != "" {
		return "", fmt.Errorf("agent failed: %s", failure)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if answer.Len() == 0 {
		return "", ErrNoAnswer
	}
	return answer.String(), nil
}

// RunTool invokes a tool directly, bypassing the model.
func (p *Pod) RunTool(ctx context.Context, name string, place string) (string, error) {
	tool, err := p.agent.findTool(name)
	if err != nil {
		return "", err
	}
	return tool.Execute(ctx, map[string]interface{}{"place": place})
}

// Tools returns the tool catalog.
func (p *Pod) Tools() []ToolInfo {
	tools := p.agent.Tools()
	infos := make([]ToolInfo, 0, len(tools))
	for _, tool := range tools {
		infos = append(infos, ToolInfo{Name: tool.Name(), Description: tool.Description()})
	}
	return infos
}

// Conversations lists stored conversations, newest first.
func (p *Pod) Conversations(ctx context.Context, limit int, offset int) ([]Conversation, error) {
	if p.storage == nil {
		return nil, ErrStorageDisabled
	}
	return p.storage.GetConversations(ctx, limit, offset)
}
