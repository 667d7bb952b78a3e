package travelpod

import (
	"context"
	"errors"
	"sync"

	"github.com/boat-builder/travelpod/places"
	"github.com/openai/openai-go"
)

// staticSource returns the same places for every search.
type staticSource struct {
	places []string
}

func (s *staticSource) Name() string { return "Foursquare" }

func (s *staticSource) Search(ctx context.Context, place, keyword string, limit int) places.PlaceResult {
	return places.PlaceResult{Places: s.places}
}

type staticWeb struct {
	answer string
}

func (w *staticWeb) Search(ctx context.Context, query string) string {
	return w.answer
}

func newTestLookup() *places.Lookup {
	return places.NewLookup(
		&staticSource{places: []string{"Le Jules Verne (Eiffel Tower, Paris)"}},
		&staticWeb{answer: "web answer"},
		0,
	)
}

// scriptedLLM replays completions in order and records the params it got.
type scriptedLLM struct {
	mu          sync.Mutex
	model       string
	completions []*openai.ChatCompletion
	err         error
	calls       []openai.ChatCompletionNewParams
}

func (s *scriptedLLM) Model() string {
	if s.model == "" {
		return "gpt-4o-mini"
	}
	return s.model
}

func (s *scriptedLLM) New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, params)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.completions) == 0 {
		return nil, errors.New("script exhausted")
	}
	completion := s.completions[0]
	if len(s.completions) > 1 {
		s.completions = s.completions[1:]
	}
	return completion, nil
}

func (s *scriptedLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedLLM) call(i int) openai.ChatCompletionNewParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

func textCompletion(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Content: content},
		}},
		Usage: openai.CompletionUsage{PromptTokens: 100, CompletionTokens: 20},
	}
}

func toolCallCompletion(calls ...openai.ChatCompletionMessageToolCall) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{ToolCalls: calls},
		}},
		Usage: openai.CompletionUsage{PromptTokens: 50, CompletionTokens: 10},
	}
}

func toolCall(id, name, arguments string) openai.ChatCompletionMessageToolCall {
	return openai.ChatCompletionMessageToolCall{
		ID: id,
		Function: openai.ChatCompletionMessageToolCallFunction{
			Name:      name,
			Arguments: arguments,
		},
	}
}

// toolMessages maps tool call IDs to the tool message content found in messages.
func toolMessages(messages []openai.ChatCompletionMessageParamUnion) map[string]string {
	found := map[string]string{}
	for _, msg := range messages {
		if msg.OfTool != nil {
			found[msg.OfTool.ToolCallID] = msg.OfTool.Content.OfString.Value
		}
	}
	return found
}

func newTestAgent() *Agent {
	skill := NewPlaceSearchSkill(newTestLookup())
	return NewAgent("You are a travel agent.", []Skill{*skill})
}

// collect drains the agent channel.
func collect(outChan chan Response) []Response {
	responses := []Response{}
	for response := range outChan {
		responses = append(responses, response)
	}
	return responses
}
