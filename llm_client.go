package travelpod

import (
	"context"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Define a custom type for context keys
type ContextKey string

// LLM defines the minimal contract required by the agent runtime to
// interact with a language-model provider.
type LLM interface {
	// New issues a non-streaming chat completion request.
	New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)

	// Model is the model name used for agent turns.
	Model() string
}

var _ LLM = &OpenAILLM{}

// OpenAILLM talks to any OpenAI compatible chat completions endpoint.
type OpenAILLM struct {
	model  string
	client openai.Client
}

// NewLLM builds a client. An empty baseURL talks to the OpenAI API and a zero
// timeout leaves the client default in place.
func NewLLM(apiKey string, baseURL string, model string, timeout time.Duration) *OpenAILLM {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &OpenAILLM{
		model:  model,
		client: openai.NewClient(opts...),
	}
}

func (c *OpenAILLM) Model() string {
	return c.model
}

func optsWithIds(ctx context.Context, opts []option.RequestOption) []option.RequestOption {
	if sessionID, ok := ctx.Value(ContextKey("sessionID")).(string); ok {
		opts = append(opts, option.WithJSONSet("user", sessionID))
	}
	return opts
}

func (c *OpenAILLM) New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	opts := []option.RequestOption{}
	opts = optsWithIds(ctx, opts)
	return c.client.Chat.Completions.New(ctx, params, opts...)
}
