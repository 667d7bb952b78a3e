package travelpod

import "sync"

type TokenRates struct {
	Input  float64
	Output float64
}

// Pricing constants in dollars per million tokens
const (
	GPT4oMiniInputRate   = 0.15
	GPT4oMiniOutputRate  = 0.60
	GPT4oInputRate       = 2.5
	GPT4oOutputRate      = 10.0
	Llama33InputRate     = 0.59
	Llama33OutputRate    = 0.79
	Llama31InstInputRate = 0.05
	Llama31InstOutRate   = 0.08
)

// ModelPricings is a map of model names to their pricing information
var ModelPricings = map[string]TokenRates{
	"gpt-4o-mini": {
		Input:  GPT4oMiniInputRate,
		Output: GPT4oMiniOutputRate,
	},
	"gpt-4o": {
		Input:  GPT4oInputRate,
		Output: GPT4oOutputRate,
	},
	"llama-3.3-70b-versatile": {
		Input:  Llama33InputRate,
		Output: Llama33OutputRate,
	},
	"llama-3.1-8b-instant": {
		Input:  Llama31InstInputRate,
		Output: Llama31InstOutRate,
	},
}

// Usage accumulates token counts across the LLM calls of one session.
// It is safe for concurrent use.
type Usage struct {
	mu           sync.Mutex
	inputTokens  int64
	outputTokens int64
}

func (u *Usage) Add(input, output int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inputTokens += input
	u.outputTokens += output
}

func (u *Usage) Tokens() (input, output int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.inputTokens, u.outputTokens
}

// CostDetails represents detailed cost information for a session
type CostDetails struct {
	InputTokens  int64
	OutputTokens int64
	TotalCost    float64
}

// Cost returns the accumulated cost of the session.
// It calculates the cost based on the total input and output tokens and the pricing for the session's model.
func (s *Session) Cost() (*CostDetails, bool) {
	pricing, exists := ModelPricings[s.llm.Model()]
	if !exists {
		return nil, false
	}

	input, output := s.usage.Tokens()
	inputCost := float64(input) * pricing.Input / 1000000
	outputCost := float64(output) * pricing.Output / 1000000

	return &CostDetails{
		InputTokens:  input,
		OutputTokens: output,
		TotalCost:    inputCost + outputCost,
	}, true
}
