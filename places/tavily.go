package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

const (
	DefaultTavilyURL = "https://api.tavily.com"
	tavilyMaxResults = 5
)

// WebSource answers a natural-language question from the open web.
type WebSource interface {
	// Search always returns text; failures are described in the returned string.
	Search(ctx context.Context, query string) string
}

type tavilyRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Query   string `json:"query"`
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Tavily runs searches against the Tavily search API with answer synthesis.
type Tavily struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewTavily builds a Tavily source. An empty baseURL uses the public API and a
// nil client uses http.DefaultClient.
func NewTavily(apiKey, baseURL string, client *http.Client) *Tavily {
	if baseURL == "" {
		baseURL = DefaultTavilyURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Tavily{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  slog.Default(),
	}
}

func (t *Tavily) SetLogger(logger *slog.Logger) {
	t.logger = logger
}

func (t *Tavily) Search(ctx context.Context, query string) string {
	answer, err := t.search(ctx, query)
	if err != nil {
		t.logger.Warn("Tavily search failed", "query", query, "error", err)
		return fmt.Sprintf("Error running Tavily: %s", err)
	}
	return answer
}

func (t *Tavily) search(ctx context.Context, query string) (string, error) {
	if t.apiKey == "" {
		return "", errMissingAPIKey
	}

	body, err := json.Marshal(tavilyRequest{
		Query:         query,
		MaxResults:    tavilyMaxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp)
	}

	var data tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return renderTavily(data), nil
}

// renderTavily flattens the answer and its sources into plain text for the LLM.
func renderTavily(data tavilyResponse) string {
	var b strings.Builder
	if data.Answer != "" {
		b.WriteString(data.Answer)
	}
	for i, r := range data.Results {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s (%s): %s", i+1, r.Title, r.URL, r.Content)
	}
	if b.Len() == 0 {
		return "No results found"
	}
	return b.String()
}
