package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultFoursquareURL = "https://api.foursquare.com/v3"
	// DefaultLimit caps the number of places returned by a structured search.
	DefaultLimit = 10

	addressNotAvailable = "Address not available"
	maxErrorBody        = 256
)

var errMissingAPIKey = errors.New("missing API key")

// StructuredSource is a places directory that returns typed place records.
type StructuredSource interface {
	// Name identifies the backend in composed answers.
	Name() string
	// Search never fails loudly; problems are reported in PlaceResult.Err.
	Search(ctx context.Context, place, keyword string, limit int) PlaceResult
}

// SourceError is a failure while talking to a place source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("Error searching %s: %s", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// PlaceResult is the outcome of a structured search. Places holds formatted
// "name (address)" entries in backend order. Err is set when the search failed.
type PlaceResult struct {
	Places []string
	Err    error
}

// Usable reports whether the result has data to show.
func (r PlaceResult) Usable() bool {
	return r.Err == nil && len(r.Places) > 0
}

// Strings renders the result as a sequence. A failed search becomes a single
// entry describing the failure.
func (r PlaceResult) Strings() []string {
	if r.Err != nil {
		return []string{r.Err.Error()}
	}
	return r.Places
}

type foursquareResponse struct {
	Results []struct {
		Name     string `json:"name"`
		Location struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"location"`
	} `json:"results"`
}

// Foursquare queries the Foursquare Places search API.
type Foursquare struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewFoursquare builds a Foursquare source. An empty baseURL uses the public API
// and a nil client uses http.DefaultClient.
func NewFoursquare(apiKey, baseURL string, client *http.Client) *Foursquare {
	if baseURL == "" {
		baseURL = DefaultFoursquareURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Foursquare{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  slog.Default(),
	}
}

func (f *Foursquare) SetLogger(logger *slog.Logger) {
	f.logger = logger
}

func (f *Foursquare) Name() string {
	return "Foursquare"
}

func (f *Foursquare) Search(ctx context.Context, place, keyword string, limit int) PlaceResult {
	if limit <= 0 {
		limit = DefaultLimit
	}
	places, err := f.search(ctx, place, keyword, limit)
	if err != nil {
		f.logger.Warn("Foursquare search failed", "place", place, "query", keyword, "error", err)
		return PlaceResult{Err: &SourceError{Source: f.Name(), Err: err}}
	}
	return PlaceResult{Places: places}
}

func (f *Foursquare) search(ctx context.Context, place, keyword string, limit int) ([]string, error) {
	if f.apiKey == "" {
		return nil, errMissingAPIKey
	}

	params := url.Values{}
	params.Set("near", place)
	params.Set("query", keyword)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/places/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var data foursquareResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]string, 0, len(data.Results))
	for _, item := range data.Results {
		address := item.Location.FormattedAddress
		if address == "" {
			address = addressNotAvailable
		}
		results = append(results, fmt.Sprintf("%s (%s)", item.Name, address))
	}
	return results, nil
}

// statusError describes a non-2xx response, including the start of its body.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return fmt.Errorf("unexpected status %s: %s", resp.Status, text)
}
