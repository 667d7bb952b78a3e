package places

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Lookup searches a category with the structured source and falls back to the
// web source when the structured source fails or finds nothing.
type Lookup struct {
	structured StructuredSource
	web        WebSource
	limit      int
	logger     *slog.Logger
}

// NewLookup builds a Lookup. A non-positive limit uses DefaultLimit.
func NewLookup(structured StructuredSource, web WebSource, limit int) *Lookup {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Lookup{
		structured: structured,
		web:        web,
		limit:      limit,
		logger:     slog.Default(),
	}
}

func (l *Lookup) SetLogger(logger *slog.Logger) {
	l.logger = logger
}

// Search returns a human-readable answer for q. The answer is never empty.
func (l *Lookup) Search(ctx context.Context, q Query) string {
	backend := l.structured.Name()
	result := l.structured.Search(ctx, q.Place, q.Category.Keyword, l.limit)
	if result.Usable() {
		l.logger.Info("Structured search succeeded", "category", q.Category.ID, "place", q.Place, "source", backend, "count", len(result.Places))
		return fmt.Sprintf("Following are the %s of %s as suggested by %s: %s",
			q.Category.Noun, q.Place, backend, strings.Join(result.Places, "; "))
	}

	reason := fmt.Sprintf("No results from %s", backend)
	if result.Err != nil {
		reason = result.Err.Error()
	}
	l.logger.Info("Falling back to web search", "category", q.Category.ID, "place", q.Place, "reason", reason)

	webResult := l.web.Search(ctx, q.Category.Question(q.Place))
	return fmt.Sprintf("%s could not find details due to error: %s. \nFollowing are the %s of %s found via web search: %s",
		backend, reason, q.Category.Noun, q.Place, webResult)
}
