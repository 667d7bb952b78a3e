package travelpod

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/boat-builder/travelpod/places"
	"github.com/openai/openai-go"
)

// PlaceArgs are the arguments the model passes to every place search tool.
type PlaceArgs struct {
	Place string `json:"place" jsonschema:"description=Name of the city or place to search in and around"`
}

var _ Tool = &PlaceTool{}

// PlaceTool exposes one place category lookup as a tool.
type PlaceTool struct {
	category places.Category
	lookup   *places.Lookup
}

func NewPlaceTool(category places.Category, lookup *places.Lookup) *PlaceTool {
	return &PlaceTool{category: category, lookup: lookup}
}

func (p *PlaceTool) Name() string {
	return "search_" + p.category.ID
}

func (p *PlaceTool) Description() string {
	return fmt.Sprintf("Search %s of a place", p.category.ID)
}

func (p *PlaceTool) StatusMessage() string {
	return fmt.Sprintf("Looking up %s", p.category.Noun)
}

func (p *PlaceTool) OpenAI() []openai.ChatCompletionToolParam {
	return []openai.ChatCompletionToolParam{
		{
			Function: openai.FunctionDefinitionParam{
				Name:        p.Name(),
				Description: openai.String(p.Description()),
				Parameters:  GenerateSchema[PlaceArgs](),
			},
		},
	}
}

func (p *PlaceTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	place, ok := args["place"].(string)
	if !ok || strings.TrimSpace(place) == "" {
		return "", &RetryableError{Err: errors.New("argument 'place' must be a non-empty string")}
	}
	return p.lookup.Search(ctx, places.Query{Place: strings.TrimSpace(place), Category: p.category}), nil
}

// NewPlaceSearchSkill groups the four place search tools into one skill.
func NewPlaceSearchSkill(lookup *places.Lookup) *Skill {
	tools := make([]Tool, 0, len(places.Categories()))
	for _, category := range places.Categories() {
		tools = append(tools, NewPlaceTool(category, lookup))
	}
	return &Skill{
		Name:         "PlaceSearch",
		Description:  "Finds attractions, restaurants, activities and transportation for a place",
		SystemPrompt: "Use the place search tools to gather facts about the destination before answering. Call a tool once per place and category.",
		Tools:        tools,
	}
}
