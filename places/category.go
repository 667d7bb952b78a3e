// Package places implements the place search tools used by the travel agent.
// Each category is looked up in a structured places directory first and falls
// back to a web search when the directory has nothing usable.
package places

import (
	"fmt"
	"strings"
)

// Category describes one kind of travel information the agent can ask for.
type Category struct {
	// ID is the short identifier used in tool names, e.g. "restaurants".
	ID string
	// Keyword is sent as the query to the structured source.
	Keyword string
	// Noun is used when composing the answer, e.g. "modes of transportation".
	Noun string

	question string
}

var (
	Attractions = Category{
		ID:       "attractions",
		Keyword:  "attractions",
		Noun:     "attractions",
		question: "top attractive places in and around %s",
	}
	Restaurants = Category{
		ID:       "restaurants",
		Keyword:  "restaurants",
		Noun:     "restaurants",
		question: "what are the top 10 restaurants and eateries in and around %s?",
	}
	Activities = Category{
		ID:       "activities",
		Keyword:  "arts & entertainment",
		Noun:     "activities",
		question: "popular activities and things to do in and around %s",
	}
	Transportation = Category{
		ID:       "transportation",
		Keyword:  "travel & transport",
		Noun:     "modes of transportation",
		question: "What are the different modes of transportation available in %s",
	}
)

// Categories returns every category in a stable order.
func Categories() []Category {
	return []Category{Attractions, Restaurants, Activities, Transportation}
}

// ParseCategory finds a category by its ID, ignoring case and surrounding space.
func ParseCategory(id string) (Category, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range Categories() {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("unknown category %q", id)
}

// Question returns the natural-language web search question for place.
func (c Category) Question(place string) string {
	return fmt.Sprintf(c.question, place)
}

func (c Category) String() string {
	return c.ID
}

// Query is a single lookup request.
type Query struct {
	Place    string
	Category Category
}
