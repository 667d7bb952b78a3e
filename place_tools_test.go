package travelpod

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPlaceSearchSkill(t *testing.T) {
	skill := NewPlaceSearchSkill(newTestLookup())

	if skill.Name != "PlaceSearch" {
		t.Fatalf("Expected skill name PlaceSearch, got %s", skill.Name)
	}
	wantNames := []string{"search_attractions", "search_restaurants", "search_activities", "search_transportation"}
	names := skill.ToolNames()
	if strings.Join(names, ",") != strings.Join(wantNames, ",") {
		t.Fatalf("Expected tools %v, got %v", wantNames, names)
	}

	tool, err := skill.GetTool("search_restaurants")
	if err != nil {
		t.Fatalf("Failed to get tool: %v", err)
	}
	if tool.Description() != "Search restaurants of a place" {
		t.Errorf("Unexpected description %q", tool.Description())
	}
	if tool.StatusMessage() != "Looking up restaurants" {
		t.Errorf("Unexpected status message %q", tool.StatusMessage())
	}

	if _, err := skill.GetTool("search_hotels"); err == nil {
		t.Error("Expected error for unknown tool")
	}
	if len(skill.GetTools()) != 4 {
		t.Errorf("Expected 4 tool params, got %d", len(skill.GetTools()))
	}
}

func TestPlaceToolSchema(t *testing.T) {
	skill := NewPlaceSearchSkill(newTestLookup())
	params := skill.GetTools()[0]

	if params.Function.Name != "search_attractions" {
		t.Fatalf("Unexpected function name %s", params.Function.Name)
	}
	schema := params.Function.Parameters
	if schema["type"] != "object" {
		t.Errorf("Expected object schema, got %v", schema["type"])
	}
	if _, ok := schema["$schema"]; ok {
		t.Error("Expected $schema to be removed")
	}
	properties, ok := schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected properties map, got %T", schema["properties"])
	}
	if _, ok := properties["place"]; !ok {
		t.Errorf("Expected place property, got %v", properties)
	}
	required, ok := schema["required"].([]interface{})
	if !ok || len(required) != 1 || required[0] != "place" {
		t.Errorf("Expected place to be required, got %v", schema["required"])
	}
}

func TestPlaceToolExecute(t *testing.T) {
	skill := NewPlaceSearchSkill(newTestLookup())
	tool, _ := skill.GetTool("search_restaurants")
	ctx := context.Background()

	t.Run("ValidPlace", func(t *testing.T) {
		output, err := tool.Execute(ctx, map[string]interface{}{"place": "  Paris "})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := "Following are the restaurants of Paris as suggested by Foursquare: Le Jules Verne (Eiffel Tower, Paris)"
		if output != want {
			t.Fatalf("Expected %q, got %q", want, output)
		}
	})

	for name, args := range map[string]map[string]interface{}{
		"Missing":   {},
		"Blank":     {"place": "   "},
		"NotString": {"place": 42},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tool.Execute(ctx, args)
			var retErr *RetryableError
			if !errors.As(err, &retErr) {
				t.Fatalf("Expected RetryableError, got %v", err)
			}
		})
	}
}
