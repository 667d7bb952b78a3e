package travelpod

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStorage(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "test_conversations.db")

	storage, err := NewSQLiteStorage(dbFile)
	if err != nil {
		t.Fatalf("Failed to initialize SQLite storage: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()
	sessionID := "test-session"

	t.Run("CreateConversation", func(t *testing.T) {
		err := storage.CreateConversation(ctx, sessionID, "Plan two days in Lisbon")
		if err != nil {
			t.Fatalf("Failed to create conversation: %v", err)
		}

		// Same session ID violates the UNIQUE constraint
		err = storage.CreateConversation(ctx, sessionID, "Another message")
		if err == nil {
			t.Fatalf("Expected error when creating duplicate conversation, but got none")
		}
	})

	t.Run("FinishConversation", func(t *testing.T) {
		err := storage.FinishConversation(ctx, sessionID, "Start at Belém Tower.")
		if err != nil {
			t.Fatalf("Failed to finish conversation: %v", err)
		}

		err = storage.FinishConversation(ctx, "non-existent-session", "This should fail")
		if err == nil {
			t.Fatalf("Expected error when finishing non-existent conversation, but got none")
		}
	})

	t.Run("GetConversations", func(t *testing.T) {
		if err := storage.CreateConversation(ctx, "second-session", "Where to eat in Porto?"); err != nil {
			t.Fatalf("Failed to create conversation: %v", err)
		}

		conversations, err := storage.GetConversations(ctx, 10, 0)
		if err != nil {
			t.Fatalf("Failed to get conversations: %v", err)
		}
		if len(conversations) != 2 {
			t.Fatalf("Expected 2 conversations, but got %d", len(conversations))
		}

		// Newest first
		if conversations[0].SessionID != "second-session" {
			t.Fatalf("Expected newest conversation first, got %s", conversations[0].SessionID)
		}
		if conversations[0].AssistantMessage != "" {
			t.Fatalf("Expected unfinished conversation to have no answer, got %q", conversations[0].AssistantMessage)
		}
		if conversations[1].UserMessage != "Plan two days in Lisbon" {
			t.Fatalf("Unexpected user message %q", conversations[1].UserMessage)
		}
		if conversations[1].AssistantMessage != "Start at Belém Tower." {
			t.Fatalf("Unexpected assistant message %q", conversations[1].AssistantMessage)
		}

		page, err := storage.GetConversations(ctx, 1, 1)
		if err != nil {
			t.Fatalf("Failed to get conversations: %v", err)
		}
		if len(page) != 1 || page[0].SessionID != sessionID {
			t.Fatalf("Expected offset page to hold %s, got %+v", sessionID, page)
		}
	})
}
