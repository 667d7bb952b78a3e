package travelpod

import (
	"context"
	"time"
)

// Conversation is one stored query and the answer the agent gave for it.
type Conversation struct {
	SessionID        string    `json:"session_id"`
	UserMessage      string    `json:"user_message"`
	AssistantMessage string    `json:"assistant_message"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Storage records conversations keyed by session ID.
type Storage interface {
	CreateConversation(ctx context.Context, sessionID string, userMessage string) error
	FinishConversation(ctx context.Context, sessionID string, assistantMessage string) error
	// GetConversations lists conversations, newest first.
	GetConversations(ctx context.Context, limit int, offset int) ([]Conversation, error)
	Close() error
}
