package travelpod

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var _ Storage = &SQLiteStorage{}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens the database file at dbPath and creates the schema if
// it doesn't exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initDB(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initDB() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		user_message TEXT,
		assistant_message TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(session_id)
	);`

	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) GetConversations(ctx context.Context, limit int, offset int) ([]Conversation, error) {
	query := `
	SELECT session_id, user_message, assistant_message, created_at, updated_at
	FROM conversations
	ORDER BY created_at DESC, id DESC
	LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	conversations := []Conversation{}
	for rows.Next() {
		var conversation Conversation
		var userMsg, assistantMsg sql.NullString
		if err := rows.Scan(&conversation.SessionID, &userMsg, &assistantMsg, &conversation.CreatedAt, &conversation.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		conversation.UserMessage = userMsg.String
		conversation.AssistantMessage = assistantMsg.String
		conversations = append(conversations, conversation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return conversations, nil
}

// CreateConversation stores a new conversation with the user message.
// The session ID is the unique identifier for the conversation.
func (s *SQLiteStorage) CreateConversation(ctx context.Context, sessionID string, userMessage string) error {
	query := `
	INSERT INTO conversations (session_id, user_message, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	`

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, query, sessionID, userMessage, now, now); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// FinishConversation updates an existing conversation with the assistant's response.
func (s *SQLiteStorage) FinishConversation(ctx context.Context, sessionID string, assistantMessage string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM conversations WHERE session_id = ?)", sessionID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check conversation existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("no conversation found with session_id: %s", sessionID)
	}

	query := `
	UPDATE conversations
	SET assistant_message = ?, updated_at = ?
	WHERE session_id = ?
	`

	if _, err := s.db.ExecContext(ctx, query, assistantMessage, time.Now().UTC(), sessionID); err != nil {
		return fmt.Errorf("failed to update conversation with assistant message: %w", err)
	}
	return nil
}
