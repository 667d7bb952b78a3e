package travelpod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var _ Storage = &PostgresStorage{}

// conversationRecord is the gorm model of the conversations table.
type conversationRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID        string    `gorm:"not null;uniqueIndex"`
	UserMessage      string    `gorm:"type:text"`
	AssistantMessage string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (conversationRecord) TableName() string {
	return "conversations"
}

func (r *conversationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// PostgresStorage implements the Storage interface on PostgreSQL via gorm.
type PostgresStorage struct {
	db *gorm.DB
}

// NewPostgresStorage connects to the database at dsn. The schema is created by InitDB.
func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PostgresStorage{db: db}, nil
}

// InitDB creates or migrates the conversations table.
func (s *PostgresStorage) InitDB() error {
	if err := s.db.AutoMigrate(&conversationRecord{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PostgresStorage) CreateConversation(ctx context.Context, sessionID string, userMessage string) error {
	record := conversationRecord{SessionID: sessionID, UserMessage: userMessage}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (s *PostgresStorage) FinishConversation(ctx context.Context, sessionID string, assistantMessage string) error {
	result := s.db.WithContext(ctx).
		Model(&conversationRecord{}).
		Where("session_id = ?", sessionID).
		Update("assistant_message", assistantMessage)
	if result.Error != nil {
		return fmt.Errorf("failed to update conversation with assistant message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no conversation found with session_id: %s", sessionID)
	}
	return nil
}

func (s *PostgresStorage) GetConversations(ctx context.Context, limit int, offset int) ([]Conversation, error) {
	var records []conversationRecord
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}

	conversations := make([]Conversation, 0, len(records))
	for _, record := range records {
		conversations = append(conversations, Conversation{
			SessionID:        record.SessionID,
			UserMessage:      record.UserMessage,
			AssistantMessage: record.AssistantMessage,
			CreatedAt:        record.CreatedAt,
			UpdatedAt:        record.UpdatedAt,
		})
	}
	return conversations, nil
}
