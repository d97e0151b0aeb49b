package chat

import (
	"fmt"

	"gorm.io/gorm"

	"jobconnect-server/internal/models"
)

// MessageStore is the durable record of every sent message.
type MessageStore interface {
	Create(msg *models.Message) error

	// ListBetween returns messages exchanged between two users in either
	// direction, oldest first, paginated with a 0-based page index.
	ListBetween(userA, userB string, page, size int) ([]models.Message, error)

	// MarkRead flips every unread message from senderID to receiverID to
	// read and returns the number of rows updated. Idempotent.
	MarkRead(receiverID, senderID string) (int64, error)

	// CountUnread returns how many unread messages receiverID has from senderID.
	CountUnread(receiverID, senderID string) (int64, error)
}

type gormMessageStore struct {
	db *gorm.DB
}

// NewMessageStore returns a MessageStore backed by the messages table.
func NewMessageStore(db *gorm.DB) MessageStore {
	return &gormMessageStore{db: db}
}

func (s *gormMessageStore) Create(msg *models.Message) error {
	if err := s.db.Create(msg).Error; err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

func (s *gormMessageStore) ListBetween(userA, userB string, page, size int) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC").
		Offset(page * size).
		Limit(size).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *gormMessageStore) MarkRead(receiverID, senderID string) (int64, error) {
	result := s.db.Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *gormMessageStore) CountUnread(receiverID, senderID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
