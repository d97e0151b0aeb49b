package chat

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jobconnect-server/internal/models"
)

// ConversationIndex maintains exactly one conversation record per unordered
// pair of participants.
type ConversationIndex interface {
	// FindOrCreate looks the pair up order-independently, creating the row
	// lazily on first contact. Safe under concurrent calls for the same pair.
	FindOrCreate(userA, userB string) (*models.Conversation, error)

	// Touch points the conversation at its newest message and refreshes the
	// updated timestamp.
	Touch(conv *models.Conversation, msg *models.Message) error

	// ListForUser returns the user's conversations, most recently updated
	// first, with the last message preloaded.
	ListForUser(userID string) ([]models.Conversation, error)
}

type gormConversationIndex struct {
	db *gorm.DB
}

// NewConversationIndex returns a ConversationIndex backed by the
// conversations table and its canonical-pair unique index.
func NewConversationIndex(db *gorm.DB) ConversationIndex {
	return &gormConversationIndex{db: db}
}

func (i *gormConversationIndex) FindOrCreate(userA, userB string) (*models.Conversation, error) {
	a, b := models.PairKey(userA, userB)

	conv, err := i.findPair(a, b)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up conversation: %w", err)
	}

	conv = &models.Conversation{UserAID: a, UserBID: b}
	if err := i.db.Create(conv).Error; err != nil {
		// Two first messages racing in opposite directions can both miss the
		// lookup above. The unique index on the canonical pair turns the
		// loser's insert into a second lookup of the winner's row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			conv, err = i.findPair(a, b)
			if err != nil {
				return nil, fmt.Errorf("failed to re-read conversation after conflict: %w", err)
			}
			return conv, nil
		}
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

func (i *gormConversationIndex) findPair(a, b string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := i.db.First(&conv, "user_a_id = ? AND user_b_id = ?", a, b).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (i *gormConversationIndex) Touch(conv *models.Conversation, msg *models.Message) error {
	err := i.db.Model(conv).Update("last_message_id", msg.ID).Error
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

func (i *gormConversationIndex) ListForUser(userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := i.db.
		Preload("LastMessage").
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}
