package chat

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"jobconnect-server/internal/models"
)

// DefaultPageSize is used when a history request does not specify a size.
const DefaultPageSize = 20

// Service composes the message store, conversation index, profile resolver
// and dispatcher into the operations the HTTP layer exposes.
type Service struct {
	accounts      AccountDirectory
	messages      MessageStore
	conversations ConversationIndex
	profiles      ProfileResolver
	dispatcher    *Dispatcher
}

// NewService wires the chat service from its collaborators.
func NewService(accounts AccountDirectory, messages MessageStore, conversations ConversationIndex,
	profiles ProfileResolver, dispatcher *Dispatcher) *Service {
	return &Service{
		accounts:      accounts,
		messages:      messages,
		conversations: conversations,
		profiles:      profiles,
		dispatcher:    dispatcher,
	}
}

// SendMessage validates, persists and dispatches a message. Validation and
// account resolution happen before any write; a storage failure aborts the
// whole send; the real-time push happens last and cannot fail the send.
func (s *Service) SendMessage(senderID, receiverID, content string, kind models.MessageKind) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > models.MaxContentLength {
		return nil, ErrInvalidContent
	}
	if kind == "" {
		kind = models.MessageKindText
	}

	for _, id := range []string{senderID, receiverID} {
		exists, err := s.accounts.Exists(id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
		}
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Kind:       kind,
	}
	if err := s.messages.Create(msg); err != nil {
		return nil, err
	}

	conv, err := s.conversations.FindOrCreate(senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.Touch(conv, msg); err != nil {
		return nil, err
	}

	// Best effort from here on: the message is durable, a missed push only
	// delays visibility until the receiver's next history fetch.
	s.dispatcher.MessageSent(msg)

	return msg, nil
}

// ListBetween returns one page of the message history between two users,
// oldest first. Identical regardless of argument order.
func (s *Service) ListBetween(userA, userB string, page, size int) ([]models.Message, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return s.messages.ListBetween(userA, userB, page, size)
}

// MarkRead marks every unread message from senderID to receiverID as read
// and returns how many were updated.
func (s *Service) MarkRead(receiverID, senderID string) (int64, error) {
	return s.messages.MarkRead(receiverID, senderID)
}

// Typing relays a typing-state change from sender to receiver.
func (s *Service) Typing(senderID, receiverID string, isTyping bool) {
	s.dispatcher.Typing(senderID, receiverID, isTyping)
}

// LastMessageSummary is the inbox preview of a conversation's newest message.
type LastMessageSummary struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	SenderID  string    `json:"senderId"`
}

// ConversationView is one inbox entry: the conversation decorated with the
// other participant's profile and a last-message preview.
type ConversationView struct {
	ConversationID string              `json:"conversationId"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	OtherUser      Profile             `json:"otherUser"`
	LastMessage    *LastMessageSummary `json:"lastMessage,omitempty"`
	UnreadCount    int64               `json:"unreadCount"`
}

// ListConversations returns the user's inbox, most recently active first.
// Profile decoration and unread counts degrade silently; they never fail the
// listing.
func (s *Service) ListConversations(userID string) ([]ConversationView, error) {
	conversations, err := s.conversations.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		otherID := conv.Other(userID)

		view := ConversationView{
			ConversationID: conv.ID,
			CreatedAt:      conv.CreatedAt,
			UpdatedAt:      conv.UpdatedAt,
			OtherUser:      s.profiles.Resolve(otherID),
		}
		if conv.LastMessage != nil {
			view.LastMessage = &LastMessageSummary{
				Content:   conv.LastMessage.Content,
				CreatedAt: conv.LastMessage.CreatedAt,
				SenderID:  conv.LastMessage.SenderID,
			}
		}
		if count, err := s.messages.CountUnread(userID, otherID); err == nil {
			view.UnreadCount = count
		}
		views = append(views, view)
	}
	return views, nil
}
