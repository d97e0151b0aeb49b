package chat

import (
	"log"
	"time"

	"jobconnect-server/internal/models"
)

// Topics a connected client is pushed to, scoped under its own principal.
const (
	TopicMessages = "queue/messages"
	TopicTyping   = "queue/typing"
)

// Event types carried in push payloads.
const (
	EventMessage    = "message"
	EventTyping     = "typing"
	EventStopTyping = "stopTyping"
)

// Publisher is the injected capability for reaching a user's live
// connections. The chat core never owns or enumerates connections; an absent
// principal is a silent no-op on the publisher side.
type Publisher interface {
	Publish(principal, topic string, payload interface{}) error
}

// PushPayload is the wire shape of a real-time event pushed to a client.
type PushPayload struct {
	ID                    string     `json:"id,omitempty"`
	Content               string     `json:"content,omitempty"`
	SenderID              string     `json:"senderId"`
	SenderName            string     `json:"senderName,omitempty"`
	SenderProfileImageURL string     `json:"senderProfileImageUrl,omitempty"`
	ReceiverID            string     `json:"receiverId"`
	CreatedAt             *time.Time `json:"createdAt,omitempty"`
	Type                  string     `json:"type"`
}

// Dispatcher pushes freshly persisted messages and ephemeral typing events to
// the receiver's live connections. Delivery is best effort: failures are
// logged and never surfaced, the history endpoints are the durable path.
type Dispatcher struct {
	publisher Publisher
	profiles  ProfileResolver
}

// NewDispatcher creates a Dispatcher over the given publisher and resolver.
func NewDispatcher(publisher Publisher, profiles ProfileResolver) *Dispatcher {
	return &Dispatcher{publisher: publisher, profiles: profiles}
}

// MessageSent pushes a stored message to the receiver, decorated with the
// sender's display profile.
func (d *Dispatcher) MessageSent(msg *models.Message) {
	profile := d.profiles.Resolve(msg.SenderID)

	createdAt := msg.CreatedAt
	payload := PushPayload{
		ID:                    msg.ID,
		Content:               msg.Content,
		SenderID:              msg.SenderID,
		SenderName:            profile.FullName,
		SenderProfileImageURL: profile.ProfileImageURL,
		ReceiverID:            msg.ReceiverID,
		CreatedAt:             &createdAt,
		Type:                  EventMessage,
	}

	if err := d.publisher.Publish(msg.ReceiverID, TopicMessages, payload); err != nil {
		log.Printf("failed to push message %s to user %s: %v", msg.ID, msg.ReceiverID, err)
	}
}

// Typing relays a typing-state change to the receiver. Nothing is persisted
// and no acknowledgment is expected.
func (d *Dispatcher) Typing(senderID, receiverID string, isTyping bool) {
	eventType := EventTyping
	if !isTyping {
		eventType = EventStopTyping
	}

	payload := PushPayload{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       eventType,
	}

	if err := d.publisher.Publish(receiverID, TopicTyping, payload); err != nil {
		log.Printf("failed to push typing state to user %s: %v", receiverID, err)
	}
}
