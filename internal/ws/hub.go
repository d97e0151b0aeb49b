package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// presenceKey is the Redis set holding the principals with at least one live
// connection.
const presenceKey = "chat:online_users"

// TypingFunc handles a typing-state frame received from a connected client.
type TypingFunc func(senderID, receiverID string, isTyping bool)

// Envelope is the frame pushed to clients: the topic the event belongs to
// plus the event payload itself.
type Envelope struct {
	Topic string      `json:"topic"`
	Data  interface{} `json:"data"`
}

// Hub owns the live-connection registry: principal -> set of connections.
// It implements the chat core's Publisher capability; the core never sees
// individual connections.
type Hub struct {
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	// Optional presence tracking; nil disables it.
	redis *redis.Client

	// Invoked for inbound chat.typing / chat.stopTyping frames. Must be set
	// before Run.
	Typing TypingFunc
}

// NewHub creates a Hub. rdb may be nil when presence tracking is disabled.
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		redis:      rdb,
	}
}

// Run processes connect and disconnect events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	if h.clients[client.principal] == nil {
		h.clients[client.principal] = make(map[*Client]bool)
	}
	h.clients[client.principal][client] = true
	h.mu.Unlock()

	if h.redis != nil {
		if err := h.redis.SAdd(context.Background(), presenceKey, client.principal).Err(); err != nil {
			log.Printf("failed to set presence for %s: %v", client.principal, err)
		}
	}
	log.Printf("client connected as principal %s", client.principal)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	last := false
	if clients, ok := h.clients[client.principal]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)
			if len(clients) == 0 {
				delete(h.clients, client.principal)
				last = true
			}
		}
	}
	h.mu.Unlock()

	if last && h.redis != nil {
		if err := h.redis.SRem(context.Background(), presenceKey, client.principal).Err(); err != nil {
			log.Printf("failed to clear presence for %s: %v", client.principal, err)
		}
	}
	log.Printf("client disconnected from principal %s", client.principal)
}

// Publish fans an event out to every live connection of the principal. A
// principal with no connections is a silent no-op; a connection with a full
// send buffer drops the frame rather than block the caller.
func (h *Hub) Publish(principal, topic string, payload interface{}) error {
	data, err := json.Marshal(Envelope{Topic: topic, Data: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[principal] {
		select {
		case client.send <- data:
		default:
		}
	}
	return nil
}

// IsOnline reports whether the principal has at least one live connection.
// Prefers the shared Redis set so the answer holds across instances, falling
// back to the local registry.
func (h *Hub) IsOnline(ctx context.Context, principal string) bool {
	if h.redis != nil {
		online, err := h.redis.SIsMember(ctx, presenceKey, principal).Result()
		if err == nil {
			return online
		}
		log.Printf("presence lookup failed for %s, using local registry: %v", principal, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[principal]) > 0
}
