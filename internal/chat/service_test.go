package chat

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobconnect-server/internal/models"
)

// In-memory fakes for the chat collaborators. The fake conversation index
// keys rows by the canonical pair under a mutex, which gives it the same
// at-most-one-row-per-pair behavior the unique index gives the real one.

type fakeDirectory struct {
	ids map[string]bool
}

func (d *fakeDirectory) Exists(userID string) (bool, error) {
	return d.ids[userID], nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []*models.Message
	seq      int
	now      time.Time
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *fakeMessageStore) Create(msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	msg.ID = fmt.Sprintf("msg-%d", s.seq)
	msg.CreatedAt = s.now.Add(time.Duration(s.seq) * time.Second)
	msg.UpdatedAt = msg.CreatedAt
	stored := *msg
	s.messages = append(s.messages, &stored)
	return nil
}

func (s *fakeMessageStore) ListBetween(userA, userB string, page, size int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var between []models.Message
	for _, m := range s.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			between = append(between, *m)
		}
	}
	sort.Slice(between, func(i, j int) bool { return between[i].CreatedAt.Before(between[j].CreatedAt) })

	start := page * size
	if start >= len(between) {
		return nil, nil
	}
	end := start + size
	if end > len(between) {
		end = len(between)
	}
	return between[start:end], nil
}

func (s *fakeMessageStore) MarkRead(receiverID, senderID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var updated int64
	for _, m := range s.messages {
		if m.ReceiverID == receiverID && m.SenderID == senderID && !m.Read {
			m.Read = true
			updated++
		}
	}
	return updated, nil
}

func (s *fakeMessageStore) CountUnread(receiverID, senderID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, m := range s.messages {
		if m.ReceiverID == receiverID && m.SenderID == senderID && !m.Read {
			count++
		}
	}
	return count, nil
}

type fakeConversationIndex struct {
	mu     sync.Mutex
	byPair map[string]*models.Conversation
	seq    int
}

func newFakeConversationIndex() *fakeConversationIndex {
	return &fakeConversationIndex{byPair: make(map[string]*models.Conversation)}
}

func (i *fakeConversationIndex) FindOrCreate(userA, userB string) (*models.Conversation, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	a, b := models.PairKey(userA, userB)
	key := a + "|" + b
	if conv, ok := i.byPair[key]; ok {
		return conv, nil
	}
	i.seq++
	now := time.Now()
	conv := &models.Conversation{UserAID: a, UserBID: b}
	conv.ID = fmt.Sprintf("conv-%d", i.seq)
	conv.CreatedAt = now
	conv.UpdatedAt = now
	i.byPair[key] = conv
	return conv, nil
}

func (i *fakeConversationIndex) Touch(conv *models.Conversation, msg *models.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	conv.LastMessageID = &msg.ID
	last := *msg
	conv.LastMessage = &last
	conv.UpdatedAt = time.Now()
	return nil
}

func (i *fakeConversationIndex) ListForUser(userID string) ([]models.Conversation, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	var conversations []models.Conversation
	for _, conv := range i.byPair {
		if conv.Involves(userID) {
			conversations = append(conversations, *conv)
		}
	}
	sort.Slice(conversations, func(a, b int) bool {
		return conversations[a].UpdatedAt.After(conversations[b].UpdatedAt)
	})
	return conversations, nil
}

func (i *fakeConversationIndex) count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.byPair)
}

type fakeResolver struct {
	profiles map[string]Profile
}

func (r *fakeResolver) Resolve(userID string) Profile {
	if p, ok := r.profiles[userID]; ok {
		return p
	}
	return FallbackProfile(userID)
}

type published struct {
	principal string
	topic     string
	payload   PushPayload
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *fakePublisher) Publish(principal, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, published{principal: principal, topic: topic, payload: payload.(PushPayload)})
	return nil
}

type serviceFixture struct {
	service   *Service
	store     *fakeMessageStore
	index     *fakeConversationIndex
	publisher *fakePublisher
}

func newServiceFixture(profiles map[string]Profile, knownUsers ...string) *serviceFixture {
	ids := make(map[string]bool, len(knownUsers))
	for _, id := range knownUsers {
		ids[id] = true
	}
	store := newFakeMessageStore()
	index := newFakeConversationIndex()
	publisher := &fakePublisher{}
	resolver := &fakeResolver{profiles: profiles}
	service := NewService(&fakeDirectory{ids: ids}, store, index, resolver, NewDispatcher(publisher, resolver))
	return &serviceFixture{service: service, store: store, index: index, publisher: publisher}
}

func TestSendMessageRoundTrip(t *testing.T) {
	f := newServiceFixture(nil, "user-1", "user-2")

	msg, err := f.service.SendMessage("user-1", "user-2", "  hello there  ", "")
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "hello there", msg.Content, "content is trimmed before storage")
	assert.Equal(t, models.MessageKindText, msg.Kind)
	assert.False(t, msg.Read)
	assert.False(t, msg.CreatedAt.IsZero())

	page, err := f.service.ListBetween("user-1", "user-2", 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "hello there", page[0].Content)
	assert.Equal(t, "user-1", page[0].SenderID)
	assert.Equal(t, "user-2", page[0].ReceiverID)
	assert.False(t, page[0].Read)

	// The push targeted the receiver's principal.
	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, "user-2", event.principal)
	assert.Equal(t, TopicMessages, event.topic)
	assert.Equal(t, EventMessage, event.payload.Type)
	assert.Equal(t, msg.ID, event.payload.ID)
}

func TestSendMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "   \t  "},
		{"over max length", strings.Repeat("x", models.MaxContentLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(nil, "user-1", "user-2")

			_, err := f.service.SendMessage("user-1", "user-2", tt.content, "")
			assert.ErrorIs(t, err, ErrInvalidContent)

			// Nothing was written anywhere.
			assert.Empty(t, f.store.messages)
			assert.Zero(t, f.index.count())
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestSendMessageUnknownAccount(t *testing.T) {
	f := newServiceFixture(nil, "user-1")

	_, err := f.service.SendMessage("user-1", "ghost", "hi", "")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = f.service.SendMessage("ghost", "user-1", "hi", "")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	assert.Empty(t, f.store.messages)
	assert.Zero(t, f.index.count())
}

func TestSendSucceedsWithoutLiveChannel(t *testing.T) {
	f := newServiceFixture(nil, "user-1", "user-2")
	f.publisher.err = errors.New("receiver has no live channel")

	msg, err := f.service.SendMessage("user-1", "user-2", "x", "")
	require.NoError(t, err, "a failed push must never fail the send")

	page, err := f.service.ListBetween("user-1", "user-2", 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, msg.ID, page[0].ID)
}

func TestConversationDeduplication(t *testing.T) {
	f := newServiceFixture(map[string]Profile{
		"user-2": {UserID: "user-2", Type: ProfileTypeCompany, FullName: "Acme Corp"},
	}, "user-1", "user-2")

	_, err := f.service.SendMessage("user-1", "user-2", "hi", "")
	require.NoError(t, err)
	_, err = f.service.SendMessage("user-2", "user-1", "hello", "")
	require.NoError(t, err)

	assert.Equal(t, 1, f.index.count(), "opposite directions share one conversation")

	views, err := f.service.ListConversations("user-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "user-2", views[0].OtherUser.UserID)
	assert.Equal(t, "Acme Corp", views[0].OtherUser.FullName)
	require.NotNil(t, views[0].LastMessage)
	assert.Equal(t, "hello", views[0].LastMessage.Content)
	assert.Equal(t, "user-2", views[0].LastMessage.SenderID)
	assert.Equal(t, int64(1), views[0].UnreadCount)
}

func TestConcurrentSendsCreateOneConversation(t *testing.T) {
	f := newServiceFixture(nil, "user-1", "user-2")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.service.SendMessage("user-1", "user-2", "ping", "")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.service.SendMessage("user-2", "user-1", "pong", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.index.count())
}

func TestListBetweenPagination(t *testing.T) {
	f := newServiceFixture(nil, "user-1", "user-2")
	for _, content := range []string{"a", "b", "c"} {
		_, err := f.service.SendMessage("user-1", "user-2", content, "")
		require.NoError(t, err)
	}

	contents := func(messages []models.Message) []string {
		var out []string
		for _, m := range messages {
			out = append(out, m.Content)
		}
		return out
	}

	page0, err := f.service.ListBetween("user-1", "user-2", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, contents(page0))

	page1, err := f.service.ListBetween("user-1", "user-2", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, contents(page1))

	// Order-independent: the same history regardless of argument order.
	reversed, err := f.service.ListBetween("user-2", "user-1", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, contents(page0), contents(reversed))

	// Non-decreasing creation order within a page.
	all, err := f.service.ListBetween("user-1", "user-2", 0, 10)
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.Before(all[i-1].CreatedAt))
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	f := newServiceFixture(nil, "user-1", "user-2")
	for _, content := range []string{"one", "two", "three"} {
		_, err := f.service.SendMessage("user-1", "user-2", content, "")
		require.NoError(t, err)
	}

	updated, err := f.service.MarkRead("user-2", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	// Re-invocation touches nothing.
	updated, err = f.service.MarkRead("user-2", "user-1")
	require.NoError(t, err)
	assert.Zero(t, updated)

	all, err := f.service.ListBetween("user-1", "user-2", 0, 10)
	require.NoError(t, err)
	for _, m := range all {
		assert.True(t, m.Read)
	}

	// A later message starts unread again.
	_, err = f.service.SendMessage("user-1", "user-2", "four", "")
	require.NoError(t, err)

	all, err = f.service.ListBetween("user-1", "user-2", 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.False(t, all[3].Read)

	updated, err = f.service.MarkRead("user-2", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
}

func TestListConversationsFallbackProfile(t *testing.T) {
	f := newServiceFixture(nil, "user-1", "user-2")

	_, err := f.service.SendMessage("user-1", "user-2", "hi", "")
	require.NoError(t, err)

	views, err := f.service.ListConversations("user-2")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, ProfileTypeUser, views[0].OtherUser.Type)
	assert.Equal(t, "Unknown User", views[0].OtherUser.FullName)
}
