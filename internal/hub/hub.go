// Package hub keeps the registry of websocket rooms and fans room messages
// out to their subscribers.
package hub

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// ChatRoom is the shared room every chat connection joins.
	ChatRoom = "chat"

	userRoomPrefix = "notification_"
)

// UserRoom returns the personal notification room of a user.
func UserRoom(userID uint64) string {
	return userRoomPrefix + strconv.FormatUint(userID, 10)
}

// Message is the payload delivered to room members.
type Message struct {
	Room      string    `json:"room"`
	Message   string    `json:"message"`
	Event     string    `json:"event,omitempty"`
	Sender    uint64    `json:"sender,omitempty"`
	ProjectID uint64    `json:"project_id,omitempty"`
	TaskID    uint64    `json:"task_id,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

// Envelope addresses a message to a room. Except names a subscription that
// must not receive it.
type Envelope struct {
	Room    string    `json:"room"`
	Except  uuid.UUID `json:"except"`
	Message *Message  `json:"message"`
}

// Publisher sends room messages to every subscriber, wherever it lives.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// Subscription is one connection's membership in a room.
type Subscription struct {
	ID   uuid.UUID
	Room string

	ch chan *Message
}

// Messages returns the channel the hub delivers to. It is closed after
// Unsubscribe.
func (s *Subscription) Messages() <-chan *Message {
	return s.ch
}

// Hub is a concurrency-safe room registry.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]map[uuid.UUID]*Subscription
	bufferSize int
}

// New creates a hub whose subscriptions buffer bufferSize messages.
func New(bufferSize int) *Hub {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Hub{
		rooms:      make(map[string]map[uuid.UUID]*Subscription),
		bufferSize: bufferSize,
	}
}

// Subscribe joins a room, creating it on first use.
func (h *Hub) Subscribe(room string) *Subscription {
	sub := &Subscription{
		ID:   uuid.New(),
		Room: room,
		ch:   make(chan *Message, h.bufferSize),
	}

	h.mu.Lock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[uuid.UUID]*Subscription)
		h.rooms[room] = members
	}
	members[sub.ID] = sub
	h.mu.Unlock()

	subscriptions.WithLabelValues(roomKind(room)).Inc()
	return sub
}

// Unsubscribe removes exactly this subscription and drops the room once it
// is empty. Calling it twice is a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[sub.Room]
	if !ok {
		return
	}
	if _, ok := members[sub.ID]; !ok {
		return
	}

	delete(members, sub.ID)
	if len(members) == 0 {
		delete(h.rooms, sub.Room)
	}
	close(sub.ch)
	subscriptions.WithLabelValues(roomKind(sub.Room)).Dec()
}

// Deliver hands msg to every local member of room except the excluded
// subscription. A member whose buffer is full misses the message; the
// others are unaffected. It returns the number of members reached.
func (h *Hub) Deliver(room string, msg *Message, except uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	kind := roomKind(room)
	delivered := 0
	for id, sub := range h.rooms[room] {
		if id == except {
			continue
		}
		select {
		case sub.ch <- msg:
			delivered++
		default:
			dropped.WithLabelValues(kind).Inc()
		}
	}
	deliveries.WithLabelValues(kind).Add(float64(delivered))
	return delivered
}

// Publish delivers to local subscribers only.
func (h *Hub) Publish(_ context.Context, env Envelope) error {
	h.Deliver(env.Room, env.Message, env.Except)
	return nil
}

// Members returns the number of subscriptions in a room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// HasRoom reports whether the room currently exists.
func (h *Hub) HasRoom(room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[room]
	return ok
}

// Close unsubscribes everyone.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, members := range h.rooms {
		for _, sub := range members {
			close(sub.ch)
			subscriptions.WithLabelValues(roomKind(room)).Dec()
		}
	}
	h.rooms = make(map[string]map[uuid.UUID]*Subscription)
}

func roomKind(room string) string {
	if strings.HasPrefix(room, userRoomPrefix) {
		return "notification"
	}
	return room
}
