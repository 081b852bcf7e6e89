package hub

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a reachable Redis; set TEST_REDIS_ADDR to run.
func TestRedisRelay_DeliversAcrossInstances(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := "task-tracker-test:" + uuid.NewString()
	local, remote := New(4), New(4)
	publisher := NewRedisRelay(client, channel, local)
	go publisher.Run(ctx)
	go NewRedisRelay(client, channel, remote).Run(ctx)

	sub := remote.Subscribe(ChatRoom)
	require.Eventually(t, func() bool {
		_ = publisher.Publish(ctx, Envelope{Room: ChatRoom, Message: &Message{Room: ChatRoom, Message: "hi"}})
		select {
		case msg := <-sub.Messages():
			return msg.Message == "hi"
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 100*time.Millisecond)

	assert.Equal(t, 0, local.Members(ChatRoom))
}

func unreachableClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisRelay_DeliverHonoursExcept(t *testing.T) {
	h := New(4)
	relay := NewRedisRelay(unreachableClient(t), "rooms", h)

	room := UserRoom(7)
	phone := h.Subscribe(room)
	laptop := h.Subscribe(room)

	sentAt := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(Envelope{
		Room:   room,
		Except: phone.ID,
		Message: &Message{
			Room:      room,
			Message:   "ping",
			Event:     "chat",
			Sender:    7,
			ProjectID: 3,
			TaskID:    9,
			SentAt:    sentAt,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, relay.deliver(string(payload)))

	msg := <-laptop.Messages()
	assert.Equal(t, "ping", msg.Message)
	assert.Equal(t, room, msg.Room)
	assert.Equal(t, uint64(7), msg.Sender)
	assert.Equal(t, uint64(3), msg.ProjectID)
	assert.Equal(t, uint64(9), msg.TaskID)
	assert.True(t, sentAt.Equal(msg.SentAt))
	assert.Empty(t, phone.Messages())
}

func TestRedisRelay_DeliverDropsMalformedPayloads(t *testing.T) {
	h := New(4)
	relay := NewRedisRelay(unreachableClient(t), "rooms", h)
	sub := h.Subscribe(ChatRoom)

	assert.Equal(t, 0, relay.deliver("{"))
	assert.Equal(t, 0, relay.deliver(`{"room":"chat"}`))
	assert.Empty(t, sub.Messages())
}

func TestRedisRelay_UnreachableRedis(t *testing.T) {
	relay := NewRedisRelay(unreachableClient(t), "rooms", New(4))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := relay.Publish(ctx, Envelope{Room: ChatRoom, Message: &Message{Room: ChatRoom, Message: "hi"}})
	assert.ErrorContains(t, err, "failed to publish relay message")

	assert.ErrorContains(t, relay.Run(ctx), "failed to subscribe")
}
