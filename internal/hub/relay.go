package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisRelay publishes room messages on a Redis channel so that every
// instance subscribed to it delivers them to its local members.
type RedisRelay struct {
	client  redis.UniversalClient
	channel string
	hub     *Hub
}

// NewRedisRelay creates a relay that delivers into hub.
func NewRedisRelay(client redis.UniversalClient, channel string, hub *Hub) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
	}
}

// Publish sends the envelope to all instances, this one included.
func (r *RedisRelay) Publish(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode relay message: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		relayErrors.Inc()
		return fmt.Errorf("failed to publish relay message: %w", err)
	}
	return nil
}

// Run consumes the relay channel until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.deliver(msg.Payload)
		}
	}
}

// deliver decodes one relay payload and hands it to the local members.
// It returns the number of members reached.
func (r *RedisRelay) deliver(payload string) int {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil || env.Message == nil {
		relayErrors.Inc()
		log.Printf("hub: dropping malformed relay message: %v", err)
		return 0
	}
	return r.hub.Deliver(env.Room, env.Message, env.Except)
}
