package notify

import (
	"context"
	"log"
	"sync"
)

// Notifier receives committed domain events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Emitter is what services depend on to announce events.
type Emitter interface {
	Emit(ctx context.Context, events ...Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev Event) error

func (f NotifierFunc) Notify(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Bus fans events out to every registered notifier. Notifier failures and
// panics are logged and never reach the emitter.
type Bus struct {
	mu        sync.RWMutex
	notifiers []Notifier
}

func NewBus(notifiers ...Notifier) *Bus {
	return &Bus{notifiers: notifiers}
}

// Register adds a notifier.
func (b *Bus) Register(n Notifier) {
	b.mu.Lock()
	b.notifiers = append(b.notifiers, n)
	b.mu.Unlock()
}

// Emit delivers events in order.
func (b *Bus) Emit(ctx context.Context, events ...Event) {
	b.mu.RLock()
	notifiers := make([]Notifier, len(b.notifiers))
	copy(notifiers, b.notifiers)
	b.mu.RUnlock()

	for _, ev := range events {
		emitted.WithLabelValues(string(ev.Kind)).Inc()
		for _, n := range notifiers {
			dispatch(ctx, n, ev)
		}
	}
}

func dispatch(ctx context.Context, n Notifier, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			failures.WithLabelValues(string(ev.Kind)).Inc()
			log.Printf("notify: notifier panicked on %s for user %d: %v", ev.Kind, ev.RecipientID, r)
		}
	}()

	if err := n.Notify(ctx, ev); err != nil {
		failures.WithLabelValues(string(ev.Kind)).Inc()
		log.Printf("notify: %s for user %d failed: %v", ev.Kind, ev.RecipientID, err)
	}
}

// Discard is an Emitter that drops everything.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(context.Context, ...Event) {}
