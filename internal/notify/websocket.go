package notify

import (
	"context"
	"time"

	"github.com/yukikurage/task-tracker/internal/hub"
)

// WebsocketNotifier pushes events into the recipient's personal room.
type WebsocketNotifier struct {
	publisher hub.Publisher
	now       func() time.Time
}

func NewWebsocketNotifier(publisher hub.Publisher) *WebsocketNotifier {
	return &WebsocketNotifier{publisher: publisher, now: time.Now}
}

func (n *WebsocketNotifier) Notify(ctx context.Context, ev Event) error {
	room := hub.UserRoom(ev.RecipientID)
	return n.publisher.Publish(ctx, hub.Envelope{
		Room: room,
		Message: &hub.Message{
			Room:      room,
			Message:   ev.Summary(),
			Event:     string(ev.Kind),
			Sender:    ev.ActorID,
			ProjectID: ev.ProjectID,
			TaskID:    ev.TaskID,
			SentAt:    n.now().UTC(),
		},
	})
}
