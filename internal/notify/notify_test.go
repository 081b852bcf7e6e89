package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker/internal/hub"
	"github.com/yukikurage/task-tracker/internal/models"
)

func TestBus_FailingNotifierDoesNotStopOthers(t *testing.T) {
	var got []Event
	bus := NewBus(
		NotifierFunc(func(context.Context, Event) error { return errors.New("smtp down") }),
		NotifierFunc(func(context.Context, Event) error { panic("boom") }),
	)
	bus.Register(NotifierFunc(func(_ context.Context, ev Event) error {
		got = append(got, ev)
		return nil
	}))

	bus.Emit(context.Background(),
		Event{Kind: MemberJoined, RecipientID: 1},
		Event{Kind: TaskAssigned, RecipientID: 2},
	)

	require.Len(t, got, 2)
	assert.Equal(t, MemberJoined, got[0].Kind)
	assert.Equal(t, TaskAssigned, got[1].Kind)
}

func TestWebsocketNotifier_PublishesToRecipientRoom(t *testing.T) {
	h := hub.New(2)
	mine := h.Subscribe(hub.UserRoom(5))
	theirs := h.Subscribe(hub.UserRoom(6))

	n := NewWebsocketNotifier(h)
	n.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	err := n.Notify(context.Background(), Event{
		Kind:        TaskStatusChanged,
		RecipientID: 5,
		ActorID:     9,
		ProjectID:   1,
		TaskID:      3,
		TaskTitle:   "Launch",
		OldStatus:   models.TaskStatusGrooming,
		NewStatus:   models.TaskStatusDone,
	})
	require.NoError(t, err)

	msg := <-mine.Messages()
	assert.Equal(t, "notification_5", msg.Room)
	assert.Equal(t, "task_status_changed", msg.Event)
	assert.Equal(t, `Task "Launch" moved from grooming to done`, msg.Message)
	assert.Equal(t, uint64(9), msg.Sender)
	assert.Equal(t, uint64(3), msg.TaskID)
	assert.Len(t, theirs.Messages(), 0)
}

type fakeMailer struct {
	subjects []string
	to       [][]string
}

func (m *fakeMailer) SendMail(subject, _ string, to []string) error {
	m.subjects = append(m.subjects, subject)
	m.to = append(m.to, to)
	return nil
}

func TestMailNotifier_OnlyMembershipAndAssignment(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewMailNotifier(mailer)
	ctx := context.Background()

	require.NoError(t, n.Notify(ctx, Event{Kind: MemberJoined, RecipientEmail: "bob@example.com", ProjectTitle: "Apollo"}))
	require.NoError(t, n.Notify(ctx, Event{Kind: TaskAssigned, RecipientEmail: "bob@example.com", TaskTitle: "Launch"}))
	require.NoError(t, n.Notify(ctx, Event{Kind: CommentAdded, RecipientEmail: "bob@example.com"}))
	require.NoError(t, n.Notify(ctx, Event{Kind: MemberJoined}))

	assert.Equal(t, []string{"You joined Apollo", "New task: Launch"}, mailer.subjects)
	assert.Equal(t, []string{"bob@example.com"}, mailer.to[0])
}
