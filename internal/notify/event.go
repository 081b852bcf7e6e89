// Package notify dispatches domain events to the registered notifiers once a
// mutation has committed.
package notify

import (
	"fmt"

	"github.com/yukikurage/task-tracker/internal/models"
)

type EventKind string

const (
	MemberJoined      EventKind = "member_joined"
	TaskAssigned      EventKind = "task_assigned"
	TaskStatusChanged EventKind = "task_status_changed"
	CommentAdded      EventKind = "comment_added"
)

// Event is one committed state transition addressed to a single user.
type Event struct {
	Kind           EventKind
	RecipientID    uint64
	RecipientEmail string
	ActorID        uint64
	ProjectID      uint64
	ProjectTitle   string
	TaskID         uint64
	TaskTitle      string
	OldStatus      models.TaskStatus
	NewStatus      models.TaskStatus
	Text           string
}

// Summary is the human readable line shown to the recipient.
func (e Event) Summary() string {
	switch e.Kind {
	case MemberJoined:
		return fmt.Sprintf("You have joined project %q", e.ProjectTitle)
	case TaskAssigned:
		return fmt.Sprintf("You have been assigned task %q in project %q", e.TaskTitle, e.ProjectTitle)
	case TaskStatusChanged:
		return fmt.Sprintf("Task %q moved from %s to %s", e.TaskTitle, e.OldStatus, e.NewStatus)
	case CommentAdded:
		return fmt.Sprintf("New comment on task %q: %s", e.TaskTitle, e.Text)
	default:
		return string(e.Kind)
	}
}
