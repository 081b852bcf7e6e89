package notify

import (
	"context"
	"fmt"
)

// Mailer is the outbound mail collaborator.
type Mailer interface {
	SendMail(subject, body string, to []string) error
}

// MailNotifier emails the recipient for membership and assignment events.
type MailNotifier struct {
	mailer Mailer
}

func NewMailNotifier(mailer Mailer) *MailNotifier {
	return &MailNotifier{mailer: mailer}
}

func (n *MailNotifier) Notify(_ context.Context, ev Event) error {
	if ev.RecipientEmail == "" {
		return nil
	}

	var subject string
	switch ev.Kind {
	case MemberJoined:
		subject = fmt.Sprintf("You joined %s", ev.ProjectTitle)
	case TaskAssigned:
		subject = fmt.Sprintf("New task: %s", ev.TaskTitle)
	default:
		return nil
	}

	return n.mailer.SendMail(subject, ev.Summary(), []string{ev.RecipientEmail})
}
