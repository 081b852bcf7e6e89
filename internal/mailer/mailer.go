// Package mailer queues outbound notification mail and hands it to a Sender.
package mailer

import (
	"context"
	"errors"
	"log"
	"time"
)

var (
	ErrQueueFull    = errors.New("mail queue is full")
	ErrNoRecipients = errors.New("mail has no recipients")
)

const sendTimeout = 30 * time.Second

// Message is one outbound mail.
type Message struct {
	Subject string
	Body    string
	To      []string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Queue buffers messages so callers never wait on the mail server.
type Queue struct {
	sender Sender
	ch     chan *Message
}

// NewQueue creates a queue holding up to size pending messages.
func NewQueue(sender Sender, size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		sender: sender,
		ch:     make(chan *Message, size),
	}
}

// SendMail enqueues a message. It fails fast when the queue is full.
func (q *Queue) SendMail(subject, body string, to []string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}

	msg := &Message{Subject: subject, Body: body, To: append([]string(nil), to...)}
	select {
	case q.ch <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run sends queued messages until ctx is done. Messages still queued at
// shutdown are dropped.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if n := len(q.ch); n > 0 {
				log.Printf("mailer: dropping %d queued messages on shutdown", n)
			}
			return nil
		case msg := <-q.ch:
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			if err := q.sender.Send(sendCtx, msg); err != nil {
				log.Printf("mailer: failed to send %q to %v: %v", msg.Subject, msg.To, err)
			}
			cancel()
		}
	}
}

// LogSender writes mail to the log. It is used when no SMTP host is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg *Message) error {
	log.Printf("mailer: to=%v subject=%q\n%s", msg.To, msg.Subject, msg.Body)
	return nil
}
