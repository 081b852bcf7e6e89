package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/hub"
	"github.com/yukikurage/task-tracker/internal/middleware"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	chatEvent = "chat"
)

type readMessage struct {
	message []byte
	err     error
}

type clientMessage struct {
	Message string `json:"message"`
}

// WSHandler serves the websocket rooms.
type WSHandler struct {
	hub       *hub.Hub
	publisher hub.Publisher
	upgrader  websocket.Upgrader
	now       func() time.Time
}

// NewWSHandler creates a handler that subscribes connections on h and sends
// client messages through publisher. An empty allowedOrigin accepts only
// same-host origins.
func NewWSHandler(h *hub.Hub, publisher hub.Publisher, allowedOrigin string) *WSHandler {
	return &WSHandler{
		hub:       h,
		publisher: publisher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigin),
		},
		now: time.Now,
	}
}

// Chat joins the shared chat room. Senders receive their own messages.
func (h *WSHandler) Chat(c *gin.Context) {
	h.serve(c, hub.ChatRoom, true)
}

// Notifications joins the current user's personal room. Messages a client
// sends reach the user's other connections.
func (h *WSHandler) Notifications(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	h.serve(c, hub.UserRoom(userID), false)
}

func (h *WSHandler) serve(c *gin.Context, room string, echo bool) {
	userID, _ := middleware.GetUserID(c)

	// Subscribe before the handshake completes so nothing published after
	// the client sees the upgrade is missed.
	sub := h.hub.Subscribe(room)
	defer h.hub.Unsubscribe(sub)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: unable to upgrade: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)

	readChan := make(chan readMessage, 20)
	go func() {
		defer close(readChan)
		for {
			_, message, err := conn.ReadMessage()
			select {
			case readChan <- readMessage{message: message, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case read, ok := <-readChan:
			if !ok || read.err != nil {
				return
			}
			h.relay(c, sub, userID, read.message, echo)
		case msg, ok := <-sub.Messages():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws: unable to write to %s: %v", room, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// relay publishes one client message to the subscription's room.
// Malformed or empty messages are ignored.
func (h *WSHandler) relay(c *gin.Context, sub *hub.Subscription, sender uint64, raw []byte, echo bool) {
	var in clientMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		return
	}
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return
	}

	env := hub.Envelope{
		Room: sub.Room,
		Message: &hub.Message{
			Room:    sub.Room,
			Message: text,
			Event:   chatEvent,
			Sender:  sender,
			SentAt:  h.now().UTC(),
		},
	}
	if !echo {
		env.Except = sub.ID
	}

	if err := h.publisher.Publish(c.Request.Context(), env); err != nil {
		log.Printf("ws: unable to publish to %s: %v", sub.Room, err)
	}
}

func checkOrigin(allowed string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header["Origin"]
		if len(origin) == 0 {
			return true
		}
		u, err := url.Parse(origin[0])
		if err != nil {
			return false
		}
		if allowed == "" {
			return strings.EqualFold(u.Host, r.Host)
		}
		allowedURL, err := url.Parse(allowed)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, allowedURL.Host)
	}
}
