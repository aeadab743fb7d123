// Package socket implements the push channel over a websocket. Frames are
// JSON envelopes {event, payload}; the stream is not room-partitioned, so
// everything the server broadcasts arrives here and room scoping is the
// router's job.
package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/domain/event"
)

const (
	eventReceiveMessage  = "receive_message"
	eventReceiveReaction = "receive_reaction"
	eventJoinRoom        = "join_room"
	eventSendMessage     = "send_message"
	eventSendReaction    = "send_reaction"
)

type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Channel is a contract.PushChannel over one websocket connection. Run is
// the read loop; it reconnects through supervisor restarts (each Run call
// re-dials when the previous connection died) and replays the last join so
// the server's broadcast group membership survives the reconnect.
type Channel struct {
	log   *slog.Logger
	url   string
	token string

	mu       sync.Mutex
	conn     *websocket.Conn
	lastJoin domain.RoomID

	events chan event.DomainEvent
}

func NewChannel(log *slog.Logger, url, token string, bufferSize int) *Channel {
	return &Channel{
		log:    log,
		url:    url,
		token:  token,
		events: make(chan event.DomainEvent, bufferSize),
	}
}

func (c *Channel) Events() <-chan event.DomainEvent {
	return c.events
}

// Join signals the server to add this client to the room's broadcast
// group. There is no symmetric leave signal in this design.
func (c *Channel) Join(roomID domain.RoomID) error {
	c.mu.Lock()
	c.lastJoin = roomID
	c.mu.Unlock()
	return c.write(eventJoinRoom, map[string]string{"roomId": string(roomID)})
}

// BroadcastMessage echoes an already-confirmed message to other clients.
// Never authoritative; the durable copy went over the pull path.
func (c *Channel) BroadcastMessage(msg domain.Message) error {
	return c.write(eventSendMessage, map[string]any{
		"roomId":  string(msg.Room),
		"message": encodeMessage(msg),
	})
}

func (c *Channel) BroadcastReaction(reaction domain.Reaction) error {
	return c.write(eventSendReaction, map[string]any{
		"roomId": string(reaction.Room),
		"emoji":  reaction.Emoji,
		"userId": reaction.User.ID,
	})
}

// Run dials if needed and consumes frames until the context is canceled or
// the connection drops. A drop returns an error so the supervisor restarts
// the worker, which re-dials.
func (c *Channel) Run(ctx context.Context) error {
	conn, err := c.ensureConn(ctx)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.dropConn()
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("push channel read: %w", err)
		}
		c.dispatch(data)
	}
}

// Close tears the connection down outside of supervision.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Channel) ensureConn(ctx context.Context) (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn, nil
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, header)
	if err != nil {
		return nil, fmt.Errorf("push channel dial %s: %w", c.url, err)
	}
	c.conn = conn
	c.log.Info("Push channel connected", "url", c.url)

	// Re-establish broadcast group membership after a reconnect.
	if c.lastJoin != "" {
		if err := writeFrame(conn, eventJoinRoom, map[string]string{"roomId": string(c.lastJoin)}); err != nil {
			c.log.Warn("Rejoin after reconnect failed", "room", c.lastJoin, "error", err)
		}
	}
	return conn, nil
}

func (c *Channel) dropConn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Channel) write(eventName string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("%s: push channel not connected", eventName)
	}
	return writeFrame(c.conn, eventName, payload)
}

func writeFrame(conn *websocket.Conn, eventName string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventName, err)
	}
	return conn.WriteJSON(frame{Event: eventName, Payload: raw})
}

func (c *Channel) dispatch(data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		c.log.Warn("Undecodable push frame dropped", "error", err)
		return
	}

	switch f.Event {
	case eventReceiveMessage:
		msg, err := decodeMessage(f.Payload)
		if err != nil {
			c.log.Warn("Bad receive_message payload", "error", err)
			return
		}
		c.emit(event.MessageReceived{Message: msg, ReceivedAt: time.Now()})
	case eventReceiveReaction:
		reaction, err := decodeReaction(f.Payload)
		if err != nil {
			c.log.Warn("Bad receive_reaction payload", "error", err)
			return
		}
		c.emit(event.ReactionReceived{Reaction: reaction, ReceivedAt: time.Now()})
	default:
		c.log.Debug("Ignoring push frame", "event", f.Event)
	}
}

func (c *Channel) emit(e event.DomainEvent) {
	select {
	case c.events <- e:
	default:
		c.log.Warn("Push event buffer full, dropping event", "room", e.RoomID())
	}
}
