package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/inkverse/clubchat/internal/service"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a single WebSocket connection bound to an authenticated
// user. One user may hold several clients.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID

	// joined tracks which channels this connection has joined.
	joined map[uuid.UUID]struct{}
	mu     sync.RWMutex

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		joined: make(map[uuid.UUID]struct{}),
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

// IsJoined checks whether this connection has joined a channel.
func (c *Client) IsJoined(channelID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.joined[channelID]
	return ok
}

// Channels returns the channels this connection has joined.
func (c *Client) Channels() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(c.joined))
	for id := range c.joined {
		ids = append(ids, id)
	}
	return ids
}

func (c *Client) markJoined(channelID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.joined[channelID]; ok {
		return false
	}
	c.joined[channelID] = struct{}{}
	return true
}

func (c *Client) markLeft(channelID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.joined[channelID]; !ok {
		return false
	}
	delete(c.joined, channelID)
	return true
}

// ReadPump reads events from the WebSocket and routes them. The deferred
// unregister is the guaranteed presence-cleanup finalizer for this
// connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("ws: client %s disconnected", c.userID)
			} else {
				log.Printf("ws: read error from %s: %v", c.userID, err)
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes queued events to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Printf("ws: write error to %s: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				log.Printf("ws: ping error to %s: %v", c.userID, err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeChannelJoin:
		var p ChannelPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid channel.join payload")
			return
		}
		c.handleJoin(p.ChannelID)

	case EventTypeChannelLeave:
		var p ChannelPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid channel.leave payload")
			return
		}
		c.handleLeave(p.ChannelID)

	case EventTypeMessageSend:
		if event.ChannelID == nil {
			c.sendError("INVALID_PAYLOAD", "channel_id required for message.send")
			return
		}
		var p MessageSendPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid message.send payload")
			return
		}
		c.handleSend(*event.ChannelID, p)

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) handleJoin(channelID uuid.UUID) {
	_, err := c.hub.channels.CheckMember(context.Background(), c.userID, channelID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChannelNotFound):
			c.sendError("CHANNEL_NOT_FOUND", "channel not found")
		case errors.Is(err, service.ErrChannelInactive):
			c.sendError("CHANNEL_INACTIVE", "channel is not active")
		case errors.Is(err, service.ErrNotMember):
			c.sendError("NOT_MEMBER", "you are not a member of this channel's group")
		default:
			log.Printf("ws: join check for %s: %v", c.userID, err)
			c.sendError("STORAGE_UNAVAILABLE", "try again later")
		}
		return
	}

	// A repeat join on the same connection must not touch presence again:
	// disconnect releases exactly one refcount per joined channel.
	if !c.markJoined(channelID) {
		return
	}
	_, snapshot := c.hub.presence.Join(channelID, c.userID)
	c.hub.BroadcastRoster(channelID, snapshot)
	log.Printf("ws: %s joined channel %s", c.userID, channelID)
}

func (c *Client) handleLeave(channelID uuid.UUID) {
	if !c.markLeft(channelID) {
		return
	}
	_, snapshot := c.hub.presence.Leave(channelID, c.userID)
	c.hub.BroadcastRoster(channelID, snapshot)
	log.Printf("ws: %s left channel %s", c.userID, channelID)
}

func (c *Client) handleSend(channelID uuid.UUID, p MessageSendPayload) {
	if !c.IsJoined(channelID) {
		c.sendError("NOT_JOINED", "join the channel before sending")
		return
	}

	input := service.SendMessageInput{Content: p.Content, ParentID: p.ParentID}
	_, err := c.hub.messages.Send(context.Background(), c.userID, channelID, input)
	if err == nil {
		// Delivery happens via the channel broadcast; nothing extra for the
		// sender.
		return
	}

	var muted *service.MutedError
	switch {
	case errors.As(err, &muted):
		c.sendRejected(channelID, "MUTED", "you are muted in this channel", &muted.Until)
	case errors.Is(err, domain.ErrValidation):
		c.sendRejected(channelID, "VALIDATION_ERROR", "message content is required", nil)
	case errors.Is(err, service.ErrNotMember):
		c.sendError("NOT_MEMBER", "you are not a member of this channel's group")
	case errors.Is(err, service.ErrChannelNotFound), errors.Is(err, service.ErrChannelInactive):
		c.sendError("CHANNEL_NOT_FOUND", "channel unavailable")
	default:
		log.Printf("ws: send from %s to %s: %v", c.userID, channelID, err)
		c.sendError("STORAGE_UNAVAILABLE", "message not delivered, try again")
	}
}

func (c *Client) sendRejected(channelID uuid.UUID, code, message string, until *time.Time) {
	evt, err := NewEvent(EventTypeSendRejected, &channelID, SendRejectedPayload{
		ChannelID: channelID,
		Code:      code,
		Message:   message,
		Until:     until,
	})
	if err != nil {
		return
	}
	c.enqueue(evt)
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong})
	c.trySend(data)
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, nil, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	c.enqueue(evt)
}

func (c *Client) enqueue(evt *Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	c.trySend(data)
}

// trySend queues data unless the connection was already dropped or its
// buffer is full.
func (c *Client) trySend(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
	}
}
