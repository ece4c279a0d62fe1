package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeChannelJoin  = "channel.join"
	EventTypeChannelLeave = "channel.leave"
	EventTypeMessageSend  = "message.send"
	EventTypePing         = "ping"
)

// Event types - Server → Client
const (
	EventTypeMessageNew     = "message.new"
	EventTypeMessagePinned  = "message.pinned"
	EventTypeMessageDeleted = "message.deleted"
	EventTypeRosterChanged  = "roster.changed"
	EventTypeSendRejected   = "send.rejected"
	EventTypePong           = "pong"
	EventTypeError          = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	ChannelID *uuid.UUID      `json:"channel_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type ChannelPayload struct {
	ChannelID uuid.UUID `json:"channel_id"`
}

type MessageSendPayload struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// --- Server → Client payloads ---

type MessagePayload struct {
	domain.Message
}

type MessageDeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

// RosterPayload carries the full current roster, not a diff, so clients
// reconcile trivially after reconnects.
type RosterPayload struct {
	ChannelID uuid.UUID   `json:"channel_id"`
	UserIDs   []uuid.UUID `json:"user_ids"`
}

// SendRejectedPayload is delivered only to the offending sender.
type SendRejectedPayload struct {
	ChannelID uuid.UUID  `json:"channel_id"`
	Code      string     `json:"code"`
	Message   string     `json:"message"`
	Until     *time.Time `json:"until,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, channelID *uuid.UUID, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		ChannelID: channelID,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
