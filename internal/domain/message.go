package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message kinds. User messages carry a real member as sender; bot and
// system messages carry the reserved bot identity (nil SenderID).
const (
	MessageKindUser   = "user"
	MessageKindBot    = "bot"
	MessageKindSystem = "system"
)

// Reserved identity shown for bot/system-authored messages.
const (
	BotUsername    = "clubbot"
	BotDisplayName = "Club Bot"
)

type Message struct {
	ID        uuid.UUID  `json:"id"`
	ChannelID uuid.UUID  `json:"channel_id"`
	SenderID  *uuid.UUID `json:"sender_id,omitempty"`
	Kind      string     `json:"kind"`
	Content   string     `json:"content"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Pinned    bool       `json:"pinned"`
	DeletedAt *time.Time `json:"-"`
	DeletedBy *uuid.UUID `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	// Joined sender projection
	SenderUsername    string  `json:"sender_username,omitempty"`
	SenderDisplayName string  `json:"sender_display_name,omitempty"`
	SenderAvatarURL   *string `json:"sender_avatar_url,omitempty"`
}

// FillBotSender applies the reserved identity to bot/system messages so
// clients never see an empty sender.
func (m *Message) FillBotSender() {
	if m.SenderID == nil {
		m.SenderUsername = BotUsername
		m.SenderDisplayName = BotDisplayName
	}
}
