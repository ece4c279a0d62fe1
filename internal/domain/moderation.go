package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("validation error")

const (
	StrikeSourceAutoRule = "auto_rule"
	StrikeSourceManual   = "manual"
)

const ReasonOffensiveLanguage = "OFFENSIVE_LANGUAGE"

// Strike is an immutable moderation violation record. Only strikes from the
// current local day count toward escalation; older ones remain as audit
// trail.
type Strike struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	ChannelID uuid.UUID  `json:"channel_id"`
	MessageID *uuid.UUID `json:"message_id,omitempty"`
	Score     int        `json:"score"`
	Reason    string     `json:"reason"`
	Source    string     `json:"source"`
	CreatedBy Actor      `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

func (s *Strike) Validate() error {
	switch {
	case s.UserID == uuid.Nil:
		return fmt.Errorf("%w: strike user_id is required", ErrValidation)
	case s.ChannelID == uuid.Nil:
		return fmt.Errorf("%w: strike channel_id is required", ErrValidation)
	case s.Reason == "":
		return fmt.Errorf("%w: strike reason is required", ErrValidation)
	case s.CreatedBy.IsZero():
		return fmt.Errorf("%w: strike created_by is required", ErrValidation)
	}
	return nil
}

// Mute is an immutable timed suspension. It is active while Until is in the
// future and goes inert on its own once the deadline passes; there is no
// unmute event.
type Mute struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ChannelID uuid.UUID `json:"channel_id"`
	Until     time.Time `json:"until"`
	Reason    string    `json:"reason"`
	CreatedBy Actor     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Mute) Validate() error {
	switch {
	case m.UserID == uuid.Nil:
		return fmt.Errorf("%w: mute user_id is required", ErrValidation)
	case m.ChannelID == uuid.Nil:
		return fmt.Errorf("%w: mute channel_id is required", ErrValidation)
	case m.Reason == "":
		return fmt.Errorf("%w: mute reason is required", ErrValidation)
	case m.CreatedBy.IsZero():
		return fmt.Errorf("%w: mute created_by is required", ErrValidation)
	}
	return nil
}

func (m *Mute) ActiveAt(now time.Time) bool {
	return m.Until.After(now)
}
