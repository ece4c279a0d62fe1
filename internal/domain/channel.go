package domain

import (
	"time"

	"github.com/google/uuid"
)

// Channel is provisioned externally; this subsystem reads it and may only
// flip IsActive.
type Channel struct {
	ID        uuid.UUID `json:"id"`
	GroupID   uuid.UUID `json:"group_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Category  string    `json:"category"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
