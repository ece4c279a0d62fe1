package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleLeader = "leader"
	RoleMember = "member"
)

// GroupMember is the projection served by the membership collaborator.
type GroupMember struct {
	GroupID  uuid.UUID `json:"group_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func (m *GroupMember) IsLeader() bool {
	return m.Role == RoleLeader
}
