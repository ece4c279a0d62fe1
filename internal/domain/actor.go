package domain

import "github.com/google/uuid"

const (
	ActorKindMember = "member"
	ActorKindBot    = "bot"
)

// Actor identifies who performed a moderation action: a member, or the
// platform itself. Modeled as a tagged value instead of a reserved user id.
type Actor struct {
	Kind   string     `json:"kind"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

func MemberActor(userID uuid.UUID) Actor {
	return Actor{Kind: ActorKindMember, UserID: &userID}
}

func BotActor() Actor {
	return Actor{Kind: ActorKindBot}
}

func (a Actor) IsZero() bool {
	return a.Kind == ""
}
