package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
)

type ChannelRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Channel, error)
	ListActive(ctx context.Context) ([]domain.Channel, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// MembershipRepository is the seam to the membership/role collaborator.
type MembershipRepository interface {
	GetMember(ctx context.Context, groupID, userID uuid.UUID) (*domain.GroupMember, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	// ListRecent pages newest-first via before, returning messages in
	// chronological order within the page.
	ListRecent(ctx context.Context, channelID uuid.UUID, before *uuid.UUID, limit int) ([]domain.Message, error)
	SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error
	SoftDelete(ctx context.Context, id uuid.UUID, by domain.Actor) error
}

type StrikeRepository interface {
	Create(ctx context.Context, strike *domain.Strike) error
	CountSince(ctx context.Context, userID, channelID uuid.UUID, since time.Time) (int, error)
}

type MuteRepository interface {
	Create(ctx context.Context, mute *domain.Mute) error
	// GetActive returns the unexpired mute with the latest expiry, or nil.
	GetActive(ctx context.Context, userID, channelID uuid.UUID, now time.Time) (*domain.Mute, error)
}
