package ws

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/inkverse/clubchat/internal/presence"
	"github.com/inkverse/clubchat/internal/service"
	"github.com/stretchr/testify/require"
)

type fakeChannelRepo struct {
	channel *domain.Channel
}

func (f *fakeChannelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	if f.channel != nil && f.channel.ID == id {
		cp := *f.channel
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeChannelRepo) GetBySlug(ctx context.Context, slug string) (*domain.Channel, error) {
	return nil, nil
}

func (f *fakeChannelRepo) ListActive(ctx context.Context) ([]domain.Channel, error) {
	return nil, nil
}

func (f *fakeChannelRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return nil
}

type fakeMembershipRepo struct {
	groupID uuid.UUID
	roles   map[uuid.UUID]string
}

func (f *fakeMembershipRepo) GetMember(ctx context.Context, groupID, userID uuid.UUID) (*domain.GroupMember, error) {
	role, ok := f.roles[userID]
	if !ok || groupID != f.groupID {
		return nil, nil
	}
	return &domain.GroupMember{GroupID: groupID, UserID: userID, Role: role}, nil
}

// A repeated channel.join on one connection must not inflate the presence
// refcount: disconnect releases exactly one refcount per joined channel, so
// the user has to vanish from the roster afterwards.
func TestRepeatedJoinLeavesNoPresenceResidue(t *testing.T) {
	channel := &domain.Channel{
		ID:       uuid.New(),
		GroupID:  uuid.New(),
		Name:     "general",
		Slug:     "general",
		IsActive: true,
	}
	userID := uuid.New()
	channels := service.NewChannelService(
		&fakeChannelRepo{channel: channel},
		&fakeMembershipRepo{groupID: channel.GroupID, roles: map[uuid.UUID]string{userID: domain.RoleMember}},
	)

	tracker := presence.NewTracker()
	hub := NewHub(channels, nil, tracker)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	c := NewClient(hub, nil, userID)
	hub.register <- c

	c.handleJoin(channel.ID)
	c.handleJoin(channel.ID)
	require.Len(t, tracker.Snapshot(channel.ID), 1)

	hub.unregister <- c
	require.Eventually(t, func() bool {
		return len(tracker.Snapshot(channel.ID)) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
