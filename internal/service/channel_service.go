package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/inkverse/clubchat/internal/repository"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrChannelInactive = errors.New("channel is not active")
	ErrNotMember       = errors.New("user is not a member of this channel's group")
)

type ChannelService struct {
	channelRepo    repository.ChannelRepository
	membershipRepo repository.MembershipRepository
}

func NewChannelService(channelRepo repository.ChannelRepository, membershipRepo repository.MembershipRepository) *ChannelService {
	return &ChannelService{
		channelRepo:    channelRepo,
		membershipRepo: membershipRepo,
	}
}

func (s *ChannelService) ListActive(ctx context.Context) ([]domain.Channel, error) {
	channels, err := s.channelRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if channels == nil {
		channels = []domain.Channel{}
	}
	return channels, nil
}

// Get returns the channel if the user belongs to its owning group.
func (s *ChannelService) Get(ctx context.Context, userID, channelID uuid.UUID) (*domain.Channel, error) {
	return s.CheckMember(ctx, userID, channelID)
}

// GetBySlug resolves a channel by its slug, with the same membership gate
// as Get.
func (s *ChannelService) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*domain.Channel, error) {
	ch, err := s.channelRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}
	return s.CheckMember(ctx, userID, ch.ID)
}

// SetActive flips the channel's one writable field. Leader-only: the flag
// gates joins and sends for the whole group. Reads the channel directly so
// the leader can reactivate a deactivated one.
func (s *ChannelService) SetActive(ctx context.Context, actorID, channelID uuid.UUID, active bool) (*domain.Channel, error) {
	ch, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}

	member, err := s.membershipRepo.GetMember(ctx, ch.GroupID, actorID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotMember
	}
	if !member.IsLeader() {
		return nil, ErrNotLeader
	}

	if err := s.channelRepo.SetActive(ctx, channelID, active); err != nil {
		return nil, err
	}
	ch.IsActive = active
	return ch, nil
}

// CheckMember gates channel access on group membership. It is the entry
// check for joins, sends and history reads.
func (s *ChannelService) CheckMember(ctx context.Context, userID, channelID uuid.UUID) (*domain.Channel, error) {
	ch, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}
	if !ch.IsActive {
		return nil, ErrChannelInactive
	}

	member, err := s.membershipRepo.GetMember(ctx, ch.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotMember
	}
	return ch, nil
}
