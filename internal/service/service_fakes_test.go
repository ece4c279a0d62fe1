package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
)

type fakeMessageRepo struct {
	mu       sync.Mutex
	order    []uuid.UUID
	messages map[uuid.UUID]*domain.Message
	// users provides the joined sender projection.
	users map[uuid.UUID]string

	failCreate bool
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		messages: make(map[uuid.UUID]*domain.Message),
		users:    make(map[uuid.UUID]string),
	}
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("storage unavailable")
	}
	cp := *msg
	f.messages[msg.ID] = &cp
	f.order = append(f.order, msg.ID)
	return nil
}

func (f *fakeMessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.messages[id]
	if !ok {
		return nil, nil
	}
	cp := *msg
	if cp.SenderID != nil {
		cp.SenderUsername = f.users[*cp.SenderID]
		cp.SenderDisplayName = f.users[*cp.SenderID]
	}
	cp.FillBotSender()
	return &cp, nil
}

func (f *fakeMessageRepo) ListRecent(ctx context.Context, channelID uuid.UUID, before *uuid.UUID, limit int) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for _, id := range f.order {
		msg := f.messages[id]
		if msg.ChannelID != channelID || msg.DeletedAt != nil {
			continue
		}
		out = append(out, *msg)
	}
	// Newest page first, chronological within the page.
	if before != nil {
		for i, m := range out {
			if m.ID == *before {
				out = out[:i]
				break
			}
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeMessageRepo) SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := f.messages[id]; ok {
		msg.Pinned = pinned
	}
	return nil
}

func (f *fakeMessageRepo) SoftDelete(ctx context.Context, id uuid.UUID, by domain.Actor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := f.messages[id]; ok {
		now := time.Now()
		msg.DeletedAt = &now
		msg.DeletedBy = by.UserID
	}
	return nil
}

func (f *fakeMessageRepo) byKind(kind string) []domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for _, id := range f.order {
		if f.messages[id].Kind == kind {
			out = append(out, *f.messages[id])
		}
	}
	return out
}

type fakeChannelRepo struct {
	channels map[uuid.UUID]*domain.Channel
}

func newFakeChannelRepo(channels ...*domain.Channel) *fakeChannelRepo {
	f := &fakeChannelRepo{channels: make(map[uuid.UUID]*domain.Channel)}
	for _, ch := range channels {
		f.channels[ch.ID] = ch
	}
	return f
}

func (f *fakeChannelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return nil, nil
	}
	cp := *ch
	return &cp, nil
}

func (f *fakeChannelRepo) GetBySlug(ctx context.Context, slug string) (*domain.Channel, error) {
	for _, ch := range f.channels {
		if ch.Slug == slug {
			cp := *ch
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeChannelRepo) ListActive(ctx context.Context) ([]domain.Channel, error) {
	var out []domain.Channel
	for _, ch := range f.channels {
		if ch.IsActive {
			out = append(out, *ch)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if ch, ok := f.channels[id]; ok {
		ch.IsActive = active
	}
	return nil
}

type memberKey struct {
	groupID uuid.UUID
	userID  uuid.UUID
}

type fakeMembershipRepo struct {
	members map[memberKey]string
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{members: make(map[memberKey]string)}
}

func (f *fakeMembershipRepo) add(groupID, userID uuid.UUID, role string) {
	f.members[memberKey{groupID, userID}] = role
}

func (f *fakeMembershipRepo) GetMember(ctx context.Context, groupID, userID uuid.UUID) (*domain.GroupMember, error) {
	role, ok := f.members[memberKey{groupID, userID}]
	if !ok {
		return nil, nil
	}
	return &domain.GroupMember{GroupID: groupID, UserID: userID, Role: role}, nil
}

type fakeStrikeRepo struct {
	mu      sync.Mutex
	strikes []domain.Strike
}

func (f *fakeStrikeRepo) Create(ctx context.Context, strike *domain.Strike) error {
	if err := strike.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strikes = append(f.strikes, *strike)
	return nil
}

func (f *fakeStrikeRepo) CountSince(ctx context.Context, userID, channelID uuid.UUID, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, s := range f.strikes {
		if s.UserID == userID && s.ChannelID == channelID && !s.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeMuteRepo struct {
	mu    sync.Mutex
	mutes []domain.Mute
}

func (f *fakeMuteRepo) Create(ctx context.Context, mute *domain.Mute) error {
	if err := mute.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutes = append(f.mutes, *mute)
	return nil
}

func (f *fakeMuteRepo) GetActive(ctx context.Context, userID, channelID uuid.UUID, now time.Time) (*domain.Mute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *domain.Mute
	for i := range f.mutes {
		m := f.mutes[i]
		if m.UserID != userID || m.ChannelID != channelID || !m.Until.After(now) {
			continue
		}
		if best == nil || m.Until.After(best.Until) {
			best = &f.mutes[i]
		}
	}
	return best, nil
}

// recordingNotifier captures broadcasts in arrival order.
type recordingNotifier struct {
	mu      sync.Mutex
	created []domain.Message
	pinned  []domain.Message
	deleted []uuid.UUID
}

func (n *recordingNotifier) NotifyNewMessage(msg *domain.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, *msg)
}

func (n *recordingNotifier) NotifyMessagePinned(msg *domain.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pinned = append(n.pinned, *msg)
}

func (n *recordingNotifier) NotifyMessageDeleted(channelID, messageID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, messageID)
}

func (n *recordingNotifier) createdIDs() []uuid.UUID {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]uuid.UUID, len(n.created))
	for i, m := range n.created {
		ids[i] = m.ID
	}
	return ids
}
