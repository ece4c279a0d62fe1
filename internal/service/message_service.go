package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/inkverse/clubchat/internal/moderation"
	"github.com/inkverse/clubchat/internal/repository"
	"github.com/inkverse/clubchat/internal/syncutil"
	"github.com/inkverse/clubchat/pkg/validator"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrEmptyContent    = fmt.Errorf("%w: message content is required", domain.ErrValidation)
	ErrNotLeader       = errors.New("only the group leader can perform this action")
	ErrNotSender       = errors.New("only the message sender or the group leader can delete a message")
	ErrMuted           = errors.New("user is muted in this channel")
)

// MutedError carries the active mute's expiry; matches ErrMuted via
// errors.Is.
type MutedError struct {
	Until time.Time
}

func (e *MutedError) Error() string {
	return "user is muted until " + e.Until.Format(time.RFC3339)
}

func (e *MutedError) Unwrap() error { return ErrMuted }

// Notifier broadcasts real-time events to connected sessions.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyMessagePinned(msg *domain.Message)
	NotifyMessageDeleted(channelID, messageID uuid.UUID)
}

type MessageService struct {
	messageRepo    repository.MessageRepository
	channelRepo    repository.ChannelRepository
	membershipRepo repository.MembershipRepository
	escalator      *moderation.Escalator
	notifier       Notifier
	bot            *BotNotifier

	// sendLocks serializes accept→persist→broadcast per channel so two
	// concurrent sends to the same channel are applied in acceptance order.
	sendLocks *syncutil.KeyedMutex
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	channelRepo repository.ChannelRepository,
	membershipRepo repository.MembershipRepository,
	escalator *moderation.Escalator,
) *MessageService {
	return &MessageService{
		messageRepo:    messageRepo,
		channelRepo:    channelRepo,
		membershipRepo: membershipRepo,
		escalator:      escalator,
		sendLocks:      syncutil.NewKeyedMutex(),
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetBot sets the moderation-notice poster (optional dependency).
func (s *MessageService) SetBot(b *BotNotifier) {
	s.bot = b
}

type SendMessageInput struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

type MessageListResponse struct {
	Messages []domain.Message `json:"messages"`
	HasMore  bool             `json:"has_more"`
}

// Send runs the full inbound pipeline: membership gate, moderation verdict,
// persist, broadcast. Warned messages are still delivered; a muted sender is
// rejected before anything is written. Warning and mute notices go out after
// the channel ordering lock is released.
func (s *MessageService) Send(ctx context.Context, userID, channelID uuid.UUID, input SendMessageInput) (*domain.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if errs := validator.ValidateMessageContent(content); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, errs.Error())
	}

	ch, err := s.checkChannelAccess(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}

	full, verdict, err := s.acceptAndPersist(ctx, userID, ch.ID, content, input.ParentID)
	if err != nil {
		return nil, err
	}

	if verdict.Code == moderation.AcceptWithWarning && s.bot != nil {
		s.bot.PostWarning(ctx, ch.ID, full.SenderDisplayName, verdict.Reason)
		if verdict.Escalated {
			s.bot.PostMuteNotice(ctx, ch.ID, full.SenderDisplayName, verdict.Mute)
		}
	}

	return full, nil
}

// acceptAndPersist holds the per-channel lock across verdict, write and
// broadcast enqueue; this is what makes broadcast order equal acceptance
// order for a channel.
func (s *MessageService) acceptAndPersist(ctx context.Context, userID, channelID uuid.UUID, content string, parentID *uuid.UUID) (*domain.Message, moderation.Verdict, error) {
	unlock := s.sendLocks.Lock(channelID.String())
	defer unlock()

	// The id is minted up front so a strike can reference the message it
	// flags.
	msgID := uuid.New()

	verdict, err := s.escalator.Check(ctx, userID, channelID, &msgID, content)
	if err != nil {
		return nil, verdict, fmt.Errorf("moderation check: %w", err)
	}
	if verdict.Code == moderation.RejectMuted {
		return nil, verdict, &MutedError{Until: verdict.Mute.Until}
	}

	msg := &domain.Message{
		ID:        msgID,
		ChannelID: channelID,
		SenderID:  &userID,
		Kind:      domain.MessageKindUser,
		Content:   content,
		// ParentID is stored as given; a dangling reply-to is tolerated and
		// rendered by consumers as unavailable.
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, verdict, fmt.Errorf("creating message: %w", err)
	}

	full, err := s.messageRepo.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, verdict, err
	}
	if full == nil {
		full = msg
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(full)
	}
	return full, verdict, nil
}

func (s *MessageService) List(ctx context.Context, userID, channelID uuid.UUID, before *uuid.UUID, limit int) (*MessageListResponse, error) {
	if _, err := s.checkChannelAccess(ctx, userID, channelID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	// Fetch limit+1 to learn whether an older page exists.
	messages, err := s.messageRepo.ListRecent(ctx, channelID, before, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[len(messages)-limit:]
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	return &MessageListResponse{Messages: messages, HasMore: hasMore}, nil
}

// SetPinned flips a message's pinned flag. Only the leader of the channel's
// owning group may pin or unpin.
func (s *MessageService) SetPinned(ctx context.Context, actorID, messageID uuid.UUID, pinned bool) (*domain.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}

	if err := s.requireLeader(ctx, actorID, msg.ChannelID); err != nil {
		return nil, err
	}

	if err := s.messageRepo.SetPinned(ctx, messageID, pinned); err != nil {
		return nil, fmt.Errorf("updating pin: %w", err)
	}

	updated, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && updated != nil {
		s.notifier.NotifyMessagePinned(updated)
	}
	return updated, nil
}

// Delete soft-deletes a message. Allowed for the sender or the group leader;
// the acting deleter is recorded.
func (s *MessageService) Delete(ctx context.Context, actorID, messageID uuid.UUID) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil || msg.DeletedAt != nil {
		return ErrMessageNotFound
	}

	if msg.SenderID == nil || *msg.SenderID != actorID {
		if err := s.requireLeader(ctx, actorID, msg.ChannelID); err != nil {
			if errors.Is(err, ErrNotLeader) {
				return ErrNotSender
			}
			return err
		}
	}

	if err := s.messageRepo.SoftDelete(ctx, messageID, domain.MemberActor(actorID)); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyMessageDeleted(msg.ChannelID, messageID)
	}
	return nil
}

func (s *MessageService) checkChannelAccess(ctx context.Context, userID, channelID uuid.UUID) (*domain.Channel, error) {
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

func (s *MessageService) requireLeader(ctx context.Context, userID, channelID uuid.UUID) error {
	ch, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if ch == nil {
		return ErrChannelNotFound
	}

	member, err := s.membershipRepo.GetMember(ctx, ch.GroupID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotMember
	}
	if !member.IsLeader() {
		return ErrNotLeader
	}
	return nil
}
