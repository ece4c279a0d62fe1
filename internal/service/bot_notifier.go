package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/inkverse/clubchat/internal/repository"
)

// BotNotifier posts moderation notices into channels under the reserved bot
// identity. Notices are best-effort: a failed post is logged and swallowed
// so it can never fail the send that triggered it.
type BotNotifier struct {
	messageRepo repository.MessageRepository
	notifier    Notifier
}

func NewBotNotifier(messageRepo repository.MessageRepository, notifier Notifier) *BotNotifier {
	return &BotNotifier{
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

// PostSystemMessage persists and broadcasts a bot-authored message.
func (b *BotNotifier) PostSystemMessage(ctx context.Context, channelID uuid.UUID, text string) *domain.Message {
	msg := &domain.Message{
		ID:        uuid.New(),
		ChannelID: channelID,
		Kind:      domain.MessageKindBot,
		Content:   text,
		CreatedAt: time.Now(),
	}
	msg.FillBotSender()

	if err := b.messageRepo.Create(ctx, msg); err != nil {
		log.Printf("bot: posting notice to channel %s: %v", channelID, err)
		return nil
	}

	if b.notifier != nil {
		b.notifier.NotifyNewMessage(msg)
	}
	return msg
}

func (b *BotNotifier) PostWarning(ctx context.Context, channelID uuid.UUID, displayName, reason string) {
	text := fmt.Sprintf("%s, please avoid offensive language: %s", displayName, reason)
	b.PostSystemMessage(ctx, channelID, text)
}

func (b *BotNotifier) PostMuteNotice(ctx context.Context, channelID uuid.UUID, displayName string, mute *domain.Mute) {
	text := fmt.Sprintf("%s is muted until %s: %s", displayName, mute.Until.Format("15:04 MST"), mute.Reason)
	b.PostSystemMessage(ctx, channelID, text)
}
