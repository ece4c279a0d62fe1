package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/inkverse/clubchat/internal/repository"
	"github.com/inkverse/clubchat/internal/syncutil"
)

const DefaultStrikeThreshold = 3

type VerdictCode int

const (
	Accept VerdictCode = iota
	AcceptWithWarning
	RejectMuted
)

// Verdict is the escalation outcome for one incoming message.
type Verdict struct {
	Code   VerdictCode
	Reason string
	// Strike is set on AcceptWithWarning.
	Strike *domain.Strike
	// Mute is the active mute on RejectMuted, or the newly created one when
	// Escalated is true.
	Mute      *domain.Mute
	Escalated bool
}

// Escalator derives per-(user, channel) moderation state from stored
// strikes and mutes: NORMAL while no unexpired mute exists, MUTED otherwise.
// Crossing the same-day strike threshold creates a mute that expires at the
// end of the local day.
type Escalator struct {
	policy    *Policy
	strikes   repository.StrikeRepository
	mutes     repository.MuteRepository
	threshold int
	locks     *syncutil.KeyedMutex
	now       func() time.Time
}

func NewEscalator(policy *Policy, strikes repository.StrikeRepository, mutes repository.MuteRepository, threshold int) *Escalator {
	if threshold <= 0 {
		threshold = DefaultStrikeThreshold
	}
	return &Escalator{
		policy:    policy,
		strikes:   strikes,
		mutes:     mutes,
		threshold: threshold,
		locks:     syncutil.NewKeyedMutex(),
		now:       time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (e *Escalator) SetClock(now func() time.Time) {
	e.now = now
}

// Check runs the full decision for one incoming message. messageID, when
// non-nil, is recorded on any strike for the audit trail. The strike-count
// and possible mute creation form a critical section per (user, channel) so
// two borderline messages cannot both slip under the threshold or both
// escalate.
func (e *Escalator) Check(ctx context.Context, userID, channelID uuid.UUID, messageID *uuid.UUID, text string) (Verdict, error) {
	unlock := e.locks.Lock(userID.String() + "/" + channelID.String())
	defer unlock()

	now := e.now()

	active, err := e.mutes.GetActive(ctx, userID, channelID, now)
	if err != nil {
		return Verdict{}, fmt.Errorf("checking active mute: %w", err)
	}
	if active != nil {
		return Verdict{Code: RejectMuted, Reason: active.Reason, Mute: active}, nil
	}

	decision := e.policy.Evaluate(text)
	if decision.Allowed {
		return Verdict{Code: Accept}, nil
	}

	strike := &domain.Strike{
		ID:        uuid.New(),
		UserID:    userID,
		ChannelID: channelID,
		MessageID: messageID,
		Score:     1,
		Reason:    decision.Reason,
		Source:    domain.StrikeSourceAutoRule,
		CreatedBy: domain.BotActor(),
		CreatedAt: now,
	}
	if err := e.strikes.Create(ctx, strike); err != nil {
		return Verdict{}, fmt.Errorf("recording strike: %w", err)
	}

	count, err := e.strikes.CountSince(ctx, userID, channelID, StartOfDay(now))
	if err != nil {
		return Verdict{}, fmt.Errorf("counting strikes: %w", err)
	}

	verdict := Verdict{Code: AcceptWithWarning, Reason: decision.Reason, Strike: strike}
	if count >= e.threshold {
		mute := &domain.Mute{
			ID:        uuid.New(),
			UserID:    userID,
			ChannelID: channelID,
			Until:     EndOfDay(now),
			Reason:    decision.Reason,
			CreatedBy: domain.BotActor(),
			CreatedAt: now,
		}
		if err := e.mutes.Create(ctx, mute); err != nil {
			return Verdict{}, fmt.Errorf("creating mute: %w", err)
		}
		verdict.Escalated = true
		verdict.Mute = mute
	}

	return verdict, nil
}

// StartOfDay returns local midnight for t's day. The escalation window is
// the server's local calendar day, not per-user timezones.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the first instant of the next local day, the default
// expiry for automatic mutes.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}
