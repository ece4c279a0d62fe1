package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MuteRepo struct {
	pool *pgxpool.Pool
}

func NewMuteRepo(pool *pgxpool.Pool) *MuteRepo {
	return &MuteRepo{pool: pool}
}

func (r *MuteRepo) Create(ctx context.Context, mute *domain.Mute) error {
	if err := mute.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO mutes (id, user_id, channel_id, until, reason, created_by_kind, created_by_user, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		mute.ID, mute.UserID, mute.ChannelID, mute.Until, mute.Reason,
		mute.CreatedBy.Kind, mute.CreatedBy.UserID, mute.CreatedAt,
	)
	return err
}

func (r *MuteRepo) GetActive(ctx context.Context, userID, channelID uuid.UUID, now time.Time) (*domain.Mute, error) {
	query := `
		SELECT id, user_id, channel_id, until, reason, created_by_kind, created_by_user, created_at
		FROM mutes
		WHERE user_id = $1 AND channel_id = $2 AND until > $3
		ORDER BY until DESC
		LIMIT 1`
	var mute domain.Mute
	err := r.pool.QueryRow(ctx, query, userID, channelID, now).Scan(
		&mute.ID, &mute.UserID, &mute.ChannelID, &mute.Until, &mute.Reason,
		&mute.CreatedBy.Kind, &mute.CreatedBy.UserID, &mute.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mute, nil
}
