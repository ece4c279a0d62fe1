package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StrikeRepo struct {
	pool *pgxpool.Pool
}

func NewStrikeRepo(pool *pgxpool.Pool) *StrikeRepo {
	return &StrikeRepo{pool: pool}
}

func (r *StrikeRepo) Create(ctx context.Context, strike *domain.Strike) error {
	if err := strike.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO strikes (id, user_id, channel_id, message_id, score, reason, source, created_by_kind, created_by_user, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, query,
		strike.ID, strike.UserID, strike.ChannelID, strike.MessageID, strike.Score,
		strike.Reason, strike.Source, strike.CreatedBy.Kind, strike.CreatedBy.UserID, strike.CreatedAt,
	)
	return err
}

func (r *StrikeRepo) CountSince(ctx context.Context, userID, channelID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM strikes WHERE user_id = $1 AND channel_id = $2 AND created_at >= $3`,
		userID, channelID, since,
	).Scan(&count)
	return count, err
}
