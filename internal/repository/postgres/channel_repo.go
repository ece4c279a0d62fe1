package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

const channelColumns = `id, group_id, name, slug, category, is_active, created_at`

func (r *ChannelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *ChannelRepo) GetBySlug(ctx context.Context, slug string) (*domain.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE slug = $1`
	return r.getOne(ctx, query, slug)
}

func (r *ChannelRepo) ListActive(ctx context.Context) ([]domain.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE is_active ORDER BY category, name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []domain.Channel
	for rows.Next() {
		var ch domain.Channel
		if err := rows.Scan(&ch.ID, &ch.GroupID, &ch.Name, &ch.Slug, &ch.Category, &ch.IsActive, &ch.CreatedAt); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

func (r *ChannelRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE channels SET is_active = $1 WHERE id = $2`, active, id)
	return err
}

func (r *ChannelRepo) getOne(ctx context.Context, query string, arg any) (*domain.Channel, error) {
	var ch domain.Channel
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ch.ID, &ch.GroupID, &ch.Name, &ch.Slug, &ch.Category, &ch.IsActive, &ch.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}
