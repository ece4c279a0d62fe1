package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

const messageColumns = `m.id, m.channel_id, m.sender_id, m.kind, m.content, m.parent_id,
	m.pinned, m.deleted_at, m.deleted_by, m.created_at, u.username, u.display_name, u.avatar_url`

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, channel_id, sender_id, kind, content, parent_id, pinned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.ChannelID, msg.SenderID, msg.Kind, msg.Content, msg.ParentID, msg.Pinned, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM messages m
		LEFT JOIN users u ON m.sender_id = u.id
		WHERE m.id = $1`, messageColumns)
	msg, err := scanMessage(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return msg, err
}

func (r *MessageRepo) ListRecent(ctx context.Context, channelID uuid.UUID, before *uuid.UUID, limit int) ([]domain.Message, error) {
	var query string
	var args []any

	if before != nil {
		// Keyset pagination off the cursor row's created_at. The cursor must
		// belong to the same channel; a foreign cursor yields an empty page.
		// id is the tiebreaker for equal timestamps.
		query = fmt.Sprintf(`
			SELECT %s
			FROM messages m
			LEFT JOIN users u ON m.sender_id = u.id
			WHERE m.channel_id = $1 AND m.deleted_at IS NULL
				AND m.created_at < (SELECT created_at FROM messages WHERE id = $2 AND channel_id = $1)
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT %d`, messageColumns, limit)
		args = []any{channelID, *before}
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM messages m
			LEFT JOIN users u ON m.sender_id = u.id
			WHERE m.channel_id = $1 AND m.deleted_at IS NULL
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT %d`, messageColumns, limit)
		args = []any{channelID}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}

	// Query is DESC; flip to chronological for the page.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, rows.Err()
}

func (r *MessageRepo) SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE messages SET pinned = $1 WHERE id = $2`, pinned, id)
	return err
}

func (r *MessageRepo) SoftDelete(ctx context.Context, id uuid.UUID, by domain.Actor) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET deleted_at = now(), deleted_by = $1 WHERE id = $2 AND deleted_at IS NULL`,
		by.UserID, id)
	return err
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var msg domain.Message
	var username, displayName *string
	err := row.Scan(
		&msg.ID, &msg.ChannelID, &msg.SenderID, &msg.Kind, &msg.Content,
		&msg.ParentID, &msg.Pinned, &msg.DeletedAt, &msg.DeletedBy, &msg.CreatedAt,
		&username, &displayName, &msg.SenderAvatarURL,
	)
	if err != nil {
		return nil, err
	}
	if username != nil {
		msg.SenderUsername = *username
	}
	if displayName != nil {
		msg.SenderDisplayName = *displayName
	}
	msg.FillBotSender()
	return &msg, nil
}
