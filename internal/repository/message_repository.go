package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webautomy/relay/internal/entities"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert appends one message row. Messages are never updated afterwards
// except for delivery status tracking.
func (r *MessageRepository) Insert(ctx context.Context, msg *entities.Message) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO messages (org_id, contact_id, channel_id, direction, content, media_url, status, wa_message_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''))
		RETURNING id, created_at
	`, msg.OrgID, msg.ContactID, msg.ChannelID, msg.Direction, msg.Content,
		msg.MediaURL, msg.Status, msg.WAMessageID).Scan(&msg.ID, &msg.CreatedAt)
}

// CountSince counts the org's messages created at or after the cutoff.
func (r *MessageRepository) CountSince(ctx context.Context, orgID int, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM messages WHERE org_id = $1 AND created_at >= $2",
		orgID, since).Scan(&count)
	return count, err
}
