package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webautomy/relay/internal/entities"
)

type ChannelRepository struct {
	db *pgxpool.Pool
}

func NewChannelRepository(db *pgxpool.Pool) *ChannelRepository {
	return &ChannelRepository{db: db}
}

const channelColumns = `id, org_id, platform, phone_number_id, COALESCE(waba_id, ''),
	COALESCE(access_token, ''), COALESCE(display_name, ''), status, created_at, updated_at`

func scanChannel(row pgx.Row) (*entities.Channel, error) {
	var ch entities.Channel
	err := row.Scan(&ch.ID, &ch.OrgID, &ch.Platform, &ch.PhoneNumberID, &ch.WABAID,
		&ch.AccessToken, &ch.DisplayName, &ch.Status, &ch.CreatedAt, &ch.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *ChannelRepository) GetByID(ctx context.Context, id int) (*entities.Channel, error) {
	return scanChannel(r.db.QueryRow(ctx,
		"SELECT "+channelColumns+" FROM channels WHERE id = $1", id))
}

// GetByPhoneNumberID routes an inbound webhook event to its owning org.
func (r *ChannelRepository) GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entities.Channel, error) {
	return scanChannel(r.db.QueryRow(ctx,
		"SELECT "+channelColumns+" FROM channels WHERE phone_number_id = $1", phoneNumberID))
}

// Upsert connects or refreshes a channel for the org (embedded signup flow).
func (r *ChannelRepository) Upsert(ctx context.Context, ch *entities.Channel) (*entities.Channel, error) {
	return scanChannel(r.db.QueryRow(ctx, `
		INSERT INTO channels (org_id, platform, phone_number_id, waba_id, access_token, display_name, status)
		VALUES ($1, 'whatsapp', $2, $3, $4, $5, 'connected')
		ON CONFLICT (org_id, phone_number_id) DO UPDATE SET
			waba_id = EXCLUDED.waba_id,
			access_token = EXCLUDED.access_token,
			display_name = EXCLUDED.display_name,
			status = 'connected',
			updated_at = NOW()
		RETURNING `+channelColumns,
		ch.OrgID, ch.PhoneNumberID, ch.WABAID, ch.AccessToken, ch.DisplayName))
}

func (r *ChannelRepository) ListByOrg(ctx context.Context, orgID int) ([]entities.Channel, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+channelColumns+" FROM channels WHERE org_id = $1 ORDER BY id", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := []entities.Channel{}
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, *ch)
	}
	return channels, rows.Err()
}
