package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webautomy/relay/internal/entities"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Upsert finds or creates the contact for (org, phone). A non-empty name on
// a later message overwrites a previously unknown one.
func (r *ContactRepository) Upsert(ctx context.Context, orgID int, phone, name string) (*entities.Contact, error) {
	var c entities.Contact
	err := r.db.QueryRow(ctx, `
		INSERT INTO contacts (org_id, phone, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (org_id, phone) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), contacts.name)
		RETURNING id, org_id, phone, COALESCE(name, ''), created_at
	`, orgID, phone, name).Scan(&c.ID, &c.OrgID, &c.Phone, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) CountByOrg(ctx context.Context, orgID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM contacts WHERE org_id = $1", orgID).Scan(&count)
	return count, err
}
