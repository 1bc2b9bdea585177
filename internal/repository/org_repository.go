package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webautomy/relay/internal/entities"
)

type OrgRepository struct {
	db *pgxpool.Pool
}

func NewOrgRepository(db *pgxpool.Pool) *OrgRepository {
	return &OrgRepository{db: db}
}

// CreateWithOwner provisions a tenant in one transaction: the org row, its
// owner user, and a zero-balance wallet. Partial signups must not exist.
func (r *OrgRepository) CreateWithOwner(ctx context.Context, orgName, username, passwordHash string) (*entities.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var orgID int
	err = tx.QueryRow(ctx,
		"INSERT INTO orgs (name) VALUES ($1) RETURNING id", orgName).Scan(&orgID)
	if err != nil {
		return nil, fmt.Errorf("create org: %w", err)
	}

	var user entities.User
	err = tx.QueryRow(ctx, `
		INSERT INTO users (org_id, username, password_hash, role)
		VALUES ($1, $2, $3, 'owner')
		RETURNING id, org_id, username, password_hash, role, created_at
	`, orgID, username, passwordHash).Scan(&user.ID, &user.OrgID, &user.Username,
		&user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create owner: %w", err)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO wallets (org_id) VALUES ($1)", orgID); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	return &user, tx.Commit(ctx)
}
