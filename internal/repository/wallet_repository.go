package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webautomy/relay/internal/entities"
)

// WalletRepository is the balance ledger. The debit is a single conditional
// UPDATE so concurrency control lives in Postgres row locking; two racing
// debits against one fee of balance serialize there and exactly one wins.
type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

// DebitOrFail atomically deducts amountCents if the balance covers it.
// Returns ErrInsufficientFunds when it does not (or no wallet row exists),
// ErrLedgerUnavailable when the backend cannot be reached.
func (r *WalletRepository) DebitOrFail(ctx context.Context, orgID int, amountCents int64, correlationID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE wallets
		SET balance_cents = balance_cents - $2, updated_at = NOW()
		WHERE org_id = $1 AND balance_cents >= $2
	`, orgID, amountCents)
	if err != nil {
		return fmt.Errorf("%w: debit: %v", entities.ErrLedgerUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrInsufficientFunds
	}

	r.recordTransaction(ctx, orgID, amountCents, entities.TxDebit, correlationID, "service fee")
	return nil
}

// Credit adds to the balance unconditionally. Used for refunds and top-ups.
func (r *WalletRepository) Credit(ctx context.Context, orgID int, amountCents int64, correlationID, reason string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE wallets
		SET balance_cents = balance_cents + $2, updated_at = NOW()
		WHERE org_id = $1
	`, orgID, amountCents)
	if err != nil {
		return fmt.Errorf("%w: credit: %v", entities.ErrLedgerUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: no wallet for org %d", entities.ErrLedgerUnavailable, orgID)
	}

	r.recordTransaction(ctx, orgID, amountCents, entities.TxCredit, correlationID, reason)
	return nil
}

// recordTransaction appends the audit row. Best effort: the balance change
// already committed, a missing audit row is reconciled out of band.
func (r *WalletRepository) recordTransaction(ctx context.Context, orgID int, amountCents int64, txType, referenceID, reason string) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO wallet_transactions (org_id, amount_cents, tx_type, reference_id, reason)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
	`, orgID, amountCents, txType, referenceID, reason)
	if err != nil {
		log.Printf("[WALLET] audit insert failed for org %d (%s %d): %v", orgID, txType, amountCents, err)
	}
}

func (r *WalletRepository) Balance(ctx context.Context, orgID int) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, "SELECT balance_cents FROM wallets WHERE org_id = $1", orgID).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, entities.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: balance: %v", entities.ErrLedgerUnavailable, err)
	}
	return balance, nil
}

// RecentTransactions returns the newest audit rows for the org.
func (r *WalletRepository) RecentTransactions(ctx context.Context, orgID, limit int) ([]entities.WalletTransaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, org_id, amount_cents, tx_type, COALESCE(reference_id, ''), COALESCE(reason, ''), created_at
		FROM wallet_transactions
		WHERE org_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []entities.WalletTransaction{}
	for rows.Next() {
		var tx entities.WalletTransaction
		if err := rows.Scan(&tx.ID, &tx.OrgID, &tx.AmountCents, &tx.TxType, &tx.ReferenceID, &tx.Reason, &tx.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
