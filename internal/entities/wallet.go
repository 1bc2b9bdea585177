package entities

import "time"

// Wallet holds a tenant's prepaid balance in integer cents. The balance is
// mutated only through the ledger's debit/credit operations, never written
// directly.
type Wallet struct {
	OrgID        int       `json:"org_id"`
	BalanceCents int64     `json:"balance_cents"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	TxDebit  = "debit"
	TxCredit = "credit"
)

// WalletTransaction is the audit trail row written alongside every balance
// mutation. ReferenceID carries the dispatch correlation id so a
// reconciliation sweep can pair debits with their refunds.
type WalletTransaction struct {
	ID          int       `json:"id"`
	OrgID       int       `json:"org_id"`
	AmountCents int64     `json:"amount_cents"`
	TxType      string    `json:"tx_type"`
	ReferenceID string    `json:"reference_id,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
