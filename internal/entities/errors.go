package entities

import "errors"

// Error taxonomy for the dispatch and ledger paths. Handlers map these to
// HTTP status codes; usecases wrap them with context via fmt.Errorf("%w").
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrRemoteSend        = errors.New("whatsapp send failed")
	ErrLedgerUnavailable = errors.New("wallet backend unavailable")
	ErrNotFound          = errors.New("not found")
)
