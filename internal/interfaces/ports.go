package interfaces

import (
	"context"

	"github.com/webautomy/relay/internal/entities"
)

// Sender is the external send capability (Meta Cloud API wrapper). The
// channel carries the outbound credential.
type Sender interface {
	Send(ctx context.Context, channel entities.Channel, req entities.SendRequest) (entities.SendReceipt, error)
}

// Ledger guards billable actions with an atomic conditional decrement.
// DebitOrFail must never be a read-then-write from the caller's side.
type Ledger interface {
	DebitOrFail(ctx context.Context, orgID int, amountCents int64, correlationID string) error
	Credit(ctx context.Context, orgID int, amountCents int64, correlationID, reason string) error
}

type ChannelStore interface {
	GetByID(ctx context.Context, id int) (*entities.Channel, error)
	GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entities.Channel, error)
}

type ContactStore interface {
	Upsert(ctx context.Context, orgID int, phone, name string) (*entities.Contact, error)
}

type MessageStore interface {
	Insert(ctx context.Context, msg *entities.Message) error
}

type RuleStore interface {
	ActiveByOrg(ctx context.Context, orgID int) ([]entities.AutomationRule, error)
}

// DeliveryDedup suppresses webhook redeliveries. Seen reports whether the
// provider message id was already processed and marks it if not.
type DeliveryDedup interface {
	Seen(ctx context.Context, waMessageID string) bool
}
