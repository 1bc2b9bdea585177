package entities

import "time"

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

const (
	StatusDelivered = "delivered"
	StatusSent      = "sent"
	StatusSimulated = "simulated"
)

// Message is append-only; only Status may change after creation (delivery
// tracking, out of scope here).
type Message struct {
	ID          int       `json:"id"`
	OrgID       int       `json:"org_id"`
	ContactID   *int      `json:"contact_id,omitempty"`
	ChannelID   *int      `json:"channel_id,omitempty"`
	Direction   string    `json:"direction"`
	Content     string    `json:"content"`
	MediaURL    string    `json:"media_url,omitempty"`
	Status      string    `json:"status"`
	WAMessageID string    `json:"wa_message_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// InboundEvent is one message event extracted from a webhook envelope.
type InboundEvent struct {
	PhoneNumberID string
	From          string
	SenderName    string
	Text          string
	WAMessageID   string
}
