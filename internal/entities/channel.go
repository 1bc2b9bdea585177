package entities

import "time"

// Channel binds a tenant to a WhatsApp Business phone number and the
// credential used to send through it. Inbound webhook events are routed to
// the owning org by PhoneNumberID.
type Channel struct {
	ID            int       `json:"id"`
	OrgID         int       `json:"org_id"`
	Platform      string    `json:"platform"`
	PhoneNumberID string    `json:"phone_number_id"`
	WABAID        string    `json:"waba_id"`
	AccessToken   string    `json:"-"`
	DisplayName   string    `json:"display_name"`
	Status        string    `json:"status"` // "connected" or "disconnected"
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
