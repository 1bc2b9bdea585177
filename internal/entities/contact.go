package entities

import "time"

// Contact is unique per (org, phone); upserted on first inbound message.
type Contact struct {
	ID        int       `json:"id"`
	OrgID     int       `json:"org_id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
