package entities

import "time"

type Org struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           int       `json:"id"`
	OrgID        int       `json:"org_id"` // Tenant the user belongs to
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // "owner" or "member"
	CreatedAt    time.Time `json:"created_at"`
}
