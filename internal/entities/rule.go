package entities

import "time"

const (
	MatchExact    = "exact"
	MatchContains = "contains"
)

// AutomationRule triggers an automated reply when inbound text matches the
// keyword. Any match type other than "exact" is treated as "contains".
type AutomationRule struct {
	ID             int       `json:"id"`
	OrgID          int       `json:"org_id"`
	TriggerKeyword string    `json:"trigger_keyword"`
	MatchType      string    `json:"match_type"`
	ReplyMessage   string    `json:"reply_message"`
	IsActive       bool      `json:"is_active"`
	Priority       int       `json:"priority"` // lower fires first
	CreatedAt      time.Time `json:"created_at"`
}
