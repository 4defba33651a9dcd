package models

import "time"

type TokenType string

const (
	TokenTypeAdmin TokenType = "admin"
	TokenTypeView  TokenType = "view"
)

// AccessToken is a bearer capability for a single board. The opaque token
// value itself is the primary key; regeneration replaces rows rather than
// mutating them, so stale tokens stop matching immediately.
type AccessToken struct {
	ID        string     `gorm:"type:varchar(64);primarykey" json:"id"`
	BoardID   string     `gorm:"type:varchar(32);not null;index" json:"board_id"`
	Type      TokenType  `gorm:"type:varchar(10);not null" json:"type"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Expired reports whether the token has an expiry in the past.
func (t *AccessToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}
