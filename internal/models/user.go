package models

import "time"

// User is an authenticated identity resolved from an API token. Identity
// creation and credentials live with the external provider; this service only
// resolves tokens to users and scopes project data by user id.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Token      string     `json:"-"` // never serialized
	IsActive   bool       `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastSeenAt *time.Time `json:"-"`
}

// MaskedToken returns a log-safe prefix of the user's token.
func (u *User) MaskedToken() string {
	if len(u.Token) < 8 {
		return "***"
	}
	return u.Token[:8] + "..."
}
