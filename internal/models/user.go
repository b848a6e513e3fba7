package models

import (
	"time"
)

// User represents a registered account in the credential store
type User struct {
	ID            string         `json:"_id" db:"id"`
	Username      string         `json:"username" db:"username"`
	Email         string         `json:"email" db:"email"`
	Password      string         `json:"password" db:"password"` // Blanked before leaving the server
	Image         string         `json:"image" db:"image"`
	SearchHistory []HistoryEntry `json:"searchHistory"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
}

// Public returns a copy of the user that is safe to hand to a client.
func (u *User) Public() *User {
	out := *u
	out.Password = ""
	if out.SearchHistory == nil {
		out.SearchHistory = []HistoryEntry{}
	}
	return &out
}
