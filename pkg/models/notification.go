package models

import "time"

// Notification is an outbox row per recipient. is_read is the only field
// that ever changes after creation.
type Notification struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	ClaimID   *int      `json:"claim_id,omitempty" db:"claim_id"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
