package models

import "time"

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusDenied   ClaimStatus = "denied"
)

const (
	ClaimTypeStandard  = "standard"
	ClaimTypeEmergency = "emergency"
)

// Claims are forward-only: pending is the sole non-terminal state.
var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimStatusPending: {ClaimStatusApproved, ClaimStatusDenied},
}

func (s ClaimStatus) CanTransition(to ClaimStatus) bool {
	for _, allowed := range claimTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatusApproved || s == ClaimStatusDenied
}

type Claim struct {
	ID            int         `json:"id" db:"id"`
	ClaimNumber   string      `json:"claim_number" db:"claim_number"`
	ProjectID     int         `json:"project_id" db:"project_id"`
	ClaimType     string      `json:"claim_type" db:"claim_type"`
	Status        ClaimStatus `json:"status" db:"status"`
	RequestedByID int         `json:"requested_by_id" db:"requested_by_id"`
	ApprovedByID  *int        `json:"approved_by_id,omitempty" db:"approved_by_id"`
	PhotoURL      string      `json:"photo_url" db:"photo_url"`
	Notes         string      `json:"notes" db:"notes"`
	CreatedAt     time.Time   `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at,omitempty" db:"updated_at"`
	Items         []ClaimItem `json:"items" db:"-"`
}

type ClaimItem struct {
	ID        int `json:"id" db:"id"`
	ClaimID   int `json:"claim_id" db:"claim_id"`
	ProductID int `json:"product_id" db:"product_id"`
	Quantity  int `json:"quantity" db:"quantity"`
}
