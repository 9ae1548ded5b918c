package models

import "time"

type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
)

var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnStatusPending: {ReturnStatusApproved},
}

func (s ReturnStatus) CanTransition(to ReturnStatus) bool {
	for _, allowed := range returnTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Return mirrors a claim in reverse: approval puts stock back and rolls the
// project claimed counters down.
type Return struct {
	ID            int          `json:"id" db:"id"`
	ReturnNumber  string       `json:"return_number" db:"return_number"`
	ProjectID     int          `json:"project_id" db:"project_id"`
	ClaimID       *int         `json:"claim_id,omitempty" db:"claim_id"`
	Status        ReturnStatus `json:"status" db:"status"`
	RequestedByID int          `json:"requested_by_id" db:"requested_by_id"`
	ApprovedByID  *int         `json:"approved_by_id,omitempty" db:"approved_by_id"`
	Notes         string       `json:"notes" db:"notes"`
	CreatedAt     time.Time    `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at,omitempty" db:"updated_at"`
	Items         []ReturnItem `json:"items" db:"-"`
}

type ReturnItem struct {
	ID        int `json:"id" db:"id"`
	ReturnID  int `json:"return_id" db:"return_id"`
	ProductID int `json:"product_id" db:"product_id"`
	Quantity  int `json:"quantity" db:"quantity"`
}
