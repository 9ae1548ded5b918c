package models

import (
	"encoding/json"
	"time"
)

const (
	ActionClaimInitiated  = "claim_initiated"
	ActionClaimApproved   = "claim_approved"
	ActionClaimDenied     = "claim_denied"
	ActionPOCreated       = "po_created"
	ActionPOSent          = "po_sent"
	ActionPOInTransit     = "po_in_transit"
	ActionPOCancelled     = "po_cancelled"
	ActionPOReceived      = "po_received"
	ActionPOQACompleted   = "po_qa_completed"
	ActionReturnSubmitted = "return_submitted"
	ActionReturnApproved  = "return_approved"
	ActionStockAdjusted   = "stock_adjusted"
)

// AuditLog is a write-once record of who did what. Entries are persisted in
// the same transaction as the mutation they describe.
type AuditLog struct {
	ID           int                    `json:"id" db:"id"`
	ResourceID   int                    `json:"resource_id" db:"resource_id"`
	ResourceType string                 `json:"resource_type" db:"resource_type"`
	Action       string                 `json:"action" db:"action"`
	Description  string                 `json:"description" db:"description"`
	PhotoURL     *string                `json:"photo_url,omitempty" db:"photo_url"`
	DataRaw      string                 `json:"-" db:"data"` // JSON as string
	Data         map[string]interface{} `json:"data" db:"-"`
	ActorID      *int                   `json:"actor_id,omitempty" db:"actor_id"`
	ActorName    string                 `json:"actor_name" db:"actor_name"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
}

func (a *AuditLog) LoadFromDB() {
	if a.DataRaw != "" {
		_ = json.Unmarshal([]byte(a.DataRaw), &a.Data)
	}
}
