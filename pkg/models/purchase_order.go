package models

import "time"

type POStatus string

const (
	POStatusDraft     POStatus = "draft"
	POStatusSent      POStatus = "sent"
	POStatusPartial   POStatus = "partial"
	POStatusInTransit POStatus = "in_transit"
	POStatusReceived  POStatus = "received"
	POStatusCancelled POStatus = "cancelled"
)

// poTransitions is the allowed-transition table for explicit status changes.
// Receiving does not consult it directly: partial/received are derived from
// quantity totals, which keeps receiving monotonic.
var poTransitions = map[POStatus][]POStatus{
	POStatusDraft:     {POStatusSent, POStatusCancelled},
	POStatusSent:      {POStatusPartial, POStatusInTransit, POStatusReceived, POStatusCancelled},
	POStatusPartial:   {POStatusInTransit, POStatusReceived, POStatusCancelled},
	POStatusInTransit: {POStatusPartial, POStatusReceived, POStatusCancelled},
}

func (s POStatus) CanTransition(to POStatus) bool {
	for _, allowed := range poTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s POStatus) IsTerminal() bool {
	return s == POStatusReceived || s == POStatusCancelled
}

type PurchaseOrder struct {
	ID          int                 `json:"id" db:"id"`
	PONumber    string              `json:"po_number" db:"po_number"`
	Supplier    string              `json:"supplier" db:"supplier"`
	Status      POStatus            `json:"status" db:"status"`
	Notes       string              `json:"notes" db:"notes"`
	CreatedByID int                 `json:"created_by_id" db:"created_by_id"`
	CreatedAt   time.Time           `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at,omitempty" db:"updated_at"`
	Items       []PurchaseOrderItem `json:"items" db:"-"`
}

type PurchaseOrderItem struct {
	ID               int     `json:"id" db:"id"`
	PurchaseOrderID  int     `json:"purchase_order_id" db:"purchase_order_id"`
	ProductID        int     `json:"product_id" db:"product_id"`
	QuantityOrdered  int     `json:"quantity_ordered" db:"quantity_ordered"`
	QuantityReceived int     `json:"quantity_received" db:"quantity_received"`
	UnitCost         float64 `json:"unit_cost" db:"unit_cost"`
}

func (po *PurchaseOrder) TotalOrdered() int {
	total := 0
	for _, item := range po.Items {
		total += item.QuantityOrdered
	}
	return total
}

func (po *PurchaseOrder) TotalReceived() int {
	total := 0
	for _, item := range po.Items {
		total += item.QuantityReceived
	}
	return total
}

// TotalCost is a derived display field, not authoritative accounting.
func (po *PurchaseOrder) TotalCost() float64 {
	total := 0.0
	for _, item := range po.Items {
		total += float64(item.QuantityOrdered) * item.UnitCost
	}
	return total
}
