package models

import "time"

// StockAdjustment is an immutable manual delta against in_stock. Corrections
// are new adjustments, never edits.
type StockAdjustment struct {
	ID             int       `json:"id" db:"id"`
	ProductID      int       `json:"product_id" db:"product_id"`
	QuantityChange int       `json:"quantity_change" db:"quantity_change"`
	Reason         string    `json:"reason" db:"reason"`
	AdminID        int       `json:"admin_id" db:"admin_id"`
	AdminName      string    `json:"admin_name" db:"admin_name"`
	CreatedAt      time.Time `json:"created_at,omitempty" db:"created_at"`
}

const (
	AdjustmentReasonDamage     = "damage"
	AdjustmentReasonLoss       = "loss"
	AdjustmentReasonTheft      = "theft"
	AdjustmentReasonExpiry     = "expiry"
	AdjustmentReasonFoundStock = "found_stock"
	AdjustmentReasonCorrection = "correction"
)

// LeakageReasons are the negative-adjustment reasons that feed the system
// leakage aggregate.
var LeakageReasons = []string{
	AdjustmentReasonDamage,
	AdjustmentReasonLoss,
	AdjustmentReasonTheft,
	AdjustmentReasonExpiry,
}

func IsLeakageReason(reason string) bool {
	for _, r := range LeakageReasons {
		if r == reason {
			return true
		}
	}
	return false
}
