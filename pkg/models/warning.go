package models

// Warning codes returned alongside successful operations. These are surfaced
// to the caller for display, never swallowed and never treated as errors.
const (
	WarningOverDelivery   = "over_delivery"
	WarningStockShortfall = "stock_shortfall"
	WarningBOMDrift       = "bom_drift"
	WarningClaimedClamped = "claimed_clamped"
)

type Warning struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID int    `json:"product_id,omitempty"`
}
