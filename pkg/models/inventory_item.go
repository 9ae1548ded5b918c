package models

import "time"

// InventoryItem is the ledger row every workflow mutates. Quantities are unit
// counts; unit_cost is a display-derived figure, not accounting data.
type InventoryItem struct {
	ID             int       `json:"id" db:"id"`
	SKU            string    `json:"sku" db:"sku"`
	Name           string    `json:"name" db:"name"`
	UnitCost       float64   `json:"unit_cost" db:"unit_cost"`
	InStock        int       `json:"in_stock" db:"in_stock"`
	Allocated      int       `json:"allocated" db:"allocated"`
	SafetyStock    int       `json:"safety_stock" db:"safety_stock"`
	Consumed30d    int       `json:"consumed_30d" db:"consumed_30d"`
	ProjectedStock int       `json:"projected_stock" db:"projected_stock"`
	CreatedAt      time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Available is what can still be promised. May be negative; that is the
// critical signal, not an error.
func (i *InventoryItem) Available() int {
	return i.InStock - i.Allocated
}

func (i *InventoryItem) IsCritical() bool {
	return i.InStock < 0 || i.Allocated > i.InStock || i.InStock <= i.SafetyStock
}

// InventoryItemView is the dashboard shape with derived fields populated.
type InventoryItemView struct {
	InventoryItem
	Available int  `json:"available"`
	Critical  bool `json:"critical"`
}

func (i InventoryItem) ToView() InventoryItemView {
	return InventoryItemView{
		InventoryItem: i,
		Available:     i.Available(),
		Critical:      i.IsCritical(),
	}
}
