package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailable(t *testing.T) {
	item := InventoryItem{InStock: 10, Allocated: 4}
	assert.Equal(t, 6, item.Available())

	item = InventoryItem{InStock: 3, Allocated: 8}
	assert.Equal(t, -5, item.Available())
}

func TestIsCritical(t *testing.T) {
	cases := []struct {
		name     string
		item     InventoryItem
		critical bool
	}{
		{"healthy", InventoryItem{InStock: 20, Allocated: 5, SafetyStock: 3}, false},
		{"negative stock", InventoryItem{InStock: -1, Allocated: 0, SafetyStock: 0}, true},
		{"over allocated", InventoryItem{InStock: 5, Allocated: 8, SafetyStock: 0}, true},
		{"at safety stock", InventoryItem{InStock: 3, Allocated: 0, SafetyStock: 3}, true},
		{"just above safety stock", InventoryItem{InStock: 4, Allocated: 0, SafetyStock: 3}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.critical, tc.item.IsCritical())
		})
	}
}

func TestToView(t *testing.T) {
	item := InventoryItem{InStock: 2, Allocated: 5, SafetyStock: 1}
	view := item.ToView()

	assert.Equal(t, -3, view.Available)
	assert.True(t, view.Critical)
}
