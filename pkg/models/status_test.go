package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimStatusTransitions(t *testing.T) {
	assert.True(t, ClaimStatusPending.CanTransition(ClaimStatusApproved))
	assert.True(t, ClaimStatusPending.CanTransition(ClaimStatusDenied))
	assert.False(t, ClaimStatusApproved.CanTransition(ClaimStatusDenied))
	assert.False(t, ClaimStatusDenied.CanTransition(ClaimStatusPending))

	assert.False(t, ClaimStatusPending.IsTerminal())
	assert.True(t, ClaimStatusApproved.IsTerminal())
	assert.True(t, ClaimStatusDenied.IsTerminal())
}

func TestPOStatusTransitions(t *testing.T) {
	assert.True(t, POStatusDraft.CanTransition(POStatusSent))
	assert.True(t, POStatusDraft.CanTransition(POStatusCancelled))
	assert.False(t, POStatusDraft.CanTransition(POStatusReceived))

	assert.True(t, POStatusSent.CanTransition(POStatusInTransit))
	assert.True(t, POStatusPartial.CanTransition(POStatusCancelled))
	assert.True(t, POStatusInTransit.CanTransition(POStatusPartial))

	// Terminal states allow nothing.
	assert.False(t, POStatusReceived.CanTransition(POStatusCancelled))
	assert.False(t, POStatusCancelled.CanTransition(POStatusSent))

	assert.True(t, POStatusReceived.IsTerminal())
	assert.True(t, POStatusCancelled.IsTerminal())
	assert.False(t, POStatusPartial.IsTerminal())
}

func TestReturnStatusTransitions(t *testing.T) {
	assert.True(t, ReturnStatusPending.CanTransition(ReturnStatusApproved))
	assert.False(t, ReturnStatusApproved.CanTransition(ReturnStatusPending))
}

func TestPurchaseOrderTotals(t *testing.T) {
	po := PurchaseOrder{
		Items: []PurchaseOrderItem{
			{QuantityOrdered: 10, QuantityReceived: 4, UnitCost: 2.5},
			{QuantityOrdered: 5, QuantityReceived: 5, UnitCost: 10},
		},
	}

	assert.Equal(t, 15, po.TotalOrdered())
	assert.Equal(t, 9, po.TotalReceived())
	assert.InDelta(t, 75.0, po.TotalCost(), 0.001)
}
