package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapStatusFallsBackToInitialState(t *testing.T) {
	assert.Equal(t, TransferStatusPending, MapTransferStatus("shipped"))
	assert.Equal(t, TransferStatusPending, MapTransferStatus(""))
	assert.Equal(t, SupplyStatusPending, MapSupplyStatus("nonsense"))
	assert.Equal(t, CountStatusDraft, MapCountStatus("received"))
}

func TestMapStatusKeepsRecognizedValues(t *testing.T) {
	assert.Equal(t, TransferStatusCompleted, MapTransferStatus("completed"))
	assert.Equal(t, SupplyStatusPartial, MapSupplyStatus("partial"))
	assert.Equal(t, CountStatusInProgress, MapCountStatus("in_progress"))
}

func TestSaleTerminalStatesHaveNoTransitions(t *testing.T) {
	for _, s := range []SaleStatus{SaleStatusCompleted, SaleStatusCancelled} {
		assert.True(t, s.IsTerminal())
		assert.Empty(t, SaleTransitions(s))
	}
}

func TestSaleCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to SaleStatus
		want     bool
	}{
		{SaleStatusDraft, SaleStatusPending, true},
		{SaleStatusDraft, SaleStatusConfirmed, false},
		{SaleStatusPending, SaleStatusConfirmed, true},
		{SaleStatusConfirmed, SaleStatusPaid, true},
		{SaleStatusConfirmed, SaleStatusPaymentPending, true},
		{SaleStatusPaymentPending, SaleStatusPartiallyPaid, true},
		{SaleStatusPartiallyPaid, SaleStatusPaid, true},
		{SaleStatusPaid, SaleStatusShipped, true},
		{SaleStatusPaid, SaleStatusDelivered, false},
		{SaleStatusShipped, SaleStatusDelivered, true},
		{SaleStatusDelivered, SaleStatusCompleted, true},
		{SaleStatusCompleted, SaleStatusCancelled, false},
		{SaleStatusCancelled, SaleStatusDraft, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	// Every non-terminal status may be cancelled.
	for from := range saleTransitions {
		if !from.IsTerminal() {
			assert.True(t, from.CanTransitionTo(SaleStatusCancelled), "%s -> cancelled", from)
		}
	}
}

func TestOperationKindIsValid(t *testing.T) {
	assert.True(t, OperationSupply.IsValid())
	assert.True(t, OperationTransfer.IsValid())
	assert.True(t, OperationInventory.IsValid())
	assert.False(t, OperationKind("sale").IsValid())
}
