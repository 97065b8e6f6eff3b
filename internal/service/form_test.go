package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokoku/gateway/internal/backend/memory"
	"tokoku/gateway/internal/domain"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewSeeded()
	svc := New(store, nil, Options{})
	return svc, store
}

func TestOpenFormRejectsUnknownKind(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.OpenForm(context.Background(), "returns", 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestOpenFormInitialStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	supply, err := svc.OpenForm(ctx, "supply", 0)
	require.NoError(t, err)
	assert.Equal(t, "pending", supply.Status)

	transfer, err := svc.OpenForm(ctx, "transfer", 0)
	require.NoError(t, err)
	assert.Equal(t, "pending", transfer.Status)

	count, err := svc.OpenForm(ctx, "inventory", 0)
	require.NoError(t, err)
	assert.Equal(t, "draft", count.Status)
}

func TestSubmitSupplyValidationOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	form, err := svc.OpenForm(ctx, "supply", 0)
	require.NoError(t, err)

	_, err = svc.SubmitForm(ctx, form.ID)
	require.EqualError(t, err, "supplier is required")

	supplierID := int64(1)
	_, err = svc.SetFormFields(form.ID, FormFields{SupplierID: &supplierID})
	require.NoError(t, err)

	_, err = svc.SubmitForm(ctx, form.ID)
	require.EqualError(t, err, "zone is required")

	zoneID := int64(1)
	_, err = svc.SetFormFields(form.ID, FormFields{ZoneID: &zoneID})
	require.NoError(t, err)

	_, err = svc.SubmitForm(ctx, form.ID)
	require.EqualError(t, err, "add at least one item")
}

func TestSubmitTransferRejectsSameZones(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	form, err := svc.OpenForm(ctx, "transfer", 0)
	require.NoError(t, err)

	zone := int64(1)
	_, err = svc.SetFormFields(form.ID, FormFields{SourceZoneID: &zone, TargetZoneID: &zone})
	require.NoError(t, err)
	_, _, err = svc.AddFormItem(ctx, form.ID, 2, 10, decimal.Zero)
	require.NoError(t, err)

	_, err = svc.SubmitForm(ctx, form.ID)
	require.EqualError(t, err, "source and target zones must be different")

	// The session survives the failure.
	view, err := svc.GetForm(form.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestAddFormItemGates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	form, err := svc.OpenForm(ctx, "supply", 0)
	require.NoError(t, err)

	_, _, err = svc.AddFormItem(ctx, form.ID, 0, 5, decimal.Zero)
	require.EqualError(t, err, "a product must be selected")

	_, _, err = svc.AddFormItem(ctx, form.ID, 1, 0, decimal.Zero)
	require.EqualError(t, err, "quantity must be greater than zero")

	_, _, err = svc.AddFormItem(ctx, form.ID, 1, 5, decimal.NewFromInt(-1))
	require.EqualError(t, err, "unit price cannot be negative")

	view, summary, err := svc.AddFormItem(ctx, form.ID, 1, 5, decimal.NewFromInt(62000))
	require.NoError(t, err)
	assert.Empty(t, summary)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Beras Premium 5kg", view.Items[0].ProductName)
	assert.Equal(t, int64(1), view.PendingQuantity)
	assert.True(t, view.PendingUnitPrice.IsZero())
}

func TestSubmitSupplyCreatesUpstreamDocument(t *testing.T) {
	svc, store := newTestService(t)
	ctx := WithActor(context.Background(), domain.Actor{Username: "dewi", Role: "manager"})

	form, err := svc.OpenForm(ctx, "supply", 0)
	require.NoError(t, err)

	supplierID, zoneID, status := int64(1), int64(1), "received"
	_, err = svc.SetFormFields(form.ID, FormFields{SupplierID: &supplierID, ZoneID: &zoneID, Status: &status})
	require.NoError(t, err)
	_, _, err = svc.AddFormItem(ctx, form.ID, 1, 10, decimal.NewFromInt(62000))
	require.NoError(t, err)

	result, err := svc.SubmitForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OperationSupply, result.Kind)
	assert.False(t, result.Updated)
	assert.Equal(t, "received", result.Status)

	supply, err := store.GetSupplyByID(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Reference, supply.Reference)
	require.Len(t, supply.Items, 1)
	assert.True(t, supply.Items[0].TotalPrice.Equal(decimal.NewFromInt(620000)))

	// The session is gone after a successful submit.
	_, err = svc.GetForm(form.ID)
	assert.ErrorIs(t, err, ErrNoSuchForm)
}

func TestSubmitFormUnknownStatusFallsBack(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	form, err := svc.OpenForm(ctx, "supply", 0)
	require.NoError(t, err)

	supplierID, zoneID, status := int64(2), int64(1), "somehow-finished"
	_, err = svc.SetFormFields(form.ID, FormFields{SupplierID: &supplierID, ZoneID: &zoneID, Status: &status})
	require.NoError(t, err)
	_, _, err = svc.AddFormItem(ctx, form.ID, 3, 20, decimal.NewFromInt(1200))
	require.NoError(t, err)

	result, err := svc.SubmitForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", result.Status)

	supply, err := store.GetSupplyByID(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SupplyStatusPending, supply.Status)
}

func TestOpenFormEditModeBackfillsPrices(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	store.SeedTransfer(domain.Transfer{
		ID:         77,
		Reference:  "TRF-0077",
		FromZoneID: 1,
		ToZoneID:   2,
		Status:     domain.TransferStatusPending,
		Items: []domain.TransferItem{
			{ProductID: 2, Quantity: 12},
			{ProductID: 4, Quantity: 3},
		},
	})

	form, err := svc.OpenForm(ctx, "transfer", 77)
	require.NoError(t, err)
	assert.Equal(t, int64(77), form.EditID)
	assert.Equal(t, int64(1), form.SourceZoneID)
	assert.Equal(t, int64(2), form.TargetZoneID)
	require.Len(t, form.Items, 2)

	// Transfer items carry no price upstream; the catalog purchase price
	// fills the gap.
	assert.True(t, form.Items[0].UnitPrice.Equal(decimal.NewFromInt(2800)))
	assert.True(t, form.Items[1].UnitPrice.Equal(decimal.NewFromInt(15500)))
}

func TestSubmitEditedTransferUpdatesInPlace(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	store.SeedTransfer(domain.Transfer{
		ID: 78, Reference: "TRF-0078", FromZoneID: 1, ToZoneID: 2,
		Status: domain.TransferStatusPending,
		Items:  []domain.TransferItem{{ProductID: 2, Quantity: 5}},
	})

	form, err := svc.OpenForm(ctx, "transfer", 78)
	require.NoError(t, err)
	_, _, err = svc.AddFormItem(ctx, form.ID, 3, 6, decimal.Zero)
	require.NoError(t, err)

	result, err := svc.SubmitForm(ctx, form.ID)
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, int64(78), result.ID)
	assert.Equal(t, "TRF-0078", result.Reference)

	transfer, err := store.GetTransferByID(ctx, 78)
	require.NoError(t, err)
	require.Len(t, transfer.Items, 2)
}

func TestDiscardForm(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	form, err := svc.OpenForm(ctx, "inventory", 0)
	require.NoError(t, err)

	require.NoError(t, svc.DiscardForm(form.ID))
	assert.ErrorIs(t, svc.DiscardForm(form.ID), ErrNoSuchForm)
}

func TestSetFormFieldsIgnoresForeignFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	form, err := svc.OpenForm(ctx, "inventory", 0)
	require.NoError(t, err)

	supplierID, countZoneID := int64(9), int64(2)
	view, err := svc.SetFormFields(form.ID, FormFields{SupplierID: &supplierID, CountZoneID: &countZoneID})
	require.NoError(t, err)
	assert.Zero(t, view.SupplierID)
	assert.Equal(t, int64(2), view.CountZoneID)
}
