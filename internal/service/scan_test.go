package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScanCode(t *testing.T) {
	cases := []struct {
		name string
		code string
		want int64
		ok   bool
	}{
		{"json id", `{"id": 42, "name": "ignored"}`, 42, true},
		{"json string id", `{"id": "17"}`, 17, true},
		{"legacy prefix", "product-id:17", 17, true},
		{"legacy prefix with space", "product-id: 8", 8, true},
		{"bare integer", "3", 3, true},
		{"whitespace around bare integer", "  3\n", 3, true},
		{"json wins over bare parse", `{"id": 5}`, 5, true},
		{"malformed prefix", "product-id:abc", 0, false},
		{"negative", "-4", 0, false},
		{"empty", "", 0, false},
		{"garbage", "hello world", 0, false},
		{"json without id", `{"sku": "X1"}`, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseScanCode(tc.code)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestStartScannerSingleActive(t *testing.T) {
	svc, _ := newTestService(t)

	first, started, err := svc.StartScanner(StartScannerParams{OperationType: "lookup"})
	require.NoError(t, err)
	assert.True(t, started)

	// A second start while one is active returns the existing session.
	second, started, err := svc.StartScanner(StartScannerParams{OperationType: "lookup"})
	require.NoError(t, err)
	assert.False(t, started)
	assert.Equal(t, first.ID, second.ID)

	svc.StopScanner()
	third, started, err := svc.StartScanner(StartScannerParams{OperationType: "lookup"})
	require.NoError(t, err)
	assert.True(t, started)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestStartScannerRequiresMatchingForm(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.StartScanner(StartScannerParams{OperationType: "receive", FormID: "nope"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	form, err := svc.OpenForm(ctx, "transfer", 0)
	require.NoError(t, err)

	_, _, err = svc.StartScanner(StartScannerParams{OperationType: "receive", FormID: form.ID})
	require.ErrorAs(t, err, &verr)

	_, started, err := svc.StartScanner(StartScannerParams{OperationType: "transfer", FormID: form.ID})
	require.NoError(t, err)
	assert.True(t, started)
}

func TestIngestScanLookup(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.StartScanner(StartScannerParams{OperationType: "lookup"})
	require.NoError(t, err)

	result, err := svc.IngestScan(ctx, "1")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.False(t, result.Routed)
	require.NotNil(t, result.Product)
	assert.Equal(t, "Beras Premium 5kg", result.Product.Name)

	view, err := svc.Scanner()
	require.NoError(t, err)
	require.NotNil(t, view.LastScannedProduct)
	assert.Equal(t, int64(1), view.LastScannedProduct.ID)
}

func TestIngestScanInvalidCodeIsNonFatal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.StartScanner(StartScannerParams{OperationType: "lookup"})
	require.NoError(t, err)

	result, err := svc.IngestScan(ctx, "not-a-code")
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, "invalid code", result.Reason)

	// The session is still alive and usable.
	result, err = svc.IngestScan(ctx, "2")
	require.NoError(t, err)
	assert.True(t, result.Matched)
}

func TestIngestScanRoutesIntoForm(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	form, err := svc.OpenForm(ctx, "supply", 0)
	require.NoError(t, err)

	_, _, err = svc.StartScanner(StartScannerParams{
		OperationType:   "receive",
		FormID:          form.ID,
		PendingQuantity: 3,
	})
	require.NoError(t, err)

	result, err := svc.IngestScan(ctx, "product-id:4")
	require.NoError(t, err)
	assert.True(t, result.Routed)
	require.NotNil(t, result.Form)
	require.Len(t, result.Form.Items, 1)
	assert.Equal(t, int64(3), result.Form.Items[0].Quantity)
	// Purchase price is the default unit price for scanned lines.
	assert.True(t, result.Form.Items[0].UnitPrice.Equal(decimal.NewFromInt(15500)))
}

func TestIngestScanPauseWindowSwallowsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	base := time.Now()
	svc.now = func() time.Time { return base }

	form, err := svc.OpenForm(ctx, "supply", 0)
	require.NoError(t, err)
	_, _, err = svc.StartScanner(StartScannerParams{OperationType: "receive", FormID: form.ID})
	require.NoError(t, err)

	first, err := svc.IngestScan(ctx, "2")
	require.NoError(t, err)
	require.True(t, first.Routed)

	// Same code inside the pause window: swallowed, basket untouched.
	dup, err := svc.IngestScan(ctx, "2")
	require.NoError(t, err)
	assert.True(t, dup.Ignored)

	view, err := svc.GetForm(form.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.TotalQuantity)

	// Past the window the same code merges into the existing line.
	svc.now = func() time.Time { return base.Add(2 * time.Second) }
	again, err := svc.IngestScan(ctx, "2")
	require.NoError(t, err)
	assert.True(t, again.Routed)
	assert.Equal(t, "quantity of Mie Goreng Instan updated to 2", again.Summary)
}

func TestIngestScanWithoutSession(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.IngestScan(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNoActiveScanner)
}

func TestIngestScanUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.StartScanner(StartScannerParams{OperationType: "lookup"})
	require.NoError(t, err)

	result, err := svc.IngestScan(ctx, "9999")
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, "unknown product", result.Reason)
}
