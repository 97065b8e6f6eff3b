package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tokoku/gateway/internal/domain"
)

func TestFilterStockByZone(t *testing.T) {
	levels := []domain.StockLevel{
		{ProductID: 1, ZoneID: 1, Quantity: 40},
		{ProductID: 2, ZoneID: 2, Quantity: 24},
		{ProductID: 3, ZoneID: 1, Quantity: 350},
	}

	assert.Len(t, FilterStockByZone(levels, 1), 2)
	assert.Len(t, FilterStockByZone(levels, 2), 1)
	assert.Empty(t, FilterStockByZone(levels, 3))
	assert.Len(t, FilterStockByZone(levels, 0), 3)
}

func TestFilterSuppliesByStatus(t *testing.T) {
	supplies := []domain.Supply{
		{ID: 1, Status: domain.SupplyStatusPending},
		{ID: 2, Status: domain.SupplyStatusReceived},
		{ID: 3, Status: domain.SupplyStatusPending},
	}

	pending := FilterSuppliesByStatus(supplies, domain.SupplyStatusPending)
	assert.Len(t, pending, 2)
	assert.Len(t, FilterSuppliesByStatus(supplies, ""), 3)
}

func TestOutstandingSales(t *testing.T) {
	sales := []domain.Sale{
		{ID: 1, Status: domain.SaleStatusPending, TotalAmount: decimal.NewFromInt(100), PaidAmount: decimal.Zero},
		{ID: 2, Status: domain.SaleStatusPaid, TotalAmount: decimal.NewFromInt(200), PaidAmount: decimal.NewFromInt(200)},
		{ID: 3, Status: domain.SaleStatusPartiallyPaid, TotalAmount: decimal.NewFromInt(300), PaidAmount: decimal.NewFromInt(120)},
		{ID: 4, Status: domain.SaleStatusCancelled, TotalAmount: decimal.NewFromInt(400), PaidAmount: decimal.Zero},
	}

	out := OutstandingSales(sales)
	assert.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)
}

func TestOutstandingInvoices(t *testing.T) {
	invoices := []domain.Invoice{
		{ID: 1, Status: domain.InvoiceStatusSent, TotalAmount: decimal.NewFromInt(500), PaidAmount: decimal.NewFromInt(200)},
		{ID: 2, Status: domain.InvoiceStatusPaid, TotalAmount: decimal.NewFromInt(500), PaidAmount: decimal.NewFromInt(500)},
		{ID: 3, Status: domain.InvoiceStatusDraft, TotalAmount: decimal.NewFromInt(500), PaidAmount: decimal.Zero},
		{ID: 4, Status: domain.InvoiceStatusCancelled, TotalAmount: decimal.NewFromInt(500), PaidAmount: decimal.Zero},
		{ID: 5, Status: domain.InvoiceStatusOverdue, TotalAmount: decimal.NewFromInt(500), PaidAmount: decimal.Zero},
	}

	out := OutstandingInvoices(invoices)
	assert.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(5), out[1].ID)
}

func TestOpenQuotes(t *testing.T) {
	quotes := []domain.Quote{
		{ID: 1, Status: domain.QuoteStatusDraft},
		{ID: 2, Status: domain.QuoteStatusSent},
		{ID: 3, Status: domain.QuoteStatusAccepted},
		{ID: 4, Status: domain.QuoteStatusExpired},
	}

	out := OpenQuotes(quotes)
	assert.Len(t, out, 2)
}
