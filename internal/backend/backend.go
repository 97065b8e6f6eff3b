// Package backend defines the upstream ERP API this gateway delegates to. The
// upstream owns all persistence and business arithmetic (stock math, payment
// processing, balance computation); the gateway only reads, assembles payloads
// and forwards them.
package backend

import (
	"context"
	"errors"
	"fmt"

	"tokoku/gateway/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// UpstreamError carries the upstream's own human-readable message so the UI
// can surface it verbatim.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream request failed with status %d", e.StatusCode)
}

type Client interface {
	ListZones(ctx context.Context) ([]domain.Zone, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	ListStock(ctx context.Context) ([]domain.StockLevel, error)

	ListSupplies(ctx context.Context) ([]domain.Supply, error)
	GetSupplyByID(ctx context.Context, id int64) (*domain.Supply, error)
	CreateSupply(ctx context.Context, payload domain.SupplyPayload) (*domain.Supply, error)
	UpdateSupply(ctx context.Context, id int64, payload domain.SupplyPayload) (*domain.Supply, error)
	DeleteSupply(ctx context.Context, id int64) error

	ListTransfers(ctx context.Context) ([]domain.Transfer, error)
	GetTransferByID(ctx context.Context, id int64) (*domain.Transfer, error)
	CreateTransfer(ctx context.Context, payload domain.TransferPayload) (*domain.Transfer, error)
	UpdateTransfer(ctx context.Context, id int64, payload domain.TransferPayload) (*domain.Transfer, error)
	DeleteTransfer(ctx context.Context, id int64) error

	ListStockCounts(ctx context.Context) ([]domain.StockCount, error)
	GetStockCountByID(ctx context.Context, id int64) (*domain.StockCount, error)
	CreateStockCount(ctx context.Context, payload domain.CountPayload) (*domain.StockCount, error)
	UpdateStockCount(ctx context.Context, id int64, payload domain.CountPayload) (*domain.StockCount, error)
	DeleteStockCount(ctx context.Context, id int64) error

	ListSales(ctx context.Context) ([]domain.Sale, error)
	GetSaleByID(ctx context.Context, id int64) (*domain.Sale, error)
	UpdateSaleStatus(ctx context.Context, id int64, status domain.SaleStatus) (*domain.Sale, error)

	ListQuotes(ctx context.Context) ([]domain.Quote, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
}

type tokenContextKey struct{}

// WithToken stores the caller's bearer token so the REST client can forward it
// upstream unchanged.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	return token, ok
}
