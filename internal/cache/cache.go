package cache

import (
	"context"
	"time"

	"tokoku/gateway/internal/domain"
)

// SnapshotCache holds short-lived copies of the two reference reads every tab
// hits: the product catalog and the current-stock snapshot. A miss is never an
// error for callers; they fall through to the upstream.
type SnapshotCache interface {
	GetProducts(ctx context.Context) ([]domain.Product, bool, error)
	SetProducts(ctx context.Context, products []domain.Product, ttl time.Duration) error
	GetStock(ctx context.Context) ([]domain.StockLevel, bool, error)
	SetStock(ctx context.Context, levels []domain.StockLevel, ttl time.Duration) error
	// InvalidateStock drops the stock snapshot after any submit that can move
	// stock (all three operation kinds can).
	InvalidateStock(ctx context.Context) error
}

type NoopSnapshotCache struct{}

func (NoopSnapshotCache) GetProducts(_ context.Context) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (NoopSnapshotCache) SetProducts(_ context.Context, _ []domain.Product, _ time.Duration) error {
	return nil
}

func (NoopSnapshotCache) GetStock(_ context.Context) ([]domain.StockLevel, bool, error) {
	return nil, false, nil
}

func (NoopSnapshotCache) SetStock(_ context.Context, _ []domain.StockLevel, _ time.Duration) error {
	return nil
}

func (NoopSnapshotCache) InvalidateStock(_ context.Context) error {
	return nil
}
