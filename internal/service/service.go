// Package service hosts the client core of the management UI: operation form
// sessions with their baskets, the sale status workflow, and scan ingestion.
// Everything it holds is in-memory and disposable; the upstream ERP API is the
// single source of truth and any staleness is corrected on the next refresh.
package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"tokoku/gateway/internal/backend"
	"tokoku/gateway/internal/cache"
	"tokoku/gateway/internal/domain"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// ValidationError is a pre-submit, client-side failure: nothing was sent
// upstream and the form keeps its state so the user can correct and retry.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErr(msg string) error {
	return &ValidationError{msg: msg}
}

var ErrNoSuchForm = errors.New("form session not found")

type Options struct {
	SnapshotTTL        time.Duration
	FastForwardDelay   time.Duration
	ScannerResumeDelay time.Duration
}

type Service struct {
	backend            backend.Client
	cache              cache.SnapshotCache
	snapshotTTL        time.Duration
	fastForwardDelay   time.Duration
	scannerResumeDelay time.Duration

	mu      sync.Mutex
	forms   map[string]*FormSession
	scanner *ScannerSession

	// now is swapped out in tests that exercise the scanner pause window.
	now func() time.Time
}

func New(b backend.Client, c cache.SnapshotCache, opts Options) *Service {
	if c == nil {
		c = cache.NoopSnapshotCache{}
	}
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = 30 * time.Second
	}
	if opts.ScannerResumeDelay <= 0 {
		opts.ScannerResumeDelay = 1500 * time.Millisecond
	}

	return &Service{
		backend:            b,
		cache:              c,
		snapshotTTL:        opts.SnapshotTTL,
		fastForwardDelay:   opts.FastForwardDelay,
		scannerResumeDelay: opts.ScannerResumeDelay,
		forms:              make(map[string]*FormSession),
		now:                time.Now,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if products, ok, err := s.cache.GetProducts(ctx); err == nil && ok {
		return products, nil
	}
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetProducts(ctx, products, s.snapshotTTL); err != nil {
		log.Printf("[service] WARN: failed to cache product snapshot: %v", err)
	}
	return products, nil
}

func (s *Service) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.backend.GetProductByID(ctx, id)
}

func (s *Service) ListZones(ctx context.Context) ([]domain.Zone, error) {
	return s.backend.ListZones(ctx)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.backend.ListSuppliers(ctx)
}

func (s *Service) ListStock(ctx context.Context) ([]domain.StockLevel, error) {
	if levels, ok, err := s.cache.GetStock(ctx); err == nil && ok {
		return levels, nil
	}
	levels, err := s.backend.ListStock(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetStock(ctx, levels, s.snapshotTTL); err != nil {
		log.Printf("[service] WARN: failed to cache stock snapshot: %v", err)
	}
	return levels, nil
}

func (s *Service) ListSupplies(ctx context.Context) ([]domain.Supply, error) {
	return s.backend.ListSupplies(ctx)
}

func (s *Service) ListTransfers(ctx context.Context) ([]domain.Transfer, error) {
	return s.backend.ListTransfers(ctx)
}

func (s *Service) ListStockCounts(ctx context.Context) ([]domain.StockCount, error) {
	return s.backend.ListStockCounts(ctx)
}

func (s *Service) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.backend.ListSales(ctx)
}

func (s *Service) GetSaleByID(ctx context.Context, id int64) (*domain.Sale, error) {
	return s.backend.GetSaleByID(ctx, id)
}

func (s *Service) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	return s.backend.ListQuotes(ctx)
}

func (s *Service) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.backend.ListInvoices(ctx)
}

// Deletes invalidate the stock snapshot: removing a received supply or a
// completed transfer moves stock back upstream.
func (s *Service) DeleteSupply(ctx context.Context, id int64) error {
	if err := s.backend.DeleteSupply(ctx, id); err != nil {
		return err
	}
	s.invalidateStock(ctx)
	return nil
}

func (s *Service) DeleteTransfer(ctx context.Context, id int64) error {
	if err := s.backend.DeleteTransfer(ctx, id); err != nil {
		return err
	}
	s.invalidateStock(ctx)
	return nil
}

func (s *Service) DeleteStockCount(ctx context.Context, id int64) error {
	if err := s.backend.DeleteStockCount(ctx, id); err != nil {
		return err
	}
	s.invalidateStock(ctx)
	return nil
}

func (s *Service) invalidateStock(ctx context.Context) {
	if err := s.cache.InvalidateStock(ctx); err != nil {
		log.Printf("[service] WARN: failed to invalidate stock snapshot: %v", err)
	}
}

func actorName(ctx context.Context) string {
	if actor, ok := ActorFromContext(ctx); ok {
		return actor.Username
	}
	return "anonymous"
}
