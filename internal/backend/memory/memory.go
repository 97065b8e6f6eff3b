// Package memory is an in-process stand-in for the upstream ERP API, used in
// dev mode and in tests. It mimics the upstream's observable behavior: it
// assigns ids and references, enforces the sale transition table, and adjusts
// the stock snapshot when documents land in a stock-moving status.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"tokoku/gateway/internal/backend"
	"tokoku/gateway/internal/domain"
)

type Store struct {
	mu          sync.RWMutex
	products    map[int64]domain.Product
	zones       map[int64]domain.Zone
	suppliers   map[int64]domain.Supplier
	stock       map[int64]map[int64]int64 // zone id -> product id -> qty
	supplies    map[int64]domain.Supply
	transfers   map[int64]domain.Transfer
	stockCounts map[int64]domain.StockCount
	sales       map[int64]domain.Sale
	quotes      map[int64]domain.Quote
	invoices    map[int64]domain.Invoice
	nextID      int64
}

func NewSeeded() *Store {
	s := &Store{
		products:    map[int64]domain.Product{},
		zones:       map[int64]domain.Zone{},
		suppliers:   map[int64]domain.Supplier{},
		stock:       map[int64]map[int64]int64{},
		supplies:    map[int64]domain.Supply{},
		transfers:   map[int64]domain.Transfer{},
		stockCounts: map[int64]domain.StockCount{},
		sales:       map[int64]domain.Sale{},
		quotes:      map[int64]domain.Quote{},
		invoices:    map[int64]domain.Invoice{},
		nextID:      1000,
	}

	for _, p := range []domain.Product{
		{ID: 1, Name: "Beras Premium 5kg", Barcode: "8991002101", Unit: "sak", PurchasePrice: decimal.NewFromInt(62000), SellingPrice: decimal.NewFromInt(72000), Active: true},
		{ID: 2, Name: "Mie Goreng Instan", Barcode: "8991002102", Unit: "pcs", PurchasePrice: decimal.NewFromInt(2800), SellingPrice: decimal.NewFromInt(3500), Active: true},
		{ID: 3, Name: "Kopi Sachet", Barcode: "8991002103", Unit: "pcs", PurchasePrice: decimal.NewFromInt(1200), SellingPrice: decimal.NewFromInt(2000), Active: true},
		{ID: 4, Name: "Minyak Goreng 1L", Barcode: "8991002104", Unit: "btl", PurchasePrice: decimal.NewFromInt(15500), SellingPrice: decimal.NewFromInt(18000), Active: true},
	} {
		s.products[p.ID] = p
	}

	for _, z := range []domain.Zone{
		{ID: 1, Name: "Gudang Utama"},
		{ID: 2, Name: "Toko Depan"},
	} {
		s.zones[z.ID] = z
	}

	for _, sup := range []domain.Supplier{
		{ID: 1, Name: "PT Sumber Pangan", Phone: "021-555-0101"},
		{ID: 2, Name: "CV Berkah Jaya", Phone: "021-555-0102"},
	} {
		s.suppliers[sup.ID] = sup
	}

	s.stock[1] = map[int64]int64{1: 40, 2: 200, 3: 350, 4: 80}
	s.stock[2] = map[int64]int64{2: 24, 3: 48}

	today := time.Now().UTC().Format("2006-01-02")
	s.sales[1] = domain.Sale{
		ID: 1, Reference: "SAL-0001", CustomerName: "Warung Bu Sari", Date: today,
		Status: domain.SaleStatusPending, TotalAmount: decimal.NewFromInt(250000), PaidAmount: decimal.Zero,
	}
	s.sales[2] = domain.Sale{
		ID: 2, Reference: "SAL-0002", CustomerName: "Toko Makmur", Date: today,
		Status: domain.SaleStatusPaid, TotalAmount: decimal.NewFromInt(480000), PaidAmount: decimal.NewFromInt(480000),
	}
	s.quotes[1] = domain.Quote{
		ID: 1, Reference: "QUO-0001", CustomerName: "Warung Bu Sari", Date: today,
		Status: domain.QuoteStatusSent, TotalAmount: decimal.NewFromInt(120000),
	}
	s.invoices[1] = domain.Invoice{
		ID: 1, Reference: "INV-0001", CustomerName: "Toko Makmur", Date: today,
		Status: domain.InvoiceStatusSent, TotalAmount: decimal.NewFromInt(480000), PaidAmount: decimal.NewFromInt(200000),
	}

	return s
}

func (s *Store) allocateID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) ListZones(ctx context.Context) ([]domain.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Zone, 0, len(s.zones))
	for _, z := range s.zones {
		out = append(out, z)
	}
	sortByID(out, func(z domain.Zone) int64 { return z.ID })
	return out, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sortByID(out, func(p domain.Product) int64 { return p.ID })
	return out, nil
}

func (s *Store) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		out = append(out, sup)
	}
	sortByID(out, func(sup domain.Supplier) int64 { return sup.ID })
	return out, nil
}

func (s *Store) ListStock(ctx context.Context) ([]domain.StockLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.StockLevel
	for zoneID, byProduct := range s.stock {
		for productID, qty := range byProduct {
			out = append(out, domain.StockLevel{
				ProductID:   productID,
				ProductName: s.products[productID].Name,
				ZoneID:      zoneID,
				ZoneName:    s.zones[zoneID].Name,
				Quantity:    qty,
			})
		}
	}
	sortByID(out, func(l domain.StockLevel) int64 { return l.ZoneID*1_000_000 + l.ProductID })
	return out, nil
}

func (s *Store) adjustStock(zoneID, productID, delta int64) {
	if s.stock[zoneID] == nil {
		s.stock[zoneID] = map[int64]int64{}
	}
	s.stock[zoneID][productID] += delta
}

func (s *Store) ListSupplies(ctx context.Context) ([]domain.Supply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Supply, 0, len(s.supplies))
	for _, sup := range s.supplies {
		out = append(out, sup)
	}
	sortByID(out, func(sup domain.Supply) int64 { return sup.ID })
	return out, nil
}

func (s *Store) GetSupplyByID(ctx context.Context, id int64) (*domain.Supply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sup, ok := s.supplies[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	return &sup, nil
}

func (s *Store) CreateSupply(ctx context.Context, payload domain.SupplyPayload) (*domain.Supply, error) {
	if err := validateSupplyPayload(payload); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocateID()
	supply := domain.Supply{
		ID:         id,
		Reference:  fmt.Sprintf("SUP-%04d", id),
		SupplierID: payload.SupplierID,
		ZoneID:     payload.ZoneID,
		Date:       payload.Date,
		Status:     payload.Status,
		Items:      supplyItemsFromPayload(payload.Items),
	}
	s.supplies[id] = supply
	if supply.Status == domain.SupplyStatusReceived {
		for _, item := range supply.Items {
			s.adjustStock(supply.ZoneID, item.ProductID, item.Quantity)
		}
	}
	return &supply, nil
}

func (s *Store) UpdateSupply(ctx context.Context, id int64, payload domain.SupplyPayload) (*domain.Supply, error) {
	if err := validateSupplyPayload(payload); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.supplies[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	existing.SupplierID = payload.SupplierID
	existing.ZoneID = payload.ZoneID
	existing.Date = payload.Date
	existing.Status = payload.Status
	existing.Items = supplyItemsFromPayload(payload.Items)
	s.supplies[id] = existing
	return &existing, nil
}

func (s *Store) DeleteSupply(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.supplies[id]; !ok {
		return backend.ErrNotFound
	}
	delete(s.supplies, id)
	return nil
}

func (s *Store) ListTransfers(ctx context.Context) ([]domain.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transfer, 0, len(s.transfers))
	for _, t := range s.transfers {
		out = append(out, t)
	}
	sortByID(out, func(t domain.Transfer) int64 { return t.ID })
	return out, nil
}

func (s *Store) GetTransferByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transfers[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	return &t, nil
}

func (s *Store) CreateTransfer(ctx context.Context, payload domain.TransferPayload) (*domain.Transfer, error) {
	if err := validateTransferPayload(payload); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocateID()
	transfer := domain.Transfer{
		ID:         id,
		Reference:  fmt.Sprintf("TRF-%04d", id),
		FromZoneID: payload.FromZoneID,
		ToZoneID:   payload.ToZoneID,
		Date:       payload.Date,
		Status:     payload.Status,
		Items:      transferItemsFromPayload(payload.Items),
	}
	s.transfers[id] = transfer
	if transfer.Status == domain.TransferStatusCompleted {
		for _, item := range transfer.Items {
			s.adjustStock(transfer.FromZoneID, item.ProductID, -item.Quantity)
			s.adjustStock(transfer.ToZoneID, item.ProductID, item.Quantity)
		}
	}
	return &transfer, nil
}

func (s *Store) UpdateTransfer(ctx context.Context, id int64, payload domain.TransferPayload) (*domain.Transfer, error) {
	if err := validateTransferPayload(payload); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transfers[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	existing.FromZoneID = payload.FromZoneID
	existing.ToZoneID = payload.ToZoneID
	existing.Date = payload.Date
	existing.Status = payload.Status
	existing.Items = transferItemsFromPayload(payload.Items)
	s.transfers[id] = existing
	return &existing, nil
}

func (s *Store) DeleteTransfer(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[id]; !ok {
		return backend.ErrNotFound
	}
	delete(s.transfers, id)
	return nil
}

func (s *Store) ListStockCounts(ctx context.Context) ([]domain.StockCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StockCount, 0, len(s.stockCounts))
	for _, c := range s.stockCounts {
		out = append(out, c)
	}
	sortByID(out, func(c domain.StockCount) int64 { return c.ID })
	return out, nil
}

func (s *Store) GetStockCountByID(ctx context.Context, id int64) (*domain.StockCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.stockCounts[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CreateStockCount(ctx context.Context, payload domain.CountPayload) (*domain.StockCount, error) {
	if payload.ZoneID == 0 || len(payload.Items) == 0 {
		return nil, backend.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocateID()
	count := domain.StockCount{
		ID:        id,
		Reference: fmt.Sprintf("CNT-%04d", id),
		ZoneID:    payload.ZoneID,
		Date:      payload.Date,
		Status:    payload.Status,
		Items:     s.countItemsFromPayload(payload),
	}
	s.stockCounts[id] = count
	return &count, nil
}

func (s *Store) UpdateStockCount(ctx context.Context, id int64, payload domain.CountPayload) (*domain.StockCount, error) {
	if payload.ZoneID == 0 || len(payload.Items) == 0 {
		return nil, backend.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.stockCounts[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	existing.ZoneID = payload.ZoneID
	existing.Date = payload.Date
	existing.Status = payload.Status
	existing.Items = s.countItemsFromPayload(payload)
	s.stockCounts[id] = existing
	return &existing, nil
}

func (s *Store) DeleteStockCount(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stockCounts[id]; !ok {
		return backend.ErrNotFound
	}
	delete(s.stockCounts, id)
	return nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		out = append(out, sale)
	}
	sortByID(out, func(sale domain.Sale) int64 { return sale.ID })
	return out, nil
}

func (s *Store) GetSaleByID(ctx context.Context, id int64) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	return &sale, nil
}

func (s *Store) UpdateSaleStatus(ctx context.Context, id int64, status domain.SaleStatus) (*domain.Sale, error) {
	if !status.IsValid() {
		return nil, backend.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	if !sale.Status.CanTransitionTo(status) {
		return nil, &backend.UpstreamError{
			StatusCode: 409,
			Message:    fmt.Sprintf("cannot change sale status from %s to %s", sale.Status, status),
		}
	}
	sale.Status = status
	if status == domain.SaleStatusPaid {
		sale.PaidAmount = sale.TotalAmount
	}
	s.sales[id] = sale
	return &sale, nil
}

func (s *Store) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}
	sortByID(out, func(q domain.Quote) int64 { return q.ID })
	return out, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, inv)
	}
	sortByID(out, func(inv domain.Invoice) int64 { return inv.ID })
	return out, nil
}

// SeedTransfer inserts a transfer document directly, for tests that need an
// existing upstream document to edit.
func (s *Store) SeedTransfer(t domain.Transfer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers[t.ID] = t
}

// SeedSale inserts a sale directly with the given status.
func (s *Store) SeedSale(sale domain.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales[sale.ID] = sale
}

func validateSupplyPayload(p domain.SupplyPayload) error {
	if p.SupplierID == 0 || p.ZoneID == 0 || len(p.Items) == 0 {
		return backend.ErrInvalidInput
	}
	return nil
}

func validateTransferPayload(p domain.TransferPayload) error {
	if p.FromZoneID == 0 || p.ToZoneID == 0 || p.FromZoneID == p.ToZoneID || len(p.Items) == 0 {
		return backend.ErrInvalidInput
	}
	return nil
}

func supplyItemsFromPayload(items []domain.SupplyItemPayload) []domain.SupplyItem {
	out := make([]domain.SupplyItem, 0, len(items))
	for _, item := range items {
		out = append(out, domain.SupplyItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return out
}

func transferItemsFromPayload(items []domain.TransferItemPayload) []domain.TransferItem {
	out := make([]domain.TransferItem, 0, len(items))
	for _, item := range items {
		out = append(out, domain.TransferItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

// countItemsFromPayload fills in the expected quantity and difference the way
// the real upstream does, from the current snapshot of the counted zone.
func (s *Store) countItemsFromPayload(payload domain.CountPayload) []domain.StockCountItem {
	out := make([]domain.StockCountItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		expected := int64(0)
		if byProduct, ok := s.stock[payload.ZoneID]; ok {
			expected = byProduct[item.ProductID]
		}
		out = append(out, domain.StockCountItem{
			ProductID:        item.ProductID,
			ActualQuantity:   item.ActualQuantity,
			ExpectedQuantity: expected,
			Difference:       item.ActualQuantity - expected,
		})
	}
	return out
}

func sortByID[T any](items []T, key func(T) int64) {
	slices.SortFunc(items, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
}
