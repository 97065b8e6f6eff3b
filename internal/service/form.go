package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tokoku/gateway/internal/basket"
	"tokoku/gateway/internal/domain"
)

// FormSession is one open operation dialog. The kind tag is fixed for the
// session's lifetime; switching kinds means discarding and reopening. Only the
// fields belonging to the kind are ever read on submit.
type FormSession struct {
	ID     string
	Kind   domain.OperationKind
	EditID int64 // 0 in create mode
	Status string

	SupplierID   int64 // supply
	ZoneID       int64 // supply
	SourceZoneID int64 // transfer
	TargetZoneID int64 // transfer
	CountZoneID  int64 // inventory

	Items *basket.Basket

	// Pending entry row, reset after each successful add.
	PendingProduct   *domain.Product
	PendingQuantity  int64
	PendingUnitPrice decimal.Decimal

	OpenedAt time.Time
}

// FormView is the JSON snapshot the UI renders.
type FormView struct {
	ID               string               `json:"id"`
	Kind             domain.OperationKind `json:"kind"`
	EditID           int64                `json:"edit_id,omitempty"`
	Status           string               `json:"status"`
	SupplierID       int64                `json:"supplier_id,omitempty"`
	ZoneID           int64                `json:"zone_id,omitempty"`
	SourceZoneID     int64                `json:"source_zone_id,omitempty"`
	TargetZoneID     int64                `json:"target_zone_id,omitempty"`
	CountZoneID      int64                `json:"count_zone_id,omitempty"`
	Items            []basket.Line        `json:"items"`
	TotalQuantity    int64                `json:"total_quantity"`
	TotalValue       decimal.Decimal      `json:"total_value"`
	PendingProduct   *domain.Product      `json:"pending_product,omitempty"`
	PendingQuantity  int64                `json:"pending_quantity"`
	PendingUnitPrice decimal.Decimal      `json:"pending_unit_price"`
}

func (f *FormSession) view() *FormView {
	return &FormView{
		ID:               f.ID,
		Kind:             f.Kind,
		EditID:           f.EditID,
		Status:           f.Status,
		SupplierID:       f.SupplierID,
		ZoneID:           f.ZoneID,
		SourceZoneID:     f.SourceZoneID,
		TargetZoneID:     f.TargetZoneID,
		CountZoneID:      f.CountZoneID,
		Items:            f.Items.Lines(),
		TotalQuantity:    f.Items.TotalQuantity(),
		TotalValue:       f.Items.TotalValue(),
		PendingProduct:   f.PendingProduct,
		PendingQuantity:  f.PendingQuantity,
		PendingUnitPrice: f.PendingUnitPrice,
	}
}

// FormFields is a partial update of the kind-specific selectors. Fields that
// do not belong to the session's kind are ignored.
type FormFields struct {
	SupplierID   *int64
	ZoneID       *int64
	SourceZoneID *int64
	TargetZoneID *int64
	CountZoneID  *int64
	Status       *string
}

// OpenForm starts a form session. With editID > 0 the persisted document is
// fetched and mapped into the session; transfer and count items carry no unit
// price upstream, so prices are backfilled from the current catalog purchase
// price (zero when the product is unknown).
func (s *Service) OpenForm(ctx context.Context, kind string, editID int64) (*FormView, error) {
	k := domain.OperationKind(kind)
	if !k.IsValid() {
		return nil, validationErr(fmt.Sprintf("unknown operation kind %q", kind))
	}

	session := &FormSession{
		ID:               uuid.NewString(),
		Kind:             k,
		Items:            basket.New(),
		PendingQuantity:  1,
		PendingUnitPrice: decimal.Zero,
		OpenedAt:         s.now().UTC(),
	}
	switch k {
	case domain.OperationSupply, domain.OperationTransfer:
		session.Status = domain.SupplyStatusPending.String()
	case domain.OperationInventory:
		session.Status = domain.CountStatusDraft.String()
	}

	if editID > 0 {
		if err := s.populateFromExisting(ctx, session, editID); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.forms[session.ID] = session
	s.mu.Unlock()

	return session.view(), nil
}

func (s *Service) populateFromExisting(ctx context.Context, session *FormSession, editID int64) error {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	name := func(productID int64) string {
		if p, ok := byID[productID]; ok {
			return p.Name
		}
		return fmt.Sprintf("product #%d", productID)
	}
	purchasePrice := func(productID int64) decimal.Decimal {
		if p, ok := byID[productID]; ok {
			return p.PurchasePrice
		}
		return decimal.Zero
	}

	session.EditID = editID

	switch session.Kind {
	case domain.OperationSupply:
		supply, err := s.backend.GetSupplyByID(ctx, editID)
		if err != nil {
			return err
		}
		session.SupplierID = supply.SupplierID
		session.ZoneID = supply.ZoneID
		session.Status = supply.Status.String()
		for _, item := range supply.Items {
			session.Items.Add(item.ProductID, name(item.ProductID), item.Quantity, item.UnitPrice)
		}
	case domain.OperationTransfer:
		transfer, err := s.backend.GetTransferByID(ctx, editID)
		if err != nil {
			return err
		}
		session.SourceZoneID = transfer.FromZoneID
		session.TargetZoneID = transfer.ToZoneID
		session.Status = transfer.Status.String()
		for _, item := range transfer.Items {
			session.Items.Add(item.ProductID, name(item.ProductID), item.Quantity, purchasePrice(item.ProductID))
		}
	case domain.OperationInventory:
		count, err := s.backend.GetStockCountByID(ctx, editID)
		if err != nil {
			return err
		}
		session.CountZoneID = count.ZoneID
		session.Status = count.Status.String()
		for _, item := range count.Items {
			session.Items.Add(item.ProductID, name(item.ProductID), item.ActualQuantity, purchasePrice(item.ProductID))
		}
	}
	return nil
}

func (s *Service) GetForm(formID string) (*FormView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.forms[formID]
	if !ok {
		return nil, ErrNoSuchForm
	}
	return session.view(), nil
}

// DiscardForm closes a form without submitting; the basket is thrown away.
func (s *Service) DiscardForm(formID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[formID]; !ok {
		return ErrNoSuchForm
	}
	delete(s.forms, formID)
	return nil
}

func (s *Service) SetFormFields(formID string, fields FormFields) (*FormView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.forms[formID]
	if !ok {
		return nil, ErrNoSuchForm
	}

	switch session.Kind {
	case domain.OperationSupply:
		if fields.SupplierID != nil {
			session.SupplierID = *fields.SupplierID
		}
		if fields.ZoneID != nil {
			session.ZoneID = *fields.ZoneID
		}
	case domain.OperationTransfer:
		if fields.SourceZoneID != nil {
			session.SourceZoneID = *fields.SourceZoneID
		}
		if fields.TargetZoneID != nil {
			session.TargetZoneID = *fields.TargetZoneID
		}
	case domain.OperationInventory:
		if fields.CountZoneID != nil {
			session.CountZoneID = *fields.CountZoneID
		}
	}
	if fields.Status != nil {
		session.Status = *fields.Status
	}

	return session.view(), nil
}

// AddFormItem gates the add action: a product must be selected, the quantity
// positive and the price non-negative, before the basket is touched.
func (s *Service) AddFormItem(ctx context.Context, formID string, productID int64, quantity int64, unitPrice decimal.Decimal) (*FormView, string, error) {
	if productID <= 0 {
		return nil, "", validationErr("a product must be selected")
	}
	if quantity <= 0 {
		return nil, "", validationErr("quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return nil, "", validationErr("unit price cannot be negative")
	}

	product, err := s.backend.GetProductByID(ctx, productID)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.forms[formID]
	if !ok {
		return nil, "", ErrNoSuchForm
	}

	summary := session.Items.Add(product.ID, product.Name, quantity, unitPrice)
	session.PendingProduct = nil
	session.PendingQuantity = 1
	session.PendingUnitPrice = decimal.Zero

	return session.view(), summary, nil
}

func (s *Service) RemoveFormItem(formID string, index int) (*FormView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.forms[formID]
	if !ok {
		return nil, ErrNoSuchForm
	}
	session.Items.Remove(index)
	return session.view(), nil
}

type SubmitResult struct {
	Kind      domain.OperationKind `json:"kind"`
	ID        int64                `json:"id"`
	Reference string               `json:"reference"`
	Status    string               `json:"status"`
	Updated   bool                 `json:"updated"`
}

// SubmitForm validates, builds the kind-specific payload and dispatches it
// upstream. On success the session is closed and the stock snapshot dropped;
// on failure the session keeps its full state for a retry.
func (s *Service) SubmitForm(ctx context.Context, formID string) (*SubmitResult, error) {
	s.mu.Lock()
	session, ok := s.forms[formID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoSuchForm
	}
	if err := validateForm(session); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	snapshot := *session
	lines := session.Items.Lines()
	s.mu.Unlock()

	result, err := s.dispatchSubmit(ctx, &snapshot, lines)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.forms, formID)
	s.mu.Unlock()

	s.invalidateStock(ctx)
	verb := "created"
	if result.Updated {
		verb = "updated"
	}
	log.Printf("[service] %s %s by %s (ref=%s status=%s)", result.Kind, verb, actorName(ctx), result.Reference, result.Status)
	return result, nil
}

// validateForm checks in fixed order; the first failure wins and each check
// has its own user-facing message.
func validateForm(session *FormSession) error {
	switch session.Kind {
	case domain.OperationSupply:
		if session.SupplierID == 0 {
			return validationErr("supplier is required")
		}
		if session.ZoneID == 0 {
			return validationErr("zone is required")
		}
	case domain.OperationTransfer:
		if session.SourceZoneID == 0 {
			return validationErr("source zone is required")
		}
		if session.TargetZoneID == 0 {
			return validationErr("target zone is required")
		}
		if session.SourceZoneID == session.TargetZoneID {
			return validationErr("source and target zones must be different")
		}
	case domain.OperationInventory:
		if session.CountZoneID == 0 {
			return validationErr("count zone is required")
		}
	}
	if session.Items.Len() == 0 {
		return validationErr("add at least one item")
	}
	return nil
}

func (s *Service) dispatchSubmit(ctx context.Context, session *FormSession, lines []basket.Line) (*SubmitResult, error) {
	today := s.now().UTC().Format("2006-01-02")

	switch session.Kind {
	case domain.OperationSupply:
		payload := domain.SupplyPayload{
			SupplierID: session.SupplierID,
			ZoneID:     session.ZoneID,
			Date:       today,
			Status:     domain.MapSupplyStatus(session.Status),
			Items:      make([]domain.SupplyItemPayload, 0, len(lines)),
		}
		for _, line := range lines {
			payload.Items = append(payload.Items, domain.SupplyItemPayload{
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: line.TotalPrice,
			})
		}
		var (
			supply *domain.Supply
			err    error
		)
		if session.EditID > 0 {
			supply, err = s.backend.UpdateSupply(ctx, session.EditID, payload)
		} else {
			supply, err = s.backend.CreateSupply(ctx, payload)
		}
		if err != nil {
			return nil, err
		}
		return &SubmitResult{Kind: session.Kind, ID: supply.ID, Reference: supply.Reference, Status: supply.Status.String(), Updated: session.EditID > 0}, nil

	case domain.OperationTransfer:
		payload := domain.TransferPayload{
			FromZoneID: session.SourceZoneID,
			ToZoneID:   session.TargetZoneID,
			Date:       today,
			Status:     domain.MapTransferStatus(session.Status),
			Items:      make([]domain.TransferItemPayload, 0, len(lines)),
		}
		for _, line := range lines {
			payload.Items = append(payload.Items, domain.TransferItemPayload{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		var (
			transfer *domain.Transfer
			err      error
		)
		if session.EditID > 0 {
			transfer, err = s.backend.UpdateTransfer(ctx, session.EditID, payload)
		} else {
			transfer, err = s.backend.CreateTransfer(ctx, payload)
		}
		if err != nil {
			return nil, err
		}
		return &SubmitResult{Kind: session.Kind, ID: transfer.ID, Reference: transfer.Reference, Status: transfer.Status.String(), Updated: session.EditID > 0}, nil

	case domain.OperationInventory:
		payload := domain.CountPayload{
			ZoneID: session.CountZoneID,
			Date:   today,
			Status: domain.MapCountStatus(session.Status),
			Items:  make([]domain.CountItemPayload, 0, len(lines)),
		}
		for _, line := range lines {
			payload.Items = append(payload.Items, domain.CountItemPayload{
				ProductID:      line.ProductID,
				ActualQuantity: line.Quantity,
			})
		}
		var (
			count *domain.StockCount
			err   error
		)
		if session.EditID > 0 {
			count, err = s.backend.UpdateStockCount(ctx, session.EditID, payload)
		} else {
			count, err = s.backend.CreateStockCount(ctx, payload)
		}
		if err != nil {
			return nil, err
		}
		return &SubmitResult{Kind: session.Kind, ID: count.ID, Reference: count.Reference, Status: count.Status.String(), Updated: session.EditID > 0}, nil
	}

	return nil, validationErr(fmt.Sprintf("unknown operation kind %q", session.Kind))
}
