package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tokoku/gateway/internal/backend"
	"tokoku/gateway/internal/domain"
)

type ScanOperationType string

const (
	ScanLookup   ScanOperationType = "lookup"
	ScanReceive  ScanOperationType = "receive"
	ScanTransfer ScanOperationType = "transfer"
	ScanCount    ScanOperationType = "count"
)

func (t ScanOperationType) IsValid() bool {
	switch t {
	case ScanLookup, ScanReceive, ScanTransfer, ScanCount:
		return true
	}
	return false
}

// formKind maps a scan mode onto the operation form kind it feeds.
func (t ScanOperationType) formKind() (domain.OperationKind, bool) {
	switch t {
	case ScanReceive:
		return domain.OperationSupply, true
	case ScanTransfer:
		return domain.OperationTransfer, true
	case ScanCount:
		return domain.OperationInventory, true
	}
	return "", false
}

// ScannerSession mirrors the camera session in the browser. The camera is an
// exclusive resource, so at most one session is active per gateway instance;
// the pause window after a successful decode is mirrored here so duplicate
// reads are swallowed even if the client keeps streaming.
type ScannerSession struct {
	ID                 string
	OperationType      ScanOperationType
	FormID             string
	SourceZoneID       int64
	TargetZoneID       int64
	PendingQuantity    int64
	LastScannedProduct *domain.Product
	pausedUntil        time.Time
}

type ScannerView struct {
	ID                 string            `json:"id"`
	OperationType      ScanOperationType `json:"operation_type"`
	FormID             string            `json:"form_id,omitempty"`
	SourceZoneID       int64             `json:"source_zone_id,omitempty"`
	TargetZoneID       int64             `json:"target_zone_id,omitempty"`
	PendingQuantity    int64             `json:"pending_quantity"`
	LastScannedProduct *domain.Product   `json:"last_scanned_product,omitempty"`
	Paused             bool              `json:"paused"`
}

var ErrNoActiveScanner = errors.New("no active scanner session")

func (s *Service) scannerView(session *ScannerSession) *ScannerView {
	return &ScannerView{
		ID:                 session.ID,
		OperationType:      session.OperationType,
		FormID:             session.FormID,
		SourceZoneID:       session.SourceZoneID,
		TargetZoneID:       session.TargetZoneID,
		PendingQuantity:    session.PendingQuantity,
		LastScannedProduct: session.LastScannedProduct,
		Paused:             s.now().Before(session.pausedUntil),
	}
}

type StartScannerParams struct {
	OperationType   string
	FormID          string
	SourceZoneID    int64
	TargetZoneID    int64
	PendingQuantity int64
}

// StartScanner opens a scanner session. Starting while one is already active
// is a no-op guard: the existing session is returned untouched.
func (s *Service) StartScanner(params StartScannerParams) (*ScannerView, bool, error) {
	opType := ScanOperationType(params.OperationType)
	if !opType.IsValid() {
		return nil, false, validationErr(fmt.Sprintf("unknown scan operation type %q", params.OperationType))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scanner != nil {
		return s.scannerView(s.scanner), false, nil
	}

	if kind, needsForm := opType.formKind(); needsForm {
		form, ok := s.forms[params.FormID]
		if !ok {
			return nil, false, validationErr("an open operation form is required for this scan mode")
		}
		if form.Kind != kind {
			return nil, false, validationErr(fmt.Sprintf("scan mode %s feeds a %s form, not %s", opType, kind, form.Kind))
		}
	}

	quantity := params.PendingQuantity
	if quantity <= 0 {
		quantity = 1
	}
	s.scanner = &ScannerSession{
		ID:              uuid.NewString(),
		OperationType:   opType,
		FormID:          params.FormID,
		SourceZoneID:    params.SourceZoneID,
		TargetZoneID:    params.TargetZoneID,
		PendingQuantity: quantity,
	}
	return s.scannerView(s.scanner), true, nil
}

// StopScanner releases the session (and with it, the camera). Stopping when
// nothing is active is not an error.
func (s *Service) StopScanner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanner = nil
}

func (s *Service) Scanner() (*ScannerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanner == nil {
		return nil, ErrNoActiveScanner
	}
	return s.scannerView(s.scanner), nil
}

// ScanResult describes one decoded payload. Decode failures are non-fatal:
// Matched is false, scanning continues.
type ScanResult struct {
	Matched bool            `json:"matched"`
	Ignored bool            `json:"ignored,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	Product *domain.Product `json:"product,omitempty"`
	Routed  bool            `json:"routed"`
	Summary string          `json:"summary,omitempty"`
	Form    *FormView       `json:"form,omitempty"`
}

// IngestScan routes one decoded payload into the active session. Reads inside
// the post-decode pause window are ignored to avoid duplicate basket lines.
func (s *Service) IngestScan(ctx context.Context, code string) (*ScanResult, error) {
	s.mu.Lock()
	session := s.scanner
	if session == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveScanner
	}
	if s.now().Before(session.pausedUntil) {
		s.mu.Unlock()
		return &ScanResult{Ignored: true}, nil
	}
	s.mu.Unlock()

	productID, err := ParseScanCode(code)
	if err != nil {
		return &ScanResult{Matched: false, Reason: "invalid code"}, nil
	}

	product, err := s.backend.GetProductByID(ctx, productID)
	if errors.Is(err, backend.ErrNotFound) {
		return &ScanResult{Matched: false, Reason: "unknown product"}, nil
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanner != session {
		// Session was stopped while we were resolving the product.
		return nil, ErrNoActiveScanner
	}
	session.LastScannedProduct = product
	session.pausedUntil = s.now().Add(s.scannerResumeDelay)

	if session.OperationType == ScanLookup {
		return &ScanResult{Matched: true, Product: product}, nil
	}

	form, ok := s.forms[session.FormID]
	if !ok {
		return &ScanResult{Matched: true, Product: product, Reason: "operation form is no longer open"}, nil
	}
	summary := form.Items.Add(product.ID, product.Name, session.PendingQuantity, product.PurchasePrice)
	return &ScanResult{
		Matched: true,
		Product: product,
		Routed:  true,
		Summary: summary,
		Form:    form.view(),
	}, nil
}

// ParseScanCode resolves a decoded payload to a product id. Attempts, in
// order: a JSON object with an "id" field, the legacy "product-id:<n>" form,
// then a bare integer. The first successful parse wins.
func ParseScanCode(code string) (int64, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return 0, fmt.Errorf("empty code")
	}

	var payload struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil && payload.ID != "" {
		if id, err := payload.ID.Int64(); err == nil && id > 0 {
			return id, nil
		}
	}

	if rest, ok := strings.CutPrefix(trimmed, "product-id:"); ok {
		id, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("malformed product-id code %q", code)
		}
		return id, nil
	}

	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil && id > 0 {
		return id, nil
	}

	return 0, fmt.Errorf("unrecognized code %q", code)
}
