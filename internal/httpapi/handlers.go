package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tokoku/gateway/internal/domain"
	"tokoku/gateway/internal/service"
)

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	products, err := a.service.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (a *API) handleZones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	zones, err := a.service.ListZones(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"zones": zones})
}

func (a *API) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	suppliers, err := a.service.ListSuppliers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})
}

func (a *API) handleStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	levels, err := a.service.ListStock(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("zone")); raw != "" {
		zoneID, err := parseID(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		levels = service.FilterStockByZone(levels, zoneID)
	}
	writeJSON(w, http.StatusOK, map[string]any{"stock": levels})
}

type openFormRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=supply transfer inventory"`
	EditID int64  `json:"edit_id" validate:"gte=0"`
}

func (a *API) handleForms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req openFormRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	form, err := a.service.OpenForm(r.Context(), req.Kind, req.EditID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"form": form})
}

type formFieldsRequest struct {
	SupplierID   *int64  `json:"supplier_id"`
	ZoneID       *int64  `json:"zone_id"`
	SourceZoneID *int64  `json:"source_zone_id"`
	TargetZoneID *int64  `json:"target_zone_id"`
	CountZoneID  *int64  `json:"count_zone_id"`
	Status       *string `json:"status"`
}

type addItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (a *API) handleFormActions(w http.ResponseWriter, r *http.Request) {
	parts := splitTail(r.URL.Path, "/api/v1/forms/")
	if len(parts) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("form id required"))
		return
	}
	formID := parts[0]

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			form, err := a.service.GetForm(formID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"form": form})
		case http.MethodPatch:
			var req formFieldsRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			form, err := a.service.SetFormFields(formID, service.FormFields{
				SupplierID:   req.SupplierID,
				ZoneID:       req.ZoneID,
				SourceZoneID: req.SourceZoneID,
				TargetZoneID: req.TargetZoneID,
				CountZoneID:  req.CountZoneID,
				Status:       req.Status,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"form": form})
		case http.MethodDelete:
			if err := a.service.DiscardForm(formID); err != nil {
				writeServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeMethodNotAllowed(w)
		}

	case len(parts) == 2 && parts[1] == "items":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		var req addItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		form, summary, err := a.service.AddFormItem(r.Context(), formID, req.ProductID, req.Quantity, req.UnitPrice)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"form": form, "summary": summary})

	case len(parts) == 3 && parts[1] == "items":
		if r.Method != http.MethodDelete {
			writeMethodNotAllowed(w)
			return
		}
		index, err := strconv.Atoi(parts[2])
		if err != nil || index < 0 {
			writeError(w, http.StatusBadRequest, errors.New("invalid item index"))
			return
		}
		form, err := a.service.RemoveFormItem(formID, index)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"form": form})

	case len(parts) == 2 && parts[1] == "submit":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		result, err := a.service.SubmitForm(r.Context(), formID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"result": result})

	default:
		writeError(w, http.StatusNotFound, errors.New("no such form action"))
	}
}

func (a *API) handleSupplies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	supplies, err := a.service.ListSupplies(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		supplies = service.FilterSuppliesByStatus(supplies, domain.SupplyStatus(status))
	}
	writeJSON(w, http.StatusOK, map[string]any{"supplies": supplies})
}

func (a *API) handleSupplyActions(w http.ResponseWriter, r *http.Request) {
	id, ok := a.documentID(w, r, "/api/v1/supplies/")
	if !ok {
		return
	}
	if err := a.service.DeleteSupply(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleTransfers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	transfers, err := a.service.ListTransfers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		transfers = service.FilterTransfersByStatus(transfers, domain.TransferStatus(status))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transfers": transfers})
}

func (a *API) handleTransferActions(w http.ResponseWriter, r *http.Request) {
	id, ok := a.documentID(w, r, "/api/v1/transfers/")
	if !ok {
		return
	}
	if err := a.service.DeleteTransfer(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleStockCounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	counts, err := a.service.ListStockCounts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		counts = service.FilterCountsByStatus(counts, domain.CountStatus(status))
	}
	writeJSON(w, http.StatusOK, map[string]any{"inventories": counts})
}

func (a *API) handleStockCountActions(w http.ResponseWriter, r *http.Request) {
	id, ok := a.documentID(w, r, "/api/v1/inventories/")
	if !ok {
		return
	}
	if err := a.service.DeleteStockCount(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// documentID handles the shared shape of the delete-only document action
// routes.
func (a *API) documentID(w http.ResponseWriter, r *http.Request, prefix string) (int64, bool) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return 0, false
	}
	parts := splitTail(r.URL.Path, prefix)
	if len(parts) != 1 {
		writeError(w, http.StatusBadRequest, errors.New("document id required"))
		return 0, false
	}
	id, err := parseID(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}

func (a *API) handleSales(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	sales, err := a.service.ListSales(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		sales = service.FilterSalesByStatus(sales, domain.SaleStatus(status))
	}
	if r.URL.Query().Get("outstanding") == "true" {
		sales = service.OutstandingSales(sales)
	}
	writeJSON(w, http.StatusOK, map[string]any{"sales": sales})
}

type saleActionRequest struct {
	Action  string   `json:"action" validate:"required"`
	Allowed []string `json:"allowed"`
}

func (a *API) handleSaleActions(w http.ResponseWriter, r *http.Request) {
	parts := splitTail(r.URL.Path, "/api/v1/sales/")
	if len(parts) != 2 {
		writeError(w, http.StatusNotFound, errors.New("no such sale action"))
		return
	}
	saleID, err := parseID(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch parts[1] {
	case "actions":
		switch r.Method {
		case http.MethodGet:
			sale, actions, err := a.service.SaleActions(r.Context(), saleID, nil)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"sale": sale, "actions": actions})
		case http.MethodPost:
			var req saleActionRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			if err := a.validate.Struct(req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			sale, err := a.service.PerformSaleAction(r.Context(), saleID, service.SaleAction(req.Action), allowedStatuses(req.Allowed))
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"sale": sale})
		default:
			writeMethodNotAllowed(w)
		}
	case "fast-forward":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		result, err := a.service.FastForwardSale(r.Context(), saleID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"result": result})
	default:
		writeError(w, http.StatusNotFound, errors.New("no such sale action"))
	}
}

func allowedStatuses(raw []string) []domain.SaleStatus {
	if raw == nil {
		return nil
	}
	out := make([]domain.SaleStatus, 0, len(raw))
	for _, s := range raw {
		out = append(out, domain.SaleStatus(s))
	}
	return out
}

func (a *API) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	quotes, err := a.service.ListQuotes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if r.URL.Query().Get("open") == "true" {
		quotes = service.OpenQuotes(quotes)
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

func (a *API) handleInvoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	invoices, err := a.service.ListInvoices(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if r.URL.Query().Get("outstanding") == "true" {
		invoices = service.OutstandingInvoices(invoices)
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoices": invoices})
}

type startScannerRequest struct {
	OperationType   string `json:"operation_type" validate:"required,oneof=lookup receive transfer count"`
	FormID          string `json:"form_id"`
	SourceZoneID    int64  `json:"source_zone_id" validate:"gte=0"`
	TargetZoneID    int64  `json:"target_zone_id" validate:"gte=0"`
	PendingQuantity int64  `json:"pending_quantity" validate:"gte=0"`
}

func (a *API) handleScanner(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req startScannerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := a.validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view, started, err := a.service.StartScanner(service.StartScannerParams{
			OperationType:   req.OperationType,
			FormID:          req.FormID,
			SourceZoneID:    req.SourceZoneID,
			TargetZoneID:    req.TargetZoneID,
			PendingQuantity: req.PendingQuantity,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		status := http.StatusOK
		if started {
			status = http.StatusCreated
		}
		writeJSON(w, status, map[string]any{"scanner": view, "started": started})
	case http.MethodGet:
		view, err := a.service.Scanner()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"scanner": view})
	case http.MethodDelete:
		a.service.StopScanner()
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w)
	}
}

type scanRequest struct {
	Code string `json:"code" validate:"required"`
}

func (a *API) handleScans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := a.service.IngestScan(r.Context(), req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

func splitTail(path, prefix string) []string {
	tail := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if tail == "" {
		return nil
	}
	return strings.Split(tail, "/")
}
