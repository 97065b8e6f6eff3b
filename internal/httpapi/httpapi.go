// Package httpapi exposes the gateway over REST. Routing is a plain ServeMux
// with trailing-slash action routes; handlers switch on method and path tail.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tokoku/gateway/internal/backend"
	"tokoku/gateway/internal/service"
)

type API struct {
	service       *service.Service
	verifier      *TokenVerifier
	allowedOrigin string
	validate      *validator.Validate
}

func New(svc *service.Service, verifier *TokenVerifier, allowedOrigin string) *API {
	return &API{
		service:       svc,
		verifier:      verifier,
		allowedOrigin: allowedOrigin,
		validate:      validator.New(),
	}
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)

	mux.HandleFunc("/api/v1/products", a.requireAuth(a.handleProducts, "staff", "manager"))
	mux.HandleFunc("/api/v1/zones", a.requireAuth(a.handleZones, "staff", "manager"))
	mux.HandleFunc("/api/v1/suppliers", a.requireAuth(a.handleSuppliers, "staff", "manager"))
	mux.HandleFunc("/api/v1/stock", a.requireAuth(a.handleStock, "staff", "manager"))

	mux.HandleFunc("/api/v1/forms", a.requireAuth(a.handleForms, "staff", "manager"))
	mux.HandleFunc("/api/v1/forms/", a.requireAuth(a.handleFormActions, "staff", "manager"))

	mux.HandleFunc("/api/v1/supplies", a.requireAuth(a.handleSupplies, "staff", "manager"))
	mux.HandleFunc("/api/v1/supplies/", a.requireAuth(a.handleSupplyActions, "manager"))
	mux.HandleFunc("/api/v1/transfers", a.requireAuth(a.handleTransfers, "staff", "manager"))
	mux.HandleFunc("/api/v1/transfers/", a.requireAuth(a.handleTransferActions, "manager"))
	mux.HandleFunc("/api/v1/inventories", a.requireAuth(a.handleStockCounts, "staff", "manager"))
	mux.HandleFunc("/api/v1/inventories/", a.requireAuth(a.handleStockCountActions, "manager"))

	mux.HandleFunc("/api/v1/sales", a.requireAuth(a.handleSales, "staff", "manager"))
	mux.HandleFunc("/api/v1/sales/", a.requireAuth(a.handleSaleActions, "staff", "manager"))
	mux.HandleFunc("/api/v1/quotes", a.requireAuth(a.handleQuotes, "staff", "manager"))
	mux.HandleFunc("/api/v1/invoices", a.requireAuth(a.handleInvoices, "staff", "manager"))

	mux.HandleFunc("/api/v1/scanner", a.requireAuth(a.handleScanner, "staff", "manager"))
	mux.HandleFunc("/api/v1/scanner/scans", a.requireAuth(a.handleScans, "staff", "manager"))

	return a.withMiddleware(mux)
}

// requireAuth verifies the bearer token, stashes the actor for audit logging
// and forwards the raw token so the upstream client can replay it.
func (a *API) requireAuth(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.verifier.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}

		if len(roles) > 0 && !isRoleAllowed(actor.Role, roles) {
			writeError(w, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		ctx := service.WithActor(r.Context(), actor)
		ctx = backend.WithToken(ctx, token)
		next(w, r.WithContext(ctx))
	}
}

func isRoleAllowed(role string, allowed []string) bool {
	for _, allow := range allowed {
		if role == allow {
			return true
		}
	}
	return false
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if (r.Method == http.MethodPost || r.Method == http.MethodPatch) && strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(startedAt))
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeServiceError maps service and upstream failures onto response codes.
// Validation failures keep their user-facing message; ids that resolve to
// nothing are 404s; upstream rejections keep the upstream's status.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	var uerr *backend.UpstreamError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, service.ErrNoSuchForm),
		errors.Is(err, service.ErrNoActiveScanner),
		errors.Is(err, backend.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, backend.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.As(err, &uerr):
		status := uerr.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		writeError(w, status, err)
	default:
		writeError(w, http.StatusBadGateway, err)
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	// 5xx messages are replaced so upstream internals do not leak to clients.
	msg := err.Error()
	if status >= 500 {
		log.Printf("internal error (status %d): %v", status, err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
