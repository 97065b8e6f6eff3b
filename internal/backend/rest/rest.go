// Package rest implements backend.Client against the upstream ERP HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tokoku/gateway/internal/backend"
	"tokoku/gateway/internal/domain"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid upstream base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// upstreamErrorBody matches the two error envelope shapes the upstream uses.
type upstreamErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := backend.TokenFromContext(ctx); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &backend.UpstreamError{Message: fmt.Sprintf("upstream unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return backend.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		var envelope upstreamErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		msg := envelope.Message
		if msg == "" {
			msg = envelope.Error
		}
		return &backend.UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode upstream response: %w", err)
	}
	return nil
}

func (c *Client) ListZones(ctx context.Context) ([]domain.Zone, error) {
	var zones []domain.Zone
	if err := c.do(ctx, http.MethodGet, "/zones", nil, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	if err := c.do(ctx, http.MethodGet, "/suppliers", nil, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (c *Client) ListStock(ctx context.Context) ([]domain.StockLevel, error) {
	var levels []domain.StockLevel
	if err := c.do(ctx, http.MethodGet, "/stock", nil, &levels); err != nil {
		return nil, err
	}
	return levels, nil
}

func (c *Client) ListSupplies(ctx context.Context) ([]domain.Supply, error) {
	var supplies []domain.Supply
	if err := c.do(ctx, http.MethodGet, "/supplies", nil, &supplies); err != nil {
		return nil, err
	}
	return supplies, nil
}

func (c *Client) GetSupplyByID(ctx context.Context, id int64) (*domain.Supply, error) {
	var supply domain.Supply
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/supplies/%d", id), nil, &supply); err != nil {
		return nil, err
	}
	return &supply, nil
}

func (c *Client) CreateSupply(ctx context.Context, payload domain.SupplyPayload) (*domain.Supply, error) {
	var supply domain.Supply
	if err := c.do(ctx, http.MethodPost, "/supplies", payload, &supply); err != nil {
		return nil, err
	}
	return &supply, nil
}

func (c *Client) UpdateSupply(ctx context.Context, id int64, payload domain.SupplyPayload) (*domain.Supply, error) {
	var supply domain.Supply
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/supplies/%d", id), payload, &supply); err != nil {
		return nil, err
	}
	return &supply, nil
}

func (c *Client) DeleteSupply(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/supplies/%d", id), nil, nil)
}

func (c *Client) ListTransfers(ctx context.Context) ([]domain.Transfer, error) {
	var transfers []domain.Transfer
	if err := c.do(ctx, http.MethodGet, "/transfers", nil, &transfers); err != nil {
		return nil, err
	}
	return transfers, nil
}

func (c *Client) GetTransferByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	var transfer domain.Transfer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/transfers/%d", id), nil, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (c *Client) CreateTransfer(ctx context.Context, payload domain.TransferPayload) (*domain.Transfer, error) {
	var transfer domain.Transfer
	if err := c.do(ctx, http.MethodPost, "/transfers", payload, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (c *Client) UpdateTransfer(ctx context.Context, id int64, payload domain.TransferPayload) (*domain.Transfer, error) {
	var transfer domain.Transfer
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/transfers/%d", id), payload, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (c *Client) DeleteTransfer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/transfers/%d", id), nil, nil)
}

func (c *Client) ListStockCounts(ctx context.Context) ([]domain.StockCount, error) {
	var counts []domain.StockCount
	if err := c.do(ctx, http.MethodGet, "/inventories", nil, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (c *Client) GetStockCountByID(ctx context.Context, id int64) (*domain.StockCount, error) {
	var count domain.StockCount
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/inventories/%d", id), nil, &count); err != nil {
		return nil, err
	}
	return &count, nil
}

func (c *Client) CreateStockCount(ctx context.Context, payload domain.CountPayload) (*domain.StockCount, error) {
	var count domain.StockCount
	if err := c.do(ctx, http.MethodPost, "/inventories", payload, &count); err != nil {
		return nil, err
	}
	return &count, nil
}

func (c *Client) UpdateStockCount(ctx context.Context, id int64, payload domain.CountPayload) (*domain.StockCount, error) {
	var count domain.StockCount
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/inventories/%d", id), payload, &count); err != nil {
		return nil, err
	}
	return &count, nil
}

func (c *Client) DeleteStockCount(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/inventories/%d", id), nil, nil)
}

func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := c.do(ctx, http.MethodGet, "/sales", nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *Client) GetSaleByID(ctx context.Context, id int64) (*domain.Sale, error) {
	var sale domain.Sale
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sales/%d", id), nil, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (c *Client) UpdateSaleStatus(ctx context.Context, id int64, status domain.SaleStatus) (*domain.Sale, error) {
	var sale domain.Sale
	body := map[string]string{"status": status.String()}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/sales/%d/status", id), body, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (c *Client) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	var quotes []domain.Quote
	if err := c.do(ctx, http.MethodGet, "/quotes", nil, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (c *Client) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	if err := c.do(ctx, http.MethodGet, "/invoices", nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}
