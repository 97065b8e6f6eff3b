package domain

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode,omitempty"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Active        bool            `json:"active"`
}

type Zone struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Supplier struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// StockLevel is one row of the current-stock snapshot.
type StockLevel struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	ZoneID      int64  `json:"zone_id"`
	ZoneName    string `json:"zone_name"`
	Quantity    int64  `json:"quantity"`
}

type Supply struct {
	ID         int64        `json:"id"`
	Reference  string       `json:"reference"`
	SupplierID int64        `json:"supplier"`
	ZoneID     int64        `json:"zone"`
	Date       string       `json:"date"`
	Status     SupplyStatus `json:"status"`
	Items      []SupplyItem `json:"items"`
}

type SupplyItem struct {
	ProductID  int64           `json:"product"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type Transfer struct {
	ID         int64          `json:"id"`
	Reference  string         `json:"reference"`
	FromZoneID int64          `json:"from_zone"`
	ToZoneID   int64          `json:"to_zone"`
	Date       string         `json:"date"`
	Status     TransferStatus `json:"status"`
	Items      []TransferItem `json:"items"`
}

// TransferItem carries no price: transfers move stock, they do not value it.
type TransferItem struct {
	ProductID int64 `json:"product"`
	Quantity  int64 `json:"quantity"`
}

type StockCount struct {
	ID        int64            `json:"id"`
	Reference string           `json:"reference"`
	ZoneID    int64            `json:"zone"`
	Date      string           `json:"date"`
	Status    CountStatus      `json:"status"`
	Items     []StockCountItem `json:"items"`
}

type StockCountItem struct {
	ProductID        int64 `json:"product"`
	ActualQuantity   int64 `json:"actual_quantity"`
	ExpectedQuantity int64 `json:"expected_quantity"`
	Difference       int64 `json:"difference"`
}

type Sale struct {
	ID           int64           `json:"id"`
	Reference    string          `json:"reference"`
	CustomerName string          `json:"customer_name"`
	Date         string          `json:"date"`
	Status       SaleStatus      `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
}

type Quote struct {
	ID           int64           `json:"id"`
	Reference    string          `json:"reference"`
	CustomerName string          `json:"customer_name"`
	Date         string          `json:"date"`
	Status       QuoteStatus     `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

type Invoice struct {
	ID           int64           `json:"id"`
	Reference    string          `json:"reference"`
	CustomerName string          `json:"customer_name"`
	Date         string          `json:"date"`
	Status       InvoiceStatus   `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
}

// SupplyPayload is the create/update body for a supply receipt.
type SupplyPayload struct {
	SupplierID int64               `json:"supplier"`
	ZoneID     int64               `json:"zone"`
	Date       string              `json:"date"`
	Status     SupplyStatus        `json:"status"`
	Items      []SupplyItemPayload `json:"items"`
}

type SupplyItemPayload struct {
	ProductID  int64           `json:"product"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type TransferPayload struct {
	FromZoneID int64                 `json:"from_zone"`
	ToZoneID   int64                 `json:"to_zone"`
	Date       string                `json:"date"`
	Status     TransferStatus        `json:"status"`
	Items      []TransferItemPayload `json:"items"`
}

type TransferItemPayload struct {
	ProductID int64 `json:"product"`
	Quantity  int64 `json:"quantity"`
}

// CountPayload submits counted quantities only; the upstream computes expected
// quantities and differences, so both are sent as zero.
type CountPayload struct {
	ZoneID int64              `json:"zone"`
	Date   string             `json:"date"`
	Status CountStatus        `json:"status"`
	Items  []CountItemPayload `json:"items"`
}

type CountItemPayload struct {
	ProductID        int64 `json:"product"`
	ActualQuantity   int64 `json:"actual_quantity"`
	ExpectedQuantity int64 `json:"expected_quantity"`
	Difference       int64 `json:"difference"`
}

type Actor struct {
	Username string
	Role     string
}
