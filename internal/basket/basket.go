// Package basket holds the in-progress line items of one open operation form.
// A basket lives only for the lifetime of its form: it is created empty when
// the dialog opens and discarded when the dialog closes without submitting.
package basket

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Line struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// Basket is an ordered sequence of lines, one per product. It does not
// validate quantities or prices; that is the form's job before calling Add.
type Basket struct {
	lines []Line
}

func New() *Basket {
	return &Basket{}
}

// Add appends a line for the product, or merges into the existing one:
// quantities accumulate, the unit price is replaced by the newly supplied one,
// and the total is recomputed. When a merge happens the returned summary
// describes it for UI feedback; it is empty for a plain append.
func (b *Basket) Add(productID int64, productName string, quantity int64, unitPrice decimal.Decimal) string {
	for i := range b.lines {
		if b.lines[i].ProductID != productID {
			continue
		}
		b.lines[i].Quantity += quantity
		b.lines[i].UnitPrice = unitPrice
		b.lines[i].TotalPrice = unitPrice.Mul(decimal.NewFromInt(b.lines[i].Quantity))
		return fmt.Sprintf("quantity of %s updated to %d", b.lines[i].ProductName, b.lines[i].Quantity)
	}

	b.lines = append(b.lines, Line{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.Mul(decimal.NewFromInt(quantity)),
	})
	return ""
}

// Remove deletes the line at index. Out-of-range indexes are a no-op.
func (b *Basket) Remove(index int) {
	if index < 0 || index >= len(b.lines) {
		return
	}
	b.lines = append(b.lines[:index], b.lines[index+1:]...)
}

func (b *Basket) Len() int {
	return len(b.lines)
}

// Lines returns a copy in insertion order.
func (b *Basket) Lines() []Line {
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Basket) TotalQuantity() int64 {
	var total int64
	for _, line := range b.lines {
		total += line.Quantity
	}
	return total
}

func (b *Basket) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, line := range b.lines {
		total = total.Add(line.TotalPrice)
	}
	return total
}
