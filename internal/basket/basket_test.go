package basket

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesSameProduct(t *testing.T) {
	b := New()

	summary := b.Add(7, "Kopi Sachet", 2, decimal.NewFromInt(100))
	assert.Empty(t, summary)

	summary = b.Add(7, "Kopi Sachet", 3, decimal.NewFromInt(120))
	assert.Equal(t, "quantity of Kopi Sachet updated to 5", summary)

	require.Equal(t, 1, b.Len())
	line := b.Lines()[0]
	assert.Equal(t, int64(7), line.ProductID)
	assert.Equal(t, int64(5), line.Quantity)
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(120)), "unit price should be last-write-wins, got %s", line.UnitPrice)
	assert.True(t, line.TotalPrice.Equal(decimal.NewFromInt(600)), "total should be recomputed, got %s", line.TotalPrice)
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	b := New()
	b.Add(3, "Mie Instan", 1, decimal.NewFromInt(3500))
	b.Add(1, "Beras 5kg", 1, decimal.NewFromInt(62000))
	b.Add(3, "Mie Instan", 2, decimal.NewFromInt(3500))

	lines := b.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(3), lines[0].ProductID)
	assert.Equal(t, int64(1), lines[1].ProductID)
}

func TestTotals(t *testing.T) {
	b := New()
	assert.Equal(t, int64(0), b.TotalQuantity())
	assert.True(t, b.TotalValue().IsZero())

	b.Add(1, "A", 2, decimal.NewFromInt(100))
	b.Add(2, "B", 3, decimal.NewFromInt(50))

	assert.Equal(t, int64(5), b.TotalQuantity())
	assert.True(t, b.TotalValue().Equal(decimal.NewFromInt(350)))
}

func TestRemove(t *testing.T) {
	b := New()
	b.Add(1, "A", 1, decimal.NewFromInt(10))
	b.Add(2, "B", 1, decimal.NewFromInt(20))

	b.Remove(5)
	b.Remove(-1)
	assert.Equal(t, 2, b.Len())

	b.Remove(0)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, int64(2), b.Lines()[0].ProductID)
}
