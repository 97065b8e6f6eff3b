package service

import (
	"tokoku/gateway/internal/domain"
)

// Pure per-tab filters over the fetched collections. They never touch the
// upstream; each tab fetches the full list and narrows it client-side.

func FilterStockByZone(levels []domain.StockLevel, zoneID int64) []domain.StockLevel {
	if zoneID == 0 {
		return levels
	}
	out := make([]domain.StockLevel, 0, len(levels))
	for _, level := range levels {
		if level.ZoneID == zoneID {
			out = append(out, level)
		}
	}
	return out
}

func FilterSuppliesByStatus(supplies []domain.Supply, status domain.SupplyStatus) []domain.Supply {
	if status == "" {
		return supplies
	}
	out := make([]domain.Supply, 0, len(supplies))
	for _, supply := range supplies {
		if supply.Status == status {
			out = append(out, supply)
		}
	}
	return out
}

func FilterTransfersByStatus(transfers []domain.Transfer, status domain.TransferStatus) []domain.Transfer {
	if status == "" {
		return transfers
	}
	out := make([]domain.Transfer, 0, len(transfers))
	for _, transfer := range transfers {
		if transfer.Status == status {
			out = append(out, transfer)
		}
	}
	return out
}

func FilterCountsByStatus(counts []domain.StockCount, status domain.CountStatus) []domain.StockCount {
	if status == "" {
		return counts
	}
	out := make([]domain.StockCount, 0, len(counts))
	for _, count := range counts {
		if count.Status == status {
			out = append(out, count)
		}
	}
	return out
}

func FilterSalesByStatus(sales []domain.Sale, status domain.SaleStatus) []domain.Sale {
	if status == "" {
		return sales
	}
	out := make([]domain.Sale, 0, len(sales))
	for _, sale := range sales {
		if sale.Status == status {
			out = append(out, sale)
		}
	}
	return out
}

// OutstandingSales keeps sales with an unpaid remainder, excluding cancelled
// ones (a cancelled sale owes nothing).
func OutstandingSales(sales []domain.Sale) []domain.Sale {
	out := make([]domain.Sale, 0, len(sales))
	for _, sale := range sales {
		if sale.Status == domain.SaleStatusCancelled {
			continue
		}
		if sale.PaidAmount.LessThan(sale.TotalAmount) {
			out = append(out, sale)
		}
	}
	return out
}

func OutstandingInvoices(invoices []domain.Invoice) []domain.Invoice {
	out := make([]domain.Invoice, 0, len(invoices))
	for _, invoice := range invoices {
		switch invoice.Status {
		case domain.InvoiceStatusCancelled, domain.InvoiceStatusDraft:
			continue
		}
		if invoice.PaidAmount.LessThan(invoice.TotalAmount) {
			out = append(out, invoice)
		}
	}
	return out
}

// OpenQuotes keeps quotes still awaiting a customer decision.
func OpenQuotes(quotes []domain.Quote) []domain.Quote {
	out := make([]domain.Quote, 0, len(quotes))
	for _, quote := range quotes {
		if quote.Status == domain.QuoteStatusDraft || quote.Status == domain.QuoteStatusSent {
			out = append(out, quote)
		}
	}
	return out
}
