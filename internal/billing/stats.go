package billing

import (
	"invoice-backend/internal/models"

	"github.com/shopspring/decimal"
)

type bucketKind int

const (
	bucketUnpaid bucketKind = iota
	bucketPaid
	bucketVoided
)

func classify(status models.InvoiceStatus) bucketKind {
	switch status {
	case models.InvoiceStatusPaid:
		return bucketPaid
	case models.InvoiceStatusCancelled:
		return bucketVoided
	default:
		return bucketUnpaid
	}
}

func add(b *models.Bucket, amount decimal.Decimal) {
	b.Count++
	b.Amount = b.Amount.Add(amount)
}

// ComputeDashboardStats buckets the invoices whose issue date is inside r
func ComputeDashboardStats(invoices []models.Invoice, r DateRange) models.DashboardStats {
	var stats models.DashboardStats
	for _, inv := range invoices {
		if !r.Contains(inv.IssueDate) {
			continue
		}
		switch classify(inv.Status) {
		case bucketPaid:
			add(&stats.Paid, inv.Total)
		case bucketVoided:
			add(&stats.Voided, inv.Total)
		default:
			add(&stats.Unpaid, inv.Total)
		}
		stats.TotalCount++
		stats.TotalAmount = stats.TotalAmount.Add(inv.Total)
	}
	return stats
}
