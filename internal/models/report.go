package models

import "github.com/shopspring/decimal"

// Bucket is a count and summed total of invoices
type Bucket struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// DashboardStats partitions invoices into paid, unpaid and voided
type DashboardStats struct {
	Paid        Bucket          `json:"paid"`
	Unpaid      Bucket          `json:"unpaid"`
	Voided      Bucket          `json:"voided"`
	TotalCount  int             `json:"total_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// MonthlyReport aggregates one calendar month of invoices
type MonthlyReport struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	InvoiceCount int             `json:"invoice_count"`
	PaidCount    int             `json:"paid_count"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	UnpaidCount  int             `json:"unpaid_count"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`
	VoidedCount  int             `json:"voided_count"`
	VoidedAmount decimal.Decimal `json:"voided_amount"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}
