package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether s is one of the known invoice statuses
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// LineItem is a single billed line on an invoice
type LineItem struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Amount returns quantity * unit price, unrounded
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// Invoice represents a customer invoice owned by one user account
type Invoice struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	CustomerID    *string         `json:"customer_id,omitempty"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        InvoiceStatus   `json:"status"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	Currency      string          `json:"currency"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes,omitempty"`
	PaymentLink   string          `json:"payment_link,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Items         []LineItem      `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvoiceWithCustomer joins the invoice with the fields needed to bill the customer
type InvoiceWithCustomer struct {
	Invoice
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

// CreateInvoiceRequest represents the request body for creating an invoice
type CreateInvoiceRequest struct {
	CustomerID *string         `json:"customer_id"`
	IssueDate  string          `json:"issue_date"`
	DueDate    string          `json:"due_date"`
	Currency   string          `json:"currency"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Notes      string          `json:"notes"`
	Items      []LineItem      `json:"items"`
}

// UpdateInvoiceStatusRequest represents the request body for a status change
type UpdateInvoiceStatusRequest struct {
	Status InvoiceStatus `json:"status"`
}

// InvoiceFilter narrows invoice listings; zero values mean no filter
type InvoiceFilter struct {
	Status     InvoiceStatus
	CustomerID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// InvoiceQuota bounds how many invoices a profile may hold. Profiles on
// UnlimitedTier are not counted against Limit.
type InvoiceQuota struct {
	Limit         int
	UnlimitedTier string
}

// FormatInvoiceNumber formats a per-user sequence value
func FormatInvoiceNumber(seq int) string {
	return fmt.Sprintf("INV-%06d", seq)
}
