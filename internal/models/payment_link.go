package models

// PaymentLinkResponse is returned after a payment link is issued for an invoice
type PaymentLinkResponse struct {
	InvoiceID   string `json:"invoice_id"`
	PaymentLink string `json:"payment_link"`
	LinkID      string `json:"link_id"`
}
