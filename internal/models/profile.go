package models

import "time"

// Profile is the business profile of a user account
type Profile struct {
	UserID          string     `json:"user_id"`
	BusinessName    string     `json:"business_name"`
	BusinessEmail   string     `json:"business_email"`
	BusinessPhone   string     `json:"business_phone"`
	BusinessAddress string     `json:"business_address"`
	LogoURL         string     `json:"logo_url,omitempty"`
	Tier            string     `json:"tier"`
	InvoiceCount    int        `json:"invoice_count"`
	NextInvoiceSeq  int        `json:"next_invoice_seq"`
	Template        TemplateID `json:"template"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
