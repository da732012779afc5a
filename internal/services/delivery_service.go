package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"invoice-backend/internal/billing"
	"invoice-backend/internal/metrics"
	"invoice-backend/internal/models"
	"invoice-backend/internal/storage"
	"invoice-backend/internal/timeutil"
)

const maxLogoBytes = 2 << 20

// DeliveryResult describes a sent invoice
type DeliveryResult struct {
	InvoiceID string `json:"invoice_id"`
	SentTo    string `json:"sent_to"`
	PDFURL    string `json:"pdf_url,omitempty"`
	Status    string `json:"status"`
}

// DeliveryService renders invoices and delivers them by email
type DeliveryService struct {
	Invoices   InvoiceStore
	Profiles   ProfileStore
	Templates  *TemplateService
	Renderer   *InvoiceRenderer
	Store      ObjectStore
	Mailer     Mailer
	Cache      StatsCache
	HTTPClient *http.Client
}

func NewDeliveryService(
	invoices InvoiceStore,
	profiles ProfileStore,
	templates *TemplateService,
	renderer *InvoiceRenderer,
	store ObjectStore,
	mailer Mailer,
	cache StatsCache,
) *DeliveryService {
	return &DeliveryService{
		Invoices:   invoices,
		Profiles:   profiles,
		Templates:  templates,
		Renderer:   renderer,
		Store:      store,
		Mailer:     mailer,
		Cache:      cache,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 || !allowedLogoURL(req.URL.String()) {
					return errors.New("logo redirect refused")
				}
				return nil
			},
		},
	}
}

// allowedLogoURL accepts absolute https URLs without credentials
func allowedLogoURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "https" && u.Host != "" && u.User == nil
}

// RenderInvoice builds the PDF of an invoice with the user's current branding
func (s *DeliveryService) RenderInvoice(ctx context.Context, userID, invoiceID string) ([]byte, *models.InvoiceWithCustomer, error) {
	inv, err := s.Invoices.Get(ctx, userID, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.render(ctx, userID, inv)
	return data, inv, err
}

func (s *DeliveryService) render(ctx context.Context, userID string, inv *models.InvoiceWithCustomer) ([]byte, error) {
	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	branding, err := s.Templates.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load template settings: %w", err)
	}

	doc := InvoiceDocument{Invoice: *inv, Profile: *profile, Settings: branding.Settings}
	if branding.Settings.ShowLogo && profile.LogoURL != "" {
		doc.Logo = s.fetchLogo(ctx, profile.LogoURL)
	}
	return s.Renderer.Render(doc)
}

// fetchLogo downloads the logo; a failure only drops the logo from the PDF
func (s *DeliveryService) fetchLogo(ctx context.Context, logoURL string) []byte {
	if !allowedLogoURL(logoURL) {
		log.Printf("[Delivery] logo URL refused, https only")
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoURL, nil)
	if err != nil {
		return nil
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		log.Printf("[Delivery] logo fetch failed: %v", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[Delivery] logo fetch returned %d", resp.StatusCode)
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil
	}
	return data
}

// SendInvoice renders the invoice, archives the PDF and emails it to the
// customer. A draft becomes sent.
func (s *DeliveryService) SendInvoice(ctx context.Context, userID, invoiceID string) (*DeliveryResult, error) {
	if !s.Mailer.Enabled() {
		return nil, ErrEmailDisabled
	}

	inv, err := s.Invoices.Get(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == models.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: invoice is %s", ErrInvalidStatus, inv.Status)
	}
	if inv.CustomerEmail == "" {
		return nil, ErrNoCustomerEmail
	}

	pdf, err := s.render(ctx, userID, inv)
	if err != nil {
		return nil, err
	}

	result := &DeliveryResult{InvoiceID: inv.ID, SentTo: inv.CustomerEmail}
	if s.Store != nil && s.Store.Enabled() {
		url, err := s.Store.Upload(ctx, storage.InvoiceKey(userID, inv.InvoiceNumber), "application/pdf", bytes.NewReader(pdf))
		if err != nil {
			log.Printf("[Delivery] failed to archive %s: %v", inv.InvoiceNumber, err)
		} else {
			result.PDFURL = url
		}
	}

	err = s.Mailer.Send(ctx, models.Email{
		To:             inv.CustomerEmail,
		Subject:        fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		Body:           invoiceEmailBody(inv),
		AttachmentName: inv.InvoiceNumber + ".pdf",
		Attachment:     pdf,
	})
	if err != nil {
		metrics.EmailsSent.WithLabelValues("invoice", "error").Inc()
		return nil, fmt.Errorf("send invoice %s: %w", inv.InvoiceNumber, err)
	}
	metrics.EmailsSent.WithLabelValues("invoice", "ok").Inc()

	result.Status = string(inv.Status)
	if inv.Status == models.InvoiceStatusDraft {
		if err := s.Invoices.UpdateStatus(ctx, userID, inv.ID, models.InvoiceStatusSent, nil); err != nil {
			return nil, fmt.Errorf("mark invoice %s sent: %w", inv.InvoiceNumber, err)
		}
		s.Cache.InvalidateTenant(ctx, userID)
		result.Status = string(models.InvoiceStatusSent)
	}

	log.Printf("[Delivery] Sent %s to %s", inv.InvoiceNumber, inv.CustomerEmail)
	return result, nil
}

func invoiceEmailBody(inv *models.InvoiceWithCustomer) string {
	var b bytes.Buffer
	name := inv.CustomerName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Please find invoice %s attached.\n\n", inv.InvoiceNumber)
	fmt.Fprintf(&b, "Amount due: %s\n", billing.FormatMoney(inv.Total, inv.Currency))
	fmt.Fprintf(&b, "Due date: %s\n", inv.DueDate.Format(timeutil.DisplayLayout))
	if inv.PaymentLink != "" {
		fmt.Fprintf(&b, "\nPay online: %s\n", inv.PaymentLink)
	}
	return b.String()
}
