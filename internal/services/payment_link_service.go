package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"invoice-backend/internal/billing"
	"invoice-backend/internal/metrics"
	"invoice-backend/internal/models"
)

const eventPaymentLinkPaid = "payment_link.paid"

// PaymentLinkService issues gateway payment links for invoices and settles
// invoices when the gateway reports a payment
type PaymentLinkService struct {
	Invoices InvoiceStore
	Gateway  PaymentGateway
	Cache    StatsCache
	Now      func() time.Time
}

func NewPaymentLinkService(invoices InvoiceStore, gateway PaymentGateway, cache StatsCache) *PaymentLinkService {
	return &PaymentLinkService{Invoices: invoices, Gateway: gateway, Cache: cache, Now: time.Now}
}

// CreatePaymentLink creates a link for the invoice total and stores its URL on the invoice
func (s *PaymentLinkService) CreatePaymentLink(ctx context.Context, userID, invoiceID string) (*models.PaymentLinkResponse, error) {
	if !s.Gateway.Enabled() {
		return nil, ErrPaymentsDisabled
	}

	inv, err := s.Invoices.Get(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case models.InvoiceStatusPaid, models.InvoiceStatusCancelled:
		return nil, fmt.Errorf("%w: invoice is %s", ErrInvalidStatus, inv.Status)
	}
	if !inv.Total.IsPositive() {
		return nil, &billing.ValidationError{Field: "total", Reason: "must be positive to collect a payment"}
	}

	link, err := s.Gateway.CreatePaymentLink(ctx, PaymentLinkRequest{
		ReferenceID:   inv.ID,
		AmountMinor:   billing.MinorUnits(inv.Total),
		Currency:      inv.Currency,
		Description:   "Invoice " + inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		Notes: map[string]string{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"user_id":        userID,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.Invoices.SetPaymentLink(ctx, userID, inv.ID, link.ShortURL); err != nil {
		return nil, fmt.Errorf("store payment link: %w", err)
	}
	metrics.PaymentLinksCreated.Inc()
	log.Printf("[Payments] Created payment link %s for invoice %s", link.ID, inv.InvoiceNumber)

	return &models.PaymentLinkResponse{InvoiceID: inv.ID, PaymentLink: link.ShortURL, LinkID: link.ID}, nil
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		PaymentLink struct {
			Entity struct {
				ID          string `json:"id"`
				ReferenceID string `json:"reference_id"`
				Status      string `json:"status"`
			} `json:"entity"`
		} `json:"payment_link"`
		Payment struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook verifies and applies a gateway webhook. Events other than a
// paid payment link are acknowledged and ignored.
func (s *PaymentLinkService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.Gateway.VerifyWebhookSignature(body, signature) {
		metrics.PaymentWebhooks.WithLabelValues("unknown", "rejected").Inc()
		return ErrInvalidSignature
	}

	var evt webhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		metrics.PaymentWebhooks.WithLabelValues("unknown", "malformed").Inc()
		return fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	log.Printf("[Payments] Received webhook: %s", evt.Event)

	if evt.Event != eventPaymentLinkPaid {
		metrics.PaymentWebhooks.WithLabelValues(evt.Event, "ignored").Inc()
		return nil
	}

	invoiceID := evt.Payload.PaymentLink.Entity.ReferenceID
	if invoiceID == "" {
		metrics.PaymentWebhooks.WithLabelValues(evt.Event, "malformed").Inc()
		return fmt.Errorf("%w: payment link %s has no reference_id", ErrMalformedWebhook, evt.Payload.PaymentLink.Entity.ID)
	}

	inv, err := s.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		metrics.PaymentWebhooks.WithLabelValues(evt.Event, "error").Inc()
		return fmt.Errorf("load invoice %s: %w", invoiceID, err)
	}

	updated, err := s.Invoices.MarkPaid(ctx, inv.ID, s.Now())
	if err != nil {
		metrics.PaymentWebhooks.WithLabelValues(evt.Event, "error").Inc()
		return fmt.Errorf("mark invoice %s paid: %w", inv.ID, err)
	}
	if !updated {
		metrics.PaymentWebhooks.WithLabelValues(evt.Event, "duplicate").Inc()
		log.Printf("[Payments] Invoice %s already paid", inv.InvoiceNumber)
		return nil
	}

	s.Cache.InvalidateTenant(ctx, inv.UserID)
	metrics.PaymentWebhooks.WithLabelValues(evt.Event, "applied").Inc()
	log.Printf("[Payments] Invoice %s paid via %s", inv.InvoiceNumber, evt.Payload.Payment.Entity.ID)
	return nil
}
