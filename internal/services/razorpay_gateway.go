package services

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// PaymentLinkRequest describes a hosted payment page for one invoice
type PaymentLinkRequest struct {
	ReferenceID   string
	AmountMinor   int64
	Currency      string
	Description   string
	CustomerName  string
	CustomerEmail string
	Notes         map[string]string
}

// PaymentLink is the gateway's answer to a PaymentLinkRequest
type PaymentLink struct {
	ID       string
	ShortURL string
}

// PaymentGateway is the payment provider as seen by PaymentLinkService
type PaymentGateway interface {
	Enabled() bool
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (PaymentLink, error)
	VerifyWebhookSignature(body []byte, signature string) bool
}

// RazorpayGateway issues payment links through the Razorpay API
type RazorpayGateway struct {
	client        *razorpay.Client
	webhookSecret string
	callbackURL   string
}

// NewRazorpayGateway builds a gateway; without a key pair it stays disabled
func NewRazorpayGateway(keyID, keySecret, webhookSecret, callbackURL string) *RazorpayGateway {
	g := &RazorpayGateway{webhookSecret: webhookSecret, callbackURL: callbackURL}
	if keyID != "" && keySecret != "" {
		g.client = razorpay.NewClient(keyID, keySecret)
	}
	return g
}

func (g *RazorpayGateway) Enabled() bool {
	return g.client != nil
}

func (g *RazorpayGateway) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (PaymentLink, error) {
	if g.client == nil {
		return PaymentLink{}, ErrPaymentsDisabled
	}

	notes := map[string]interface{}{}
	for k, v := range req.Notes {
		notes[k] = v
	}

	data := map[string]interface{}{
		"amount":         req.AmountMinor,
		"currency":       req.Currency,
		"accept_partial": false,
		"reference_id":   req.ReferenceID,
		"description":    req.Description,
		"notes":          notes,
	}
	if req.CustomerEmail != "" {
		data["customer"] = map[string]interface{}{
			"name":  req.CustomerName,
			"email": req.CustomerEmail,
		}
		data["notify"] = map[string]interface{}{"email": true}
	}
	if g.callbackURL != "" {
		data["callback_url"] = g.callbackURL
		data["callback_method"] = "get"
	}

	link, err := g.client.PaymentLink.Create(data, nil)
	if err != nil {
		return PaymentLink{}, fmt.Errorf("failed to create razorpay payment link: %w", err)
	}

	id, _ := link["id"].(string)
	shortURL, _ := link["short_url"].(string)
	if shortURL == "" {
		return PaymentLink{}, fmt.Errorf("razorpay payment link %q has no short_url", id)
	}
	return PaymentLink{ID: id, ShortURL: shortURL}, nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header. Without a
// configured secret every webhook is rejected.
func (g *RazorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	if g.webhookSecret == "" || signature == "" {
		return false
	}
	return utils.VerifyWebhookSignature(string(body), signature, g.webhookSecret)
}
