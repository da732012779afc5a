package services

import (
	"context"
	"testing"
	"time"

	"invoice-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentFixture(enabled bool) (*PaymentLinkService, *fakeInvoiceStore, *fakeGateway, *fakeCache) {
	store := newFakeInvoiceStore()
	store.customers["c1"] = &models.Customer{ID: "c1", UserID: "u1", Name: "Acme", Email: "ap@acme.test"}
	store.invoices["inv-1"] = &models.Invoice{
		ID:            "inv-1",
		UserID:        "u1",
		CustomerID:    strPtr("c1"),
		InvoiceNumber: "INV-000001",
		Status:        models.InvoiceStatusSent,
		Currency:      "INR",
		Total:         decimal.RequireFromString("1234.565"),
	}
	gw := &fakeGateway{enabled: enabled, validSig: "good"}
	c := newFakeCache()
	svc := NewPaymentLinkService(store, gw, c)
	svc.Now = func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) }
	return svc, store, gw, c
}

func TestCreatePaymentLink(t *testing.T) {
	svc, store, gw, _ := newPaymentFixture(true)

	resp, err := svc.CreatePaymentLink(context.Background(), "u1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "https://rzp.io/i/abc", resp.PaymentLink)
	assert.Equal(t, "plink_1", resp.LinkID)
	assert.Equal(t, "https://rzp.io/i/abc", store.invoices["inv-1"].PaymentLink)

	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	assert.Equal(t, "inv-1", req.ReferenceID)
	assert.Equal(t, int64(123457), req.AmountMinor)
	assert.Equal(t, "INR", req.Currency)
	assert.Equal(t, "ap@acme.test", req.CustomerEmail)
	assert.Equal(t, "inv-1", req.Notes["invoice_id"])
}

func TestCreatePaymentLink_Refusals(t *testing.T) {
	svc, _, _, _ := newPaymentFixture(false)
	_, err := svc.CreatePaymentLink(context.Background(), "u1", "inv-1")
	assert.ErrorIs(t, err, ErrPaymentsDisabled)

	svc, store, _, _ := newPaymentFixture(true)
	_, err = svc.CreatePaymentLink(context.Background(), "u2", "inv-1")
	assert.ErrorIs(t, err, ErrNotFound)

	store.invoices["inv-1"].Status = models.InvoiceStatusPaid
	_, err = svc.CreatePaymentLink(context.Background(), "u1", "inv-1")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

const paidEvent = `{
  "event": "payment_link.paid",
  "payload": {
    "payment_link": {"entity": {"id": "plink_1", "reference_id": "inv-1", "status": "paid"}},
    "payment": {"entity": {"id": "pay_9"}}
  }
}`

func TestHandleWebhook_MarksInvoicePaid(t *testing.T) {
	svc, store, _, c := newPaymentFixture(true)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(paidEvent), "good"))

	inv := store.invoices["inv-1"]
	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)
	require.NotNil(t, inv.PaidAt)
	assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), *inv.PaidAt)
	assert.Equal(t, []string{"u1"}, c.invalidated)
}

func TestHandleWebhook_RedeliveryIsHarmless(t *testing.T) {
	svc, store, _, c := newPaymentFixture(true)
	paidAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	store.invoices["inv-1"].Status = models.InvoiceStatusPaid
	store.invoices["inv-1"].PaidAt = &paidAt

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(paidEvent), "good"))
	assert.Equal(t, paidAt, *store.invoices["inv-1"].PaidAt)
	assert.Empty(t, c.invalidated)
}

func TestHandleWebhook_Rejections(t *testing.T) {
	svc, store, _, _ := newPaymentFixture(true)

	assert.ErrorIs(t, svc.HandleWebhook(context.Background(), []byte(paidEvent), "forged"), ErrInvalidSignature)
	assert.ErrorIs(t, svc.HandleWebhook(context.Background(), []byte(`{oops`), "good"), ErrMalformedWebhook)
	assert.ErrorIs(t, svc.HandleWebhook(context.Background(),
		[]byte(`{"event":"payment_link.paid","payload":{}}`), "good"), ErrMalformedWebhook)
	assert.Equal(t, models.InvoiceStatusSent, store.invoices["inv-1"].Status)
}

func TestHandleWebhook_OtherEventsIgnored(t *testing.T) {
	svc, store, _, _ := newPaymentFixture(true)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{"event":"payment.captured"}`), "good"))
	assert.Equal(t, models.InvoiceStatusSent, store.invoices["inv-1"].Status)
}

func TestRazorpayGateway_DisabledWithoutKeys(t *testing.T) {
	g := NewRazorpayGateway("", "", "whsec", "")
	assert.False(t, g.Enabled())
	_, err := g.CreatePaymentLink(context.Background(), PaymentLinkRequest{})
	assert.ErrorIs(t, err, ErrPaymentsDisabled)
}

func TestRazorpayGateway_RejectsUnsignedWebhooks(t *testing.T) {
	assert.False(t, NewRazorpayGateway("k", "s", "", "").VerifyWebhookSignature([]byte("{}"), "sig"))
	assert.False(t, NewRazorpayGateway("k", "s", "whsec", "").VerifyWebhookSignature([]byte("{}"), ""))
}
