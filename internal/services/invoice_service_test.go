package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"invoice-backend/internal/billing"
	"invoice-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	svc       *InvoiceService
	invoices  *fakeInvoiceStore
	customers *fakeCustomerStore
	profiles  *fakeProfileStore
	cache     *fakeCache
}

func newInvoiceFixture(tier string, count int) *invoiceFixture {
	f := &invoiceFixture{
		invoices: newFakeInvoiceStore(),
		customers: newFakeCustomerStore(&models.Customer{
			ID: "c1", UserID: "u1", Name: "Acme", Email: "ap@acme.test",
		}),
		profiles: newFakeProfileStore(&models.Profile{UserID: "u1", Tier: tier, InvoiceCount: count}),
		cache:    newFakeCache(),
	}
	f.invoices.profiles = f.profiles
	f.svc = NewInvoiceService(f.invoices, f.customers, f.profiles, f.cache, InvoiceConfig{
		FreeInvoiceLimit: 3,
		DefaultCurrency:  "USD",
		DefaultDueDays:   14,
	})
	f.svc.Now = func() time.Time { return time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC) }
	return f
}

func createRequest() *models.CreateInvoiceRequest {
	return &models.CreateInvoiceRequest{
		CustomerID: strPtr("c1"),
		TaxRate:    decimal.RequireFromString("10"),
		Items: []models.LineItem{
			{Description: "Design", Quantity: decimal.RequireFromString("2"), UnitPrice: decimal.RequireFromString("100")},
			{Description: "Hosting", Quantity: decimal.RequireFromString("1"), UnitPrice: decimal.RequireFromString("50")},
		},
	}
}

func TestCreateInvoice_Success(t *testing.T) {
	f := newInvoiceFixture("free", 0)

	inv, err := f.svc.CreateInvoice(context.Background(), "u1", createRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", inv.InvoiceNumber)
	assert.Equal(t, models.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "USD", inv.Currency)
	assert.Equal(t, "Acme", inv.CustomerName)
	assert.True(t, decimal.RequireFromString("250").Equal(inv.Subtotal))
	assert.True(t, decimal.RequireFromString("25").Equal(inv.TaxAmount))
	assert.True(t, decimal.RequireFromString("275").Equal(inv.Total))
	assert.Equal(t, date(2026, 3, 10), inv.IssueDate)
	assert.Equal(t, date(2026, 3, 24), inv.DueDate)
	for _, item := range inv.Items {
		assert.NotEmpty(t, item.ID)
	}

	assert.Len(t, f.invoices.invoices, 1)
	assert.Equal(t, 1, f.profiles.profiles["u1"].InvoiceCount)
	assert.Equal(t, []string{"u1"}, f.cache.invalidated)
}

func TestCreateInvoice_RefusedAtFreeLimit(t *testing.T) {
	f := newInvoiceFixture("free", 3)

	_, err := f.svc.CreateInvoice(context.Background(), "u1", createRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvoiceLimitReached))

	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.False(t, limitErr.Decision.Allowed)
	assert.Equal(t, 0, limitErr.Decision.Remaining)

	assert.Empty(t, f.invoices.invoices)
	assert.Equal(t, 3, f.profiles.profiles["u1"].InvoiceCount)
	assert.Equal(t, 0, f.profiles.profiles["u1"].NextInvoiceSeq)
}

func TestCreateInvoice_ConcurrentCreatesShareLastSlot(t *testing.T) {
	f := newInvoiceFixture("free", 2)

	// hold both requests until each has passed the limit pre-check
	var arrived sync.WaitGroup
	arrived.Add(2)
	f.profiles.onGet = func() {
		arrived.Done()
		arrived.Wait()
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateInvoice(context.Background(), "u1", createRequest())
		}(i)
	}
	wg.Wait()

	var succeeded, refused int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInvoiceLimitReached):
			refused++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, refused)
	assert.Len(t, f.invoices.invoices, 1)
	assert.Equal(t, 3, f.profiles.profiles["u1"].InvoiceCount)
}

func TestCreateInvoice_FailedInsertKeepsQuotaAndNumber(t *testing.T) {
	f := newInvoiceFixture("free", 2)
	f.invoices.createErr = errors.New("connection reset")

	_, err := f.svc.CreateInvoice(context.Background(), "u1", createRequest())
	require.Error(t, err)
	assert.Empty(t, f.invoices.invoices)
	assert.Equal(t, 2, f.profiles.profiles["u1"].InvoiceCount)
	assert.Equal(t, 0, f.profiles.profiles["u1"].NextInvoiceSeq)

	f.invoices.createErr = nil
	inv, err := f.svc.CreateInvoice(context.Background(), "u1", createRequest())
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", inv.InvoiceNumber)
	assert.Equal(t, 3, f.profiles.profiles["u1"].InvoiceCount)

	_, err = f.svc.CreateInvoice(context.Background(), "u1", createRequest())
	assert.ErrorIs(t, err, ErrInvoiceLimitReached)
	assert.Len(t, f.invoices.invoices, 1)
}

func TestCreateInvoice_ProIsUnlimited(t *testing.T) {
	f := newInvoiceFixture("pro", 500)

	_, err := f.svc.CreateInvoice(context.Background(), "u1", createRequest())
	require.NoError(t, err)
	assert.Equal(t, 501, f.profiles.profiles["u1"].InvoiceCount)
}

func TestCreateInvoice_ValidationNamesField(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(r *models.CreateInvoiceRequest)
		field string
	}{
		{"no items", func(r *models.CreateInvoiceRequest) { r.Items = nil }, "items"},
		{"negative price", func(r *models.CreateInvoiceRequest) {
			r.Items[1].UnitPrice = decimal.RequireFromString("-1")
		}, "items[1].unit_price"},
		{"negative tax", func(r *models.CreateInvoiceRequest) {
			r.TaxRate = decimal.RequireFromString("-5")
		}, "tax_rate"},
		{"bad issue date", func(r *models.CreateInvoiceRequest) { r.IssueDate = "10/03/2026" }, "issue_date"},
		{"due before issue", func(r *models.CreateInvoiceRequest) {
			r.IssueDate = "2026-03-10"
			r.DueDate = "2026-03-01"
		}, "due_date"},
		{"unknown customer", func(r *models.CreateInvoiceRequest) { r.CustomerID = strPtr("nope") }, "customer_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvoiceFixture("free", 0)
			req := createRequest()
			tt.edit(req)

			_, err := f.svc.CreateInvoice(context.Background(), "u1", req)
			var ve *billing.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Empty(t, f.invoices.invoices)
			assert.Equal(t, 0, f.profiles.profiles["u1"].InvoiceCount)
		})
	}
}

func TestCreateInvoice_SequentialNumbers(t *testing.T) {
	f := newInvoiceFixture("free", 0)

	first, err := f.svc.CreateInvoice(context.Background(), "u1", createRequest())
	require.NoError(t, err)
	second, err := f.svc.CreateInvoice(context.Background(), "u1", createRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", first.InvoiceNumber)
	assert.Equal(t, "INV-000002", second.InvoiceNumber)
}

func TestCheckLimit(t *testing.T) {
	f := newInvoiceFixture("free", 1)

	decision, err := f.svc.CheckLimit(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, billing.LimitDecision{Allowed: true, Remaining: 2}, decision)

	_, err = f.svc.CheckLimit(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	f := newInvoiceFixture("free", 0)
	inv, err := f.svc.CreateInvoice(context.Background(), "u1", createRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(context.Background(), "u1", inv.ID, models.InvoiceStatusPaid))
	stored := f.invoices.invoices[inv.ID]
	assert.Equal(t, models.InvoiceStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)

	assert.ErrorIs(t, f.svc.UpdateStatus(context.Background(), "u1", inv.ID, "archived"), ErrInvalidStatus)
	assert.ErrorIs(t, f.svc.UpdateStatus(context.Background(), "u2", inv.ID, models.InvoiceStatusSent), ErrNotFound)
}

func TestListInvoices_RejectsUnknownStatus(t *testing.T) {
	f := newInvoiceFixture("free", 0)
	_, err := f.svc.ListInvoices(context.Background(), "u1", models.InvoiceFilter{Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteInvoice(t *testing.T) {
	f := newInvoiceFixture("free", 0)
	inv, err := f.svc.CreateInvoice(context.Background(), "u1", createRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteInvoice(context.Background(), "u1", inv.ID))
	assert.Empty(t, f.invoices.invoices)
	assert.ErrorIs(t, f.svc.DeleteInvoice(context.Background(), "u1", inv.ID), ErrNotFound)
}
