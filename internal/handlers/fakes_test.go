package handlers

import (
	"context"
	"time"

	"invoice-backend/internal/models"
	"invoice-backend/internal/services"
)

type memInvoices struct {
	byID     map[string]*models.Invoice
	profiles *memProfiles
}

func newMemInvoices() *memInvoices {
	return &memInvoices{byID: map[string]*models.Invoice{}}
}

func (m *memInvoices) Create(_ context.Context, inv *models.Invoice, quota models.InvoiceQuota) error {
	p := &m.profiles.profile
	if p.Tier != quota.UnlimitedTier && p.InvoiceCount >= quota.Limit {
		return models.ErrQuotaExhausted
	}
	p.InvoiceCount++
	p.NextInvoiceSeq++
	inv.InvoiceNumber = models.FormatInvoiceNumber(p.NextInvoiceSeq)
	cp := *inv
	m.byID[inv.ID] = &cp
	return nil
}

func (m *memInvoices) Get(_ context.Context, userID, id string) (*models.InvoiceWithCustomer, error) {
	inv, ok := m.byID[id]
	if !ok || inv.UserID != userID {
		return nil, models.ErrNotFound
	}
	return &models.InvoiceWithCustomer{Invoice: *inv}, nil
}

func (m *memInvoices) GetByID(_ context.Context, id string) (*models.Invoice, error) {
	inv, ok := m.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return inv, nil
}

func (m *memInvoices) List(_ context.Context, userID string, _ models.InvoiceFilter) ([]models.Invoice, error) {
	var out []models.Invoice
	for _, inv := range m.byID {
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (m *memInvoices) UpdateStatus(_ context.Context, userID, id string, status models.InvoiceStatus, paidAt *time.Time) error {
	inv, ok := m.byID[id]
	if !ok || inv.UserID != userID {
		return models.ErrNotFound
	}
	inv.Status, inv.PaidAt = status, paidAt
	return nil
}

func (m *memInvoices) MarkPaid(_ context.Context, id string, paidAt time.Time) (bool, error) {
	inv, ok := m.byID[id]
	if !ok || inv.Status == models.InvoiceStatusPaid {
		return false, nil
	}
	inv.Status, inv.PaidAt = models.InvoiceStatusPaid, &paidAt
	return true, nil
}

func (m *memInvoices) SetPaymentLink(context.Context, string, string, string) error { return nil }

func (m *memInvoices) Delete(_ context.Context, userID, id string) error {
	if _, err := m.Get(context.Background(), userID, id); err != nil {
		return err
	}
	delete(m.byID, id)
	return nil
}

func (m *memInvoices) MarkOverdue(context.Context, time.Time) (int64, error) { return 0, nil }

func (m *memInvoices) ListOverdue(context.Context) ([]models.InvoiceWithCustomer, error) {
	return nil, nil
}

type memCustomers struct{}

func (memCustomers) Create(context.Context, *models.Customer) error { return nil }
func (memCustomers) Get(context.Context, string, string) (*models.Customer, error) {
	return nil, models.ErrNotFound
}
func (memCustomers) List(context.Context, string) ([]*models.Customer, error) { return nil, nil }
func (memCustomers) Update(context.Context, *models.Customer) error { return nil }
func (memCustomers) Delete(context.Context, string, string) error { return models.ErrNotFound }

type memProfiles struct {
	profile  models.Profile
	settings []byte
}

func (m *memProfiles) Get(_ context.Context, userID string) (*models.Profile, error) {
	if userID != m.profile.UserID {
		return nil, models.ErrNotFound
	}
	cp := m.profile
	return &cp, nil
}

func (m *memProfiles) LoadTemplateSettings(_ context.Context, userID string) (models.TemplateID, []byte, error) {
	if userID != m.profile.UserID {
		return "", nil, models.ErrNotFound
	}
	return m.profile.Template, m.settings, nil
}

func (m *memProfiles) SaveTemplateSettings(_ context.Context, _ string, template models.TemplateID, settings []byte) error {
	m.profile.Template, m.settings = template, settings
	return nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (nopCache) Set(context.Context, string, []byte, time.Duration) {}
func (nopCache) InvalidateTenant(context.Context, string) {}

type stubGateway struct{}

func (stubGateway) Enabled() bool { return true }
func (stubGateway) CreatePaymentLink(context.Context, services.PaymentLinkRequest) (services.PaymentLink, error) {
	return services.PaymentLink{ID: "plink_1", ShortURL: "https://rzp.io/i/x"}, nil
}
func (stubGateway) VerifyWebhookSignature(_ []byte, signature string) bool { return signature == "good" }
