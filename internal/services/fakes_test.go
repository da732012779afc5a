package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"invoice-backend/internal/models"
)

type fakeInvoiceStore struct {
	mu       sync.Mutex
	invoices map[string]*models.Invoice
	// customer joins, keyed by customer id
	customers map[string]*models.Customer
	listCalls int
	// profiles backs the quota claim in Create; createErr fails the insert
	// after the claim, which must then leave the profile untouched
	profiles  *fakeProfileStore
	createErr error
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{
		invoices:  map[string]*models.Invoice{},
		customers: map[string]*models.Customer{},
	}
}

func (f *fakeInvoiceStore) withCustomer(inv *models.Invoice) *models.InvoiceWithCustomer {
	out := &models.InvoiceWithCustomer{Invoice: *inv}
	if inv.CustomerID != nil {
		if c, ok := f.customers[*inv.CustomerID]; ok {
			out.CustomerName, out.CustomerEmail = c.Name, c.Email
		}
	}
	return out
}

func (f *fakeInvoiceStore) Create(_ context.Context, inv *models.Invoice, quota models.InvoiceQuota) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.profiles != nil {
		f.profiles.mu.Lock()
		defer f.profiles.mu.Unlock()
		p, ok := f.profiles.profiles[inv.UserID]
		if !ok {
			return models.ErrNotFound
		}
		if p.Tier != quota.UnlimitedTier && p.InvoiceCount >= quota.Limit {
			return models.ErrQuotaExhausted
		}
		if f.createErr != nil {
			return f.createErr
		}
		p.InvoiceCount++
		p.NextInvoiceSeq++
		inv.InvoiceNumber = models.FormatInvoiceNumber(p.NextInvoiceSeq)
	} else if f.createErr != nil {
		return f.createErr
	}

	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceStore) Get(_ context.Context, userID, id string) (*models.InvoiceWithCustomer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, models.ErrNotFound
	}
	return f.withCustomer(inv), nil
}

func (f *fakeInvoiceStore) GetByID(_ context.Context, id string) (*models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceStore) List(_ context.Context, userID string, filter models.InvoiceFilter) ([]models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var out []models.Invoice
	for _, inv := range f.invoices {
		if inv.UserID != userID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && inv.IssueDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !inv.IssueDate.Before(filter.To) {
			continue
		}
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	return out, nil
}

func (f *fakeInvoiceStore) UpdateStatus(_ context.Context, userID, id string, status models.InvoiceStatus, paidAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || inv.UserID != userID {
		return models.ErrNotFound
	}
	inv.Status = status
	inv.PaidAt = paidAt
	return nil
}

func (f *fakeInvoiceStore) MarkPaid(_ context.Context, id string, paidAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || inv.Status == models.InvoiceStatusPaid {
		return false, nil
	}
	inv.Status = models.InvoiceStatusPaid
	inv.PaidAt = &paidAt
	return true, nil
}

func (f *fakeInvoiceStore) SetPaymentLink(_ context.Context, userID, id, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || inv.UserID != userID {
		return models.ErrNotFound
	}
	inv.PaymentLink = link
	return nil
}

func (f *fakeInvoiceStore) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || inv.UserID != userID {
		return models.ErrNotFound
	}
	delete(f.invoices, id)
	return nil
}

func (f *fakeInvoiceStore) MarkOverdue(_ context.Context, today time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, inv := range f.invoices {
		if inv.Status == models.InvoiceStatusSent && inv.DueDate.Before(today) {
			inv.Status = models.InvoiceStatusOverdue
			n++
		}
	}
	return n, nil
}

func (f *fakeInvoiceStore) ListOverdue(_ context.Context) ([]models.InvoiceWithCustomer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.InvoiceWithCustomer
	for _, inv := range f.invoices {
		if inv.Status == models.InvoiceStatusOverdue {
			out = append(out, *f.withCustomer(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	return out, nil
}

type fakeCustomerStore struct {
	customers map[string]*models.Customer
}

func newFakeCustomerStore(cs ...*models.Customer) *fakeCustomerStore {
	f := &fakeCustomerStore{customers: map[string]*models.Customer{}}
	for _, c := range cs {
		f.customers[c.ID] = c
	}
	return f
}

func (f *fakeCustomerStore) Create(_ context.Context, c *models.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerStore) Get(_ context.Context, userID, id string) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.UserID != userID {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomerStore) List(_ context.Context, userID string) ([]*models.Customer, error) {
	var out []*models.Customer
	for _, c := range f.customers {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCustomerStore) Update(_ context.Context, c *models.Customer) error {
	if _, ok := f.customers[c.ID]; !ok {
		return models.ErrNotFound
	}
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerStore) Delete(_ context.Context, userID, id string) error {
	if _, err := f.Get(context.Background(), userID, id); err != nil {
		return err
	}
	delete(f.customers, id)
	return nil
}

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	settings map[string][]byte
	// onGet runs before every Get, outside the lock
	onGet func()
}

func newFakeProfileStore(ps ...*models.Profile) *fakeProfileStore {
	f := &fakeProfileStore{profiles: map[string]*models.Profile{}, settings: map[string][]byte{}}
	for _, p := range ps {
		f.profiles[p.UserID] = p
	}
	return f
}

func (f *fakeProfileStore) Get(_ context.Context, userID string) (*models.Profile, error) {
	if f.onGet != nil {
		f.onGet()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) LoadTemplateSettings(_ context.Context, userID string) (models.TemplateID, []byte, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return "", nil, models.ErrNotFound
	}
	return p.Template, f.settings[userID], nil
}

func (f *fakeProfileStore) SaveTemplateSettings(_ context.Context, userID string, template models.TemplateID, settings []byte) error {
	p, ok := f.profiles[userID]
	if !ok {
		return models.ErrNotFound
	}
	p.Template = template
	f.settings[userID] = settings
	return nil
}

type fakeCache struct {
	data        map[string][]byte
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	d, ok := c.data[key]
	return d, ok
}

func (c *fakeCache) Set(_ context.Context, key string, data []byte, _ time.Duration) {
	c.data[key] = data
}

func (c *fakeCache) InvalidateTenant(_ context.Context, userID string) {
	c.invalidated = append(c.invalidated, userID)
	for k := range c.data {
		delete(c.data, k)
	}
}

type fakeMailer struct {
	enabled bool
	err     error
	sent    []models.Email
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) Send(_ context.Context, msg models.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeObjectStore struct {
	uploads map[string][]byte
}

func (s *fakeObjectStore) Enabled() bool { return true }

func (s *fakeObjectStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if s.uploads == nil {
		s.uploads = map[string][]byte{}
	}
	s.uploads[key] = data
	return "https://files.example.com/" + key, nil
}

type fakeGateway struct {
	enabled  bool
	validSig string
	requests []PaymentLinkRequest
}

func (g *fakeGateway) Enabled() bool { return g.enabled }

func (g *fakeGateway) CreatePaymentLink(_ context.Context, req PaymentLinkRequest) (PaymentLink, error) {
	g.requests = append(g.requests, req)
	return PaymentLink{ID: "plink_1", ShortURL: "https://rzp.io/i/abc"}, nil
}

func (g *fakeGateway) VerifyWebhookSignature(_ []byte, signature string) bool {
	return signature != "" && signature == g.validSig
}

func strPtr(s string) *string { return &s }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
