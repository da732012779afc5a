package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoice-backend/internal/billing"
	"invoice-backend/internal/metrics"
	"invoice-backend/internal/models"
	"invoice-backend/internal/timeutil"

	"github.com/google/uuid"
)

// InvoiceConfig carries the billing settings the invoice service needs
type InvoiceConfig struct {
	FreeInvoiceLimit int
	DefaultCurrency  string
	DefaultDueDays   int
	Location         *time.Location
}

type InvoiceService struct {
	Invoices  InvoiceStore
	Customers CustomerStore
	Profiles  ProfileStore
	Cache     StatsCache
	Config    InvoiceConfig
	Now       func() time.Time
}

func NewInvoiceService(invoices InvoiceStore, customers CustomerStore, profiles ProfileStore, cache StatsCache, cfg InvoiceConfig) *InvoiceService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &InvoiceService{
		Invoices:  invoices,
		Customers: customers,
		Profiles:  profiles,
		Cache:     cache,
		Config:    cfg,
		Now:       time.Now,
	}
}

// LimitError reports a refused creation together with the admission decision
type LimitError struct {
	Decision billing.LimitDecision
	Limit    int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s (%d invoices allowed)", ErrInvoiceLimitReached, e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrInvoiceLimitReached }

// CheckLimit evaluates the free tier gate for userID
func (s *InvoiceService) CheckLimit(ctx context.Context, userID string) (billing.LimitDecision, error) {
	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return billing.LimitDecision{}, fmt.Errorf("load profile: %w", err)
	}
	return billing.EvaluateInvoiceLimit(billing.Tier(profile.Tier), profile.InvoiceCount, s.Config.FreeInvoiceLimit), nil
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, userID string, req *models.CreateInvoiceRequest) (*models.InvoiceWithCustomer, error) {
	if err := billing.ValidateLineItems(req.Items); err != nil {
		return nil, err
	}
	if req.TaxRate.IsNegative() {
		return nil, &billing.ValidationError{Field: "tax_rate", Reason: "must not be negative"}
	}

	issueDate, dueDate, err := s.parseDates(req.IssueDate, req.DueDate)
	if err != nil {
		return nil, err
	}

	customerID := req.CustomerID
	if customerID != nil && strings.TrimSpace(*customerID) == "" {
		customerID = nil
	}

	var customerName, customerEmail string
	if customerID != nil {
		customer, err := s.Customers.Get(ctx, userID, *customerID)
		if errors.Is(err, ErrNotFound) {
			return nil, &billing.ValidationError{Field: "customer_id", Reason: "does not exist"}
		}
		if err != nil {
			return nil, err
		}
		customerName, customerEmail = customer.Name, customer.Email
	}

	// Early refusal only; the store enforces the quota when it inserts
	decision, err := s.CheckLimit(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		metrics.InvoiceLimitRejections.Inc()
		return nil, &LimitError{Decision: decision, Limit: s.Config.FreeInvoiceLimit}
	}

	totals, err := billing.ComputeTotals(req.Items, req.TaxRate)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.Config.DefaultCurrency
	}

	items := make([]models.LineItem, len(req.Items))
	for i, item := range req.Items {
		item.ID = uuid.NewString()
		item.Description = strings.TrimSpace(item.Description)
		items[i] = item
	}

	inv := &models.Invoice{
		ID:            uuid.NewString(),
		UserID:        userID,
		CustomerID:    customerID,
		Status:        models.InvoiceStatusDraft,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Currency:      currency,
		Subtotal:      totals.Subtotal,
		TaxRate:       req.TaxRate,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		Notes:         req.Notes,
		Items:         items,
	}
	err = s.Invoices.Create(ctx, inv, s.quota())
	if errors.Is(err, models.ErrQuotaExhausted) {
		metrics.InvoiceLimitRejections.Inc()
		return nil, &LimitError{Decision: billing.LimitDecision{Allowed: false}, Limit: s.Config.FreeInvoiceLimit}
	}
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	metrics.InvoicesCreated.Inc()
	s.Cache.InvalidateTenant(ctx, userID)

	return &models.InvoiceWithCustomer{Invoice: *inv, CustomerName: customerName, CustomerEmail: customerEmail}, nil
}

// quota mirrors billing.EvaluateInvoiceLimit for the store's conditional insert
func (s *InvoiceService) quota() models.InvoiceQuota {
	limit := s.Config.FreeInvoiceLimit
	if limit < 0 {
		limit = 0
	}
	return models.InvoiceQuota{Limit: limit, UnlimitedTier: string(billing.TierPro)}
}

func (s *InvoiceService) parseDates(issue, due string) (time.Time, time.Time, error) {
	loc := s.Config.Location
	issueDate := timeutil.CalendarDate(s.Now(), loc)
	if issue != "" {
		d, err := timeutil.ParseDate(issue, nil)
		if err != nil {
			return time.Time{}, time.Time{}, &billing.ValidationError{Field: "issue_date", Reason: "must be YYYY-MM-DD"}
		}
		issueDate = d
	}

	dueDate := issueDate.AddDate(0, 0, s.Config.DefaultDueDays)
	if due != "" {
		d, err := timeutil.ParseDate(due, nil)
		if err != nil {
			return time.Time{}, time.Time{}, &billing.ValidationError{Field: "due_date", Reason: "must be YYYY-MM-DD"}
		}
		dueDate = d
	}
	if dueDate.Before(issueDate) {
		return time.Time{}, time.Time{}, &billing.ValidationError{Field: "due_date", Reason: "must not be before issue_date"}
	}
	return issueDate, dueDate, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, userID, id string) (*models.InvoiceWithCustomer, error) {
	return s.Invoices.Get(ctx, userID, id)
}

func (s *InvoiceService) ListInvoices(ctx context.Context, userID string, filter models.InvoiceFilter) ([]models.Invoice, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.Invoices.List(ctx, userID, filter)
}

// UpdateStatus changes an invoice status, stamping paid_at when it becomes paid
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, id string, status models.InvoiceStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	var paidAt *time.Time
	if status == models.InvoiceStatusPaid {
		now := s.Now()
		paidAt = &now
	}
	if err := s.Invoices.UpdateStatus(ctx, userID, id, status, paidAt); err != nil {
		return err
	}
	s.Cache.InvalidateTenant(ctx, userID)
	return nil
}

func (s *InvoiceService) DeleteInvoice(ctx context.Context, userID, id string) error {
	if err := s.Invoices.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.Cache.InvalidateTenant(ctx, userID)
	return nil
}
