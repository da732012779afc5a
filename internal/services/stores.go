package services

import (
	"context"
	"io"
	"time"

	"invoice-backend/internal/models"
)

// InvoiceStore is implemented by repositories.InvoiceRepository
type InvoiceStore interface {
	// Create assigns inv.InvoiceNumber and claims one invoice of quota
	// atomically with the insert
	Create(ctx context.Context, inv *models.Invoice, quota models.InvoiceQuota) error
	Get(ctx context.Context, userID, id string) (*models.InvoiceWithCustomer, error)
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context, userID string, filter models.InvoiceFilter) ([]models.Invoice, error)
	UpdateStatus(ctx context.Context, userID, id string, status models.InvoiceStatus, paidAt *time.Time) error
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
	SetPaymentLink(ctx context.Context, userID, id, link string) error
	Delete(ctx context.Context, userID, id string) error
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
	ListOverdue(ctx context.Context) ([]models.InvoiceWithCustomer, error)
}

// CustomerStore is implemented by repositories.CustomerRepository
type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	Get(ctx context.Context, userID, id string) (*models.Customer, error)
	List(ctx context.Context, userID string) ([]*models.Customer, error)
	Update(ctx context.Context, c *models.Customer) error
	Delete(ctx context.Context, userID, id string) error
}

// ProfileStore is implemented by repositories.ProfileRepository
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	LoadTemplateSettings(ctx context.Context, userID string) (models.TemplateID, []byte, error)
	SaveTemplateSettings(ctx context.Context, userID string, template models.TemplateID, settings []byte) error
}

// StatsCache is implemented by cache.Cache
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	InvalidateTenant(ctx context.Context, userID string)
}

// ObjectStore is implemented by storage.Uploader
type ObjectStore interface {
	Enabled() bool
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Mailer is implemented by mailer.Mailer
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, msg models.Email) error
}
