package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoice-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `i.id, i.user_id, i.customer_id, i.invoice_number, i.status, i.issue_date, i.due_date,
	i.currency, i.subtotal, i.tax_rate, i.tax_amount, i.total, COALESCE(i.notes, ''),
	COALESCE(i.payment_link, ''), i.paid_at, i.created_at, i.updated_at`

func scanInvoice(row pgx.Row, extra ...any) (*models.Invoice, error) {
	inv := &models.Invoice{}
	dest := []any{
		&inv.ID, &inv.UserID, &inv.CustomerID, &inv.InvoiceNumber, &inv.Status, &inv.IssueDate, &inv.DueDate,
		&inv.Currency, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Total, &inv.Notes,
		&inv.PaymentLink, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, notFound(err)
	}
	return inv, nil
}

// Create stores inv and its items. In the same transaction it claims one
// invoice from the profile's quota and the next sequence value, which becomes
// inv.InvoiceNumber. The conditional UPDATE row-locks the profile, so
// concurrent creates line up and at most quota.Limit of them get through.
// Returns models.ErrQuotaExhausted when no invoice is left.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice, quota models.InvoiceQuota) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var seq int
	err = tx.QueryRow(ctx,
		`UPDATE profiles
		 SET invoice_count = invoice_count + 1, next_invoice_seq = next_invoice_seq + 1, updated_at = NOW()
		 WHERE user_id = $1 AND (tier = $2 OR invoice_count < $3)
		 RETURNING next_invoice_seq`,
		inv.UserID, quota.UnlimitedTier, quota.Limit,
	).Scan(&seq)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrQuotaExhausted
	}
	if err != nil {
		return fmt.Errorf("claim invoice quota: %w", err)
	}
	inv.InvoiceNumber = models.FormatInvoiceNumber(seq)

	err = tx.QueryRow(ctx,
		`INSERT INTO invoices(id, user_id, customer_id, invoice_number, status, issue_date, due_date,
		                      currency, subtotal, tax_rate, tax_amount, total, notes)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING created_at, updated_at`,
		inv.ID, inv.UserID, inv.CustomerID, inv.InvoiceNumber, inv.Status, inv.IssueDate, inv.DueDate,
		inv.Currency, inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Total, inv.Notes,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	for pos, item := range inv.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO invoice_items(id, invoice_id, position, description, quantity, unit_price)
			 VALUES($1, $2, $3, $4, $5, $6)`,
			item.ID, inv.ID, pos, item.Description, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item %d: %w", pos, err)
		}
	}

	return tx.Commit(ctx)
}

// Get retrieves an invoice by ID with items
func (r *InvoiceRepository) Get(ctx context.Context, userID, id string) (*models.InvoiceWithCustomer, error) {
	var name, email string
	inv, err := scanInvoice(r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+`, COALESCE(c.name, ''), COALESCE(c.email, '')
		 FROM invoices i
		 LEFT JOIN customers c ON i.customer_id = c.id
		 WHERE i.user_id = $1 AND i.id = $2`, userID, id,
	), &name, &email)
	if err != nil {
		return nil, err
	}

	items, err := r.items(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return &models.InvoiceWithCustomer{Invoice: *inv, CustomerName: name, CustomerEmail: email}, nil
}

// GetByID looks an invoice up without a tenant, for payment webhooks
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	return scanInvoice(r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i WHERE i.id = $1`, id))
}

func (r *InvoiceRepository) items(ctx context.Context, invoiceID string) ([]models.LineItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, description, quantity, unit_price
		 FROM invoice_items WHERE invoice_id = $1 ORDER BY position`, invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.ID, &item.Description, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns invoices without items, newest first
func (r *InvoiceRepository) List(ctx context.Context, userID string, filter models.InvoiceFilter) ([]models.Invoice, error) {
	where := []string{"i.user_id = $1"}
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where = append(where, fmt.Sprintf("i.customer_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where = append(where, fmt.Sprintf("i.issue_date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where = append(where, fmt.Sprintf("i.issue_date < $%d", len(args)))
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices i WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY i.issue_date DESC, i.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, userID, id string, status models.InvoiceStatus, paidAt *time.Time) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status = $1, paid_at = $2, updated_at = NOW()
		 WHERE user_id = $3 AND id = $4`,
		status, paidAt, userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkPaid flips an unpaid invoice to paid. It reports false when the invoice
// was already paid, which makes webhook redelivery harmless.
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status = 'paid', paid_at = $1, updated_at = NOW()
		 WHERE id = $2 AND status <> 'paid'`,
		paidAt, id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *InvoiceRepository) SetPaymentLink(ctx context.Context, userID, id, link string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET payment_link = $1, updated_at = NOW() WHERE user_id = $2 AND id = $3`,
		link, userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM invoices WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkOverdue moves every sent invoice whose due date is before today to overdue
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status = 'overdue', updated_at = NOW()
		 WHERE status = 'sent' AND due_date < $1`, today,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListOverdue returns overdue invoices across tenants with the customer's email
func (r *InvoiceRepository) ListOverdue(ctx context.Context) ([]models.InvoiceWithCustomer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+`, COALESCE(c.name, ''), COALESCE(c.email, '')
		 FROM invoices i
		 JOIN customers c ON i.customer_id = c.id
		 WHERE i.status = 'overdue'
		 ORDER BY i.due_date`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.InvoiceWithCustomer
	for rows.Next() {
		var name, email string
		inv, err := scanInvoice(rows, &name, &email)
		if err != nil {
			return nil, err
		}
		out = append(out, models.InvoiceWithCustomer{Invoice: *inv, CustomerName: name, CustomerEmail: email})
	}
	return out, rows.Err()
}
