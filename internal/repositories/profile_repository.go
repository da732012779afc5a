package repositories

import (
	"context"

	"invoice-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	DB *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	p := &models.Profile{}
	err := r.DB.QueryRow(ctx,
		`SELECT user_id, COALESCE(business_name, ''), COALESCE(business_email, ''), COALESCE(business_phone, ''),
		        COALESCE(business_address, ''), COALESCE(logo_url, ''), COALESCE(tier, 'free'),
		        invoice_count, next_invoice_seq, COALESCE(template, 'classic'), updated_at
		 FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.BusinessName, &p.BusinessEmail, &p.BusinessPhone,
		&p.BusinessAddress, &p.LogoURL, &p.Tier,
		&p.InvoiceCount, &p.NextInvoiceSeq, &p.Template, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *ProfileRepository) LoadTemplateSettings(ctx context.Context, userID string) (models.TemplateID, []byte, error) {
	var template models.TemplateID
	var raw []byte
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(template, 'classic'), template_settings FROM profiles WHERE user_id = $1`, userID,
	).Scan(&template, &raw)
	if err != nil {
		return "", nil, notFound(err)
	}
	return template, raw, nil
}

func (r *ProfileRepository) SaveTemplateSettings(ctx context.Context, userID string, template models.TemplateID, settings []byte) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE profiles SET template = $1, template_settings = $2, updated_at = NOW() WHERE user_id = $3`,
		template, settings, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
