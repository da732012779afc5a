package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"invoice-backend/internal/billing"
	"invoice-backend/internal/branding"
	"invoice-backend/internal/models"
)

// TemplateService loads and stores a user's invoice branding. Stored JSON
// is never trusted: it is resolved on every read and before every write.
type TemplateService struct {
	Profiles ProfileStore
}

func NewTemplateService(profiles ProfileStore) *TemplateService {
	return &TemplateService{Profiles: profiles}
}

func (s *TemplateService) load(ctx context.Context, userID string) (models.TemplateID, branding.RawSettings, error) {
	template, data, err := s.Profiles.LoadTemplateSettings(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	template = branding.TemplateOrDefault(template)

	var raw branding.RawSettings
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			log.Printf("[Template] ignoring malformed settings for %s: %v", userID, err)
			raw = nil
		}
	}
	return template, raw, nil
}

func (s *TemplateService) save(ctx context.Context, userID string, template models.TemplateID, settings models.TemplateSettings) error {
	data, err := json.Marshal(branding.ToRaw(settings))
	if err != nil {
		return fmt.Errorf("encode template settings: %w", err)
	}
	return s.Profiles.SaveTemplateSettings(ctx, userID, template, data)
}

// Get returns the resolved settings for the user's active template
func (s *TemplateService) Get(ctx context.Context, userID string) (*models.TemplateSettingsResponse, error) {
	template, raw, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.TemplateSettingsResponse{
		Template: template,
		Settings: branding.ResolveSettings(raw, &template),
	}, nil
}

// Save resolves partial or untrusted settings against the active template and persists the result
func (s *TemplateService) Save(ctx context.Context, userID string, raw branding.RawSettings) (*models.TemplateSettingsResponse, error) {
	template, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := branding.ResolveSettings(raw, &template)
	if err := s.save(ctx, userID, template, settings); err != nil {
		return nil, err
	}
	return &models.TemplateSettingsResponse{Template: template, Settings: settings}, nil
}

// SwitchTemplate changes the active template. A preset accent follows the
// new template; a custom accent is kept.
func (s *TemplateService) SwitchTemplate(ctx context.Context, userID, to string) (*models.TemplateSettingsResponse, error) {
	next, ok := branding.ParseTemplateID(to)
	if !ok {
		return nil, &billing.ValidationError{Field: "template", Reason: "is not a known template"}
	}

	from, raw, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := branding.SwitchTemplate(branding.ResolveSettings(raw, &from), from, next)
	if err := s.save(ctx, userID, next, settings); err != nil {
		return nil, err
	}
	log.Printf("[Template] %s switched template %s -> %s", userID, from, next)
	return &models.TemplateSettingsResponse{Template: next, Settings: settings}, nil
}
