// Package branding turns stored, possibly stale or hand edited, invoice
// template settings into a complete models.TemplateSettings value. It never
// returns an error: anything it cannot use is replaced by a default.
package branding

import (
	"strings"

	"invoice-backend/internal/models"
)

var presetColors = map[models.TemplateID]string{
	models.TemplateClassic: "#2563EB",
	models.TemplatePainter: "#C2410C",
	models.TemplateMinimal: "#111827",
}

// DefaultAccentColor is used when neither the stored value nor a template preset applies
const DefaultAccentColor = "#2563EB"

const DefaultFooterText = "Thank you for your business."

// Defaults returns the settings used for every field that cannot be resolved
func Defaults() models.TemplateSettings {
	return models.TemplateSettings{
		AccentColor:         DefaultAccentColor,
		HeaderLayout:        models.HeaderLayoutStacked,
		ShowLogo:            true,
		ShowBusinessContact: true,
		ShowNotes:           true,
		HighlightTotals:     false,
		FooterText:          DefaultFooterText,
	}
}

// PresetColor returns the accent color a template ships with
func PresetColor(id models.TemplateID) (string, bool) {
	c, ok := presetColors[id]
	return c, ok
}

// ParseTemplateID accepts a template name in any case and surrounding whitespace
func ParseTemplateID(s string) (models.TemplateID, bool) {
	id := models.TemplateID(strings.ToLower(strings.TrimSpace(s)))
	_, ok := presetColors[id]
	return id, ok
}

// TemplateOrDefault returns id if it names a known template, otherwise classic
func TemplateOrDefault(id models.TemplateID) models.TemplateID {
	if _, ok := presetColors[id]; ok {
		return id
	}
	return models.TemplateClassic
}
