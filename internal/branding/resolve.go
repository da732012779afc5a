package branding

import (
	"strings"

	"invoice-backend/internal/models"
)

// RawSettings is template settings as decoded from JSON, before any checks
type RawSettings map[string]any

const (
	keyAccentColor         = "accent_color"
	keyHeaderLayout        = "header_layout"
	keyShowLogo            = "show_logo"
	keyShowBusinessContact = "show_business_contact"
	keyShowNotes           = "show_notes"
	keyHighlightTotals     = "highlight_totals"
	keyFooterText          = "footer_text"
)

// ResolveSettings fills every field of the result from raw when the stored
// value has the right type and shape, and from the defaults otherwise.
// The accent color falls back to the template preset before the global
// default. template may be nil.
func ResolveSettings(raw RawSettings, template *models.TemplateID) models.TemplateSettings {
	out := Defaults()

	if template != nil {
		if preset, ok := PresetColor(*template); ok {
			out.AccentColor = preset
		}
	}
	if s, ok := raw[keyAccentColor].(string); ok {
		if c, ok := parseHex(s); ok {
			out.AccentColor = c
		}
	}

	if s, ok := raw[keyHeaderLayout].(string); ok {
		switch models.HeaderLayout(s) {
		case models.HeaderLayoutStacked, models.HeaderLayoutInline:
			out.HeaderLayout = models.HeaderLayout(s)
		}
	}

	resolveBool(raw, keyShowLogo, &out.ShowLogo)
	resolveBool(raw, keyShowBusinessContact, &out.ShowBusinessContact)
	resolveBool(raw, keyShowNotes, &out.ShowNotes)
	resolveBool(raw, keyHighlightTotals, &out.HighlightTotals)

	if s, ok := raw[keyFooterText].(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out.FooterText = trimmed
		}
	}

	return out
}

func resolveBool(raw RawSettings, key string, dst *bool) {
	if v, ok := raw[key].(bool); ok {
		*dst = v
	}
}

// Resolve re-checks an already typed value, e.g. one decoded from a request
// body, so that only valid settings are ever persisted.
func Resolve(s models.TemplateSettings, template *models.TemplateID) models.TemplateSettings {
	return ResolveSettings(ToRaw(s), template)
}

// ToRaw encodes settings with the same keys ResolveSettings reads
func ToRaw(s models.TemplateSettings) RawSettings {
	return RawSettings{
		keyAccentColor:         s.AccentColor,
		keyHeaderLayout:        string(s.HeaderLayout),
		keyShowLogo:            s.ShowLogo,
		keyShowBusinessContact: s.ShowBusinessContact,
		keyShowNotes:           s.ShowNotes,
		keyHighlightTotals:     s.HighlightTotals,
		keyFooterText:          s.FooterText,
	}
}

// SwitchTemplate returns current adjusted for a change of template from one
// preset to another. The accent only follows the new preset if it still
// equals the old template's preset; a color the user picked is kept.
func SwitchTemplate(current models.TemplateSettings, from, to models.TemplateID) models.TemplateSettings {
	next := Resolve(current, &from)

	oldPreset, _ := PresetColor(TemplateOrDefault(from))
	newPreset, ok := PresetColor(to)
	if ok && next.AccentColor == oldPreset {
		next.AccentColor = newPreset
	}
	return next
}
