package models

// TemplateID selects one of the built-in invoice templates
type TemplateID string

const (
	TemplateClassic TemplateID = "classic"
	TemplatePainter TemplateID = "painter"
	TemplateMinimal TemplateID = "minimal"
)

// HeaderLayout controls how logo and business name are arranged
type HeaderLayout string

const (
	HeaderLayoutStacked HeaderLayout = "stacked"
	HeaderLayoutInline  HeaderLayout = "inline"
)

// TemplateSettings is the fully resolved branding configuration of an invoice.
// Values of this type are only produced by the branding resolver.
type TemplateSettings struct {
	AccentColor         string       `json:"accent_color"`
	HeaderLayout        HeaderLayout `json:"header_layout"`
	ShowLogo            bool         `json:"show_logo"`
	ShowBusinessContact bool         `json:"show_business_contact"`
	ShowNotes           bool         `json:"show_notes"`
	HighlightTotals     bool         `json:"highlight_totals"`
	FooterText          string       `json:"footer_text"`
}

// TemplateSettingsResponse pairs the resolved settings with the active template
type TemplateSettingsResponse struct {
	Template TemplateID       `json:"template"`
	Settings TemplateSettings `json:"settings"`
}

// SwitchTemplateRequest represents the request body for changing the template
type SwitchTemplateRequest struct {
	Template string `json:"template"`
}
