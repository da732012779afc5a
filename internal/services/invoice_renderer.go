package services

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"invoice-backend/internal/billing"
	"invoice-backend/internal/branding"
	"invoice-backend/internal/models"
	"invoice-backend/internal/timeutil"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jung-kurt/gofpdf/v2"
)

// InvoiceDocument is everything needed to lay out one invoice
type InvoiceDocument struct {
	Invoice  models.InvoiceWithCustomer
	Profile  models.Profile
	Settings models.TemplateSettings
	Logo     []byte
}

// InvoiceRenderer draws invoices as A4 PDFs
type InvoiceRenderer struct{}

func NewInvoiceRenderer() *InvoiceRenderer {
	return &InvoiceRenderer{}
}

const (
	pageWidth    = 210.0
	marginX      = 15.0
	contentWidth = pageWidth - 2*marginX
	headerHeight = 32.0
)

// Render produces the PDF bytes for doc
func (r *InvoiceRenderer) Render(doc InvoiceDocument) ([]byte, error) {
	inv := doc.Invoice
	settings := doc.Settings
	ar, ag, ab := branding.RGB(settings.AccentColor)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(marginX, 10, marginX)
	pdf.SetAutoPageBreak(true, 20)

	if settings.FooterText != "" {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-15)
			pdf.SetFont("Arial", "I", 9)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(contentWidth, 6, tr(settings.FooterText), "", 0, "C", false, 0, "")
		})
	}
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(ar, ag, ab)
	pdf.Rect(0, 0, pageWidth, headerHeight, "F")
	pdf.SetTextColor(255, 255, 255)

	nameX := marginX
	if settings.ShowLogo && len(doc.Logo) > 0 {
		if registerLogo(pdf, doc.Logo) {
			pdf.ImageOptions("logo", marginX, 6, 0, 20, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			if settings.HeaderLayout == models.HeaderLayoutInline {
				nameX = marginX + 26
			}
		}
	}

	businessName := doc.Profile.BusinessName
	if businessName == "" {
		businessName = "Invoice"
	}
	title := fmt.Sprintf("INVOICE %s", inv.InvoiceNumber)

	if settings.HeaderLayout == models.HeaderLayoutInline {
		pdf.SetXY(nameX, 11)
		pdf.SetFont("Arial", "B", 18)
		pdf.CellFormat(contentWidth/2, 10, tr(businessName), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.SetXY(marginX+contentWidth/2, 11)
		pdf.CellFormat(contentWidth/2, 10, title, "", 0, "R", false, 0, "")
	} else {
		// stacked: name over title, right aligned opposite the logo
		pdf.SetXY(marginX, 6)
		pdf.SetFont("Arial", "B", 18)
		pdf.CellFormat(contentWidth, 10, tr(businessName), "", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(contentWidth, 8, title, "", 1, "R", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(headerHeight + 6)

	// From / Bill to
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(contentWidth/2, 6, "From", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth/2, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	from := []string{businessName}
	if settings.ShowBusinessContact {
		for _, line := range []string{doc.Profile.BusinessEmail, doc.Profile.BusinessPhone, doc.Profile.BusinessAddress} {
			if line != "" {
				from = append(from, line)
			}
		}
	}
	to := []string{}
	for _, line := range []string{inv.CustomerName, inv.CustomerEmail} {
		if line != "" {
			to = append(to, line)
		}
	}
	for i := 0; i < len(from) || i < len(to); i++ {
		pdf.CellFormat(contentWidth/2, 5, tr(lineAt(from, i)), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth/2, 5, tr(lineAt(to, i)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Dates
	pdf.CellFormat(contentWidth/3, 6, "Issued: "+inv.IssueDate.Format(timeutil.DisplayLayout), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth/3, 6, "Due: "+inv.DueDate.Format(timeutil.DisplayLayout), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth/3, 6, "Status: "+strings.ToUpper(string(inv.Status)), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Items table
	widths := []float64{90, 25, 32.5, 32.5}
	pdf.SetFillColor(ar, ag, ab)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 10)
	for i, h := range []string{"Description", "Qty", "Unit Price", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(widths[0], 7, tr(truncate(item.Description, 55)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, billing.FormatMoney(item.UnitPrice, ""), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, billing.FormatMoney(item.Amount(), ""), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals
	labelW := widths[0] + widths[1] + widths[2]
	pdf.CellFormat(labelW, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 7, billing.FormatMoney(inv.Subtotal, ""), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 7, fmt.Sprintf("Tax (%s%%)", inv.TaxRate.String()), "", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 7, billing.FormatMoney(inv.TaxAmount, ""), "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	if settings.HighlightTotals {
		pdf.SetFillColor(ar, ag, ab)
		pdf.SetTextColor(255, 255, 255)
	}
	pdf.CellFormat(labelW, 9, "Total", "", 0, "R", settings.HighlightTotals, 0, "")
	pdf.CellFormat(widths[3], 9, billing.FormatMoney(inv.Total, inv.Currency), "", 1, "R", settings.HighlightTotals, 0, "")
	pdf.SetTextColor(0, 0, 0)

	if inv.PaymentLink != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "U", 10)
		pdf.SetTextColor(ar, ag, ab)
		pdf.CellFormat(contentWidth, 6, "Pay online: "+inv.PaymentLink, "", 1, "L", false, 0, inv.PaymentLink)
		pdf.SetTextColor(0, 0, 0)
	}

	if settings.ShowNotes && strings.TrimSpace(inv.Notes) != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(contentWidth, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(contentWidth, 5, tr(inv.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

// registerLogo loads a PNG or JPEG logo; unreadable images are skipped
func registerLogo(pdf *gofpdf.Fpdf, data []byte) bool {
	var imageType string
	switch mt := mimetype.Detect(data); {
	case mt.Is("image/png"):
		imageType = "PNG"
	case mt.Is("image/jpeg"):
		imageType = "JPG"
	default:
		return false
	}
	pdf.RegisterImageOptionsReader("logo", gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}, bytes.NewReader(data))
	if !pdf.Ok() {
		pdf.ClearError()
		return false
	}
	return true
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
