// Package billing holds the invoice arithmetic: totals, dashboard statistics,
// monthly rollups and free tier gating. Everything here is pure and works on
// already fetched values.
package billing

import (
	"strings"

	"invoice-backend/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the derived money summary of a set of line items
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeLineAmount returns quantity * unitPrice. It does not validate.
func ComputeLineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// ComputeTotals sums the line amounts and applies taxRate, a percentage.
// Nothing is rounded; callers round when presenting.
func ComputeTotals(items []models.LineItem, taxRate decimal.Decimal) (Totals, error) {
	if taxRate.IsNegative() {
		return Totals{}, &ValidationError{Field: "tax_rate", Reason: "must not be negative"}
	}

	subtotal := decimal.Zero
	for i, item := range items {
		if item.Quantity.IsNegative() {
			return Totals{}, &ValidationError{Field: itemField(i, "quantity"), Reason: "must not be negative"}
		}
		if item.UnitPrice.IsNegative() {
			return Totals{}, &ValidationError{Field: itemField(i, "unit_price"), Reason: "must not be negative"}
		}
		subtotal = subtotal.Add(ComputeLineAmount(item.Quantity, item.UnitPrice))
	}

	tax := subtotal.Mul(taxRate).Div(hundred)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}, nil
}

// ValidateLineItems applies the admission rules for a new invoice, which are
// stricter than ComputeTotals: at least one item, a description, and a
// quantity above zero.
func ValidateLineItems(items []models.LineItem) error {
	if len(items) == 0 {
		return &ValidationError{Field: "items", Reason: "at least one line item is required"}
	}
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return &ValidationError{Field: itemField(i, "description"), Reason: "is required"}
		}
		if !item.Quantity.IsPositive() {
			return &ValidationError{Field: itemField(i, "quantity"), Reason: "must be greater than zero"}
		}
		if item.UnitPrice.IsNegative() {
			return &ValidationError{Field: itemField(i, "unit_price"), Reason: "must not be negative"}
		}
	}
	return nil
}

// FormatMoney rounds d half away from zero to two places for display
func FormatMoney(d decimal.Decimal, currency string) string {
	s := d.StringFixed(2)
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// MinorUnits converts d to the smallest currency unit (e.g. cents, paise)
func MinorUnits(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}
