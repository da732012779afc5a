package billing

import "invoice-backend/internal/models"

// ComputeMonthlyReports rolls up the invoices issued in year by month.
// Months without invoices are left out; the result is in month order.
func ComputeMonthlyReports(invoices []models.Invoice, year int) []models.MonthlyReport {
	var months [12]models.MonthlyReport
	var seen [12]bool

	for _, inv := range invoices {
		if inv.IssueDate.Year() != year {
			continue
		}
		idx := int(inv.IssueDate.Month()) - 1
		m := &months[idx]
		if !seen[idx] {
			seen[idx] = true
			m.Year = year
			m.Month = idx + 1
		}

		m.InvoiceCount++
		m.TotalAmount = m.TotalAmount.Add(inv.Total)
		switch classify(inv.Status) {
		case bucketPaid:
			m.PaidCount++
			m.PaidAmount = m.PaidAmount.Add(inv.Total)
		case bucketVoided:
			m.VoidedCount++
			m.VoidedAmount = m.VoidedAmount.Add(inv.Total)
		default:
			m.UnpaidCount++
			m.UnpaidAmount = m.UnpaidAmount.Add(inv.Total)
		}
	}

	reports := make([]models.MonthlyReport, 0, 12)
	for i := range months {
		if seen[i] {
			reports = append(reports, months[i])
		}
	}
	return reports
}
