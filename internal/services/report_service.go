package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"invoice-backend/internal/billing"
	"invoice-backend/internal/cache"
	"invoice-backend/internal/metrics"
	"invoice-backend/internal/models"
	"invoice-backend/internal/timeutil"
)

// ReportService handles dashboard and monthly report generation
type ReportService struct {
	Invoices InvoiceStore
	Cache    StatsCache
	TTL      time.Duration
	Location *time.Location
}

// NewReportService creates a new report service
func NewReportService(invoices InvoiceStore, c StatsCache, ttl time.Duration, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{Invoices: invoices, Cache: c, TTL: ttl, Location: loc}
}

// ResolveRange turns the dashboard query parameters into a range and a cache
// label. period takes precedence over from/to; nothing given means all time.
// "Now" is read in the billing location; the bounds are calendar days.
func (s *ReportService) ResolveRange(period, from, to string, now time.Time) (billing.DateRange, string, error) {
	local := now.In(s.Location)
	switch period {
	case "month":
		r := billing.MonthRange(local.Year(), local.Month(), time.UTC)
		return r, "month-" + local.Format("2006-01"), nil
	case "year":
		return billing.YearRange(local.Year(), time.UTC), fmt.Sprintf("year-%d", local.Year()), nil
	case "", "all":
	default:
		return billing.DateRange{}, "", &billing.ValidationError{Field: "period", Reason: "must be month, year or all"}
	}

	var r billing.DateRange
	var err error
	if from != "" {
		if r.Start, err = timeutil.ParseDate(from, nil); err != nil {
			return r, "", &billing.ValidationError{Field: "from", Reason: "must be YYYY-MM-DD"}
		}
	}
	if to != "" {
		if r.End, err = timeutil.ParseDate(to, nil); err != nil {
			return r, "", &billing.ValidationError{Field: "to", Reason: "must be YYYY-MM-DD"}
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return r, "", &billing.ValidationError{Field: "to", Reason: "must not be before from"}
	}
	if from == "" && to == "" {
		return r, "all", nil
	}
	return r, from + "_" + to, nil
}

// DashboardStats returns cached stats for the range, computing them on a miss
func (s *ReportService) DashboardStats(ctx context.Context, userID string, r billing.DateRange, label string) (models.DashboardStats, error) {
	key := cache.DashboardKey(userID, label)
	var stats models.DashboardStats
	if s.lookup(ctx, key, &stats) {
		return stats, nil
	}

	invoices, err := s.Invoices.List(ctx, userID, models.InvoiceFilter{From: r.Start, To: r.End})
	if err != nil {
		return stats, fmt.Errorf("list invoices: %w", err)
	}
	stats = billing.ComputeDashboardStats(invoices, r)
	s.store(ctx, key, stats)
	return stats, nil
}

// CurrentMonthStats is DashboardStats for the calendar month containing now
func (s *ReportService) CurrentMonthStats(ctx context.Context, userID string, now time.Time) (models.DashboardStats, error) {
	r, label, _ := s.ResolveRange("month", "", "", now)
	return s.DashboardStats(ctx, userID, r, label)
}

// MonthlyReports returns one entry per month of year that has invoices
func (s *ReportService) MonthlyReports(ctx context.Context, userID string, year int) ([]models.MonthlyReport, error) {
	key := cache.MonthlyKey(userID, year)
	var reports []models.MonthlyReport
	if s.lookup(ctx, key, &reports) {
		return reports, nil
	}

	r := billing.YearRange(year, time.UTC)
	invoices, err := s.Invoices.List(ctx, userID, models.InvoiceFilter{From: r.Start, To: r.End})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	reports = billing.ComputeMonthlyReports(invoices, year)
	s.store(ctx, key, reports)
	return reports, nil
}

// MonthlyReportsCSV exports MonthlyReports as CSV
func (s *ReportService) MonthlyReportsCSV(ctx context.Context, userID string, year int) ([]byte, error) {
	reports, err := s.MonthlyReports(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"Year", "Month", "Invoices",
		"Paid", "Paid Amount", "Unpaid", "Unpaid Amount", "Voided", "Voided Amount", "Total Amount",
	})
	for _, m := range reports {
		w.Write([]string{
			strconv.Itoa(m.Year),
			time.Month(m.Month).String(),
			strconv.Itoa(m.InvoiceCount),
			strconv.Itoa(m.PaidCount),
			m.PaidAmount.StringFixed(2),
			strconv.Itoa(m.UnpaidCount),
			m.UnpaidAmount.StringFixed(2),
			strconv.Itoa(m.VoidedCount),
			m.VoidedAmount.StringFixed(2),
			m.TotalAmount.StringFixed(2),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportService) lookup(ctx context.Context, key string, dest any) bool {
	data, ok := s.Cache.Get(ctx, key)
	if !ok {
		metrics.StatsCacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("[Reports] discarding unreadable cache entry %s: %v", key, err)
		metrics.StatsCacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	metrics.StatsCacheLookups.WithLabelValues("hit").Inc()
	return true
}

func (s *ReportService) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[Reports] failed to encode %s: %v", key, err)
		return
	}
	s.Cache.Set(ctx, key, data, s.TTL)
}
