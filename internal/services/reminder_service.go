package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"invoice-backend/internal/billing"
	"invoice-backend/internal/metrics"
	"invoice-backend/internal/models"
	"invoice-backend/internal/timeutil"

	"github.com/robfig/cron"
)

// ReminderService periodically moves past-due invoices to overdue and
// emails their customers
type ReminderService struct {
	Invoices InvoiceStore
	Mailer   Mailer
	Cache    StatsCache
	Location *time.Location

	cron *cron.Cron
	mu   sync.Mutex // serializes runs
}

// ReminderRun summarizes one pass
type ReminderRun struct {
	MarkedOverdue int64
	RemindersSent int
	Failures      int
}

func NewReminderService(invoices InvoiceStore, mailer Mailer, cache StatsCache, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{
		Invoices: invoices,
		Mailer:   mailer,
		Cache:    cache,
		Location: loc,
		cron:     cron.NewWithLocation(loc),
	}
}

// Start schedules RunOnce on a six field cron spec (seconds first)
func (s *ReminderService) Start(schedule string) error {
	err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.RunOnce(ctx, time.Now()); err != nil {
			log.Printf("[Reminders] run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	log.Printf("[Reminders] Scheduled with %q", schedule)
	return nil
}

func (s *ReminderService) Stop() {
	s.cron.Stop()
}

// RunOnce marks sent invoices due before today as overdue, then emails a
// reminder for every overdue invoice
func (s *ReminderService) RunOnce(ctx context.Context, now time.Time) (ReminderRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var run ReminderRun
	today := timeutil.CalendarDate(now, s.Location)

	marked, err := s.Invoices.MarkOverdue(ctx, today)
	if err != nil {
		metrics.ReminderRuns.WithLabelValues("error").Inc()
		return run, fmt.Errorf("mark overdue: %w", err)
	}
	run.MarkedOverdue = marked

	overdue, err := s.Invoices.ListOverdue(ctx)
	if err != nil {
		metrics.ReminderRuns.WithLabelValues("error").Inc()
		return run, fmt.Errorf("list overdue: %w", err)
	}

	tenants := map[string]bool{}
	for i := range overdue {
		tenants[overdue[i].UserID] = true
	}
	if marked > 0 {
		for userID := range tenants {
			s.Cache.InvalidateTenant(ctx, userID)
		}
	}

	if !s.Mailer.Enabled() {
		log.Printf("[Reminders] %d marked overdue, email disabled", marked)
		metrics.ReminderRuns.WithLabelValues("ok").Inc()
		return run, nil
	}

	for i := range overdue {
		inv := &overdue[i]
		if inv.CustomerEmail == "" {
			continue
		}
		if err := s.Mailer.Send(ctx, reminderEmail(inv, today)); err != nil {
			log.Printf("[Reminders] failed to remind %s: %v", inv.InvoiceNumber, err)
			metrics.EmailsSent.WithLabelValues("reminder", "error").Inc()
			run.Failures++
			continue
		}
		metrics.EmailsSent.WithLabelValues("reminder", "ok").Inc()
		run.RemindersSent++
	}

	log.Printf("[Reminders] %d marked overdue, %d reminders sent, %d failed", run.MarkedOverdue, run.RemindersSent, run.Failures)
	metrics.ReminderRuns.WithLabelValues("ok").Inc()
	return run, nil
}

func reminderEmail(inv *models.InvoiceWithCustomer, today time.Time) models.Email {
	days := int(today.Sub(inv.DueDate).Hours() / 24)
	body := fmt.Sprintf("Hi %s,\n\nInvoice %s for %s was due on %s (%d days ago).\n",
		inv.CustomerName, inv.InvoiceNumber, billing.FormatMoney(inv.Total, inv.Currency),
		inv.DueDate.Format(timeutil.DisplayLayout), days)
	if inv.PaymentLink != "" {
		body += "\nPay online: " + inv.PaymentLink + "\n"
	}
	return models.Email{
		To:      inv.CustomerEmail,
		Subject: fmt.Sprintf("Reminder: invoice %s is overdue", inv.InvoiceNumber),
		Body:    body,
	}
}
