package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invoice_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	InvoicesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoice_invoices_created_total",
		Help: "Invoices created",
	})

	InvoiceLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoice_limit_rejections_total",
		Help: "Invoice creations refused by the free tier limit",
	})

	PaymentLinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoice_payment_links_created_total",
		Help: "Payment links issued",
	})

	PaymentWebhooks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_payment_webhooks_total",
			Help: "Payment webhook events received",
		},
		[]string{"event", "result"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_emails_sent_total",
			Help: "Invoice and reminder emails sent",
		},
		[]string{"kind", "result"},
	)

	ReminderRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_reminder_runs_total",
			Help: "Reminder job executions",
		},
		[]string{"result"},
	)

	StatsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_stats_cache_lookups_total",
			Help: "Report cache lookups",
		},
		[]string{"result"},
	)
)
