package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invoice-backend/internal/handlers"
	"invoice-backend/internal/middleware"
)

// Handlers groups everything NewRouter mounts
type Handlers struct {
	Customer *handlers.CustomerHandler
	Invoice  *handlers.InvoiceHandler
	Report   *handlers.ReportHandler
	Template *handlers.TemplateSettingsHandler
	Payment  *handlers.PaymentHandler
	Health   *handlers.HealthHandler
}

func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Probes and metrics (no authentication)
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Gateway webhook - authenticated by signature, not by token
	r.HandleFunc("/api/payments/webhook", h.Payment.HandleWebhook).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Customers
	api.HandleFunc("/customers", h.Customer.ListCustomers).Methods("GET")
	api.HandleFunc("/customers", h.Customer.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers/{id}", h.Customer.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}", h.Customer.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id}", h.Customer.DeleteCustomer).Methods("DELETE")

	// Invoices - /limit before /{id}
	api.HandleFunc("/invoices", h.Invoice.ListInvoices).Methods("GET")
	api.HandleFunc("/invoices", h.Invoice.CreateInvoice).Methods("POST")
	api.HandleFunc("/invoices/limit", h.Invoice.GetLimit).Methods("GET")
	api.HandleFunc("/invoices/{id}", h.Invoice.GetInvoice).Methods("GET")
	api.HandleFunc("/invoices/{id}", h.Invoice.DeleteInvoice).Methods("DELETE")
	api.HandleFunc("/invoices/{id}/status", h.Invoice.UpdateStatus).Methods("PATCH")
	api.HandleFunc("/invoices/{id}/payment-link", h.Invoice.CreatePaymentLink).Methods("POST")
	api.HandleFunc("/invoices/{id}/send", h.Invoice.SendInvoice).Methods("POST")
	api.HandleFunc("/invoices/{id}/pdf", h.Invoice.DownloadPDF).Methods("GET")

	// Reports
	api.HandleFunc("/reports/dashboard", h.Report.Dashboard).Methods("GET")
	api.HandleFunc("/reports/monthly", h.Report.Monthly).Methods("GET")

	// Template settings
	api.HandleFunc("/settings/template", h.Template.Get).Methods("GET")
	api.HandleFunc("/settings/template", h.Template.Save).Methods("PUT")
	api.HandleFunc("/settings/template/switch", h.Template.Switch).Methods("POST")

	return r
}
