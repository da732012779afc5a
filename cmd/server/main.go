package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice-backend/internal/auth"
	"invoice-backend/internal/cache"
	"invoice-backend/internal/config"
	"invoice-backend/internal/database"
	"invoice-backend/internal/db"
	h "invoice-backend/internal/http"
	"invoice-backend/internal/handlers"
	"invoice-backend/internal/health"
	"invoice-backend/internal/mailer"
	"invoice-backend/internal/middleware"
	"invoice-backend/internal/repositories"
	"invoice-backend/internal/services"
	"invoice-backend/internal/storage"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	noReminders := flag.Bool("no-reminders", false, "Disable the overdue reminder scheduler")
	skipMigrations := flag.Bool("skip-migrations", false, "Do not apply pending schema migrations on startup")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT secret is required (JWT_SECRET)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer pool.Close()

	if !*skipMigrations {
		if err := database.NewMigrator(pool).RunMigrations(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	statsCache, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("[Redis] Unavailable, caching disabled: %v", err)
	} else if statsCache.Enabled() {
		log.Println("[Redis] Connected")
	}
	defer statsCache.Close()

	uploader, err := storage.NewUploader(ctx, cfg)
	if err != nil {
		log.Fatalf("Object storage setup failed: %v", err)
	}
	if !uploader.Enabled() {
		log.Println("[Storage] No bucket configured, invoice PDFs will not be archived")
	}

	smtp := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	if !smtp.Enabled() {
		log.Println("[Mail] No SMTP host configured, email delivery disabled")
	}

	gateway := services.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret, cfg.Razorpay.CallbackURL)
	if !gateway.Enabled() {
		log.Println("[Payments] Razorpay keys not set, payment links disabled")
	}

	loc := cfg.Location()

	// Repositories
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	profileRepo := repositories.NewProfileRepository(pool)

	// Services
	customerService := services.NewCustomerService(customerRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, customerRepo, profileRepo, statsCache, services.InvoiceConfig{
		FreeInvoiceLimit: cfg.Billing.FreeInvoiceLimit,
		DefaultCurrency:  cfg.Billing.DefaultCurrency,
		DefaultDueDays:   cfg.Billing.DefaultDueDays,
		Location:         loc,
	})
	reportService := services.NewReportService(invoiceRepo, statsCache, cfg.Billing.StatsCacheTTL, loc)
	templateService := services.NewTemplateService(profileRepo)
	paymentService := services.NewPaymentLinkService(invoiceRepo, gateway, statsCache)
	deliveryService := services.NewDeliveryService(invoiceRepo, profileRepo, templateService,
		services.NewInvoiceRenderer(), uploader, smtp, statsCache)
	reminderService := services.NewReminderService(invoiceRepo, smtp, statsCache, loc)

	if !*noReminders {
		if err := reminderService.Start(cfg.Billing.ReminderSchedule); err != nil {
			log.Fatalf("Reminder scheduler failed: %v", err)
		}
		defer reminderService.Stop()
	}

	// Handlers
	router := h.NewRouter(h.Handlers{
		Customer: handlers.NewCustomerHandler(customerService),
		Invoice:  handlers.NewInvoiceHandler(invoiceService, paymentService, deliveryService),
		Report:   handlers.NewReportHandler(reportService),
		Template: handlers.NewTemplateSettingsHandler(templateService),
		Payment:  handlers.NewPaymentHandler(paymentService),
		Health:   handlers.NewHealthHandler(health.NewHealthChecker(pool, statsCache)),
	}, middleware.NewAuthMiddleware(auth.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)))

	corsMiddleware := middleware.NewCORS(cfg)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           middleware.PanicRecovery(corsMiddleware(router)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
