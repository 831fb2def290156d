package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filternet/internal/app"
	"filternet/internal/config"
	"filternet/internal/database"
	"filternet/internal/handlers"
	"filternet/internal/repository"
	"filternet/internal/security"
	"filternet/internal/service"
	"filternet/internal/templates"
)

const (
	stepDatabase   = "Database connection"
	stepMigrations = "Running migrations"
	stepTemplates  = "Loading templates"
	stepServices   = "Initializing services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startup := handlers.NewStartup(stepDatabase, stepMigrations, stepTemplates, stepServices)

	// Initialize database with config (supports sqlite, postgres, mysql)
	startup.SetCurrentStep(stepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.CompleteStep(stepDatabase)

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	startup.SetCurrentStep(stepMigrations)
	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	startup.CompleteStep(stepMigrations)

	log.Println("Migrations completed successfully")

	startup.SetCurrentStep(stepTemplates)
	tmpl, err := templates.Load()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	startup.CompleteStep(stepTemplates)

	log.Println("Templates loaded successfully")

	// Initialize services
	startup.SetCurrentStep(stepServices)
	sealer, err := security.NewSealer(cfg.StorageSecret)
	if err != nil {
		log.Fatalf("Failed to initialize token sealing: %v", err)
	}
	if sealer == nil {
		log.Println("Warning: STORAGE_SECRET not set, session tokens are stored unsealed")
	}

	registry := app.NewRegistry(cfg, repository.NewKVRepository(db), sealer)

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	alertService := service.NewAlertService(emailService, cfg.AppName)

	googleSignIn := service.NewGoogleSignIn(cfg.GoogleClientID, cfg.GoogleClientSecret)
	if !cfg.GoogleConfigured() {
		log.Println("Google Client ID not configured, only demo sign-in is available")
		googleSignIn = nil
	}

	if cfg.MockMode {
		log.Printf("Mock mode enabled, backend calls are served from demo data (latency %s)", cfg.MockLatency)
	} else {
		log.Printf("Using backend %s", cfg.APIBaseURL)
	}

	// Initialize handlers
	if cfg.EphemeralCSRFSecret {
		log.Println("Warning: CSRF_SECRET not set, using a random secret for this process")
	}
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret, 12*time.Hour)
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(registry, csrf, limiter, cfg.CookieMaxAge)
	authHandler := handlers.NewAuthHandler(cfg, tmpl, middleware, googleSignIn)
	dashboardHandler := handlers.NewDashboardHandler(cfg, tmpl, middleware, alertService)
	startup.CompleteStep(stepServices)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.Router(middleware, authHandler, dashboardHandler, startup),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background cleanup
	go registry.Cleanup(ctx, 10*time.Minute, time.Hour)
	go limiter.Cleanup(ctx, 5*time.Minute)

	go func() {
		log.Printf("%s v%s starting on http://localhost%s", cfg.AppName, cfg.AppVersion, addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	startup.MarkReady()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Println("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
		os.Exit(1)
	}
}
