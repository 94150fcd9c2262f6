package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"growthcheck/internal/config"
	"growthcheck/internal/database"
	"growthcheck/internal/handlers"
	"growthcheck/internal/repository"
	"growthcheck/internal/security"
	"growthcheck/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	caregiverRepo := repository.NewCaregiverRepository(db)
	childRepo := repository.NewChildRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)

	// Initialize notifiers
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	alertPublisher := service.NewAlertPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, cfg.Debug)
	defer alertPublisher.Close()

	// Initialize services
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.TokenDuration)
	authService := service.NewAuthService(caregiverRepo, tokens)
	childService := service.NewChildService(childRepo, measurementRepo)
	growthService := service.NewGrowthService(childService, measurementRepo, caregiverRepo, emailService, alertPublisher)

	// Initialize handlers
	limiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	defer limiter.Stop()

	middleware := handlers.NewMiddleware(authService, limiter)
	handler := handlers.NewRouter(
		middleware,
		handlers.NewAuthHandler(authService),
		handlers.NewChildHandler(childService, growthService),
		handlers.NewGrowthHandler(),
		db.PingContext,
	)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}
