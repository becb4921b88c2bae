package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mentorat/leads-api/internal/config"
	"github.com/mentorat/leads-api/internal/database"
	"github.com/mentorat/leads-api/internal/handler"
	"github.com/mentorat/leads-api/internal/logging"
	"github.com/mentorat/leads-api/internal/middleware"
	"github.com/mentorat/leads-api/internal/models"
	"github.com/mentorat/leads-api/internal/repository"
	"github.com/mentorat/leads-api/internal/router"
	"github.com/mentorat/leads-api/internal/service"
	"github.com/mentorat/leads-api/internal/validation"
	"github.com/mentorat/leads-api/pkg/resend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	leadLogger := logging.New()

	// Missing secrets are reported per-request by the service's cold-start
	// check, so collaborators are only constructed when configured.
	var repo repository.LeadRepository
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}

		if err := db.AutoMigrate(&models.Lead{}); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		repo = repository.NewLeadRepository(db)
	}

	var sender resend.Sender
	if cfg.ResendAPIKey != "" {
		client, err := resend.New(resend.Config{APIKey: cfg.ResendAPIKey}, logger)
		if err != nil {
			log.Fatalf("failed to create resend client: %v", err)
		}
		sender = client
	}

	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		limiterStorage = middleware.NewRedisStorage(redisClient)
	}

	validate := validation.New()

	leadService := service.NewLeadService(repo, sender, validate, leadLogger, cfg)
	leadHandler := handler.NewLeadHandler(leadService, leadLogger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		LeadHandler: leadHandler,
		RateLimit:   middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow, limiterStorage),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
