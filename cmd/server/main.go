package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventcheckin/config"
	authadapter "eventcheckin/internal/adapters/auth"
	emailadapter "eventcheckin/internal/adapters/email"
	"eventcheckin/internal/adapters/qr"
	delivery "eventcheckin/internal/delivery/http"
	"eventcheckin/internal/delivery/http/controllers"
	"eventcheckin/internal/delivery/http/middleware"
	"eventcheckin/internal/monitoring"
	"eventcheckin/internal/repository/postgres"
	"eventcheckin/internal/services"
	"eventcheckin/internal/storage"
)

// @title Event Check-In API
// @version 1.0
// @description Event registration and QR check-in service.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	store, err := storage.New(storage.Config{
		Backend:   storage.Backend(cfg.StorageBackend),
		LocalPath: cfg.UploadDir,
		S3: storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKey,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to init storage", "err", err)
		os.Exit(1)
	}

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKey,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to init mailer", "err", err)
		os.Exit(1)
	}

	staffRepo := postgres.NewStaffRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	personRepo := postgres.NewPersonRepository(db)

	hasher := authadapter.NewBcryptHasher(0)
	issuer, verifier := authadapter.NewJWTTokens(cfg.JWTSecret)

	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	authService := services.NewAuthService(staffRepo, hasher, issuer, cfg.JWTExpiry, emailService)
	eventService := services.NewEventService(eventRepo, store)
	registrationService := services.NewRegistrationService(personRepo, eventRepo, qr.NewPNGEncoder())
	statsService := services.NewStatsService(personRepo, eventRepo)

	uploadsDir := ""
	if local, ok := store.(*storage.LocalStorage); ok {
		uploadsDir = local.BasePath()
	}

	mux := delivery.NewRouter(delivery.RouterConfig{
		Logger:           logger,
		TokenVerifier:    verifier,
		AuthController:   controllers.NewAuthController(logger, authService),
		EventController:  controllers.NewEventController(logger, eventService),
		PersonController: controllers.NewPersonController(logger, registrationService),
		StatsController:  controllers.NewStatsController(logger, statsService),
		UploadsDir:       uploadsDir,
	})

	handler := middleware.CORS(cfg.CORSOrigins,
		middleware.LoggingMiddleware(logger,
			monitoring.Instrument(mux)))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}
