package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"familycheckin/config"
	_ "familycheckin/docs"
	"familycheckin/internal/adapters/auth"
	"familycheckin/internal/adapters/email"
	httpdelivery "familycheckin/internal/delivery/http"
	"familycheckin/internal/delivery/http/controllers"
	"familycheckin/internal/delivery/http/middleware"
	"familycheckin/internal/repository/postgres"
	"familycheckin/internal/services"
)

// @title Family Check-In API
// @version 1.0
// @description Event check-in kiosk: family lookup, check-in with pickup codes, and checkout.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Staff token from POST /auth/staff, as "Bearer <token>".
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.PingContext(startCtx); err != nil {
		cancelStart()
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(startCtx, db); err != nil {
		cancelStart()
		logger.Error("migrate database", "err", err)
		os.Exit(1)
	}
	cancelStart()

	// Repositories
	personRepo := postgres.NewPersonRepository(db)
	familyRepo := postgres.NewFamilyRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	pickupCodeRepo := postgres.NewPickupCodeRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)
	auditLog := postgres.NewAuditLogRepository(db)

	// Adapters
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	pinHasher := auth.NewBcryptPinHasher(bcrypt.DefaultCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	// Services
	timeout := cfg.RequestTimeout
	eventService := services.NewEventService(eventRepo, attendanceRepo, pickupCodeRepo, auditLog, logger, timeout)
	checkInService := services.NewCheckInService(personRepo, familyRepo, attendanceRepo, pickupCodeRepo, eventService, auditLog, logger, cfg.PickupCodeMaxAttempts, timeout)
	checkoutService := services.NewCheckoutService(pickupCodeRepo, personRepo, familyRepo, eventRepo, emailService, auditLog, logger, timeout)
	familyService := services.NewFamilyService(familyRepo, personRepo, auditLog, logger, timeout)
	personService := services.NewPersonService(personRepo, familyRepo, auditLog, logger, timeout)
	settingsService := services.NewSettingsService(orgRepo, auditLog, logger, timeout)
	staffAuthService := services.NewStaffAuthService(orgRepo, pinHasher, tokenIssuer, cfg.StaffTokenTTL, timeout)

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		CheckIn:   controllers.NewCheckInController(logger, checkInService),
		Checkout:  controllers.NewCheckoutController(logger, checkoutService),
		Family:    controllers.NewFamilyController(logger, familyService),
		Event:     controllers.NewEventController(logger, eventService),
		Person:    controllers.NewPersonController(logger, personService),
		Settings:  controllers.NewSettingsController(logger, settingsService),
		StaffAuth: controllers.NewStaffAuthController(logger, staffAuthService),
		Health:    controllers.NewHealthController(logger, db),
	}, middleware.RequireAuth(tokenVerifier, logger))

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	logger.Info("server stopped")
}
