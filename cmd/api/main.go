package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/salon-api/internal/config"
	"github.com/jwalitptl/salon-api/internal/email"
	"github.com/jwalitptl/salon-api/internal/handler"
	adminHandler "github.com/jwalitptl/salon-api/internal/handler/admin"
	authHandler "github.com/jwalitptl/salon-api/internal/handler/auth"
	bookingHandler "github.com/jwalitptl/salon-api/internal/handler/booking"
	catalogHandler "github.com/jwalitptl/salon-api/internal/handler/catalog"
	salonHandler "github.com/jwalitptl/salon-api/internal/handler/salon"
	"github.com/jwalitptl/salon-api/internal/middleware"
	"github.com/jwalitptl/salon-api/internal/repository/postgres"
	"github.com/jwalitptl/salon-api/internal/router"
	authService "github.com/jwalitptl/salon-api/internal/service/auth"
	bookingService "github.com/jwalitptl/salon-api/internal/service/booking"
	catalogService "github.com/jwalitptl/salon-api/internal/service/catalog"
	eventService "github.com/jwalitptl/salon-api/internal/service/event"
	salonService "github.com/jwalitptl/salon-api/internal/service/salon"
	"github.com/jwalitptl/salon-api/pkg/auth"
	"github.com/jwalitptl/salon-api/pkg/clock"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
	"github.com/jwalitptl/salon-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("salonapi", "api")
	clk := clock.System()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	salonRepo := postgres.NewSalonRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Shared infrastructure
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)
	emailSvc := email.NewSMTPService(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	eventSvc := eventService.NewService(outboxRepo, appLogger)

	// Services
	authSvc := authService.NewService(userRepo, tokenRepo, jwtSvc, hasher, emailSvc, clk, appLogger, cfg.PasswordResetURL)
	salonSvc := salonService.NewService(salonRepo, clk, appLogger)
	salonAdminSvc := salonService.NewAdminService(salonRepo, userRepo, emailSvc, eventSvc, appLogger, salonSvc)
	catalogSvc := catalogService.NewService(serviceRepo, salonRepo, clk, appLogger)
	bookingSvc := bookingService.NewService(bookingRepo, salonRepo, serviceRepo, userRepo, emailSvc, eventSvc, clk, appLogger, appMetrics)

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	h := handler.NewHandler()
	authH := authHandler.NewHandler(authSvc)
	salonH := salonHandler.NewHandler(salonSvc)
	catalogH := catalogHandler.NewHandler(catalogSvc)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	adminH := adminHandler.NewHandler(salonAdminSvc)

	routerConfig := router.RouterConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSConfig:     middleware.DefaultCORSConfig(),
		MetricsPrefix:  "salonapi",
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerConfig.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(authMiddleware, authH, salonH, catalogH, bookingH, adminH, h, routerConfig)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}
