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
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/config"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/email"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/handler"
	accessHandler "github.com/sergiokmpos/PersonalTrainerAgenda/internal/handler/access"
	bookingHandler "github.com/sergiokmpos/PersonalTrainerAgenda/internal/handler/booking"
	rosterHandler "github.com/sergiokmpos/PersonalTrainerAgenda/internal/handler/roster"
	scheduleHandler "github.com/sergiokmpos/PersonalTrainerAgenda/internal/handler/schedule"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/middleware"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/repository/csvstore"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/router"
	accessService "github.com/sergiokmpos/PersonalTrainerAgenda/internal/service/access"
	bookingService "github.com/sergiokmpos/PersonalTrainerAgenda/internal/service/booking"
	rosterService "github.com/sergiokmpos/PersonalTrainerAgenda/internal/service/roster"
	scheduleService "github.com/sergiokmpos/PersonalTrainerAgenda/internal/service/schedule"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/auth"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/logger"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/metrics"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/security"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.Log.Level)

	m := metrics.NewMetrics("agenda")

	// Initialize repositories
	studentRepo := csvstore.NewStudentRepository(cfg.Storage.StudentsFile).WithMetrics(m)
	bookingRepo := csvstore.NewBookingRepository(cfg.Storage.BookingsFile).WithMetrics(m)

	// Initialize services
	emailSvc := email.NewService(cfg.Email)
	scheduleSvc := scheduleService.NewService(bookingRepo, cfg.Schedule)
	bookingSvc := bookingService.NewService(bookingRepo, studentRepo, cfg.Schedule, emailSvc, scheduleSvc, m)
	rosterSvc := rosterService.NewService(studentRepo, bookingRepo, scheduleSvc, m)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	accessSvc := accessService.NewService(cfg.Access, hasher, jwtSvc, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	// Initialize handlers
	h := handler.NewHandler()
	accessH := accessHandler.NewHandler(accessSvc)
	rosterH := rosterHandler.NewHandler(rosterSvc)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	scheduleH := scheduleHandler.NewHandler(scheduleSvc)

	// Setup router
	r := router.NewRouter(authMiddleware, accessH, rosterH, bookingH, scheduleH, h, router.RouterConfig{
		RateLimit:     rate.Limit(cfg.RateLimit.RPS),
		RateBurst:     cfg.RateLimit.Burst,
		MetricsPrefix: "agenda",
	})
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
