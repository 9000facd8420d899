package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pontoflow/pontoflow-backend/internal/auth/jwt"
	"github.com/pontoflow/pontoflow-backend/internal/backoffice/events"
	"github.com/pontoflow/pontoflow-backend/internal/backoffice/handler"
	"github.com/pontoflow/pontoflow-backend/internal/backoffice/repository"
	"github.com/pontoflow/pontoflow-backend/internal/backoffice/service"
	"github.com/pontoflow/pontoflow-backend/pkg/config"
	"github.com/pontoflow/pontoflow-backend/pkg/database"
	"github.com/pontoflow/pontoflow-backend/pkg/httputil"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
	"github.com/pontoflow/pontoflow-backend/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.Load("backoffice-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("backoffice-service", cfg.Server.Environment)
	log.Info().Msg("starting Backoffice Service")

	// Connect to database. The backoffice role carries BYPASSRLS so
	// cross-tenant joins see every company's rows.
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewBackofficeEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	adminRepo := repository.NewAdminRepository(db)
	companyRepo := repository.NewCompanyAdminRepository(db)

	// Initialize JWT manager
	jwtManager := jwt.NewManager(&cfg.JWT)

	// Initialize services
	authService := service.NewAdminAuthService(adminRepo, jwtManager, log)
	companyService := service.NewCompanyAdminService(companyRepo, publisher, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	companyHandler := handler.NewCompanyHandler(companyService, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3001", "https://admin.pontoflow.com.br"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "backoffice-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// Public auth routes
	r.Post("/api/v1/auth/login", authHandler.Login)

	// Admin routes (admin token required)
	r.Route("/api/v1/backoffice", func(r chi.Router) {
		r.Use(jwt.AdminAuth(jwtManager))

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", companyHandler.List)
			r.Get("/{id}", companyHandler.Get)
			r.Post("/{id}/block", companyHandler.Block)
			r.Post("/{id}/unblock", companyHandler.Unblock)
			r.Delete("/{id}", companyHandler.Delete)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
