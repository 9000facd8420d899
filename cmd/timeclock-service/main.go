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
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/consumers"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/events"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/handler"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/service"
	"github.com/pontoflow/pontoflow-backend/pkg/config"
	"github.com/pontoflow/pontoflow-backend/pkg/database"
	"github.com/pontoflow/pontoflow-backend/pkg/httputil"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
	"github.com/pontoflow/pontoflow-backend/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.Load("timeclock-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("timeclock-service", cfg.Server.Environment)
	log.Info().Msg("starting Timeclock Service")

	// Connect to database
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
	publisher, err := events.NewTimeclockEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	timeRecordRepo := repository.NewTimeRecordRepository(db)

	// Initialize JWT manager
	jwtManager := jwt.NewManager(&cfg.JWT)

	// Initialize services
	authService := service.NewAuthService(companyRepo, sessionRepo, jwtManager, publisher, log)
	employeeService := service.NewEmployeeService(employeeRepo, publisher, log)
	scheduleService := service.NewScheduleService(scheduleRepo, publisher, log)
	punchService := service.NewPunchService(timeRecordRepo, scheduleRepo, employeeRepo, publisher, log)
	reportService := service.NewReportService(timeRecordRepo, scheduleRepo, employeeRepo, log)
	exportService := service.NewExportService(reportService, companyRepo, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	employeeHandler := handler.NewEmployeeHandler(employeeService, log)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, log)
	punchHandler := handler.NewPunchHandler(punchService, log)
	reportHandler := handler.NewReportHandler(reportService, exportService, log)

	// Start company event consumer
	companyConsumer, err := consumers.NewCompanyEventConsumer(rmq, sessionRepo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create company event consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := companyConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start company event consumer")
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*.pontoflow.com.br"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "timeclock-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// Public auth routes
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Logout needs the session from the token
		r.Group(func(r chi.Router) {
			r.Use(jwt.CompanyAuth(jwtManager, authService))
			r.Post("/logout", authHandler.Logout)
		})
	})

	// Tenant routes (company token required)
	r.Route("/api/v1/timeclock", func(r chi.Router) {
		r.Use(jwt.CompanyAuth(jwtManager, authService))

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.List)
			r.Post("/", employeeHandler.Create)
			r.Get("/{id}", employeeHandler.Get)
			r.Patch("/{id}", employeeHandler.Update)
			r.Delete("/{id}", employeeHandler.Delete)

			r.Put("/{id}/punches", punchHandler.SetPunch)
			r.Get("/{id}/records", punchHandler.Day)
			r.Post("/{id}/recalculate", punchHandler.Recalculate)

			r.Get("/{id}/reports/daily", reportHandler.Daily)
			r.Get("/{id}/reports/weekly", reportHandler.Weekly)
			r.Get("/{id}/reports/monthly", reportHandler.Monthly)
			r.Get("/{id}/reports/monthly/pdf", reportHandler.MonthlyPDF)
			r.Get("/{id}/reports/range", reportHandler.Range)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", scheduleHandler.Week)
			r.Put("/", scheduleHandler.Upsert)
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

	// Cancel context to stop consumers
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
