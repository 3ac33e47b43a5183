package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/DasunShanaka01/Patient-Management-System/internal/config"
	appointmentHandler "github.com/DasunShanaka01/Patient-Management-System/internal/handler/appointment"
	"github.com/DasunShanaka01/Patient-Management-System/internal/handler/health"
	patientHandler "github.com/DasunShanaka01/Patient-Management-System/internal/handler/patient"
	"github.com/DasunShanaka01/Patient-Management-System/internal/middleware"
	"github.com/DasunShanaka01/Patient-Management-System/internal/model"
	"github.com/DasunShanaka01/Patient-Management-System/internal/repository/postgres"
	"github.com/DasunShanaka01/Patient-Management-System/internal/router"
	appointmentService "github.com/DasunShanaka01/Patient-Management-System/internal/service/appointment"
	patientService "github.com/DasunShanaka01/Patient-Management-System/internal/service/patient"
	"github.com/DasunShanaka01/Patient-Management-System/pkg/logger"
	"github.com/DasunShanaka01/Patient-Management-System/pkg/messaging/redis"
	"github.com/DasunShanaka01/Patient-Management-System/pkg/metrics"
	"github.com/DasunShanaka01/Patient-Management-System/pkg/worker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:  logger.InfoLevel,
		Output: os.Stdout,
	})

	if err := model.RegisterValidations(); err != nil {
		appLogger.Fatal(err, "failed to register request validations")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Initialize services
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo)

	// Initialize handlers
	healthH := health.NewHandler(db)
	patientH := patientHandler.NewHandler(patientSvc, outboxRepo)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, outboxRepo)

	// Setup router
	r := router.NewRouter(healthH, patientH, appointmentH, router.Config{
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORSConfig:     middleware.DefaultCORSConfig(),
		MetricsPrefix:  "clinic_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Initialize Redis message broker
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &appLogger.ZL)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	// Initialize and start outbox processor with broker
	workerMetrics := metrics.New("clinic_outbox")
	if err := workerMetrics.Register(prometheus.DefaultRegisterer); err != nil {
		appLogger.Fatal(err, "failed to register outbox metrics")
	}
	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:       cfg.Outbox.BatchSize,
		PollInterval:    cfg.Outbox.PollInterval,
		RetryAttempts:   cfg.Outbox.RetryAttempts,
		RetryDelay:      cfg.Outbox.RetryDelay,
		RetentionPeriod: cfg.Outbox.RetentionPeriod,
		CleanupInterval: cfg.Outbox.CleanupInterval,
	}, appLogger, workerMetrics)

	processorCtx, stopProcessor := context.WithCancel(context.Background())
	go outboxProcessor.Start(processorCtx)

	// Start server
	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server...")

	stopProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal(err, "server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}
