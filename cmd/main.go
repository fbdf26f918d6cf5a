package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"loan-intake/internal/api"
	"loan-intake/internal/batch"
	"loan-intake/internal/config"
	"loan-intake/internal/domain/applicant"
	"loan-intake/internal/domain/audit"
	"loan-intake/internal/domain/loan"
	"loan-intake/internal/event"
	"loan-intake/internal/infrastructure/cache"
	"loan-intake/internal/infrastructure/database/postgres"
	"loan-intake/internal/infrastructure/logging"
	"loan-intake/internal/infrastructure/storage"
)

type components struct {
	intake      loan.IntakeService
	docs        *storage.DiskStore
	appRepo     *postgres.ApplicationRepository
	publisher   event.EventPublisher
	amqpConn    *amqp.Connection
	redis       *redis.Client
	orphanSweep *batch.OrphanDocumentJob
}

// @title Loan Intake API
// @version 1.0
// @description Loan application intake, loan calculators and the admin status workflow.
// @contact.name Loan Intake Support
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token from /auth/token.
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	c := initializeServices(cfg, dbPool, logger)
	defer closeConnections(c, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cronScheduler := startBatchJobs(cfg, logger, c.orphanSweep)

	var rdb redis.Cmdable
	if c.redis != nil {
		rdb = c.redis
	}
	router := api.SetupRouter(ctx, c.intake, rdb, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed(), "environment", cfg.App.Environment)

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}

	if cfg.Database.Migrate {
		if err := postgres.RunMigrations(dbPool, logger); err != nil {
			logger.Error("Failed to migrate database schema", "error", err)
			dbPool.Close()
			os.Exit(1)
		}
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

func initializeServices(cfg *config.Config, dbPool *pgxpool.Pool, logger *slog.Logger) *components {
	logger.Info("Initializing application components...")
	c := &components{}

	docs, err := storage.NewDiskStore(cfg.Storage.UploadDir, logger)
	if err != nil {
		logger.Error("Failed to initialize document store", "error", err)
		os.Exit(1)
	}
	c.docs = docs

	c.publisher, c.amqpConn = initializePublisher(cfg.RabbitMQ, logger)
	c.redis = initializeRedis(cfg.Redis, logger)

	applicantRepo := postgres.NewApplicantRepository(dbPool, logger)
	c.appRepo = postgres.NewApplicationRepository(dbPool, logger)
	auditRepo := postgres.NewAuditRepository(dbPool, logger)

	applicantService := applicant.NewApplicantService(applicantRepo, cfg.Intake.ApplicantUpsert, logger)
	trail := audit.NewTrailManager(auditRepo, logger)

	c.intake = loan.NewIntakeService(
		c.appRepo,
		applicantService,
		trail,
		docs,
		loan.NewValidator(cfg.Storage.MaxFileBytes),
		c.publisher,
		loan.Options{
			EnforceTransitions: cfg.Intake.EnforceTransitions,
			StorageTimeout:     cfg.Intake.StorageTimeout,
		},
		logger,
	)
	c.orphanSweep = batch.NewOrphanDocumentJob(c.appRepo, docs, cfg.Batch.OrphanGracePeriod, logger)
	return c
}

// initializePublisher falls back to logging events when the broker is
// disabled or unreachable; submissions never depend on it.
func initializePublisher(cfg config.RabbitMQConfig, logger *slog.Logger) (event.EventPublisher, *amqp.Connection) {
	if !cfg.Enabled {
		logger.Info("RabbitMQ disabled, domain events will only be logged")
		return event.NewLogPublisher(logger), nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		logger.Warn("Failed to connect to RabbitMQ, domain events will only be logged", "error", err)
		return event.NewLogPublisher(logger), nil
	}

	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.ExchangeName, logger)
	if err != nil {
		logger.Warn("Failed to initialize RabbitMQ publisher, domain events will only be logged", "error", err)
		conn.Close()
		return event.NewLogPublisher(logger), nil
	}
	logger.Info("RabbitMQ publisher ready", "exchange", cfg.ExchangeName)
	return publisher, conn
}

func initializeRedis(cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	if !cfg.Enabled {
		logger.Info("Redis disabled, Idempotency-Key headers are ignored")
		return nil
	}
	rdb, err := cache.OpenRedis(cfg.Addr, cfg.DB)
	if err != nil {
		logger.Error("Failed to connect to Redis", "addr", cfg.Addr, "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Redis", "addr", cfg.Addr, "db", cfg.DB)
	return rdb
}

func closeConnections(c *components, logger *slog.Logger) {
	if c.amqpConn != nil {
		logger.Info("Closing RabbitMQ connection...")
		if err := c.amqpConn.Close(); err != nil {
			logger.Warn("Failed to close RabbitMQ connection", "error", err)
		}
	}
	if c.redis != nil {
		logger.Info("Closing Redis client...")
		if err := c.redis.Close(); err != nil {
			logger.Warn("Failed to close Redis client", "error", err)
		}
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, sweep *batch.OrphanDocumentJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.OrphanSweepSchedule
	if scheduleSpec == "" {
		scheduleSpec = "0 3 * * *"
		logger.Warn("Orphan document sweep schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.OrphanSweepTimeout
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Minute
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "OrphanDocumentSweep")
		jobLogger.Info("Cron triggered: Running orphan document sweep.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := sweep.Run(ctx); runErr != nil {
			jobLogger.Error("Orphan document sweep finished with error", slog.Any("error", runErr))
		}
	}))
	if err != nil {
		logger.Error("Failed to schedule orphan document sweep", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled orphan document sweep", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func setupLogger(cfg config.LoggerConfig) *slog.Logger {
	return logging.NewLogger(cfg)
}
