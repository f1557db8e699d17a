package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/loan-ops/internal/cache"
	"github.com/segyhp/loan-ops/internal/config"
	"github.com/segyhp/loan-ops/internal/handler"
	"github.com/segyhp/loan-ops/internal/repository"
	"github.com/segyhp/loan-ops/internal/service"
	"github.com/segyhp/loan-ops/pkg/logger"
	"github.com/segyhp/loan-ops/pkg/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()
	if cfg.IsDevelopment() {
		logr = logr.WithOptions(zap.Development())
	}
	zap.ReplaceGlobals(logr)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logr.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis
	redisClient, err := cache.OpenRedis(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	store := cache.NewStore(redisClient, "loanops:")

	clock := utils.SystemClock{Location: cfg.Location()}

	// Initialize repositories
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	remittanceRepo := repository.NewRemittanceRepository(db)

	// Initialize services
	loanService := service.NewLoanService(loanRepo, paymentRepo, store, clock, cfg, logr.Named("loans"))
	remittanceService := service.NewRemittanceService(remittanceRepo, loanRepo, store, clock, cfg, logr.Named("remittances"))

	router := handler.NewRouter(
		handler.NewLoanHandler(loanService, logr),
		handler.NewRemittanceHandler(remittanceService, logr),
		handler.NewHealthHandler(cfg.GetHealthTimeout(),
			handler.Check{Name: "database", Ping: db.PingContext},
			handler.Check{Name: "redis", Ping: store.Ping},
		),
		logr,
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		logr.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logr.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}
