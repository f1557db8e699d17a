package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/loan-ops/internal/cache"
	"github.com/segyhp/loan-ops/internal/config"
	"github.com/segyhp/loan-ops/internal/domain"
	"github.com/segyhp/loan-ops/internal/repository"
	"github.com/segyhp/loan-ops/internal/service"
	"github.com/segyhp/loan-ops/pkg/logger"
	"github.com/segyhp/loan-ops/pkg/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
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
	logr = logr.Named("scheduler")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logr.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// The sweep still runs without redis; results are just not cached
	var store service.Cache
	redisClient, err := cache.OpenRedis(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logr.Warn("redis unavailable, running without cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		store = cache.NewStore(redisClient, "loanops:")
	}

	clock := utils.SystemClock{Location: cfg.Location()}
	remittanceService := service.NewRemittanceService(
		repository.NewRemittanceRepository(db),
		repository.NewLoanRepository(db),
		store,
		clock,
		cfg,
		logr,
	)

	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.Location()))

	if err := setupCronJobs(c, cfg, remittanceService, logr); err != nil {
		logr.Fatal("failed to schedule jobs", zap.Error(err))
	}

	c.Start()
	logr.Info("scheduler started", zap.String("sweep_spec", cfg.Scheduler.SweepSpec))

	// outside production run one sweep immediately so it can be observed
	if !cfg.IsProduction() {
		for _, entry := range c.Entries() {
			go entry.Job.Run()
		}
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down scheduler")
	<-c.Stop().Done()
	logr.Info("scheduler stopped")
}

type sweeper interface {
	SweepOutstanding(ctx context.Context) ([]domain.OutstandingRemittance, error)
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, svc sweeper, logr *zap.Logger) error {
	// Weekday morning sweep for CSOs blocked on yesterday's remittance
	_, err := c.AddFunc(cfg.Scheduler.SweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		blocked, err := svc.SweepOutstanding(ctx)
		if err != nil {
			logr.Error("remittance sweep failed", zap.Error(err))
			return
		}
		logr.Info("remittance sweep complete", zap.Int("blocked_csos", len(blocked)))
	})
	return err
}
