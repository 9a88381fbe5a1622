package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront_backend/internal/events"
	"storefront_backend/internal/leads"
	"storefront_backend/internal/scheduler"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "schedule", cfg.GetFunnelSchedule())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GetRedisURL() == "" {
		log.Error("REDIS_URL is required for the scheduler")
		panic("REDIS_URL is required for the scheduler")
	}

	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		return pingRedis(ctx, cfg)
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	leadsModule, err := leads.NewModule(cfg, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}
	defer func() { _ = leadsModule.Close() }()

	periodic, err := scheduler.NewPeriodic(cfg, log)
	if err != nil {
		log.Error("failed to register funnel schedule", "error", err)
		panic("failed to register funnel schedule: " + err.Error())
	}
	go periodic.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, leadsModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
}

func pingRedis(ctx context.Context, cfg config.RedisConfig) error {
	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return err
	}
	client := redis.NewClient(opts)
	defer func() { _ = client.Close() }()

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return client.Ping(pingCtx).Err()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
