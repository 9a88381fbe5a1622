// Package leads provides the lead management bounded context module.
// This file defines the module that wires storage, scoring and the service.
package leads

import (
	"context"
	"fmt"

	"storefront_backend/internal/events"
	"storefront_backend/internal/leads/repository"
	"storefront_backend/internal/leads/scoring"
	"storefront_backend/internal/leads/service"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Config is the configuration the leads module reads.
type Config interface {
	config.StoreConfig
	config.RedisConfig
	config.ScoringConfig
	config.PhoneConfig
}

// Module is the leads bounded context module.
type Module struct {
	service *service.Service
	store   *repository.JSONStore
	redis   *redis.Client
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(cfg Config, eventBus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	engine, err := loadEngine(cfg.GetScoringRulesPath())
	if err != nil {
		return nil, err
	}

	store := repository.NewJSONStore(cfg.GetLeadsPath(), cfg.GetActivityPath(), cfg.GetActivityLogLimit())

	var activity repository.ActivityLogger = store
	var client *redis.Client
	if cfg.GetActivityBackend() == "redis" {
		client, err = newRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		activity = repository.NewRedisActivityLog(client, repository.DefaultActivityKey, cfg.GetActivityLogLimit())
	}

	// Promotions are worth a line in the log even when nobody else listens.
	eventBus.Subscribe(events.LeadPromoted{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadPromoted)
		if !ok {
			return nil
		}
		log.WithContext(ctx).Debug("hot lead ready for outreach", "leadId", e.LeadID, "company", e.Company)
		return nil
	}))

	svc := service.New(store, activity, eventBus, val, log, service.Options{
		Engine:      engine,
		PhoneRegion: cfg.GetDefaultPhoneRegion(),
	})

	log.Debug("leads module initialized", "leads", cfg.GetLeadsPath(), "activity", cfg.GetActivityBackend(), "rules", engine.Version())

	return &Module{service: svc, store: store, redis: client}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service.
func (m *Module) Service() *service.Service {
	return m.service
}

// Close releases the Redis connection when one was opened.
func (m *Module) Close() error {
	if m.redis == nil {
		return nil
	}
	return m.redis.Close()
}

func loadEngine(path string) (*scoring.Engine, error) {
	if path == "" {
		return scoring.Default(), nil
	}
	rules, err := scoring.LoadRules(path)
	if err != nil {
		return nil, err
	}
	return scoring.NewEngine(rules)
}

func newRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, fmt.Sprintf("invalid REDIS_URL %q", cfg.GetRedisURL()), err).WithOp("leads.NewModule")
	}
	if opts.TLSConfig != nil && cfg.GetRedisTLSInsecure() {
		clone := opts.TLSConfig.Clone()
		clone.InsecureSkipVerify = true
		opts.TLSConfig = clone
	}
	return redis.NewClient(opts), nil
}
