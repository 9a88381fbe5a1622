// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// StoreConfig provides settings for the lead store and activity log.
type StoreConfig interface {
	GetDataDir() string
	GetLeadsPath() string
	GetActivityPath() string
	GetActivityLogLimit() int
	GetActivityBackend() string
}

// RedisConfig provides the Redis connection used by the activity log and queue.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the asynq worker and scheduler.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetFunnelSchedule() string
}

// PricingConfig provides the shipping thresholds and coupon catalog location.
type PricingConfig interface {
	GetFreeShippingThreshold() float64
	GetShippingFlatRate() float64
	GetHeavyWeightKg() float64
	GetHeavyOrderSurcharge() float64
	GetCouponsPath() string
}

// ScoringConfig provides the optional scoring rule table location.
type ScoringConfig interface {
	GetScoringRulesPath() string
}

// PhoneConfig provides the default region for contact normalisation.
type PhoneConfig interface {
	GetDefaultPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	DataDir               string
	ActivityLogLimit      int
	ActivityBackend       string
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
	FunnelSchedule        string
	ScoringRulesPath      string
	CouponsPath           string
	FreeShippingThreshold float64
	ShippingFlatRate      float64
	HeavyWeightKg         float64
	HeavyOrderSurcharge   float64
	DefaultPhoneRegion    string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// StoreConfig implementation
func (c *Config) GetDataDir() string         { return c.DataDir }
func (c *Config) GetLeadsPath() string       { return filepath.Join(c.DataDir, "leads.json") }
func (c *Config) GetActivityPath() string    { return filepath.Join(c.DataDir, "activity.json") }
func (c *Config) GetActivityLogLimit() int   { return c.ActivityLogLimit }
func (c *Config) GetActivityBackend() string { return c.ActivityBackend }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) GetFunnelSchedule() string { return c.FunnelSchedule }

// PricingConfig implementation
func (c *Config) GetFreeShippingThreshold() float64 { return c.FreeShippingThreshold }
func (c *Config) GetShippingFlatRate() float64      { return c.ShippingFlatRate }
func (c *Config) GetHeavyWeightKg() float64         { return c.HeavyWeightKg }
func (c *Config) GetHeavyOrderSurcharge() float64   { return c.HeavyOrderSurcharge }
func (c *Config) GetCouponsPath() string {
	if c.CouponsPath != "" {
		return c.CouponsPath
	}
	return filepath.Join(c.DataDir, "coupons.json")
}

// ScoringConfig implementation
func (c *Config) GetScoringRulesPath() string { return c.ScoringRulesPath }

// PhoneConfig implementation
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		DataDir:               getEnv("DATA_DIR", "data"),
		ActivityLogLimit:      mustInt(getEnv("ACTIVITY_LOG_LIMIT", "100")),
		ActivityBackend:       strings.ToLower(getEnv("ACTIVITY_BACKEND", "file")),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE_NAME", "default"),
		AsynqConcurrency:      mustInt(getEnv("ASYNQ_CONCURRENCY", "4")),
		FunnelSchedule:        getEnv("FUNNEL_SCHEDULE", "@every 1h"),
		ScoringRulesPath:      getEnv("SCORING_RULES_PATH", ""),
		CouponsPath:           getEnv("COUPONS_PATH", ""),
		FreeShippingThreshold: mustFloat(getEnv("FREE_SHIPPING_THRESHOLD", "999")),
		ShippingFlatRate:      mustFloat(getEnv("SHIPPING_FLAT_RATE", "79")),
		HeavyWeightKg:         mustFloat(getEnv("HEAVY_WEIGHT_KG", "5")),
		HeavyOrderSurcharge:   mustFloat(getEnv("HEAVY_ORDER_SURCHARGE", "29")),
		DefaultPhoneRegion:    strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "IN")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.ActivityLogLimit < 1 {
		return fmt.Errorf("ACTIVITY_LOG_LIMIT must be a positive integer")
	}
	switch c.ActivityBackend {
	case "file":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when ACTIVITY_BACKEND is redis")
		}
	default:
		return fmt.Errorf("ACTIVITY_BACKEND must be file or redis, got %q", c.ActivityBackend)
	}
	for name, value := range map[string]float64{
		"FREE_SHIPPING_THRESHOLD": c.FreeShippingThreshold,
		"SHIPPING_FLAT_RATE":      c.ShippingFlatRate,
		"HEAVY_WEIGHT_KG":         c.HeavyWeightKg,
		"HEAVY_ORDER_SURCHARGE":   c.HeavyOrderSurcharge,
	} {
		if math.IsNaN(value) || value < 0 {
			return fmt.Errorf("%s must be a non-negative number", name)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

// mustFloat returns NaN on parse failure so validate can reject it.
func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsInf(result, 0) {
		return math.NaN()
	}
	return result
}
