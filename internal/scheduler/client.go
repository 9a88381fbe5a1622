package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"storefront_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := clientOptFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueFunnelAnalysis queues a funnel run and returns the task id. At most
// one manual run is pending at a time.
func (c *Client) EnqueueFunnelAnalysis(ctx context.Context, trigger string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("scheduler client not configured")
	}

	task, err := NewAnalyzeFunnelTask(AnalyzeFunnelPayload{Trigger: trigger, RequestedAt: time.Now().UTC()})
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.Unique(funnelUniqueTTL),
		asynq.MaxRetry(funnelMaxRetry),
	)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

const (
	funnelUniqueTTL = 10 * time.Minute
	funnelMaxRetry  = 3
)

func clientOptFromConfig(cfg config.RedisConfig) (asynq.RedisClientOpt, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis url not configured")
	}
	return redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
