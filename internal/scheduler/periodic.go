package scheduler

import (
	"context"
	"fmt"

	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Periodic enqueues the funnel task on the configured cron schedule.
type Periodic struct {
	scheduler *asynq.Scheduler
	schedule  string
	entryID   string
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	opt, err := clientOptFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	schedule := cfg.GetFunnelSchedule()
	if schedule == "" {
		schedule = DefaultFunnelSchedule
	}

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Logger: asynqLogger{log: log},
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				log.TaskFailed(TaskAnalyzeFunnel, err)
				return
			}
			log.Debug("funnel task enqueued", "taskId", info.ID, "queue", info.Queue)
		},
	})

	task, err := NewAnalyzeFunnelTask(AnalyzeFunnelPayload{Trigger: TriggerSchedule})
	if err != nil {
		return nil, err
	}
	entryID, err := s.Register(schedule, task, asynq.Queue(queueName(cfg)), asynq.MaxRetry(funnelMaxRetry))
	if err != nil {
		return nil, fmt.Errorf("register funnel schedule %q: %w", schedule, err)
	}

	return &Periodic{scheduler: s, schedule: schedule, entryID: entryID, log: log}, nil
}

// DefaultFunnelSchedule runs the funnel hourly.
const DefaultFunnelSchedule = "@every 1h"

func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	if err := p.scheduler.Start(); err != nil {
		p.log.Error("funnel scheduler failed to start", "error", err)
		return
	}
	p.log.Info("funnel scheduler started", "schedule", p.schedule, "entryId", p.entryID)

	<-ctx.Done()
	p.scheduler.Shutdown()
}
