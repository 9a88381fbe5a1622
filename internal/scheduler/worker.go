package scheduler

import (
	"context"
	"fmt"

	"storefront_backend/internal/leads"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	funnel leads.FunnelRunner
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, funnel leads.FunnelRunner, log *logger.Logger) (*Worker, error) {
	opt, err := clientOptFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 4
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
		Logger: asynqLogger{log: log},
	})

	w := newWorker(funnel, log)
	w.server = server
	return w, nil
}

func newWorker(funnel leads.FunnelRunner, log *logger.Logger) *Worker {
	mux := asynq.NewServeMux()
	w := &Worker{mux: mux, funnel: funnel, log: log}
	mux.HandleFunc(TaskAnalyzeFunnel, w.handleAnalyzeFunnel)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleAnalyzeFunnel(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAnalyzeFunnelPayload(task)
	if err != nil {
		w.log.TaskFailed(task.Type(), err)
		return fmt.Errorf("decode funnel payload: %v: %w", err, asynq.SkipRetry)
	}

	if id, ok := asynq.GetTaskID(ctx); ok {
		ctx = context.WithValue(ctx, logger.JobIDKey, id)
	}
	log := w.log.WithContext(ctx)

	report, err := w.funnel.AnalyzeAndStore(ctx)
	if err != nil {
		log.TaskFailed(task.Type(), err)
		return err
	}

	log.Info("funnel task completed",
		"trigger", payload.Trigger,
		"total", report.Summary.Total,
		"promoted", len(report.Promoted),
	)
	return nil
}

// asynqLogger routes asynq's internal logging through the app logger.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...any) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.log.Error(fmt.Sprint(args...)) }
