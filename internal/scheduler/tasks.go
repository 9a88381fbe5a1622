package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskAnalyzeFunnel = "leads.analyze_funnel"

// Funnel run triggers.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

type AnalyzeFunnelPayload struct {
	Trigger     string    `json:"trigger"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewAnalyzeFunnelTask(payload AnalyzeFunnelPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyzeFunnel, data), nil
}

// ParseAnalyzeFunnelPayload decodes a funnel task. Periodic tasks are
// registered once at start-up, so an empty payload is read as a scheduled run.
func ParseAnalyzeFunnelPayload(task *asynq.Task) (AnalyzeFunnelPayload, error) {
	var payload AnalyzeFunnelPayload
	if len(task.Payload()) == 0 {
		return AnalyzeFunnelPayload{Trigger: TriggerSchedule}, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AnalyzeFunnelPayload{}, err
	}
	if payload.Trigger == "" {
		payload.Trigger = TriggerSchedule
	}
	return payload, nil
}
