package scheduler

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
)

func TestAnalyzeFunnelTaskRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	task, err := NewAnalyzeFunnelTask(AnalyzeFunnelPayload{Trigger: TriggerManual, RequestedAt: at})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskAnalyzeFunnel {
		t.Fatalf("expected task type %q, got %q", TaskAnalyzeFunnel, task.Type())
	}

	payload, err := ParseAnalyzeFunnelPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Trigger != TriggerManual || !payload.RequestedAt.Equal(at) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestParseAnalyzeFunnelPayloadDefaults(t *testing.T) {
	payload, err := ParseAnalyzeFunnelPayload(asynq.NewTask(TaskAnalyzeFunnel, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Trigger != TriggerSchedule {
		t.Fatalf("expected schedule trigger, got %q", payload.Trigger)
	}

	if _, err := ParseAnalyzeFunnelPayload(asynq.NewTask(TaskAnalyzeFunnel, []byte("{"))); err == nil {
		t.Fatal("expected decode error")
	}
}
