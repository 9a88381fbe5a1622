package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.LeadPromoted("lead-1", 75)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "lead_promoted" {
		t.Fatalf("expected msg lead_promoted, got %v", entry["msg"])
	}
	if entry["lead_id"] != "lead-1" {
		t.Fatalf("expected lead_id lead-1, got %v", entry["lead_id"])
	}
}

func TestDevelopmentEnablesDebugText(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("Development", &buf)

	log.Debug("scoring lead", "lead_id", "x")

	if !strings.Contains(buf.String(), "level=DEBUG") {
		t.Fatalf("expected debug text output, got %q", buf.String())
	}
}

func TestWithContextAddsJobAndRequestIDs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), JobIDKey, "job-42")
	ctx = context.WithValue(ctx, RequestIDKey, "req-7")
	log.WithContext(ctx).Info("hello")

	out := buf.String()
	if !strings.Contains(out, `"job_id":"job-42"`) || !strings.Contains(out, `"request_id":"req-7"`) {
		t.Fatalf("expected job and request ids in %q", out)
	}
}
