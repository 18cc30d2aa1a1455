package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"vidindex/internal/logging"
	"vidindex/internal/services"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("ingest complete", logging.String("video_id", "clip_1"), logging.Int("scenes", 3))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if payload["msg"] != "ingest complete" {
		t.Fatalf("unexpected msg field: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level field: %v", payload["level"])
	}
	if payload["video_id"] != "clip_1" {
		t.Fatalf("unexpected video_id field: %v", payload["video_id"])
	}
}

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("keyframe overwrite", logging.String("path", "frames/a b.jpg"))

	line := buf.String()
	if !strings.Contains(line, "WARN") {
		t.Fatalf("expected level label in output, got %q", line)
	}
	if !strings.Contains(line, `path="frames/a b.jpg"`) {
		t.Fatalf("expected quoted attr value, got %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("suppressed")
	logger.Error("kept")
	if strings.Contains(buf.String(), "suppressed") {
		t.Fatalf("info line should be filtered at warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("error line missing: %q", buf.String())
	}
}

func TestContextFields(t *testing.T) {
	ctx := services.WithVideoID(context.Background(), "clip_9")
	ctx = services.WithStage(ctx, "transcribe")

	fields := logging.ContextFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != logging.FieldVideoID || fields[0].Value.String() != "clip_9" {
		t.Fatalf("unexpected first field: %v", fields[0])
	}
	if fields[1].Key != logging.FieldStage || fields[1].Value.String() != "transcribe" {
		t.Fatalf("unexpected second field: %v", fields[1])
	}
}
