package core_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"farmcore/internal/core"
)

func TestExpvarRecorderAggregatesByOperation(t *testing.T) {
	ctx := context.Background()
	rec := core.NewExpvarMetricsRecorder("")
	rec.Observe(ctx, "add_task", true, 5*time.Millisecond)
	rec.Observe(ctx, "add_task", true, 3*time.Millisecond)
	rec.Observe(ctx, "add_task", false, 2*time.Millisecond)
	rec.Observe(ctx, "", true, time.Second)

	snap := rec.Snapshot()
	if snap.DurationsMS["add_task"] != 10 {
		t.Fatalf("expected 10ms total, got %v", snap.DurationsMS["add_task"])
	}
	if snap.Results["add_task"]["success"] != 2 || snap.Results["add_task"]["error"] != 1 {
		t.Fatalf("unexpected results: %+v", snap.Results)
	}
	if rec.Name() == "" {
		t.Fatal("empty name should be replaced with a generated one")
	}
}

func TestExpvarRecorderSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	rec := core.NewExpvarMetricsRecorder("")
	rec.Observe(ctx, "add_crop", true, time.Millisecond)
	snap := rec.Snapshot()
	snap.DurationsMS["add_crop"] = 999
	if rec.Snapshot().DurationsMS["add_crop"] == 999 {
		t.Fatal("mutating a snapshot must not affect the recorder")
	}
}

func TestJSONTracerEncodesSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := core.NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "delete_animal")
	span.End(errors.New("kaput"))

	entries := tracer.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 span, got %d", len(entries))
	}
	if entries[0].Operation != "delete_animal" || entries[0].Status != "error" || entries[0].Error != "kaput" {
		t.Fatalf("unexpected span: %+v", entries[0])
	}
	if !strings.Contains(buf.String(), "delete_animal") {
		t.Fatalf("span not written to the sink: %s", buf.String())
	}
}

func TestJSONTracerToleratesNilWriter(t *testing.T) {
	tracer := core.NewJSONTracer(nil)
	_, span := tracer.Start(context.Background(), "add_task")
	span.End(nil)
	if len(tracer.Entries()) != 1 {
		t.Fatal("nil-writer tracer should still retain spans")
	}
}

func TestPrometheusRecorderRegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	ctx := context.Background()
	rec.Observe(ctx, "add_task", true, 10*time.Millisecond)
	rec.Observe(ctx, "add_task", false, 20*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	if !names["farmcore_service_operation_duration_seconds"] || !names["farmcore_service_operation_results_total"] {
		t.Fatalf("expected both collectors registered, got %v", names)
	}
}

func TestPrometheusRecorderDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := core.NewPrometheusMetricsRecorder(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := core.NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatal("second registration on the same registry should fail")
	}
}
