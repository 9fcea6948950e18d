package core_test

import (
	"context"
	"testing"
	"time"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

func TestPendingRemindersHonorsToggleAndTiming(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	future := fixedNow.Add(2 * time.Hour)
	past := fixedNow.Add(-2 * time.Hour)
	add := func(title string, reminder *time.Time, completed bool) {
		event := core.FarmEvent{Title: title, Date: fixedNow.AddDate(0, 0, 1), Type: domain.EventFeeding, IsCompleted: completed, ReminderDate: reminder}
		if _, _, err := svc.AddFarmEvent(ctx, event); err != nil {
			t.Fatalf("add event: %v", err)
		}
	}
	add("upcoming", &future, false)
	add("elapsed", &past, false)
	add("no reminder", nil, false)
	add("finished", &future, true)

	payloads := svc.PendingReminders()
	if len(payloads) != 1 || payloads[0].Title != "upcoming" {
		t.Fatalf("unexpected payloads: %+v", payloads)
	}
	if !payloads[0].TriggerAt.Equal(future) {
		t.Fatalf("trigger should be the reminder date, got %v", payloads[0].TriggerAt)
	}

	settings := svc.Settings()
	settings.EventReminders = false
	if _, _, err := svc.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if got := svc.PendingReminders(); got != nil {
		t.Fatalf("disabled toggle must yield no payloads, got %+v", got)
	}
}

func TestPendingReminderBodyFallsBackToSchedule(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	future := fixedNow.Add(time.Hour)
	event := core.FarmEvent{Title: "Shear the flock", Date: fixedNow.AddDate(0, 0, 2), Type: domain.EventOther, ReminderDate: &future}
	if _, _, err := svc.AddFarmEvent(ctx, event); err != nil {
		t.Fatalf("add event: %v", err)
	}
	payloads := svc.PendingReminders()
	if len(payloads) != 1 || payloads[0].Body == "" {
		t.Fatalf("empty description should produce a generated body: %+v", payloads)
	}
}

func TestTaskReminderTriggersAtConfiguredTime(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	settings := svc.Settings()
	settings.ReminderHour = 6
	settings.ReminderMinute = 30
	if _, _, err := svc.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	due := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	payload, ok := svc.TaskReminderFor(core.Task{Title: "Collect eggs", Description: "Morning round", DueDate: due})
	if !ok {
		t.Fatal("expected a reminder")
	}
	want := time.Date(2026, time.March, 15, 6, 30, 0, 0, time.UTC)
	if !payload.TriggerAt.Equal(want) {
		t.Fatalf("trigger at %v, want %v", payload.TriggerAt, want)
	}
	if payload.Title != "Collect eggs" || payload.Body != "Morning round" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestTaskReminderSuppressedWhenDisabledOrDone(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if _, ok := svc.TaskReminderFor(core.Task{Title: "done", IsCompleted: true, DueDate: fixedNow}); ok {
		t.Fatal("completed task must not remind")
	}
	settings := svc.Settings()
	settings.TaskReminders = false
	if _, _, err := svc.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if _, ok := svc.TaskReminderFor(core.Task{Title: "open", DueDate: fixedNow}); ok {
		t.Fatal("disabled toggle must not remind")
	}
}
