package domain

import (
	"testing"
	"time"
)

func TestStorageItemLowStockBoundary(t *testing.T) {
	item := StorageItem{Current: 10, Minimum: 10}
	if !item.IsLowStock() {
		t.Fatalf("current == minimum must count as low stock")
	}
	item.Current = 10.01
	if item.IsLowStock() {
		t.Fatalf("current just above minimum must not count as low stock")
	}
	item.Current = 3
	if !item.IsLowStock() {
		t.Fatalf("current below minimum must count as low stock")
	}
}

func TestWeightChangeRecordIsGain(t *testing.T) {
	if !(WeightChangeRecord{Delta: 1.5}).IsGain() {
		t.Fatalf("positive delta is a gain")
	}
	if (WeightChangeRecord{Delta: -0.5}).IsGain() {
		t.Fatalf("negative delta is not a gain")
	}
	if (WeightChangeRecord{Delta: 0}).IsGain() {
		t.Fatalf("zero delta is not a gain")
	}
}

func TestFarmboardItemExpiredAt(t *testing.T) {
	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	if (FarmboardItem{}).ExpiredAt(now) {
		t.Fatalf("item without scheduled date never expires")
	}
	if !(FarmboardItem{ScheduledDate: &yesterday}).ExpiredAt(now) {
		t.Fatalf("past scheduled date must expire")
	}
	if !(FarmboardItem{ScheduledDate: &now}).ExpiredAt(now) {
		t.Fatalf("scheduled date equal to now must expire")
	}
	if (FarmboardItem{ScheduledDate: &tomorrow}).ExpiredAt(now) {
		t.Fatalf("future scheduled date must not expire")
	}
}

func TestResultMergeAndWarnings(t *testing.T) {
	var r Result
	r.Merge(Result{})
	if len(r.Violations) != 0 {
		t.Fatalf("merging empty result must not add violations")
	}
	r.Merge(Result{Violations: []Violation{
		{Rule: "a", Severity: SeverityWarn},
		{Rule: "b", Severity: SeverityLog},
	}})
	r.Merge(Result{Violations: []Violation{{Rule: "c", Severity: SeverityWarn}}})
	if len(r.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d", len(r.Violations))
	}
	warnings := r.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}
	if warnings[0].Rule != "a" || warnings[1].Rule != "c" {
		t.Fatalf("warnings must preserve order: %+v", warnings)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.WeightUnit != "kg" || s.VolumeUnit != "L" {
		t.Fatalf("unexpected default units: %+v", s)
	}
	if !s.TaskReminders || !s.EventReminders || !s.LowStockAlerts {
		t.Fatalf("reminders default on: %+v", s)
	}
	if s.ReminderHour != 8 || s.ReminderMinute != 0 {
		t.Fatalf("unexpected default reminder time: %+v", s)
	}
}
