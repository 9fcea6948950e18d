package memory_test

import (
	"context"
	"testing"
	"time"

	"farmcore/internal/infra/persistence/memory"
	"farmcore/pkg/domain"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.NewStore(domain.NewRulesEngine())
}

func mustApply(t *testing.T, store *memory.Store, fn func(domain.Transaction) error) []domain.Change {
	t.Helper()
	changes, _, err := store.Apply(context.Background(), fn)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return changes
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	store := newStore(t)
	var first, second domain.Task
	mustApply(t, store, func(tx domain.Transaction) error {
		var err error
		if first, err = tx.AddTask(domain.Task{Title: "water the beds"}); err != nil {
			return err
		}
		second, err = tx.AddTask(domain.Task{Title: "water the beds"})
		return err
	})
	if first.ID == "" || second.ID == "" {
		t.Fatalf("expected generated ids, got %q and %q", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("structurally identical tasks must not share an id: %q", first.ID)
	}
	if len(store.ListTasks()) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(store.ListTasks()))
	}
}

func TestUpdateUnknownIDIsSilentNoOp(t *testing.T) {
	store := newStore(t)
	mustApply(t, store, func(tx domain.Transaction) error {
		_, err := tx.AddCrop(domain.Crop{Name: "Roma tomato", Type: domain.CropTomato})
		return err
	})
	before := store.ListCrops()

	changes := mustApply(t, store, func(tx domain.Transaction) error {
		if ok := tx.UpdateCrop(domain.Crop{Base: domain.Base{ID: "missing"}, Name: "ghost"}); ok {
			t.Fatal("update of unknown id reported success")
		}
		return nil
	})
	if len(changes) != 0 {
		t.Fatalf("no-op scope produced %d changes", len(changes))
	}
	after := store.ListCrops()
	if len(after) != len(before) || after[0].Name != before[0].Name {
		t.Fatal("no-op update mutated state")
	}
}

func TestUpdatePreservesCreatedAtAndPosition(t *testing.T) {
	store := newStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return base })

	var a, b domain.Animal
	hen, cow := "Henrietta", "Daisy"
	mustApply(t, store, func(tx domain.Transaction) error {
		var err error
		if a, err = tx.AddAnimal(domain.Animal{Name: &hen, Species: domain.SpeciesChicken, Count: 4}); err != nil {
			return err
		}
		b, err = tx.AddAnimal(domain.Animal{Name: &cow, Species: domain.SpeciesCow, Count: 1})
		return err
	})

	store.SetNowFunc(func() time.Time { return base.Add(time.Hour) })
	mustApply(t, store, func(tx domain.Transaction) error {
		a.Count = 5
		if !tx.UpdateAnimal(a) {
			t.Fatal("update of existing animal failed")
		}
		return nil
	})

	animals := store.ListAnimals()
	if animals[0].ID != a.ID || animals[1].ID != b.ID {
		t.Fatal("update reordered the table")
	}
	if !animals[0].CreatedAt.Equal(base) {
		t.Fatalf("update rewrote CreatedAt: %v", animals[0].CreatedAt)
	}
	if !animals[0].UpdatedAt.After(animals[0].CreatedAt) {
		t.Fatal("update did not advance UpdatedAt")
	}
	if animals[0].Count != 5 {
		t.Fatalf("count = %d, want 5", animals[0].Count)
	}
}

func TestDeleteUnknownIDIsSilentNoOp(t *testing.T) {
	store := newStore(t)
	changes := mustApply(t, store, func(tx domain.Transaction) error {
		if tx.DeleteTask("missing") {
			t.Fatal("delete of unknown id reported success")
		}
		return nil
	})
	if len(changes) != 0 {
		t.Fatalf("no-op delete produced %d changes", len(changes))
	}
}

func TestDeleteTasksAtIgnoresOutOfRange(t *testing.T) {
	store := newStore(t)
	mustApply(t, store, func(tx domain.Transaction) error {
		for _, title := range []string{"a", "b", "c"} {
			if _, err := tx.AddTask(domain.Task{Title: title}); err != nil {
				return err
			}
		}
		return nil
	})

	changes := mustApply(t, store, func(tx domain.Transaction) error {
		if removed := tx.DeleteTasksAt([]int{2, 0, 99, -1}); removed != 2 {
			t.Fatalf("removed = %d, want 2", removed)
		}
		return nil
	})
	if len(changes) != 2 {
		t.Fatalf("expected one change per removed task, got %d", len(changes))
	}
	tasks := store.ListTasks()
	if len(tasks) != 1 || tasks[0].Title != "b" {
		t.Fatalf("unexpected survivors: %+v", tasks)
	}
}

func TestInsertionOrderSurvivesRoundTrip(t *testing.T) {
	store := newStore(t)
	titles := []string{"first", "second", "third", "fourth"}
	mustApply(t, store, func(tx domain.Transaction) error {
		for _, title := range titles {
			if _, err := tx.AddTask(domain.Task{Title: title}); err != nil {
				return err
			}
		}
		return nil
	})

	restored := memory.NewStore(nil)
	restored.ImportState(store.ExportState())
	for i, task := range restored.ListTasks() {
		if task.Title != titles[i] {
			t.Fatalf("position %d = %q, want %q", i, task.Title, titles[i])
		}
	}
}

func TestSweepExpiredFarmboard(t *testing.T) {
	store := newStore(t)
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return now })

	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	mustApply(t, store, func(tx domain.Transaction) error {
		items := []domain.FarmboardItem{
			{Name: "stale", Kind: domain.BoardTask, ScheduledDate: &yesterday},
			{Name: "exact", Kind: domain.BoardEvent, ScheduledDate: &now},
			{Name: "future", Kind: domain.BoardCrop, ScheduledDate: &tomorrow},
			{Name: "unscheduled", Kind: domain.BoardAnimal},
		}
		for _, item := range items {
			if _, err := tx.AddFarmboardItem(item); err != nil {
				return err
			}
		}
		return nil
	})

	var removed []domain.FarmboardItem
	changes := mustApply(t, store, func(tx domain.Transaction) error {
		removed = tx.SweepExpiredFarmboard()
		return nil
	})
	if len(removed) != 2 {
		t.Fatalf("removed %d items, want 2", len(removed))
	}
	if removed[0].Name != "stale" || removed[1].Name != "exact" {
		t.Fatalf("unexpected removals: %+v", removed)
	}
	if len(changes) != 2 {
		t.Fatalf("expected one change per swept item, got %d", len(changes))
	}

	remaining := store.ListFarmboardItems()
	if len(remaining) != 2 || remaining[0].Name != "future" || remaining[1].Name != "unscheduled" {
		t.Fatalf("unexpected survivors: %+v", remaining)
	}

	repeat := mustApply(t, store, func(tx domain.Transaction) error {
		if again := tx.SweepExpiredFarmboard(); len(again) != 0 {
			t.Fatalf("second sweep removed %d items", len(again))
		}
		return nil
	})
	if len(repeat) != 0 {
		t.Fatal("second sweep produced changes")
	}
}

func TestReplaceSettingsWholesale(t *testing.T) {
	store := newStore(t)
	if got := store.Settings(); got.WeightUnit != "kg" {
		t.Fatalf("default weight unit = %q, want kg", got.WeightUnit)
	}

	next := domain.DefaultSettings()
	next.WeightUnit = "lb"
	next.VolumeUnit = "gal"
	next.TaskReminders = false
	mustApply(t, store, func(tx domain.Transaction) error {
		tx.ReplaceSettings(next)
		return nil
	})

	got := store.Settings()
	if got.WeightUnit != "lb" || got.VolumeUnit != "gal" || got.TaskReminders {
		t.Fatalf("settings not replaced wholesale: %+v", got)
	}
	// Untouched fields come from the replacement value, not the previous one.
	if got.ReminderHour != next.ReminderHour {
		t.Fatalf("reminder hour = %d, want %d", got.ReminderHour, next.ReminderHour)
	}
}

func TestExportImportRoundTripWithOptionalFields(t *testing.T) {
	store := newStore(t)
	due := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	vaccinated := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	mustApply(t, store, func(tx domain.Transaction) error {
		if _, err := tx.AddTask(domain.Task{Title: "shear sheep", DueDate: due}); err != nil {
			return err
		}
		if _, err := tx.AddAnimal(domain.Animal{Species: domain.SpeciesSheep, Count: 3, LastVaccine: &vaccinated}); err != nil {
			return err
		}
		_, err := tx.AddProductionRecord(domain.ProductionRecord{Product: domain.ProductEggs, Amount: 6})
		return err
	})

	restored := memory.NewStore(nil)
	restored.ImportState(store.ExportState())
	tasks := restored.ListTasks()
	if !tasks[0].DueDate.Equal(due) {
		t.Fatalf("due date lost in round trip: %+v", tasks[0])
	}
	animals := restored.ListAnimals()
	if animals[0].Name != nil {
		t.Fatal("nil name became non-nil")
	}
	if animals[0].LastVaccine == nil || !animals[0].LastVaccine.Equal(vaccinated) {
		t.Fatalf("vaccine date lost in round trip: %+v", animals[0])
	}
	records := restored.ListProductionRecords()
	if len(records) != 1 || records[0].AnimalID != nil {
		t.Fatalf("unexpected production records: %+v", records)
	}
}

func TestImportStateDedupesIDs(t *testing.T) {
	snapshot := memory.Snapshot{
		Tasks: []domain.Task{
			{Base: domain.Base{ID: "t1"}, Title: "kept"},
			{Base: domain.Base{ID: "t1"}, Title: "dropped"},
			{Base: domain.Base{ID: "t2"}, Title: "other"},
		},
	}
	store := memory.NewStore(nil)
	store.ImportState(snapshot)
	tasks := store.ListTasks()
	if len(tasks) != 2 {
		t.Fatalf("expected duplicate id dropped, got %d tasks", len(tasks))
	}
	if tasks[0].Title != "kept" {
		t.Fatalf("first occurrence must win, got %q", tasks[0].Title)
	}
}

func TestTransactionErrorDiscardsScope(t *testing.T) {
	store := newStore(t)
	_, _, err := store.Apply(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.AddCrop(domain.Crop{Name: "doomed"}); err != nil {
			return err
		}
		return context.Canceled
	})
	if err == nil {
		t.Fatal("expected error from transaction")
	}
	if len(store.ListCrops()) != 0 {
		t.Fatal("failed transaction leaked state")
	}
}
