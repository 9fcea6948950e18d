package core_test

import (
	"context"
	"testing"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

func TestSeedPopulatesEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	seeded, err := svc.SeedSampleData(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !seeded {
		t.Fatal("fresh store should report seeded")
	}
	if got := len(svc.Store().ListTasks()); got != 3 {
		t.Fatalf("expected 3 tasks, got %d", got)
	}
	if got := len(svc.Store().ListAnimals()); got != 2 {
		t.Fatalf("expected 2 animals, got %d", got)
	}
	records := svc.Store().ListProductionRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 production records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.AnimalID == nil {
			t.Fatalf("seeded record should reference a seeded animal: %+v", rec)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if _, err := svc.SeedSampleData(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	before := len(svc.Store().ListTasks()) + len(svc.Store().ListAnimals()) + len(svc.Store().ListProductionRecords())

	seeded, err := svc.SeedSampleData(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if seeded {
		t.Fatal("second seed should report nothing seeded")
	}
	after := len(svc.Store().ListTasks()) + len(svc.Store().ListAnimals()) + len(svc.Store().ListProductionRecords())
	if before != after {
		t.Fatalf("second seed changed row counts: %d -> %d", before, after)
	}
}

func TestSeedSkipsNonEmptyTablesIndependently(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if _, _, err := svc.AddTask(ctx, core.Task{Title: "existing"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	seeded, err := svc.SeedSampleData(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !seeded {
		t.Fatal("animals and production were empty; seed should report true")
	}
	tasks := svc.Store().ListTasks()
	if len(tasks) != 1 || tasks[0].Title != "existing" {
		t.Fatalf("non-empty task table must be left alone: %+v", tasks)
	}
	if got := len(svc.Store().ListAnimals()); got != 2 {
		t.Fatalf("expected animals seeded, got %d", got)
	}
}

func TestSeedLinksProductionToExistingAnimals(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	hen, _, err := svc.AddAnimal(ctx, core.Animal{Species: domain.SpeciesChicken, Count: 4})
	if err != nil {
		t.Fatalf("add animal: %v", err)
	}
	if _, err := svc.SeedSampleData(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	for _, rec := range svc.Store().ListProductionRecords() {
		if rec.Product == domain.ProductEggs {
			if rec.AnimalID == nil || *rec.AnimalID != hen.ID {
				t.Fatalf("egg record should reference the pre-existing chicken: %+v", rec)
			}
		}
	}
}
