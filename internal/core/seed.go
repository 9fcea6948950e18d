package core

import (
	"context"
	"fmt"

	"farmcore/pkg/domain"
)

// SeedSampleData populates empty tables with a fixed illustrative dataset
// through the same public add operations as any caller. Each table seeds only
// when it is empty, so re-running on a seeded or partially populated store is
// a no-op for the non-empty subset. Reported true when anything was seeded.
func (s *Service) SeedSampleData(ctx context.Context) (bool, error) {
	seeded := false

	if len(s.store.ListTasks()) == 0 {
		now := s.clock.Now()
		tasks := []Task{
			{Title: "Water the tomato beds", Description: "Morning watering round for the greenhouse rows", DueDate: now.AddDate(0, 0, 1), Priority: domain.PriorityHigh, Category: domain.CategoryIrrigation},
			{Title: "Refill chicken feed", Description: "Top up the coop feeder from the feed store", DueDate: now.AddDate(0, 0, 2), Priority: domain.PriorityMedium, Category: domain.CategoryFeeding},
			{Title: "Check fence line", Description: "Walk the north pasture fence after the storm", DueDate: now.AddDate(0, 0, 5), Priority: domain.PriorityLow, Category: domain.CategoryMaintenance},
		}
		for _, task := range tasks {
			if _, _, err := s.AddTask(ctx, task); err != nil {
				return seeded, fmt.Errorf("seed tasks: %w", err)
			}
		}
		seeded = true
	}

	if len(s.store.ListAnimals()) == 0 {
		flock := "Flock"
		bella := "Bella"
		animals := []Animal{
			{Species: domain.SpeciesChicken, Breed: "Rhode Island Red", Name: &flock, Count: 12, Age: "2 years", Health: domain.AnimalHealthy, IsHighProducer: true},
			{Species: domain.SpeciesCow, Breed: "Holstein", Name: &bella, Count: 1, Age: "4 years", Health: domain.AnimalHealthy},
		}
		for _, animal := range animals {
			if _, _, err := s.AddAnimal(ctx, animal); err != nil {
				return seeded, fmt.Errorf("seed animals: %w", err)
			}
		}
		seeded = true
	}

	if len(s.store.ListProductionRecords()) == 0 {
		now := s.clock.Now()
		// Cross-reference the first chicken and first cow in the table,
		// whether seeded above or pre-existing.
		var chickenID, cowID *string
		for _, animal := range s.store.ListAnimals() {
			id := animal.ID
			switch {
			case chickenID == nil && animal.Species == domain.SpeciesChicken:
				chickenID = &id
			case cowID == nil && animal.Species == domain.SpeciesCow:
				cowID = &id
			}
		}
		records := []ProductionRecord{
			{Date: now, Product: domain.ProductEggs, Amount: 10, Unit: domain.ProductEggs.DefaultUnit(), AnimalID: chickenID},
			{Date: now, Product: domain.ProductMilk, Amount: 18.5, Unit: domain.ProductMilk.DefaultUnit(), AnimalID: cowID},
		}
		for _, record := range records {
			if _, _, err := s.AddProductionRecord(ctx, record); err != nil {
				return seeded, fmt.Errorf("seed production records: %w", err)
			}
		}
		seeded = true
	}

	return seeded, nil
}
