package core

import (
	"context"
	"fmt"

	"farmcore/pkg/domain"
)

// OrphanedAnimalReferencesRule warns when an animal is deleted while
// production, weight, or event rows still reference it. Deletes never
// cascade: the orphaned rows are retained as history and the warning makes
// the retention visible to callers.
func OrphanedAnimalReferencesRule() domain.Rule {
	return orphanedAnimalReferencesRule{}
}

type orphanedAnimalReferencesRule struct{}

func (orphanedAnimalReferencesRule) Name() string { return "orphaned_animal_references" }

func (orphanedAnimalReferencesRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityAnimal || change.Action != domain.ActionDelete {
			continue
		}
		animal, ok := change.Before.(domain.Animal)
		if !ok {
			continue
		}
		var production, weights, events int
		for _, rec := range view.ListProductionRecords() {
			if rec.AnimalID != nil && *rec.AnimalID == animal.ID {
				production++
			}
		}
		for _, rec := range view.ListWeightRecords() {
			if rec.AnimalID == animal.ID {
				weights++
			}
		}
		for _, event := range view.ListFarmEvents() {
			if event.RelatedAnimalID != nil && *event.RelatedAnimalID == animal.ID {
				events++
			}
		}
		if production+weights+events == 0 {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "orphaned_animal_references",
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("deleted animal %s leaves %d production, %d weight, and %d event records behind", animal.ID, production, weights, events),
			Entity:   domain.EntityAnimal,
			EntityID: animal.ID,
		})
	}
	return res, nil
}
