package core

import (
	"context"
	"fmt"

	"farmcore/pkg/domain"
)

// LowStockRule records a log-severity violation when a write leaves a storage
// item at or below its minimum stock. Purely advisory; the low-stock query
// remains the authoritative read surface.
func LowStockRule() domain.Rule {
	return lowStockRule{}
}

type lowStockRule struct{}

func (lowStockRule) Name() string { return "low_stock" }

func (lowStockRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityStorageItem || change.After == nil {
			continue
		}
		item, ok := change.After.(domain.StorageItem)
		if !ok || !item.IsLowStock() {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "low_stock",
			Severity: domain.SeverityLog,
			Message:  fmt.Sprintf("%s is low on stock: %.2f %s on hand, minimum %.2f", item.Name, item.Current, item.Unit, item.Minimum),
			Entity:   domain.EntityStorageItem,
			EntityID: item.ID,
		})
	}
	return res, nil
}
