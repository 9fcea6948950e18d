package core

import (
	"sort"
	"time"

	"farmcore/pkg/domain"
)

// weeklyWindow returns the inclusive [now-7d, now] window. Calendar-day
// arithmetic, not 168 hours, so the boundary tracks local-calendar semantics
// across DST transitions.
func (s *Service) weeklyWindow() (time.Time, time.Time) {
	now := s.clock.Now()
	return now.AddDate(0, 0, -7), now
}

func inWindow(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// WeeklyHarvest sums production amounts over the last seven calendar days for
// eggs and milk records. Other product types are excluded from this rollup.
func (s *Service) WeeklyHarvest() float64 {
	start, end := s.weeklyWindow()
	var total float64
	for _, rec := range s.store.ListProductionRecords() {
		if rec.Product != domain.ProductEggs && rec.Product != domain.ProductMilk {
			continue
		}
		if inWindow(rec.Date, start, end) {
			total += rec.Amount
		}
	}
	return total
}

// WeeklyEggs sums egg amounts over the last seven calendar days, truncated to
// a whole count.
func (s *Service) WeeklyEggs() int {
	start, end := s.weeklyWindow()
	var total float64
	for _, rec := range s.store.ListProductionRecords() {
		if rec.Product == domain.ProductEggs && inWindow(rec.Date, start, end) {
			total += rec.Amount
		}
	}
	return int(total)
}

// WeeklyMilk sums milk amounts over the last seven calendar days.
func (s *Service) WeeklyMilk() float64 {
	start, end := s.weeklyWindow()
	var total float64
	for _, rec := range s.store.ListProductionRecords() {
		if rec.Product == domain.ProductMilk && inWindow(rec.Date, start, end) {
			total += rec.Amount
		}
	}
	return total
}

// PendingTasks returns incomplete tasks in table order.
func (s *Service) PendingTasks() []Task {
	var out []Task
	for _, task := range s.store.ListTasks() {
		if !task.IsCompleted {
			out = append(out, task)
		}
	}
	return out
}

// UpcomingEvents returns incomplete events dated within [now, now+7d],
// ascending by date.
func (s *Service) UpcomingEvents() []FarmEvent {
	now := s.clock.Now()
	end := now.AddDate(0, 0, 7)
	var out []FarmEvent
	for _, event := range s.store.ListFarmEvents() {
		if event.IsCompleted {
			continue
		}
		if inWindow(event.Date, now, end) {
			out = append(out, event)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// LowStockItems returns inventory at or below its configured minimum. The
// boundary is inclusive: current == minimum is low stock.
func (s *Service) LowStockItems() []StorageItem {
	var out []StorageItem
	for _, item := range s.store.ListStorageItems() {
		if item.IsLowStock() {
			out = append(out, item)
		}
	}
	return out
}

// CurrentWeight reports the effective weight of an animal group: species base
// weight times head count plus the sum of all recorded deltas. The second
// return is false when the animal does not exist.
func (s *Service) CurrentWeight(animalID string) (float64, bool) {
	animal, ok := s.store.GetAnimal(animalID)
	if !ok {
		return 0, false
	}
	total := animal.Species.BaseWeight() * float64(animal.Count)
	for _, rec := range s.store.ListWeightRecords() {
		if rec.AnimalID == animalID {
			total += rec.Delta
		}
	}
	return total, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// TodayProduction reports an animal's production figure for its species
// product. Milk, wool, and honey report today's sum; when nothing was milked
// today the most recent prior amount stands in (not zero). Eggs and meat
// report cumulative totals instead of a daily figure. The boolean is false
// when the animal does not exist.
func (s *Service) TodayProduction(animalID string) (float64, ProductType, bool) {
	animal, ok := s.store.GetAnimal(animalID)
	if !ok {
		return 0, "", false
	}
	product := animal.Species.Product()
	records := s.animalProduction(animalID, product)

	switch product {
	case domain.ProductEggs, domain.ProductMeat:
		var total float64
		for _, rec := range records {
			total += rec.Amount
		}
		return total, product, true
	}

	now := s.clock.Now()
	var today float64
	recordedToday := false
	for _, rec := range records {
		if sameDay(rec.Date, now) {
			today += rec.Amount
			recordedToday = true
		}
	}
	if recordedToday || product != domain.ProductMilk {
		return today, product, true
	}
	// No milking recorded today: fall back to the latest prior record.
	var latest *ProductionRecord
	for i := range records {
		if latest == nil || records[i].Date.After(latest.Date) {
			latest = &records[i]
		}
	}
	if latest == nil {
		return 0, product, true
	}
	return latest.Amount, product, true
}

func (s *Service) animalProduction(animalID string, product ProductType) []ProductionRecord {
	var out []ProductionRecord
	for _, rec := range s.store.ListProductionRecords() {
		if rec.AnimalID == nil || *rec.AnimalID != animalID {
			continue
		}
		if product != "" && rec.Product != product {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// AnimalProductionHistory returns every production record referencing the
// animal, newest first. Display capping is the caller's concern.
func (s *Service) AnimalProductionHistory(animalID string) []ProductionRecord {
	out := s.animalProduction(animalID, "")
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// AnimalWeightHistory returns every weight record for the animal, newest first.
func (s *Service) AnimalWeightHistory(animalID string) []WeightChangeRecord {
	var out []WeightChangeRecord
	for _, rec := range s.store.ListWeightRecords() {
		if rec.AnimalID == animalID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// AnimalEventHistory returns every event referencing the animal, newest first.
func (s *Service) AnimalEventHistory(animalID string) []FarmEvent {
	var out []FarmEvent
	for _, event := range s.store.ListFarmEvents() {
		if event.RelatedAnimalID != nil && *event.RelatedAnimalID == animalID {
			out = append(out, event)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
