// Package core exposes the farm store service: typed transactional CRUD over
// every entity table, derived rollup queries, sample-data seeding, farmboard
// expiry sweeping, and observer notification.
package core

import (
	"context"
	"sync"
	"time"

	"farmcore/internal/infra/persistence/memory"
	"farmcore/pkg/domain"
)

// Service is the public facade over a persistent store. Every mutator runs in
// one transaction, persists synchronously, and notifies subscribed observers
// exactly once when the write changed anything. No-op writes (unknown
// identifiers, empty sweeps) neither persist nor notify.
type Service struct {
	store   domain.PersistentStore
	logger  Logger
	clock   Clock
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer

	obsMu     sync.Mutex
	obsSeq    int
	observers map[int]func()
}

// Option customizes service construction.
type Option func(*Service)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the service clock used for derived time-window queries.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithAuditRecorder attaches an audit sink for completed operations.
func WithAuditRecorder(a AuditRecorder) Option {
	return func(s *Service) {
		if a != nil {
			s.audit = a
		}
	}
}

// WithMetricsRecorder attaches a metrics sink for operation outcomes.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer attaches a tracer wrapping every operation in a span.
func WithTracer(t Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:     store,
		logger:    noopLogger{},
		clock:     ClockFunc(nil),
		metrics:   noopMetrics{},
		tracer:    noopTracer{},
		observers: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store with the
// given rules engine. Intended for tests and ephemeral runs.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// Now returns the service's current time in UTC.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// Subscribe registers an observer invoked synchronously once per completed
// write. The returned function removes the subscription. Handlers may re-enter
// the service; writes issued from a handler notify again.
func (s *Service) Subscribe(fn func()) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.obsSeq++
	id := s.obsSeq
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Service) notify() {
	s.obsMu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()
	// Handlers run outside the lock so they can subscribe, unsubscribe, or
	// write back into the service.
	for _, fn := range fns {
		fn()
	}
}

// run executes one write operation with tracing, metrics, logging, audit, and
// observer notification.
func (s *Service) run(ctx context.Context, op string, entity EntityType, fn func(domain.Transaction) error) (Result, bool, error) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	changes, res, err := s.store.Apply(ctx, fn)
	span.End(err)
	duration := time.Since(started)
	success := err == nil
	s.metrics.Observe(ctx, op, success, duration)

	changed := len(changes) > 0
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "entity", entity, "error", err)
	} else {
		s.logger.Debug("operation complete", "operation", op, "entity", entity, "changes", len(changes))
	}
	for _, v := range res.Violations {
		switch v.Severity {
		case SeverityWarn:
			s.logger.Warn(v.Message, "operation", op, "rule", v.Rule, "entity", v.Entity, "entity_id", v.EntityID)
		default:
			s.logger.Info(v.Message, "operation", op, "rule", v.Rule, "entity", v.Entity, "entity_id", v.EntityID)
		}
	}
	if s.audit != nil {
		entry := AuditEntry{
			Operation:  op,
			Entity:     entity,
			Status:     AuditStatusSuccess,
			Changes:    len(changes),
			Violations: len(res.Violations),
			Duration:   duration,
			At:         s.clock.Now(),
		}
		if err != nil {
			entry.Status = AuditStatusError
			entry.Err = err.Error()
		}
		if len(changes) == 1 {
			entry.EntityID = changes[0].EntityID
		}
		s.audit.Record(ctx, entry)
	}
	if changed {
		s.notify()
	}
	return res, changed, err
}

// AddTask appends a task, assigning an identifier when absent.
func (s *Service) AddTask(ctx context.Context, task Task) (Task, Result, error) {
	var created Task
	res, _, err := s.run(ctx, "add_task", EntityTask, func(tx domain.Transaction) error {
		var err error
		created, err = tx.AddTask(task)
		return err
	})
	return created, res, err
}

// UpdateTask replaces a task in place. An unknown identifier is a silent
// no-op: found reports false and nothing persists.
func (s *Service) UpdateTask(ctx context.Context, task Task) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "update_task", EntityTask, func(tx domain.Transaction) error {
		found = tx.UpdateTask(task)
		return nil
	})
	return found, res, err
}

// DeleteTask removes the task with the given identifier, if present.
func (s *Service) DeleteTask(ctx context.Context, id string) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "delete_task", EntityTask, func(tx domain.Transaction) error {
		found = tx.DeleteTask(id)
		return nil
	})
	return found, res, err
}

// DeleteTasksAt bulk-removes tasks by position, persisting once for the batch.
func (s *Service) DeleteTasksAt(ctx context.Context, indices []int) (int, Result, error) {
	var removed int
	res, _, err := s.run(ctx, "delete_tasks_at", EntityTask, func(tx domain.Transaction) error {
		removed = tx.DeleteTasksAt(indices)
		return nil
	})
	return removed, res, err
}

// AddCrop appends a crop planting record.
func (s *Service) AddCrop(ctx context.Context, crop Crop) (Crop, Result, error) {
	var created Crop
	res, _, err := s.run(ctx, "add_crop", EntityCrop, func(tx domain.Transaction) error {
		var err error
		created, err = tx.AddCrop(crop)
		return err
	})
	return created, res, err
}

// UpdateCrop replaces a crop in place; unknown identifiers no-op.
func (s *Service) UpdateCrop(ctx context.Context, crop Crop) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "update_crop", EntityCrop, func(tx domain.Transaction) error {
		found = tx.UpdateCrop(crop)
		return nil
	})
	return found, res, err
}

// DeleteCrop removes the crop with the given identifier, if present.
func (s *Service) DeleteCrop(ctx context.Context, id string) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "delete_crop", EntityCrop, func(tx domain.Transaction) error {
		found = tx.DeleteCrop(id)
		return nil
	})
	return found, res, err
}

// DeleteCropsAt bulk-removes crops by position.
func (s *Service) DeleteCropsAt(ctx context.Context, indices []int) (int, Result, error) {
	var removed int
	res, _, err := s.run(ctx, "delete_crops_at", EntityCrop, func(tx domain.Transaction) error {
		removed = tx.DeleteCropsAt(indices)
		return nil
	})
	return removed, res, err
}

// AddAnimal appends an animal group record.
func (s *Service) AddAnimal(ctx context.Context, animal Animal) (Animal, Result, error) {
	var created Animal
	res, _, err := s.run(ctx, "add_animal", EntityAnimal, func(tx domain.Transaction) error {
		var err error
		created, err = tx.AddAnimal(animal)
		return err
	})
	return created, res, err
}

// UpdateAnimal replaces an animal in place; unknown identifiers no-op.
func (s *Service) UpdateAnimal(ctx context.Context, animal Animal) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "update_animal", EntityAnimal, func(tx domain.Transaction) error {
		found = tx.UpdateAnimal(animal)
		return nil
	})
	return found, res, err
}

// DeleteAnimal removes an animal. Dependent production, weight, and event
// records are retained as history; the orphaned-references rule surfaces a
// warning in the result when any remain.
func (s *Service) DeleteAnimal(ctx context.Context, id string) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "delete_animal", EntityAnimal, func(tx domain.Transaction) error {
		found = tx.DeleteAnimal(id)
		return nil
	})
	return found, res, err
}

// DeleteAnimalsAt bulk-removes animals by position.
func (s *Service) DeleteAnimalsAt(ctx context.Context, indices []int) (int, Result, error) {
	var removed int
	res, _, err := s.run(ctx, "delete_animals_at", EntityAnimal, func(tx domain.Transaction) error {
		removed = tx.DeleteAnimalsAt(indices)
		return nil
	})
	return removed, res, err
}

// AddProductionRecord appends a yield entry.
func (s *Service) AddProductionRecord(ctx context.Context, record ProductionRecord) (ProductionRecord, Result, error) {
	var created ProductionRecord
	res, _, err := s.run(ctx, "add_production_record", EntityProductionRecord, func(tx domain.Transaction) error {
		var err error
		created, err = tx.AddProductionRecord(record)
		return err
	})
	return created, res, err
}

// UpdateProductionRecord replaces a yield entry; unknown identifiers no-op.
func (s *Service) UpdateProductionRecord(ctx context.Context, record ProductionRecord) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "update_production_record", EntityProductionRecord, func(tx domain.Transaction) error {
		found = tx.UpdateProductionRecord(record)
		return nil
	})
	return found, res, err
}

// DeleteProductionRecord removes a yield entry, if present.
func (s *Service) DeleteProductionRecord(ctx context.Context, id string) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "delete_production_record", EntityProductionRecord, func(tx domain.Transaction) error {
		found = tx.DeleteProductionRecord(id)
		return nil
	})
	return found, res, err
}

// DeleteProductionRecordsAt bulk-removes yield entries by position.
func (s *Service) DeleteProductionRecordsAt(ctx context.Context, indices []int) (int, Result, error) {
	var removed int
	res, _, err := s.run(ctx, "delete_production_records_at", EntityProductionRecord, func(tx domain.Transaction) error {
		removed = tx.DeleteProductionRecordsAt(indices)
		return nil
	})
	return removed, res, err
}

// AddWeightRecord appends a weighing entry.
func (s *Service) AddWeightRecord(ctx context.Context, record WeightChangeRecord) (WeightChangeRecord, Result, error) {
	var created WeightChangeRecord
	res, _, err := s.run(ctx, "add_weight_record", EntityWeightRecord, func(tx domain.Transaction) error {
		var err error
		created, err = tx.AddWeightRecord(record)
		return err
	})
	return created, res, err
}

// UpdateWeightRecord replaces a weighing entry; unknown identifiers no-op.
func (s *Service) UpdateWeightRecord(ctx context.Context, record WeightChangeRecord) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "update_weight_record", EntityWeightRecord, func(tx domain.Transaction) error {
		found = tx.UpdateWeightRecord(record)
		return nil
	})
	return found, res, err
}

// DeleteWeightRecord removes a weighing entry, if present.
func (s *Service) DeleteWeightRecord(ctx context.Context, id string) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "delete_weight_record", EntityWeightRecord, func(tx domain.Transaction) error {
		found = tx.DeleteWeightRecord(id)
		return nil
	})
	return found, res, err
}

// DeleteWeightRecordsAt bulk-removes weighing entries by position.
func (s *Service) DeleteWeightRecordsAt(ctx context.Context, indices []int) (int, Result, error) {
	var removed int
	res, _, err := s.run(ctx, "delete_weight_records_at", EntityWeightRecord, func(tx domain.Transaction) error {
		removed = tx.DeleteWeightRecordsAt(indices)
		return nil
	})
	return removed, res, err
}

// AddStorageItem appends an inventory item.
func (s *Service) AddStorageItem(ctx context.Context, item StorageItem) (StorageItem, Result, error) {
	var created StorageItem
	res, _, err := s.run(ctx, "add_storage_item", EntityStorageItem, func(tx domain.Transaction) error {
		var err error
		created, err = tx.AddStorageItem(item)
		return err
	})
	return created, res, err
}

// UpdateStorageItem replaces an inventory item; unknown identifiers no-op.
func (s *Service) UpdateStorageItem(ctx context.Context, item StorageItem) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "update_storage_item", EntityStorageItem, func(tx domain.Transaction) error {
		found = tx.UpdateStorageItem(item)
		return nil
	})
	return found, res, err
}

// DeleteStorageItem removes an inventory item, if present.
func (s *Service) DeleteStorageItem(ctx context.Context, id string) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "delete_storage_item", EntityStorageItem, func(tx domain.Transaction) error {
		found = tx.DeleteStorageItem(id)
		return nil
	})
	return found, res, err
}

// DeleteStorageItemsAt bulk-removes inventory items by position.
func (s *Service) DeleteStorageItemsAt(ctx context.Context, indices []int) (int, Result, error) {
	var removed int
	res, _, err := s.run(ctx, "delete_storage_items_at", EntityStorageItem, func(tx domain.Transaction) error {
		removed = tx.DeleteStorageItemsAt(indices)
		return nil
	})
	return removed, res, err
}

// AddFarmEvent appends a scheduled event.
func (s *Service) AddFarmEvent(ctx context.Context, event FarmEvent) (FarmEvent, Result, error) {
	var created FarmEvent
	res, _, err := s.run(ctx, "add_farm_event", EntityFarmEvent, func(tx domain.Transaction) error {
		var err error
		created, err = tx.AddFarmEvent(event)
		return err
	})
	return created, res, err
}

// UpdateFarmEvent replaces an event; unknown identifiers no-op.
func (s *Service) UpdateFarmEvent(ctx context.Context, event FarmEvent) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "update_farm_event", EntityFarmEvent, func(tx domain.Transaction) error {
		found = tx.UpdateFarmEvent(event)
		return nil
	})
	return found, res, err
}

// DeleteFarmEvent removes an event, if present.
func (s *Service) DeleteFarmEvent(ctx context.Context, id string) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "delete_farm_event", EntityFarmEvent, func(tx domain.Transaction) error {
		found = tx.DeleteFarmEvent(id)
		return nil
	})
	return found, res, err
}

// DeleteFarmEventsAt bulk-removes events by position.
func (s *Service) DeleteFarmEventsAt(ctx context.Context, indices []int) (int, Result, error) {
	var removed int
	res, _, err := s.run(ctx, "delete_farm_events_at", EntityFarmEvent, func(tx domain.Transaction) error {
		removed = tx.DeleteFarmEventsAt(indices)
		return nil
	})
	return removed, res, err
}

// AddFarmboardItem appends a quick-add ledger entry.
func (s *Service) AddFarmboardItem(ctx context.Context, item FarmboardItem) (FarmboardItem, Result, error) {
	var created FarmboardItem
	res, _, err := s.run(ctx, "add_farmboard_item", EntityFarmboardItem, func(tx domain.Transaction) error {
		var err error
		created, err = tx.AddFarmboardItem(item)
		return err
	})
	return created, res, err
}

// UpdateFarmboardItem replaces a ledger entry; unknown identifiers no-op.
func (s *Service) UpdateFarmboardItem(ctx context.Context, item FarmboardItem) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "update_farmboard_item", EntityFarmboardItem, func(tx domain.Transaction) error {
		found = tx.UpdateFarmboardItem(item)
		return nil
	})
	return found, res, err
}

// DeleteFarmboardItem removes a ledger entry, if present.
func (s *Service) DeleteFarmboardItem(ctx context.Context, id string) (bool, Result, error) {
	var found bool
	res, _, err := s.run(ctx, "delete_farmboard_item", EntityFarmboardItem, func(tx domain.Transaction) error {
		found = tx.DeleteFarmboardItem(id)
		return nil
	})
	return found, res, err
}

// DeleteFarmboardItemsAt bulk-removes ledger entries by position.
func (s *Service) DeleteFarmboardItemsAt(ctx context.Context, indices []int) (int, Result, error) {
	var removed int
	res, _, err := s.run(ctx, "delete_farmboard_items_at", EntityFarmboardItem, func(tx domain.Transaction) error {
		removed = tx.DeleteFarmboardItemsAt(indices)
		return nil
	})
	return removed, res, err
}

// SweepExpiredFarmboard removes every farmboard item whose scheduled date has
// passed. The read path calls this before rendering; expiry is resolved
// lazily on access, not by a background timer. An empty sweep neither
// persists nor notifies.
func (s *Service) SweepExpiredFarmboard(ctx context.Context) ([]FarmboardItem, Result, error) {
	var removed []FarmboardItem
	res, _, err := s.run(ctx, "sweep_expired_farmboard", EntityFarmboardItem, func(tx domain.Transaction) error {
		removed = tx.SweepExpiredFarmboard()
		return nil
	})
	return removed, res, err
}

// UpdateSettings replaces the settings singleton wholesale and persists.
// There is no partial-field update path; callers round-trip the full object.
func (s *Service) UpdateSettings(ctx context.Context, settings AppSettings) (AppSettings, Result, error) {
	var applied AppSettings
	res, _, err := s.run(ctx, "update_settings", EntitySettings, func(tx domain.Transaction) error {
		applied = tx.ReplaceSettings(settings)
		return nil
	})
	return applied, res, err
}

// Settings returns the current settings singleton.
func (s *Service) Settings() AppSettings {
	return s.store.Settings()
}
