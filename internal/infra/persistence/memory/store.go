// Package memory provides the in-memory implementation of the core
// persistence store. Durable backends embed it and snapshot its state.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"farmcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Task aliases domain.Task for in-memory persistence operations.
	Task = domain.Task
	// Crop aliases domain.Crop.
	Crop = domain.Crop
	// Animal aliases domain.Animal.
	Animal = domain.Animal
	// ProductionRecord aliases domain.ProductionRecord.
	ProductionRecord = domain.ProductionRecord
	// WeightChangeRecord aliases domain.WeightChangeRecord.
	WeightChangeRecord = domain.WeightChangeRecord
	// StorageItem aliases domain.StorageItem.
	StorageItem = domain.StorageItem
	// FarmEvent aliases domain.FarmEvent.
	FarmEvent = domain.FarmEvent
	// FarmboardItem aliases domain.FarmboardItem.
	FarmboardItem = domain.FarmboardItem
	// AppSettings aliases domain.AppSettings.
	AppSettings = domain.AppSettings
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate advisory rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore abstraction.
	PersistentStore = domain.PersistentStore
)

// memoryState holds every entity table in insertion order plus the settings
// singleton. Order is load-bearing: list reads return tables in insertion
// order and positional bulk deletes operate on it.
type memoryState struct {
	tasks      []Task
	crops      []Crop
	animals    []Animal
	production []ProductionRecord
	weights    []WeightChangeRecord
	storage    []StorageItem
	events     []FarmEvent
	farmboard  []FarmboardItem
	settings   *AppSettings
}

// Snapshot captures a point-in-time clone of the store state. JSON arrays
// preserve table order across a persistence round trip.
type Snapshot struct {
	Tasks      []Task               `json:"tasks"`
	Crops      []Crop               `json:"crops"`
	Animals    []Animal             `json:"animals"`
	Production []ProductionRecord   `json:"production_records"`
	Weights    []WeightChangeRecord `json:"weight_records"`
	Storage    []StorageItem        `json:"storage_items"`
	Events     []FarmEvent          `json:"farm_events"`
	Farmboard  []FarmboardItem      `json:"farmboard_items"`
	Settings   *AppSettings         `json:"settings,omitempty"`
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Tasks:      cloneSlice(state.tasks, cloneTask),
		Crops:      cloneSlice(state.crops, cloneCrop),
		Animals:    cloneSlice(state.animals, cloneAnimal),
		Production: cloneSlice(state.production, cloneProduction),
		Weights:    cloneSlice(state.weights, cloneWeight),
		Storage:    cloneSlice(state.storage, cloneStorageItem),
		Events:     cloneSlice(state.events, cloneEvent),
		Farmboard:  cloneSlice(state.farmboard, cloneFarmboardItem),
	}
	if state.settings != nil {
		cp := *state.settings
		s.Settings = &cp
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := memoryState{
		tasks:      cloneSlice(s.Tasks, cloneTask),
		crops:      cloneSlice(s.Crops, cloneCrop),
		animals:    cloneSlice(s.Animals, cloneAnimal),
		production: cloneSlice(s.Production, cloneProduction),
		weights:    cloneSlice(s.Weights, cloneWeight),
		storage:    cloneSlice(s.Storage, cloneStorageItem),
		events:     cloneSlice(s.Events, cloneEvent),
		farmboard:  cloneSlice(s.Farmboard, cloneFarmboardItem),
	}
	if s.Settings != nil {
		cp := *s.Settings
		state.settings = &cp
	}
	return state
}

// migrateSnapshot normalizes decoded snapshots: duplicate identifiers within a
// table are dropped (first occurrence wins) so the uniqueness invariant holds
// even for hand-edited or partially corrupted payloads.
func migrateSnapshot(snapshot Snapshot) Snapshot {
	snapshot.Tasks = dedupeByID(snapshot.Tasks, func(v Task) string { return v.ID })
	snapshot.Crops = dedupeByID(snapshot.Crops, func(v Crop) string { return v.ID })
	snapshot.Animals = dedupeByID(snapshot.Animals, func(v Animal) string { return v.ID })
	snapshot.Production = dedupeByID(snapshot.Production, func(v ProductionRecord) string { return v.ID })
	snapshot.Weights = dedupeByID(snapshot.Weights, func(v WeightChangeRecord) string { return v.ID })
	snapshot.Storage = dedupeByID(snapshot.Storage, func(v StorageItem) string { return v.ID })
	snapshot.Events = dedupeByID(snapshot.Events, func(v FarmEvent) string { return v.ID })
	snapshot.Farmboard = dedupeByID(snapshot.Farmboard, func(v FarmboardItem) string { return v.ID })
	return snapshot
}

func (s memoryState) clone() memoryState {
	cloned := memoryState{
		tasks:      cloneSlice(s.tasks, cloneTask),
		crops:      cloneSlice(s.crops, cloneCrop),
		animals:    cloneSlice(s.animals, cloneAnimal),
		production: cloneSlice(s.production, cloneProduction),
		weights:    cloneSlice(s.weights, cloneWeight),
		storage:    cloneSlice(s.storage, cloneStorageItem),
		events:     cloneSlice(s.events, cloneEvent),
		farmboard:  cloneSlice(s.farmboard, cloneFarmboardItem),
	}
	if s.settings != nil {
		cp := *s.settings
		cloned.settings = &cp
	}
	return cloned
}

func cloneSlice[T any](items []T, clone func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, v := range items {
		out[i] = clone(v)
	}
	return out
}

func cloneTask(t Task) Task { return t }
func cloneCrop(c Crop) Crop { return c }

func cloneAnimal(a Animal) Animal {
	cp := a
	cp.Name = cloneStringPtr(a.Name)
	cp.LastVaccine = cloneTimePtr(a.LastVaccine)
	cp.NextVaccine = cloneTimePtr(a.NextVaccine)
	return cp
}

func cloneProduction(p ProductionRecord) ProductionRecord {
	cp := p
	cp.AnimalID = cloneStringPtr(p.AnimalID)
	return cp
}

func cloneWeight(w WeightChangeRecord) WeightChangeRecord { return w }

func cloneStorageItem(s StorageItem) StorageItem {
	cp := s
	cp.ExpiresAt = cloneTimePtr(s.ExpiresAt)
	return cp
}

func cloneEvent(e FarmEvent) FarmEvent {
	cp := e
	cp.ReminderDate = cloneTimePtr(e.ReminderDate)
	cp.RelatedAnimalID = cloneStringPtr(e.RelatedAnimalID)
	cp.RelatedCropID = cloneStringPtr(e.RelatedCropID)
	return cp
}

func cloneFarmboardItem(f FarmboardItem) FarmboardItem {
	cp := f
	cp.ScheduledDate = cloneTimePtr(f.ScheduledDate)
	return cp
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneTimePtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func indexByID[T any](items []T, id string, idOf func(T) string) int {
	for i, v := range items {
		if idOf(v) == id {
			return i
		}
	}
	return -1
}

func dedupeByID[T any](items []T, idOf func(T) string) []T {
	if len(items) <= 1 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, v := range items {
		id := idOf(v)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, v)
	}
	return out
}

// removeAt deletes the given positions from items, ignoring out-of-range
// indices, and reports how many records were removed.
func removeAt[T any](items []T, indices []int) ([]T, []T) {
	if len(indices) == 0 {
		return items, nil
	}
	drop := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(items) {
			drop[idx] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return items, nil
	}
	kept := make([]T, 0, len(items)-len(drop))
	removed := make([]T, 0, len(drop))
	for i, v := range items {
		if _, ok := drop[i]; ok {
			removed = append(removed, v)
			continue
		}
		kept = append(kept, v)
	}
	return kept, removed
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc overrides the time provider. Intended for tests that pin the
// clock for window-boundary assertions.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		s.nowFn = fn
	}
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

// transactionView exposes a read-only snapshot of transactional state.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// ListTasks returns all tasks in table order.
func (v transactionView) ListTasks() []Task { return cloneSlice(v.state.tasks, cloneTask) }

// ListCrops returns all crops in table order.
func (v transactionView) ListCrops() []Crop { return cloneSlice(v.state.crops, cloneCrop) }

// ListAnimals returns all animals in table order.
func (v transactionView) ListAnimals() []Animal { return cloneSlice(v.state.animals, cloneAnimal) }

// ListProductionRecords returns all production records in table order.
func (v transactionView) ListProductionRecords() []ProductionRecord {
	return cloneSlice(v.state.production, cloneProduction)
}

// ListWeightRecords returns all weight-change records in table order.
func (v transactionView) ListWeightRecords() []WeightChangeRecord {
	return cloneSlice(v.state.weights, cloneWeight)
}

// ListStorageItems returns all storage items in table order.
func (v transactionView) ListStorageItems() []StorageItem {
	return cloneSlice(v.state.storage, cloneStorageItem)
}

// ListFarmEvents returns all events in table order.
func (v transactionView) ListFarmEvents() []FarmEvent { return cloneSlice(v.state.events, cloneEvent) }

// ListFarmboardItems returns all farmboard entries in table order.
func (v transactionView) ListFarmboardItems() []FarmboardItem {
	return cloneSlice(v.state.farmboard, cloneFarmboardItem)
}

// FindTask retrieves a task by ID.
func (v transactionView) FindTask(id string) (Task, bool) {
	if i := indexByID(v.state.tasks, id, func(t Task) string { return t.ID }); i >= 0 {
		return cloneTask(v.state.tasks[i]), true
	}
	return Task{}, false
}

// FindCrop retrieves a crop by ID.
func (v transactionView) FindCrop(id string) (Crop, bool) {
	if i := indexByID(v.state.crops, id, func(c Crop) string { return c.ID }); i >= 0 {
		return cloneCrop(v.state.crops[i]), true
	}
	return Crop{}, false
}

// FindAnimal retrieves an animal by ID.
func (v transactionView) FindAnimal(id string) (Animal, bool) {
	if i := indexByID(v.state.animals, id, func(a Animal) string { return a.ID }); i >= 0 {
		return cloneAnimal(v.state.animals[i]), true
	}
	return Animal{}, false
}

// FindStorageItem retrieves a storage item by ID.
func (v transactionView) FindStorageItem(id string) (StorageItem, bool) {
	if i := indexByID(v.state.storage, id, func(s StorageItem) string { return s.ID }); i >= 0 {
		return cloneStorageItem(v.state.storage[i]), true
	}
	return StorageItem{}, false
}

// FindFarmEvent retrieves an event by ID.
func (v transactionView) FindFarmEvent(id string) (FarmEvent, bool) {
	if i := indexByID(v.state.events, id, func(e FarmEvent) string { return e.ID }); i >= 0 {
		return cloneEvent(v.state.events[i]), true
	}
	return FarmEvent{}, false
}

// FindFarmboardItem retrieves a farmboard entry by ID.
func (v transactionView) FindFarmboardItem(id string) (FarmboardItem, bool) {
	if i := indexByID(v.state.farmboard, id, func(f FarmboardItem) string { return f.ID }); i >= 0 {
		return cloneFarmboardItem(v.state.farmboard[i]), true
	}
	return FarmboardItem{}, false
}

// Settings returns the settings singleton, falling back to defaults when no
// record has been stored yet.
func (v transactionView) Settings() AppSettings {
	if v.state.settings == nil {
		return domain.DefaultSettings()
	}
	return *v.state.settings
}

// Apply executes fn within a transactional copy of the store state and
// returns the change set it produced. Advisory rules are evaluated against
// the resulting state; their findings are returned but never block the
// commit. An empty change set means the state was not swapped.
func (s *Store) Apply(ctx context.Context, fn func(tx Transaction) error) ([]Change, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return nil, Result{}, err
	}
	if len(tx.changes) == 0 {
		return nil, Result{}, nil
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return nil, Result{}, err
		}
		result = res
	}

	s.state = tx.state
	return tx.changes, result, nil
}

// RunInTransaction executes fn like Apply, discarding the change set.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	_, res, err := s.Apply(ctx, fn)
	return res, err
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

type identifiable interface {
	GetID() string
}

func (tx *transaction) recordChange(change Change) {
	if change.EntityID == "" {
		if v, ok := change.After.(identifiable); ok {
			change.EntityID = v.GetID()
		} else if v, ok := change.Before.(identifiable); ok {
			change.EntityID = v.GetID()
		}
	}
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// AddTask appends a task, assigning an identifier when absent.
func (tx *transaction) AddTask(t Task) (Task, error) {
	if t.ID == "" {
		t.ID = tx.store.newID()
	}
	if indexByID(tx.state.tasks, t.ID, func(v Task) string { return v.ID }) >= 0 {
		return Task{}, fmt.Errorf("task %q already exists", t.ID)
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	tx.state.tasks = append(tx.state.tasks, cloneTask(t))
	tx.recordChange(Change{Entity: domain.EntityTask, Action: domain.ActionCreate, After: cloneTask(t)})
	return cloneTask(t), nil
}

// UpdateTask replaces a task in place. Unknown identifiers no-op.
func (tx *transaction) UpdateTask(t Task) bool {
	i := indexByID(tx.state.tasks, t.ID, func(v Task) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneTask(tx.state.tasks[i])
	t.CreatedAt = before.CreatedAt
	t.UpdatedAt = tx.now
	tx.state.tasks[i] = cloneTask(t)
	tx.recordChange(Change{Entity: domain.EntityTask, Action: domain.ActionUpdate, Before: before, After: cloneTask(t)})
	return true
}

// DeleteTask removes the first task with a matching identifier.
func (tx *transaction) DeleteTask(id string) bool {
	i := indexByID(tx.state.tasks, id, func(v Task) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneTask(tx.state.tasks[i])
	tx.state.tasks = append(tx.state.tasks[:i], tx.state.tasks[i+1:]...)
	tx.recordChange(Change{Entity: domain.EntityTask, Action: domain.ActionDelete, Before: before})
	return true
}

// DeleteTasksAt bulk-removes tasks by position.
func (tx *transaction) DeleteTasksAt(indices []int) int {
	kept, removed := removeAt(tx.state.tasks, indices)
	tx.state.tasks = kept
	for _, v := range removed {
		tx.recordChange(Change{Entity: domain.EntityTask, Action: domain.ActionDelete, Before: cloneTask(v)})
	}
	return len(removed)
}

// AddCrop appends a crop, assigning an identifier when absent.
func (tx *transaction) AddCrop(c Crop) (Crop, error) {
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if indexByID(tx.state.crops, c.ID, func(v Crop) string { return v.ID }) >= 0 {
		return Crop{}, fmt.Errorf("crop %q already exists", c.ID)
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.crops = append(tx.state.crops, cloneCrop(c))
	tx.recordChange(Change{Entity: domain.EntityCrop, Action: domain.ActionCreate, After: cloneCrop(c)})
	return cloneCrop(c), nil
}

// UpdateCrop replaces a crop in place. Unknown identifiers no-op.
func (tx *transaction) UpdateCrop(c Crop) bool {
	i := indexByID(tx.state.crops, c.ID, func(v Crop) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneCrop(tx.state.crops[i])
	c.CreatedAt = before.CreatedAt
	c.UpdatedAt = tx.now
	tx.state.crops[i] = cloneCrop(c)
	tx.recordChange(Change{Entity: domain.EntityCrop, Action: domain.ActionUpdate, Before: before, After: cloneCrop(c)})
	return true
}

// DeleteCrop removes the first crop with a matching identifier.
func (tx *transaction) DeleteCrop(id string) bool {
	i := indexByID(tx.state.crops, id, func(v Crop) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneCrop(tx.state.crops[i])
	tx.state.crops = append(tx.state.crops[:i], tx.state.crops[i+1:]...)
	tx.recordChange(Change{Entity: domain.EntityCrop, Action: domain.ActionDelete, Before: before})
	return true
}

// DeleteCropsAt bulk-removes crops by position.
func (tx *transaction) DeleteCropsAt(indices []int) int {
	kept, removed := removeAt(tx.state.crops, indices)
	tx.state.crops = kept
	for _, v := range removed {
		tx.recordChange(Change{Entity: domain.EntityCrop, Action: domain.ActionDelete, Before: cloneCrop(v)})
	}
	return len(removed)
}

// AddAnimal appends an animal, assigning an identifier when absent.
func (tx *transaction) AddAnimal(a Animal) (Animal, error) {
	if a.ID == "" {
		a.ID = tx.store.newID()
	}
	if indexByID(tx.state.animals, a.ID, func(v Animal) string { return v.ID }) >= 0 {
		return Animal{}, fmt.Errorf("animal %q already exists", a.ID)
	}
	a.CreatedAt = tx.now
	a.UpdatedAt = tx.now
	tx.state.animals = append(tx.state.animals, cloneAnimal(a))
	tx.recordChange(Change{Entity: domain.EntityAnimal, Action: domain.ActionCreate, After: cloneAnimal(a)})
	return cloneAnimal(a), nil
}

// UpdateAnimal replaces an animal in place. Unknown identifiers no-op.
func (tx *transaction) UpdateAnimal(a Animal) bool {
	i := indexByID(tx.state.animals, a.ID, func(v Animal) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneAnimal(tx.state.animals[i])
	a.CreatedAt = before.CreatedAt
	a.UpdatedAt = tx.now
	tx.state.animals[i] = cloneAnimal(a)
	tx.recordChange(Change{Entity: domain.EntityAnimal, Action: domain.ActionUpdate, Before: before, After: cloneAnimal(a)})
	return true
}

// DeleteAnimal removes the first animal with a matching identifier. Dependent
// production, weight, and event records are retained; the orphaned-references
// rule reports them in the write result.
func (tx *transaction) DeleteAnimal(id string) bool {
	i := indexByID(tx.state.animals, id, func(v Animal) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneAnimal(tx.state.animals[i])
	tx.state.animals = append(tx.state.animals[:i], tx.state.animals[i+1:]...)
	tx.recordChange(Change{Entity: domain.EntityAnimal, Action: domain.ActionDelete, Before: before})
	return true
}

// DeleteAnimalsAt bulk-removes animals by position.
func (tx *transaction) DeleteAnimalsAt(indices []int) int {
	kept, removed := removeAt(tx.state.animals, indices)
	tx.state.animals = kept
	for _, v := range removed {
		tx.recordChange(Change{Entity: domain.EntityAnimal, Action: domain.ActionDelete, Before: cloneAnimal(v)})
	}
	return len(removed)
}

// AddProductionRecord appends a production record, assigning an identifier when absent.
func (tx *transaction) AddProductionRecord(p ProductionRecord) (ProductionRecord, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if indexByID(tx.state.production, p.ID, func(v ProductionRecord) string { return v.ID }) >= 0 {
		return ProductionRecord{}, fmt.Errorf("production record %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.production = append(tx.state.production, cloneProduction(p))
	tx.recordChange(Change{Entity: domain.EntityProductionRecord, Action: domain.ActionCreate, After: cloneProduction(p)})
	return cloneProduction(p), nil
}

// UpdateProductionRecord replaces a production record in place. Unknown identifiers no-op.
func (tx *transaction) UpdateProductionRecord(p ProductionRecord) bool {
	i := indexByID(tx.state.production, p.ID, func(v ProductionRecord) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneProduction(tx.state.production[i])
	p.CreatedAt = before.CreatedAt
	p.UpdatedAt = tx.now
	tx.state.production[i] = cloneProduction(p)
	tx.recordChange(Change{Entity: domain.EntityProductionRecord, Action: domain.ActionUpdate, Before: before, After: cloneProduction(p)})
	return true
}

// DeleteProductionRecord removes the first production record with a matching identifier.
func (tx *transaction) DeleteProductionRecord(id string) bool {
	i := indexByID(tx.state.production, id, func(v ProductionRecord) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneProduction(tx.state.production[i])
	tx.state.production = append(tx.state.production[:i], tx.state.production[i+1:]...)
	tx.recordChange(Change{Entity: domain.EntityProductionRecord, Action: domain.ActionDelete, Before: before})
	return true
}

// DeleteProductionRecordsAt bulk-removes production records by position.
func (tx *transaction) DeleteProductionRecordsAt(indices []int) int {
	kept, removed := removeAt(tx.state.production, indices)
	tx.state.production = kept
	for _, v := range removed {
		tx.recordChange(Change{Entity: domain.EntityProductionRecord, Action: domain.ActionDelete, Before: cloneProduction(v)})
	}
	return len(removed)
}

// AddWeightRecord appends a weight-change record, assigning an identifier when absent.
func (tx *transaction) AddWeightRecord(w WeightChangeRecord) (WeightChangeRecord, error) {
	if w.ID == "" {
		w.ID = tx.store.newID()
	}
	if indexByID(tx.state.weights, w.ID, func(v WeightChangeRecord) string { return v.ID }) >= 0 {
		return WeightChangeRecord{}, fmt.Errorf("weight record %q already exists", w.ID)
	}
	w.CreatedAt = tx.now
	w.UpdatedAt = tx.now
	tx.state.weights = append(tx.state.weights, cloneWeight(w))
	tx.recordChange(Change{Entity: domain.EntityWeightRecord, Action: domain.ActionCreate, After: cloneWeight(w)})
	return cloneWeight(w), nil
}

// UpdateWeightRecord replaces a weight record in place. Unknown identifiers no-op.
func (tx *transaction) UpdateWeightRecord(w WeightChangeRecord) bool {
	i := indexByID(tx.state.weights, w.ID, func(v WeightChangeRecord) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneWeight(tx.state.weights[i])
	w.CreatedAt = before.CreatedAt
	w.UpdatedAt = tx.now
	tx.state.weights[i] = cloneWeight(w)
	tx.recordChange(Change{Entity: domain.EntityWeightRecord, Action: domain.ActionUpdate, Before: before, After: cloneWeight(w)})
	return true
}

// DeleteWeightRecord removes the first weight record with a matching identifier.
func (tx *transaction) DeleteWeightRecord(id string) bool {
	i := indexByID(tx.state.weights, id, func(v WeightChangeRecord) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneWeight(tx.state.weights[i])
	tx.state.weights = append(tx.state.weights[:i], tx.state.weights[i+1:]...)
	tx.recordChange(Change{Entity: domain.EntityWeightRecord, Action: domain.ActionDelete, Before: before})
	return true
}

// DeleteWeightRecordsAt bulk-removes weight records by position.
func (tx *transaction) DeleteWeightRecordsAt(indices []int) int {
	kept, removed := removeAt(tx.state.weights, indices)
	tx.state.weights = kept
	for _, v := range removed {
		tx.recordChange(Change{Entity: domain.EntityWeightRecord, Action: domain.ActionDelete, Before: cloneWeight(v)})
	}
	return len(removed)
}

// AddStorageItem appends a storage item, assigning an identifier when absent.
func (tx *transaction) AddStorageItem(s StorageItem) (StorageItem, error) {
	if s.ID == "" {
		s.ID = tx.store.newID()
	}
	if indexByID(tx.state.storage, s.ID, func(v StorageItem) string { return v.ID }) >= 0 {
		return StorageItem{}, fmt.Errorf("storage item %q already exists", s.ID)
	}
	s.CreatedAt = tx.now
	s.UpdatedAt = tx.now
	s.LastUpdated = tx.now
	tx.state.storage = append(tx.state.storage, cloneStorageItem(s))
	tx.recordChange(Change{Entity: domain.EntityStorageItem, Action: domain.ActionCreate, After: cloneStorageItem(s)})
	return cloneStorageItem(s), nil
}

// UpdateStorageItem replaces a storage item in place. Unknown identifiers no-op.
func (tx *transaction) UpdateStorageItem(s StorageItem) bool {
	i := indexByID(tx.state.storage, s.ID, func(v StorageItem) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneStorageItem(tx.state.storage[i])
	s.CreatedAt = before.CreatedAt
	s.UpdatedAt = tx.now
	s.LastUpdated = tx.now
	tx.state.storage[i] = cloneStorageItem(s)
	tx.recordChange(Change{Entity: domain.EntityStorageItem, Action: domain.ActionUpdate, Before: before, After: cloneStorageItem(s)})
	return true
}

// DeleteStorageItem removes the first storage item with a matching identifier.
func (tx *transaction) DeleteStorageItem(id string) bool {
	i := indexByID(tx.state.storage, id, func(v StorageItem) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneStorageItem(tx.state.storage[i])
	tx.state.storage = append(tx.state.storage[:i], tx.state.storage[i+1:]...)
	tx.recordChange(Change{Entity: domain.EntityStorageItem, Action: domain.ActionDelete, Before: before})
	return true
}

// DeleteStorageItemsAt bulk-removes storage items by position.
func (tx *transaction) DeleteStorageItemsAt(indices []int) int {
	kept, removed := removeAt(tx.state.storage, indices)
	tx.state.storage = kept
	for _, v := range removed {
		tx.recordChange(Change{Entity: domain.EntityStorageItem, Action: domain.ActionDelete, Before: cloneStorageItem(v)})
	}
	return len(removed)
}

// AddFarmEvent appends an event, assigning an identifier when absent.
func (tx *transaction) AddFarmEvent(e FarmEvent) (FarmEvent, error) {
	if e.ID == "" {
		e.ID = tx.store.newID()
	}
	if indexByID(tx.state.events, e.ID, func(v FarmEvent) string { return v.ID }) >= 0 {
		return FarmEvent{}, fmt.Errorf("farm event %q already exists", e.ID)
	}
	e.CreatedAt = tx.now
	e.UpdatedAt = tx.now
	tx.state.events = append(tx.state.events, cloneEvent(e))
	tx.recordChange(Change{Entity: domain.EntityFarmEvent, Action: domain.ActionCreate, After: cloneEvent(e)})
	return cloneEvent(e), nil
}

// UpdateFarmEvent replaces an event in place. Unknown identifiers no-op.
func (tx *transaction) UpdateFarmEvent(e FarmEvent) bool {
	i := indexByID(tx.state.events, e.ID, func(v FarmEvent) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneEvent(tx.state.events[i])
	e.CreatedAt = before.CreatedAt
	e.UpdatedAt = tx.now
	tx.state.events[i] = cloneEvent(e)
	tx.recordChange(Change{Entity: domain.EntityFarmEvent, Action: domain.ActionUpdate, Before: before, After: cloneEvent(e)})
	return true
}

// DeleteFarmEvent removes the first event with a matching identifier.
func (tx *transaction) DeleteFarmEvent(id string) bool {
	i := indexByID(tx.state.events, id, func(v FarmEvent) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneEvent(tx.state.events[i])
	tx.state.events = append(tx.state.events[:i], tx.state.events[i+1:]...)
	tx.recordChange(Change{Entity: domain.EntityFarmEvent, Action: domain.ActionDelete, Before: before})
	return true
}

// DeleteFarmEventsAt bulk-removes events by position.
func (tx *transaction) DeleteFarmEventsAt(indices []int) int {
	kept, removed := removeAt(tx.state.events, indices)
	tx.state.events = kept
	for _, v := range removed {
		tx.recordChange(Change{Entity: domain.EntityFarmEvent, Action: domain.ActionDelete, Before: cloneEvent(v)})
	}
	return len(removed)
}

// AddFarmboardItem appends a farmboard entry, assigning an identifier when absent.
func (tx *transaction) AddFarmboardItem(f FarmboardItem) (FarmboardItem, error) {
	if f.ID == "" {
		f.ID = tx.store.newID()
	}
	if indexByID(tx.state.farmboard, f.ID, func(v FarmboardItem) string { return v.ID }) >= 0 {
		return FarmboardItem{}, fmt.Errorf("farmboard item %q already exists", f.ID)
	}
	f.CreatedAt = tx.now
	f.UpdatedAt = tx.now
	tx.state.farmboard = append(tx.state.farmboard, cloneFarmboardItem(f))
	tx.recordChange(Change{Entity: domain.EntityFarmboardItem, Action: domain.ActionCreate, After: cloneFarmboardItem(f)})
	return cloneFarmboardItem(f), nil
}

// UpdateFarmboardItem replaces a farmboard entry in place. Unknown identifiers no-op.
func (tx *transaction) UpdateFarmboardItem(f FarmboardItem) bool {
	i := indexByID(tx.state.farmboard, f.ID, func(v FarmboardItem) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneFarmboardItem(tx.state.farmboard[i])
	f.CreatedAt = before.CreatedAt
	f.UpdatedAt = tx.now
	tx.state.farmboard[i] = cloneFarmboardItem(f)
	tx.recordChange(Change{Entity: domain.EntityFarmboardItem, Action: domain.ActionUpdate, Before: before, After: cloneFarmboardItem(f)})
	return true
}

// DeleteFarmboardItem removes the first farmboard entry with a matching identifier.
func (tx *transaction) DeleteFarmboardItem(id string) bool {
	i := indexByID(tx.state.farmboard, id, func(v FarmboardItem) string { return v.ID })
	if i < 0 {
		return false
	}
	before := cloneFarmboardItem(tx.state.farmboard[i])
	tx.state.farmboard = append(tx.state.farmboard[:i], tx.state.farmboard[i+1:]...)
	tx.recordChange(Change{Entity: domain.EntityFarmboardItem, Action: domain.ActionDelete, Before: before})
	return true
}

// DeleteFarmboardItemsAt bulk-removes farmboard entries by position.
func (tx *transaction) DeleteFarmboardItemsAt(indices []int) int {
	kept, removed := removeAt(tx.state.farmboard, indices)
	tx.state.farmboard = kept
	for _, v := range removed {
		tx.recordChange(Change{Entity: domain.EntityFarmboardItem, Action: domain.ActionDelete, Before: cloneFarmboardItem(v)})
	}
	return len(removed)
}

// SweepExpiredFarmboard removes every expired farmboard entry at the
// transaction timestamp and returns the removed items in table order.
func (tx *transaction) SweepExpiredFarmboard() []FarmboardItem {
	var expired []int
	for i, item := range tx.state.farmboard {
		if item.ExpiredAt(tx.now) {
			expired = append(expired, i)
		}
	}
	kept, removed := removeAt(tx.state.farmboard, expired)
	tx.state.farmboard = kept
	for _, v := range removed {
		tx.recordChange(Change{Entity: domain.EntityFarmboardItem, Action: domain.ActionDelete, Before: cloneFarmboardItem(v)})
	}
	return removed
}

// ReplaceSettings swaps the settings singleton wholesale.
func (tx *transaction) ReplaceSettings(settings AppSettings) AppSettings {
	var before any
	if tx.state.settings != nil {
		before = *tx.state.settings
	}
	cp := settings
	tx.state.settings = &cp
	tx.recordChange(Change{Entity: domain.EntitySettings, Action: domain.ActionUpdate, Before: before, After: settings})
	return settings
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).FindTask(id)
}

// ListTasks returns all tasks in table order.
func (s *Store) ListTasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.tasks, cloneTask)
}

// GetCrop retrieves a crop by ID.
func (s *Store) GetCrop(id string) (Crop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).FindCrop(id)
}

// ListCrops returns all crops in table order.
func (s *Store) ListCrops() []Crop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.crops, cloneCrop)
}

// GetAnimal retrieves an animal by ID.
func (s *Store) GetAnimal(id string) (Animal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).FindAnimal(id)
}

// ListAnimals returns all animals in table order.
func (s *Store) ListAnimals() []Animal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.animals, cloneAnimal)
}

// ListProductionRecords returns all production records in table order.
func (s *Store) ListProductionRecords() []ProductionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.production, cloneProduction)
}

// ListWeightRecords returns all weight-change records in table order.
func (s *Store) ListWeightRecords() []WeightChangeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.weights, cloneWeight)
}

// ListStorageItems returns all storage items in table order.
func (s *Store) ListStorageItems() []StorageItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.storage, cloneStorageItem)
}

// ListFarmEvents returns all events in table order.
func (s *Store) ListFarmEvents() []FarmEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.events, cloneEvent)
}

// ListFarmboardItems returns all farmboard entries in table order.
func (s *Store) ListFarmboardItems() []FarmboardItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.farmboard, cloneFarmboardItem)
}

// Settings returns the settings singleton or its defaults.
func (s *Store) Settings() AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.settings == nil {
		return domain.DefaultSettings()
	}
	return *s.state.settings
}

// SortEventsAscending orders events by date, oldest first, preserving table
// order for equal dates.
func SortEventsAscending(events []FarmEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
}

// SortEventsDescending orders events by date, newest first, preserving table
// order for equal dates.
func SortEventsDescending(events []FarmEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.After(events[j].Date) })
}
