package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. Add operations assign identifiers when
// the caller has not supplied one. Update and Delete report whether a matching
// record existed; an unknown identifier is a silent no-op, never an error.
type Transaction interface {
	Snapshot() TransactionView

	AddTask(Task) (Task, error)
	UpdateTask(Task) bool
	DeleteTask(id string) bool
	DeleteTasksAt(indices []int) int

	AddCrop(Crop) (Crop, error)
	UpdateCrop(Crop) bool
	DeleteCrop(id string) bool
	DeleteCropsAt(indices []int) int

	AddAnimal(Animal) (Animal, error)
	UpdateAnimal(Animal) bool
	DeleteAnimal(id string) bool
	DeleteAnimalsAt(indices []int) int

	AddProductionRecord(ProductionRecord) (ProductionRecord, error)
	UpdateProductionRecord(ProductionRecord) bool
	DeleteProductionRecord(id string) bool
	DeleteProductionRecordsAt(indices []int) int

	AddWeightRecord(WeightChangeRecord) (WeightChangeRecord, error)
	UpdateWeightRecord(WeightChangeRecord) bool
	DeleteWeightRecord(id string) bool
	DeleteWeightRecordsAt(indices []int) int

	AddStorageItem(StorageItem) (StorageItem, error)
	UpdateStorageItem(StorageItem) bool
	DeleteStorageItem(id string) bool
	DeleteStorageItemsAt(indices []int) int

	AddFarmEvent(FarmEvent) (FarmEvent, error)
	UpdateFarmEvent(FarmEvent) bool
	DeleteFarmEvent(id string) bool
	DeleteFarmEventsAt(indices []int) int

	AddFarmboardItem(FarmboardItem) (FarmboardItem, error)
	UpdateFarmboardItem(FarmboardItem) bool
	DeleteFarmboardItem(id string) bool
	DeleteFarmboardItemsAt(indices []int) int

	// SweepExpiredFarmboard removes every farmboard item whose scheduled date
	// has passed at the transaction timestamp and returns the removed items in
	// table order.
	SweepExpiredFarmboard() []FarmboardItem

	// ReplaceSettings swaps the settings singleton wholesale.
	ReplaceSettings(AppSettings) AppSettings
}

// TransactionView provides read-only access to snapshot data. Tables are
// returned in insertion order.
type TransactionView interface {
	ListTasks() []Task
	ListCrops() []Crop
	ListAnimals() []Animal
	ListProductionRecords() []ProductionRecord
	ListWeightRecords() []WeightChangeRecord
	ListStorageItems() []StorageItem
	ListFarmEvents() []FarmEvent
	ListFarmboardItems() []FarmboardItem
	FindTask(id string) (Task, bool)
	FindCrop(id string) (Crop, bool)
	FindAnimal(id string) (Animal, bool)
	FindStorageItem(id string) (StorageItem, bool)
	FindFarmEvent(id string) (FarmEvent, bool)
	FindFarmboardItem(id string) (FarmboardItem, bool)
	Settings() AppSettings
}

// RuleView is the read surface handed to rules during evaluation.
type RuleView = TransactionView

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
//
/// Apply is the primary write path: it reports the change set a transaction
// produced so callers can notify observers once per completed write and skip
// persistence entirely for no-op scopes. RunInTransaction is a convenience
// wrapper that discards the change set.
type PersistentStore interface {
	Apply(ctx context.Context, fn func(Transaction) error) ([]Change, Result, error)
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ListTasks() []Task
	ListCrops() []Crop
	ListAnimals() []Animal
	ListProductionRecords() []ProductionRecord
	ListWeightRecords() []WeightChangeRecord
	ListStorageItems() []StorageItem
	ListFarmEvents() []FarmEvent
	ListFarmboardItems() []FarmboardItem
	GetAnimal(id string) (Animal, bool)
	GetCrop(id string) (Crop, bool)
	Settings() AppSettings
}
