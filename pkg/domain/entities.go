// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by farmcore.
package domain

import (
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityTask identifies a journal task record.
	EntityTask EntityType = "task"
	// EntityCrop identifies a crop record.
	EntityCrop EntityType = "crop"
	// EntityAnimal identifies an animal record.
	EntityAnimal EntityType = "animal"
	// EntityProductionRecord identifies a production record.
	EntityProductionRecord EntityType = "production_record"
	// EntityWeightRecord identifies a weight-change record.
	EntityWeightRecord EntityType = "weight_record"
	// EntityStorageItem identifies a storage inventory record.
	EntityStorageItem EntityType = "storage_item"
	// EntityFarmEvent identifies a scheduled event record.
	EntityFarmEvent EntityType = "farm_event"
	// EntityFarmboardItem identifies a farmboard ledger record.
	EntityFarmboardItem EntityType = "farmboard_item"
	// EntitySettings identifies the settings singleton.
	EntitySettings EntityType = "settings"
)

// TaskPriority ranks tasks for display ordering.
type TaskPriority string

// Canonical task priorities.
const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskCategory classifies a task by the kind of farm activity it covers.
type TaskCategory string

// Canonical task categories.
const (
	CategoryPlanting    TaskCategory = "planting"
	CategoryIrrigation  TaskCategory = "irrigation"
	CategoryHarvesting  TaskCategory = "harvesting"
	CategoryMaintenance TaskCategory = "maintenance"
	CategoryFeeding     TaskCategory = "feeding"
	CategoryHealth      TaskCategory = "health"
	CategoryGeneral     TaskCategory = "general"
)

// CropStage represents the canonical crop growth states.
type CropStage string

// Canonical crop stages in growth order.
const (
	StagePlanted        CropStage = "planted"
	StageGerminating    CropStage = "germinating"
	StageGrowing        CropStage = "growing"
	StageFlowering      CropStage = "flowering"
	StageFruiting       CropStage = "fruiting"
	StageReadyToHarvest CropStage = "ready_to_harvest"
	StageHarvested      CropStage = "harvested"
)

// CropHealth describes the observed condition of a planting.
type CropHealth string

// Canonical crop health statuses.
const (
	CropHealthy        CropHealth = "healthy"
	CropNeedsAttention CropHealth = "needs_attention"
	CropDiseased       CropHealth = "diseased"
	CropPest           CropHealth = "pest"
	CropDrought        CropHealth = "drought"
)

// AnimalHealth describes the observed condition of an animal group.
type AnimalHealth string

// Canonical animal health statuses.
const (
	AnimalHealthy     AnimalHealth = "healthy"
	AnimalSick        AnimalHealth = "sick"
	AnimalInjured     AnimalHealth = "injured"
	AnimalPregnant    AnimalHealth = "pregnant"
	AnimalQuarantined AnimalHealth = "quarantined"
)

// ProductType enumerates the products recorded in production records.
type ProductType string

// Canonical product types.
const (
	ProductEggs  ProductType = "eggs"
	ProductMilk  ProductType = "milk"
	ProductMeat  ProductType = "meat"
	ProductWool  ProductType = "wool"
	ProductHoney ProductType = "honey"
)

// StorageCategory classifies inventory items.
type StorageCategory string

// Canonical storage categories.
const (
	StorageFeed       StorageCategory = "feed"
	StorageFertilizer StorageCategory = "fertilizer"
	StorageSeeds      StorageCategory = "seeds"
	StorageMedicine   StorageCategory = "medicine"
	StorageTools      StorageCategory = "tools"
	StorageSupplies   StorageCategory = "supplies"
)

// EventType classifies scheduled farm events.
type EventType string

// Canonical event types.
const (
	EventVaccination EventType = "vaccination"
	EventFeeding     EventType = "feeding"
	EventHarvest     EventType = "harvest"
	EventPlanting    EventType = "planting"
	EventMaintenance EventType = "maintenance"
	EventBreeding    EventType = "breeding"
	EventVeterinary  EventType = "veterinary"
	EventMarket      EventType = "market"
	EventOther       EventType = "other"
)

// FarmboardKind identifies what a farmboard ledger entry refers to.
type FarmboardKind string

// Canonical farmboard kinds.
const (
	BoardCrop   FarmboardKind = "crop"
	BoardAnimal FarmboardKind = "animal"
	BoardTask   FarmboardKind = "task"
	BoardEvent  FarmboardKind = "event"
)

// FarmboardStatus tracks the lifecycle of a farmboard ledger entry.
type FarmboardStatus string

// Canonical farmboard statuses.
const (
	BoardActive    FarmboardStatus = "active"
	BoardCompleted FarmboardStatus = "completed"
	BoardPending   FarmboardStatus = "pending"
	BoardArchived  FarmboardStatus = "archived"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine logging behavior. All farmcore rules
// are advisory: writes are never blocked.
const (
	// SeverityWarn surfaces a warning in the write result.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID returns the record identifier. Entities embed Base, so the method is
// promoted onto every entity value.
func (b Base) GetID() string { return b.ID }

// Task is a journal to-do entry.
type Task struct {
	Base
	Title       string       `json:"title"`
	Description string       `json:"description"`
	IsCompleted bool         `json:"is_completed"`
	DueDate     time.Time    `json:"due_date"`
	Priority    TaskPriority `json:"priority"`
	Category    TaskCategory `json:"category"`
}

// Crop tracks a planting from seed to harvest.
type Crop struct {
	Base
	Name          string     `json:"name"`
	Variety       string     `json:"variety"`
	PlantingArea  string     `json:"planting_area"`
	PlantedDate   time.Time  `json:"planted_date"`
	HarvestDate   time.Time  `json:"harvest_date"`
	Stage         CropStage  `json:"stage"`
	Health        CropHealth `json:"health"`
	Notes         string     `json:"notes"`
	HarvestAmount float64    `json:"harvest_amount"`
	Unit          string     `json:"unit"`
	Type          CropType   `json:"type"`
}

// Animal represents a species group (or individual) kept on the farm.
// Dependent production, weight, and event records join on its ID and are
// intentionally retained when the animal is deleted.
type Animal struct {
	Base
	Species        Species      `json:"species"`
	Breed          string       `json:"breed"`
	Name           *string      `json:"name,omitempty"`
	Count          int          `json:"count"`
	Age            string       `json:"age"`
	Health         AnimalHealth `json:"health"`
	LastVaccine    *time.Time   `json:"last_vaccine"`
	NextVaccine    *time.Time   `json:"next_vaccine"`
	Notes          string       `json:"notes"`
	IsHighProducer bool         `json:"is_high_producer"`
}

// ProductionRecord captures one yield entry (eggs collected, milk drawn, ...).
type ProductionRecord struct {
	Base
	Date     time.Time   `json:"date"`
	Product  ProductType `json:"product"`
	Amount   float64     `json:"amount"`
	Unit     string      `json:"unit"`
	AnimalID *string     `json:"animal_id"`
	Notes    string      `json:"notes"`
}

// WeightChangeRecord captures one weighing event. Delta is signed: gain
// positive, loss negative.
type WeightChangeRecord struct {
	Base
	AnimalID string    `json:"animal_id"`
	Date     time.Time `json:"date"`
	Delta    float64   `json:"delta"`
	Unit     string    `json:"unit"`
	Notes    string    `json:"notes"`
}

// IsGain reports whether the record encodes a weight gain.
func (w WeightChangeRecord) IsGain() bool { return w.Delta > 0 }

// StorageItem models an inventory position with a restock threshold.
type StorageItem struct {
	Base
	Name        string          `json:"name"`
	Category    StorageCategory `json:"category"`
	Current     float64         `json:"current_stock"`
	Minimum     float64         `json:"minimum_stock"`
	Unit        string          `json:"unit"`
	ExpiresAt   *time.Time      `json:"expires_at"`
	LastUpdated time.Time       `json:"last_updated"`
	Cost        float64         `json:"cost"`
	Supplier    string          `json:"supplier"`
}

// IsLowStock reports whether current stock has fallen to or below the
// configured minimum. Derived, never persisted.
func (s StorageItem) IsLowStock() bool { return s.Current <= s.Minimum }

// FarmEvent is a dated calendar entry, optionally linked to an animal or crop
// and optionally carrying a reminder timestamp for the external notification
// collaborator.
type FarmEvent struct {
	Base
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Date            time.Time  `json:"date"`
	Type            EventType  `json:"type"`
	IsCompleted     bool       `json:"is_completed"`
	ReminderDate    *time.Time `json:"reminder_date"`
	RelatedAnimalID *string    `json:"related_animal_id"`
	RelatedCropID   *string    `json:"related_crop_id"`
}

// FarmboardItem is a quick-add ledger entry. Entries with a scheduled date in
// the past are expired and removed by the read-path sweep.
type FarmboardItem struct {
	Base
	Name          string          `json:"name"`
	Kind          FarmboardKind   `json:"kind"`
	Quantity      float64         `json:"quantity"`
	Unit          string          `json:"unit"`
	Status        FarmboardStatus `json:"status"`
	Notes         string          `json:"notes"`
	ScheduledDate *time.Time      `json:"scheduled_date"`
}

// ExpiredAt reports whether the item's scheduled date has passed at the given
// instant. Items without a scheduled date never expire.
func (f FarmboardItem) ExpiredAt(now time.Time) bool {
	return f.ScheduledDate != nil && !f.ScheduledDate.After(now)
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity   EntityType
	EntityID string
	Action   Action
	Before   any
	After    any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured per write.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a rule finding attached to a write result.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// Warnings returns the subset of violations at warn severity.
func (r Result) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityWarn {
			out = append(out, v)
		}
	}
	return out
}
