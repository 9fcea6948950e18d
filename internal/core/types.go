package core

import "farmcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Base               = domain.Base
	Task               = domain.Task
	Crop               = domain.Crop
	Animal             = domain.Animal
	ProductionRecord   = domain.ProductionRecord
	WeightChangeRecord = domain.WeightChangeRecord
	StorageItem        = domain.StorageItem
	FarmEvent          = domain.FarmEvent
	FarmboardItem      = domain.FarmboardItem
	AppSettings        = domain.AppSettings
	Species            = domain.Species
	ProductType        = domain.ProductType
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
)

const (
	EntityTask             = domain.EntityTask
	EntityCrop             = domain.EntityCrop
	EntityAnimal           = domain.EntityAnimal
	EntityProductionRecord = domain.EntityProductionRecord
	EntityWeightRecord     = domain.EntityWeightRecord
	EntityStorageItem      = domain.EntityStorageItem
	EntityFarmEvent        = domain.EntityFarmEvent
	EntityFarmboardItem    = domain.EntityFarmboardItem
	EntitySettings         = domain.EntitySettings
)

const (
	SeverityWarn = domain.SeverityWarn
	SeverityLog  = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
