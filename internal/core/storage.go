package core

import (
	"fmt"
	"os"

	"farmcore/internal/infra/persistence/memory"
	"farmcore/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

type (
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
)

// NewRulesEngine re-exports the domain constructor for callers wiring storage.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	FARMCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	FARMCORE_SQLITE_PATH: path to sqlite file (default ./farmcore.db)
//	FARMCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore(engine *RulesEngine) (PersistentStore, error) {
	driver := os.Getenv("FARMCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		path := os.Getenv("FARMCORE_SQLITE_PATH")
		return NewSQLiteStore(path, engine)
	case StoragePostgres:
		dsn := os.Getenv("FARMCORE_POSTGRES_DSN")
		return NewPostgresStore(dsn, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
