// Package postgres provides a Postgres-backed persistent store that mirrors
// the in-memory semantics, snapshotting state into a JSONB bucket table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"farmcore/internal/infra/persistence/memory"
	"farmcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/farmcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists state to Postgres while reusing the in-memory implementation
// for transactions. Decode and persist failures follow the same tolerance
// rules as the SQLite store: corrupt buckets load empty, failed snapshots are
// reported through the hook and leave the in-memory write in place.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex

	hookMu       sync.Mutex
	onPersistErr func(error)
	loadWarnings []string
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN), ensures the snapshot table exists, and hydrates the
// in-memory store from any existing snapshot.
func NewStore(dsn string, engine *domain.RulesEngine) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureStateTable(ctx, db); err != nil {
		return nil, err
	}
	s := &Store{Store: memory.NewStore(engine), db: db}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

var buckets = []string{
	"tasks",
	"crops",
	"animals",
	"production_records",
	"weight_records",
	"storage_items",
	"farm_events",
	"farmboard_items",
	"settings",
}

func snapshotTargets(snapshot *memory.Snapshot) map[string]any {
	return map[string]any{
		"tasks":              &snapshot.Tasks,
		"crops":              &snapshot.Crops,
		"animals":            &snapshot.Animals,
		"production_records": &snapshot.Production,
		"weight_records":     &snapshot.Weights,
		"storage_items":      &snapshot.Storage,
		"farm_events":        &snapshot.Events,
		"farmboard_items":    &snapshot.Farmboard,
		"settings":           &snapshot.Settings,
	}
}

func snapshotSources(snapshot *memory.Snapshot) map[string]any {
	return map[string]any{
		"tasks":              snapshot.Tasks,
		"crops":              snapshot.Crops,
		"animals":            snapshot.Animals,
		"production_records": snapshot.Production,
		"weight_records":     snapshot.Weights,
		"storage_items":      snapshot.Storage,
		"farm_events":        snapshot.Events,
		"farmboard_items":    snapshot.Farmboard,
		"settings":           snapshot.Settings,
	}
}

func ensureStateTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure state table: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.Snapshot
	targets := snapshotTargets(&snapshot)
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		target, ok := targets[bucket]
		if !ok || len(payload) == 0 {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			s.recordLoadWarning(fmt.Sprintf("decode %s: %v", bucket, err))
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	s.ImportState(snapshot)
	return nil
}

// Apply applies fn in memory, then snapshots state to Postgres when the
// transaction changed anything.
func (s *Store) Apply(ctx context.Context, fn func(domain.Transaction) error) ([]domain.Change, domain.Result, error) {
	changes, res, err := s.Store.Apply(ctx, fn)
	if err != nil {
		return changes, res, err
	}
	if len(changes) > 0 {
		if pErr := s.persist(ctx); pErr != nil {
			s.reportPersistError(pErr)
		}
	}
	return changes, res, nil
}

// RunInTransaction applies fn like Apply, discarding the change set.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	_, res, err := s.Apply(ctx, fn)
	return res, err
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	sources := snapshotSources(&snapshot)
	for _, bucket := range buckets {
		data, err := json.Marshal(sources[bucket])
		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`, bucket, data); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// OnPersistError installs a hook invoked when a snapshot fails to persist.
func (s *Store) OnPersistError(fn func(error)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.onPersistErr = fn
}

func (s *Store) reportPersistError(err error) {
	s.hookMu.Lock()
	fn := s.onPersistErr
	s.hookMu.Unlock()
	if fn != nil {
		fn(err)
	}
}

func (s *Store) recordLoadWarning(msg string) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.loadWarnings = append(s.loadWarnings, msg)
}

// LoadWarnings returns decode failures tolerated during startup.
func (s *Store) LoadWarnings() []string {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	return append([]string(nil), s.loadWarnings...)
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
