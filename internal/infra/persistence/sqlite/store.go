// Package sqlite provides the default durable backend. It persists the
// in-memory state to a single SQLite table as JSON blobs, one bucket per
// entity table, snapshotting after every transaction that changed state.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"farmcore/internal/infra/persistence/memory"
	"farmcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// Store persists the in-memory state to SQLite. A bucket that fails to decode
// on load falls back to an empty table without aborting startup; a snapshot
// that fails to persist leaves the in-memory write in place. Both conditions
// are reported through the error hook rather than surfaced to callers.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string

	hookMu       sync.Mutex
	onPersistErr func(error)
	loadWarnings []string
}

// NewStore constructs a snapshotting SQLite-backed persistent store.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = "farmcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Bucket key names are part of the on-disk contract; never reorder or rename.
const (
	bucketTasks      = "tasks"
	bucketCrops      = "crops"
	bucketAnimals    = "animals"
	bucketProduction = "production_records"
	bucketWeights    = "weight_records"
	bucketStorage    = "storage_items"
	bucketEvents     = "farm_events"
	bucketFarmboard  = "farmboard_items"
	bucketSettings   = "settings"
)

var buckets = []string{
	bucketTasks,
	bucketCrops,
	bucketAnimals,
	bucketProduction,
	bucketWeights,
	bucketStorage,
	bucketEvents,
	bucketFarmboard,
	bucketSettings,
}

func snapshotTargets(snapshot *memory.Snapshot) map[string]any {
	return map[string]any{
		bucketTasks:      &snapshot.Tasks,
		bucketCrops:      &snapshot.Crops,
		bucketAnimals:    &snapshot.Animals,
		bucketProduction: &snapshot.Production,
		bucketWeights:    &snapshot.Weights,
		bucketStorage:    &snapshot.Storage,
		bucketEvents:     &snapshot.Events,
		bucketFarmboard:  &snapshot.Farmboard,
		bucketSettings:   &snapshot.Settings,
	}
}

func snapshotSources(snapshot *memory.Snapshot) map[string]any {
	return map[string]any{
		bucketTasks:      snapshot.Tasks,
		bucketCrops:      snapshot.Crops,
		bucketAnimals:    snapshot.Animals,
		bucketProduction: snapshot.Production,
		bucketWeights:    snapshot.Weights,
		bucketStorage:    snapshot.Storage,
		bucketEvents:     snapshot.Events,
		bucketFarmboard:  snapshot.Farmboard,
		bucketSettings:   snapshot.Settings,
	}
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
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
			// Tolerant decode: a corrupt bucket falls back to an empty
			// table and every other bucket still loads.
			s.recordLoadWarning(fmt.Sprintf("decode %s: %v", bucket, err))
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	s.ImportState(snapshot)
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	sources := snapshotSources(&snapshot)
	for _, bucket := range buckets {
		data, err := json.Marshal(sources[bucket])
		if err != nil {
			retErr = fmt.Errorf("encode %s: %w", bucket, err)
			return retErr
		}
		if _, err = tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// Apply applies fn in memory, then snapshots state to SQLite when the
// transaction changed anything. A failed snapshot is reported through the
// persist-error hook; the in-memory write stands.
func (s *Store) Apply(ctx context.Context, fn func(domain.Transaction) error) ([]domain.Change, domain.Result, error) {
	changes, res, err := s.Store.Apply(ctx, fn)
	if err != nil {
		return changes, res, err
	}
	if len(changes) > 0 {
		if pErr := s.persist(); pErr != nil {
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

// LoadWarnings returns decode failures tolerated during startup, one message
// per affected bucket.
func (s *Store) LoadWarnings() []string {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	return append([]string(nil), s.loadWarnings...)
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
