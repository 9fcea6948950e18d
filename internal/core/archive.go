package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"farmcore/internal/infra/blob"
	blobfs "farmcore/internal/infra/blob/fs"
	blobmemory "farmcore/internal/infra/blob/memory"
	blobs3 "farmcore/internal/infra/blob/s3"
)

// OpenBlobStore selects a snapshot-archive backend using environment
// variables. Defaults to the filesystem driver when unset.
//
//	FARMCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	FARMCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	(S3 specific variables documented in the s3 package)
func OpenBlobStore(ctx context.Context) (blob.Store, error) {
	driver := os.Getenv("FARMCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(blob.DriverFilesystem)
	}
	switch blob.Driver(driver) {
	case blob.DriverFilesystem:
		return blobfs.New(os.Getenv("FARMCORE_BLOB_FS_ROOT"))
	case blob.DriverS3:
		return blobs3.OpenFromEnv(ctx)
	case blob.DriverMemory:
		return blobmemory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

// SnapshotArchive is the JSON document written to a blob store by
// ArchiveSnapshot: every table plus the settings singleton, in table order.
type SnapshotArchive struct {
	ArchivedAt time.Time            `json:"archived_at"`
	Tasks      []Task               `json:"tasks"`
	Crops      []Crop               `json:"crops"`
	Animals    []Animal             `json:"animals"`
	Production []ProductionRecord   `json:"production_records"`
	Weights    []WeightChangeRecord `json:"weight_records"`
	Storage    []StorageItem        `json:"storage_items"`
	Events     []FarmEvent          `json:"farm_events"`
	Farmboard  []FarmboardItem      `json:"farmboard_items"`
	Settings   AppSettings          `json:"settings"`
}

// ArchiveSnapshot writes a timestamped snapshot of the full store to the
// target blob store and returns the stored object's metadata. Archives are
// backups; they are never read back by the store itself.
func (s *Service) ArchiveSnapshot(ctx context.Context, target blob.Store) (blob.Info, error) {
	archive := SnapshotArchive{ArchivedAt: s.clock.Now()}
	if err := s.store.View(ctx, func(view TransactionView) error {
		archive.Tasks = view.ListTasks()
		archive.Crops = view.ListCrops()
		archive.Animals = view.ListAnimals()
		archive.Production = view.ListProductionRecords()
		archive.Weights = view.ListWeightRecords()
		archive.Storage = view.ListStorageItems()
		archive.Events = view.ListFarmEvents()
		archive.Farmboard = view.ListFarmboardItems()
		archive.Settings = view.Settings()
		return nil
	}); err != nil {
		return blob.Info{}, fmt.Errorf("snapshot view: %w", err)
	}

	payload, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode snapshot archive: %w", err)
	}
	key := fmt.Sprintf("snapshots/farm-%s.json", archive.ArchivedAt.Format("20060102T150405Z"))
	info, err := target.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"tables": "9"},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store snapshot archive: %w", err)
	}
	s.logger.Info("snapshot archived", "key", info.Key, "bytes", info.Size, "driver", target.Driver())
	return info, nil
}
