package items

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"quiz-manager/core/domain"
	"quiz-manager/core/reconcile"
	"quiz-manager/core/storage"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Snapshot is a saved copy of a variant baseline.
type Snapshot struct {
	Key     string           `json:"key"`
	Target  reconcile.Target `json:"target"`
	TakenAt time.Time        `json:"taken_at"`
	Items   []domain.Item    `json:"items"`
}

// BackupInfo describes one stored snapshot.
type BackupInfo struct {
	Key     string    `json:"key"`
	TakenAt time.Time `json:"taken_at"`
}

// Backup keeps copies of variant baselines taken before destructive saves.
type Backup interface {
	// Save stores the baseline and returns its key.
	Save(ctx context.Context, target reconcile.Target, items []domain.Item) (string, error)
	// Get loads a snapshot by key.
	Get(ctx context.Context, key string) (*Snapshot, error)
	// Latest loads the newest snapshot of the target.
	Latest(ctx context.Context, target reconcile.Target) (*Snapshot, error)
	// List returns the snapshots of the target, newest first.
	List(ctx context.Context, target reconcile.Target) ([]BackupInfo, error)
}

// NopBackup is used when object storage is not configured.
type NopBackup struct{}

func (NopBackup) Save(context.Context, reconcile.Target, []domain.Item) (string, error) {
	return "", nil
}

func (NopBackup) Get(_ context.Context, key string) (*Snapshot, error) {
	return nil, fmt.Errorf("backup %s: backups disabled: %w", key, domain.ErrNotFound)
}

func (NopBackup) Latest(_ context.Context, target reconcile.Target) (*Snapshot, error) {
	return nil, fmt.Errorf("backups of variant %s: backups disabled: %w", target.VariantID, domain.ErrNotFound)
}

func (NopBackup) List(context.Context, reconcile.Target) ([]BackupInfo, error) {
	return []BackupInfo{}, nil
}

// StorageBackup writes snapshots as JSON objects:
// {prefix}/{quiz}/{variant}/{unix-nanos}.json
type StorageBackup struct {
	client    storage.Client
	bucket    string
	prefix    string
	retention int
	logger    *zap.Logger
	now       func() time.Time
}

// NewStorageBackup creates a backup store. A positive retention keeps only
// that many snapshots per variant.
func NewStorageBackup(client storage.Client, bucket, prefix string, retention int, logger *zap.Logger) *StorageBackup {
	if prefix == "" {
		prefix = "baselines"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageBackup{
		client:    client,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

func (b *StorageBackup) dir(target reconcile.Target) string {
	return path.Join(b.prefix, target.QuizID, target.VariantID) + "/"
}

func (b *StorageBackup) Save(ctx context.Context, target reconcile.Target, items []domain.Item) (string, error) {
	taken := b.now().UTC()
	// Zero-padded so lexical order is chronological.
	key := b.dir(target) + fmt.Sprintf("%019d", taken.UnixNano()) + ".json"

	data, err := json.Marshal(Snapshot{Key: key, Target: target, TakenAt: taken, Items: items})
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	_, err = b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup %s: %w", key, err)
	}

	b.logger.Info("Baseline backed up",
		zap.String("key", key),
		zap.Int("items", len(items)),
	)
	b.prune(ctx, target)
	return key, nil
}

func (b *StorageBackup) Get(ctx context.Context, key string) (*Snapshot, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch backup %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("backup %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read backup %s: %w", key, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode backup %s: %w", key, err)
	}
	snap.Key = key
	return &snap, nil
}

func (b *StorageBackup) Latest(ctx context.Context, target reconcile.Target) (*Snapshot, error) {
	backups, err := b.List(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, fmt.Errorf("backups of variant %s: %w", target.VariantID, domain.ErrNotFound)
	}
	return b.Get(ctx, backups[0].Key)
}

func (b *StorageBackup) List(ctx context.Context, target reconcile.Target) ([]BackupInfo, error) {
	backups := []BackupInfo{}
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Prefix: b.dir(target), Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list backups: %w", obj.Err)
		}
		taken, ok := takenAt(obj.Key)
		if !ok {
			continue
		}
		backups = append(backups, BackupInfo{Key: obj.Key, TakenAt: taken})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Key > backups[j].Key })
	return backups, nil
}

// prune removes snapshots beyond the retention. Failures are logged only.
func (b *StorageBackup) prune(ctx context.Context, target reconcile.Target) {
	if b.retention <= 0 {
		return
	}
	backups, err := b.List(ctx, target)
	if err != nil {
		b.logger.Warn("Failed to list backups for pruning", zap.Error(err))
		return
	}
	for _, old := range backups[min(b.retention, len(backups)):] {
		if err := b.client.RemoveObject(ctx, b.bucket, old.Key, minio.RemoveObjectOptions{}); err != nil {
			b.logger.Warn("Failed to prune backup", zap.String("key", old.Key), zap.Error(err))
		}
	}
}

// takenAt parses the timestamp encoded in a snapshot key.
func takenAt(key string) (time.Time, bool) {
	if !strings.HasSuffix(key, ".json") {
		return time.Time{}, false
	}
	base := strings.TrimSuffix(path.Base(key), ".json")
	nanos, err := strconv.ParseInt(base, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, nanos).UTC(), true
}
