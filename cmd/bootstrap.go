package cmd

import (
	"context"
	"fmt"
	"time"

	"quiz-manager/core/api"
	"quiz-manager/core/config"
	"quiz-manager/core/database"
	"quiz-manager/core/logger"
	"quiz-manager/core/reconcile"
	"quiz-manager/core/storage"
	"quiz-manager/core/tokens"
	"quiz-manager/feature/items"
	"quiz-manager/feature/matching"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deps holds what every command builds from configuration.
type deps struct {
	cfg    *config.Config
	logger *zap.Logger
	client *api.Client
}

func bootstrap(ctx context.Context) (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if !cfg.Tokens.IsValidBackend() {
		return nil, fmt.Errorf("unsupported token backend %q", cfg.Tokens.Backend)
	}
	store, err := tokens.Open(ctx, cfg.Tokens, cfg.Redis)
	if err != nil {
		return nil, err
	}

	return &deps{cfg: cfg, logger: l, client: api.NewClient(cfg.API, store, l)}, nil
}

// openStorage connects to object storage and ensures the backup bucket.
// Storage is optional: it returns nil when backups are disabled or the
// bucket is unreachable, and destructive saves then proceed without a
// baseline snapshot.
func (d *deps) openStorage(ctx context.Context) storage.Client {
	if !d.cfg.Editor.Backups {
		return nil
	}
	client, err := storage.NewClient(d.cfg.Storage)
	if err != nil {
		d.logger.Warn("Optional storage connection failed, backups disabled", zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(d.cfg.Storage.TimeoutSeconds)*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(ctx, client, d.cfg.Storage.Bucket, d.cfg.Storage.Region); err != nil {
		d.logger.Warn("Backup bucket unavailable, backups disabled", zap.Error(err))
		return nil
	}
	return client
}

// openDatabase connects to the attempt history database. It returns nil when
// history is disabled or the database is unreachable.
func (d *deps) openDatabase() *gorm.DB {
	if !d.cfg.Matching.RecordAttempts {
		return nil
	}
	db, err := database.Connect(d.cfg.Database)
	if err != nil {
		d.logger.Warn("Optional database connection failed, attempt history disabled", zap.Error(err))
		return nil
	}
	d.logger.Info("Connected to attempt history database", zap.String("driver", d.cfg.Database.Driver))
	return db
}

func (d *deps) backup(client storage.Client) items.Backup {
	if client == nil {
		return items.NopBackup{}
	}
	return items.NewStorageBackup(client, d.cfg.Storage.Bucket, d.cfg.Editor.BackupPrefix, d.cfg.Editor.BackupRetention, d.logger)
}

func (d *deps) attempts(db *gorm.DB) matching.AttemptStore {
	if db == nil {
		return nil
	}
	repo := matching.NewGormAttempts(db)
	if err := repo.Migrate(); err != nil {
		d.logger.Warn("Attempt table migration failed, attempt history disabled", zap.Error(err))
		return nil
	}
	return repo
}

func (d *deps) itemsService(backup items.Backup) (*items.Service, error) {
	delim, err := reconcile.ParseDelimiter(d.cfg.Editor.Delimiter)
	if err != nil {
		return nil, err
	}
	applier := reconcile.NewApplier(d.client, d.cfg.Editor.Concurrency, d.logger)
	limits := items.Config{
		MaxEditors: d.cfg.Editor.MaxEditors,
		IdleTTL:    time.Duration(d.cfg.Editor.EditorIdleMinutes) * time.Minute,
	}
	return items.NewService(d.client, applier, backup, delim, limits, d.logger), nil
}
