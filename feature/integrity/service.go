package integrity

import (
	"context"
	"time"

	"quiz-manager/core/storage"
	"quiz-manager/feature/integrity/checks"
	"quiz-manager/feature/matching"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// backendTimeout bounds the backend probe.
const backendTimeout = 5 * time.Second

// Service handles integrity checks.
type Service struct {
	backend checks.Lister
	client  storage.Client
	bucket  string
	prefix  string
	db      *gorm.DB
	logger  *zap.Logger
}

// NewService creates a new integrity service. client and db may be nil when
// backups or attempt history are disabled.
func NewService(backend checks.Lister, client storage.Client, bucket, prefix string, db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend: backend,
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		db:      db,
		logger:  logger,
	}
}

// CheckBackend probes the quiz API.
func (s *Service) CheckBackend(ctx context.Context) checks.BackendReport {
	return checks.CheckBackend(ctx, s.backend, backendTimeout)
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket, s.prefix)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckDatabase verifies the attempt history schema.
func (s *Service) CheckDatabase() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, &matching.Attempt{})
}
