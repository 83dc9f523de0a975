package mocks

import (
	"context"

	"quiz-manager/core/domain"
	"quiz-manager/core/reconcile"
	"quiz-manager/feature/items"

	"github.com/stretchr/testify/mock"
)

// Backup is a mock implementation of items.Backup.
type Backup struct {
	mock.Mock
}

func (m *Backup) Save(ctx context.Context, target reconcile.Target, list []domain.Item) (string, error) {
	args := m.Called(ctx, target, list)
	return args.String(0), args.Error(1)
}

func (m *Backup) Get(ctx context.Context, key string) (*items.Snapshot, error) {
	args := m.Called(ctx, key)
	snap, _ := args.Get(0).(*items.Snapshot)
	return snap, args.Error(1)
}

func (m *Backup) Latest(ctx context.Context, target reconcile.Target) (*items.Snapshot, error) {
	args := m.Called(ctx, target)
	snap, _ := args.Get(0).(*items.Snapshot)
	return snap, args.Error(1)
}

func (m *Backup) List(ctx context.Context, target reconcile.Target) ([]items.BackupInfo, error) {
	args := m.Called(ctx, target)
	list, _ := args.Get(0).([]items.BackupInfo)
	return list, args.Error(1)
}
