package storage_test

import (
	"context"
	"errors"
	"testing"

	"quiz-manager/core/storage"
	"quiz-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "quiz").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, m, "quiz", ""))
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "quiz").Return(false, nil)
		m.On("MakeBucket", ctx, "quiz", minio.MakeBucketOptions{Region: "eu"}).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, m, "quiz", "eu"))
		m.AssertExpectations(t)
	})

	t.Run("Unreachable", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "quiz").Return(false, errors.New("dial tcp: refused"))

		assert.Error(t, storage.EnsureBucket(ctx, m, "quiz", ""))
	})
}
