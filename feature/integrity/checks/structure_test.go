package checks

import (
	"context"
	"errors"
	"testing"

	"quiz-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func emptyListing() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func TestCheckStructure(t *testing.T) {
	t.Run("Not Configured", func(t *testing.T) {
		_, err := CheckStructure(context.Background(), nil, "quizzes", "baselines")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("Bucket Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "quizzes").Return(false, nil)

		_, err := CheckStructure(context.Background(), mockClient, "quizzes", "baselines")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("Folder Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "quizzes").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "quizzes", mock.Anything).Return(emptyListing())

		missing, err := CheckStructure(context.Background(), mockClient, "quizzes", "/baselines/")
		assert.NoError(t, err)
		assert.Equal(t, []string{"baselines"}, missing)
	})

	t.Run("All Present", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "quizzes").Return(true, nil)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Key: "baselines/1/10/1.json"}
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "quizzes", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
			return opts.Prefix == "baselines/"
		})).Return((<-chan minio.ObjectInfo)(ch))

		missing, err := CheckStructure(context.Background(), mockClient, "quizzes", "baselines")
		assert.NoError(t, err)
		assert.Empty(t, missing)
	})
}

func TestFixStructure(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("PutObject", mock.Anything, "quizzes", "baselines/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

		err := FixStructure(context.Background(), mockClient, "quizzes", zap.NewNop(), []string{"baselines"})
		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Failure", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("PutObject", mock.Anything, "quizzes", "baselines/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, errors.New("denied"))

		err := FixStructure(context.Background(), mockClient, "quizzes", zap.NewNop(), []string{"baselines"})
		assert.Error(t, err)
	})
}
