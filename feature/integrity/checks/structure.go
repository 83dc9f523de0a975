package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"quiz-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by checks whose dependency is not connected.
var ErrNotConfigured = errors.New("not configured")

// RequiredFolders lists the folders that must exist in the backup bucket.
func RequiredFolders(prefix string) []string {
	return []string{strings.Trim(prefix, "/")}
}

// CheckStructure returns a list of missing folders.
func CheckStructure(ctx context.Context, client storage.Client, bucket, prefix string) ([]string, error) {
	if client == nil {
		return nil, fmt.Errorf("storage: %w", ErrNotConfigured)
	}
	missing := []string{}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	for _, folder := range RequiredFolders(prefix) {
		opts := minio.ListObjectsOptions{
			Prefix:    folder + "/",
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for range client.ListObjects(ctx, bucket, opts) {
			found = true
			break
		}

		if !found {
			missing = append(missing, folder)
		}
	}

	return missing, nil
}

// FixStructure creates the missing folders.
func FixStructure(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, missing []string) error {
	if client == nil {
		return fmt.Errorf("storage: %w", ErrNotConfigured)
	}
	for _, folder := range missing {
		_, err := client.PutObject(ctx, bucket, folder+"/", bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	return nil
}
