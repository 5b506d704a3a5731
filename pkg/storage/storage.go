// Package storage persists uploaded documents and hands back opaque path
// strings. The rest of the system never interprets the paths.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"goride/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Storage interface {
	// Save writes the uploaded file and returns its opaque reference.
	Save(ctx context.Context, field, filename string, content io.Reader) (string, error)
}

// New picks the configured driver.
func New(ctx context.Context, config utils.StorageConfig, log *zap.Logger) (Storage, error) {
	switch config.Driver {
	case "s3":
		return newS3Storage(ctx, config, log)
	case "local", "":
		return newLocalStorage(config, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", config.Driver)
	}
}

// objectKey builds a collision-free name keeping the original extension.
func objectKey(field, filename string) string {
	return fmt.Sprintf("%s-%s%s", field, uuid.New().String(), filepath.Ext(filename))
}
