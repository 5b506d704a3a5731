package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"goride/pkg/utils"

	"go.uber.org/zap"
)

type localStorage struct {
	dir string
	log *zap.Logger
}

func newLocalStorage(config utils.StorageConfig, log *zap.Logger) (Storage, error) {
	dir := config.UploadDir
	if dir == "" {
		dir = "uploads/"
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}

	return &localStorage{
		dir: dir,
		log: log.With(zap.String("storage", "local")),
	}, nil
}

func (s *localStorage) Save(ctx context.Context, field, filename string, content io.Reader) (string, error) {
	path := filepath.Join(s.dir, objectKey(field, filename))

	f, err := os.Create(path)
	if err != nil {
		s.log.Error("Failed to create upload file", zap.Error(err), zap.String("path", path))
		return "", fmt.Errorf("create upload file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		s.log.Error("Failed to write upload file", zap.Error(err), zap.String("path", path))
		return "", fmt.Errorf("write upload file %s: %w", path, err)
	}

	return path, nil
}
