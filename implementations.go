package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alc6/mismo2schema/artifacts"
	"github.com/alc6/mismo2schema/config"
	"github.com/alc6/mismo2schema/xsd"
)

// FileSchemaLoader reads schemas from the local filesystem
type FileSchemaLoader struct{}

func NewFileSchemaLoader() SchemaLoader {
	return &FileSchemaLoader{}
}

func (f *FileSchemaLoader) LoadSchema(path string) (*xsd.Schema, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat schema input: %w", err)
	}

	if !info.IsDir() {
		return xsd.ParseFile(path)
	}

	files, err := DiscoverSchemaFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files found in directory: %s", path)
	}
	return xsd.ParseFiles(files...)
}

// NewArtifactWriter returns a MinIO writer when a bucket is configured and a
// local directory writer otherwise.
func NewArtifactWriter(ctx context.Context, cfg *config.Config) (ArtifactWriter, error) {
	if !cfg.Storage.Enabled() {
		slog.Debug("writing artifacts locally", "directory", cfg.OutDir)
		return artifacts.NewLocalWriter(cfg.OutDir), nil
	}

	s := cfg.Storage
	writer, err := artifacts.NewMinIOWriter(ctx, artifacts.MinIOConfig{
		Endpoint:  s.Endpoint,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		UseSSL:    s.UseSSL,
		Region:    s.Region,
		Bucket:    s.Bucket,
		Prefix:    s.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio writer: %w", err)
	}
	slog.Debug("writing artifacts to object storage", "endpoint", s.Endpoint, "bucket", s.Bucket)
	return writer, nil
}

// NewDatabaseManager returns the scratch database for a verify backend.
func NewDatabaseManager(backend, image string) (DatabaseManager, error) {
	switch backend {
	case config.BackendSQLite:
		return NewSQLiteManager(), nil
	case config.BackendPostgres:
		return NewPostgreSQLManager(image), nil
	default:
		return nil, fmt.Errorf("unsupported verify backend: %s", backend)
	}
}
