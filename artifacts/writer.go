// Package artifacts persists generated files. Writers store named artifacts
// in a local directory, a MinIO bucket, or memory.
package artifacts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Artifact file names.
const (
	DDLFileName      = "mismo_3.4_ddl.sql"
	MappingsFileName = "encompass_mismo_mappings.csv"
	ERDFileName      = "erd.dbml"
)

// Writer stores a named artifact and returns where it was written.
type Writer interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// LocalWriter writes artifacts into Dir, creating it on first write.
type LocalWriter struct {
	Dir string
}

func NewLocalWriter(dir string) *LocalWriter {
	return &LocalWriter{Dir: dir}
}

func (w *LocalWriter) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.Dir, err)
	}

	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", path, err)
	}

	slog.Debug("wrote artifact", "path", path, "bytes", len(data))
	return path, nil
}

// MemoryWriter keeps artifacts in memory. It is safe for concurrent use.
type MemoryWriter struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{files: make(map[string][]byte)}
}

func (w *MemoryWriter) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[name] = append([]byte(nil), data...)
	return "memory://" + name, nil
}

// Get returns the content written under name.
func (w *MemoryWriter) Get(name string) ([]byte, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, ok := w.files[name]
	return data, ok
}

// Names returns the written artifact names, sorted.
func (w *MemoryWriter) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	names := make([]string, 0, len(w.files))
	for name := range w.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
