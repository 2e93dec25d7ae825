package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverSchemaFiles returns every .xsd file below dir, sorted by path.
func DiscoverSchemaFiles(dir string) ([]string, error) {
	slog.Debug("scanning schema directory", "directory", dir)

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if strings.EqualFold(filepath.Ext(d.Name()), ".xsd") {
			slog.Debug("found schema file", "path", path)
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk schema directory: %w", err)
	}

	sort.Strings(files)

	slog.Info("discovered schema files", "count", len(files))
	return files, nil
}
