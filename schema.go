package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alc6/mismo2schema/artifacts"
	"github.com/alc6/mismo2schema/config"
	"github.com/alc6/mismo2schema/ddl"
	"github.com/alc6/mismo2schema/relational"
	"github.com/alc6/mismo2schema/xsd"
)

// Generation holds everything produced from one schema in a single run.
type Generation struct {
	Model   *relational.Model
	Dialect ddl.Dialect
	DDL     string
	ERD     string
}

func modelOptions(cfg *config.Config) relational.Options {
	return relational.Options{
		Containers:   cfg.Containers,
		ExpandNested: cfg.ExpandNested,
		MaxDepth:     cfg.MaxDepth,
	}
}

// generate derives the relational model and renders it for the configured
// dialect.
func generate(schema *xsd.Schema, cfg *config.Config) (*Generation, error) {
	dialect, err := ddl.LookupDialect(cfg.Dialect, cfg.Schema)
	if err != nil {
		return nil, err
	}

	model := relational.BuildModel(schema, modelOptions(cfg))

	statements, err := ddl.Render(model, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to render ddl: %w", err)
	}

	return &Generation{
		Model:   model,
		Dialect: dialect,
		DDL:     statements,
		ERD:     ddl.RenderDBML(model),
	}, nil
}

// writeArtifacts stores the DDL, the mapping pass-through and the ERD. The
// mapping file is skipped when there are no data rows to pass through.
func writeArtifacts(ctx context.Context, writer ArtifactWriter, gen *Generation, mappings *artifacts.Mappings) ([]string, error) {
	var written []string

	location, err := writer.Write(ctx, artifacts.DDLFileName, []byte(gen.DDL))
	if err != nil {
		return written, fmt.Errorf("failed to write ddl: %w", err)
	}
	written = append(written, location)

	if mappings.HasRows() {
		data, err := artifacts.EncodeMappings(mappings)
		if err != nil {
			return written, fmt.Errorf("failed to encode mappings: %w", err)
		}
		location, err := writer.Write(ctx, artifacts.MappingsFileName, data)
		if err != nil {
			return written, fmt.Errorf("failed to write mappings: %w", err)
		}
		written = append(written, location)
	} else {
		slog.Debug("no mapping rows, skipping mappings artifact")
	}

	location, err = writer.Write(ctx, artifacts.ERDFileName, []byte(gen.ERD))
	if err != nil {
		return written, fmt.Errorf("failed to write erd: %w", err)
	}
	written = append(written, location)

	slog.Info("artifacts written", "count", len(written))
	return written, nil
}

// loadMappings reads the optional mapping CSV. An empty path yields no rows.
func loadMappings(path string) (*artifacts.Mappings, error) {
	if path == "" {
		return &artifacts.Mappings{}, nil
	}
	mappings, err := artifacts.ReadMappingsFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings: %w", err)
	}
	slog.Debug("loaded mappings", "path", path, "rows", len(mappings.Rows))
	return mappings, nil
}
