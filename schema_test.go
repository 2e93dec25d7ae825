package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alc6/mismo2schema/artifacts"
)

func TestGenerate(t *testing.T) {
	schema := sampleSchema(t)

	t.Run("default_containers", func(t *testing.T) {
		gen, err := generate(schema, testConfig(t))
		require.NoError(t, err)

		assert.Equal(t, "postgres", gen.Dialect.Name())
		assert.Equal(t, []string{"DEAL", "LOAN", "PROPERTY"}, gen.Model.Order)
		assert.Equal(t, 3, strings.Count(gen.DDL, "create table "))
		assert.Contains(t, gen.ERD, "Table deals {")
		assert.Contains(t, gen.ERD, "Note: 'not mapped: ADJUSTMENT'")
	})

	t.Run("ddl_parents_first", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.ExpandNested = true

		gen, err := generate(schema, cfg)
		require.NoError(t, err)

		deals := strings.Index(gen.DDL, "create table public.deals")
		loans := strings.Index(gen.DDL, "create table public.loans")
		adjustments := strings.Index(gen.DDL, "create table public.adjustments")
		assert.Less(t, deals, loans)
		assert.Less(t, loans, adjustments)
	})

	t.Run("max_depth", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.ExpandNested = true
		cfg.MaxDepth = 1

		gen, err := generate(schema, cfg)
		require.NoError(t, err)
		_, ok := gen.Model.Table("ADJUSTMENT")
		assert.False(t, ok)
	})

	t.Run("sqlite_dialect", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Dialect = "sqlite"

		gen, err := generate(schema, cfg)
		require.NoError(t, err)
		assert.Contains(t, gen.DDL, "create table loans (")
		// The diagram keeps postgres spelling regardless of dialect.
		assert.Contains(t, gen.ERD, "extension_data json")
	})

	t.Run("no_containers", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Containers = []string{}

		gen, err := generate(schema, cfg)
		require.NoError(t, err)
		assert.Equal(t, 0, gen.Model.Len())
		assert.Empty(t, gen.DDL)
	})
}

func TestWriteArtifacts(t *testing.T) {
	ctx := context.Background()
	gen, err := generate(sampleSchema(t), testConfig(t))
	require.NoError(t, err)

	t.Run("without_mappings", func(t *testing.T) {
		writer := artifacts.NewMemoryWriter()
		written, err := writeArtifacts(ctx, writer, gen, &artifacts.Mappings{})
		require.NoError(t, err)

		assert.Equal(t, []string{"memory://" + artifacts.DDLFileName, "memory://" + artifacts.ERDFileName}, written)
		assert.Equal(t, []string{artifacts.ERDFileName, artifacts.DDLFileName}, writer.Names())

		data, ok := writer.Get(artifacts.DDLFileName)
		require.True(t, ok)
		assert.Equal(t, gen.DDL, string(data))
	})

	t.Run("with_mappings", func(t *testing.T) {
		mappings, err := artifacts.ReadMappings(strings.NewReader(sampleMappings))
		require.NoError(t, err)

		writer := artifacts.NewMemoryWriter()
		written, err := writeArtifacts(ctx, writer, gen, mappings)
		require.NoError(t, err)
		assert.Len(t, written, 3)

		data, ok := writer.Get(artifacts.MappingsFileName)
		require.True(t, ok)
		assert.Equal(t, sampleMappings, string(data))
	})

	t.Run("header_only_mappings_skipped", func(t *testing.T) {
		mappings, err := artifacts.ReadMappings(strings.NewReader("Encompass Field,MISMO Path\n"))
		require.NoError(t, err)

		writer := artifacts.NewMemoryWriter()
		_, err = writeArtifacts(ctx, writer, gen, mappings)
		require.NoError(t, err)

		_, ok := writer.Get(artifacts.MappingsFileName)
		assert.False(t, ok)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := writeArtifacts(cancelled, artifacts.NewLocalWriter(t.TempDir()), gen, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write ddl")
	})
}

func TestLoadMappings(t *testing.T) {
	t.Run("no_path", func(t *testing.T) {
		mappings, err := loadMappings("")
		require.NoError(t, err)
		assert.False(t, mappings.HasRows())
	})

	t.Run("csv_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mappings.csv")
		require.NoError(t, os.WriteFile(path, []byte(sampleMappings), 0644))

		mappings, err := loadMappings(path)
		require.NoError(t, err)
		assert.Len(t, mappings.Rows, 2)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := loadMappings("/non/existent/mappings.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read mappings")
	})
}
