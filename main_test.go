package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alc6/mismo2schema/artifacts"
	"github.com/alc6/mismo2schema/config"
	"github.com/alc6/mismo2schema/mocks"
	"github.com/alc6/mismo2schema/xsd"
)

var sampleSchemaPath = filepath.Join("testdata", "mismo_deal.xsd")

const sampleMappings = `Encompass Field,MISMO Path
1109,LOAN/BaseLoanAmount
763,LOAN/LoanMaturityDate
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	require.NoError(t, cfg.Validate())
	return cfg
}

func sampleSchema(t *testing.T) *xsd.Schema {
	t.Helper()
	schema, err := xsd.ParseFile(sampleSchemaPath)
	require.NoError(t, err)
	return schema
}

func TestRun(t *testing.T) {
	t.Run("run_function_help", func(t *testing.T) {
		resetCommand()
		cmd := rootCmd
		cmd.SetArgs([]string{"--help"})
		err := cmd.Execute()
		t.Logf("help command result: %v", err)
	})

	t.Run("run_function_no_args", func(t *testing.T) {
		resetCommand()
		cmd := rootCmd
		cmd.SetArgs([]string{})
		err := cmd.Execute()
		assert.Error(t, err)
	})
}

func TestProcessSchemaUnit(t *testing.T) {
	ctx := context.Background()

	t.Run("schema_input_does_not_exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)

		err := processSchema(ctx, "/non/existent/path.xsd", testConfig(t), loader, nil, nil, &bytes.Buffer{})
		require.Error(t, err)
		assert.Equal(t, "schema input does not exist: /non/existent/path.xsd", err.Error())
	})

	t.Run("schema_load_error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(nil, fmt.Errorf("malformed schema"))

		err := processSchema(ctx, sampleSchemaPath, testConfig(t), loader, nil, nil, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load schema")
		assert.Contains(t, err.Error(), "malformed schema")
	})

	t.Run("unsupported_dialect", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(sampleSchema(t), nil)

		cfg := testConfig(t)
		cfg.Dialect = "oracle"

		err := processSchema(ctx, sampleSchemaPath, cfg, loader, nil, nil, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported dialect: oracle")
	})

	t.Run("successful_execution_extract_mode", func(t *testing.T) {
		originalExtractMode := extractMode
		extractMode = true
		defer func() { extractMode = originalExtractMode }()

		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(sampleSchema(t), nil)
		writer := mocks.NewMockArtifactWriter(ctrl)

		var out bytes.Buffer
		err := processSchema(ctx, sampleSchemaPath, testConfig(t), loader, writer, nil, &out)
		require.NoError(t, err)

		assert.Contains(t, out.String(), "create table public.deals (")
		assert.Contains(t, out.String(), "create table public.loans (")
		assert.Contains(t, out.String(), "create table public.properties (")
		assert.NotContains(t, out.String(), "servicers")
	})

	t.Run("successful_execution_info_mode", func(t *testing.T) {
		originalInfoMode := infoMode
		infoMode = true
		defer func() { infoMode = originalInfoMode }()

		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(sampleSchema(t), nil)

		var out bytes.Buffer
		err := processSchema(ctx, sampleSchemaPath, testConfig(t), loader, nil, nil, &out)
		require.NoError(t, err)

		assert.Contains(t, out.String(), "=== RELATIONAL MODEL ===")
		assert.Contains(t, out.String(), "Table: loans (LOAN)")
		assert.Contains(t, out.String(), "  - baseloanamount Numeric(15,2)\n")
		assert.Contains(t, out.String(), "Omitted:\n  - ADJUSTMENT\n")
	})

	t.Run("successful_execution_generate_mode", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(sampleSchema(t), nil)

		writer := mocks.NewMockArtifactWriter(ctrl)
		gomock.InOrder(
			writer.EXPECT().Write(gomock.Any(), artifacts.DDLFileName, gomock.Any()).Return("out/"+artifacts.DDLFileName, nil),
			writer.EXPECT().Write(gomock.Any(), artifacts.ERDFileName, gomock.Any()).Return("out/"+artifacts.ERDFileName, nil),
		)

		var out bytes.Buffer
		err := processSchema(ctx, sampleSchemaPath, testConfig(t), loader, writer, nil, &out)
		require.NoError(t, err)
		assert.Equal(t, "out/mismo_3.4_ddl.sql\nout/erd.dbml\n", out.String())
	})

	t.Run("generate_mode_with_mappings", func(t *testing.T) {
		mappingsPath := filepath.Join(t.TempDir(), "mappings.csv")
		require.NoError(t, os.WriteFile(mappingsPath, []byte(sampleMappings), 0644))

		cfg := testConfig(t)
		cfg.Mappings = mappingsPath

		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(sampleSchema(t), nil)

		writer := mocks.NewMockArtifactWriter(ctrl)
		gomock.InOrder(
			writer.EXPECT().Write(gomock.Any(), artifacts.DDLFileName, gomock.Any()).Return(artifacts.DDLFileName, nil),
			writer.EXPECT().Write(gomock.Any(), artifacts.MappingsFileName, []byte(sampleMappings)).Return(artifacts.MappingsFileName, nil),
			writer.EXPECT().Write(gomock.Any(), artifacts.ERDFileName, gomock.Any()).Return(artifacts.ERDFileName, nil),
		)

		err := processSchema(ctx, sampleSchemaPath, cfg, loader, writer, nil, &bytes.Buffer{})
		require.NoError(t, err)
	})

	t.Run("artifact_write_error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(sampleSchema(t), nil)

		writer := mocks.NewMockArtifactWriter(ctrl)
		writer.EXPECT().Write(gomock.Any(), artifacts.DDLFileName, gomock.Any()).Return("", fmt.Errorf("disk full"))

		err := processSchema(ctx, sampleSchemaPath, testConfig(t), loader, writer, nil, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write artifacts")
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("missing_writer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(sampleSchema(t), nil)

		err := processSchema(ctx, sampleSchemaPath, testConfig(t), loader, nil, nil, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no artifact writer configured")
	})

	t.Run("database_setup_error", func(t *testing.T) {
		originalExtractMode := extractMode
		extractMode = true
		defer func() { extractMode = originalExtractMode }()

		cfg := testConfig(t)
		cfg.Verify.Backend = config.BackendSQLite

		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(sampleSchema(t), nil)

		dbManager := mocks.NewMockDatabaseManager(ctrl)
		dbManager.EXPECT().Setup(gomock.Any()).Return(fmt.Errorf("failed to connect to database"))

		err := processSchema(ctx, sampleSchemaPath, cfg, loader, nil, dbManager, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to setup database")
	})

	t.Run("ddl_execution_error", func(t *testing.T) {
		originalExtractMode := extractMode
		extractMode = true
		defer func() { extractMode = originalExtractMode }()

		cfg := testConfig(t)
		cfg.Verify.Backend = config.BackendSQLite

		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(sampleSchema(t), nil)

		dbManager := mocks.NewMockDatabaseManager(ctrl)
		gomock.InOrder(
			dbManager.EXPECT().Setup(gomock.Any()).Return(nil),
			dbManager.EXPECT().ApplyDDL(gomock.Any(), gomock.Any()).Return(fmt.Errorf("syntax error")),
			// Close runs even when the DDL fails.
			dbManager.EXPECT().Close(gomock.Any()).Return(nil),
		)

		err := processSchema(ctx, sampleSchemaPath, cfg, loader, nil, dbManager, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to apply ddl")
	})

	t.Run("missing_database_manager", func(t *testing.T) {
		originalExtractMode := extractMode
		extractMode = true
		defer func() { extractMode = originalExtractMode }()

		cfg := testConfig(t)
		cfg.Verify.Backend = config.BackendPostgres

		ctrl := gomock.NewController(t)
		loader := mocks.NewMockSchemaLoader(ctrl)
		loader.EXPECT().LoadSchema(sampleSchemaPath).Return(sampleSchema(t), nil)

		err := processSchema(ctx, sampleSchemaPath, cfg, loader, nil, nil, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no database manager for verify backend: postgres")
	})

	t.Run("successful_sqlite_verification", func(t *testing.T) {
		originalExtractMode := extractMode
		extractMode = true
		defer func() { extractMode = originalExtractMode }()

		cfg := testConfig(t)
		cfg.Verify.Backend = config.BackendSQLite
		cfg.ExpandNested = true

		var out bytes.Buffer
		err := processSchema(ctx, sampleSchemaPath, cfg, NewFileSchemaLoader(), nil, NewSQLiteManager(), &out)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "=== VERIFICATION ===")
		assert.Contains(t, out.String(), "Verified 4 tables on sqlite using sqlite provider")
		assert.Contains(t, out.String(), "All tables and columns match")

		// Extract mode also prints the schema the database reported.
		assert.Contains(t, out.String(), "=== EXTRACTED DDL ===\ncreate table adjustments (")
	})
}

func TestLoadConfig(t *testing.T) {
	for _, name := range []string{"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_ROOT_USER", "MINIO_SECRET_KEY", "MINIO_ROOT_PASSWORD", "MINIO_BUCKET", "MINIO_USE_SSL"} {
		t.Setenv(name, "")
	}

	t.Run("defaults", func(t *testing.T) {
		resetCommand()
		require.NoError(t, rootCmd.ParseFlags([]string{}))

		cfg, err := loadConfig(rootCmd)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultDialect, cfg.Dialect)
		assert.Equal(t, config.DefaultSchema, cfg.Schema)
		assert.Equal(t, config.DefaultOutDir, cfg.OutDir)
		assert.Equal(t, []string{"DEAL", "LOAN", "PROPERTY", "PARTY", "BORROWER", "ASSET", "LIABILITY"}, cfg.Containers)
		assert.Empty(t, cfg.Verify.Backend)
		assert.False(t, cfg.Storage.Enabled())
	})

	t.Run("flags_override_config_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
dialect: sqlite
out_dir: from-file
containers: [DEAL]
verify:
  backend: sqlite
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		resetCommand()
		require.NoError(t, rootCmd.ParseFlags([]string{
			"--config", path,
			"--out-dir", "from-flag",
			"--containers", "LOAN, PROPERTY",
			"--expand-nested",
			"--max-depth", "2",
		}))

		cfg, err := loadConfig(rootCmd)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Dialect)
		assert.Equal(t, "from-flag", cfg.OutDir)
		assert.Equal(t, []string{"LOAN", "PROPERTY"}, cfg.Containers)
		assert.True(t, cfg.ExpandNested)
		assert.Equal(t, 2, cfg.MaxDepth)
		assert.Equal(t, config.BackendSQLite, cfg.Verify.Backend)
	})

	t.Run("dialect_flag_is_case_insensitive", func(t *testing.T) {
		resetCommand()
		require.NoError(t, rootCmd.ParseFlags([]string{"--dialect", "SQLite", "--verify", "Postgres", "--provider", "pg_dump"}))

		cfg, err := loadConfig(rootCmd)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Dialect)
		assert.Equal(t, config.BackendPostgres, cfg.Verify.Backend)
		assert.Equal(t, "pg_dump", cfg.Verify.Provider)
	})

	t.Run("invalid_dialect", func(t *testing.T) {
		resetCommand()
		require.NoError(t, rootCmd.ParseFlags([]string{"--dialect", "oracle"}))

		_, err := loadConfig(rootCmd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("missing_config_file", func(t *testing.T) {
		resetCommand()
		require.NoError(t, rootCmd.ParseFlags([]string{"--config", "/non/existent/config.yaml"}))

		_, err := loadConfig(rootCmd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func resetCommand() {
	rootCmd.ResetFlags()
	rootCmd.SetOut(nil)
	registerFlags()
}

func isDockerAvailable() bool {
	if os.Getenv("DOCKER_HOST") != "" {
		return true
	}
	_, err := os.Stat("/var/run/docker.sock")
	return err == nil
}
