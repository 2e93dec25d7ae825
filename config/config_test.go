package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alc6/mismo2schema/relational"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mismo2schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearMinIOEnv(t *testing.T) {
	for _, name := range []string{
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_ROOT_USER",
		"MINIO_SECRET_KEY", "MINIO_ROOT_PASSWORD", "MINIO_BUCKET", "MINIO_USE_SSL",
	} {
		t.Setenv(name, "")
	}
}

func TestDefault(t *testing.T) {
	clearMinIOEnv(t)
	cfg := Default()

	assert.Equal(t, relational.DefaultContainers, cfg.Containers)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "public", cfg.Schema)
	assert.Equal(t, "artifacts", cfg.OutDir)
	assert.Equal(t, "", cfg.Verify.Backend)
	assert.Equal(t, "native", cfg.Verify.Provider)
	assert.Equal(t, "postgres:16-alpine", cfg.Verify.Image)
	assert.False(t, cfg.ExpandNested)
	assert.False(t, cfg.Storage.Enabled())

	cfg.Containers[0] = "CHANGED"
	assert.Equal(t, "DEAL", relational.DefaultContainers[0])
}

func TestLoad(t *testing.T) {
	clearMinIOEnv(t)

	t.Run("full_file", func(t *testing.T) {
		path := writeConfig(t, `
containers: [LOAN, PROPERTY]
expand_nested: true
max_depth: 2
dialect: sqlite
schema: mismo
out_dir: build/out
mappings: fields.csv
storage:
  endpoint: localhost:9000
  access_key: minioadmin
  secret_key: minioadmin
  bucket: mismo
  prefix: "3.4"
verify:
  backend: postgres
  provider: pg_dump
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, []string{"LOAN", "PROPERTY"}, cfg.Containers)
		assert.True(t, cfg.ExpandNested)
		assert.Equal(t, 2, cfg.MaxDepth)
		assert.Equal(t, "sqlite", cfg.Dialect)
		assert.Equal(t, "mismo", cfg.Schema)
		assert.Equal(t, "build/out", cfg.OutDir)
		assert.Equal(t, "fields.csv", cfg.Mappings)
		assert.True(t, cfg.Storage.Enabled())
		assert.Equal(t, "3.4", cfg.Storage.Prefix)
		assert.Equal(t, "postgres", cfg.Verify.Backend)
		assert.Equal(t, "pg_dump", cfg.Verify.Provider)
		assert.Equal(t, "postgres:16-alpine", cfg.Verify.Image)
	})

	t.Run("empty_containers_list_is_kept", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "containers: []\n"))
		require.NoError(t, err)
		assert.NotNil(t, cfg.Containers)
		assert.Empty(t, cfg.Containers)
	})

	t.Run("empty_file_uses_defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Dialect)
		assert.Equal(t, relational.DefaultContainers, cfg.Containers)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("malformed_yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "containers: [LOAN\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("dialect_aliases", func(t *testing.T) {
		tests := map[string]string{
			"postgresql": "postgres",
			"SQLite3":    "sqlite",
			"Postgres":   "postgres",
		}
		for alias, want := range tests {
			cfg, err := Load(writeConfig(t, "dialect: "+alias+"\n"))
			require.NoError(t, err, alias)
			assert.Equal(t, want, cfg.Dialect, alias)
		}
	})

	t.Run("invalid_values", func(t *testing.T) {
		tests := map[string]string{
			"dialect":  "dialect: oracle\n",
			"backend":  "verify:\n  backend: mysql\n",
			"provider": "verify:\n  provider: pgx\n",
			"depth":    "max_depth: -1\n",
			"storage":  "storage:\n  bucket: mismo\n",
		}
		for name, content := range tests {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err, name)
			assert.Contains(t, err.Error(), "invalid config", name)
		}
	})
}

func TestLoadEnvFallback(t *testing.T) {
	clearMinIOEnv(t)
	t.Setenv("MINIO_ENDPOINT", "minio.internal:9000")
	t.Setenv("MINIO_ROOT_USER", "root")
	t.Setenv("MINIO_SECRET_KEY", "env-secret")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load(writeConfig(t, `
storage:
  access_key: file-key
  bucket: mismo
`))
	require.NoError(t, err)

	assert.Equal(t, "minio.internal:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "file-key", cfg.Storage.AccessKey)
	assert.Equal(t, "env-secret", cfg.Storage.SecretKey)
	assert.True(t, cfg.Storage.UseSSL)
	assert.True(t, cfg.Storage.Enabled())
}
