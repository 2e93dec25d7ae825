// Package config loads the optional YAML run configuration.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alc6/mismo2schema/relational"
)

// Config represents the top-level YAML configuration.
type Config struct {
	Containers   []string `yaml:"containers"`
	ExpandNested bool     `yaml:"expand_nested"`
	MaxDepth     int      `yaml:"max_depth"`
	Dialect      string   `yaml:"dialect"`
	Schema       string   `yaml:"schema"`
	OutDir       string   `yaml:"out_dir"`
	Mappings     string   `yaml:"mappings"`
	Storage      Storage  `yaml:"storage"`
	Verify       Verify   `yaml:"verify"`
}

// Storage configures the MinIO artifact sink. It is used only when Bucket
// is set.
type Storage struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

// Verify configures applying the generated DDL to a scratch database.
type Verify struct {
	Backend  string `yaml:"backend"`
	Provider string `yaml:"provider"`
	Image    string `yaml:"image"`
}

const (
	DefaultDialect  = "postgres"
	DefaultSchema   = "public"
	DefaultOutDir   = "artifacts"
	DefaultProvider = "native"
	DefaultImage    = "postgres:16-alpine"
)

// Verify backends. An empty backend disables verification.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var (
	dialects  = []string{"postgres", "sqlite"}
	backends  = []string{"", BackendSQLite, BackendPostgres}
	providers = []string{"native", "pg_dump", "sqlite"}
)

// dialectAliases maps alternate spellings onto a dialect name.
var dialectAliases = map[string]string{
	"postgresql": "postgres",
	"sqlite3":    "sqlite",
}

// Enabled reports whether artifacts go to object storage.
func (s *Storage) Enabled() bool {
	return s.Bucket != ""
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	// Defaults alone always validate.
	_ = cfg.Validate()
	return cfg
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv fills in empty Storage fields from environment variables.
// YAML values take precedence; env vars are used only as fallback.
func (c *Config) applyEnv() {
	s := &c.Storage
	if s.Endpoint == "" {
		s.Endpoint = envOr("MINIO_ENDPOINT")
	}
	if s.AccessKey == "" {
		s.AccessKey = envOr("MINIO_ACCESS_KEY", "MINIO_ROOT_USER")
	}
	if s.SecretKey == "" {
		s.SecretKey = envOr("MINIO_SECRET_KEY", "MINIO_ROOT_PASSWORD")
	}
	if s.Bucket == "" {
		s.Bucket = envOr("MINIO_BUCKET")
	}
	if !s.UseSSL {
		if v, err := strconv.ParseBool(envOr("MINIO_USE_SSL")); err == nil {
			s.UseSSL = v
		}
	}
}

// envOr returns the first non-empty value from the given env var names.
func envOr(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// Validate fills defaults and checks the values. It is called again after
// command line overrides are applied.
func (c *Config) Validate() error {
	if c.Containers == nil {
		c.Containers = append([]string(nil), relational.DefaultContainers...)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	if c.Dialect == "" {
		c.Dialect = DefaultDialect
	}
	c.Dialect = strings.ToLower(c.Dialect)
	if name, ok := dialectAliases[c.Dialect]; ok {
		c.Dialect = name
	}
	if !slices.Contains(dialects, c.Dialect) {
		return fmt.Errorf("unsupported dialect %q", c.Dialect)
	}
	if c.Schema == "" {
		c.Schema = DefaultSchema
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}

	if !slices.Contains(backends, c.Verify.Backend) {
		return fmt.Errorf("unsupported verify backend %q", c.Verify.Backend)
	}
	if c.Verify.Provider == "" {
		c.Verify.Provider = DefaultProvider
	}
	if !slices.Contains(providers, c.Verify.Provider) {
		return fmt.Errorf("unsupported verify provider %q", c.Verify.Provider)
	}
	if c.Verify.Image == "" {
		c.Verify.Image = DefaultImage
	}

	if c.Storage.Enabled() && c.Storage.Endpoint == "" {
		return fmt.Errorf("storage.endpoint is required when storage.bucket is set")
	}
	return nil
}
