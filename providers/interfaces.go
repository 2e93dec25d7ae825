// Package providers extracts table definitions back out of a live database
// so generated DDL can be checked after it has been applied.
package providers

import (
	"context"
	"database/sql"
	"sort"
)

// SchemaProvider defines the interface for different schema extraction providers
type SchemaProvider interface {
	// Name returns the provider name for identification
	Name() string

	// ExtractSchema extracts the schema using the provider's method
	ExtractSchema(ctx context.Context, params ExtractParams) (*SchemaResult, error)

	// IsAvailable checks if this provider can be used in the current environment
	IsAvailable() bool
}

// ExtractParams contains parameters needed for schema extraction
type ExtractParams struct {
	// DB is the database connection (used by SQL-based providers)
	DB *sql.DB

	// ConnectionString is the full connection string (used by external tools)
	ConnectionString string

	// Schema is the postgres schema to read. Empty means public.
	Schema string

	Format SchemaFormat
}

// SchemaFormat represents the desired output format
type SchemaFormat string

const (
	FormatInfo SchemaFormat = "info" // Human-readable format
	FormatSQL  SchemaFormat = "sql"  // SQL DDL format
)

// SchemaResult contains the extracted schema in the requested format
type SchemaResult struct {
	// Tables is filled by providers that read the catalog directly
	Tables []Table

	// RawSQL contains the raw SQL DDL (for sql format)
	RawSQL string

	Format SchemaFormat
}

// ProviderRegistry manages available schema providers
type ProviderRegistry struct {
	providers map[string]SchemaProvider
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]SchemaProvider),
	}
}

// NewDefaultRegistry returns a registry holding every built-in provider.
func NewDefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	r.Register(NewNativeProvider())
	r.Register(NewPgDumpProvider())
	r.Register(NewSQLiteProvider())
	return r
}

// Register adds a provider to the registry
func (r *ProviderRegistry) Register(provider SchemaProvider) {
	r.providers[provider.Name()] = provider
}

// Get retrieves a provider by name
func (r *ProviderRegistry) Get(name string) (SchemaProvider, bool) {
	provider, exists := r.providers[name]
	return provider, exists
}

// ListAvailable returns the names of all available providers, sorted
func (r *ProviderRegistry) ListAvailable() []string {
	var available []string
	for name, provider := range r.providers {
		if provider.IsAvailable() {
			available = append(available, name)
		}
	}
	sort.Strings(available)
	return available
}
