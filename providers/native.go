package providers

import (
	"context"
	"fmt"
	"log/slog"
)

// NativeProvider reads the postgres catalog with SQL queries
type NativeProvider struct{}

// NewNativeProvider creates a new native provider
func NewNativeProvider() SchemaProvider {
	return &NativeProvider{}
}

// Name returns the provider name
func (p *NativeProvider) Name() string {
	return "native"
}

// IsAvailable always returns true for the native provider
func (p *NativeProvider) IsAvailable() bool {
	return true
}

// ExtractSchema extracts the schema using catalog queries
func (p *NativeProvider) ExtractSchema(ctx context.Context, params ExtractParams) (*SchemaResult, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("native provider requires database connection")
	}

	slog.Debug("extracting schema using native provider", "format", params.Format, "schema", params.Schema)

	tables, err := ExtractSchemaFromDB(ctx, params.DB, params.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to extract schema: %w", err)
	}

	return buildResult(tables, params.Format)
}

func buildResult(tables []Table, format SchemaFormat) (*SchemaResult, error) {
	result := &SchemaResult{
		Tables: tables,
		Format: format,
	}

	switch format {
	case FormatSQL:
		result.RawSQL = FormatSchemaSQL(tables)
	case FormatInfo:
		// Tables are formatted at the output layer
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	return result, nil
}
