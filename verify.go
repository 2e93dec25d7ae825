package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alc6/mismo2schema/config"
	"github.com/alc6/mismo2schema/ddl"
	"github.com/alc6/mismo2schema/providers"
	"github.com/alc6/mismo2schema/relational"
)

// VerifyReport compares the derived model with what a database reports after
// the generated DDL was applied.
type VerifyReport struct {
	Backend    string   `json:"backend"`
	Provider   string   `json:"provider"`
	Tables     int      `json:"tables"`
	Missing    []string `json:"missing,omitempty"`
	Mismatched []string `json:"mismatched,omitempty"`

	// Extracted is the schema the provider read back.
	Extracted []providers.Table `json:"-"`

	// ExtractedSQL is the provider's DDL rendering of Extracted.
	ExtractedSQL string `json:"-"`
}

// OK reports whether every table, column and foreign key round-tripped.
func (r *VerifyReport) OK() bool {
	return len(r.Missing) == 0 && len(r.Mismatched) == 0
}

func (r *VerifyReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Verified %d tables on %s using %s provider\n", r.Tables, r.Backend, r.Provider)
	if r.OK() {
		sb.WriteString("All tables and columns match\n")
		return sb.String()
	}
	for _, m := range r.Missing {
		fmt.Fprintf(&sb, "  missing: %s\n", m)
	}
	for _, m := range r.Mismatched {
		fmt.Fprintf(&sb, "  mismatch: %s\n", m)
	}
	return sb.String()
}

func verifyDialect(cfg *config.Config) ddl.Dialect {
	if cfg.Verify.Backend == config.BackendSQLite {
		return &ddl.SQLite{}
	}
	return &ddl.Postgres{Schema: cfg.Schema}
}

func verifyProvider(cfg *config.Config) string {
	if cfg.Verify.Backend == config.BackendSQLite {
		return "sqlite"
	}
	return cfg.Verify.Provider
}

// verifyModel renders the model for the verify backend, applies it to a
// scratch database and reads the schema back through a provider.
func verifyModel(ctx context.Context, model *relational.Model, cfg *config.Config, dbManager DatabaseManager, registry *providers.ProviderRegistry) (*VerifyReport, error) {
	providerName := verifyProvider(cfg)
	provider, exists := registry.Get(providerName)
	if !exists {
		return nil, fmt.Errorf("unknown provider: %s (available: %s)", providerName, strings.Join(registry.ListAvailable(), ", "))
	}
	if !provider.IsAvailable() {
		return nil, fmt.Errorf("provider '%s' is not available in this environment", providerName)
	}

	dialect := verifyDialect(cfg)
	statements, err := ddl.Render(model, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to render ddl: %w", err)
	}

	schema := ""
	if dialect.Name() == ddl.DialectPostgres {
		schema = cfg.Schema
		if schema != "" && schema != config.DefaultSchema {
			statements = fmt.Sprintf("create schema if not exists %s;\n\n%s", dialect.QuoteIdent(schema), statements)
		}
	}

	slog.Info("setting up database", "backend", cfg.Verify.Backend)
	if err := dbManager.Setup(ctx); err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	defer func() {
		if err := dbManager.Close(ctx); err != nil {
			slog.Error("failed to cleanup", "error", err)
		}
	}()

	slog.Info("applying generated ddl")
	if err := dbManager.ApplyDDL(ctx, statements); err != nil {
		return nil, fmt.Errorf("failed to apply ddl: %w", err)
	}

	slog.Info("extracting schema", "provider", providerName)
	result, err := provider.ExtractSchema(ctx, providers.ExtractParams{
		DB:               dbManager.GetDB(),
		ConnectionString: dbManager.GetConnectionString(),
		Schema:           schema,
		Format:           providers.FormatSQL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract schema: %w", err)
	}

	report := compareModel(model, dialect, result.Tables)
	report.Extracted = result.Tables
	report.ExtractedSQL = result.RawSQL
	report.Backend = cfg.Verify.Backend
	report.Provider = providerName

	slog.Info("verification finished", "tables", report.Tables, "missing", len(report.Missing), "mismatched", len(report.Mismatched))
	return report, nil
}

// compareModel checks each derived table against the extracted tables.
func compareModel(model *relational.Model, dialect ddl.Dialect, tables []providers.Table) *VerifyReport {
	report := &VerifyReport{}

	for _, table := range model.Ordered() {
		report.Tables++

		actual, ok := providers.FindTable(tables, table.Name)
		if !ok {
			report.Missing = append(report.Missing, table.Name)
			continue
		}

		for _, col := range table.Columns {
			name := table.Name + "." + col.Name
			got, ok := actual.Column(col.Name)
			if !ok {
				report.Missing = append(report.Missing, name)
				continue
			}

			want := dialect.ColumnType(col.Type)
			if have := providers.NormalizeType(got); have != want {
				report.Mismatched = append(report.Mismatched, fmt.Sprintf("%s: expected %s, got %s", name, want, have))
			}
			if col.IsPrimaryKey && !got.IsPrimaryKey {
				report.Mismatched = append(report.Mismatched, fmt.Sprintf("%s: expected primary key", name))
			}
		}

		for _, fk := range table.ForeignKeys() {
			if !hasForeignKey(actual, fk) {
				report.Missing = append(report.Missing, fmt.Sprintf("%s.%s -> %s.id", table.Name, fk.Name, fk.References))
			}
		}
	}

	return report
}

func hasForeignKey(table *providers.Table, col relational.Column) bool {
	for _, fk := range table.ForeignKeys {
		if fk.Column == col.Name && fk.RefTable == col.References && fk.RefColumn == "id" {
			return true
		}
	}
	return false
}
