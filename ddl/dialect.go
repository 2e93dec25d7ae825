// Package ddl renders a relational.Model as SQL DDL, a DBML entity
// relationship description, or a human-readable summary.
package ddl

import (
	"fmt"
	"strings"

	"github.com/alc6/mismo2schema/relational"
)

// Dialect maps semantic column types and defaults onto a SQL dialect.
type Dialect interface {
	// Name returns the dialect identifier.
	Name() string
	// ColumnType returns the native column type for a semantic type.
	ColumnType(t relational.SemanticType) string
	// DefaultExpr returns the default expression for a default behavior,
	// or "" when the column has no server-side default.
	DefaultExpr(d relational.DefaultBehavior) string
	// QuoteIdent returns a table or column name as it appears in statements.
	QuoteIdent(name string) string
	// QualifiedName returns the quoted table name as it appears in statements.
	QualifiedName(table string) string
}

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// LookupDialect returns the dialect registered under name. Schema only
// applies to postgres.
func LookupDialect(name, schema string) (Dialect, error) {
	switch strings.ToLower(name) {
	case DialectPostgres, "postgresql":
		return &Postgres{Schema: schema}, nil
	case DialectSQLite, "sqlite3":
		return &SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", name)
	}
}

// Postgres renders PostgreSQL types. Tables are qualified with Schema when set.
type Postgres struct {
	Schema string
}

func (p *Postgres) Name() string {
	return DialectPostgres
}

func (p *Postgres) ColumnType(t relational.SemanticType) string {
	switch t.Kind {
	case relational.KindIdentifier:
		return "serial"
	case relational.KindForeignKey, relational.KindInteger:
		return "integer"
	case relational.KindNumeric:
		return fmt.Sprintf("numeric(%d,%d)", t.Precision, t.Scale)
	case relational.KindDate:
		return "date"
	case relational.KindBoolean:
		return "boolean"
	case relational.KindVarchar:
		return fmt.Sprintf("varchar(%d)", t.Length)
	case relational.KindJSON:
		return "json"
	default:
		return "text"
	}
}

func (p *Postgres) DefaultExpr(d relational.DefaultBehavior) string {
	switch d {
	case relational.DefaultOnInsert, relational.DefaultOnInsertAndUpdate:
		return "now()"
	default:
		return ""
	}
}

func (p *Postgres) QuoteIdent(name string) string {
	return QuoteIdent(name)
}

func (p *Postgres) QualifiedName(table string) string {
	if p.Schema == "" {
		return QuoteIdent(table)
	}
	return QuoteIdent(p.Schema) + "." + QuoteIdent(table)
}

// SQLite renders SQLite types. SQLite has no JSON column type, so JSON
// documents are stored as text.
type SQLite struct{}

func (s *SQLite) Name() string {
	return DialectSQLite
}

func (s *SQLite) ColumnType(t relational.SemanticType) string {
	switch t.Kind {
	case relational.KindIdentifier, relational.KindForeignKey, relational.KindInteger:
		return "integer"
	case relational.KindNumeric:
		return fmt.Sprintf("numeric(%d,%d)", t.Precision, t.Scale)
	case relational.KindDate:
		return "date"
	case relational.KindBoolean:
		return "boolean"
	case relational.KindVarchar:
		return fmt.Sprintf("varchar(%d)", t.Length)
	default:
		return "text"
	}
}

func (s *SQLite) DefaultExpr(d relational.DefaultBehavior) string {
	switch d {
	case relational.DefaultOnInsert, relational.DefaultOnInsertAndUpdate:
		return "CURRENT_DATE"
	default:
		return ""
	}
}

func (s *SQLite) QuoteIdent(name string) string {
	return QuoteIdent(name)
}

func (s *SQLite) QualifiedName(table string) string {
	return QuoteIdent(table)
}
