package providers

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"regexp"
	"strings"
)

// PgDumpProvider uses the pg_dump binary to extract schema
type PgDumpProvider struct{}

// NewPgDumpProvider creates a new pg_dump provider
func NewPgDumpProvider() SchemaProvider {
	return &PgDumpProvider{}
}

// Name returns the provider name
func (p *PgDumpProvider) Name() string {
	return "pg_dump"
}

// IsAvailable checks if pg_dump is available in PATH
func (p *PgDumpProvider) IsAvailable() bool {
	_, err := exec.LookPath("pg_dump")
	return err == nil
}

// ExtractSchema dumps the schema with pg_dump. Tables are parsed back out
// of the dump so results can be compared like catalog-based ones.
func (p *PgDumpProvider) ExtractSchema(ctx context.Context, params ExtractParams) (*SchemaResult, error) {
	if params.ConnectionString == "" {
		return nil, fmt.Errorf("pg_dump provider requires connection string")
	}

	// Only SQL format is supported by pg_dump
	if params.Format != FormatSQL {
		return nil, fmt.Errorf("pg_dump provider only supports SQL format")
	}

	if _, err := url.Parse(params.ConnectionString); err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	schema := params.Schema
	if schema == "" {
		schema = defaultSchema
	}

	args := []string{
		"--schema-only",    // Only dump schema, no data
		"--no-owner",       // Don't include ownership information
		"--no-privileges",  // Don't include privilege information
		"--no-tablespaces", // Don't include tablespace information
		"--no-comments",    // Don't include comments
		"--schema=" + schema,
		params.ConnectionString,
	}

	cmd := exec.CommandContext(ctx, "pg_dump", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("executing pg_dump", "schema", schema)

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pg_dump failed: %w\nstderr: %s", err, stderr.String())
	}

	rawSQL := cleanupPgDumpOutput(stdout.String(), schema)

	return &SchemaResult{
		Tables: ParseDump(rawSQL),
		RawSQL: rawSQL,
		Format: FormatSQL,
	}, nil
}

// cleanupPgDumpOutput drops comments, session settings and sequence
// definitions, and strips the schema qualifier from table names.
func cleanupPgDumpOutput(dump, schema string) string {
	var cleaned []string
	skipStatement := false

	for _, line := range strings.Split(dump, "\n") {
		trimmed := strings.TrimSpace(line)

		if skipStatement {
			if strings.HasSuffix(trimmed, ";") {
				skipStatement = false
			}
			continue
		}

		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}

		if strings.HasPrefix(trimmed, "SET ") ||
			strings.HasPrefix(trimmed, "SELECT ") ||
			strings.HasPrefix(trimmed, `\restrict`) ||
			strings.HasPrefix(trimmed, `\unrestrict`) ||
			strings.Contains(trimmed, "CREATE EXTENSION") ||
			strings.Contains(trimmed, "COMMENT ON EXTENSION") ||
			strings.HasPrefix(trimmed, "CREATE SCHEMA") {
			continue
		}

		// Multi-line statements that carry no table structure
		if strings.HasPrefix(trimmed, "CREATE SEQUENCE") ||
			strings.HasPrefix(trimmed, "ALTER SEQUENCE") ||
			(strings.HasPrefix(trimmed, "ALTER TABLE") && strings.Contains(trimmed, "OWNER TO")) {
			if !strings.HasSuffix(trimmed, ";") {
				skipStatement = true
			}
			continue
		}

		cleaned = append(cleaned, line)
	}

	result := strings.Join(cleaned, "\n")
	result = strings.ReplaceAll(result, schema+".", "")

	return strings.TrimSpace(result) + "\n"
}

var (
	createTableRe = regexp.MustCompile(`^CREATE TABLE (\S+) \($`)
	alterTableRe  = regexp.MustCompile(`^ALTER TABLE (?:ONLY )?(\S+)$`)
	setDefaultRe  = regexp.MustCompile(`^ALTER TABLE (?:ONLY )?(\S+) ALTER COLUMN (\S+) SET DEFAULT (.+);$`)
	primaryKeyRe  = regexp.MustCompile(`PRIMARY KEY \(([^)]+)\)`)
	foreignKeyRe  = regexp.MustCompile(`FOREIGN KEY \(("[^"]+"|\w+)\) REFERENCES (\S+)\(("[^"]+"|\w+)\)`)
	columnTypeRe  = regexp.MustCompile(`^(\w[\w ]*?)(?:\((\d+)(?:,(\d+))?\))?$`)
)

// ParseDump reads table definitions back out of cleaned pg_dump output.
// Only plain columns, primary keys and single-column foreign keys are
// recognised.
func ParseDump(dump string) []Table {
	var tables []Table
	index := make(map[string]int)

	var current *Table
	alterTarget := ""

	for _, line := range strings.Split(dump, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := createTableRe.FindStringSubmatch(trimmed); m != nil {
			name := unquoteIdent(m[1])
			tables = append(tables, Table{Name: name})
			index[name] = len(tables) - 1
			current = &tables[len(tables)-1]
			continue
		}

		if current != nil {
			if strings.HasPrefix(trimmed, ")") {
				current = nil
				continue
			}
			if col, ok := parseDumpColumn(trimmed); ok {
				current.Columns = append(current.Columns, col)
			}
			continue
		}

		if m := setDefaultRe.FindStringSubmatch(trimmed); m != nil {
			if i, ok := index[unquoteIdent(m[1])]; ok {
				for c := range tables[i].Columns {
					if tables[i].Columns[c].Name == unquoteIdent(m[2]) {
						tables[i].Columns[c].DefaultValue = sql.NullString{String: m[3], Valid: true}
					}
				}
			}
			continue
		}

		if m := alterTableRe.FindStringSubmatch(trimmed); m != nil {
			alterTarget = unquoteIdent(m[1])
			continue
		}

		i, ok := index[alterTarget]
		if alterTarget == "" || !ok {
			continue
		}
		if m := primaryKeyRe.FindStringSubmatch(trimmed); m != nil {
			for _, name := range strings.Split(m[1], ",") {
				name = unquoteIdent(strings.TrimSpace(name))
				for c := range tables[i].Columns {
					if tables[i].Columns[c].Name == name {
						tables[i].Columns[c].IsPrimaryKey = true
					}
				}
			}
		}
		if m := foreignKeyRe.FindStringSubmatch(trimmed); m != nil {
			tables[i].ForeignKeys = append(tables[i].ForeignKeys, ForeignKey{Column: unquoteIdent(m[1]), RefTable: unquoteIdent(m[2]), RefColumn: unquoteIdent(m[3])})
		}
		if strings.HasSuffix(trimmed, ";") {
			alterTarget = ""
		}
	}

	return tables
}

func parseDumpColumn(line string) (Column, bool) {
	line = strings.TrimSuffix(line, ",")
	if line == "" || strings.HasPrefix(line, "CONSTRAINT ") {
		return Column{}, false
	}

	name, rest, ok := strings.Cut(line, " ")
	if !ok {
		return Column{}, false
	}
	col := Column{Name: unquoteIdent(name), IsNullable: true}

	if i := strings.Index(rest, " DEFAULT "); i >= 0 {
		def := rest[i+len(" DEFAULT "):]
		def = strings.TrimSuffix(def, " NOT NULL")
		col.DefaultValue = sql.NullString{String: def, Valid: true}
		rest = rest[:i] + strings.TrimPrefix(rest[i:], " DEFAULT "+def)
	}
	if strings.HasSuffix(rest, " NOT NULL") {
		col.IsNullable = false
		rest = strings.TrimSuffix(rest, " NOT NULL")
	}

	m := columnTypeRe.FindStringSubmatch(strings.TrimSpace(rest))
	if m == nil {
		col.DataType = strings.TrimSpace(rest)
		return col, true
	}
	col.DataType = m[1]
	if m[2] != "" {
		var n int64
		fmt.Sscanf(m[2], "%d", &n)
		if col.DataType == "character varying" {
			col.CharacterLength = sql.NullInt64{Int64: n, Valid: true}
		} else {
			col.NumericPrecision = sql.NullInt64{Int64: n, Valid: true}
		}
	}
	if m[3] != "" {
		var n int64
		fmt.Sscanf(m[3], "%d", &n)
		col.NumericScale = sql.NullInt64{Int64: n, Valid: true}
	}
	return col, true
}

// unquoteIdent reverses pg_dump identifier quoting: "order" becomes order.
func unquoteIdent(name string) string {
	if len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		return strings.ReplaceAll(name[1:len(name)-1], `""`, `"`)
	}
	return name
}
