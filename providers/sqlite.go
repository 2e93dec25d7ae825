package providers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alc6/mismo2schema/ddl"
)

// SQLiteProvider reads the schema of a SQLite database through PRAGMA queries
type SQLiteProvider struct{}

// NewSQLiteProvider creates a new SQLite provider
func NewSQLiteProvider() SchemaProvider {
	return &SQLiteProvider{}
}

func (p *SQLiteProvider) Name() string {
	return "sqlite"
}

// IsAvailable always returns true; the driver is linked in
func (p *SQLiteProvider) IsAvailable() bool {
	return true
}

func (p *SQLiteProvider) ExtractSchema(ctx context.Context, params ExtractParams) (*SchemaResult, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("sqlite provider requires database connection")
	}

	slog.Debug("extracting schema using sqlite provider", "format", params.Format)

	tables, err := ExtractSQLiteSchema(ctx, params.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to extract schema: %w", err)
	}

	return buildResult(tables, params.Format)
}

// ExtractSQLiteSchema reads every user table of a SQLite database. Queries
// never overlap, so it works on a pool limited to one connection.
func ExtractSQLiteSchema(ctx context.Context, db *sql.DB) ([]Table, error) {
	names, err := sqliteTableNames(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}

	var tables []Table
	for _, name := range names {
		columns, err := sqliteColumns(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", name, err)
		}

		foreignKeys, err := sqliteForeignKeys(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get foreign keys for table %s: %w", name, err)
		}

		indexes, err := sqliteIndexes(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get indexes for table %s: %w", name, err)
		}

		tables = append(tables, Table{
			Name:        name,
			Columns:     columns,
			Indexes:     indexes,
			ForeignKeys: foreignKeys,
		})
	}

	slog.Info("schema extraction completed", "tables", len(tables))
	return tables, nil
}

func sqliteTableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func sqliteColumns(ctx context.Context, db *sql.DB, table string) ([]Column, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", ddl.QuoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var cid, notNull, pk int
		var name, declared string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &declared, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		col := parseDeclaredType(declared)
		col.Name = name
		col.IsNullable = notNull == 0 && pk == 0
		col.DefaultValue = defaultValue
		col.IsPrimaryKey = pk > 0
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func sqliteForeignKeys(ctx context.Context, db *sql.DB, table string) ([]ForeignKey, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", ddl.QuoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foreignKeys []ForeignKey
	for rows.Next() {
		var id, seq int
		var refTable, from, onUpdate, onDelete, match string
		var to sql.NullString

		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		fk := ForeignKey{Column: from, RefTable: refTable, RefColumn: to.String}
		if !to.Valid {
			// Omitted target column means the referenced primary key.
			fk.RefColumn = "id"
		}
		foreignKeys = append(foreignKeys, fk)
	}

	return foreignKeys, rows.Err()
}

func sqliteIndexes(ctx context.Context, db *sql.DB, table string) ([]Index, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", ddl.QuoteIdent(table)))
	if err != nil {
		return nil, err
	}

	var indexes []Index
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}

		// Skip indexes backing the primary key
		if origin == "pk" {
			continue
		}
		indexes = append(indexes, Index{Name: name, IsUnique: unique == 1})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range indexes {
		columns, err := sqliteIndexColumns(ctx, db, indexes[i].Name)
		if err != nil {
			return nil, fmt.Errorf("failed to get columns for index %s: %w", indexes[i].Name, err)
		}
		indexes[i].Columns = columns
	}

	return indexes, nil
}

func sqliteIndexColumns(ctx context.Context, db *sql.DB, index string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", ddl.QuoteIdent(index)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString

		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}

	return columns, rows.Err()
}

// parseDeclaredType splits a declared SQLite type such as "numeric(15,2)"
// into the catalog fields postgres reports.
func parseDeclaredType(declared string) Column {
	declared = strings.ToLower(strings.TrimSpace(declared))

	base, args, _ := strings.Cut(declared, "(")
	base = strings.TrimSpace(base)
	args = strings.TrimSuffix(strings.TrimSpace(args), ")")

	var params []int64
	if args != "" {
		for _, part := range strings.Split(args, ",") {
			n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				break
			}
			params = append(params, n)
		}
	}

	col := Column{DataType: base}
	switch base {
	case "varchar", "character varying":
		col.DataType = "character varying"
		if len(params) > 0 {
			col.CharacterLength = sql.NullInt64{Int64: params[0], Valid: true}
		}
	case "numeric", "decimal":
		if len(params) > 0 {
			col.NumericPrecision = sql.NullInt64{Int64: params[0], Valid: true}
		}
		if len(params) > 1 {
			col.NumericScale = sql.NullInt64{Int64: params[1], Valid: true}
		}
	}
	return col
}
