package providers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

const defaultSchema = "public"

// ExtractSchemaFromDB reads tables, columns, indexes and foreign keys of a
// postgres schema from the catalog.
func ExtractSchemaFromDB(ctx context.Context, db *sql.DB, schema string) ([]Table, error) {
	if schema == "" {
		schema = defaultSchema
	}

	slog.Debug("starting schema extraction", "schema", schema)
	tables, err := getTables(ctx, db, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	slog.Info("found database tables", "count", len(tables), "tables", tables)

	var result []Table
	for _, tableName := range tables {
		slog.Debug("processing table", "table", tableName)

		columns, err := getColumns(ctx, db, schema, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}

		indexes, err := getIndexes(ctx, db, schema, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to get indexes for table %s: %w", tableName, err)
		}

		foreignKeys, err := getForeignKeys(ctx, db, schema, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to get foreign keys for table %s: %w", tableName, err)
		}
		slog.Debug("extracted table", "table", tableName, "columns", len(columns), "indexes", len(indexes), "foreign_keys", len(foreignKeys))

		result = append(result, Table{
			Name:        tableName,
			Columns:     columns,
			Indexes:     indexes,
			ForeignKeys: foreignKeys,
		})
	}

	slog.Info("schema extraction completed", "tables", len(result))
	return result, nil
}

func getTables(ctx context.Context, db *sql.DB, schema string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := db.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

func getColumns(ctx context.Context, db *sql.DB, schema, tableName string) ([]Column, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES' as is_nullable,
			c.column_default,
			EXISTS (
				SELECT 1
				FROM information_schema.key_column_usage kcu
				JOIN information_schema.table_constraints tc ON
					kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
				WHERE tc.constraint_type = 'PRIMARY KEY'
				AND kcu.table_schema = c.table_schema
				AND kcu.table_name = c.table_name
				AND kcu.column_name = c.column_name
			) as is_primary_key,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := db.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Name, &col.DataType, &col.IsNullable, &col.DefaultValue, &col.IsPrimaryKey, &col.CharacterLength, &col.NumericPrecision, &col.NumericScale); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func getIndexes(ctx context.Context, db *sql.DB, schema, tableName string) ([]Index, error) {
	query := `
		SELECT
			ic.relname,
			array_agg(a.attname ORDER BY a.attnum) as columns,
			idx.indisunique
		FROM pg_index idx
		JOIN pg_class ic ON ic.oid = idx.indexrelid
		JOIN pg_class tc ON tc.oid = idx.indrelid
		JOIN pg_namespace n ON n.oid = tc.relnamespace
		JOIN pg_attribute a ON a.attrelid = tc.oid AND a.attnum = ANY(idx.indkey)
		WHERE n.nspname = $1
		AND tc.relname = $2
		AND NOT idx.indisprimary
		GROUP BY ic.relname, idx.indisunique
		ORDER BY ic.relname
	`

	rows, err := db.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var index Index
		var columnsArray string

		if err := rows.Scan(&index.Name, &columnsArray, &index.IsUnique); err != nil {
			return nil, err
		}

		columnsArray = strings.Trim(columnsArray, "{}")
		index.Columns = strings.Split(columnsArray, ",")

		indexes = append(indexes, index)
	}

	return indexes, rows.Err()
}

func getForeignKeys(ctx context.Context, db *sql.DB, schema, tableName string) ([]ForeignKey, error) {
	query := `
		SELECT
			kcu.column_name,
			ccu.table_name,
			ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu ON
			tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu ON
			tc.constraint_name = ccu.constraint_name AND tc.table_schema = ccu.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		AND tc.table_schema = $1
		AND tc.table_name = $2
		ORDER BY kcu.ordinal_position, kcu.column_name
	`

	rows, err := db.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foreignKeys []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.Column, &fk.RefTable, &fk.RefColumn); err != nil {
			return nil, err
		}
		foreignKeys = append(foreignKeys, fk)
	}

	return foreignKeys, rows.Err()
}
