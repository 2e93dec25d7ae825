package providers

import (
	"fmt"
	"strings"

	"github.com/alc6/mismo2schema/ddl"
)

// FormatSchemaInfo formats schema as human-readable text
func FormatSchemaInfo(tables []Table) string {
	var sb strings.Builder

	for _, table := range tables {
		sb.WriteString(fmt.Sprintf("Table: %s\n", table.Name))
		sb.WriteString("Columns:\n")

		for _, col := range table.Columns {
			nullable := "NOT NULL"
			if col.IsNullable {
				nullable = "NULL"
			}

			pk := ""
			if col.IsPrimaryKey {
				pk = " (PRIMARY KEY)"
			}

			defaultVal := ""
			if col.DefaultValue.Valid {
				defaultVal = fmt.Sprintf(" DEFAULT %s", col.DefaultValue.String)
			}

			sb.WriteString(fmt.Sprintf("  - %s %s %s%s%s\n",
				col.Name, strings.ToUpper(NormalizeType(col)), nullable, defaultVal, pk))
		}

		if len(table.ForeignKeys) > 0 {
			sb.WriteString("Foreign keys:\n")
			for _, fk := range table.ForeignKeys {
				sb.WriteString(fmt.Sprintf("  - %s -> %s.%s\n", fk.Column, fk.RefTable, fk.RefColumn))
			}
		}

		if len(table.Indexes) > 0 {
			sb.WriteString("Indexes:\n")
			for _, idx := range table.Indexes {
				unique := ""
				if idx.IsUnique {
					unique = " (UNIQUE)"
				}
				sb.WriteString(fmt.Sprintf("  - %s on (%s)%s\n",
					idx.Name, strings.Join(idx.Columns, ", "), unique))
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatSchemaSQL formats schema as SQL CREATE statements
func FormatSchemaSQL(tables []Table) string {
	var sb strings.Builder

	for _, table := range tables {
		sb.WriteString(fmt.Sprintf("create table %s (\n", ddl.QuoteIdent(table.Name)))

		var defs []string
		var primaryKeys []string

		for _, col := range table.Columns {
			var colDef strings.Builder
			colDef.WriteString(fmt.Sprintf("    %s %s", ddl.QuoteIdent(col.Name), NormalizeType(col)))

			if !col.IsNullable {
				colDef.WriteString(" not null")
			}

			if col.DefaultValue.Valid && !isSequenceDefault(col) {
				colDef.WriteString(fmt.Sprintf(" default %s", col.DefaultValue.String))
			}

			defs = append(defs, colDef.String())

			if col.IsPrimaryKey {
				primaryKeys = append(primaryKeys, ddl.QuoteIdent(col.Name))
			}
		}

		if len(primaryKeys) > 0 {
			defs = append(defs, fmt.Sprintf("    primary key (%s)", strings.Join(primaryKeys, ", ")))
		}

		for _, fk := range table.ForeignKeys {
			defs = append(defs, fmt.Sprintf("    foreign key (%s) references %s (%s)",
				ddl.QuoteIdent(fk.Column), ddl.QuoteIdent(fk.RefTable), ddl.QuoteIdent(fk.RefColumn)))
		}

		sb.WriteString(strings.Join(defs, ",\n"))
		sb.WriteString("\n);\n\n")

		for _, idx := range table.Indexes {
			unique := ""
			if idx.IsUnique {
				unique = "unique "
			}
			sb.WriteString(fmt.Sprintf("create %sindex %s on %s (%s);\n",
				unique, ddl.QuoteIdent(idx.Name), ddl.QuoteIdent(table.Name), quoteAll(idx.Columns)))
		}

		if len(table.Indexes) > 0 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = ddl.QuoteIdent(name)
	}
	return strings.Join(quoted, ", ")
}

// NormalizeType returns the lowercase type spelling used in generated DDL,
// so catalog types from postgres and declared types from SQLite compare
// equal to what was rendered.
func NormalizeType(col Column) string {
	dataType := strings.ToLower(col.DataType)

	switch dataType {
	case "character varying", "varchar":
		if col.CharacterLength.Valid {
			return fmt.Sprintf("varchar(%d)", col.CharacterLength.Int64)
		}
		return "varchar"
	case "character", "char":
		if col.CharacterLength.Valid {
			return fmt.Sprintf("char(%d)", col.CharacterLength.Int64)
		}
		return "char"
	case "integer", "int", "int4":
		if isSequenceDefault(col) {
			return "serial"
		}
		return "integer"
	case "bigint", "int8":
		if isSequenceDefault(col) {
			return "bigserial"
		}
		return "bigint"
	case "numeric", "decimal":
		if col.NumericPrecision.Valid && col.NumericScale.Valid {
			return fmt.Sprintf("numeric(%d,%d)", col.NumericPrecision.Int64, col.NumericScale.Int64)
		} else if col.NumericPrecision.Valid {
			return fmt.Sprintf("numeric(%d)", col.NumericPrecision.Int64)
		}
		return "numeric"
	case "timestamp without time zone":
		return "timestamp"
	case "timestamp with time zone":
		return "timestamptz"
	case "bool":
		return "boolean"
	default:
		return dataType
	}
}

func isSequenceDefault(col Column) bool {
	return col.DefaultValue.Valid && strings.HasPrefix(col.DefaultValue.String, "nextval(")
}
