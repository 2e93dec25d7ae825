package ddl

import (
	"fmt"
	"strings"

	"github.com/alc6/mismo2schema/relational"
)

// Render formats the model as SQL create statements, parents first.
func Render(model *relational.Model, dialect Dialect) (string, error) {
	if dialect == nil {
		return "", fmt.Errorf("no dialect given")
	}

	tables, err := SortTables(model)
	if err != nil {
		return "", fmt.Errorf("failed to order tables: %w", err)
	}

	var sb strings.Builder
	for _, table := range tables {
		sb.WriteString(CreateTable(table, dialect))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// CreateTable formats one create table statement, terminated by ";\n".
func CreateTable(table *relational.Table, dialect Dialect) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("create table %s (\n", dialect.QualifiedName(table.Name)))

	var defs []string
	var primaryKeys []string

	for _, col := range table.Columns {
		var colDef strings.Builder
		colDef.WriteString(fmt.Sprintf("    %s %s", dialect.QuoteIdent(col.Name), dialect.ColumnType(col.Type)))

		if col.IsPrimaryKey {
			colDef.WriteString(" not null")
			primaryKeys = append(primaryKeys, dialect.QuoteIdent(col.Name))
		}

		if expr := dialect.DefaultExpr(col.Default); expr != "" {
			colDef.WriteString(fmt.Sprintf(" default %s", expr))
		}

		defs = append(defs, colDef.String())
	}

	if len(primaryKeys) > 0 {
		defs = append(defs, fmt.Sprintf("    primary key (%s)", strings.Join(primaryKeys, ", ")))
	}

	for _, fk := range table.ForeignKeys() {
		defs = append(defs, fmt.Sprintf("    foreign key (%s) references %s (%s)",
			dialect.QuoteIdent(fk.Name), dialect.QualifiedName(fk.References), relational.ColumnID))
	}

	sb.WriteString(strings.Join(defs, ",\n"))
	sb.WriteString("\n);\n")
	return sb.String()
}
