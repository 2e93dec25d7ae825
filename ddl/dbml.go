package ddl

import (
	"fmt"
	"strings"

	"github.com/alc6/mismo2schema/relational"
)

// RenderDBML formats the model as dbdiagram.io DBML. Column types use
// PostgreSQL spelling without schema qualification.
func RenderDBML(model *relational.Model) string {
	dialect := &Postgres{}

	var sb strings.Builder
	var refs []string

	for _, table := range model.Ordered() {
		sb.WriteString(fmt.Sprintf("Table %s {\n", QuoteIdent(table.Name)))

		for _, col := range table.Columns {
			var settings []string
			if col.IsPrimaryKey {
				settings = append(settings, "pk")
			}
			if expr := dialect.DefaultExpr(col.Default); expr != "" {
				settings = append(settings, fmt.Sprintf("default: `%s`", expr))
			}

			sb.WriteString(fmt.Sprintf("  %s %s", QuoteIdent(col.Name), dbmlType(dialect.ColumnType(col.Type))))
			if len(settings) > 0 {
				sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(settings, ", ")))
			}
			sb.WriteString("\n")

			if col.References != "" {
				refs = append(refs, fmt.Sprintf("Ref: %s.%s < %s.%s",
					QuoteIdent(col.References), relational.ColumnID, QuoteIdent(table.Name), QuoteIdent(col.Name)))
			}
		}

		if len(table.Omitted) > 0 {
			sb.WriteString(fmt.Sprintf("  Note: 'not mapped: %s'\n", strings.Join(table.Omitted, ", ")))
		}
		sb.WriteString("}\n\n")
	}

	for _, ref := range refs {
		sb.WriteString(ref)
		sb.WriteString("\n")
	}

	return sb.String()
}

// dbmlType quotes types containing a comma, which DBML would otherwise
// read as a setting separator.
func dbmlType(t string) string {
	if strings.Contains(t, ",") {
		return fmt.Sprintf("%q", t)
	}
	return t
}
