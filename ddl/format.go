package ddl

import (
	"fmt"
	"strings"

	"github.com/alc6/mismo2schema/relational"
)

// FormatModel formats the model as human-readable text
func FormatModel(model *relational.Model) string {
	var sb strings.Builder

	for _, table := range model.Ordered() {
		sb.WriteString(fmt.Sprintf("Table: %s (%s)\n", table.Name, table.Container))
		sb.WriteString("Columns:\n")

		for _, col := range table.Columns {
			pk := ""
			if col.IsPrimaryKey {
				pk = " (PRIMARY KEY)"
			}

			ref := ""
			if col.References != "" {
				ref = fmt.Sprintf(" -> %s.%s", col.References, relational.ColumnID)
			}

			defaultVal := ""
			if col.Default != relational.DefaultNone {
				defaultVal = fmt.Sprintf(" DEFAULT %s", col.Default)
			}

			sb.WriteString(fmt.Sprintf("  - %s %s%s%s%s\n", col.Name, col.Type, ref, defaultVal, pk))
		}

		if len(table.Omitted) > 0 {
			sb.WriteString("Omitted:\n")
			for _, name := range table.Omitted {
				sb.WriteString(fmt.Sprintf("  - %s\n", name))
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
