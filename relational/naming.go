package relational

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// Structural column names added to every table.
const (
	ColumnID             = "id"
	ColumnSequenceNumber = "sequence_number"
	ColumnExtensionData  = "extension_data"
	ColumnCreatedAt      = "created_at"
	ColumnUpdatedAt      = "updated_at"
)

// TableName returns the table name for a container: lower-cased and
// pluralized, so LOAN becomes loans and PROPERTY becomes properties.
func TableName(container string) string {
	return inflection.Plural(strings.ToLower(container))
}

// ForeignKeyName returns the column that links a child table to the table
// derived from the parent container.
func ForeignKeyName(parentContainer string) string {
	return strings.ToLower(parentContainer) + "_id"
}

// ColumnName returns the column name for a scalar child element.
func ColumnName(element string) string {
	return strings.ToLower(element)
}

func trailingColumns() []Column {
	return []Column{
		{Name: ColumnSequenceNumber, Type: Integer},
		{Name: ColumnExtensionData, Type: JSONDocument},
		{Name: ColumnCreatedAt, Type: Date, Default: DefaultOnInsert},
		{Name: ColumnUpdatedAt, Type: Date, Default: DefaultOnInsertAndUpdate},
	}
}
