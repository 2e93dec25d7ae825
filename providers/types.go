package providers

import "database/sql"

// Table represents a database table as extracted from a live database
type Table struct {
	Name        string
	Columns     []Column
	Indexes     []Index
	ForeignKeys []ForeignKey
}

// Column represents a database column
type Column struct {
	Name             string
	DataType         string
	IsNullable       bool
	DefaultValue     sql.NullString
	IsPrimaryKey     bool
	CharacterLength  sql.NullInt64
	NumericPrecision sql.NullInt64
	NumericScale     sql.NullInt64
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// ForeignKey represents a single-column foreign key constraint
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// FindTable returns the table with the given name.
func FindTable(tables []Table, name string) (*Table, bool) {
	for i := range tables {
		if tables[i].Name == name {
			return &tables[i], true
		}
	}
	return nil, false
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
