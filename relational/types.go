// Package relational derives a relational table model from a MISMO schema
// tree. It owns the type-mapping policy and the structural conventions for
// keys and bookkeeping columns; rendering the model is left to the ddl package.
package relational

import "fmt"

// Kind enumerates the semantic column types.
type Kind int

const (
	KindIdentifier Kind = iota
	KindForeignKey
	KindNumeric
	KindDate
	KindBoolean
	KindInteger
	KindVarchar
	KindJSON
)

// SemanticType is a dialect-independent column type.
type SemanticType struct {
	Kind      Kind
	Precision int // numeric only
	Scale     int // numeric only
	Length    int // varchar only
}

var (
	Identifier   = SemanticType{Kind: KindIdentifier}
	ForeignKey   = SemanticType{Kind: KindForeignKey}
	Date         = SemanticType{Kind: KindDate}
	Boolean      = SemanticType{Kind: KindBoolean}
	Integer      = SemanticType{Kind: KindInteger}
	JSONDocument = SemanticType{Kind: KindJSON}
)

// Numeric returns a fixed-precision decimal type.
func Numeric(precision, scale int) SemanticType {
	return SemanticType{Kind: KindNumeric, Precision: precision, Scale: scale}
}

// VariableString returns a bounded string type.
func VariableString(maxLen int) SemanticType {
	return SemanticType{Kind: KindVarchar, Length: maxLen}
}

func (t SemanticType) String() string {
	switch t.Kind {
	case KindIdentifier:
		return "Identifier"
	case KindForeignKey:
		return "ForeignKey"
	case KindNumeric:
		return fmt.Sprintf("Numeric(%d,%d)", t.Precision, t.Scale)
	case KindDate:
		return "Date"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindVarchar:
		return fmt.Sprintf("VariableString(%d)", t.Length)
	case KindJSON:
		return "JSONDocument"
	default:
		return fmt.Sprintf("Kind(%d)", int(t.Kind))
	}
}

// DefaultBehavior describes a server-side column default.
type DefaultBehavior int

const (
	DefaultNone DefaultBehavior = iota
	DefaultOnInsert
	DefaultOnInsertAndUpdate
)

func (d DefaultBehavior) String() string {
	switch d {
	case DefaultOnInsert:
		return "set on insert"
	case DefaultOnInsertAndUpdate:
		return "set on insert and update"
	default:
		return "none"
	}
}

// Column is one derived table column.
type Column struct {
	Name         string
	Type         SemanticType
	IsPrimaryKey bool
	Default      DefaultBehavior

	// References names the table a foreign key column points at.
	References string
}

// Table is one derived table.
type Table struct {
	Container string
	Name      string
	Columns   []Column

	// Parent is set only when the table was derived as a nested child.
	Parent *Table

	// Omitted lists structured child elements that produced no column.
	Omitted []string
}

// PrimaryKey returns the primary key column.
func (t *Table) PrimaryKey() (Column, bool) {
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			return c, true
		}
	}
	return Column{}, false
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

// ColumnNames returns the column names in insertion order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ForeignKeys returns the foreign key columns in insertion order.
func (t *Table) ForeignKeys() []Column {
	var fks []Column
	for _, c := range t.Columns {
		if c.Type.Kind == KindForeignKey {
			fks = append(fks, c)
		}
	}
	return fks
}

// Model is the set of tables derived in one run, keyed by container name.
type Model struct {
	Tables map[string]*Table

	// Order lists container names in derivation order.
	Order []string
}

// Table returns the table derived for a container.
func (m *Model) Table(container string) (*Table, bool) {
	t, ok := m.Tables[container]
	return t, ok
}

// Ordered returns the tables in derivation order.
func (m *Model) Ordered() []*Table {
	tables := make([]*Table, 0, len(m.Order))
	for _, name := range m.Order {
		tables = append(tables, m.Tables[name])
	}
	return tables
}

// Len returns the number of derived tables.
func (m *Model) Len() int {
	return len(m.Order)
}
