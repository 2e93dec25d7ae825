package relational

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alc6/mismo2schema/xsd"
)

// DefaultContainers is the MISMO container allow-list, in derivation order.
var DefaultContainers = []string{"DEAL", "LOAN", "PROPERTY", "PARTY", "BORROWER", "ASSET", "LIABILITY"}

// Options controls model derivation.
type Options struct {
	// Containers is the allow-list of top-level element names. A nil slice
	// selects DefaultContainers; an empty slice derives nothing.
	Containers []string

	// ExpandNested derives structured child elements into child tables
	// linked back by <parent>_id instead of omitting them.
	ExpandNested bool

	// MaxDepth bounds ExpandNested recursion. Zero means unlimited.
	MaxDepth int
}

// DefaultOptions returns options for the standard MISMO container set.
func DefaultOptions() Options {
	return Options{Containers: append([]string(nil), DefaultContainers...)}
}

type builder struct {
	opts  Options
	model *Model

	// names maps each table name in use to the container that claimed it.
	names map[string]string
}

// BuildModel derives one table per allow-listed container present in schema.
// Containers missing from the schema are skipped. Structured child elements
// never become columns; unless ExpandNested is set they are only recorded on
// Table.Omitted.
func BuildModel(schema *xsd.Schema, opts Options) *Model {
	containers := opts.Containers
	if containers == nil {
		containers = DefaultContainers
	}

	b := &builder{
		opts:  opts,
		model: &Model{Tables: make(map[string]*Table)},
		names: make(map[string]string),
	}

	for _, name := range containers {
		if _, done := b.model.Tables[name]; done {
			slog.Debug("container already derived", "container", name)
			continue
		}
		elem, ok := schema.Lookup(name)
		if !ok {
			slog.Debug("container not defined in schema, skipping", "container", name)
			continue
		}
		b.derive(name, elem, nil, 0)
	}

	slog.Info("built relational model", "tables", b.model.Len(), "containers", len(containers))
	return b.model
}

func (b *builder) derive(name string, elem *xsd.Element, parent *Table, depth int) *Table {
	table := &Table{
		Container: name,
		Name:      b.tableName(name),
		Parent:    parent,
	}
	// Registered up front so a container nested inside itself terminates.
	b.model.Tables[name] = table
	b.model.Order = append(b.model.Order, name)

	taken := map[string]bool{
		ColumnID:             true,
		ColumnSequenceNumber: true,
		ColumnExtensionData:  true,
		ColumnCreatedAt:      true,
		ColumnUpdatedAt:      true,
	}

	table.Columns = append(table.Columns, Column{Name: ColumnID, Type: Identifier, IsPrimaryKey: true})
	if parent != nil {
		fk := ForeignKeyName(parent.Container)
		taken[fk] = true
		table.Columns = append(table.Columns, Column{Name: fk, Type: ForeignKey, References: parent.Name})
	}

	var structured []*xsd.Element
	for _, child := range elem.Children() {
		if !child.IsSimple() {
			table.Omitted = append(table.Omitted, child.Name)
			structured = append(structured, child)
			continue
		}

		col := ColumnName(child.Name)
		if taken[col] {
			slog.Warn("skipping element whose column name is already taken", "table", table.Name, "element", child.Name, "column", col)
			continue
		}
		taken[col] = true
		table.Columns = append(table.Columns, Column{Name: col, Type: MapType(child.Type)})
	}

	table.Columns = append(table.Columns, trailingColumns()...)

	slog.Debug("derived table", "container", name, "table", table.Name, "columns", len(table.Columns), "depth", depth)
	if len(table.Omitted) > 0 {
		slog.Info("structured child elements not mapped to columns", "table", table.Name, "count", len(table.Omitted), "expand", b.opts.ExpandNested)
	}

	if !b.opts.ExpandNested || (b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth) {
		return table
	}
	for _, child := range structured {
		if existing, ok := b.model.Tables[child.Name]; ok {
			slog.Debug("nested container already derived", "container", child.Name, "table", existing.Name, "parent", table.Name)
			continue
		}
		b.derive(child.Name, child, table, depth+1)
	}
	return table
}

// tableName returns the pluralized table name for a container, or a
// distinct fallback when another container already claimed it. A MISMO
// wrapper such as LOANS pluralizes to the same name as its LOAN items.
func (b *builder) tableName(container string) string {
	name := TableName(container)
	if owner, taken := b.names[name]; taken {
		fallback := strings.ToLower(container)
		for i := 2; b.names[fallback] != ""; i++ {
			fallback = fmt.Sprintf("%s_%d", strings.ToLower(container), i)
		}
		slog.Warn("table name already taken, using fallback", "container", container, "table", name, "owner", owner, "fallback", fallback)
		name = fallback
	}
	b.names[name] = container
	return name
}
