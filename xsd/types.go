package xsd

import (
	"sort"
	"strings"
)

// Namespace is the XML Schema namespace URI used to recognise built-in types.
const Namespace = "http://www.w3.org/2001/XMLSchema"

// TypeKind classifies a resolved schema type.
type TypeKind int

const (
	KindBuiltin    TypeKind = iota // xsd:string, xsd:decimal, ...
	KindSimple                     // named or anonymous simpleType
	KindComplex                    // complexType
	KindUnresolved                 // reference to a type the reader could not find
)

func (k TypeKind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindSimple:
		return "simple"
	case KindComplex:
		return "complex"
	default:
		return "unresolved"
	}
}

// Schema is a resolved XML schema: top-level elements and named types.
type Schema struct {
	TargetNamespace string
	Elements        map[string]*Element
	Types           map[string]*Type

	// Unresolved lists type names referenced but never declared.
	Unresolved []string
}

// Lookup returns the top-level element with the given name.
func (s *Schema) Lookup(name string) (*Element, bool) {
	if s == nil {
		return nil, false
	}
	e, ok := s.Elements[name]
	return e, ok
}

// ElementNames returns the top-level element names in sorted order.
func (s *Schema) ElementNames() []string {
	names := make([]string, 0, len(s.Elements))
	for name := range s.Elements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Element represents an element declaration.
type Element struct {
	Name      string
	Type      *Type
	MinOccurs int
	MaxOccurs int // -1 when unbounded
}

// IsSimple reports whether the element carries a scalar value.
func (e *Element) IsSimple() bool {
	return e != nil && e.Type.IsSimple()
}

// Children returns the ordered child elements of a complex element.
func (e *Element) Children() []*Element {
	if e == nil || e.Type == nil {
		return nil
	}
	return e.Type.Content
}

// Type is a resolved type definition.
type Type struct {
	Name string
	Kind TypeKind
	Base *Type

	// Content holds the child elements of a complex type, with sequence,
	// choice, all and group particles flattened in document order.
	Content []*Element

	// SimpleContent is set for complex types that wrap a scalar value
	// (attributes only, no child elements).
	SimpleContent bool
}

// IsSimple reports whether values of this type are scalars. Complex types
// with simple content count as scalar since they have no child elements.
func (t *Type) IsSimple() bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case KindBuiltin, KindSimple, KindUnresolved:
		return true
	case KindComplex:
		return t.SimpleContent && len(t.Content) == 0
	}
	return false
}

// String renders the type descriptor: the type name followed by its base
// lineage, e.g. "MISMOAmount(MISMOAmount_Base(xsd:decimal))".
func (t *Type) String() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	depth := 0
	for cur := t; cur != nil && depth < maxLineage; cur = cur.Base {
		name := cur.Name
		if name == "" {
			name = "anonymous"
		}
		if depth > 0 {
			sb.WriteByte('(')
		}
		sb.WriteString(name)
		depth++
	}
	sb.WriteString(strings.Repeat(")", depth-1))
	return sb.String()
}

// maxLineage bounds String for malformed self-derived types.
const maxLineage = 32
