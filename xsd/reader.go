// Package xsd reads XML Schema documents into a resolved element/type tree.
//
// Only the constructs needed to derive relational tables are modelled:
// global elements, named and anonymous simple/complex types, element refs,
// named groups, simple content and complex content derivation. Choice and
// all groups are flattened into their parent sequence.
package xsd

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ParseFile reads the schema at path and every document it pulls in through
// xsd:include, resolved relative to the including file.
func ParseFile(path string) (*Schema, error) {
	return ParseFiles(path)
}

// ParseFiles reads several schema documents, with their includes, into one
// schema. A file reached twice is read once. When two documents declare the
// same name, the one read first wins.
func ParseFiles(paths ...string) (*Schema, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schema files given")
	}

	l := &loader{seen: make(map[string]bool)}
	for _, path := range paths {
		if err := l.load(path); err != nil {
			return nil, err
		}
	}

	schema := resolve(l.docs)
	slog.Info("parsed schema", "paths", paths, "documents", len(l.docs), "elements", len(schema.Elements), "types", len(schema.Types))
	return schema, nil
}

// Parse reads a single schema document. Include directives are ignored.
func Parse(r io.Reader) (*Schema, error) {
	doc, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return resolve([]*rawSchema{doc}), nil
}

func decode(r io.Reader) (*rawSchema, error) {
	var doc rawSchema
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

type loader struct {
	docs []*rawSchema
	seen map[string]bool
}

func (l *loader) load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path %s: %w", path, err)
	}
	if l.seen[abs] {
		return nil
	}
	l.seen[abs] = true

	f, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("failed to open schema %s: %w", path, err)
	}
	defer f.Close()

	slog.Debug("reading schema document", "path", abs)
	doc, err := decode(f)
	if err != nil {
		return fmt.Errorf("failed to parse schema %s: %w", path, err)
	}
	l.docs = append(l.docs, doc)

	for _, inc := range doc.Includes {
		loc := inc.SchemaLocation
		if loc == "" {
			continue
		}
		if strings.Contains(loc, "://") {
			slog.Warn("skipping remote schema include", "location", loc)
			continue
		}
		if err := l.load(filepath.Join(filepath.Dir(abs), loc)); err != nil {
			return err
		}
	}
	return nil
}

type fillState int

const (
	unfilled fillState = iota
	filling
	filled
)

// maxGroupDepth bounds named group expansion for self-referencing groups.
const maxGroupDepth = 64

type resolver struct {
	namespaces   map[string]string
	complexTypes map[string]*rawComplexType
	simpleTypes  map[string]*rawSimpleType
	groups       map[string]*rawGroup
	rawElements  map[string]*rawElement

	types    map[string]*Type
	builtins map[string]*Type
	missing  map[string]*Type
	globals  map[string]*Element
	state    map[*Type]fillState
}

func resolve(docs []*rawSchema) *Schema {
	r := &resolver{
		namespaces:   make(map[string]string),
		complexTypes: make(map[string]*rawComplexType),
		simpleTypes:  make(map[string]*rawSimpleType),
		groups:       make(map[string]*rawGroup),
		rawElements:  make(map[string]*rawElement),
		types:        make(map[string]*Type),
		builtins:     make(map[string]*Type),
		missing:      make(map[string]*Type),
		globals:      make(map[string]*Element),
		state:        make(map[*Type]fillState),
	}

	schema := &Schema{}
	for _, doc := range docs {
		if schema.TargetNamespace == "" {
			schema.TargetNamespace = doc.TargetNamespace
		}
		r.collect(doc)
	}

	for name := range r.complexTypes {
		r.types[name] = &Type{Name: name, Kind: KindComplex}
	}
	for name := range r.simpleTypes {
		if _, exists := r.types[name]; exists {
			continue
		}
		r.types[name] = &Type{Name: name, Kind: KindSimple}
	}
	for name, raw := range r.rawElements {
		r.globals[name] = &Element{
			Name:      name,
			MinOccurs: parseOccurs(raw.MinOccurs),
			MaxOccurs: parseOccurs(raw.MaxOccurs),
		}
	}

	for _, name := range sortedKeys(r.types) {
		r.ensureFilled(r.types[name])
	}
	for _, name := range sortedKeys(r.globals) {
		r.globals[name].Type = r.elementType(r.rawElements[name])
	}

	schema.Elements = r.globals
	schema.Types = r.types
	for name := range r.missing {
		schema.Unresolved = append(schema.Unresolved, name)
	}
	sort.Strings(schema.Unresolved)
	if len(schema.Unresolved) > 0 {
		slog.Warn("schema references undeclared types", "count", len(schema.Unresolved), "types", schema.Unresolved)
	}
	return schema
}

// collect indexes one document's declarations; the first declaration of a
// name wins.
func (r *resolver) collect(doc *rawSchema) {
	for _, a := range doc.Attrs {
		switch {
		case a.Name.Space == "xmlns":
			if _, ok := r.namespaces[a.Name.Local]; !ok {
				r.namespaces[a.Name.Local] = a.Value
			}
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			if _, ok := r.namespaces[""]; !ok {
				r.namespaces[""] = a.Value
			}
		}
	}
	for i := range doc.ComplexTypes {
		ct := &doc.ComplexTypes[i]
		if _, ok := r.complexTypes[ct.Name]; !ok && ct.Name != "" {
			r.complexTypes[ct.Name] = ct
		}
	}
	for i := range doc.SimpleTypes {
		st := &doc.SimpleTypes[i]
		if _, ok := r.simpleTypes[st.Name]; !ok && st.Name != "" {
			r.simpleTypes[st.Name] = st
		}
	}
	for i := range doc.Groups {
		g := &doc.Groups[i]
		if _, ok := r.groups[g.Name]; !ok && g.Name != "" {
			r.groups[g.Name] = g
		}
	}
	for i := range doc.Elements {
		e := &doc.Elements[i]
		if _, ok := r.rawElements[e.Name]; !ok && e.Name != "" {
			r.rawElements[e.Name] = e
		}
	}
}

func (r *resolver) ensureFilled(t *Type) {
	if r.state[t] != unfilled {
		return
	}
	r.state[t] = filling
	defer func() { r.state[t] = filled }()

	if raw, ok := r.complexTypes[t.Name]; ok && t.Kind == KindComplex {
		r.fillComplex(t, raw)
		return
	}
	if raw, ok := r.simpleTypes[t.Name]; ok {
		r.fillSimple(t, raw)
	}
}

func (r *resolver) fillComplex(t *Type, raw *rawComplexType) {
	switch {
	case raw.SimpleContent != nil:
		t.SimpleContent = true
		if d := raw.SimpleContent.derivation(); d != nil && d.Base != "" {
			t.Base = r.typeRef(d.Base)
		}
	case raw.ComplexContent != nil:
		d := raw.ComplexContent.derivation()
		if d == nil {
			return
		}
		if d.Base != "" {
			base := r.typeRef(d.Base)
			t.Base = base
			if raw.ComplexContent.Extension != nil {
				r.ensureFilled(base)
				t.Content = append(t.Content, base.Content...)
			}
		}
		t.Content = r.particles(t.Content, d.Group, d.Sequence, d.Choice, d.All)
	default:
		t.Content = r.particles(t.Content, raw.Group, raw.Sequence, raw.Choice, raw.All)
	}
}

func (r *resolver) fillSimple(t *Type, raw *rawSimpleType) {
	switch {
	case raw.Restriction != nil && raw.Restriction.Base != "":
		t.Base = r.typeRef(raw.Restriction.Base)
	case raw.Restriction != nil && raw.Restriction.SimpleType != nil:
		anon := &Type{Kind: KindSimple}
		r.fillSimple(anon, raw.Restriction.SimpleType)
		t.Base = anon
	case raw.List != nil, raw.Union != nil:
		// Lists and unions are stored as their lexical form.
		t.Base = r.builtin("string")
	}
}

func (c *rawContent) derivation() *rawDerivation {
	if c.Extension != nil {
		return c.Extension
	}
	return c.Restriction
}

func (r *resolver) particles(dst []*Element, ref *rawGroupRef, groups ...*rawModelGroup) []*Element {
	if ref != nil {
		dst = r.groupRef(dst, ref.Ref, 0)
	}
	for _, g := range groups {
		dst = r.modelGroup(dst, g, 0)
	}
	return dst
}

func (r *resolver) modelGroup(dst []*Element, g *rawModelGroup, depth int) []*Element {
	if g == nil {
		return dst
	}
	for _, p := range g.Particles {
		switch {
		case p.Element != nil:
			dst = append(dst, r.localElement(p.Element))
		case p.Group != nil:
			dst = r.modelGroup(dst, p.Group, depth)
		case p.GroupRef != "":
			dst = r.groupRef(dst, p.GroupRef, depth+1)
		}
	}
	return dst
}

func (r *resolver) groupRef(dst []*Element, ref string, depth int) []*Element {
	if depth > maxGroupDepth {
		slog.Warn("group nesting too deep", "group", ref)
		return dst
	}
	_, local := splitQName(ref)
	g, ok := r.groups[local]
	if !ok {
		slog.Warn("unknown group reference", "group", ref)
		return dst
	}
	for _, m := range []*rawModelGroup{g.Sequence, g.Choice, g.All} {
		dst = r.modelGroup(dst, m, depth)
	}
	return dst
}

// localElement resolves a particle element. References share the global
// declaration, so occurrence constraints on the reference are not kept.
func (r *resolver) localElement(raw *rawElement) *Element {
	if raw.Ref != "" {
		_, local := splitQName(raw.Ref)
		if g, ok := r.globals[local]; ok {
			return g
		}
		return &Element{Name: local, Type: r.unresolved(local), MinOccurs: 1, MaxOccurs: 1}
	}

	return &Element{
		Name:      raw.Name,
		Type:      r.elementType(raw),
		MinOccurs: parseOccurs(raw.MinOccurs),
		MaxOccurs: parseOccurs(raw.MaxOccurs),
	}
}

func (r *resolver) elementType(raw *rawElement) *Type {
	switch {
	case raw.Type != "":
		return r.typeRef(raw.Type)
	case raw.ComplexType != nil:
		t := &Type{Kind: KindComplex}
		r.fillComplex(t, raw.ComplexType)
		return t
	case raw.SimpleType != nil:
		t := &Type{Kind: KindSimple}
		r.fillSimple(t, raw.SimpleType)
		return t
	default:
		return r.builtin("anyType")
	}
}

func (r *resolver) typeRef(qname string) *Type {
	prefix, local := splitQName(qname)
	if r.namespaces[prefix] == Namespace {
		return r.builtin(local)
	}
	if t, ok := r.types[local]; ok {
		return t
	}
	return r.unresolved(local)
}

func (r *resolver) builtin(local string) *Type {
	if t, ok := r.builtins[local]; ok {
		return t
	}
	t := &Type{Name: "xsd:" + local, Kind: KindBuiltin}
	r.builtins[local] = t
	return t
}

func (r *resolver) unresolved(local string) *Type {
	if t, ok := r.missing[local]; ok {
		return t
	}
	t := &Type{Name: local, Kind: KindUnresolved}
	r.missing[local] = t
	return t
}

func splitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

// parseOccurs returns -1 for "unbounded" and 1 when the attribute is absent.
func parseOccurs(v string) int {
	switch v {
	case "":
		return 1
	case "unbounded":
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 1
	}
	return n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
