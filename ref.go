package graphapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"
)

// Kind identifies a components bucket.
type Kind string

// Component kinds.
const (
	KindScalar              Kind = "scalar"
	KindObject              Kind = "object"
	KindInterface           Kind = "interface"
	KindUnion               Kind = "union"
	KindEnum                Kind = "enum"
	KindInputObject         Kind = "inputObject"
	KindDirectiveDefinition Kind = "directiveDefinition"
)

// Kinds lists every component kind in document order.
var Kinds = []Kind{
	KindDirectiveDefinition,
	KindScalar,
	KindObject,
	KindInterface,
	KindUnion,
	KindEnum,
	KindInputObject,
}

// Bucket returns the components key holding kind, e.g. "inputObjects".
func (k Kind) Bucket() string {
	return inflect.Pluralize(string(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, kk := range Kinds {
		if k == kk {
			return true
		}
	}
	return false
}

const refPrefix = "#/components/"

// Ref returns the reference string of the named component.
func Ref(kind Kind, name string) string {
	return refPrefix + kind.Bucket() + "/" + name
}

// RefName returns the last path segment of a reference.
func RefName(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// ParseRef splits a reference into its kind and name.
func ParseRef(ref string) (Kind, string, error) {
	rest, ok := strings.CutPrefix(ref, refPrefix)
	if !ok {
		return "", "", fmt.Errorf("reference %q is not under %s", ref, refPrefix)
	}
	bucket, name, ok := strings.Cut(rest, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("reference %q has no component name", ref)
	}
	for _, k := range Kinds {
		if k.Bucket() == bucket {
			return k, name, nil
		}
	}
	return "", "", fmt.Errorf("reference %q names unknown bucket %q", ref, bucket)
}

// builtinDirectives are declared by every schema and may be referenced
// without a directiveDefinitions entry.
var builtinDirectives = map[string]bool{
	"deprecated":  true,
	"specifiedBy": true,
	"skip":        true,
	"include":     true,
	"oneOf":       true,
	"defer":       true,
}

// IsBuiltinDirective reports whether name is a directive every schema declares.
func IsBuiltinDirective(name string) bool {
	return builtinDirectives[name]
}

// Lookup returns the component stored under kind and name.
func (c *Components) Lookup(kind Kind, name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	switch kind {
	case KindScalar:
		return lookup(c.Scalars, name)
	case KindObject:
		return lookup(c.Objects, name)
	case KindInterface:
		return lookup(c.Interfaces, name)
	case KindUnion:
		return lookup(c.Unions, name)
	case KindEnum:
		return lookup(c.Enums, name)
	case KindInputObject:
		return lookup(c.InputObjects, name)
	case KindDirectiveDefinition:
		return lookup(c.DirectiveDefinitions, name)
	}
	return nil, false
}

func lookup[V any](m *Map[V], name string) (any, bool) {
	v, ok := m.Get(name)
	if !ok {
		return nil, false
	}
	return v, true
}

// Resolve returns the kind, name and component a reference points to.
func (d *Document) Resolve(ref string) (Kind, string, any, error) {
	kind, name, err := ParseRef(ref)
	if err != nil {
		return "", "", nil, NewPrintError(ErrUnresolvedReference, ref, err.Error())
	}
	v, ok := d.Components.Lookup(kind, name)
	if !ok {
		if kind == KindDirectiveDefinition && IsBuiltinDirective(name) {
			return kind, name, nil, nil
		}
		return "", "", nil, NewPrintError(ErrUnresolvedReference, ref, "no such component")
	}
	return kind, name, v, nil
}

// Validate checks that every reference in the document resolves and that no
// name is used by more than one component kind.
func (d *Document) Validate() error {
	var (
		errs  []error
		owner = map[string]Kind{}
	)
	if c := d.Components; c != nil {
		claim := func(kind Kind, names []string) {
			for _, n := range names {
				if prev, ok := owner[n]; ok {
					errs = append(errs, fmt.Errorf("graphapi: type %s is both %s and %s", n, prev, kind))
					continue
				}
				owner[n] = kind
			}
		}
		claim(KindScalar, c.Scalars.Keys())
		claim(KindObject, c.Objects.Keys())
		claim(KindInterface, c.Interfaces.Keys())
		claim(KindUnion, c.Unions.Keys())
		claim(KindEnum, c.Enums.Keys())
		claim(KindInputObject, c.InputObjects.Keys())
	}
	d.Walk(func(typeName, fieldName, ref string) {
		if _, _, _, err := d.Resolve(ref); err != nil {
			var pe *PrintError
			if errors.As(err, &pe) {
				err = pe.WithLocation(typeName, fieldName)
			}
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// Walk calls fn for every reference in the document, together with the
// type and field that hold it.
func (d *Document) Walk(fn func(typeName, fieldName, ref string)) {
	var (
		schema     func(t, f string, s *Schema)
		directives func(t, f string, m *Map[*Directive])
		inputs     func(t string, m *Map[*InputValue])
	)
	schema = func(t, f string, s *Schema) {
		if s == nil {
			return
		}
		if s.Ref != "" {
			fn(t, f, s.Ref)
		}
		schema(t, f, s.Items)
		for _, o := range s.OneOf {
			schema(t, f, o)
		}
	}
	directives = func(t, f string, m *Map[*Directive]) {
		for _, dir := range m.All() {
			fn(t, f, dir.Ref)
		}
	}
	inputs = func(t string, m *Map[*InputValue]) {
		for name, iv := range m.All() {
			directives(t, name, iv.Directives)
			schema(t, name, iv.Schema)
		}
	}
	operations := func(root string, m *Map[*Operation]) {
		for name, op := range m.All() {
			directives(root, name, op.Directives)
			inputs(root, op.Args)
			schema(root, name, op.Response)
		}
	}
	operations("Query", d.Queries)
	operations("Mutation", d.Mutations)
	operations("Subscription", d.Subscriptions)

	c := d.Components
	if c == nil {
		return
	}
	for name, def := range c.DirectiveDefinitions.All() {
		inputs(name, def.Args)
	}
	for name, s := range c.Scalars.All() {
		directives(name, "", s.Directives)
	}
	objects := func(m *Map[*Object]) {
		for name, o := range m.All() {
			directives(name, "", o.Directives)
			for _, iface := range o.Interfaces {
				schema(name, "", iface)
			}
			for fname, f := range o.Properties.All() {
				directives(name, fname, f.Directives)
				inputs(name, f.Args)
				schema(name, fname, &f.Schema)
			}
		}
	}
	objects(c.Objects)
	objects(c.Interfaces)
	for name, u := range c.Unions.All() {
		directives(name, "", u.Directives)
		for _, member := range u.OneOf {
			schema(name, "", member)
		}
	}
	for name, e := range c.Enums.All() {
		directives(name, "", e.Directives)
		for value, ev := range e.Values.All() {
			directives(name, value, ev.Directives)
		}
		for _, ev := range e.OneOf {
			directives(name, ev.Const, ev.Directives)
		}
	}
	for name, io := range c.InputObjects.All() {
		directives(name, "", io.Directives)
		inputs(name, io.InputFields)
	}
}
