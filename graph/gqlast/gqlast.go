// Package gqlast adapts gqlparser schemas to source graphs.
package gqlast

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/graphapi/graph"
)

// Load parses and validates schema sources, prelude included, and returns
// the source graph.
func Load(sources ...*ast.Source) (*graph.Schema, error) {
	s, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return FromSchema(s), nil
}

// LoadString parses a single schema document.
func LoadString(name, input string) (*graph.Schema, error) {
	return Load(&ast.Source{Name: name, Input: input})
}

// FromSchema converts a validated gqlparser schema. Types and directives
// are ordered built-ins first, then by source position.
func FromSchema(s *ast.Schema) *graph.Schema {
	g := &graph.Schema{Description: s.Description}
	if s.Query != nil {
		g.QueryType = s.Query.Name
	}
	if s.Mutation != nil {
		g.MutationType = s.Mutation.Name
	}
	if s.Subscription != nil {
		g.SubscriptionType = s.Subscription.Name
	}

	defs := make([]*ast.Definition, 0, len(s.Types))
	for _, def := range s.Types {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b *ast.Definition) int {
		return comparePosition(a.BuiltIn, a.Position, a.Name, b.BuiltIn, b.Position, b.Name)
	})
	c := converter{schema: s}
	for _, def := range defs {
		g.Types = append(g.Types, c.definition(def))
	}

	dirs := make([]*ast.DirectiveDefinition, 0, len(s.Directives))
	for _, d := range s.Directives {
		dirs = append(dirs, d)
	}
	slices.SortFunc(dirs, func(a, b *ast.DirectiveDefinition) int {
		return comparePosition(isBuiltIn(a.Position), a.Position, a.Name, isBuiltIn(b.Position), b.Position, b.Name)
	})
	for _, d := range dirs {
		g.Directives = append(g.Directives, c.directiveDefinition(d))
	}
	return g
}

func isBuiltIn(pos *ast.Position) bool {
	return pos != nil && pos.Src != nil && pos.Src.BuiltIn
}

func comparePosition(aBuiltIn bool, a *ast.Position, aName string, bBuiltIn bool, b *ast.Position, bName string) int {
	if aBuiltIn != bBuiltIn {
		if aBuiltIn {
			return -1
		}
		return 1
	}
	if a != nil && b != nil {
		var aSrc, bSrc string
		if a.Src != nil {
			aSrc = a.Src.Name
		}
		if b.Src != nil {
			bSrc = b.Src.Name
		}
		if c := cmp.Compare(aSrc, bSrc); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
	}
	return cmp.Compare(aName, bName)
}

type converter struct {
	schema *ast.Schema
}

func (c converter) definition(def *ast.Definition) *graph.Type {
	t := &graph.Type{
		Kind:        graph.Kind(def.Kind),
		Name:        def.Name,
		Description: def.Description,
		BuiltIn:     def.BuiltIn,
		Directives:  c.directives(def.Directives),
		Interfaces:  slices.Clone(def.Interfaces),
	}
	if d := def.Directives.ForName("specifiedBy"); d != nil {
		if arg := d.Arguments.ForName("url"); arg != nil && arg.Value != nil {
			t.SpecifiedByURL = arg.Value.Raw
		}
	}
	switch def.Kind {
	case ast.Object, ast.Interface:
		for _, f := range def.Fields {
			if graph.IsMeta(f.Name) {
				continue
			}
			t.Fields = append(t.Fields, c.field(f))
		}
	case ast.Union:
		t.PossibleTypes = slices.Clone(def.Types)
	case ast.Enum:
		for _, v := range def.EnumValues {
			t.EnumValues = append(t.EnumValues, &graph.EnumValue{
				Name:        v.Name,
				Description: v.Description,
				Directives:  c.directives(v.Directives),
				Deprecation: deprecation(v.Directives),
			})
		}
	case ast.InputObject:
		for _, f := range def.Fields {
			t.InputFields = append(t.InputFields, &graph.InputValue{
				Name:         f.Name,
				Description:  f.Description,
				Type:         c.typeRef(f.Type),
				DefaultValue: Literal(f.DefaultValue),
				Directives:   c.directives(f.Directives),
				Deprecation:  deprecation(f.Directives),
			})
		}
	}
	return t
}

func (c converter) field(f *ast.FieldDefinition) *graph.Field {
	return &graph.Field{
		Name:        f.Name,
		Description: f.Description,
		Args:        c.arguments(f.Arguments),
		Type:        c.typeRef(f.Type),
		Directives:  c.directives(f.Directives),
		Deprecation: deprecation(f.Directives),
	}
}

func (c converter) arguments(args ast.ArgumentDefinitionList) []*graph.InputValue {
	var values []*graph.InputValue
	for _, a := range args {
		values = append(values, &graph.InputValue{
			Name:         a.Name,
			Description:  a.Description,
			Type:         c.typeRef(a.Type),
			DefaultValue: Literal(a.DefaultValue),
			Directives:   c.directives(a.Directives),
			Deprecation:  deprecation(a.Directives),
		})
	}
	return values
}

func (c converter) directiveDefinition(d *ast.DirectiveDefinition) *graph.DirectiveDefinition {
	def := &graph.DirectiveDefinition{
		Name:        d.Name,
		Description: d.Description,
		Args:        c.arguments(d.Arguments),
		Repeatable:  d.IsRepeatable,
		BuiltIn:     isBuiltIn(d.Position),
	}
	for _, loc := range d.Locations {
		def.Locations = append(def.Locations, string(loc))
	}
	return def
}

// directives converts applied directives. @deprecated and @specifiedBy are
// carried by dedicated fields instead.
func (c converter) directives(list ast.DirectiveList) []*graph.Directive {
	var dirs []*graph.Directive
	for _, d := range list {
		if d.Name == "deprecated" || d.Name == "specifiedBy" {
			continue
		}
		dir := &graph.Directive{Name: d.Name}
		for _, arg := range d.Arguments {
			dir.Args = append(dir.Args, &graph.Argument{Name: arg.Name, Value: Literal(arg.Value)})
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

func deprecation(list ast.DirectiveList) *graph.Deprecation {
	d := list.ForName("deprecated")
	if d == nil {
		return nil
	}
	dep := &graph.Deprecation{}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil && arg.Value.Kind != ast.NullValue {
		dep.Reason = arg.Value.Raw
	}
	return dep
}

func (c converter) typeRef(t *ast.Type) *graph.TypeRef {
	if t == nil {
		return nil
	}
	var ref *graph.TypeRef
	if t.Elem != nil {
		ref = graph.ListOf(c.typeRef(t.Elem))
	} else {
		var kind graph.Kind
		if def := c.schema.Types[t.NamedType]; def != nil {
			kind = graph.Kind(def.Kind)
		}
		ref = graph.NamedRef(t.NamedType, kind)
	}
	if t.NonNull {
		return graph.NonNullOf(ref)
	}
	return ref
}

// Literal converts a constant value. A nil value yields nil.
func Literal(v *ast.Value) *graph.Literal {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case ast.IntValue:
		return &graph.Literal{Kind: graph.IntLiteral, Raw: v.Raw}
	case ast.FloatValue:
		return &graph.Literal{Kind: graph.FloatLiteral, Raw: v.Raw}
	case ast.StringValue, ast.BlockValue:
		return &graph.Literal{Kind: graph.StringLiteral, Raw: v.Raw}
	case ast.BooleanValue:
		return &graph.Literal{Kind: graph.BooleanLiteral, Raw: v.Raw}
	case ast.EnumValue:
		return &graph.Literal{Kind: graph.EnumLiteral, Raw: v.Raw}
	case ast.ListValue:
		l := &graph.Literal{Kind: graph.ListLiteral, List: []*graph.Literal{}}
		for _, child := range v.Children {
			l.List = append(l.List, Literal(child.Value))
		}
		return l
	case ast.ObjectValue:
		l := &graph.Literal{Kind: graph.ObjectLiteral, Fields: []*graph.ObjectField{}}
		for _, child := range v.Children {
			l.Fields = append(l.Fields, &graph.ObjectField{Name: child.Name, Value: Literal(child.Value)})
		}
		return l
	}
	return &graph.Literal{Kind: graph.NullLiteral}
}
