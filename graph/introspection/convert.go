package introspection

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/syssam/graphapi/graph"
	"github.com/syssam/graphapi/graph/gqlast"
)

// ToGraph converts introspection data to a source graph. Types keep the
// order of the payload.
func ToGraph(s *Schema) (*graph.Schema, error) {
	g := &graph.Schema{Description: deref(s.Description)}
	if s.QueryType != nil {
		g.QueryType = s.QueryType.Name
	}
	if s.MutationType != nil {
		g.MutationType = s.MutationType.Name
	}
	if s.SubscriptionType != nil {
		g.SubscriptionType = s.SubscriptionType.Name
	}
	for _, ft := range s.Types {
		t, err := convertType(ft)
		if err != nil {
			return nil, fmt.Errorf("introspection: type %s: %w", ft.Name, err)
		}
		g.Types = append(g.Types, t)
	}
	for _, d := range s.Directives {
		args, err := convertInputValues(d.Args)
		if err != nil {
			return nil, fmt.Errorf("introspection: directive @%s: %w", d.Name, err)
		}
		g.Directives = append(g.Directives, &graph.DirectiveDefinition{
			Name:        d.Name,
			Description: deref(d.Description),
			Args:        args,
			Locations:   append([]string(nil), d.Locations...),
			Repeatable:  d.IsRepeatable,
			BuiltIn:     isBuiltinDirective(d.Name),
		})
	}
	return g, nil
}

func isBuiltinDirective(name string) bool {
	switch name {
	case "skip", "include", "deprecated", "specifiedBy", "oneOf", "defer":
		return true
	}
	return false
}

func convertType(ft *FullType) (*graph.Type, error) {
	t := &graph.Type{
		Kind:           graph.Kind(ft.Kind),
		Name:           ft.Name,
		Description:    deref(ft.Description),
		SpecifiedByURL: deref(ft.SpecifiedByURL),
		BuiltIn:        graph.IsMeta(ft.Name) || isBuiltinScalar(ft.Kind, ft.Name),
	}
	for _, f := range ft.Fields {
		if graph.IsMeta(f.Name) {
			continue
		}
		typ, err := convertTypeRef(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		args, err := convertInputValues(f.Args)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		t.Fields = append(t.Fields, &graph.Field{
			Name:        f.Name,
			Description: deref(f.Description),
			Args:        args,
			Type:        typ,
			Deprecation: deprecation(f.IsDeprecated, f.DeprecationReason),
		})
	}
	for _, i := range ft.Interfaces {
		t.Interfaces = append(t.Interfaces, deref(i.Name))
	}
	for _, p := range ft.PossibleTypes {
		t.PossibleTypes = append(t.PossibleTypes, deref(p.Name))
	}
	for _, v := range ft.EnumValues {
		t.EnumValues = append(t.EnumValues, &graph.EnumValue{
			Name:        v.Name,
			Description: deref(v.Description),
			Deprecation: deprecation(v.IsDeprecated, v.DeprecationReason),
		})
	}
	inputs, err := convertInputValues(ft.InputFields)
	if err != nil {
		return nil, err
	}
	t.InputFields = inputs
	return t, nil
}

func isBuiltinScalar(kind, name string) bool {
	if kind != string(graph.Scalar) {
		return false
	}
	switch name {
	case "Int", "Float", "String", "Boolean", "ID":
		return true
	}
	return false
}

func convertInputValues(values []*InputValue) ([]*graph.InputValue, error) {
	var out []*graph.InputValue
	for _, v := range values {
		typ, err := convertTypeRef(v.Type)
		if err != nil {
			return nil, fmt.Errorf("input value %s: %w", v.Name, err)
		}
		iv := &graph.InputValue{
			Name:        v.Name,
			Description: deref(v.Description),
			Type:        typ,
			Deprecation: deprecation(v.IsDeprecated, v.DeprecationReason),
		}
		if v.DefaultValue != nil {
			if iv.DefaultValue, err = ParseLiteral(*v.DefaultValue); err != nil {
				return nil, fmt.Errorf("input value %s: %w", v.Name, err)
			}
		}
		out = append(out, iv)
	}
	return out, nil
}

func deprecation(deprecated bool, reason *string) *graph.Deprecation {
	if !deprecated {
		return nil
	}
	return &graph.Deprecation{Reason: deref(reason)}
}

func convertTypeRef(t *TypeRef) (*graph.TypeRef, error) {
	if t == nil {
		return nil, fmt.Errorf("missing type reference")
	}
	switch graph.WrapperKind(t.Kind) {
	case graph.NonNull, graph.List:
		if t.OfType == nil {
			return nil, fmt.Errorf("%s reference without ofType", t.Kind)
		}
		inner, err := convertTypeRef(t.OfType)
		if err != nil {
			return nil, err
		}
		if t.Kind == string(graph.NonNull) {
			return graph.NonNullOf(inner), nil
		}
		return graph.ListOf(inner), nil
	}
	if t.Name == nil {
		return nil, fmt.Errorf("%s reference without name", t.Kind)
	}
	return graph.NamedRef(*t.Name, graph.Kind(t.Kind)), nil
}

// ParseLiteral parses a constant value written in schema notation, as found
// in "defaultValue".
func ParseLiteral(s string) (*graph.Literal, error) {
	doc, err := parser.ParseSchema(&ast.Source{
		Name:  "defaultValue",
		Input: "scalar Literal @literal(value: " + s + ")",
	})
	if err != nil {
		return nil, fmt.Errorf("parse default value %q: %w", s, err)
	}
	if len(doc.Definitions) != 1 || len(doc.Definitions[0].Directives) != 1 ||
		len(doc.Definitions[0].Directives[0].Arguments) != 1 {
		return nil, fmt.Errorf("parse default value %q: not a single value", s)
	}
	return gqlast.Literal(doc.Definitions[0].Directives[0].Arguments[0].Value), nil
}
