package introspection

import (
	"slices"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/graphapi/graph"
	"github.com/syssam/graphapi/graph/gqlast"
)

// FromSchema returns the introspection data a server would answer for the
// given schema. Types and directives are sorted by name.
func FromSchema(s *ast.Schema) *Schema {
	out := &Schema{Description: ptr(s.Description)}
	if s.Query != nil {
		out.QueryType = &TypeName{Name: s.Query.Name}
	}
	if s.Mutation != nil {
		out.MutationType = &TypeName{Name: s.Mutation.Name}
	}
	if s.Subscription != nil {
		out.SubscriptionType = &TypeName{Name: s.Subscription.Name}
	}

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		out.Types = append(out.Types, fullType(s, s.Types[name]))
	}

	dirs := make([]string, 0, len(s.Directives))
	for name := range s.Directives {
		dirs = append(dirs, name)
	}
	slices.Sort(dirs)
	for _, name := range dirs {
		d := s.Directives[name]
		dir := &Directive{
			Name:         d.Name,
			Description:  ptr(d.Description),
			IsRepeatable: d.IsRepeatable,
			Locations:    []string{},
			Args:         inputValues(s, d.Arguments),
		}
		for _, loc := range d.Locations {
			dir.Locations = append(dir.Locations, string(loc))
		}
		out.Directives = append(out.Directives, dir)
	}
	return out
}

func fullType(s *ast.Schema, def *ast.Definition) *FullType {
	t := &FullType{
		Kind:        string(def.Kind),
		Name:        def.Name,
		Description: ptr(def.Description),
	}
	if d := def.Directives.ForName("specifiedBy"); d != nil {
		if arg := d.Arguments.ForName("url"); arg != nil && arg.Value != nil {
			t.SpecifiedByURL = ptr(arg.Value.Raw)
		}
	}
	switch def.Kind {
	case ast.Object, ast.Interface:
		t.Fields = []*Field{}
		for _, f := range def.Fields {
			if graph.IsMeta(f.Name) {
				continue
			}
			reason, deprecated := directiveDeprecation(f.Directives)
			t.Fields = append(t.Fields, &Field{
				Name:              f.Name,
				Description:       ptr(f.Description),
				Args:              inputValues(s, f.Arguments),
				Type:              typeRef(s, f.Type),
				IsDeprecated:      deprecated,
				DeprecationReason: reason,
			})
		}
		t.Interfaces = []*TypeRef{}
		for _, name := range def.Interfaces {
			t.Interfaces = append(t.Interfaces, namedRef(s, name))
		}
		if def.Kind == ast.Interface {
			for _, impl := range s.GetPossibleTypes(def) {
				t.PossibleTypes = append(t.PossibleTypes, namedRef(s, impl.Name))
			}
		}
	case ast.Union:
		for _, name := range def.Types {
			t.PossibleTypes = append(t.PossibleTypes, namedRef(s, name))
		}
	case ast.Enum:
		for _, v := range def.EnumValues {
			reason, deprecated := directiveDeprecation(v.Directives)
			t.EnumValues = append(t.EnumValues, &EnumValue{
				Name:              v.Name,
				Description:       ptr(v.Description),
				IsDeprecated:      deprecated,
				DeprecationReason: reason,
			})
		}
	case ast.InputObject:
		t.InputFields = []*InputValue{}
		for _, f := range def.Fields {
			t.InputFields = append(t.InputFields, inputValue(s, f.Name, f.Description, f.Type, f.DefaultValue, f.Directives))
		}
	}
	return t
}

func inputValues(s *ast.Schema, args ast.ArgumentDefinitionList) []*InputValue {
	values := []*InputValue{}
	for _, a := range args {
		values = append(values, inputValue(s, a.Name, a.Description, a.Type, a.DefaultValue, a.Directives))
	}
	return values
}

func inputValue(s *ast.Schema, name, description string, typ *ast.Type, def *ast.Value, dirs ast.DirectiveList) *InputValue {
	reason, deprecated := directiveDeprecation(dirs)
	iv := &InputValue{
		Name:              name,
		Description:       ptr(description),
		Type:              typeRef(s, typ),
		IsDeprecated:      deprecated,
		DeprecationReason: reason,
	}
	if def != nil {
		v := gqlast.Literal(def).String()
		iv.DefaultValue = &v
	}
	return iv
}

// directiveDeprecation reports the reason of an applied @deprecated, defaulting it
// the way servers do.
func directiveDeprecation(dirs ast.DirectiveList) (*string, bool) {
	d := dirs.ForName("deprecated")
	if d == nil {
		return nil, false
	}
	reason := "No longer supported"
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil && arg.Value.Kind != ast.NullValue {
		reason = arg.Value.Raw
	}
	return &reason, true
}

func typeRef(s *ast.Schema, t *ast.Type) *TypeRef {
	var ref *TypeRef
	if t.Elem != nil {
		ref = &TypeRef{Kind: string(graph.List), OfType: typeRef(s, t.Elem)}
	} else {
		ref = namedRef(s, t.NamedType)
	}
	if t.NonNull {
		return &TypeRef{Kind: string(graph.NonNull), OfType: ref}
	}
	return ref
}

func namedRef(s *ast.Schema, name string) *TypeRef {
	kind := string(graph.Scalar)
	if def := s.Types[name]; def != nil {
		kind = string(def.Kind)
	}
	return &TypeRef{Kind: kind, Name: &name}
}
