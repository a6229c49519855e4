package builder

import (
	"fmt"
	"strconv"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/graph"
)

// TranslateLiteral decodes a literal into a plain value: int64, float64,
// bool, string (strings and enum values), nil, []any or *graphapi.Map[any].
// An integer too large for int64 decodes as float64.
func TranslateLiteral(l *graph.Literal) (any, error) {
	if l == nil {
		return nil, nil
	}
	switch l.Kind {
	case graph.IntLiteral:
		if i, err := strconv.ParseInt(l.Raw, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(l.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid Int literal %q", l.Raw)
		}
		return f, nil
	case graph.FloatLiteral:
		f, err := strconv.ParseFloat(l.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid Float literal %q", l.Raw)
		}
		return f, nil
	case graph.BooleanLiteral:
		return l.Raw == "true", nil
	case graph.StringLiteral, graph.EnumLiteral:
		return l.Raw, nil
	case graph.NullLiteral:
		return nil, nil
	case graph.ListLiteral:
		list := make([]any, 0, len(l.List))
		for _, item := range l.List {
			v, err := TranslateLiteral(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case graph.ObjectLiteral:
		obj := graphapi.NewMap[any]()
		for _, f := range l.Fields {
			v, err := TranslateLiteral(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			obj.Set(f.Name, v)
		}
		return obj, nil
	}
	return nil, fmt.Errorf("unknown literal kind %s", l.Kind)
}

// TranslateAttached converts applied directives and a deprecation marker.
// A deprecation adds a "deprecated" directive whose reason is kept only
// when it differs from the default reason. It returns nil when there is
// nothing to record.
func TranslateAttached(dirs []*graph.Directive, dep *graph.Deprecation) (*graphapi.Map[*graphapi.Directive], error) {
	if len(dirs) == 0 && dep == nil {
		return nil, nil
	}
	out := graphapi.NewMap[*graphapi.Directive]()
	for _, d := range dirs {
		dir := &graphapi.Directive{Ref: graphapi.Ref(graphapi.KindDirectiveDefinition, d.Name)}
		if len(d.Args) > 0 {
			dir.Meta = graphapi.NewMap[any]()
			for _, arg := range d.Args {
				v, err := TranslateLiteral(arg.Value)
				if err != nil {
					return nil, fmt.Errorf("directive @%s argument %s: %w", d.Name, arg.Name, err)
				}
				dir.Meta.Set(arg.Name, v)
			}
		}
		out.Set(d.Name, dir)
	}
	if dep != nil {
		dir := &graphapi.Directive{Ref: graphapi.Ref(graphapi.KindDirectiveDefinition, "deprecated")}
		if dep.Reason != "" && dep.Reason != graphapi.DefaultDeprecationReason {
			dir.Meta = graphapi.NewMap[any]()
			dir.Meta.Set("reason", dep.Reason)
		}
		out.Set("deprecated", dir)
	}
	return out, nil
}

// directiveDefinition converts a directive declaration.
func (r *registry) directiveDefinition(d *graph.DirectiveDefinition) (*graphapi.DirectiveDefinition, error) {
	args, err := r.inputValues(d.Args)
	if err != nil {
		return nil, err
	}
	locations := append([]string{}, d.Locations...)
	return &graphapi.DirectiveDefinition{
		Title:       d.Name,
		Description: d.Description,
		Locations:   locations,
		Args:        args,
		Repeatable:  d.Repeatable,
	}, nil
}
