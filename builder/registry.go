// Package builder translates source graphs into GraphApi documents.
package builder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/graph"
	"github.com/syssam/graphapi/graph/gqlast"
	"github.com/syssam/graphapi/graph/introspection"
	"github.com/syssam/graphapi/typeref"
)

// FromSchema builds a document from a gqlparser schema.
func FromSchema(s *ast.Schema, opts ...Option) (*graphapi.Document, error) {
	return Build(gqlast.FromSchema(s), opts...)
}

// FromIntrospection builds a document from introspection data.
func FromIntrospection(s *introspection.Schema, opts ...Option) (*graphapi.Document, error) {
	g, err := introspection.ToGraph(s)
	if err != nil {
		return nil, err
	}
	return Build(g, opts...)
}

// Build walks every named type of the source graph once and returns the
// document. Root operation types become the queries, mutations and
// subscriptions maps; introspection types and built-in scalars are skipped.
// An unknown type kind aborts the build with a *graphapi.BuildError.
func Build(s *graph.Schema, opts ...Option) (*graphapi.Document, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	r := &registry{
		cfg:    cfg,
		schema: s,
		enc:    cfg.Nullability,
		log:    cfg.Logger.With("component", "builder"),
	}
	return r.build()
}

// TranslateDirectiveDefinition converts a single directive declaration.
func TranslateDirectiveDefinition(d *graph.DirectiveDefinition, opts ...Option) (*graphapi.DirectiveDefinition, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	r := &registry{cfg: cfg, schema: &graph.Schema{}, enc: cfg.Nullability, log: cfg.Logger}
	return r.directiveDefinition(d)
}

type registry struct {
	cfg    *Config
	schema *graph.Schema
	enc    typeref.Encoding
	log    *slog.Logger
}

func (r *registry) build() (*graphapi.Document, error) {
	doc := graphapi.NewDocument()
	doc.Description = r.schema.Description
	c := doc.Components

	for _, d := range r.schema.Directives {
		if d.Name == "deprecated" || d.Name == "specifiedBy" {
			continue
		}
		def, err := r.directiveDefinition(d)
		if err != nil {
			return nil, wrap(err, "@"+d.Name, "")
		}
		c.DirectiveDefinitions = set(c.DirectiveDefinitions, d.Name, def)
	}

	for _, t := range r.schema.Types {
		if root := r.schema.RootKind(t.Name); root != "" {
			ops, err := r.operations(t)
			if err != nil {
				return nil, err
			}
			switch root {
			case "query":
				doc.Queries = ops
			case "mutation":
				doc.Mutations = ops
			case "subscription":
				doc.Subscriptions = ops
			}
			r.log.Debug("root operations", "type", t.Name, "root", root, "count", ops.Len())
			continue
		}
		if graph.IsMeta(t.Name) {
			r.log.Debug("skip introspection type", "type", t.Name)
			continue
		}
		if err := r.component(c, t); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// component classifies t and stores its translation in c.
func (r *registry) component(c *graphapi.Components, t *graph.Type) error {
	directives, err := TranslateAttached(t.Directives, nil)
	if err != nil {
		return wrap(err, t.Name, "")
	}
	var kind graphapi.Kind
	switch t.Kind {
	case graph.Scalar:
		if typeref.IsBuiltinScalar(t.Name) {
			r.log.Debug("skip built-in scalar", "type", t.Name)
			return nil
		}
		primitive, format := r.cfg.coercion().Classify(t.Name)
		c.Scalars = set(c.Scalars, t.Name, &graphapi.Scalar{
			Title:          t.Name,
			Description:    t.Description,
			Directives:     directives,
			Type:           graphapi.TypeOf(primitive),
			Format:         format,
			SpecifiedByURL: t.SpecifiedByURL,
		})
		kind = graphapi.KindScalar
	case graph.Object, graph.Interface:
		obj, err := r.object(t)
		if err != nil {
			return err
		}
		obj.Directives = directives
		if t.Kind == graph.Object {
			c.Objects = set(c.Objects, t.Name, obj)
			kind = graphapi.KindObject
		} else {
			c.Interfaces = set(c.Interfaces, t.Name, obj)
			kind = graphapi.KindInterface
		}
	case graph.Union:
		u := &graphapi.Union{
			Title:       t.Name,
			Description: t.Description,
			Directives:  directives,
			Type:        graphapi.TypeOf(typeref.Object),
			OneOf:       []*graphapi.Schema{},
		}
		for _, name := range t.PossibleTypes {
			member := graph.Object
			if pt := r.schema.Type(name); pt != nil {
				member = pt.Kind
			}
			ref, err := typeref.FromGraph(graph.NamedRef(name, member), true, r.cfg.coercion())
			if err != nil {
				return wrap(err, t.Name, "")
			}
			u.OneOf = append(u.OneOf, r.enc.Encode(ref))
		}
		c.Unions = set(c.Unions, t.Name, u)
		kind = graphapi.KindUnion
	case graph.Enum:
		e, err := r.enum(t)
		if err != nil {
			return err
		}
		e.Directives = directives
		c.Enums = set(c.Enums, t.Name, e)
		kind = graphapi.KindEnum
	case graph.InputObject:
		fields, err := r.inputValues(t.InputFields)
		if err != nil {
			return wrap(err, t.Name, "")
		}
		c.InputObjects = set(c.InputObjects, t.Name, &graphapi.InputObject{
			Title:       t.Name,
			Description: t.Description,
			Directives:  directives,
			Type:        graphapi.TypeOf(typeref.Object),
			InputFields: fields,
		})
		kind = graphapi.KindInputObject
	default:
		return graphapi.NewBuildError(t.Name, string(t.Kind), "unsupported named type kind")
	}
	r.log.Debug("component", "kind", kind, "type", t.Name)
	return nil
}

func (r *registry) object(t *graph.Type) (*graphapi.Object, error) {
	obj := &graphapi.Object{
		Title:       t.Name,
		Description: t.Description,
		Type:        graphapi.TypeOf(typeref.Object),
	}
	for _, f := range t.Fields {
		if f.Type.IsNonNull() {
			obj.Required = append(obj.Required, f.Name)
		}
		field, err := r.field(f)
		if err != nil {
			return nil, wrap(err, t.Name, f.Name)
		}
		obj.Properties = set(obj.Properties, f.Name, field)
	}
	for _, name := range t.Interfaces {
		obj.Interfaces = append(obj.Interfaces, &graphapi.Schema{Ref: graphapi.Ref(graphapi.KindInterface, name)})
	}
	return obj, nil
}

func (r *registry) field(f *graph.Field) (*graphapi.Field, error) {
	ref, err := typeref.FromGraph(f.Type, false, r.cfg.coercion())
	if err != nil {
		return nil, err
	}
	directives, err := TranslateAttached(f.Directives, f.Deprecation)
	if err != nil {
		return nil, err
	}
	args, err := r.inputValues(f.Args)
	if err != nil {
		return nil, err
	}
	return &graphapi.Field{
		Title:       f.Name,
		Description: f.Description,
		Directives:  directives,
		Schema:      *r.enc.Encode(ref),
		Args:        args,
	}, nil
}

// operations converts the fields of a root type. The root type's own
// description, directives and interfaces have no place in the document.
func (r *registry) operations(t *graph.Type) (*graphapi.Map[*graphapi.Operation], error) {
	if t.Description != "" || len(t.Directives) > 0 || len(t.Interfaces) > 0 {
		r.log.Debug("drop root type metadata", "type", t.Name,
			"description", t.Description != "", "directives", len(t.Directives), "interfaces", t.Interfaces)
	}
	ops := graphapi.NewMap[*graphapi.Operation]()
	for _, f := range t.Fields {
		field, err := r.field(f)
		if err != nil {
			return nil, wrap(err, t.Name, f.Name)
		}
		response := field.Schema
		ops.Set(f.Name, &graphapi.Operation{
			Title:       field.Title,
			Description: field.Description,
			Directives:  field.Directives,
			Args:        field.Args,
			Response:    &response,
		})
	}
	return ops, nil
}

// inputValues converts arguments or input fields. The type fragment is
// encoded as non-null; outer nullability is carried by Required.
func (r *registry) inputValues(values []*graph.InputValue) (*graphapi.Map[*graphapi.InputValue], error) {
	var out *graphapi.Map[*graphapi.InputValue]
	for _, v := range values {
		ref, err := typeref.FromGraph(v.Type, true, r.cfg.coercion())
		if err != nil {
			return nil, wrapField(err, v.Name)
		}
		directives, err := TranslateAttached(v.Directives, v.Deprecation)
		if err != nil {
			return nil, wrapField(err, v.Name)
		}
		def, err := TranslateLiteral(v.DefaultValue)
		if err != nil {
			return nil, wrapField(fmt.Errorf("default value: %w", err), v.Name)
		}
		out = set(out, v.Name, &graphapi.InputValue{
			Title:       v.Name,
			Description: v.Description,
			Directives:  directives,
			Required:    v.Type.IsNonNull(),
			Schema:      r.enc.Encode(ref),
			Default:     def,
		})
	}
	return out, nil
}

func (r *registry) enum(t *graph.Type) (*graphapi.Enum, error) {
	e := &graphapi.Enum{
		Title:       t.Name,
		Description: t.Description,
		Type:        graphapi.TypeOf(typeref.String),
	}
	for _, v := range t.EnumValues {
		directives, err := TranslateAttached(v.Directives, v.Deprecation)
		if err != nil {
			return nil, wrap(err, t.Name, v.Name)
		}
		value := &graphapi.EnumValue{Description: v.Description, Directives: directives}
		switch {
		case r.cfg.Enums == EnumConst:
			value.Const = v.Name
			e.OneOf = append(e.OneOf, value)
		case r.cfg.DisableStringEnums:
			e.Values = set(e.Values, v.Name, value)
		default:
			e.Enum = append(e.Enum, v.Name)
			if value.Description != "" || value.Directives != nil {
				e.Values = set(e.Values, v.Name, value)
			}
		}
	}
	return e, nil
}

func set[V any](m *graphapi.Map[V], key string, v V) *graphapi.Map[V] {
	if m == nil {
		m = graphapi.NewMap[V]()
	}
	m.Set(key, v)
	return m
}

// wrap scopes err to a type and field, keeping existing build errors.
func wrap(err error, typeName, fieldName string) error {
	var be *graphapi.BuildError
	if errors.As(err, &be) {
		if be.Type == "" {
			be.Type = typeName
		}
		if be.Field == "" {
			be.Field = fieldName
		}
		return be
	}
	return &graphapi.BuildError{Type: typeName, Field: fieldName, Message: "translate", Cause: err}
}

func wrapField(err error, fieldName string) error {
	var be *graphapi.BuildError
	if errors.As(err, &be) {
		return err
	}
	return fmt.Errorf("%s: %w", fieldName, err)
}
