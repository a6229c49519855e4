// Package openapi exports the components of a GraphApi document as an
// OpenAPI 3.0 document.
//
// Every object, interface, input object, union, enum and custom scalar
// becomes an entry of components.schemas under its type name. Nullability is
// re-expressed with the OpenAPI 3.0 "nullable" keyword; a nullable reference
// is wrapped in allOf because keywords next to $ref are ignored.
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/typeref"
)

// Version is the OpenAPI version written by Export.
const Version = "3.0.3"

// Info describes the exported API. Empty fields fall back to the document.
type Info struct {
	Title       string
	Version     string
	Description string
	Logger      *slog.Logger
}

// Export converts the components of doc and validates the result.
func Export(doc *graphapi.Document, info Info) (*openapi3.T, error) {
	if info.Title == "" {
		info.Title = "GraphQL API"
	}
	if info.Version == "" {
		info.Version = doc.GraphAPI
	}
	if info.Version == "" {
		info.Version = graphapi.Version
	}
	if info.Description == "" {
		info.Description = doc.Description
	}
	if info.Logger == nil {
		info.Logger = slog.Default()
	}
	e := &exporter{
		doc:     doc,
		schemas: openapi3.Schemas{},
		log:     info.Logger.With("component", "openapi"),
	}
	if err := e.export(); err != nil {
		return nil, err
	}
	t := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: e.schemas},
	}
	if err := t.Validate(context.Background(), openapi3.DisableSchemaDefaultsValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate export: %w", err)
	}
	return t, nil
}

type exporter struct {
	doc     *graphapi.Document
	schemas openapi3.Schemas
	log     *slog.Logger
}

func (e *exporter) export() error {
	c := e.doc.Components
	if c == nil {
		return nil
	}
	// Allocate every schema first so references can point at their target.
	for _, names := range [][]string{
		c.Scalars.Keys(), c.Objects.Keys(), c.Interfaces.Keys(),
		c.Unions.Keys(), c.Enums.Keys(), c.InputObjects.Keys(),
	} {
		for _, name := range names {
			if _, ok := e.schemas[name]; ok {
				return fmt.Errorf("openapi: duplicate component name %s", name)
			}
			e.schemas[name] = &openapi3.SchemaRef{Value: &openapi3.Schema{}}
		}
	}

	for name, s := range c.Scalars.All() {
		e.fill(name, &openapi3.Schema{
			Type:        &openapi3.Types{s.Type.Kind()},
			Format:      s.Format,
			Title:       name,
			Description: s.Description,
		})
	}
	for name, o := range c.Objects.All() {
		if err := e.object(name, o); err != nil {
			return err
		}
	}
	for name, o := range c.Interfaces.All() {
		if err := e.object(name, o); err != nil {
			return err
		}
	}
	for name, u := range c.Unions.All() {
		s := &openapi3.Schema{Title: name, Description: u.Description}
		for _, member := range u.OneOf {
			ref, err := e.ref(member)
			if err != nil {
				return located(err, name, "")
			}
			s.OneOf = append(s.OneOf, ref)
		}
		e.fill(name, s)
	}
	for name, en := range c.Enums.All() {
		s := openapi3.NewStringSchema()
		s.Title = name
		s.Description = en.Description
		for _, m := range en.Members() {
			s.Enum = append(s.Enum, m)
		}
		e.fill(name, s)
	}
	for name, in := range c.InputObjects.All() {
		s := openapi3.NewObjectSchema()
		s.Title = name
		s.Description = in.Description
		for fname, f := range in.InputFields.All() {
			ref, err := e.ref(f.Schema)
			if err != nil {
				return located(err, name, fname)
			}
			if !f.Required {
				ref = nullable(ref)
			}
			def, err := plain(f.Default)
			if err != nil {
				return located(err, name, fname)
			}
			s.Properties[fname] = decorate(ref, f.Description, deprecated(f.Directives), def)
			if f.Required {
				s.Required = append(s.Required, fname)
			}
		}
		e.fill(name, s)
	}
	e.log.Debug("exported components", "count", len(e.schemas))
	return nil
}

func (e *exporter) object(name string, o *graphapi.Object) error {
	s := openapi3.NewObjectSchema()
	s.Title = name
	s.Description = o.Description
	s.Required = append(s.Required, o.Required...)
	for fname, f := range o.Properties.All() {
		ref, err := e.ref(&f.Schema)
		if err != nil {
			return located(err, name, fname)
		}
		s.Properties[fname] = decorate(ref, f.Description, deprecated(f.Directives), nil)
	}
	e.fill(name, s)
	return nil
}

// fill copies s into the schema allocated for name, keeping the pointer
// that references already hold.
func (e *exporter) fill(name string, s *openapi3.Schema) {
	*e.schemas[name].Value = *s
}

// ref decodes a type fragment and re-expresses it.
func (e *exporter) ref(s *graphapi.Schema) (*openapi3.SchemaRef, error) {
	r, err := typeref.Auto.Decode(s)
	if err != nil {
		return nil, err
	}
	return e.convert(r)
}

func (e *exporter) convert(r typeref.Ref) (*openapi3.SchemaRef, error) {
	var out *openapi3.SchemaRef
	switch r.Shape {
	case typeref.NamedShape:
		name := graphapi.RefName(r.Target)
		target, ok := e.schemas[name]
		if !ok {
			return nil, graphapi.NewPrintError(graphapi.ErrUnresolvedReference, r.Target, "no such component")
		}
		out = openapi3.NewSchemaRef("#/components/schemas/"+name, target.Value)
	case typeref.ListShape:
		items, err := e.convert(*r.Items)
		if err != nil {
			return nil, err
		}
		s := openapi3.NewArraySchema()
		s.Items = items
		out = s.NewRef()
	default:
		out = (&openapi3.Schema{Type: &openapi3.Types{r.Type}, Format: r.Format}).NewRef()
	}
	if r.Nullable {
		out = nullable(out)
	}
	return out, nil
}

func nullable(ref *openapi3.SchemaRef) *openapi3.SchemaRef {
	if ref.Ref != "" {
		return (&openapi3.Schema{AllOf: openapi3.SchemaRefs{ref}, Nullable: true}).NewRef()
	}
	ref.Value.Nullable = true
	return ref
}

// decorate adds annotations, wrapping bare references in allOf.
func decorate(ref *openapi3.SchemaRef, description string, deprecated bool, def any) *openapi3.SchemaRef {
	if description == "" && !deprecated && def == nil {
		return ref
	}
	if ref.Ref != "" {
		ref = (&openapi3.Schema{AllOf: openapi3.SchemaRefs{ref}}).NewRef()
	}
	ref.Value.Description = description
	ref.Value.Deprecated = deprecated
	ref.Value.Default = def
	return ref
}

func deprecated(dirs *graphapi.Map[*graphapi.Directive]) bool {
	return dirs.Has("deprecated")
}

// plain converts a decoded literal to the generic JSON shape.
func plain(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func located(err error, typeName, fieldName string) error {
	var pe *graphapi.PrintError
	if errors.As(err, &pe) {
		return pe.WithLocation(typeName, fieldName)
	}
	return fmt.Errorf("openapi: %s.%s: %w", typeName, fieldName, err)
}
