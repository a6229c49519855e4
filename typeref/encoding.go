package typeref

import (
	"fmt"
	"strings"

	"github.com/syssam/graphapi"
)

// Encoding writes a Ref as a document fragment and reads it back.
type Encoding interface {
	Name() string
	Encode(Ref) *graphapi.Schema
	Decode(*graphapi.Schema) (Ref, error)
}

// Nullability encodings.
var (
	// Flag adds "nullable: true" to nullable fragments.
	Flag Encoding = flag{}
	// Union wraps nullable fragments as {oneOf: [fragment, {type: null}]}.
	Union Encoding = union{}
	// ArrayType writes the type of nullable fragments as [kind, "null"].
	ArrayType Encoding = arrayType{}
	// Auto decodes fragments written with any encoding. It encodes like Flag.
	Auto Encoding = auto{}
)

// Encodings lists the selectable encodings.
var Encodings = []Encoding{Flag, Union, ArrayType}

// Parse returns the encoding called name.
func Parse(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "flag", "nullable":
		return Flag, nil
	case "union", "oneof":
		return Union, nil
	case "arraytype", "array-type", "array":
		return ArrayType, nil
	case "auto", "":
		return Auto, nil
	}
	return nil, graphapi.NewConfigError("Nullability", name, "unknown encoding; use flag, union, or arrayType")
}

// shape writes the non-null form of r, encoding list items with enc.
func shape(enc Encoding, r Ref) *graphapi.Schema {
	switch r.Shape {
	case NamedShape:
		return &graphapi.Schema{Ref: r.Target}
	case ListShape:
		return &graphapi.Schema{Type: graphapi.TypeOf(Array), Items: enc.Encode(*r.Items)}
	default:
		return &graphapi.Schema{Type: graphapi.TypeOf(r.Type), Format: r.Format}
	}
}

// decodeShape reads the shape of s, decoding list items with enc.
func decodeShape(enc Encoding, s *graphapi.Schema, nullable bool) (Ref, error) {
	if s == nil {
		return Ref{}, graphapi.NewPrintError(graphapi.ErrMalformedTypeRef, "", "missing type fragment")
	}
	if s.Ref != "" {
		return Named(s.Ref, s.Type.Kind(), nullable), nil
	}
	switch kind := s.Type.Kind(); kind {
	case Array:
		if s.Items == nil {
			return Ref{}, graphapi.NewPrintError(graphapi.ErrMalformedTypeRef, "", "list fragment without items")
		}
		items, err := enc.Decode(s.Items)
		if err != nil {
			return Ref{}, err
		}
		return List(items, nullable), nil
	case "":
		if len(s.OneOf) > 0 {
			return Ref{}, graphapi.NewPrintError(graphapi.ErrMalformedNullableUnion, "", "unexpected oneOf fragment")
		}
		return Ref{}, graphapi.NewPrintError(graphapi.ErrMalformedTypeRef, "", "fragment has neither $ref nor type")
	default:
		if _, ok := ScalarName(kind, s.Format); !ok {
			return Ref{}, graphapi.NewPrintError(graphapi.ErrMalformedTypeRef, "", "type "+kind+" is not a scalar primitive")
		}
		return Scalar(kind, s.Format, nullable), nil
	}
}

type flag struct{}

func (flag) Name() string { return "flag" }

func (f flag) Encode(r Ref) *graphapi.Schema {
	s := shape(f, r)
	s.Nullable = r.Nullable
	return s
}

func (f flag) Decode(s *graphapi.Schema) (Ref, error) {
	if s == nil {
		return decodeShape(f, s, false)
	}
	return decodeShape(f, s, s.Nullable)
}

type union struct{}

func (union) Name() string { return "union" }

func (u union) Encode(r Ref) *graphapi.Schema {
	s := shape(u, r)
	if !r.Nullable {
		return s
	}
	return &graphapi.Schema{OneOf: []*graphapi.Schema{s, {Type: graphapi.TypeOf(graphapi.TypeNull)}}}
}

func (u union) Decode(s *graphapi.Schema) (Ref, error) {
	if s == nil || len(s.OneOf) == 0 {
		return decodeShape(u, s, false)
	}
	inner, err := splitNullable(s)
	if err != nil {
		return Ref{}, err
	}
	return decodeShape(u, inner, true)
}

// splitNullable returns the non-null branch of a nullable union.
func splitNullable(s *graphapi.Schema) (*graphapi.Schema, error) {
	if len(s.OneOf) != 2 {
		return nil, graphapi.NewPrintError(graphapi.ErrMalformedNullableUnion, "",
			fmt.Sprintf("nullable union must have exactly two branches, got %d", len(s.OneOf)))
	}
	var (
		inner *graphapi.Schema
		nulls int
	)
	for _, branch := range s.OneOf {
		if isNullBranch(branch) {
			nulls++
			continue
		}
		inner = branch
	}
	if nulls != 1 {
		return nil, graphapi.NewPrintError(graphapi.ErrMalformedNullableUnion, "", "nullable union must have exactly one null branch")
	}
	return inner, nil
}

func isNullBranch(s *graphapi.Schema) bool {
	return s != nil && s.Ref == "" && len(s.Type) == 1 && s.Type[0] == graphapi.TypeNull
}

type arrayType struct{}

func (arrayType) Name() string { return "arrayType" }

func (a arrayType) Encode(r Ref) *graphapi.Schema {
	s := shape(a, r)
	if r.Nullable {
		s.Type = graphapi.NullableTypeOf(r.Type)
	}
	return s
}

func (a arrayType) Decode(s *graphapi.Schema) (Ref, error) {
	if s == nil {
		return decodeShape(a, s, false)
	}
	return decodeShape(a, s, s.Type.HasNull())
}

type auto struct{}

func (auto) Name() string { return "auto" }

func (auto) Encode(r Ref) *graphapi.Schema {
	return Flag.Encode(r)
}

// Decode picks the encoding each fragment level is written in.
func (a auto) Decode(s *graphapi.Schema) (Ref, error) {
	if s == nil {
		return decodeShape(a, s, false)
	}
	if len(s.OneOf) > 0 {
		inner, err := splitNullable(s)
		if err != nil {
			return Ref{}, err
		}
		return decodeShape(a, inner, true)
	}
	return decodeShape(a, s, s.Nullable || s.Type.HasNull())
}
