// Package typeref converts wrapped type references to document fragments
// and back.
//
// Every reference is first lowered to a canonical Ref: a nullability flag
// over one of three shapes (scalar, named reference, list). An Encoding then
// writes the Ref as a fragment, expressing nullability as a "nullable" flag,
// as a oneOf with a null branch, or as a type array containing "null".
// Decoding reverses exactly one level at a time, so list and item
// nullability never leak into each other.
package typeref

import (
	"fmt"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/graph"
)

// Shape tags the innermost form of a Ref.
type Shape int

// Ref shapes.
const (
	ScalarShape Shape = iota + 1
	NamedShape
	ListShape
)

// Ref is the canonical form of a type reference.
type Ref struct {
	Nullable bool
	Shape    Shape
	// Type is the primitive kind of a scalar, or of the named type a
	// reference points to.
	Type   string
	Format string // ScalarShape
	Target string // NamedShape
	Items  *Ref   // ListShape
}

// Scalar returns a scalar ref.
func Scalar(primitive, format string, nullable bool) Ref {
	return Ref{Nullable: nullable, Shape: ScalarShape, Type: primitive, Format: format}
}

// Named returns a reference to a component.
func Named(target, primitive string, nullable bool) Ref {
	return Ref{Nullable: nullable, Shape: NamedShape, Type: primitive, Target: target}
}

// List returns a list ref.
func List(items Ref, nullable bool) Ref {
	return Ref{Nullable: nullable, Shape: ListShape, Type: Array, Items: &items}
}

// SDL returns the reference in schema notation.
func (r Ref) SDL() string {
	var s string
	switch r.Shape {
	case NamedShape:
		s = graphapi.RefName(r.Target)
	case ListShape:
		s = "[" + r.Items.SDL() + "]"
	default:
		s, _ = ScalarName(r.Type, r.Format)
	}
	if !r.Nullable {
		s += "!"
	}
	return s
}

// Leaf returns the innermost non-list ref.
func (r Ref) Leaf() Ref {
	for r.Shape == ListShape && r.Items != nil {
		r = *r.Items
	}
	return r
}

// NamedKind returns the component kind of a named graph type.
func NamedKind(k graph.Kind) (graphapi.Kind, bool) {
	switch k {
	case graph.Scalar:
		return graphapi.KindScalar, true
	case graph.Object:
		return graphapi.KindObject, true
	case graph.Interface:
		return graphapi.KindInterface, true
	case graph.Union:
		return graphapi.KindUnion, true
	case graph.Enum:
		return graphapi.KindEnum, true
	case graph.InputObject:
		return graphapi.KindInputObject, true
	}
	return "", false
}

// FromGraph lowers a graph type reference. Each non-null wrapper marks the
// level directly inside it as non-nullable; nonNullable forces the
// outermost level to be non-nullable as well.
func FromGraph(t *graph.TypeRef, nonNullable bool, c Coercion) (Ref, error) {
	if t == nil {
		return Ref{}, fmt.Errorf("missing type reference")
	}
	switch t.Kind {
	case graph.NonNull:
		return FromGraph(t.OfType, true, c)
	case graph.List:
		items, err := FromGraph(t.OfType, false, c)
		if err != nil {
			return Ref{}, err
		}
		return List(items, !nonNullable), nil
	}
	if t.NamedKind == graph.Scalar {
		primitive, format := c.Classify(t.Name)
		return Scalar(primitive, format, !nonNullable), nil
	}
	kind, ok := NamedKind(t.NamedKind)
	if !ok {
		return Ref{}, graphapi.NewBuildError(t.Name, string(t.NamedKind), "reference to a type of unknown kind")
	}
	primitive := Object
	if kind == graphapi.KindEnum {
		primitive = String
	}
	return Named(graphapi.Ref(kind, t.Name), primitive, !nonNullable), nil
}
