package graph

import "strings"

// Kind is the classification of a named type.
type Kind string

// Named type kinds.
const (
	Scalar      Kind = "SCALAR"
	Object      Kind = "OBJECT"
	Interface   Kind = "INTERFACE"
	Union       Kind = "UNION"
	Enum        Kind = "ENUM"
	InputObject Kind = "INPUT_OBJECT"
)

// Valid reports whether k is one of the named type kinds.
func (k Kind) Valid() bool {
	switch k {
	case Scalar, Object, Interface, Union, Enum, InputObject:
		return true
	}
	return false
}

// MetaPrefix starts the names of introspection types and fields.
const MetaPrefix = "__"

// IsMeta reports whether name is reserved for introspection.
func IsMeta(name string) bool {
	return strings.HasPrefix(name, MetaPrefix)
}

type (
	// Schema is a source graph.
	Schema struct {
		Description      string
		QueryType        string
		MutationType     string
		SubscriptionType string
		Types            []*Type
		Directives       []*DirectiveDefinition
	}

	// Type is a named type.
	Type struct {
		Kind           Kind
		Name           string
		Description    string
		SpecifiedByURL string
		BuiltIn        bool
		Directives     []*Directive
		Fields         []*Field
		Interfaces     []string
		PossibleTypes  []string
		EnumValues     []*EnumValue
		InputFields    []*InputValue
	}

	// Field is an object or interface field.
	Field struct {
		Name        string
		Description string
		Args        []*InputValue
		Type        *TypeRef
		Directives  []*Directive
		Deprecation *Deprecation
	}

	// InputValue is an argument or input field.
	InputValue struct {
		Name         string
		Description  string
		Type         *TypeRef
		DefaultValue *Literal
		Directives   []*Directive
		Deprecation  *Deprecation
	}

	// EnumValue is an enum member.
	EnumValue struct {
		Name        string
		Description string
		Directives  []*Directive
		Deprecation *Deprecation
	}

	// DirectiveDefinition is a declared directive.
	DirectiveDefinition struct {
		Name        string
		Description string
		Args        []*InputValue
		Locations   []string
		Repeatable  bool
		BuiltIn     bool
	}

	// Directive is a directive applied to a definition.
	Directive struct {
		Name string
		Args []*Argument
	}

	// Argument is a directive argument.
	Argument struct {
		Name  string
		Value *Literal
	}

	// Deprecation marks a deprecated element. An empty Reason means no
	// reason was given.
	Deprecation struct {
		Reason string
	}
)

// Type returns the named type called name.
func (s *Schema) Type(name string) *Type {
	for _, t := range s.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// RootKind returns which root operation type name is, or "".
func (s *Schema) RootKind(name string) string {
	switch {
	case name == "":
		return ""
	case name == s.QueryType:
		return "query"
	case name == s.MutationType:
		return "mutation"
	case name == s.SubscriptionType:
		return "subscription"
	}
	return ""
}

// Directive returns the declared directive called name.
func (s *Schema) Directive(name string) *DirectiveDefinition {
	for _, d := range s.Directives {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Field returns the field called name.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// WrapperKind tags one level of a type reference.
type WrapperKind string

// Type reference levels.
const (
	NonNull WrapperKind = "NON_NULL"
	List    WrapperKind = "LIST"
	Named   WrapperKind = "NAMED"
)

// TypeRef is one level of a wrapped type reference.
type TypeRef struct {
	Kind      WrapperKind
	OfType    *TypeRef // NON_NULL and LIST
	Name      string   // NAMED
	NamedKind Kind     // NAMED
}

// NamedRef returns a reference to a named type.
func NamedRef(name string, kind Kind) *TypeRef {
	return &TypeRef{Kind: Named, Name: name, NamedKind: kind}
}

// NonNullOf wraps t in a non-null level.
func NonNullOf(t *TypeRef) *TypeRef {
	return &TypeRef{Kind: NonNull, OfType: t}
}

// ListOf wraps t in a list level.
func ListOf(t *TypeRef) *TypeRef {
	return &TypeRef{Kind: List, OfType: t}
}

// IsNonNull reports whether the outermost level is non-null.
func (t *TypeRef) IsNonNull() bool {
	return t != nil && t.Kind == NonNull
}

// Leaf returns the innermost named reference.
func (t *TypeRef) Leaf() *TypeRef {
	for t != nil && t.Kind != Named {
		t = t.OfType
	}
	return t
}

// String returns the reference in schema notation, e.g. "[String!]!".
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case NonNull:
		return t.OfType.String() + "!"
	case List:
		return "[" + t.OfType.String() + "]"
	}
	return t.Name
}
