// Package graphapi defines the GraphApi document: a JSON-Schema flavoured,
// self-referential description of a GraphQL schema. Named types live once
// under components and every other mention of them is a "$ref" string, so
// the stored document is always a tree even when the schema is cyclic.
package graphapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Version is the document format version written by the builder.
const Version = "0.1.1"

// DefaultDeprecationReason is the reason implied by a bare @deprecated.
const DefaultDeprecationReason = "No longer supported"

type (
	// Document is the root of a GraphApi document.
	Document struct {
		GraphAPI      string           `json:"graphapi" yaml:"graphapi"`
		Description   string           `json:"description,omitempty" yaml:"description,omitempty"`
		Queries       *Map[*Operation] `json:"queries,omitempty" yaml:"queries,omitempty"`
		Mutations     *Map[*Operation] `json:"mutations,omitempty" yaml:"mutations,omitempty"`
		Subscriptions *Map[*Operation] `json:"subscriptions,omitempty" yaml:"subscriptions,omitempty"`
		Components    *Components      `json:"components,omitempty" yaml:"components,omitempty"`
	}

	// Components holds every named type, one bucket per kind.
	Components struct {
		DirectiveDefinitions *Map[*DirectiveDefinition] `json:"directiveDefinitions,omitempty" yaml:"directiveDefinitions,omitempty"`
		Scalars              *Map[*Scalar]              `json:"scalars,omitempty" yaml:"scalars,omitempty"`
		Objects              *Map[*Object]              `json:"objects,omitempty" yaml:"objects,omitempty"`
		Interfaces           *Map[*Object]              `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
		Unions               *Map[*Union]               `json:"unions,omitempty" yaml:"unions,omitempty"`
		Enums                *Map[*Enum]                `json:"enums,omitempty" yaml:"enums,omitempty"`
		InputObjects         *Map[*InputObject]         `json:"inputObjects,omitempty" yaml:"inputObjects,omitempty"`
	}

	// Schema is a type reference fragment. Exactly one shape is set: a
	// scalar (Type + Format), a reference (Ref), a list (Type "array" +
	// Items), or a nullable union (OneOf with a null branch). Nullable and
	// a "null" entry in Type are the other two nullability encodings.
	Schema struct {
		Ref      string     `json:"$ref,omitempty" yaml:"$ref,omitempty"`
		Type     SchemaType `json:"type,omitempty" yaml:"type,omitempty"`
		Format   string     `json:"format,omitempty" yaml:"format,omitempty"`
		Items    *Schema    `json:"items,omitempty" yaml:"items,omitempty"`
		OneOf    []*Schema  `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
		Nullable bool       `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	}

	// Scalar is a custom scalar component.
	Scalar struct {
		Title          string           `json:"title" yaml:"title"`
		Description    string           `json:"description,omitempty" yaml:"description,omitempty"`
		Directives     *Map[*Directive] `json:"directives,omitempty" yaml:"directives,omitempty"`
		Type           SchemaType       `json:"type" yaml:"type"`
		Format         string           `json:"format,omitempty" yaml:"format,omitempty"`
		SpecifiedByURL string           `json:"specifiedByURL,omitempty" yaml:"specifiedByURL,omitempty"`
	}

	// Object is an object or interface component.
	Object struct {
		Title       string           `json:"title" yaml:"title"`
		Description string           `json:"description,omitempty" yaml:"description,omitempty"`
		Directives  *Map[*Directive] `json:"directives,omitempty" yaml:"directives,omitempty"`
		Type        SchemaType       `json:"type" yaml:"type"`
		Required    []string         `json:"required,omitempty" yaml:"required,omitempty"`
		Properties  *Map[*Field]     `json:"properties,omitempty" yaml:"properties,omitempty"`
		Interfaces  []*Schema        `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	}

	// Union is a disjunction of object references.
	Union struct {
		Title       string           `json:"title" yaml:"title"`
		Description string           `json:"description,omitempty" yaml:"description,omitempty"`
		Directives  *Map[*Directive] `json:"directives,omitempty" yaml:"directives,omitempty"`
		Type        SchemaType       `json:"type" yaml:"type"`
		OneOf       []*Schema        `json:"oneOf" yaml:"oneOf"`
	}

	// Enum is an enum component. Members are listed either in Enum (with
	// Values carrying only the members that have metadata) or as OneOf
	// const branches.
	Enum struct {
		Title       string           `json:"title" yaml:"title"`
		Description string           `json:"description,omitempty" yaml:"description,omitempty"`
		Directives  *Map[*Directive] `json:"directives,omitempty" yaml:"directives,omitempty"`
		Type        SchemaType       `json:"type" yaml:"type"`
		Enum        []string         `json:"enum,omitempty" yaml:"enum,omitempty"`
		Values      *Map[*EnumValue] `json:"values,omitempty" yaml:"values,omitempty"`
		OneOf       []*EnumValue     `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	}

	// EnumValue describes one enum member.
	EnumValue struct {
		Const       string           `json:"const,omitempty" yaml:"const,omitempty"`
		Description string           `json:"description,omitempty" yaml:"description,omitempty"`
		Directives  *Map[*Directive] `json:"directives,omitempty" yaml:"directives,omitempty"`
	}

	// InputObject is an input object component.
	InputObject struct {
		Title       string            `json:"title" yaml:"title"`
		Description string            `json:"description,omitempty" yaml:"description,omitempty"`
		Directives  *Map[*Directive]  `json:"directives,omitempty" yaml:"directives,omitempty"`
		Type        SchemaType        `json:"type" yaml:"type"`
		InputFields *Map[*InputValue] `json:"inputFields,omitempty" yaml:"inputFields,omitempty"`
	}

	// DirectiveDefinition is a schema level directive declaration.
	DirectiveDefinition struct {
		Title       string            `json:"title" yaml:"title"`
		Description string            `json:"description,omitempty" yaml:"description,omitempty"`
		Locations   []string          `json:"locations" yaml:"locations"`
		Args        *Map[*InputValue] `json:"args,omitempty" yaml:"args,omitempty"`
		Repeatable  bool              `json:"repeatable" yaml:"repeatable"`
	}

	// Field is an object or interface field. The embedded Schema is the
	// field's type reference.
	Field struct {
		Title       string            `json:"title" yaml:"title"`
		Description string            `json:"description,omitempty" yaml:"description,omitempty"`
		Directives  *Map[*Directive]  `json:"directives,omitempty" yaml:"directives,omitempty"`
		Schema      `yaml:",inline"`
		Args        *Map[*InputValue] `json:"args,omitempty" yaml:"args,omitempty"`
	}

	// Operation is an entry of a root operation map.
	Operation struct {
		Title       string            `json:"title" yaml:"title"`
		Description string            `json:"description,omitempty" yaml:"description,omitempty"`
		Directives  *Map[*Directive]  `json:"directives,omitempty" yaml:"directives,omitempty"`
		Args        *Map[*InputValue] `json:"args,omitempty" yaml:"args,omitempty"`
		Response    *Schema           `json:"response" yaml:"response"`
	}

	// InputValue is an argument or input field. Schema never carries outer
	// nullability; Required does.
	InputValue struct {
		Title       string           `json:"title" yaml:"title"`
		Description string           `json:"description,omitempty" yaml:"description,omitempty"`
		Directives  *Map[*Directive] `json:"directives,omitempty" yaml:"directives,omitempty"`
		Required    bool             `json:"required,omitempty" yaml:"required,omitempty"`
		Schema      *Schema          `json:"schema" yaml:"schema"`
		Default     any              `json:"default,omitempty" yaml:"default,omitempty"`
	}

	// Directive is an applied directive: a reference to its definition plus
	// the decoded argument values.
	Directive struct {
		Ref  string    `json:"$ref" yaml:"$ref"`
		Meta *Map[any] `json:"meta,omitempty" yaml:"meta,omitempty"`
	}
)

// Members returns the enum member names in declaration order, whichever
// encoding the enum uses.
func (e *Enum) Members() []string {
	switch {
	case len(e.Enum) > 0:
		return append([]string(nil), e.Enum...)
	case len(e.OneOf) > 0:
		names := make([]string, 0, len(e.OneOf))
		for _, v := range e.OneOf {
			names = append(names, v.Const)
		}
		return names
	}
	return e.Values.Keys()
}

// NewDocument returns an empty document carrying the current version.
func NewDocument() *Document {
	return &Document{GraphAPI: Version, Components: &Components{}}
}

// EncodeMsgpack implements msgpack.CustomEncoder. The embedded schema is
// flattened the same way encoding/json flattens it.
func (f *Field) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(f.flat())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (f *Field) DecodeMsgpack(dec *msgpack.Decoder) error {
	var ff flatField
	if err := dec.Decode(&ff); err != nil {
		return err
	}
	*f = Field{
		Title:       ff.Title,
		Description: ff.Description,
		Directives:  ff.Directives,
		Schema: Schema{
			Ref:      ff.Ref,
			Type:     ff.Type,
			Format:   ff.Format,
			Items:    ff.Items,
			OneOf:    ff.OneOf,
			Nullable: ff.Nullable,
		},
		Args: ff.Args,
	}
	return nil
}

type flatField struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Directives  *Map[*Directive]  `json:"directives,omitempty"`
	Ref         string            `json:"$ref,omitempty"`
	Type        SchemaType        `json:"type,omitempty"`
	Format      string            `json:"format,omitempty"`
	Items       *Schema           `json:"items,omitempty"`
	OneOf       []*Schema         `json:"oneOf,omitempty"`
	Nullable    bool              `json:"nullable,omitempty"`
	Args        *Map[*InputValue] `json:"args,omitempty"`
}

func (f *Field) flat() *flatField {
	return &flatField{
		Title:       f.Title,
		Description: f.Description,
		Directives:  f.Directives,
		Ref:         f.Ref,
		Type:        f.Type,
		Format:      f.Format,
		Items:       f.Items,
		OneOf:       f.OneOf,
		Nullable:    f.Nullable,
		Args:        f.Args,
	}
}

// UnmarshalJSON implements json.Unmarshaler. Default values decode the
// way the builder produces them: objects as *Map[any], integers as int64.
func (v *InputValue) UnmarshalJSON(data []byte) error {
	type plain InputValue
	aux := struct {
		*plain
		Default json.RawMessage `json:"default,omitempty"`
	}{plain: (*plain)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.Default = nil
	if len(aux.Default) == 0 {
		return nil
	}
	def, err := decodeJSONValue(aux.Default)
	if err != nil {
		return fmt.Errorf("decode default of %q: %w", v.Title, err)
	}
	v.Default = def
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *InputValue) UnmarshalYAML(node *yaml.Node) error {
	type plain InputValue
	if err := node.Decode((*plain)(v)); err != nil {
		return err
	}
	v.Default = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "default" {
			continue
		}
		def, err := decodeYAMLValue(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("decode default of %q: %w", v.Title, err)
		}
		v.Default = def
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder. A set default is always
// written, including false, 0, "" and empty lists.
func (v *InputValue) EncodeMsgpack(enc *msgpack.Encoder) error {
	type entry struct {
		key string
		val any
	}
	entries := []entry{{"title", v.Title}}
	if v.Description != "" {
		entries = append(entries, entry{"description", v.Description})
	}
	if v.Directives != nil {
		entries = append(entries, entry{"directives", v.Directives})
	}
	if v.Required {
		entries = append(entries, entry{"required", v.Required})
	}
	entries = append(entries, entry{"schema", v.Schema})
	if v.Default != nil {
		entries = append(entries, entry{"default", v.Default})
	}
	if err := enc.EncodeMapLen(len(entries)); err != nil {
		return err
	}
	for _, e := range entries {
		if err := enc.EncodeString(e.key); err != nil {
			return err
		}
		if err := enc.Encode(e.val); err != nil {
			return fmt.Errorf("encode %s of %q: %w", e.key, v.Title, err)
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (v *InputValue) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w struct {
		Title       string             `json:"title"`
		Description string             `json:"description,omitempty"`
		Directives  *Map[*Directive]   `json:"directives,omitempty"`
		Required    bool               `json:"required,omitempty"`
		Schema      *Schema            `json:"schema"`
		Default     msgpack.RawMessage `json:"default,omitempty"`
	}
	if err := dec.Decode(&w); err != nil {
		return err
	}
	*v = InputValue{
		Title:       w.Title,
		Description: w.Description,
		Directives:  w.Directives,
		Required:    w.Required,
		Schema:      w.Schema,
	}
	if len(w.Default) == 0 {
		return nil
	}
	def, err := decodeMsgpackValue(msgpack.NewDecoder(bytes.NewReader(w.Default)))
	if err != nil {
		return fmt.Errorf("decode default of %q: %w", v.Title, err)
	}
	v.Default = def
	return nil
}

// SchemaType is the "type" keyword of a fragment. It holds a single kind,
// or a kind plus "null" under the array-type nullability encoding, and
// encodes as a bare string when it holds a single entry.
type SchemaType []string

// TypeNull is the JSON-Schema null kind.
const TypeNull = "null"

// TypeOf returns a single-kind type.
func TypeOf(kind string) SchemaType {
	return SchemaType{kind}
}

// NullableTypeOf returns the array-type encoding of a nullable kind.
func NullableTypeOf(kind string) SchemaType {
	return SchemaType{kind, TypeNull}
}

// Kind returns the first non-null entry.
func (t SchemaType) Kind() string {
	for _, k := range t {
		if k != TypeNull {
			return k
		}
	}
	return ""
}

// Is reports whether the type holds kind.
func (t SchemaType) Is(kind string) bool {
	for _, k := range t {
		if k == kind {
			return true
		}
	}
	return false
}

// HasNull reports whether the type admits null.
func (t SchemaType) HasNull() bool {
	return t.Is(TypeNull)
}

// MarshalJSON implements json.Marshaler.
func (t SchemaType) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *SchemaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = SchemaType{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("type must be a string or a list of strings: %w", err)
	}
	*t = list
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t SchemaType) MarshalYAML() (any, error) {
	if len(t) == 1 {
		return t[0], nil
	}
	return []string(t), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *SchemaType) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = SchemaType{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	default:
		return fmt.Errorf("line %d: type must be a string or a list of strings", node.Line)
	}
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (t SchemaType) EncodeMsgpack(enc *msgpack.Encoder) error {
	if len(t) == 1 {
		return enc.EncodeString(t[0])
	}
	return enc.Encode([]string(t))
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (t *SchemaType) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		*t = SchemaType{v}
	case []any:
		list := make(SchemaType, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("type entry must be a string, got %T", item)
			}
			list = append(list, s)
		}
		*t = list
	default:
		return fmt.Errorf("type must be a string or a list of strings, got %T", v)
	}
	return nil
}
