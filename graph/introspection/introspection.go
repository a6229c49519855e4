// Package introspection models the result of the standard GraphQL
// introspection query and adapts it to source graphs.
package introspection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type (
	// Schema is the value of "__schema".
	Schema struct {
		Description      *string      `json:"description,omitempty"`
		QueryType        *TypeName    `json:"queryType"`
		MutationType     *TypeName    `json:"mutationType"`
		SubscriptionType *TypeName    `json:"subscriptionType"`
		Types            []*FullType  `json:"types"`
		Directives       []*Directive `json:"directives"`
	}

	// TypeName references a root operation type.
	TypeName struct {
		Name string `json:"name"`
	}

	// FullType is a named type with every introspected member.
	FullType struct {
		Kind           string        `json:"kind"`
		Name           string        `json:"name"`
		Description    *string       `json:"description"`
		SpecifiedByURL *string       `json:"specifiedByURL,omitempty"`
		Fields         []*Field      `json:"fields"`
		InputFields    []*InputValue `json:"inputFields"`
		Interfaces     []*TypeRef    `json:"interfaces"`
		EnumValues     []*EnumValue  `json:"enumValues"`
		PossibleTypes  []*TypeRef    `json:"possibleTypes"`
	}

	// Field is an object or interface field.
	Field struct {
		Name              string        `json:"name"`
		Description       *string       `json:"description"`
		Args              []*InputValue `json:"args"`
		Type              *TypeRef      `json:"type"`
		IsDeprecated      bool          `json:"isDeprecated"`
		DeprecationReason *string       `json:"deprecationReason"`
	}

	// InputValue is an argument or input field. DefaultValue holds the
	// value in schema notation.
	InputValue struct {
		Name              string   `json:"name"`
		Description       *string  `json:"description"`
		Type              *TypeRef `json:"type"`
		DefaultValue      *string  `json:"defaultValue"`
		IsDeprecated      bool     `json:"isDeprecated,omitempty"`
		DeprecationReason *string  `json:"deprecationReason,omitempty"`
	}

	// EnumValue is an enum member.
	EnumValue struct {
		Name              string  `json:"name"`
		Description       *string `json:"description"`
		IsDeprecated      bool    `json:"isDeprecated"`
		DeprecationReason *string `json:"deprecationReason"`
	}

	// TypeRef is one level of a wrapped type reference.
	TypeRef struct {
		Kind   string   `json:"kind"`
		Name   *string  `json:"name"`
		OfType *TypeRef `json:"ofType"`
	}

	// Directive is a declared directive.
	Directive struct {
		Name         string        `json:"name"`
		Description  *string       `json:"description"`
		IsRepeatable bool          `json:"isRepeatable"`
		Locations    []string      `json:"locations"`
		Args         []*InputValue `json:"args"`
	}
)

// ErrNoSchema is returned when a payload carries no "__schema" value.
var ErrNoSchema = errors.New("introspection: no __schema in payload")

type envelope struct {
	Data *struct {
		Schema *Schema `json:"__schema"`
	} `json:"data"`
	Schema *Schema `json:"__schema"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Parse decodes an introspection payload. Both the bare
// {"__schema": ...} form and the {"data": {"__schema": ...}} response
// envelope are accepted.
func Parse(data []byte) (*Schema, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("introspection: decode payload: %w", err)
	}
	switch {
	case env.Schema != nil:
		return env.Schema, nil
	case env.Data != nil && env.Data.Schema != nil:
		return env.Data.Schema, nil
	case len(env.Errors) > 0:
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrNoSchema, strings.Join(msgs, "; "))
	}
	return nil, ErrNoSchema
}

// Marshal encodes s wrapped in a "__schema" object.
func Marshal(s *Schema) ([]byte, error) {
	return json.MarshalIndent(struct {
		Schema *Schema `json:"__schema"`
	}{s}, "", "  ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
