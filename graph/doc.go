// Package graph provides the read-only source graph that documents are built
// from.
//
// A source graph is produced either from a gqlparser schema (package
// gqlast) or from introspection JSON (package introspection). Both adapters
// yield the same structure, so the builder never needs to know which form
// the schema arrived in.
//
// # Schema Structure
//
// The Schema type lists every named type in declaration order together with
// the root operation type names and the declared directives:
//
//	type Schema struct {
//	    QueryType        string
//	    MutationType     string
//	    SubscriptionType string
//	    Types            []*Type
//	    Directives       []*DirectiveDefinition
//	}
//
// # Kinds
//
// Every named type carries an explicit Kind discriminant:
//
//   - SCALAR: a leaf value such as Int or a custom DateTime
//   - OBJECT and INTERFACE: field sets, interfaces may be implemented
//   - UNION: a set of possible object types
//   - ENUM: an ordered set of named values
//   - INPUT_OBJECT: a set of input fields
//
// Kinds outside this set are preserved verbatim so that the builder can
// reject them with a typed error.
//
// # Type References
//
// A TypeRef is the wrapper chain of a field, argument or input field type:
//
//	[String!]!  =>  NON_NULL -> LIST -> NON_NULL -> String (SCALAR)
//
// The innermost reference carries the name and kind of the named type.
//
// # Literals
//
// Default values and directive arguments are Literal values, a closed
// tagged variant over the GraphQL input value kinds.
package graph
