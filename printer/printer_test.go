package printer_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/builder"
	"github.com/syssam/graphapi/printer"
	"github.com/syssam/graphapi/typeref"
)

func build(t *testing.T, input string, opts ...builder.Option) *graphapi.Document {
	t.Helper()
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: input})
	require.NoError(t, err)
	doc, err := builder.FromSchema(s, opts...)
	require.NoError(t, err)
	return doc
}

func decode(t *testing.T, input string) *graphapi.Document {
	t.Helper()
	doc, err := graphapi.Unmarshal([]byte(input), graphapi.FormatJSON)
	require.NoError(t, err)
	return doc
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	for _, fixture := range []string{"example.graphql", "directives.graphql"} {
		input, err := os.ReadFile(filepath.Join("..", "testdata", fixture))
		require.NoError(t, err)
		for _, enc := range typeref.Encodings {
			t.Run(fixture+"/"+enc.Name(), func(t *testing.T) {
				t.Parallel()
				doc := build(t, string(input), builder.WithNullability(enc))
				sdl, err := printer.Print(doc)
				require.NoError(t, err)

				again := build(t, sdl, builder.WithNullability(enc))
				want, err := json.Marshal(doc)
				require.NoError(t, err)
				got, err := json.Marshal(again)
				require.NoError(t, err)
				assert.JSONEq(t, string(want), string(got))

				reprinted, err := printer.Print(again)
				require.NoError(t, err)
				assert.Equal(t, sdl, reprinted)
			})
		}
	}
}

func TestRoundTripThroughCodec(t *testing.T) {
	t.Parallel()
	directives, err := os.ReadFile(filepath.Join("..", "testdata", "directives.graphql"))
	require.NoError(t, err)
	inputs := map[string]string{
		"directives": string(directives),
		"zero defaults": `
input F { enabled: Boolean = false, n: Int = 0 }
type Query {
  a(b: Boolean = false, i: Int = 0, s: String = "", l: [Int] = [], f: F = {enabled: false}): Int
  isCompleted(isCompleted: Boolean = false): Boolean
}
`,
	}

	for name, input := range inputs {
		for _, enc := range typeref.Encodings {
			doc := build(t, input, builder.WithNullability(enc))
			want, err := printer.Print(doc)
			require.NoError(t, err)
			for _, f := range []graphapi.Format{graphapi.FormatJSON, graphapi.FormatYAML, graphapi.FormatMsgpack} {
				t.Run(name+"/"+enc.Name()+"/"+string(f), func(t *testing.T) {
					data, err := doc.Marshal(f)
					require.NoError(t, err)
					decoded, err := graphapi.Unmarshal(data, f)
					require.NoError(t, err)
					got, err := printer.Print(decoded)
					require.NoError(t, err)
					assert.Equal(t, want, got)
				})
			}
		}
	}

	t.Run("zero defaults are printed", func(t *testing.T) {
		doc := build(t, inputs["zero defaults"])
		data, err := doc.Marshal(graphapi.FormatMsgpack)
		require.NoError(t, err)
		decoded, err := graphapi.Unmarshal(data, graphapi.FormatMsgpack)
		require.NoError(t, err)
		got, err := printer.Print(decoded)
		require.NoError(t, err)
		assert.Contains(t, got, `a(b: Boolean = false, i: Int = 0, s: String = "", l: [Int] = [], f: F = {enabled: false}): Int`)
		assert.Contains(t, got, "enabled: Boolean = false")
		assert.Contains(t, got, "n: Int = 0")
	})
}

func TestPrint(t *testing.T) {
	t.Parallel()
	t.Run("arguments with defaults", func(t *testing.T) {
		doc := build(t, `
type Todo { id: ID! }
type Query { todo(id: ID!, isCompleted: Boolean = false): Todo }
`)
		got, err := printer.Print(doc)
		require.NoError(t, err)
		assert.Equal(t, "type Todo {\n  id: ID!\n}\n\ntype Query {\n  todo(id: ID!, isCompleted: Boolean = false): Todo\n}", got)
	})

	t.Run("union members", func(t *testing.T) {
		doc := build(t, `
type A { a: Int }
type B { b: Int }
type C { c: Int }
union U = A | B | C
type Query { u: U }
`)
		got, err := printer.Print(doc)
		require.NoError(t, err)
		assert.Contains(t, got, "union U = A | B | C")
	})

	t.Run("described arguments", func(t *testing.T) {
		doc := build(t, `
type Query {
  search(
    "Free text."
    text: String!
    limit: Int = 10
  ): [String!]!
}
`)
		got, err := printer.Print(doc)
		require.NoError(t, err)
		assert.Equal(t, "type Query {\n  search(\n    \"\"\"Free text.\"\"\"\n    text: String!\n    limit: Int = 10\n  ): [String!]!\n}", got)
	})

	t.Run("descriptions", func(t *testing.T) {
		doc := build(t, `
"""
A user.
Has a name.
"""
type User {
  "The id."
  id: ID!
  "The name."
  name: String
}
type Query { me: User }
`)
		got, err := printer.Print(doc)
		require.NoError(t, err)
		assert.Contains(t, got, "\"\"\"\nA user.\nHas a name.\n\"\"\"\ntype User {\n  \"\"\"The id.\"\"\"\n  id: ID!\n\n  \"\"\"The name.\"\"\"\n  name: String\n}")
	})

	t.Run("interfaces", func(t *testing.T) {
		doc := build(t, `
interface Node { id: ID! }
interface Entity implements Node { id: ID! }
type User implements Node & Entity { id: ID! }
type Query { node: Node }
`)
		got, err := printer.Print(doc)
		require.NoError(t, err)
		assert.Contains(t, got, "interface Entity implements Node {")
		assert.Contains(t, got, "type User implements Node & Entity {")
	})

	t.Run("directive definitions", func(t *testing.T) {
		doc := build(t, `
directive @tag(name: String!) repeatable on OBJECT | FIELD_DEFINITION
type Query @tag(name: "root") { a: Int @tag(name: "a") @tag(name: "b") }
`)
		got, err := printer.Print(doc)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "directive @tag(name: String!) repeatable on OBJECT | FIELD_DEFINITION\n\n"), got)
	})

	t.Run("specifiedBy", func(t *testing.T) {
		doc := build(t, `
scalar URL @specifiedBy(url: "https://tools.ietf.org/html/rfc3986")
type Query { home: URL }
`)
		got, err := printer.Print(doc)
		require.NoError(t, err)
		assert.Contains(t, got, `scalar URL @specifiedBy(url: "https://tools.ietf.org/html/rfc3986")`)
		assert.Contains(t, got, "home: URL\n")
	})

	t.Run("no output for empty document", func(t *testing.T) {
		got, err := printer.Print(graphapi.NewDocument())
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestPrintNullability(t *testing.T) {
	t.Parallel()
	const sdl = `
type Item { id: ID! }
type Query {
  a: [[String]!]
  b: [Item!]!
  c: Item
  d: [[Int!]]!
  e(in: [String], f: Float!): Boolean
}
`
	for _, enc := range typeref.Encodings {
		t.Run(enc.Name(), func(t *testing.T) {
			t.Parallel()
			doc := build(t, sdl, builder.WithNullability(enc))
			want := "type Item {\n  id: ID!\n}\n\ntype Query {\n  a: [[String]!]\n  b: [Item!]!\n  c: Item\n  d: [[Int!]]!\n  e(in: [String], f: Float!): Boolean\n}"

			got, err := printer.Print(doc)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			got, err = printer.Print(doc, printer.WithEncoding(enc))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	t.Run("mixed encodings", func(t *testing.T) {
		doc := decode(t, `{
  "graphapi": "0.1.1",
  "queries": {
    "a": {"title": "a", "response": {"type": ["array", "null"], "items": {"oneOf": [{"type": "array", "items": {"type": "string", "nullable": true}}, {"type": "null"}]}}}
  }
}`)
		got, err := printer.Print(doc)
		require.NoError(t, err)
		assert.Equal(t, "type Query {\n  a: [[String]]\n}", got)
	})
}

func TestPrintEnums(t *testing.T) {
	t.Parallel()
	const sdl = `
enum Color {
  "Warm."
  RED
  GREEN
  BLUE @deprecated(reason: "Too cold.")
}
type Query { color: Color }
`
	want := "enum Color {\n  \"\"\"Warm.\"\"\"\n  RED\n  GREEN\n  BLUE @deprecated(reason: \"Too cold.\")\n}"
	tests := []struct {
		name string
		opts []builder.Option
	}{
		{"list", nil},
		{"const", []builder.Option{builder.WithEnumEncoding(builder.EnumConst)}},
		{"values", []builder.Option{builder.WithDisableStringEnums(true)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := printer.Print(build(t, sdl, tt.opts...))
			require.NoError(t, err)
			assert.Contains(t, got, want)
		})
	}
}

func TestPrintDeprecation(t *testing.T) {
	t.Parallel()
	doc := decode(t, `{
  "graphapi": "0.1.1",
  "queries": {
    "a": {"title": "a", "response": {"type": "integer"}, "directives": {"deprecated": {"$ref": "#/components/directiveDefinitions/deprecated", "meta": {"reason": "No longer supported"}}}},
    "b": {"title": "b", "response": {"type": "integer"}, "directives": {"deprecated": {"$ref": "#/components/directiveDefinitions/deprecated"}}},
    "c": {"title": "c", "response": {"type": "integer"}, "directives": {"deprecated": {"$ref": "#/components/directiveDefinitions/deprecated", "meta": {"reason": "Use \"d\"."}}}}
  }
}`)
	got, err := printer.Print(doc)
	require.NoError(t, err)
	assert.Equal(t, "type Query {\n  a: Int! @deprecated\n  b: Int! @deprecated\n  c: Int! @deprecated(reason: \"Use \\\"d\\\".\")\n}", got)
}

func TestPrintBuiltinScalars(t *testing.T) {
	t.Parallel()
	doc := decode(t, `{
  "graphapi": "0.1.1",
  "components": {
    "scalars": {
      "ID": {"title": "ID", "type": "string", "format": "ID"},
      "Int": {"title": "Int", "type": "integer"},
      "Date": {"title": "Date", "type": "string", "format": "Date"}
    }
  },
  "queries": {
    "today": {"title": "today", "response": {"type": "string", "format": "Date"}},
    "id": {"title": "id", "response": {"type": "string", "format": "ID", "nullable": true}}
  }
}`)
	got, err := printer.Print(doc)
	require.NoError(t, err)
	assert.Equal(t, "scalar Date\n\ntype Query {\n  today: Date!\n  id: ID\n}", got)
}

func TestPrintDefaults(t *testing.T) {
	t.Parallel()
	doc := decode(t, `{
  "graphapi": "0.1.1",
  "components": {
    "enums": {"Status": {"title": "Status", "type": "string", "enum": ["OPEN", "DONE"]}},
    "inputObjects": {
      "Filter": {
        "title": "Filter",
        "type": "object",
        "inputFields": {
          "status": {"title": "status", "schema": {"$ref": "#/components/enums/Status"}, "default": "OPEN"},
          "limit": {"title": "limit", "schema": {"type": "integer"}},
          "score": {"title": "score", "schema": {"type": "number"}, "default": 2},
          "tags": {"title": "tags", "schema": {"type": "array", "items": {"type": "string"}}, "default": "solo"}
        }
      }
    }
  },
  "queries": {
    "list": {
      "title": "list",
      "args": {
        "filter": {"title": "filter", "schema": {"$ref": "#/components/inputObjects/Filter"}, "default": {"limit": 5, "status": "DONE"}}
      },
      "response": {"type": "boolean"}
    }
  }
}`)
	got, err := printer.Print(doc)
	require.NoError(t, err)
	assert.Contains(t, got, "  status: Status = OPEN\n")
	assert.Contains(t, got, "  score: Float = 2\n")
	assert.Contains(t, got, `  tags: [String!] = "solo"`)
	assert.Contains(t, got, "list(filter: Filter = {limit: 5, status: DONE}): Boolean!")
}

func TestPrintSchemaDefinition(t *testing.T) {
	t.Parallel()
	doc := decode(t, `{
  "graphapi": "0.1.1",
  "description": "The API.",
  "queries": {"a": {"title": "a", "response": {"type": "integer"}}},
  "mutations": {"b": {"title": "b", "response": {"type": "integer"}}}
}`)
	t.Run("printed with description", func(t *testing.T) {
		got, err := printer.Print(doc)
		require.NoError(t, err)
		assert.Equal(t, "\"\"\"The API.\"\"\"\nschema {\n  query: Query\n  mutation: Mutation\n}\n\ntype Query {\n  a: Int!\n}\n\ntype Mutation {\n  b: Int!\n}", got)
	})
	t.Run("disabled", func(t *testing.T) {
		got, err := printer.Print(doc, printer.WithSchemaDefinition(false))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "type Query"))
	})
}

func TestPrintErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		response string
		want     error
	}{
		{"union without null", `{"oneOf": [{"type": "string"}, {"type": "integer"}]}`, graphapi.ErrMalformedNullableUnion},
		{"union with three branches", `{"oneOf": [{"type": "string"}, {"type": "null"}, {"type": "integer"}]}`, graphapi.ErrMalformedNullableUnion},
		{"unresolved reference", `{"$ref": "#/components/objects/Missing"}`, graphapi.ErrUnresolvedReference},
		{"list without items", `{"type": "array"}`, graphapi.ErrMalformedTypeRef},
		{"empty fragment", `{}`, graphapi.ErrMalformedTypeRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decode(t, `{"graphapi": "0.1.1", "queries": {"broken": {"title": "broken", "response": `+tt.response+`}}}`)
			_, err := printer.Print(doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var pe *graphapi.PrintError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "Query", pe.Type)
			assert.Equal(t, "broken", pe.Field)
		})
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()
	_, err := printer.Print(graphapi.NewDocument(), printer.WithEncoding(nil))
	assert.ErrorIs(t, err, graphapi.ErrInvalidConfig)

	_, err = printer.Print(graphapi.NewDocument(), printer.WithLogger(nil))
	assert.ErrorIs(t, err, graphapi.ErrInvalidConfig)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	doc := decode(t, `{"graphapi": "0.1.1", "components": {"scalars": {"ID": {"title": "ID", "type": "string", "format": "ID"}}}}`)
	var out bytes.Buffer
	require.NoError(t, printer.Fprint(&out, doc, printer.WithLogger(logger)))
	assert.Equal(t, "\n", out.String())
	assert.Contains(t, logs.String(), "skip built-in scalar")
	assert.Contains(t, logs.String(), "component=printer")
}
