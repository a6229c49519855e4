package openapi_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/builder"
	"github.com/syssam/graphapi/export/openapi"
	"github.com/syssam/graphapi/typeref"
)

func build(t *testing.T, fixture string, opts ...builder.Option) *graphapi.Document {
	t.Helper()
	input, err := os.ReadFile(filepath.Join("..", "..", "testdata", fixture))
	require.NoError(t, err)
	s, err := gqlparser.LoadSchema(&ast.Source{Name: fixture, Input: string(input)})
	require.NoError(t, err)
	doc, err := builder.FromSchema(s, opts...)
	require.NoError(t, err)
	return doc
}

func TestExport(t *testing.T) {
	t.Parallel()
	doc := build(t, "example.graphql")
	spec, err := openapi.Export(doc, openapi.Info{Title: "Todo API"})
	require.NoError(t, err)

	assert.Equal(t, openapi.Version, spec.OpenAPI)
	assert.Equal(t, "Todo API", spec.Info.Title)
	assert.Equal(t, graphapi.Version, spec.Info.Version)
	require.NotNil(t, spec.Components)

	schemas := spec.Components.Schemas
	for _, name := range []string{"DateTime", "JSON", "Node", "Entity", "Status", "User", "Todo", "SearchResult", "TodoFilter", "NewTodo"} {
		assert.Contains(t, schemas, name)
	}
	assert.NotContains(t, schemas, "Query")

	t.Run("scalar", func(t *testing.T) {
		s := schemas["DateTime"].Value
		assert.True(t, s.Type.Is("string"))
		assert.Equal(t, "DateTime", s.Format)
	})

	t.Run("object", func(t *testing.T) {
		user := schemas["User"].Value
		assert.True(t, user.Type.Is("object"))
		assert.Contains(t, user.Required, "id")

		id := user.Properties["id"]
		require.NotNil(t, id)
		assert.Empty(t, id.Ref)
		assert.True(t, id.Value.Type.Is("string"))
		assert.Equal(t, "ID", id.Value.Format)
		assert.False(t, id.Value.Nullable)

		email := user.Properties["email"]
		require.NotNil(t, email)
		assert.True(t, email.Value.Deprecated)

		todos := user.Properties["todos"]
		require.NotNil(t, todos)
		assert.True(t, todos.Value.Type.Is("array"))
		require.NotNil(t, todos.Value.Items)
		item := todos.Value.Items
		require.Len(t, item.Value.AllOf, 1)
		assert.True(t, item.Value.Nullable)
		assert.Equal(t, "#/components/schemas/Todo", item.Value.AllOf[0].Ref)
		assert.Same(t, schemas["Todo"].Value, item.Value.AllOf[0].Value)
	})

	t.Run("enum", func(t *testing.T) {
		status := schemas["Status"].Value
		assert.True(t, status.Type.Is("string"))
		assert.NotEmpty(t, status.Enum)
		assert.Contains(t, status.Enum, "TODO")
	})

	t.Run("union", func(t *testing.T) {
		union := schemas["SearchResult"].Value
		require.Len(t, union.OneOf, 2)
		assert.Equal(t, "#/components/schemas/User", union.OneOf[0].Ref)
		assert.Equal(t, "#/components/schemas/Todo", union.OneOf[1].Ref)
	})

	t.Run("input object", func(t *testing.T) {
		input := schemas["NewTodo"].Value
		assert.True(t, input.Type.Is("object"))
		filter := input.Properties["filter"]
		require.NotNil(t, filter)
		require.Len(t, filter.Value.AllOf, 1)
		assert.Equal(t, "#/components/schemas/TodoFilter", filter.Value.AllOf[0].Ref)
		assert.Equal(t, map[string]any{"status": "DONE", "limit": float64(5)}, filter.Value.Default)
		assert.True(t, filter.Value.Nullable)
	})

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(spec)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"$ref":"#/components/schemas/Todo"`)
		assert.Contains(t, string(data), `"openapi":"3.0.3"`)
	})
}

func TestExportEncodings(t *testing.T) {
	t.Parallel()
	var exported []string
	for _, enc := range typeref.Encodings {
		doc := build(t, "directives.graphql", builder.WithNullability(enc))
		spec, err := openapi.Export(doc, openapi.Info{Version: "1.0.0"})
		require.NoError(t, err, enc.Name())
		assert.Equal(t, "1.0.0", spec.Info.Version)
		data, err := json.Marshal(spec.Components.Schemas)
		require.NoError(t, err)
		exported = append(exported, string(data))
	}
	for _, got := range exported[1:] {
		assert.JSONEq(t, exported[0], got)
	}
}

func TestExportErrors(t *testing.T) {
	t.Parallel()
	doc := graphapi.NewDocument()
	doc.Components.Objects = graphapi.NewMap[*graphapi.Object]()
	props := graphapi.NewMap[*graphapi.Field]()
	props.Set("gadget", &graphapi.Field{Title: "gadget", Schema: graphapi.Schema{Ref: "#/components/objects/Gadget"}})
	doc.Components.Objects.Set("Widget", &graphapi.Object{Title: "Widget", Type: graphapi.TypeOf("object"), Properties: props})

	_, err := openapi.Export(doc, openapi.Info{})
	require.Error(t, err)
	assert.ErrorIs(t, err, graphapi.ErrUnresolvedReference)
	var pe *graphapi.PrintError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Widget", pe.Type)
	assert.Equal(t, "gadget", pe.Field)
}

func TestExportEmpty(t *testing.T) {
	t.Parallel()
	spec, err := openapi.Export(&graphapi.Document{}, openapi.Info{})
	require.NoError(t, err)
	assert.Equal(t, "GraphQL API", spec.Info.Title)
	assert.Equal(t, graphapi.Version, spec.Info.Version)
	assert.Empty(t, spec.Components.Schemas)
}
