package builder_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/builder"
	"github.com/syssam/graphapi/graph"
	"github.com/syssam/graphapi/graph/introspection"
	"github.com/syssam/graphapi/typeref"
)

func load(t *testing.T, input string) *ast.Schema {
	t.Helper()
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: input})
	require.NoError(t, err)
	return s
}

func loadFixture(t *testing.T, name string) *ast.Schema {
	t.Helper()
	input, err := os.ReadFile(filepath.Join("..", "testdata", name))
	require.NoError(t, err)
	return load(t, string(input))
}

func TestFromSchema(t *testing.T) {
	t.Parallel()
	doc, err := builder.FromSchema(loadFixture(t, "example.graphql"))
	require.NoError(t, err)

	assert.Equal(t, graphapi.Version, doc.GraphAPI)
	assert.Equal(t, []string{"todo", "todos", "search", "node"}, doc.Queries.Keys())
	assert.Equal(t, []string{"createTodo", "deleteTodo"}, doc.Mutations.Keys())
	assert.Equal(t, []string{"todoChanged"}, doc.Subscriptions.Keys())

	c := doc.Components
	assert.Equal(t, []string{"DateTime", "JSON"}, c.Scalars.Keys())
	assert.Equal(t, []string{"User", "Todo"}, c.Objects.Keys())
	assert.Equal(t, []string{"Node", "Entity"}, c.Interfaces.Keys())
	assert.Equal(t, []string{"SearchResult"}, c.Unions.Keys())
	assert.Equal(t, []string{"Status"}, c.Enums.Keys())
	assert.Equal(t, []string{"TodoFilter", "NewTodo"}, c.InputObjects.Keys())
	assert.False(t, c.Objects.Has("Query"))
	assert.NoError(t, doc.Validate())

	t.Run("scalars", func(t *testing.T) {
		dt, _ := c.Scalars.Get("DateTime")
		assert.Equal(t, "https://scalars.graphql.org/andimarek/date-time", dt.SpecifiedByURL)
		assert.Equal(t, "string", dt.Type.Kind())
		assert.Equal(t, "DateTime", dt.Format)
		assert.Nil(t, dt.Directives)
	})

	t.Run("objects", func(t *testing.T) {
		user, _ := c.Objects.Get("User")
		assert.Equal(t, []string{"id", "createdAt", "email", "todos"}, user.Required)
		require.Len(t, user.Interfaces, 2)
		assert.Equal(t, "#/components/interfaces/Node", user.Interfaces[0].Ref)
		assert.Equal(t, "#/components/interfaces/Entity", user.Interfaces[1].Ref)

		id, _ := user.Properties.Get("id")
		assert.Equal(t, graphapi.Schema{Type: graphapi.TypeOf("string"), Format: "ID"}, id.Schema)

		todos, _ := user.Properties.Get("todos")
		assert.Equal(t, "array", todos.Type.Kind())
		assert.False(t, todos.Nullable)
		assert.Equal(t, &graphapi.Schema{Ref: "#/components/objects/Todo", Nullable: true}, todos.Items)

		first, _ := todos.Args.Get("first")
		assert.False(t, first.Required)
		assert.Equal(t, int64(10), first.Default)
		status, _ := todos.Args.Get("status")
		assert.Equal(t, "TODO", status.Default)
		assert.Equal(t, &graphapi.Schema{Ref: "#/components/enums/Status"}, status.Schema)
	})

	t.Run("deprecation", func(t *testing.T) {
		user, _ := c.Objects.Get("User")
		email, _ := user.Properties.Get("email")
		dep, ok := email.Directives.Get("deprecated")
		require.True(t, ok)
		assert.Equal(t, "#/components/directiveDefinitions/deprecated", dep.Ref)
		reason, _ := dep.Meta.Get("reason")
		assert.Equal(t, "Use contacts.", reason)

		nickname, _ := user.Properties.Get("nickname")
		dep, ok = nickname.Directives.Get("deprecated")
		require.True(t, ok)
		assert.Nil(t, dep.Meta)
	})

	t.Run("unions", func(t *testing.T) {
		u, _ := c.Unions.Get("SearchResult")
		assert.Equal(t, []*graphapi.Schema{
			{Ref: "#/components/objects/User"},
			{Ref: "#/components/objects/Todo"},
		}, u.OneOf)
	})

	t.Run("enums", func(t *testing.T) {
		e, _ := c.Enums.Get("Status")
		assert.Equal(t, []string{"TODO", "IN_PROGRESS", "DONE", "ARCHIVED"}, e.Enum)
		assert.Equal(t, []string{"TODO", "DONE", "ARCHIVED"}, e.Values.Keys())
		assert.Nil(t, e.OneOf)
	})

	t.Run("input objects", func(t *testing.T) {
		in, _ := c.InputObjects.Get("NewTodo")
		text, _ := in.InputFields.Get("text")
		assert.True(t, text.Required)
		filter, _ := in.InputFields.Get("filter")
		def, ok := filter.Default.(*graphapi.Map[any])
		require.True(t, ok)
		assert.Equal(t, []string{"status", "limit"}, def.Keys())

		tf, _ := c.InputObjects.Get("TodoFilter")
		tags, _ := tf.InputFields.Get("tags")
		assert.Equal(t, []any{"urgent"}, tags.Default)
		assert.Equal(t, "Only todos with every tag.", tags.Description)
	})

	t.Run("operations", func(t *testing.T) {
		todo, _ := doc.Queries.Get("todo")
		assert.Equal(t, &graphapi.Schema{Ref: "#/components/objects/Todo", Nullable: true}, todo.Response)
		completed, _ := todo.Args.Get("isCompleted")
		assert.Equal(t, false, completed.Default)
		id, _ := todo.Args.Get("id")
		assert.True(t, id.Required)
		assert.Nil(t, id.Default)
	})

	t.Run("directive definitions", func(t *testing.T) {
		assert.False(t, c.DirectiveDefinitions.Has("deprecated"))
		assert.False(t, c.DirectiveDefinitions.Has("specifiedBy"))
		assert.True(t, c.DirectiveDefinitions.Has("skip"))
	})
}

func TestDirectives(t *testing.T) {
	t.Parallel()
	doc, err := builder.FromSchema(loadFixture(t, "directives.graphql"))
	require.NoError(t, err)
	c := doc.Components

	cache, ok := c.DirectiveDefinitions.Get("cache")
	require.True(t, ok)
	assert.Equal(t, []string{"FIELD_DEFINITION", "OBJECT"}, cache.Locations)
	assert.False(t, cache.Repeatable)
	maxAge, _ := cache.Args.Get("maxAge")
	assert.Equal(t, "Seconds to keep the value.", maxAge.Description)
	assert.Equal(t, int64(60), maxAge.Default)

	tag, _ := c.DirectiveDefinitions.Get("tag")
	assert.True(t, tag.Repeatable)

	product, _ := c.Objects.Get("Product")
	applied, ok := product.Directives.Get("cache")
	require.True(t, ok)
	v, _ := applied.Meta.Get("maxAge")
	assert.Equal(t, int64(30), v)

	name, _ := product.Properties.Get("name")
	rule, _ := name.Directives.Get("rule")
	config, _ := rule.Meta.Get("config")
	m, ok := config.(*graphapi.Map[any])
	require.True(t, ok)
	level, _ := m.Get("level")
	assert.Equal(t, int64(2), level)
	names, _ := m.Get("names")
	assert.Equal(t, []any{"a", "b"}, names)

	money, _ := c.Scalars.Get("Money")
	assert.Equal(t, []string{"tag"}, money.Directives.Keys())
	kind, _ := c.Enums.Get("Kind")
	book, _ := kind.Values.Get("BOOK")
	assert.True(t, book.Directives.Has("tag"))
	assert.NoError(t, doc.Validate())
}

func TestNullability(t *testing.T) {
	t.Parallel()
	s := load(t, `type Query { tags: [[String]!] }`)
	tests := []struct {
		enc  typeref.Encoding
		want string
	}{
		{typeref.Flag, `{"type":"array","nullable":true,"items":{"type":"array","items":{"type":"string","nullable":true}}}`},
		{typeref.Union, `{"oneOf":[{"type":"array","items":{"type":"array","items":{"oneOf":[{"type":"string"},{"type":"null"}]}}},{"type":"null"}]}`},
		{typeref.ArrayType, `{"type":["array","null"],"items":{"type":"array","items":{"type":["string","null"]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.enc.Name(), func(t *testing.T) {
			doc, err := builder.FromSchema(s, builder.WithNullability(tt.enc))
			require.NoError(t, err)
			op, _ := doc.Queries.Get("tags")
			data, err := json.Marshal(op.Response)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestEnumEncodings(t *testing.T) {
	t.Parallel()
	s := load(t, `
enum Color {
  "Warm."
  RED
  GREEN
}
type Query { color: Color }
`)
	t.Run("const", func(t *testing.T) {
		doc, err := builder.FromSchema(s, builder.WithEnumEncoding(builder.EnumConst))
		require.NoError(t, err)
		e, _ := doc.Components.Enums.Get("Color")
		assert.Nil(t, e.Enum)
		assert.Nil(t, e.Values)
		require.Len(t, e.OneOf, 2)
		assert.Equal(t, &graphapi.EnumValue{Const: "RED", Description: "Warm."}, e.OneOf[0])
		assert.Equal(t, &graphapi.EnumValue{Const: "GREEN"}, e.OneOf[1])
	})
	t.Run("disable string enums", func(t *testing.T) {
		doc, err := builder.FromSchema(s, builder.WithDisableStringEnums(true))
		require.NoError(t, err)
		e, _ := doc.Components.Enums.Get("Color")
		assert.Nil(t, e.Enum)
		assert.Equal(t, []string{"RED", "GREEN"}, e.Values.Keys())
	})
}

func TestStrictScalars(t *testing.T) {
	t.Parallel()
	s := load(t, `type Query { score: Float }`)
	doc, err := builder.FromSchema(s, builder.WithStrictScalars(true))
	require.NoError(t, err)
	op, _ := doc.Queries.Get("score")
	assert.Equal(t, "Float", op.Response.Format)
	assert.Equal(t, "number", op.Response.Type.Kind())
}

func TestFromIntrospection(t *testing.T) {
	t.Parallel()
	s := loadFixture(t, "example.graphql")
	want, err := builder.FromSchema(s)
	require.NoError(t, err)

	data, err := introspection.Marshal(introspection.FromSchema(s))
	require.NoError(t, err)
	parsed, err := introspection.Parse(data)
	require.NoError(t, err)
	got, err := builder.FromIntrospection(parsed)
	require.NoError(t, err)

	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
}

func TestRootTypeMetadata(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	doc, err := builder.FromSchema(load(t, `
directive @tag(name: String) on OBJECT
interface Node { id: ID! }
"Entry points."
type Query implements Node @tag(name: "root") { id: ID!, a: Int }
`), builder.WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "a"}, doc.Queries.Keys())
	_, ok := doc.Components.Objects.Get("Query")
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "drop root type metadata")
	assert.Contains(t, logs.String(), "type=Query")
	assert.Contains(t, logs.String(), "directives=1")
}

func TestAppliedDirectivesNeedSDL(t *testing.T) {
	t.Parallel()
	s := load(t, `
directive @tag(name: String) on OBJECT | ENUM_VALUE
enum Color { RED BLUE @tag(name: "cold") }
type T @tag(name: "t") { c: Color }
type Query { t: T }
`)
	fromSDL, err := builder.FromSchema(s)
	require.NoError(t, err)
	fromIntrospection, err := builder.FromIntrospection(introspection.FromSchema(s))
	require.NoError(t, err)

	sdlT, ok := fromSDL.Components.Objects.Get("T")
	require.True(t, ok)
	assert.True(t, sdlT.Directives.Has("tag"))
	inT, ok := fromIntrospection.Components.Objects.Get("T")
	require.True(t, ok)
	assert.Nil(t, inT.Directives)

	// Declarations survive both routes.
	assert.True(t, fromSDL.Components.DirectiveDefinitions.Has("tag"))
	assert.True(t, fromIntrospection.Components.DirectiveDefinitions.Has("tag"))
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()
	t.Run("unsupported kind", func(t *testing.T) {
		_, err := builder.Build(&graph.Schema{Types: []*graph.Type{{Kind: graph.Kind("WIDGET"), Name: "Gadget"}}})
		require.Error(t, err)
		assert.ErrorIs(t, err, graphapi.ErrUnsupportedTypeKind)
		var be *graphapi.BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "Gadget", be.Type)
		assert.Equal(t, "WIDGET", be.Kind)
	})

	t.Run("reference to unknown kind", func(t *testing.T) {
		_, err := builder.Build(&graph.Schema{Types: []*graph.Type{{
			Kind:   graph.Object,
			Name:   "User",
			Fields: []*graph.Field{{Name: "gadget", Type: graph.NamedRef("Gadget", graph.Kind("WIDGET"))}},
		}}})
		require.Error(t, err)
		assert.ErrorIs(t, err, graphapi.ErrUnsupportedTypeKind)
		var be *graphapi.BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "Gadget", be.Type)
		assert.Equal(t, "gadget", be.Field)
	})

	t.Run("invalid default", func(t *testing.T) {
		_, err := builder.Build(&graph.Schema{Types: []*graph.Type{{
			Kind: graph.InputObject,
			Name: "Filter",
			InputFields: []*graph.InputValue{{
				Name:         "limit",
				Type:         graph.NamedRef("Int", graph.Scalar),
				DefaultValue: &graph.Literal{Kind: graph.IntLiteral, Raw: "ten"},
			}},
		}}})
		require.Error(t, err)
		assert.True(t, graphapi.IsBuildError(err))
		assert.NotErrorIs(t, err, graphapi.ErrUnsupportedTypeKind)
		assert.Contains(t, err.Error(), "Filter")
		assert.Contains(t, err.Error(), "limit")
	})
}

func TestTranslateLiteral(t *testing.T) {
	t.Parallel()
	obj := graphapi.NewMap[any]()
	obj.Set("b", int64(1))
	obj.Set("a", []any{"x", nil})
	tests := []struct {
		name string
		in   *graph.Literal
		want any
	}{
		{"nil", nil, nil},
		{"int", &graph.Literal{Kind: graph.IntLiteral, Raw: "42"}, int64(42)},
		{"big int", &graph.Literal{Kind: graph.IntLiteral, Raw: "18446744073709551616"}, 18446744073709551616.0},
		{"float", &graph.Literal{Kind: graph.FloatLiteral, Raw: "1.5e3"}, 1500.0},
		{"boolean", &graph.Literal{Kind: graph.BooleanLiteral, Raw: "true"}, true},
		{"string", &graph.Literal{Kind: graph.StringLiteral, Raw: "hi"}, "hi"},
		{"enum", &graph.Literal{Kind: graph.EnumLiteral, Raw: "RED"}, "RED"},
		{"null", &graph.Literal{Kind: graph.NullLiteral}, nil},
		{"object", &graph.Literal{Kind: graph.ObjectLiteral, Fields: []*graph.ObjectField{
			{Name: "b", Value: &graph.Literal{Kind: graph.IntLiteral, Raw: "1"}},
			{Name: "a", Value: &graph.Literal{Kind: graph.ListLiteral, List: []*graph.Literal{
				{Kind: graph.StringLiteral, Raw: "x"},
				{Kind: graph.NullLiteral},
			}}},
		}}, obj},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := builder.TranslateLiteral(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := builder.TranslateLiteral(&graph.Literal{Kind: graph.FloatLiteral, Raw: "x"})
	assert.Error(t, err)
}

func TestTranslateAttached(t *testing.T) {
	t.Parallel()
	got, err := builder.TranslateAttached(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = builder.TranslateAttached(nil, &graph.Deprecation{Reason: graphapi.DefaultDeprecationReason})
	require.NoError(t, err)
	dep, _ := got.Get("deprecated")
	assert.Nil(t, dep.Meta)

	got, err = builder.TranslateAttached([]*graph.Directive{{Name: "auth", Args: []*graph.Argument{
		{Name: "role", Value: &graph.Literal{Kind: graph.EnumLiteral, Raw: "ADMIN"}},
	}}}, &graph.Deprecation{Reason: "gone"})
	require.NoError(t, err)
	assert.Equal(t, []string{"auth", "deprecated"}, got.Keys())
	auth, _ := got.Get("auth")
	assert.Equal(t, "#/components/directiveDefinitions/auth", auth.Ref)
	role, _ := auth.Meta.Get("role")
	assert.Equal(t, "ADMIN", role)
	dep, _ = got.Get("deprecated")
	reason, _ := dep.Meta.Get("reason")
	assert.Equal(t, "gone", reason)
}

func TestTranslateDirectiveDefinition(t *testing.T) {
	t.Parallel()
	def, err := builder.TranslateDirectiveDefinition(&graph.DirectiveDefinition{
		Name:       "limit",
		Locations:  []string{"FIELD_DEFINITION"},
		Repeatable: true,
		Args: []*graph.InputValue{{
			Name:         "max",
			Type:         graph.NonNullOf(graph.NamedRef("Int", graph.Scalar)),
			DefaultValue: &graph.Literal{Kind: graph.IntLiteral, Raw: "5"},
		}},
	}, builder.WithNullability(typeref.Union))
	require.NoError(t, err)
	assert.Equal(t, "limit", def.Title)
	assert.True(t, def.Repeatable)
	maxArg, _ := def.Args.Get("max")
	assert.True(t, maxArg.Required)
	assert.Equal(t, int64(5), maxArg.Default)
	assert.Equal(t, &graphapi.Schema{Type: graphapi.TypeOf("integer")}, maxArg.Schema)
}

func TestOptions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		opt  builder.Option
	}{
		{"nil encoding", builder.WithNullability(nil)},
		{"auto encoding", builder.WithNullability(typeref.Auto)},
		{"unknown encoding name", builder.WithNullabilityName("bits")},
		{"unknown enum encoding", builder.WithEnumEncoding("set")},
		{"nil logger", builder.WithLogger(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := builder.NewConfig(tt.opt)
			assert.ErrorIs(t, err, graphapi.ErrInvalidConfig)
		})
	}

	t.Run("apply all collects errors", func(t *testing.T) {
		cfg := builder.MustNewConfig()
		err := cfg.ApplyAll(builder.WithNullability(nil), builder.WithEnumEncoding("set"))
		require.Error(t, err)
		assert.True(t, graphapi.IsConfigError(err))
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := builder.MustNewConfig(builder.WithNullabilityName("auto"))
		assert.Equal(t, typeref.Flag, cfg.Nullability)
		assert.Equal(t, builder.EnumList, cfg.Enums)
		assert.Panics(t, func() { builder.MustNewConfig(builder.WithLogger(nil)) })
	})

	t.Run("logger", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		_, err := builder.FromSchema(load(t, `type Query { a: Int }`), builder.WithLogger(logger))
		require.NoError(t, err)
		assert.Contains(t, logs.String(), "component=builder")
		assert.Contains(t, logs.String(), "skip built-in scalar")
	})
}
