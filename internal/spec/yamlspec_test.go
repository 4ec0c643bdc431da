package spec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsYAML = `name: ItemsAPI
endpoints:
  - path: /items/{id}
    method: get
    path_params: ItemPath
    res: Item
  - path: /items
    method: POST
    fn_name: CreateItem
    req: NewItem
    res: "*Item"
    headers: http.Header
  - method: DELETE
    res: "map[string][]models.Item"
    trait_impl: store.Purger
`

func TestParseYAML_MatchesDSL(t *testing.T) {
	t.Parallel()
	fromYAML, err := ParseYAML("items.yaml", []byte(itemsYAML))
	require.NoError(t, err)

	assert.Equal(t, "ItemsAPI", fromYAML.StructName.Name)
	require.Len(t, fromYAML.Endpoints, 3)
	assert.Equal(t, "get_items_id", fromYAML.Endpoints[0].ResolvedName())
	assert.Equal(t, "ItemPath", fromYAML.Endpoints[0].PathParams.Expr)
	assert.Equal(t, "CreateItem", fromYAML.Endpoints[1].ResolvedName())
	assert.Equal(t, "*Item", fromYAML.Endpoints[1].Response.Expr)
	assert.Equal(t, "store.Purger", fromYAML.Endpoints[2].Binding.Contract.Expr)
	assert.Equal(t, Pos{Filename: "items.yaml", Line: 3, Column: 5}, fromYAML.Endpoints[0].Pos)
}

func TestParseYAML_EmptyTraitImplIsExternalWithoutContract(t *testing.T) {
	t.Parallel()
	src := "name: API\nendpoints:\n  - method: GET\n    res: A\n    trait_impl: \"\"\n"
	ps, err := ParseYAML("", []byte(src))
	require.NoError(t, err)
	b := ps.Endpoints[0].Binding
	assert.True(t, b.IsExternal())
	assert.Empty(t, b.Contract.Expr)
}

func TestParseYAML_Diagnostics(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		code ErrorCode
		line int
	}{
		{"not yaml", "name: [", SyntaxError, 0},
		{"not a mapping", "- a\n- b\n", SyntaxError, 1},
		{"bad name", "name: 1abc\nendpoints: []\n", SyntaxError, 1},
		{"missing name", "endpoints: []\n", MissingField, 1},
		{"unknown top-level key", "name: API\nversion: 2\n", UnknownField, 2},
		{"unknown endpoint key", "name: API\nendpoints:\n  - method: GET\n    res: A\n    verb: GET\n", UnknownField, 5},
		{"bad method", "name: API\nendpoints:\n  - method: PATCH\n    res: A\n", InvalidMethod, 3},
		{"missing res", "name: API\nendpoints:\n  - method: GET\n", MissingField, 3},
		{"bad type", "name: API\nendpoints:\n  - method: GET\n    res: \"1 + 2\"\n", InvalidType, 4},
		{"bad fn_name", "name: API\nendpoints:\n  - method: GET\n    res: A\n    fn_name: get-all\n", SyntaxError, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseYAML("p.yaml", []byte(tt.src))
			var d *Diagnostic
			require.True(t, errors.As(err, &d), "got %v", err)
			assert.Equal(t, tt.code, d.Code, d.Error())
			if tt.line > 0 {
				assert.Equal(t, tt.line, d.Pos.Line)
			}
		})
	}
}
