package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/httpgen/internal/emitter/goemitter"
)

const itemsDSL = `ItemsAPI, {
	{ path: "/items/{id}", method: GET, path_params: ItemPath, res: Item },
	{ path: "/items", method: POST, fn_name: CreateItem, req: NewItem, res: Item },
}`

const itemsYAML = `name: ItemsAPI
endpoints:
  - path: /items/{id}
    method: get
    path_params: ItemPath
    res: Item
`

func TestGenerateTool_Inline(t *testing.T) {
	res, out, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, generateInput{Spec: itemsDSL})
	require.NoError(t, err)
	assert.Nil(t, res)

	assert.Equal(t, "ItemsAPI", out.StructName)
	assert.Equal(t, goemitter.FileName("ItemsAPI"), out.FileName)
	assert.Equal(t, []string{"GetItemsID", "CreateItem"}, out.Methods)
	assert.False(t, out.Written)
	assert.Contains(t, out.Source, goemitter.GeneratedHeader)
	assert.Contains(t, out.Source, "package "+goemitter.DefaultPackage)
	assert.Contains(t, out.Source, "func NewItemsAPI(")
	assert.Empty(t, out.Warnings)
}

func TestGenerateTool_YAML(t *testing.T) {
	_, out, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, generateInput{Spec: itemsYAML, Format: "yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"GetItemsID"}, out.Methods)
}

func TestGenerateTool_Warnings(t *testing.T) {
	src := `API, { { path: "/items/{id}", method: GET, res: Item } }`
	_, out, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, generateInput{Spec: src})
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "<inline>:1:")
}

func TestGenerateTool_WritesFile(t *testing.T) {
	dir := t.TempDir()
	_, out, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, generateInput{Spec: itemsDSL, OutputDir: dir})
	require.NoError(t, err)
	assert.True(t, out.Written)
	assert.Empty(t, out.Source)

	data, err := os.ReadFile(filepath.Join(dir, out.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "type ItemsAPI struct")

	// Same content again: nothing is rewritten.
	_, again, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, generateInput{Spec: itemsDSL, OutputDir: dir})
	require.NoError(t, err)
	assert.False(t, again.Written)
	assert.Empty(t, again.Source)
	assert.Equal(t, out.FileName, again.FileName)
}

func TestGenerateTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input generateInput
	}{
		{"empty spec", generateInput{Spec: "  "}},
		{"bad format", generateInput{Spec: itemsDSL, Format: "json"}},
		{"empty endpoints", generateInput{Spec: "API, {}"}},
		{"bad package", generateInput{Spec: itemsDSL, Package: "not-a-package"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
		})
	}
}
