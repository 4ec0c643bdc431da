// Package mcpserver exposes httpgen as MCP (Model Context Protocol) tools
// over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

const serverInstructions = `httpgen MCP server: generates typed Go HTTP clients from provider definitions.

A provider is a struct name plus a list of endpoint blocks. DSL example:

  ItemsAPI, {
      { path: "/items/{id}", method: GET, path_params: ItemPath, res: Item },
  }

Allowed endpoint fields: path, method (GET|POST|PUT|DELETE), fn_name, req, res, headers, query_params, path_params, trait_impl. method and res are required.
Use import_openapi to scaffold a provider from an OpenAPI/Swagger document, then generate_client to render it.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context, version string) error {
	server := newServer(version)
	zerolog.Ctx(ctx).Info().Str("version", version).Msg("serving MCP over stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}

func newServer(version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "httpgen", Version: version},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_client",
		Description: "Render a provider definition (DSL or YAML text) as Go client source. Returns the source inline, or writes <struct>_gen.go into output_dir when given. Generation-time problems are reported as file:line:col diagnostics.",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_openapi",
		Description: "Scaffold a provider definition (DSL) from an OpenAPI 3 or Swagger 2 document given inline (content) or as a path/URL (input). Operations using PATCH, HEAD, OPTIONS or TRACE are listed as skipped.",
	}, handleImport)
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
