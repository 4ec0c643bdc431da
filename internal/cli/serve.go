package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mark3labs/httpgen/internal/mcpserver"
)

// Version is reported by the MCP server and --version. Release builds set
// it with -ldflags "-X github.com/mark3labs/httpgen/internal/cli.Version=...".
var Version = "dev"

var serveRunner = func(ctx context.Context) error {
	return mcpserver.Run(ctx, Version)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve httpgen as MCP tools over stdio",
		Long:  "Start a Model Context Protocol server on stdin/stdout exposing the generate_client and import_openapi tools.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRunner(cmd.Context())
		},
	}
}
