package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/httpgen/internal/logging"
	"github.com/spf13/cobra"
)

// Execute runs the httpgen CLI with ctx as the base context of every command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "httpgen",
		Short:         "Generate typed Go HTTP clients from provider definitions",
		Long:          "httpgen turns a declarative list of HTTP endpoints into a Go client struct with one method per endpoint.",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			format, err := cmd.Flags().GetString("log-format")
			if err != nil {
				return err
			}
			switch format {
			case logging.FormatConsole, logging.FormatJSON:
			default:
				return newUsageError(fmt.Sprintf("unsupported --log-format %q (allowed: console, json)", format))
			}
			log := logging.New(os.Stderr, logging.Level(verbose), format)
			cmd.SetContext(log.WithContext(cmd.Context()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Convert Cobra flag errors (like unknown flags) into friendly usage errors
	// that also show the command's help text.
	cmd.SetFlagErrorFunc(flagError)

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML); defaults to ./"+defaultConfigFile+" when present")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")
	cmd.PersistentFlags().String("log-format", logging.FormatConsole, "Log output format (console|json)")

	for _, sub := range []*cobra.Command{newGenerateCmd(), newInitCmd(), newImportCmd(), newServeCmd()} {
		sub.SetFlagErrorFunc(flagError)
		cmd.AddCommand(sub)
	}

	return cmd
}

func flagError(c *cobra.Command, err error) error {
	return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}
