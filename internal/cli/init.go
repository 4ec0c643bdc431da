package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample httpgen configuration file",
		Long:  "Scaffold a commented httpgen configuration file that documents available options.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			cfg := &InitConfig{
				OutputPath: out,
				Force:      force,
				Verbose:    verbose,
			}
			return initRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("out", defaultConfigFile, "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	log := zerolog.Ctx(ctx)
	if cfg.Verbose {
		l := log.Level(zerolog.DebugLevel)
		log = &l
	}

	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = defaultConfigFile
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force {
		if st.Mode().IsRegular() {
			return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
		}
	}

	content := strings.TrimSpace(sampleConfigYAML) + "\n"
	// The sample must load cleanly with the same rules generate applies.
	if err := loadConfigFile(koanf.New("."), rawbytes.Provider([]byte(content)), "sample"); err != nil {
		return fmt.Errorf("init: sample config is invalid: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot create parent directory: %v", err))
	}

	// Atomic write via temp + rename
	tmp := absPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("init: cannot place file at %s: %v", absPath, err))
	}
	log.Debug().Str("file", absPath).Bool("force", cfg.Force).Int("bytes", len(content)).Msg("wrote sample config")
	fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# httpgen configuration (YAML)
# Precedence: defaults < this file < HTTPGEN_* environment < command-line flags.

# Provider definitions to generate (paths or http/https URLs).
# Files ending in .yaml/.yml use the YAML form, anything else the DSL.
inputs:
  - ./api.http

# Output directory for the generated *_gen.go files.
out: ./client

# Package clause of the generated files.
package: client

# Extra imports for types referenced by providers.
# imports: [example.com/project/models]

# Let goimports add imports for package selectors it can resolve.
# resolveImports: false

# Number of inputs generated concurrently (1-64).
# jobs: 4

# Preview planned outputs without writing files.
# dryRun: false

# Overwrite files that were not generated by httpgen.
# force: false

# Enable verbose logging.
# verbose: false
`
