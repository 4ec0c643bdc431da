package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mark3labs/httpgen/internal/emitter/goemitter"
	"github.com/mark3labs/httpgen/internal/openapi"
	"github.com/mark3labs/httpgen/internal/spec"
)

// ImportConfig captures the options for the import command.
type ImportConfig struct {
	Input        string
	StructName   string
	IncludeTags  []string
	ExcludeTags  []string
	Methods      []spec.Verb
	PathPatterns []string
	Out          string // DSL file; stdout when empty
	TypesOut     string // parameter structs; skipped when empty
	Package      string
	Force        bool
}

var importRunner = runImport

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Scaffold a provider definition from an OpenAPI/Swagger document",
		Long: "Scaffold a provider definition (DSL) from an OpenAPI 3 or Swagger 2 document. " +
			"Path and query parameter structs can be written alongside with --types-out.",
		Example: strings.TrimSpace(`  httpgen import --input openapi.yaml --out api.http
  httpgen import --input https://example.com/swagger.json --include-tags pets --methods get,post`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveImportConfig(cmd)
			if err != nil {
				return err
			}
			return importRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.String("struct", "", "Provider struct name (derived from the document title when omitted)")
	flags.StringSlice("include-tags", nil, "Only include operations with these tags")
	flags.StringSlice("exclude-tags", nil, "Exclude operations with these tags")
	flags.StringSlice("methods", nil, "Only include these HTTP methods (get, post, put, delete)")
	flags.StringSlice("paths", nil, "Only include paths matching these regular expressions")
	flags.String("out", "", "Write the provider definition here instead of stdout")
	flags.String("types-out", "", "Write path/query parameter structs to this Go file")
	flags.String("package", goemitter.DefaultPackage, "Package name for --types-out")
	flags.Bool("force", false, "Overwrite existing output files")

	return cmd
}

func resolveImportConfig(cmd *cobra.Command) (*ImportConfig, error) {
	flags := cmd.Flags()
	cfg := &ImportConfig{}
	var err error
	if cfg.Input, err = flags.GetString("input"); err != nil {
		return nil, err
	}
	if cfg.StructName, err = flags.GetString("struct"); err != nil {
		return nil, err
	}
	if cfg.IncludeTags, err = flags.GetStringSlice("include-tags"); err != nil {
		return nil, err
	}
	if cfg.ExcludeTags, err = flags.GetStringSlice("exclude-tags"); err != nil {
		return nil, err
	}
	methods, err := flags.GetStringSlice("methods")
	if err != nil {
		return nil, err
	}
	if cfg.PathPatterns, err = flags.GetStringSlice("paths"); err != nil {
		return nil, err
	}
	if cfg.Out, err = flags.GetString("out"); err != nil {
		return nil, err
	}
	if cfg.TypesOut, err = flags.GetString("types-out"); err != nil {
		return nil, err
	}
	if cfg.Package, err = flags.GetString("package"); err != nil {
		return nil, err
	}
	if cfg.Force, err = flags.GetBool("force"); err != nil {
		return nil, err
	}

	cfg.Input = strings.TrimSpace(cfg.Input)
	cfg.StructName = strings.TrimSpace(cfg.StructName)
	cfg.IncludeTags = dedupe(cfg.IncludeTags)
	cfg.ExcludeTags = dedupe(cfg.ExcludeTags)
	cfg.PathPatterns = dedupe(cfg.PathPatterns)
	cfg.Out = strings.TrimSpace(cfg.Out)
	cfg.TypesOut = strings.TrimSpace(cfg.TypesOut)
	cfg.Package = strings.TrimSpace(cfg.Package)

	if cfg.Input == "" {
		return nil, newUsageError("import: --input is required")
	}
	for _, m := range dedupe(methods) {
		verb, ok := spec.ParseVerb(m)
		if !ok {
			return nil, newUsageError(fmt.Sprintf("import: unsupported --methods value %q (allowed: get, post, put, delete)", m))
		}
		cfg.Methods = append(cfg.Methods, verb)
	}
	if overlap := intersect(cfg.IncludeTags, cfg.ExcludeTags); len(overlap) > 0 {
		return nil, newUsageError(fmt.Sprintf("import: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}
	return cfg, nil
}

func runImport(ctx context.Context, cfg *ImportConfig) error {
	log := zerolog.Ctx(ctx)

	doc, err := openapi.Load(ctx, cfg.Input)
	if err != nil {
		return err
	}
	res, err := openapi.Build(doc,
		openapi.WithStructName(cfg.StructName),
		openapi.WithIncludeTags(cfg.IncludeTags),
		openapi.WithExcludeTags(cfg.ExcludeTags),
		openapi.WithMethods(cfg.Methods),
		openapi.WithPathPatterns(cfg.PathPatterns),
	)
	if err != nil {
		return err
	}
	for _, s := range res.Skipped {
		log.Warn().Str("operation", s).Msg("skipped operation with unsupported method")
	}
	if len(res.Schemas) > 0 {
		log.Info().Strs("schemas", res.Schemas).Msg("declare these types next to the generated client")
	}

	if cfg.Out == "" {
		if _, err := os.Stdout.Write(res.DSL()); err != nil {
			return err
		}
	} else if err := writeOutput(cfg.Out, res.DSL(), cfg.Force); err != nil {
		return err
	}

	if cfg.TypesOut != "" {
		src, err := res.TypesSource(cfg.Package)
		if err != nil {
			return fmt.Errorf("import: render parameter types: %w", err)
		}
		if src == nil {
			log.Info().Msg("no parameter structs needed")
		} else if err := writeOutput(cfg.TypesOut, src, cfg.Force); err != nil {
			return err
		}
	}
	log.Info().Str("struct", res.Provider.StructName.Name).Int("endpoints", len(res.Provider.Endpoints)).Msg("imported provider")
	return nil
}

// writeOutput writes content atomically, refusing to replace a different
// existing file unless force is set.
func writeOutput(path string, content []byte, force bool) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if existing, err := os.ReadFile(absPath); err == nil && !force && !bytes.Equal(existing, content) {
		return newUsageError(fmt.Sprintf("%q already exists (use --force to overwrite)", absPath))
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return wrapOutputError(fmt.Errorf("mkdir: %w", err), filepath.Dir(absPath))
	}
	tmp := absPath + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return wrapOutputError(err, filepath.Dir(absPath))
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return wrapOutputError(fmt.Errorf("rename: %w", err), filepath.Dir(absPath))
	}
	return nil
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}
