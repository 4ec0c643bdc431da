package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mark3labs/httpgen/internal/emitter/goemitter"
	"github.com/mark3labs/httpgen/internal/spec"
)

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go client code from provider definitions",
		Long: "Generate one Go source file per provider definition (DSL or YAML). " +
			"Options can be provided via flags, config files, HTTPGEN_* environment variables, or defaults.",
		Example: strings.TrimSpace(`  httpgen generate --input items.http --out ./client --package client
  httpgen generate --input a.http --input b.yaml --import example.com/models --out ./gen
  httpgen --config httpgen.yaml generate --force --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringArray("input", nil, "Path or URL of a provider definition (repeatable)")
	flags.String("out", "", "Output directory for generated files (default \".\")")
	flags.String("package", "", "Package name of the generated files (default \""+goemitter.DefaultPackage+"\")")
	flags.StringArray("import", nil, "Extra import path for types referenced by providers (repeatable)")
	flags.Bool("resolve-imports", false, "Let goimports add imports for unresolved package selectors")
	flags.Int("jobs", 0, fmt.Sprintf("Number of inputs generated concurrently (default %d)", defaultJobs))
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Overwrite files that were not generated by httpgen")

	return cmd
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	log := zerolog.Ctx(ctx)
	if cfg.Verbose {
		l := log.Level(zerolog.DebugLevel)
		log = &l
		ctx = l.WithContext(ctx)
	}

	absOut := cfg.Out
	if ap, err := filepath.Abs(cfg.Out); err == nil {
		absOut = ap
	}

	// 1) Parse every input; each is an independent pipeline.
	providers := make([]*spec.ProviderSpec, len(cfg.Inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, input := range cfg.Inputs {
		g.Go(func() error {
			ps, err := spec.Load(gctx, input)
			if err != nil {
				return err
			}
			log.Debug().Str("input", input).Str("struct", ps.StructName.Name).Int("endpoints", len(ps.Endpoints)).Msg("parsed provider")
			providers[i] = ps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// 2) Two providers must not land in the same file.
	owners := make(map[string]string, len(providers))
	for i, ps := range providers {
		name := goemitter.FileName(ps.StructName.Name)
		if prev, ok := owners[name]; ok {
			return newUsageError(fmt.Sprintf("generate: %s and %s both generate %s", prev, cfg.Inputs[i], name))
		}
		owners[name] = cfg.Inputs[i]
	}

	// 3) Emit.
	results := make([]*goemitter.Result, len(providers))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, ps := range providers {
		g.Go(func() error {
			res, err := goemitter.Emit(gctx, ps, goemitter.Options{
				Package:        cfg.Package,
				Imports:        cfg.Imports,
				ResolveImports: cfg.ResolveImports,
				OutDir:         cfg.Out,
				Force:          cfg.Force,
				DryRun:         cfg.DryRun,
			})
			if err != nil {
				return wrapOutputError(err, absOut)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if cfg.DryRun {
		var paths []string
		for _, res := range results {
			for _, p := range res.Planned {
				paths = append(paths, p.RelPath)
			}
		}
		printPlan(absOut, len(paths), paths)
		return nil
	}
	for i, res := range results {
		log.Info().Str("input", cfg.Inputs[i]).Str("file", filepath.Join(absOut, res.Planned[0].RelPath)).
			Int("methods", len(res.Output.Methods)).Bool("unchanged", res.Planned[0].Unchanged).Msg("generated client")
	}
	return nil
}

func printPlan(outDir string, count int, relPaths []string) {
	fmt.Fprintf(os.Stdout, "Planned writes to %s (%d files):\n", outDir, count)
	for _, p := range relPaths {
		fmt.Fprintf(os.Stdout, "- %s\n", p)
	}
}
