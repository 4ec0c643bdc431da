package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mark3labs/httpgen/internal/emitter/goemitter"
	"github.com/mark3labs/httpgen/internal/spec"
)

const inlineName = "<inline>"

type generateInput struct {
	Spec           string   `json:"spec"                      jsonschema:"Provider definition text"`
	Format         string   `json:"format,omitempty"          jsonschema:"Surface of spec: dsl (default) or yaml"`
	Package        string   `json:"package,omitempty"         jsonschema:"Package clause of the generated file (default: client)"`
	Imports        []string `json:"imports,omitempty"         jsonschema:"Extra import paths for types referenced by the provider"`
	ResolveImports bool     `json:"resolve_imports,omitempty" jsonschema:"Let goimports add imports for unresolved package selectors"`
	OutputDir      string   `json:"output_dir,omitempty"      jsonschema:"Directory to write the generated file to; source is returned inline when omitted"`
	Force          bool     `json:"force,omitempty"           jsonschema:"Overwrite a file that was not generated by httpgen"`
}

type generateOutput struct {
	StructName string   `json:"struct_name"`
	FileName   string   `json:"file_name"`
	Methods    []string `json:"methods"`
	Warnings   []string `json:"warnings,omitempty"`
	Written    bool     `json:"written"`
	Source     string   `json:"source,omitempty"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if strings.TrimSpace(input.Spec) == "" {
		return errResult(errors.New("spec is required")), generateOutput{}, nil
	}
	var ext string
	switch strings.ToLower(strings.TrimSpace(input.Format)) {
	case "", "dsl":
	case "yaml", "yml":
		ext = ".yaml"
	default:
		return errResult(fmt.Errorf("unsupported format %q (allowed: dsl, yaml)", input.Format)), generateOutput{}, nil
	}

	ps, err := spec.ParseSource(inlineName, ext, []byte(input.Spec))
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}
	opts := goemitter.Options{
		Package:        strings.TrimSpace(input.Package),
		Imports:        input.Imports,
		ResolveImports: input.ResolveImports,
		OutDir:         strings.TrimSpace(input.OutputDir),
		Force:          input.Force,
	}

	var out *goemitter.Output
	var written bool
	if opts.OutDir != "" {
		res, err := goemitter.Emit(ctx, ps, opts)
		if err != nil {
			return errResult(err), generateOutput{}, nil
		}
		out = res.Output
		// Emit skips the write when identical content is already on disk.
		written = !res.Planned[0].Unchanged
	} else {
		if out, err = goemitter.Generate(ps, opts); err != nil {
			return errResult(err), generateOutput{}, nil
		}
	}

	output := generateOutput{
		StructName: out.StructName,
		FileName:   goemitter.FileName(out.StructName),
		Methods:    make([]string, 0, len(out.Methods)),
		Written:    written,
	}
	for _, m := range out.Methods {
		output.Methods = append(output.Methods, m.Name)
	}
	for _, w := range out.Warnings {
		output.Warnings = append(output.Warnings, w.String())
	}
	if opts.OutDir == "" {
		output.Source = string(out.Source)
	}
	return nil, output, nil
}
