package goemitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/tools/imports"

	"github.com/mark3labs/httpgen/internal/spec"
)

// RuntimeImport is the package generated clients depend on.
const RuntimeImport = "github.com/mark3labs/httpgen/httpprovider"

// GeneratedHeader starts every file written by Emit. Existing files that
// carry it may be overwritten without Force.
const GeneratedHeader = "// Code generated by httpgen. DO NOT EDIT."

// DefaultPackage is used when Options.Package is empty.
const DefaultPackage = "client"

// reservedMembers are the generated struct's fields; a method with one of
// these names would not compile.
var reservedMembers = map[string]bool{"url": true, "client": true, "timeout": true}

// Options controls how a provider is rendered and written.
type Options struct {
	Package        string   // package clause of the generated file; DefaultPackage when empty
	Imports        []string // extra import paths for types referenced by the provider
	ResolveImports bool     // let goimports add imports for unresolved package selectors

	OutDir   string // target directory; required by Emit
	FileName string // defaults to <snake_struct>_gen.go
	Force    bool   // overwrite files not generated by httpgen
	DryRun   bool   // don't write, only plan
}

// Warning is a non-fatal finding about a provider.
type Warning struct {
	Pos     spec.Pos
	Message string
}

func (w Warning) String() string { return w.Pos.String() + ": " + w.Message }

// Output is the result of a successful generation.
type Output struct {
	StructName string
	Source     []byte
	Methods    []*GeneratedMethod
	Warnings   []Warning
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath   string
	Size      int
	Mode      os.FileMode
	Unchanged bool // identical content is already on disk
}

// Result returns the planned files together with the generation output.
type Result struct {
	Output  *Output
	Planned []PlannedFile
}

// Generate renders ps as a single Go source file. All structural checks
// run before anything is rendered; the first failure is returned as a
// *spec.Diagnostic and no source is produced.
func Generate(ps *spec.ProviderSpec, opts Options) (*Output, error) {
	if ps == nil {
		return nil, errors.New("goemitter: nil ProviderSpec")
	}
	pkg := opts.Package
	if pkg == "" {
		pkg = DefaultPackage
	}
	if !token.IsIdentifier(pkg) {
		return nil, spec.Errorf(spec.InvalidOption, spec.Pos{}, "package name %q is not a valid Go identifier", pkg)
	}
	extra, err := cleanImports(opts.Imports)
	if err != nil {
		return nil, err
	}
	name := ps.StructName.Name
	if !token.IsIdentifier(name) {
		return nil, spec.Errorf(spec.SyntaxError, ps.StructName.Pos, "struct name %q is not a valid Go identifier", name)
	}
	if len(ps.Endpoints) == 0 {
		return nil, spec.Errorf(spec.EmptyEndpoints, ps.StructName.Pos, "%s declares no endpoints; at least one is required", name)
	}

	out := &Output{StructName: name}
	seen := map[string]*spec.EndpointSpec{}
	for i := range ps.Endpoints {
		ep := &ps.Endpoints[i]
		if err := checkBinding(ep); err != nil {
			return nil, err
		}
		m := buildMethod(ep)
		if err := checkMethodName(m, seen); err != nil {
			return nil, err
		}
		seen[m.Name] = ep
		out.Methods = append(out.Methods, m)
		out.Warnings = append(out.Warnings, endpointWarnings(ep)...)
	}

	src := assemble(pkg, name, ps.Source, extra, out.Methods)
	formatted, err := imports.Process(FileName(name), src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: !opts.ResolveImports,
	})
	if err != nil {
		return nil, fmt.Errorf("goemitter: format generated source: %w", err)
	}
	out.Source = formatted
	return out, nil
}

func checkMethodName(m *GeneratedMethod, seen map[string]*spec.EndpointSpec) error {
	ep := m.Endpoint
	switch {
	case token.IsKeyword(m.Name):
		return spec.Errorf(spec.SyntaxError, ep.NamePos(), "method name %q is a Go keyword", m.Name)
	case reservedMembers[m.Name]:
		return spec.Errorf(spec.DuplicateName, ep.NamePos(), "method name %q collides with a field of the generated client", m.Name)
	}
	if prev, ok := seen[m.Name]; ok {
		return spec.Errorf(spec.DuplicateName, ep.NamePos(), "method %s is already generated for the endpoint at %s", m.Name, prev.Pos)
	}
	return nil
}

func endpointWarnings(ep *spec.EndpointSpec) []Warning {
	if ep.Path == nil || ep.PathParams != nil {
		return nil
	}
	tokens := placeholders(ep.Path.Value)
	if len(tokens) == 0 {
		return nil
	}
	return []Warning{{
		Pos:     ep.Path.Pos,
		Message: fmt.Sprintf("path %q has placeholders %s but the endpoint declares no path_params; they are sent literally", ep.Path.Value, strings.Join(tokens, ", ")),
	}}
}

func cleanImports(paths []string) ([]string, error) {
	set := map[string]bool{}
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" || strings.ContainsAny(p, "\"` \t\n") {
			return nil, spec.Errorf(spec.InvalidOption, spec.Pos{}, "invalid import path %q", p)
		}
		if p != RuntimeImport {
			set[p] = true
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// assemble writes the unformatted file: header, package clause, imports,
// the struct, its constructor, the inherent methods and then one block per
// interface-bound method.
func assemble(pkg, name, source string, extra []string, methods []*GeneratedMethod) []byte {
	var buf bytes.Buffer
	buf.WriteString(GeneratedHeader + "\n")
	if source != "" {
		fmt.Fprintf(&buf, "// Source: %s\n", filepath.Base(source))
	}
	fmt.Fprintf(&buf, "\npackage %s\n\n", pkg)
	writeImports(&buf, methods, extra)
	writeClientStruct(&buf, name)

	inherent, bound := partition(methods)
	for _, m := range inherent {
		writeMethod(&buf, name, m)
	}
	for _, m := range bound {
		writeBindingBlock(&buf, name, m)
	}
	return buf.Bytes()
}

func writeImports(buf *bytes.Buffer, methods []*GeneratedMethod, extra []string) {
	std := []string{"context", "net/http", "net/url", "time"}
	for _, m := range methods {
		if m.Substitutes {
			std = append(std, "fmt", "strings")
			break
		}
	}
	sort.Strings(std)
	have := map[string]bool{}
	for _, p := range std {
		have[p] = true
	}
	var rest []string
	for _, p := range extra {
		if !have[p] {
			rest = append(rest, p)
		}
	}

	buf.WriteString("import (\n")
	for _, p := range std {
		fmt.Fprintf(buf, "\t%s\n", strconv.Quote(p))
	}
	buf.WriteString("\n")
	fmt.Fprintf(buf, "\t%s\n", strconv.Quote(RuntimeImport))
	if len(rest) > 0 {
		buf.WriteString("\n")
	}
	for _, p := range rest {
		fmt.Fprintf(buf, "\t%s\n", strconv.Quote(p))
	}
	buf.WriteString(")\n\n")
}

func writeClientStruct(buf *bytes.Buffer, name string) {
	fmt.Fprintf(buf, "// %s is a typed HTTP client. It is safe for concurrent use.\n", name)
	fmt.Fprintf(buf, "type %s struct {\n", name)
	buf.WriteString("\turl     *url.URL\n")
	buf.WriteString("\tclient  *http.Client\n")
	buf.WriteString("\ttimeout time.Duration\n")
	buf.WriteString("}\n\n")

	fmt.Fprintf(buf, "// New%s returns a client that resolves endpoint paths against baseURL.\n", name)
	buf.WriteString("// Each call is bounded by timeout; zero or less means no deadline.\n")
	fmt.Fprintf(buf, "func New%s(baseURL *url.URL, timeout time.Duration) *%s {\n", name, name)
	fmt.Fprintf(buf, "\treturn &%s{\n", name)
	buf.WriteString("\t\turl:     baseURL,\n")
	buf.WriteString("\t\tclient:  &http.Client{},\n")
	buf.WriteString("\t\ttimeout: timeout,\n")
	buf.WriteString("\t}\n")
	buf.WriteString("}\n\n")
}

// Emit generates ps and writes the file into opts.OutDir.
func Emit(ctx context.Context, ps *spec.ProviderSpec, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("goemitter: OutDir is required")
	}
	out, err := Generate(ps, opts)
	if err != nil {
		return nil, err
	}
	log := zerolog.Ctx(ctx)
	for _, w := range out.Warnings {
		log.Warn().Str("pos", w.Pos.String()).Msg(w.Message)
	}

	rel := opts.FileName
	if rel == "" {
		rel = FileName(out.StructName)
	}
	abs, err := filepath.Abs(filepath.Join(opts.OutDir, rel))
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}
	pf := PlannedFile{RelPath: filepath.ToSlash(rel), Size: len(out.Source), Mode: 0o644}

	existing, err := os.ReadFile(abs)
	switch {
	case err == nil:
		pf.Unchanged = bytes.Equal(existing, out.Source)
		if !opts.Force && !bytes.HasPrefix(existing, []byte(GeneratedHeader)) {
			return nil, fmt.Errorf("goemitter: %s exists and was not generated by httpgen (use --force to overwrite)", abs)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}

	res := &Result{Output: out, Planned: []PlannedFile{pf}}
	if opts.DryRun || pf.Unchanged {
		log.Debug().Str("file", abs).Bool("dry_run", opts.DryRun).Bool("unchanged", pf.Unchanged).Msg("skip write")
		return res, nil
	}
	if err := writeFile(abs, out.Source, pf.Mode); err != nil {
		return nil, err
	}
	log.Debug().Str("file", abs).Int("bytes", pf.Size).Int("methods", len(out.Methods)).Msg("wrote client")
	return res, nil
}

// writeFile replaces path atomically via a temp file and rename.
func writeFile(path string, content []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := path + ".tmp-" + time.Now().Format("20060102150405.000000000")
	if err := os.WriteFile(tmp, content, mode); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
