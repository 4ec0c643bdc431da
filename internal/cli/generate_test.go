package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureGenerate(t *testing.T) **GenerateConfig {
	t.Helper()
	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })
	return &captured
}

func withEnviron(t *testing.T, vars ...string) {
	t.Helper()
	environ = func() []string { return vars }
	t.Cleanup(func() { environ = os.Environ })
}

func execute(args ...string) error {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func TestGenerateConfigFromFlags(t *testing.T) {
	captured := captureGenerate(t)
	withEnviron(t)

	err := execute(
		"--verbose",
		"generate",
		"--input", "a.http",
		"--input", "b.yaml",
		"--out", "./build",
		"--package", "api",
		"--import", "example.com/models",
		"--resolve-imports",
		"--jobs", "2",
		"--dry-run",
		"--force",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	cfg := *captured
	if cfg == nil {
		t.Fatalf("expected config to be captured")
	}
	if want := []string{"a.http", "b.yaml"}; !equalStringSlices(cfg.Inputs, want) {
		t.Errorf("inputs mismatch: got %v", cfg.Inputs)
	}
	if cfg.Out != "./build" {
		t.Errorf("out mismatch: got %q", cfg.Out)
	}
	if cfg.Package != "api" {
		t.Errorf("package mismatch: got %q", cfg.Package)
	}
	if want := []string{"example.com/models"}; !equalStringSlices(cfg.Imports, want) {
		t.Errorf("imports mismatch: got %v", cfg.Imports)
	}
	if !cfg.ResolveImports {
		t.Errorf("expected resolve-imports true")
	}
	if cfg.Jobs != 2 {
		t.Errorf("jobs mismatch: got %d", cfg.Jobs)
	}
	if !cfg.DryRun {
		t.Errorf("expected dry-run true")
	}
	if !cfg.Force {
		t.Errorf("expected force true")
	}
	if !cfg.Verbose {
		t.Errorf("expected verbose true")
	}
}

func TestGenerateConfigDefaults(t *testing.T) {
	captured := captureGenerate(t)
	withEnviron(t)

	if err := execute("generate", "--input", "a.http", "--input", " a.http "); err != nil {
		t.Fatalf("execute: %v", err)
	}
	cfg := *captured
	if want := []string{"a.http"}; !equalStringSlices(cfg.Inputs, want) {
		t.Errorf("inputs: want %v got %v", want, cfg.Inputs)
	}
	if cfg.Out != "." || cfg.Package != "client" || cfg.Jobs != defaultJobs {
		t.Errorf("unexpected defaults: out=%q package=%q jobs=%d", cfg.Out, cfg.Package, cfg.Jobs)
	}
	if cfg.DryRun || cfg.Force || cfg.Verbose || cfg.ResolveImports {
		t.Errorf("expected boolean defaults to be false: %+v", cfg)
	}
}

func TestGenerateConfigPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := strings.TrimSpace(`inputs:
  - config-spec.http
out: from-config
package: cfgpkg
imports: example.com/a, example.com/b
jobs: 2
dryRun: true
force: false
verbose: true
`) + "\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	captured := captureGenerate(t)
	withEnviron(t, "HTTPGEN_OUT=from-env", "HTTPGEN_JOBS=3", "HTTPGEN_UNRELATED=x", "PATH=/bin")

	err := execute(
		"--config", configPath,
		"generate",
		"--input", "flag-spec.http",
		"--dry-run=false",
		"--force",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	cfg := *captured
	if want := []string{"flag-spec.http"}; !equalStringSlices(cfg.Inputs, want) {
		t.Errorf("inputs: want %v got %v", want, cfg.Inputs)
	}
	if cfg.Out != "from-env" {
		t.Errorf("out: want from-env got %q", cfg.Out)
	}
	if cfg.Package != "cfgpkg" {
		t.Errorf("package: want cfgpkg got %q", cfg.Package)
	}
	if want := []string{"example.com/a", "example.com/b"}; !equalStringSlices(cfg.Imports, want) {
		t.Errorf("imports: want %v got %v", want, cfg.Imports)
	}
	if cfg.Jobs != 3 {
		t.Errorf("jobs: want 3 got %d", cfg.Jobs)
	}
	if cfg.DryRun {
		t.Errorf("expected dry-run false after flag override")
	}
	if !cfg.Force {
		t.Errorf("expected force true after flag override")
	}
	if !cfg.Verbose {
		t.Errorf("expected verbose true from config file")
	}
	if cfg.ConfigPath != configPath {
		t.Errorf("config path mismatch: got %q", cfg.ConfigPath)
	}
}

func TestGenerateConfigEnvironmentLists(t *testing.T) {
	captured := captureGenerate(t)
	withEnviron(t, "HTTPGEN_INPUT=a.http, b.http", "HTTPGEN_DRY_RUN=true")

	if err := execute("generate"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	cfg := *captured
	if want := []string{"a.http", "b.http"}; !equalStringSlices(cfg.Inputs, want) {
		t.Errorf("inputs: want %v got %v", want, cfg.Inputs)
	}
	if !cfg.DryRun {
		t.Errorf("expected dry-run true from environment")
	}
}

func TestGenerateConfigUnknownKey(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(configPath, []byte("unknown: value\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	captureGenerate(t)
	withEnviron(t)

	err := execute("--config", configPath, "generate", "--input", "spec.http")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestGenerateConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input", []string{"generate"}, "--input is required"},
		{"package not an identifier", []string{"generate", "--input", "a.http", "--package", "my-client"}, `package "my-client" is not a valid Go identifier`},
		{"jobs out of range", []string{"generate", "--input", "a.http", "--jobs", "0"}, "jobs must be between 1 and 64"},
		{"log format", []string{"--log-format", "xml", "generate", "--input", "a.http"}, "unsupported --log-format"},
		{"missing config file", []string{"--config", "does-not-exist.yaml", "generate", "--input", "a.http"}, "read config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureGenerate(t)
			withEnviron(t)

			err := execute(tt.args...)
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("expected usage error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
