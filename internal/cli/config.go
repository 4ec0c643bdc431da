package cli

import (
	"errors"
	"fmt"
	"go/token"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mark3labs/httpgen/internal/emitter/goemitter"
)

const (
	defaultConfigFile = "httpgen.yaml"
	envPrefix         = "HTTPGEN_"
	defaultJobs       = 4
)

// environ supplies the environment to the config loader; tests replace it.
var environ = os.Environ

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, environment and CLI overrides.
type GenerateConfig struct {
	Inputs         []string `koanf:"inputs" validate:"required,min=1,dive,required"`
	Out            string   `koanf:"out" validate:"required"`
	Package        string   `koanf:"package" validate:"required,goident"`
	Imports        []string `koanf:"imports" validate:"dive,required"`
	ResolveImports bool     `koanf:"resolve_imports"`
	Jobs           int      `koanf:"jobs" validate:"gte=1,lte=64"`
	DryRun         bool     `koanf:"dry_run"`
	Force          bool     `koanf:"force"`
	Verbose        bool     `koanf:"verbose"`
	ConfigPath     string   `koanf:"-"`
}

type valueKind int

const (
	stringValue valueKind = iota
	listValue
	boolValue
	intValue
)

// configKeys maps normalized key spellings (see normalizeKey) to the
// canonical koanf key.
var configKeys = map[string]string{
	"input":          "inputs",
	"inputs":         "inputs",
	"out":            "out",
	"package":        "package",
	"packagename":    "package",
	"import":         "imports",
	"imports":        "imports",
	"resolveimports": "resolve_imports",
	"jobs":           "jobs",
	"dryrun":         "dry_run",
	"force":          "force",
	"verbose":        "verbose",
}

var keyKinds = map[string]valueKind{
	"inputs":          listValue,
	"out":             stringValue,
	"package":         stringValue,
	"imports":         listValue,
	"resolve_imports": boolValue,
	"jobs":            intValue,
	"dry_run":         boolValue,
	"force":           boolValue,
	"verbose":         boolValue,
}

// generateFlags maps generate's flags (including the inherited --verbose)
// to config keys.
var generateFlags = map[string]string{
	"input":           "inputs",
	"out":             "out",
	"package":         "package",
	"import":          "imports",
	"resolve-imports": "resolve_imports",
	"jobs":            "jobs",
	"dry-run":         "dry_run",
	"force":           "force",
	"verbose":         "verbose",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})
	return v
}

func defaultGenerateConfig() map[string]any {
	return map[string]any{
		"out":             ".",
		"package":         goemitter.DefaultPackage,
		"jobs":            defaultJobs,
		"resolve_imports": false,
		"dry_run":         false,
		"force":           false,
		"verbose":         false,
	}
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultGenerateConfig(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	configPath, err := configFilePath(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := loadConfigFile(k, file.Provider(configPath), configPath); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envKey,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), k); err != nil {
		return nil, err
	}

	var cfg GenerateConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, newUsageError(fmt.Sprintf("generate: invalid configuration: %v", err))
	}
	cfg.ConfigPath = configPath

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// configFilePath returns --config, or the default config file when it
// exists in the working directory.
func configFilePath(flags *pflag.FlagSet) (string, error) {
	path, err := flags.GetString("config")
	if err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path != "" {
		return path, nil
	}
	if st, err := os.Stat(defaultConfigFile); err == nil && st.Mode().IsRegular() {
		return defaultConfigFile, nil
	}
	return "", nil
}

// loadConfigFile merges a YAML config into k. Keys are matched loosely
// (dryRun, dry-run and dry_run are the same key); unknown keys are usage
// errors.
func loadConfigFile(k *koanf.Koanf, p koanf.Provider, name string) error {
	fk := koanf.New(".")
	if err := fk.Load(p, yaml.Parser()); err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", name, err))
	}

	raw := fk.Raw()
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		canonical, ok := configKeys[normalizeKey(key)]
		if !ok {
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", name, key))
		}
		value, err := coerceValue(keyKinds[canonical], raw[key])
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
		if err := k.Set(canonical, value); err != nil {
			return err
		}
	}
	return nil
}

func coerceValue(kind valueKind, v any) (any, error) {
	switch kind {
	case listValue:
		return valueAsStringSlice(v)
	case boolValue:
		return valueAsBool(v)
	case intValue:
		switch n := v.(type) {
		case int, int64, float64, uint64:
			return n, nil
		case string:
			return strings.TrimSpace(n), nil
		default:
			return nil, fmt.Errorf("expected number, got %T", v)
		}
	default:
		return valueAsString(v)
	}
}

// envKey turns HTTPGEN_DRY_RUN into dry_run. Variables that do not name a
// config key are ignored.
func envKey(key, value string) (string, any) {
	canonical, ok := configKeys[normalizeKey(strings.TrimPrefix(key, envPrefix))]
	if !ok {
		return "", nil
	}
	if keyKinds[canonical] == listValue {
		return canonical, splitAndTrim(value)
	}
	return canonical, strings.TrimSpace(value)
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, k *koanf.Koanf) error {
	for _, name := range slices.Sorted(maps.Keys(generateFlags)) {
		if !flags.Changed(name) {
			continue
		}
		var (
			value any
			err   error
		)
		switch flags.Lookup(name).Value.Type() {
		case "stringArray":
			value, err = flags.GetStringArray(name)
		case "bool":
			value, err = flags.GetBool(name)
		case "int":
			value, err = flags.GetInt(name)
		default:
			value, err = flags.GetString(name)
		}
		if err != nil {
			return err
		}
		if err := k.Set(generateFlags[name], value); err != nil {
			return err
		}
	}
	return nil
}

func (c *GenerateConfig) normalize() {
	c.Inputs = dedupe(c.Inputs)
	c.Out = strings.TrimSpace(c.Out)
	c.Package = strings.TrimSpace(c.Package)
	c.Imports = dedupe(c.Imports)
}

func (c *GenerateConfig) validate() error {
	if len(c.Inputs) == 0 {
		return newUsageError("generate: --input is required (set via flag, config file or " + envPrefix + "INPUT)")
	}
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return newUsageError("generate: " + strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("%s is required", fe.Field())
	case "goident":
		return fmt.Sprintf("%s %q is not a valid Go identifier", fe.Field(), fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 1 and 64, got %v", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// dedupe trims values and drops blanks and repeats, keeping first-seen order.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
