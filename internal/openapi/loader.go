package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/httpgen/internal/spec"
)

// Load reads an OpenAPI 3 or Swagger 2 document from a path or http(s)
// URL and returns it as OpenAPI 3. Swagger 2 input is converted with
// openapi2conv. Validation problems that still leave a usable document
// (unresolved refs) are tolerated.
func Load(ctx context.Context, input string, opts ...spec.Option) (*openapi3.T, error) {
	src, err := spec.ReadSource(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return LoadSource(ctx, src, opts...)
}

// LoadSource is Load for content that has already been read. A source with
// neither a local path nor a URL (inline content) may not reference files.
func LoadSource(ctx context.Context, src *spec.Source, opts ...spec.Option) (*openapi3.T, error) {
	settings := spec.DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	allowFile := src.Path != ""

	version, err := detectVersion(src.Data)
	if err != nil {
		return nil, importErr(src.Name, err)
	}

	var doc *openapi3.T
	switch version {
	case 3:
		loader := newLoader(settings.HTTPTimeout, allowFile)
		switch {
		case src.IsURL:
			u, _ := url.Parse(src.Name)
			doc, err = loader.LoadFromDataWithPath(src.Data, u)
		case src.Path != "":
			doc, err = loader.LoadFromFile(src.Path)
		default:
			doc, err = loader.LoadFromData(src.Data)
		}
		if err != nil {
			return nil, importErr(src.Name, err)
		}
	case 2:
		raw := src.Data
		if fixed, changed, _ := preprocessV2(raw); changed {
			raw = fixed
		}
		doc, err = convertV2ToV3(raw)
		if err != nil {
			return nil, importErr(src.Name, fmt.Errorf("convert swagger 2.0 to openapi 3: %w", err))
		}
		if err := newLoader(settings.HTTPTimeout, allowFile).ResolveRefsIn(doc, nil); err != nil {
			return nil, importErr(src.Name, err)
		}
	}

	if err := doc.Validate(ctx); err != nil && !canProceedDespiteValidation(err) {
		return nil, importErr(src.Name, err)
	}
	return doc, nil
}

func importErr(location string, err error) error {
	msg := err.Error()
	if ptr := extractJSONPointer(err); ptr != "" && !strings.Contains(msg, ptr) {
		msg += " (at " + ptr + ")"
	}
	return &spec.Diagnostic{Code: spec.ImportError, Message: msg, Pos: spec.Pos{Filename: location}, Cause: err}
}

func newLoader(timeout time.Duration, allowFile bool) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	client := &http.Client{Timeout: timeout}
	loader.ReadFromURIFunc = func(_ *openapi3.Loader, uri *url.URL) ([]byte, error) {
		switch strings.ToLower(uri.Scheme) {
		case "", "file":
			if !allowFile {
				return nil, fmt.Errorf("blocked file ref: %s", uri.String())
			}
			path := uri.Path
			if path == "" {
				path = uri.Opaque
			}
			return os.ReadFile(path)
		case "http", "https":
			resp, err := client.Get(uri.String())
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				return nil, fmt.Errorf("http %d: %s", resp.StatusCode, uri.String())
			}
			return io.ReadAll(resp.Body)
		default:
			return nil, fmt.Errorf("unsupported ref scheme: %s", uri.Scheme)
		}
	}
	return loader
}

// detectVersion returns 3 for OpenAPI v3 and 2 for Swagger v2.
func detectVersion(data []byte) (int, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return 0, fmt.Errorf("parse document: %w", err)
	}
	if s, _ := root["openapi"].(string); strings.HasPrefix(strings.TrimSpace(s), "3.") {
		return 3, nil
	}
	if s, _ := root["swagger"].(string); strings.HasPrefix(strings.TrimSpace(s), "2.") {
		return 2, nil
	}
	return 0, errors.New("missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}

// convertV2ToV3 accepts YAML or JSON. openapi2.T only carries JSON tags, so
// YAML input is re-encoded as JSON first.
func convertV2ToV3(data []byte) (*openapi3.T, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	asJSON, err := json.Marshal(stringKeys(generic))
	if err != nil {
		return nil, err
	}
	var v2 openapi2.T
	if err := json.Unmarshal(asJSON, &v2); err != nil {
		return nil, err
	}
	return openapi2conv.ToV3(&v2)
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'"]+`)

func extractJSONPointer(err error) string {
	if err == nil {
		return ""
	}
	var me openapi3.MultiError
	if errors.As(err, &me) && len(me) > 0 {
		return extractJSONPointer(me[0])
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if parts := se.JSONPointer(); len(parts) > 0 {
			return "#/" + strings.Join(parts, "/")
		}
	}
	return jsonPtrRe.FindString(err.Error())
}

// canProceedDespiteValidation reports validation failures after which a
// best-effort import can still run.
func canProceedDespiteValidation(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unresolved ref")
}

// stringKeys rewrites map[any]any values decoded by yaml.v3 (for example
// numeric response codes) into map[string]any so they can be JSON encoded.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}
