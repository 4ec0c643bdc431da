package openapi

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/httpgen/internal/emitter/goemitter"
	"github.com/mark3labs/httpgen/internal/spec"
)

// rawJSON is the response type used when an operation documents no JSON
// schema for its success response.
const rawJSON = "json.RawMessage"

// Option configures Build.
type Option func(*config)

type config struct {
	structName  string
	includeTags map[string]bool
	excludeTags map[string]bool
	verbs       map[spec.Verb]bool
	pathRes     []*regexp.Regexp
	err         error
}

// WithStructName sets the provider struct name. It defaults to the
// document title in Go form.
func WithStructName(name string) Option {
	return func(c *config) { c.structName = strings.TrimSpace(name) }
}

// WithIncludeTags keeps only operations that have at least one of tags.
func WithIncludeTags(tags []string) Option {
	return func(c *config) { c.includeTags = addTags(c.includeTags, tags) }
}

// WithExcludeTags drops operations that have any of tags.
func WithExcludeTags(tags []string) Option {
	return func(c *config) { c.excludeTags = addTags(c.excludeTags, tags) }
}

func addTags(set map[string]bool, tags []string) map[string]bool {
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			if set == nil {
				set = map[string]bool{}
			}
			set[t] = true
		}
	}
	return set
}

// WithMethods keeps only operations using one of verbs.
func WithMethods(verbs []spec.Verb) Option {
	return func(c *config) {
		for _, v := range verbs {
			if c.verbs == nil {
				c.verbs = map[spec.Verb]bool{}
			}
			c.verbs[v] = true
		}
	}
}

// WithPathPatterns keeps only operations whose path matches one of the
// regular expressions. An invalid pattern makes Build fail.
func WithPathPatterns(patterns []string) Option {
	return func(c *config) {
		for _, p := range patterns {
			if p = strings.TrimSpace(p); p == "" {
				continue
			}
			re, err := regexp.Compile(p)
			if err != nil {
				c.err = errors.Join(c.err, fmt.Errorf("path pattern %q: %w", p, err))
				continue
			}
			c.pathRes = append(c.pathRes, re)
		}
	}
}

// Build maps the operations of doc onto a provider. Paths are visited in
// sorted order and verbs in GET, POST, PUT, DELETE order, so the result is
// deterministic. Operations with other verbs are listed in Skipped.
func Build(doc *openapi3.T, opts ...Option) (*Result, error) {
	if doc == nil {
		return nil, errors.New("openapi: nil document")
	}
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, &spec.Diagnostic{Code: spec.InvalidOption, Message: cfg.err.Error(), Cause: cfg.err}
	}

	name := cfg.structName
	if name == "" {
		title := ""
		if doc.Info != nil {
			title = doc.Info.Title
		}
		name = goemitter.GoName(title)
		if title == "" {
			name = "APIClient"
		}
	}

	res := &Result{Provider: &spec.ProviderSpec{StructName: spec.Ident{Name: name}}}
	schemas := map[string]bool{}
	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		for _, other := range []struct {
			name string
			op   *openapi3.Operation
		}{{"PATCH", item.Patch}, {"HEAD", item.Head}, {"OPTIONS", item.Options}, {"TRACE", item.Trace}} {
			if other.op != nil && cfg.allowPath(p) && cfg.allowTags(other.op.Tags) {
				res.Skipped = append(res.Skipped, other.name+" "+p)
			}
		}
		for _, pair := range []struct {
			verb spec.Verb
			op   *openapi3.Operation
		}{{spec.GET, item.Get}, {spec.POST, item.Post}, {spec.PUT, item.Put}, {spec.DELETE, item.Delete}} {
			if pair.op == nil || !cfg.allowVerb(pair.verb) || !cfg.allowPath(p) || !cfg.allowTags(pair.op.Tags) {
				continue
			}
			op := buildOperation(pair.verb, p, item.Parameters, pair.op, schemas)
			res.Operations = append(res.Operations, op)
			ep, structs := toEndpoint(&op)
			res.Provider.Endpoints = append(res.Provider.Endpoints, ep)
			res.Structs = append(res.Structs, structs...)
		}
	}

	for s := range schemas {
		res.Schemas = append(res.Schemas, s)
	}
	sort.Strings(res.Schemas)
	return res, nil
}

func (c *config) allowVerb(v spec.Verb) bool {
	return len(c.verbs) == 0 || c.verbs[v]
}

func (c *config) allowPath(p string) bool {
	if len(c.pathRes) == 0 {
		return true
	}
	for _, re := range c.pathRes {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

func (c *config) allowTags(tags []string) bool {
	if len(c.includeTags) > 0 {
		ok := false
		for _, t := range tags {
			if c.includeTags[strings.TrimSpace(t)] {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, t := range tags {
		if c.excludeTags[strings.TrimSpace(t)] {
			return false
		}
	}
	return true
}

func buildOperation(verb spec.Verb, path string, shared openapi3.Parameters, o *openapi3.Operation, schemas map[string]bool) Operation {
	op := Operation{
		Verb:        verb,
		Path:        path,
		OperationID: strings.TrimSpace(o.OperationID),
		Summary:     strings.TrimSpace(o.Summary),
		Tags:        o.Tags,
	}

	// Operation-level parameters override path-level ones with the same
	// location and name.
	merged := map[string]*openapi3.Parameter{}
	for _, list := range []openapi3.Parameters{shared, o.Parameters} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			merged[ref.Value.In+":"+ref.Value.Name] = ref.Value
		}
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p := merged[k]
		param := Param{Name: p.Name, GoType: goType(p.Schema, nil), Required: p.Required}
		switch p.In {
		case openapi3.ParameterInPath:
			op.PathParams = append(op.PathParams, param)
		case openapi3.ParameterInQuery:
			op.QueryParams = append(op.QueryParams, param)
		case openapi3.ParameterInHeader:
			op.HasHeaders = true
		}
	}

	if o.RequestBody != nil && o.RequestBody.Value != nil {
		if s := jsonSchema(o.RequestBody.Value.Content); s != nil {
			op.RequestType = goType(s, schemas)
		}
	}
	op.ResponseType = responseType(o.Responses, schemas)
	return op
}

// responseType picks the lowest 2xx response with a JSON schema.
func responseType(responses openapi3.Responses, schemas map[string]bool) string {
	codes := make([]string, 0, len(responses))
	for code := range responses {
		if strings.HasPrefix(code, "2") {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	for _, code := range codes {
		ref := responses[code]
		if ref == nil || ref.Value == nil {
			continue
		}
		if s := jsonSchema(ref.Value.Content); s != nil {
			return goType(s, schemas)
		}
	}
	return rawJSON
}

func jsonSchema(content openapi3.Content) *openapi3.SchemaRef {
	if mt := content.Get("application/json"); mt != nil && mt.Schema != nil {
		return mt.Schema
	}
	mimes := make([]string, 0, len(content))
	for m := range content {
		mimes = append(mimes, m)
	}
	sort.Strings(mimes)
	for _, m := range mimes {
		if strings.Contains(m, "json") && content[m].Schema != nil {
			return content[m].Schema
		}
	}
	return nil
}

// goType maps a schema onto a Go type expression. Component references
// become their Go type name and are recorded in schemas when it is non-nil.
func goType(ref *openapi3.SchemaRef, schemas map[string]bool) string {
	if ref == nil {
		return "string"
	}
	if ref.Ref != "" {
		name := goemitter.GoName(ref.Ref[strings.LastIndex(ref.Ref, "/")+1:])
		if schemas != nil {
			schemas[name] = true
		}
		return name
	}
	s := ref.Value
	if s == nil {
		return "any"
	}
	switch s.Type {
	case openapi3.TypeString:
		return "string"
	case openapi3.TypeBoolean:
		return "bool"
	case openapi3.TypeInteger:
		if s.Format == "int32" {
			return "int32"
		}
		return "int64"
	case openapi3.TypeNumber:
		if s.Format == "float" {
			return "float32"
		}
		return "float64"
	case openapi3.TypeArray:
		return "[]" + goType(s.Items, schemas)
	case openapi3.TypeObject:
		if s.AdditionalProperties.Schema != nil {
			return "map[string]" + goType(s.AdditionalProperties.Schema, schemas)
		}
		return "map[string]any"
	default:
		return "any"
	}
}

// toEndpoint turns op into a provider endpoint plus the parameter structs
// it references.
func toEndpoint(op *Operation) (spec.EndpointSpec, []ParamStruct) {
	ep := spec.EndpointSpec{
		Path:     &spec.StringLit{Value: op.Path},
		Method:   op.Verb,
		Response: spec.TypeRef{Expr: op.ResponseType},
	}
	base := goemitter.GoName(spec.ResolveName(op.Verb, &op.Path))
	if op.OperationID != "" {
		base = goemitter.GoName(op.OperationID)
		ep.FnName = &spec.Ident{Name: base}
	}
	if op.RequestType != "" {
		ep.Request = &spec.TypeRef{Expr: op.RequestType}
	}
	if op.HasHeaders {
		ep.Headers = &spec.TypeRef{Expr: "http.Header"}
	}

	var structs []ParamStruct
	if len(op.PathParams) > 0 {
		ps := ParamStruct{Name: base + "PathParams", Fields: op.PathParams}
		ep.PathParams = &spec.TypeRef{Expr: ps.Name}
		structs = append(structs, ps)
	}
	if len(op.QueryParams) > 0 {
		ps := ParamStruct{Name: base + "Query", Query: true, Fields: op.QueryParams}
		ep.Query = &spec.TypeRef{Expr: ps.Name}
		structs = append(structs, ps)
	}
	return ep, structs
}
