package openapi

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// preprocessV2 rewrites Swagger 2.0 operations that openapi2conv rejects:
// several "in: body" parameters are merged into one object body, and body
// parameters mixed with formData become formData themselves. It reports
// whether anything changed; on error the input is returned unchanged.
func preprocessV2(data []byte) ([]byte, bool, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return data, false, err
	}
	paths, _ := doc["paths"].(map[string]any)
	modified := false
	for _, item := range paths {
		ops, _ := item.(map[string]any)
		for method, raw := range ops {
			if !isV2Operation(method) {
				continue
			}
			op, _ := raw.(map[string]any)
			if op == nil {
				continue
			}
			if fixV2Operation(op) {
				modified = true
			}
		}
	}
	if !modified {
		return data, false, nil
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return data, false, err
	}
	return out, true, nil
}

func isV2Operation(method string) bool {
	switch strings.ToLower(method) {
	case "get", "post", "put", "delete", "patch", "options", "head":
		return true
	}
	return false
}

func fixV2Operation(op map[string]any) bool {
	params, _ := op["parameters"].([]any)
	var body, form, rest []map[string]any
	for _, p := range params {
		pm, _ := p.(map[string]any)
		if pm == nil {
			continue
		}
		switch in := str(pm["in"]); {
		case strings.EqualFold(in, "body"):
			body = append(body, pm)
		case strings.EqualFold(in, "formData"):
			form = append(form, pm)
		default:
			rest = append(rest, pm)
		}
	}

	switch {
	case len(body) > 0 && len(form) > 0:
		converted := make([]any, 0, len(params))
		for _, pm := range rest {
			converted = append(converted, pm)
		}
		for _, pm := range form {
			converted = append(converted, pm)
		}
		for _, pm := range body {
			converted = append(converted, bodyToFormData(pm))
		}
		op["parameters"] = converted
		consumes, _ := op["consumes"].([]any)
		if !containsString(consumes, "multipart/form-data") {
			op["consumes"] = append(consumes, "multipart/form-data")
		}
		return true
	case len(body) > 1:
		props := map[string]any{}
		var required []any
		for _, pm := range body {
			name := str(pm["name"])
			if name == "" {
				name = "field"
			}
			schema, _ := pm["schema"].(map[string]any)
			if schema == nil {
				schema = map[string]any{"type": "string"}
			}
			props[name] = schema
			if req, _ := pm["required"].(bool); req {
				required = append(required, name)
			}
		}
		merged := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			merged["required"] = required
		}
		out := []any{map[string]any{"in": "body", "name": "body", "schema": merged}}
		for _, pm := range rest {
			out = append(out, pm)
		}
		op["parameters"] = out
		return true
	}
	return false
}

// bodyToFormData keeps the name, description and required flag of a body
// parameter and maps its schema type onto a formData type.
func bodyToFormData(pm map[string]any) map[string]any {
	out := map[string]any{"in": "formData", "name": str(pm["name"])}
	if d := str(pm["description"]); d != "" {
		out["description"] = d
	}
	if req, ok := pm["required"].(bool); ok {
		out["required"] = req
	}
	typ := "string"
	if schema, _ := pm["schema"].(map[string]any); schema != nil {
		switch t := str(schema["type"]); t {
		case "integer", "number", "boolean", "file":
			typ = t
		}
	}
	out["type"] = typ
	return out
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func containsString(list []any, want string) bool {
	for _, v := range list {
		if str(v) == want {
			return true
		}
	}
	return false
}
