package spec

import (
	gotoken "go/token"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a provider written as YAML:
//
//	name: ItemsAPI
//	endpoints:
//	  - path: /items/{id}
//	    method: get
//	    path_params: ItemPath
//	    res: Item
//
// Endpoint keys and their rules are the same as in the DSL.
func ParseYAML(filename string, src []byte) (*ProviderSpec, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, &Diagnostic{Code: SyntaxError, Message: err.Error(), Pos: Pos{Filename: filename}, Cause: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, Errorf(SyntaxError, Pos{Filename: filename}, "empty provider document")
	}
	doc := root.Content[0]
	at := func(n *yaml.Node) Pos { return Pos{Filename: filename, Line: n.Line, Column: n.Column} }
	if doc.Kind != yaml.MappingNode {
		return nil, Errorf(SyntaxError, at(doc), "provider document must be a mapping")
	}

	ps := &ProviderSpec{Source: filename}
	var hasName bool
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		switch key.Value {
		case "name":
			if val.Kind != yaml.ScalarNode || !gotoken.IsIdentifier(val.Value) {
				return nil, Errorf(SyntaxError, at(val), "provider name must be an identifier, found %q", val.Value)
			}
			ps.StructName = Ident{Name: val.Value, Pos: at(val)}
			hasName = true
		case "endpoints":
			if val.Kind != yaml.SequenceNode {
				return nil, Errorf(SyntaxError, at(val), "endpoints must be a list")
			}
			ps.Endpoints = ps.Endpoints[:0]
			for _, item := range val.Content {
				ep, err := parseYAMLEndpoint(item, at)
				if err != nil {
					return nil, err
				}
				ps.Endpoints = append(ps.Endpoints, *ep)
			}
		default:
			return nil, Errorf(UnknownField, at(key), "unknown field %q (allowed: name, endpoints)", key.Value)
		}
	}
	if !hasName {
		return nil, Errorf(MissingField, at(doc), "provider is missing required field \"name\"")
	}
	return ps, nil
}

func parseYAMLEndpoint(n *yaml.Node, at func(*yaml.Node) Pos) (*EndpointSpec, error) {
	if n.Kind != yaml.MappingNode {
		return nil, Errorf(SyntaxError, at(n), "endpoint must be a mapping")
	}
	b := newEndpointBuilder(at(n))
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		kind, ok := fieldKinds[key.Value]
		if !ok {
			return nil, unknownField(key.Value, at(key))
		}
		if val.Kind != yaml.ScalarNode {
			return nil, Errorf(SyntaxError, at(val), "field %q must be a scalar", key.Value)
		}
		pos := at(val)
		var v fieldValue
		switch kind {
		case stringField:
			v = fieldValue{text: val.Value, pos: pos}
		case verbField:
			verb, ok := ParseVerb(val.Value)
			if !ok {
				return nil, invalidMethod(val.Value, pos)
			}
			v = fieldValue{verb: verb, pos: pos}
		case identField:
			if !gotoken.IsIdentifier(val.Value) {
				return nil, Errorf(SyntaxError, pos, "field %q must be an identifier, found %q", key.Value, val.Value)
			}
			v = fieldValue{text: val.Value, pos: pos}
		default:
			if key.Value == "trait_impl" && val.Value == "" {
				// Declared as bound without naming the interface; the
				// generator reports it.
				v = fieldValue{typ: &TypeRef{Pos: pos}, pos: pos}
				break
			}
			ref, err := parseTypeExpr(key.Value, val.Value, pos)
			if err != nil {
				return nil, err
			}
			v = fieldValue{typ: ref, pos: pos}
		}
		b.set(key.Value, v)
	}
	return b.finish()
}
