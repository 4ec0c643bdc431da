package spec

import (
	"bytes"
	"fmt"
	"strconv"
)

// Format renders ps in canonical DSL form: one field per line, fields in
// canonical order, trailing commas everywhere.
func Format(ps *ProviderSpec) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s, {\n", ps.StructName.Name)
	for i := range ps.Endpoints {
		writeEndpoint(&buf, &ps.Endpoints[i])
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

func writeEndpoint(buf *bytes.Buffer, ep *EndpointSpec) {
	field := func(name, value string) {
		fmt.Fprintf(buf, "\t\t%s: %s,\n", name, value)
	}
	optType := func(name string, t *TypeRef) {
		if t != nil {
			field(name, t.Expr)
		}
	}

	buf.WriteString("\t{\n")
	if ep.Path != nil {
		field("path", strconv.Quote(ep.Path.Value))
	}
	field("method", string(ep.Method))
	if ep.FnName != nil {
		field("fn_name", ep.FnName.Name)
	}
	optType("req", ep.Request)
	field("res", ep.Response.Expr)
	optType("headers", ep.Headers)
	optType("query_params", ep.Query)
	optType("path_params", ep.PathParams)
	if ep.Binding.IsExternal() && ep.Binding.Contract.Expr != "" {
		field("trait_impl", ep.Binding.Contract.Expr)
	}
	buf.WriteString("\t},\n")
}
