package goemitter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mark3labs/httpgen/internal/spec"
)

// methodParams lists the parameters of ep's method. Optional features always
// appear in the order path parameters, body, headers, query.
func methodParams(ep *spec.EndpointSpec) []Param {
	params := []Param{{Name: ctxParam, Type: "context.Context"}}
	if ep.PathParams != nil {
		params = append(params, Param{Name: pathParamsParam, Type: "*" + ep.PathParams.Expr})
	}
	if ep.Request != nil {
		params = append(params, Param{Name: bodyParam, Type: "*" + ep.Request.Expr})
	}
	if ep.Headers != nil {
		params = append(params, Param{Name: headersParam, Type: ep.Headers.Expr})
	}
	if ep.Query != nil {
		params = append(params, Param{Name: queryParam, Type: "*" + ep.Query.Expr})
	}
	return params
}

func writeMethodDoc(buf *bytes.Buffer, name string, ep *spec.EndpointSpec) {
	target := "the base URL"
	if ep.Path != nil {
		target = ep.Path.Value
	}
	fmt.Fprintf(buf, "// %s calls %s %s.\n", name, ep.Method, target)
}

func writeMethodSignature(buf *bytes.Buffer, structName string, m *GeneratedMethod) {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Name + " " + p.Type
	}
	fmt.Fprintf(buf, "func (c *%s) %s(%s) (%s, error) {\n", structName, m.Name, strings.Join(params, ", "), m.Result)
}

// writeResultDecl declares the value returned on every path, so error
// returns can use it as the zero value whatever the response type is.
func writeResultDecl(buf *bytes.Buffer, result string) {
	fmt.Fprintf(buf, "\tvar result %s\n", result)
}
