package goemitter

import (
	"bytes"

	"github.com/mark3labs/httpgen/internal/spec"
)

// Parameter names used by every generated method. They are fixed so the
// fragment writers can refer to them without coordination.
const (
	ctxParam        = "ctx"
	pathParamsParam = "pathParams"
	bodyParam       = "body"
	headersParam    = "headers"
	queryParam      = "query"
)

// Param is one parameter of a generated method.
type Param struct {
	Name string
	Type string
}

// GeneratedMethod is the fully rendered form of one endpoint. Fragments are
// complete statements, tab-indented for a method body.
type GeneratedMethod struct {
	Name     string
	Params   []Param
	Result   string
	Doc      string
	URL      string
	Request  string
	Response string
	Binding  spec.Binding

	// Substitutes reports whether the URL fragment calls fmt and strings.
	Substitutes bool
	Endpoint    *spec.EndpointSpec
}

// buildMethod renders each feature of ep independently. It does not
// validate names or bindings; Generate does that over the whole provider.
func buildMethod(ep *spec.EndpointSpec) *GeneratedMethod {
	m := &GeneratedMethod{
		Name:     methodName(ep),
		Params:   methodParams(ep),
		Result:   ep.Response.Expr,
		Binding:  ep.Binding,
		Endpoint: ep,
	}

	var buf bytes.Buffer
	writeMethodDoc(&buf, m.Name, ep)
	m.Doc = buf.String()

	buf.Reset()
	m.Substitutes = writeURLBuilding(&buf, ep)
	m.URL = buf.String()

	buf.Reset()
	writeRequestBuilding(&buf, ep)
	m.Request = buf.String()

	buf.Reset()
	writeResponseHandling(&buf)
	m.Response = buf.String()
	return m
}

// writeMethod emits the complete method declaration for m on structName.
func writeMethod(buf *bytes.Buffer, structName string, m *GeneratedMethod) {
	buf.WriteString(m.Doc)
	writeMethodSignature(buf, structName, m)
	writeResultDecl(buf, m.Result)
	buf.WriteString(m.URL)
	buf.WriteString(m.Request)
	buf.WriteString(m.Response)
	buf.WriteString("}\n\n")
}
