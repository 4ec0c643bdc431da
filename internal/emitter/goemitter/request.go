package goemitter

import (
	"bytes"
	"fmt"

	"github.com/mark3labs/httpgen/internal/spec"
)

var verbConstructors = map[spec.Verb]string{
	spec.GET:    "Get",
	spec.POST:   "Post",
	spec.PUT:    "Put",
	spec.DELETE: "Delete",
}

// writeRequestBuilding emits the request for ep's verb and attaches each
// optional part that ep declares. Parts are independent of each other.
func writeRequestBuilding(buf *bytes.Buffer, ep *spec.EndpointSpec) {
	fmt.Fprintf(buf, "\treq := httpprovider.%s(u)\n", verbConstructors[ep.Method])
	if ep.Request != nil {
		fmt.Fprintf(buf, "\treq = req.JSON(%s)\n", bodyParam)
	}
	if ep.Headers != nil {
		fmt.Fprintf(buf, "\treq = req.Headers(%s)\n", headersParam)
	}
	if ep.Query != nil {
		fmt.Fprintf(buf, "\treq = req.Query(%s)\n", queryParam)
	}
}
