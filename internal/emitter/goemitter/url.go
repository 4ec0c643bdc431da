package goemitter

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/mark3labs/httpgen/internal/spec"
)

var placeholderRE = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// placeholders returns the distinct {token} names in path, in order of
// first occurrence.
func placeholders(path string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range placeholderRE.FindAllStringSubmatch(path, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// writeURLBuilding emits the statements that leave the request URL in u.
// Without a path the base URL is used unchanged. With path parameters every
// {token} is replaced by the textual form of the same-named field. It
// reports whether fmt and strings are needed.
func writeURLBuilding(buf *bytes.Buffer, ep *spec.EndpointSpec) bool {
	if ep.Path == nil {
		buf.WriteString("\tu := c.url\n")
		return false
	}

	var tokens []string
	if ep.PathParams != nil {
		tokens = placeholders(ep.Path.Value)
	}
	if len(tokens) == 0 {
		fmt.Fprintf(buf, "\tu, err := httpprovider.JoinURL(c.url, %q)\n", ep.Path.Value)
		writeErrReturn(buf)
		return false
	}

	fmt.Fprintf(buf, "\tpath := %q\n", ep.Path.Value)
	for _, tok := range tokens {
		fmt.Fprintf(buf, "\tpath = strings.ReplaceAll(path, %q, fmt.Sprint(%s.%s))\n", "{"+tok+"}", pathParamsParam, GoName(tok))
	}
	buf.WriteString("\tu, err := httpprovider.JoinURL(c.url, path)\n")
	writeErrReturn(buf)
	return true
}

func writeErrReturn(buf *bytes.Buffer) {
	buf.WriteString("\tif err != nil {\n")
	buf.WriteString("\t\treturn result, err\n")
	buf.WriteString("\t}\n")
}
