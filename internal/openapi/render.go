package openapi

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/mark3labs/httpgen/internal/emitter/goemitter"
	"github.com/mark3labs/httpgen/internal/spec"
)

// DSL renders the provider in canonical DSL form, preceded by comments
// naming the types the provider expects and the operations left out.
func (r *Result) DSL() []byte {
	var buf bytes.Buffer
	buf.WriteString("// Imported by httpgen. Edit freely.\n")
	if len(r.Schemas) > 0 {
		fmt.Fprintf(&buf, "// Declare next to the generated client: %s.\n", strings.Join(r.Schemas, ", "))
	}
	for _, s := range r.Skipped {
		fmt.Fprintf(&buf, "// Skipped (unsupported method): %s\n", s)
	}
	buf.Write(spec.Format(r.Provider))
	return buf.Bytes()
}

// TypesSource renders the path and query parameter structs as a Go file in
// package pkg. It returns nil when no operation needs one.
func (r *Result) TypesSource(pkg string) ([]byte, error) {
	if len(r.Structs) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by httpgen import. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	for _, s := range r.Structs {
		writeParamStruct(&buf, s)
	}
	return imports.Process("params_gen.go", buf.Bytes(), nil)
}

func writeParamStruct(buf *bytes.Buffer, s ParamStruct) {
	kind := "path"
	if s.Query {
		kind = "query"
	}
	fmt.Fprintf(buf, "// %s holds the %s parameters of one endpoint.\n", s.Name, kind)
	fmt.Fprintf(buf, "type %s struct {\n", s.Name)
	for _, f := range s.Fields {
		field := goemitter.GoName(f.Name)
		if !s.Query {
			fmt.Fprintf(buf, "\t%s %s\n", field, f.GoType)
			continue
		}
		tag := f.Name
		if !f.Required {
			tag += ",omitempty"
		}
		fmt.Fprintf(buf, "\t%s %s `schema:%q`\n", field, f.GoType, tag)
	}
	buf.WriteString("}\n\n")
}
