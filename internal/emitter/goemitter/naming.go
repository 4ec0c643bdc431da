package goemitter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mark3labs/httpgen/internal/spec"
)

var (
	title = cases.Title(language.Und)
	lower = cases.Lower(language.Und)
)

// commonInitialisms are rendered fully upper-case inside Go names.
var commonInitialisms = map[string]bool{
	"ACL": true, "API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true,
	"EOF": true, "GUID": true, "HTML": true, "HTTP": true, "HTTPS": true, "ID": true,
	"IP": true, "JSON": true, "LHS": true, "QPS": true, "RAM": true, "RHS": true,
	"RPC": true, "SLA": true, "SMTP": true, "SQL": true, "SSH": true, "TCP": true,
	"TLS": true, "TTL": true, "UDP": true, "UI": true, "UID": true, "UUID": true,
	"URI": true, "URL": true, "UTF8": true, "VM": true, "XML": true, "XMPP": true,
	"XSRF": true, "XSS": true,
}

// GoName converts a snake_case, kebab-case or camelCase name into an
// exported Go identifier: "get_users_id" -> "GetUsersID".
func GoName(s string) string {
	words := spec.SplitWords(s)
	if len(words) == 0 {
		return "X"
	}
	var b strings.Builder
	for _, w := range words {
		if up := strings.ToUpper(w); commonInitialisms[up] {
			b.WriteString(up)
			continue
		}
		b.WriteString(title.String(lower.String(w)))
	}
	name := b.String()
	if r := []rune(name)[0]; unicode.IsDigit(r) {
		name = "X" + name
	}
	return name
}

// methodName is the Go identifier emitted for ep: an explicit fn_name
// verbatim, otherwise the exported form of the derived name.
func methodName(ep *spec.EndpointSpec) string {
	if ep.FnName != nil {
		return ep.FnName.Name
	}
	return GoName(ep.ResolvedName())
}

// FileName derives the default output file name for a provider.
func FileName(structName string) string {
	return spec.SnakeCase(structName) + "_gen.go"
}
