// Package spec holds the provider model consumed by the emitters, together
// with the DSL and YAML parsers that build it.
package spec

import "strings"

// Verb is an HTTP method supported by generated clients.
type Verb string

const (
	GET    Verb = "GET"
	POST   Verb = "POST"
	PUT    Verb = "PUT"
	DELETE Verb = "DELETE"
)

// Verbs lists the supported verbs in their canonical order.
var Verbs = []Verb{GET, POST, PUT, DELETE}

// ParseVerb matches s case-insensitively against the supported verbs.
func ParseVerb(s string) (Verb, bool) {
	upper := Verb(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range Verbs {
		if v == upper {
			return v, true
		}
	}
	return "", false
}

func verbList() string {
	names := make([]string, len(Verbs))
	for i, v := range Verbs {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

type Ident struct {
	Name string
	Pos  Pos
}

type StringLit struct {
	Value string
	Pos   Pos
}

// TypeRef is a Go type expression in canonical form, e.g. "[]*models.Item".
type TypeRef struct {
	Expr string
	Pos  Pos
}

func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	return t.Expr
}

type BindingKind int

const (
	// Inherent methods belong to the client's own method set.
	Inherent BindingKind = iota
	// External methods are emitted as part of an interface implementation.
	External
)

// Binding decides how an endpoint's method is attached to the client.
type Binding struct {
	Kind     BindingKind
	Contract TypeRef
}

func (b Binding) IsExternal() bool { return b.Kind == External }

// ProviderSpec is the validated model of one client and its endpoints.
type ProviderSpec struct {
	StructName Ident
	Endpoints  []EndpointSpec
	// Source names the file or URL the definition was read from.
	Source string
}

// EndpointSpec is the validated model of a single HTTP operation.
type EndpointSpec struct {
	Path       *StringLit
	Method     Verb
	MethodPos  Pos
	FnName     *Ident
	Request    *TypeRef
	Response   TypeRef
	Headers    *TypeRef
	Query      *TypeRef
	PathParams *TypeRef
	Binding    Binding
	// Pos is the opening brace of the endpoint block.
	Pos Pos
}

// ResolvedName returns the explicit fn_name when present, otherwise the
// name derived from the verb and path.
func (e *EndpointSpec) ResolvedName() string {
	if e.FnName != nil {
		return e.FnName.Name
	}
	var path *string
	if e.Path != nil {
		path = &e.Path.Value
	}
	return ResolveName(e.Method, path)
}

// NamePos is the best position to report problems with the method name.
func (e *EndpointSpec) NamePos() Pos {
	if e.FnName != nil {
		return e.FnName.Pos
	}
	return e.Pos
}
