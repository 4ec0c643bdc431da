package openapi

import "github.com/mark3labs/httpgen/internal/spec"

// Operation is one imported OpenAPI operation reduced to what a provider
// endpoint can express.
type Operation struct {
	Verb        spec.Verb
	Path        string
	OperationID string
	Summary     string
	Tags        []string

	PathParams  []Param
	QueryParams []Param
	HasHeaders  bool

	RequestType  string // empty when the operation has no JSON body
	ResponseType string
}

// Param is a path or query parameter with its Go field type.
type Param struct {
	Name     string
	GoType   string
	Required bool
}

// ParamStruct is a Go struct the scaffold references for path or query
// parameters.
type ParamStruct struct {
	Name   string
	Query  bool
	Fields []Param
}

// Result is an imported provider together with its supporting types.
type Result struct {
	Provider   *spec.ProviderSpec
	Operations []Operation
	Structs    []ParamStruct
	// Schemas lists component schema names referenced by request or
	// response types; they must be declared next to the generated client.
	Schemas []string
	// Skipped lists "METHOD /path" for operations whose verb generated
	// clients do not support.
	Skipped []string
}
