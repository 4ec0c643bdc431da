package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mark3labs/httpgen/internal/openapi"
	"github.com/mark3labs/httpgen/internal/spec"
)

type importInput struct {
	Content     string   `json:"content,omitempty"      jsonschema:"Inline OpenAPI/Swagger document (YAML or JSON)"`
	Input       string   `json:"input,omitempty"        jsonschema:"Path or http/https URL of the document"`
	StructName  string   `json:"struct_name,omitempty"  jsonschema:"Provider struct name (default: derived from the document title)"`
	IncludeTags []string `json:"include_tags,omitempty" jsonschema:"Only include operations with these tags"`
	ExcludeTags []string `json:"exclude_tags,omitempty" jsonschema:"Exclude operations with these tags"`
	Methods     []string `json:"methods,omitempty"      jsonschema:"Only include these HTTP methods (get, post, put, delete)"`
}

type importOutput struct {
	StructName string   `json:"struct_name"`
	Endpoints  int      `json:"endpoints"`
	DSL        string   `json:"dsl"`
	Schemas    []string `json:"schemas,omitempty"`
	Skipped    []string `json:"skipped,omitempty"`
}

func handleImport(ctx context.Context, _ *mcp.CallToolRequest, input importInput) (*mcp.CallToolResult, importOutput, error) {
	hasContent := strings.TrimSpace(input.Content) != ""
	hasInput := strings.TrimSpace(input.Input) != ""
	if hasContent == hasInput {
		return errResult(errors.New("exactly one of content or input is required")), importOutput{}, nil
	}

	verbs := make([]spec.Verb, 0, len(input.Methods))
	for _, m := range input.Methods {
		v, ok := spec.ParseVerb(m)
		if !ok {
			return errResult(fmt.Errorf("unsupported method %q (allowed: get, post, put, delete)", m)), importOutput{}, nil
		}
		verbs = append(verbs, v)
	}

	var (
		doc *openapi3.T
		err error
	)
	if hasContent {
		doc, err = openapi.LoadSource(ctx, &spec.Source{Name: inlineName, Data: []byte(input.Content)})
	} else {
		doc, err = openapi.Load(ctx, input.Input)
	}
	if err != nil {
		return errResult(err), importOutput{}, nil
	}

	res, err := openapi.Build(doc,
		openapi.WithStructName(input.StructName),
		openapi.WithIncludeTags(input.IncludeTags),
		openapi.WithExcludeTags(input.ExcludeTags),
		openapi.WithMethods(verbs),
	)
	if err != nil {
		return errResult(err), importOutput{}, nil
	}
	return nil, importOutput{
		StructName: res.Provider.StructName.Name,
		Endpoints:  len(res.Provider.Endpoints),
		DSL:        string(res.DSL()),
		Schemas:    res.Schemas,
		Skipped:    res.Skipped,
	}, nil
}
