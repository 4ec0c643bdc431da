package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/httpgen/internal/emitter/goemitter"
	"github.com/mark3labs/httpgen/internal/spec"
)

const petstore = `openapi: 3.0.0
info:
  title: Pet Store
  version: "1.0.0"
paths:
  /pets:
    parameters:
      - in: query
        name: limit
        required: false
        schema:
          type: integer
    get:
      tags: [read, animal]
      parameters:
        - in: query
          name: limit
          required: true
          schema:
            type: integer
        - in: header
          name: X-Trace
          schema:
            type: string
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
    post:
      tags: [write, animal]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        "201":
          description: created
  /pets/{petId}:
    parameters:
      - in: path
        name: petId
        required: true
        schema:
          type: integer
    get:
      operationId: getPet
      tags: [read]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
    patch:
      tags: [write]
      responses:
        "204":
          description: updated
  /admin:
    get:
      tags: [admin]
      responses:
        "200": { description: ok }
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
`

func loadDoc(t *testing.T, src string) *openapi3.T {
	t.Helper()
	doc, err := openapi3.NewLoader().LoadFromData([]byte(src))
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	return doc
}

func TestBuild_Petstore(t *testing.T) {
	t.Parallel()
	res, err := Build(loadDoc(t, petstore))
	require.NoError(t, err)

	ps := res.Provider
	assert.Equal(t, "PetStore", ps.StructName.Name)
	var got []string
	for _, ep := range ps.Endpoints {
		got = append(got, string(ep.Method)+" "+ep.Path.Value)
	}
	assert.Equal(t, []string{"GET /admin", "GET /pets", "POST /pets", "GET /pets/{petId}"}, got)
	assert.Equal(t, []string{"PATCH /pets/{petId}"}, res.Skipped)
	assert.Equal(t, []string{"Pet"}, res.Schemas)

	admin := ps.Endpoints[0]
	assert.Equal(t, rawJSON, admin.Response.Expr)
	assert.Nil(t, admin.FnName)

	list := ps.Endpoints[1]
	assert.Equal(t, "[]Pet", list.Response.Expr)
	require.NotNil(t, list.Query)
	assert.Equal(t, "GetPetsQuery", list.Query.Expr)
	require.NotNil(t, list.Headers)
	assert.Equal(t, "http.Header", list.Headers.Expr)

	create := ps.Endpoints[2]
	require.NotNil(t, create.Request)
	assert.Equal(t, "Pet", create.Request.Expr)

	get := ps.Endpoints[3]
	require.NotNil(t, get.FnName)
	assert.Equal(t, "GetPet", get.FnName.Name)
	require.NotNil(t, get.PathParams)
	assert.Equal(t, "GetPetPathParams", get.PathParams.Expr)

	// Operation-level parameters override path-level ones.
	require.Len(t, res.Operations[1].QueryParams, 1)
	assert.True(t, res.Operations[1].QueryParams[0].Required)
}

func TestBuild_Filters(t *testing.T) {
	t.Parallel()
	doc := loadDoc(t, petstore)

	res, err := Build(doc, WithIncludeTags([]string{"read"}), WithExcludeTags([]string{"animal"}))
	require.NoError(t, err)
	require.Len(t, res.Provider.Endpoints, 1)
	assert.Equal(t, "/pets/{petId}", res.Provider.Endpoints[0].Path.Value)

	res, err = Build(doc, WithMethods([]spec.Verb{spec.POST}), WithPathPatterns([]string{"^/pets$"}))
	require.NoError(t, err)
	require.Len(t, res.Provider.Endpoints, 1)
	assert.Equal(t, spec.POST, res.Provider.Endpoints[0].Method)

	res, err = Build(doc, WithStructName("Pets"), WithMethods([]spec.Verb{spec.DELETE}))
	require.NoError(t, err)
	assert.Equal(t, "Pets", res.Provider.StructName.Name)
	assert.Empty(t, res.Provider.Endpoints)

	_, err = Build(doc, WithPathPatterns([]string{"("}))
	require.ErrorIs(t, err, spec.ErrDiagnostic)
}

func TestResult_DSLParsesAndGenerates(t *testing.T) {
	t.Parallel()
	res, err := Build(loadDoc(t, petstore))
	require.NoError(t, err)

	dsl := res.DSL()
	assert.Contains(t, string(dsl), "// Declare next to the generated client: Pet.\n")
	assert.Contains(t, string(dsl), "// Skipped (unsupported method): PATCH /pets/{petId}\n")

	ps, err := spec.Parse("pets.http", dsl)
	require.NoError(t, err, string(dsl))
	require.Len(t, ps.Endpoints, 4)

	out, err := goemitter.Generate(ps, goemitter.Options{Package: "pets", Imports: []string{"encoding/json"}})
	require.NoError(t, err)
	src := string(out.Source)
	assert.Contains(t, src, "func (c *PetStore) GetPet(ctx context.Context, pathParams *GetPetPathParams) (Pet, error) {")
	assert.Contains(t, src, "fmt.Sprint(pathParams.PetID)")
	assert.Contains(t, src, "func (c *PetStore) GetPets(ctx context.Context, headers http.Header, query *GetPetsQuery) ([]Pet, error) {")
}

func TestResult_TypesSource(t *testing.T) {
	t.Parallel()
	res, err := Build(loadDoc(t, petstore))
	require.NoError(t, err)

	src, err := res.TypesSource("pets")
	require.NoError(t, err)
	text := string(src)
	assert.True(t, strings.HasPrefix(text, "// Code generated by httpgen import. DO NOT EDIT.\n\npackage pets\n"))
	assert.Contains(t, text, "type GetPetsQuery struct {\n\tLimit int64 `schema:\"limit\"`\n}")
	assert.Contains(t, text, "type GetPetPathParams struct {\n\tPetID int64\n}")

	none, err := (&Result{}).TypesSource("pets")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestGoType(t *testing.T) {
	t.Parallel()
	schemas := map[string]bool{}
	arr := openapi3.NewArraySchema()
	arr.Items = &openapi3.SchemaRef{Ref: "#/components/schemas/line_item"}
	tests := []struct {
		ref  *openapi3.SchemaRef
		want string
	}{
		{openapi3.NewStringSchema().NewRef(), "string"},
		{openapi3.NewBoolSchema().NewRef(), "bool"},
		{openapi3.NewInt32Schema().NewRef(), "int32"},
		{openapi3.NewInt64Schema().NewRef(), "int64"},
		{openapi3.NewFloat64Schema().NewRef(), "float64"},
		{arr.NewRef(), "[]LineItem"},
		{openapi3.NewObjectSchema().NewRef(), "map[string]any"},
		{nil, "string"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, goType(tt.ref, schemas))
	}
	assert.True(t, schemas["LineItem"])
}
