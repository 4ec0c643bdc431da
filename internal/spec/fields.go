package spec

import (
	"go/ast"
	goparser "go/parser"
	"go/types"
	"strings"
)

type fieldKind int

const (
	stringField fieldKind = iota
	verbField
	identField
	typeField
)

// fieldNames lists the recognized endpoint fields in canonical order.
var fieldNames = []string{
	"path", "method", "fn_name", "req", "res",
	"headers", "query_params", "path_params", "trait_impl",
}

var fieldKinds = map[string]fieldKind{
	"path":         stringField,
	"method":       verbField,
	"fn_name":      identField,
	"req":          typeField,
	"res":          typeField,
	"headers":      typeField,
	"query_params": typeField,
	"path_params":  typeField,
	"trait_impl":   typeField,
}

// fieldValue is a parsed field value; which member is set depends on the
// field kind.
type fieldValue struct {
	text string
	verb Verb
	typ  *TypeRef
	pos  Pos
}

// fieldSetters store a parsed value on the endpoint under construction.
// A repeated field simply calls its setter again, so the last one wins.
var fieldSetters = map[string]func(b *endpointBuilder, v fieldValue){
	"path": func(b *endpointBuilder, v fieldValue) {
		b.ep.Path = &StringLit{Value: v.text, Pos: v.pos}
	},
	"method": func(b *endpointBuilder, v fieldValue) {
		b.ep.Method = v.verb
		b.ep.MethodPos = v.pos
		b.hasMethod = true
	},
	"fn_name": func(b *endpointBuilder, v fieldValue) {
		b.ep.FnName = &Ident{Name: v.text, Pos: v.pos}
	},
	"req":          func(b *endpointBuilder, v fieldValue) { b.ep.Request = v.typ },
	"headers":      func(b *endpointBuilder, v fieldValue) { b.ep.Headers = v.typ },
	"query_params": func(b *endpointBuilder, v fieldValue) { b.ep.Query = v.typ },
	"path_params":  func(b *endpointBuilder, v fieldValue) { b.ep.PathParams = v.typ },
	"res": func(b *endpointBuilder, v fieldValue) {
		b.ep.Response = *v.typ
		b.hasRes = true
	},
	"trait_impl": func(b *endpointBuilder, v fieldValue) {
		b.ep.Binding = Binding{Kind: External, Contract: *v.typ}
	},
}

type endpointBuilder struct {
	ep        EndpointSpec
	hasMethod bool
	hasRes    bool
}

func newEndpointBuilder(pos Pos) *endpointBuilder {
	return &endpointBuilder{ep: EndpointSpec{Pos: pos}}
}

func (b *endpointBuilder) set(name string, v fieldValue) {
	fieldSetters[name](b, v)
}

// finish runs the single post-parse required-field check.
func (b *endpointBuilder) finish() (*EndpointSpec, error) {
	if !b.hasMethod {
		return nil, Errorf(MissingField, b.ep.Pos, "endpoint is missing required field \"method\"")
	}
	if !b.hasRes {
		return nil, Errorf(MissingField, b.ep.Pos, "endpoint is missing required field \"res\"")
	}
	ep := b.ep
	return &ep, nil
}

func unknownField(name string, pos Pos) error {
	return Errorf(UnknownField, pos, "unknown field %q (allowed: %s)", name, strings.Join(fieldNames, ", "))
}

func invalidMethod(token string, pos Pos) error {
	return Errorf(InvalidMethod, pos, "unsupported HTTP method %q (allowed: %s)", token, verbList())
}

// parseTypeExpr checks that text is a Go type expression and returns it in
// canonical form. The referenced types themselves are not resolved.
func parseTypeExpr(field, text string, pos Pos) (*TypeRef, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, Errorf(InvalidType, pos, "field %q expects a type", field)
	}
	expr, err := goparser.ParseExpr(text)
	if err != nil {
		d := Errorf(InvalidType, pos, "field %q: invalid type %q", field, text)
		d.Cause = err
		return nil, d
	}
	if !isTypeExpr(expr) {
		return nil, Errorf(InvalidType, pos, "field %q: %q is not a type", field, text)
	}
	return &TypeRef{Expr: types.ExprString(expr), Pos: pos}, nil
}

func isTypeExpr(e ast.Expr) bool {
	switch t := e.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return isTypeExpr(t.X)
	case *ast.ParenExpr:
		return isTypeExpr(t.X)
	case *ast.ArrayType:
		return isTypeExpr(t.Elt)
	case *ast.MapType:
		return isTypeExpr(t.Key) && isTypeExpr(t.Value)
	case *ast.ChanType:
		return isTypeExpr(t.Value)
	case *ast.IndexExpr:
		return isTypeExpr(t.X) && isTypeExpr(t.Index)
	case *ast.IndexListExpr:
		if !isTypeExpr(t.X) {
			return false
		}
		for _, idx := range t.Indices {
			if !isTypeExpr(idx) {
				return false
			}
		}
		return true
	case *ast.FuncType, *ast.InterfaceType, *ast.StructType:
		return true
	default:
		return false
	}
}
