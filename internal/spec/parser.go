package spec

import (
	"strconv"
	"text/scanner"
)

// Parse reads a provider written in the field-bag DSL:
//
//	ItemsAPI, {
//	    {
//	        path: "/items/{id}",
//	        method: GET,
//	        path_params: ItemPath,
//	        res: Item,
//	    },
//	}
//
// The first problem found is returned as a *Diagnostic; no partial model is
// returned alongside it.
func Parse(filename string, src []byte) (*ProviderSpec, error) {
	p := &parser{lex: newLexer(filename, src), file: filename}
	return p.parseProvider()
}

type parser struct {
	lex  *lexer
	file string
}

func (p *parser) expect(kind rune, what string) (token, error) {
	tok, err := p.lex.next()
	if err != nil {
		return tok, err
	}
	if tok.kind != kind {
		return tok, p.unexpected(tok, what)
	}
	return tok, nil
}

func (p *parser) unexpected(tok token, what string) error {
	return Errorf(SyntaxError, tok.pos, "expected %s, found %s", what, tok.describe())
}

func (p *parser) parseProvider() (*ProviderSpec, error) {
	name, err := p.expect(scanner.Ident, "provider struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(',', "',' after the provider name"); err != nil {
		return nil, err
	}
	if _, err := p.expect('{', "'{' to open the endpoint list"); err != nil {
		return nil, err
	}

	ps := &ProviderSpec{
		StructName: Ident{Name: name.text, Pos: name.pos},
		Source:     p.file,
	}
	for {
		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == '}' {
			_, _ = p.lex.next()
			break
		}
		ep, err := p.parseEndpoint()
		if err != nil {
			return nil, err
		}
		ps.Endpoints = append(ps.Endpoints, *ep)

		sep, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if sep.kind == '}' {
			break
		}
		if sep.kind != ',' {
			return nil, p.unexpected(sep, "',' or '}' after an endpoint block")
		}
	}

	tok, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == ',' || tok.kind == ';' {
		if tok, err = p.lex.next(); err != nil {
			return nil, err
		}
	}
	if tok.kind != scanner.EOF {
		return nil, p.unexpected(tok, "end of input")
	}
	return ps, nil
}

func (p *parser) parseEndpoint() (*EndpointSpec, error) {
	open, err := p.expect('{', "'{' to open an endpoint block")
	if err != nil {
		return nil, err
	}
	b := newEndpointBuilder(open.pos)
	for {
		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == '}' {
			_, _ = p.lex.next()
			break
		}

		field, err := p.expect(scanner.Ident, "field name")
		if err != nil {
			return nil, err
		}
		kind, ok := fieldKinds[field.text]
		if !ok {
			return nil, unknownField(field.text, field.pos)
		}
		if _, err := p.expect(':', "':' after field "+strconv.Quote(field.text)); err != nil {
			return nil, err
		}
		v, err := p.parseValue(field.text, kind)
		if err != nil {
			return nil, err
		}
		b.set(field.text, v)

		sep, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if sep.kind == '}' {
			break
		}
		if sep.kind != ',' {
			return nil, p.unexpected(sep, "',' or '}' after a field")
		}
	}
	return b.finish()
}

func (p *parser) parseValue(field string, kind fieldKind) (fieldValue, error) {
	switch kind {
	case stringField:
		tok, err := p.lex.next()
		if err != nil {
			return fieldValue{}, err
		}
		if tok.kind != scanner.String && tok.kind != scanner.RawString {
			return fieldValue{}, p.unexpected(tok, "string literal for "+strconv.Quote(field))
		}
		s, err := strconv.Unquote(tok.text)
		if err != nil {
			d := Errorf(SyntaxError, tok.pos, "invalid string literal %s", tok.text)
			d.Cause = err
			return fieldValue{}, d
		}
		return fieldValue{text: s, pos: tok.pos}, nil
	case verbField:
		tok, err := p.expect(scanner.Ident, "HTTP method")
		if err != nil {
			return fieldValue{}, err
		}
		verb, ok := ParseVerb(tok.text)
		if !ok {
			return fieldValue{}, invalidMethod(tok.text, tok.pos)
		}
		return fieldValue{verb: verb, pos: tok.pos}, nil
	case identField:
		tok, err := p.expect(scanner.Ident, "identifier for "+strconv.Quote(field))
		if err != nil {
			return fieldValue{}, err
		}
		return fieldValue{text: tok.text, pos: tok.pos}, nil
	default:
		ref, err := p.parseTypeRef(field)
		if err != nil {
			return fieldValue{}, err
		}
		return fieldValue{typ: ref, pos: ref.Pos}, nil
	}
}

// parseTypeRef consumes tokens up to the next ',' or '}' at bracket depth
// zero and validates the covered source text as a Go type expression.
func (p *parser) parseTypeRef(field string) (*TypeRef, error) {
	first, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	start, end := first.start, first.start
	depth := 0
	for {
		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == scanner.EOF {
			return nil, p.unexpected(tok, "type for "+strconv.Quote(field))
		}
		if depth == 0 && (tok.kind == ',' || tok.kind == '}') {
			break
		}
		switch tok.kind {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return nil, p.unexpected(tok, "type for "+strconv.Quote(field))
			}
		}
		_, _ = p.lex.next()
		end = tok.end
	}
	if end == start {
		return nil, Errorf(InvalidType, first.pos, "field %q expects a type", field)
	}
	return parseTypeExpr(field, string(p.lex.src[start:end]), first.pos)
}
