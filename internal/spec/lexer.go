package spec

import (
	"bytes"
	"fmt"
	"text/scanner"
)

// token is one lexical token with its source span.
type token struct {
	kind  rune // scanner.Ident, scanner.String, ... or the literal character
	text  string
	pos   Pos
	start int
	end   int
}

func (t token) describe() string {
	switch t.kind {
	case scanner.EOF:
		return "end of input"
	case scanner.Ident:
		return fmt.Sprintf("identifier %q", t.text)
	case scanner.String, scanner.RawString:
		return "string " + t.text
	case scanner.Int, scanner.Float:
		return "number " + t.text
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// lexer tokenizes provider sources using Go's token rules, so identifiers,
// interpreted and raw strings, and both comment styles behave as in Go.
type lexer struct {
	s      scanner.Scanner
	src    []byte
	file   string
	err    error
	peeked *token
}

func newLexer(filename string, src []byte) *lexer {
	l := &lexer{src: src, file: filename}
	l.s.Init(bytes.NewReader(src))
	l.s.Filename = filename
	l.s.Mode = scanner.GoTokens
	l.s.Error = func(s *scanner.Scanner, msg string) {
		if l.err == nil {
			p := s.Pos()
			l.err = Errorf(SyntaxError, Pos{Filename: filename, Line: p.Line, Column: p.Column}, "%s", msg)
		}
	}
	return l
}

func (l *lexer) scan() (token, error) {
	kind := l.s.Scan()
	start := l.s.Position
	tok := token{
		kind:  kind,
		text:  l.s.TokenText(),
		pos:   Pos{Filename: l.file, Line: start.Line, Column: start.Column},
		start: start.Offset,
		end:   l.s.Pos().Offset,
	}
	if kind == scanner.EOF {
		p := l.s.Pos()
		tok.pos = Pos{Filename: l.file, Line: p.Line, Column: p.Column}
		tok.start, tok.end = len(l.src), len(l.src)
	}
	if l.err != nil {
		return tok, l.err
	}
	return tok, nil
}

func (l *lexer) peek() (token, error) {
	if l.peeked == nil {
		tok, err := l.scan()
		if err != nil {
			return tok, err
		}
		l.peeked = &tok
	}
	return *l.peeked, nil
}

func (l *lexer) next() (token, error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, nil
	}
	return l.scan()
}
