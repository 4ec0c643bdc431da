package spec

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes diagnostics for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	SyntaxError     ErrorCode = "SyntaxError"
	UnknownField    ErrorCode = "UnknownField"
	MissingField    ErrorCode = "MissingField"
	InvalidMethod   ErrorCode = "InvalidMethod"
	InvalidType     ErrorCode = "InvalidType"
	EmptyEndpoints  ErrorCode = "EmptyEndpoints"
	MissingContract ErrorCode = "MissingContract"
	DuplicateName   ErrorCode = "DuplicateName"
	InvalidOption   ErrorCode = "InvalidOption"
	ImportError     ErrorCode = "ImportError"
)

// ErrDiagnostic matches every *Diagnostic via errors.Is.
var ErrDiagnostic = errors.New("diagnostic")

// Pos is a location in a provider source. The zero value means unknown.
type Pos struct {
	Filename string
	Line     int
	Column   int
}

// IsValid reports whether the position carries a line number.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	s := p.Filename
	if s == "" {
		s = "<input>"
	}
	if p.IsValid() {
		s += fmt.Sprintf(":%d:%d", p.Line, p.Column)
	}
	return s
}

// Diagnostic is a generation-time error anchored to the most specific
// source location available. It aborts the generation pass that raised it.
type Diagnostic struct {
	Code    ErrorCode
	Message string
	Pos     Pos
	Cause   error
}

func (d *Diagnostic) Error() string {
	if d.Pos.Filename == "" && !d.Pos.IsValid() {
		return d.Message
	}
	return d.Pos.String() + ": " + d.Message
}

func (d *Diagnostic) Unwrap() error { return d.Cause }

func (d *Diagnostic) Is(target error) bool { return target == ErrDiagnostic }

// Errorf builds a Diagnostic with a formatted message.
func Errorf(code ErrorCode, pos Pos, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}
