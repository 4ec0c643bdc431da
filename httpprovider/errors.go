package httpprovider

import (
	"errors"
	"fmt"
)

var (
	// ErrRequest matches every error returned by a generated client call.
	ErrRequest = errors.New("httpprovider: request failed")

	ErrURL       = errors.New("invalid request URL")
	ErrEncode    = errors.New("request encoding failed")
	ErrTransport = errors.New("transport failure")
	ErrStatus    = errors.New("unsuccessful status")
	ErrDecode    = errors.New("response decoding failed")
)

// URLError reports a request URL that could not be built from the client's
// base URL and the endpoint path.
type URLError struct {
	Base string
	Path string
	Err  error
}

func (e *URLError) Error() string {
	return fmt.Sprintf("build URL from %q and %q: %v", e.Base, e.Path, e.Err)
}

func (e *URLError) Unwrap() error { return e.Err }

func (e *URLError) Is(target error) bool { return target == ErrRequest || target == ErrURL }

// EncodeError reports a request body or query value that could not be
// serialized.
type EncodeError struct {
	URL  string
	Part string // "body" or "query"
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s for %s: %v", e.Part, e.URL, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

func (e *EncodeError) Is(target error) bool { return target == ErrRequest || target == ErrEncode }

// TransportError reports that no response was received, including
// timeouts and cancellation.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrRequest || target == ErrTransport }

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: request failed with status %d: %s", e.Method, e.URL, e.Code, e.Reason)
}

func (e *StatusError) Is(target error) bool { return target == ErrRequest || target == ErrStatus }

// DecodeError reports a successful response whose body did not decode into
// the expected type.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrRequest || target == ErrDecode }
