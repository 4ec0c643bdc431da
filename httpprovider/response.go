package httpprovider

import (
	"encoding/json"
	"net/http"
)

// Response is a fully read HTTP response.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status code is in the 2xx range.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// CheckStatus returns a *StatusError for any non-2xx response.
func (r *Response) CheckStatus() error {
	if r.Success() {
		return nil
	}
	reason := http.StatusText(r.StatusCode)
	if reason == "" {
		reason = "Unknown error"
	}
	return &StatusError{Method: r.Method, URL: r.URL, Code: r.StatusCode, Reason: reason}
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &DecodeError{URL: r.URL, Err: err}
	}
	return nil
}
