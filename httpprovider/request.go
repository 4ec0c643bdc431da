package httpprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/gorilla/schema"
)

var queryEncoder = schema.NewEncoder()

// Request is an outgoing call under construction. Builder methods record
// problems instead of returning them; the first one is reported by Send.
type Request struct {
	method string
	url    *url.URL
	body   []byte
	header http.Header
	query  url.Values
	err    error
}

func newRequest(method string, u *url.URL) *Request {
	return &Request{method: method, url: u, header: make(http.Header)}
}

// Get starts a GET request to u.
func Get(u *url.URL) *Request { return newRequest(http.MethodGet, u) }

// Post starts a POST request to u.
func Post(u *url.URL) *Request { return newRequest(http.MethodPost, u) }

// Put starts a PUT request to u.
func Put(u *url.URL) *Request { return newRequest(http.MethodPut, u) }

// Delete starts a DELETE request to u.
func Delete(u *url.URL) *Request { return newRequest(http.MethodDelete, u) }

// Method returns the HTTP method of the request.
func (r *Request) Method() string { return r.method }

// URL returns the target URL without the query added by Query.
func (r *Request) URL() *url.URL { return r.url }

// JSON serializes v as the request body. v is only read.
func (r *Request) JSON(v any) *Request {
	if r.err != nil {
		return r
	}
	b, err := json.Marshal(v)
	if err != nil {
		r.err = &EncodeError{URL: r.url.String(), Part: "body", Err: err}
		return r
	}
	r.body = b
	r.header.Set("Content-Type", "application/json")
	return r
}

// Headers adds h to the request. h may be an http.Header, a
// map[string][]string or a map[string]string; it is copied, never retained.
func (r *Request) Headers(h any) *Request {
	if r.err != nil {
		return r
	}
	switch h := h.(type) {
	case nil:
	case http.Header:
		for k, vs := range h.Clone() {
			for _, v := range vs {
				r.header.Add(k, v)
			}
		}
	case map[string][]string:
		for k, vs := range h {
			for _, v := range vs {
				r.header.Add(k, v)
			}
		}
	case map[string]string:
		for k, v := range h {
			r.header.Add(k, v)
		}
	case *http.Header:
		if h != nil {
			return r.Headers(*h)
		}
	default:
		r.err = &EncodeError{URL: r.url.String(), Part: "headers", Err: fmt.Errorf("unsupported header type %T", h)}
	}
	return r
}

// Query appends q to the URL query. q may be url.Values, any map with string
// keys and string or []string values (named map types included), or a struct
// whose fields are encoded with gorilla/schema using `schema` tags.
// Pointers to any of these are followed; a nil pointer adds nothing.
func (r *Request) Query(q any) *Request {
	if r.err != nil {
		return r
	}
	if r.query == nil {
		r.query = make(url.Values)
	}
	switch q := q.(type) {
	case nil:
	case url.Values:
		addValues(r.query, q)
	case *url.Values:
		if q != nil {
			addValues(r.query, *q)
		}
	case map[string][]string:
		addValues(r.query, q)
	case map[string]string:
		for k, v := range q {
			r.query.Add(k, v)
		}
	default:
		rv := reflect.Indirect(reflect.ValueOf(q))
		if !rv.IsValid() {
			return r
		}
		switch {
		case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
			if err := addMapValues(r.query, rv); err != nil {
				r.err = &EncodeError{URL: r.url.String(), Part: "query", Err: err}
			}
		case rv.Kind() == reflect.Struct:
			dst := make(map[string][]string)
			if err := queryEncoder.Encode(rv.Interface(), dst); err != nil {
				r.err = &EncodeError{URL: r.url.String(), Part: "query", Err: err}
				return r
			}
			addValues(r.query, dst)
		default:
			r.err = &EncodeError{URL: r.url.String(), Part: "query", Err: fmt.Errorf("unsupported query type %T", q)}
		}
	}
	return r
}

// addMapValues copies a map with string keys and string or []string values,
// including named types such as http.Header.
func addMapValues(dst url.Values, m reflect.Value) error {
	elem := m.Type().Elem()
	switch {
	case elem.Kind() == reflect.String:
		iter := m.MapRange()
		for iter.Next() {
			dst.Add(iter.Key().String(), iter.Value().String())
		}
	case elem.Kind() == reflect.Slice && elem.Elem().Kind() == reflect.String:
		iter := m.MapRange()
		for iter.Next() {
			vs := iter.Value()
			for i := 0; i < vs.Len(); i++ {
				dst.Add(iter.Key().String(), vs.Index(i).String())
			}
		}
	default:
		return fmt.Errorf("unsupported query map value type %s", elem)
	}
	return nil
}

func addValues(dst url.Values, src map[string][]string) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

// target returns the final URL with accumulated query parameters merged
// into any query already present on the base.
func (r *Request) target() *url.URL {
	u := *r.url
	if len(r.query) > 0 {
		merged := u.Query()
		addValues(merged, r.query)
		u.RawQuery = merged.Encode()
	}
	return &u
}

// Send performs the request once with client. A positive timeout bounds the
// whole exchange including reading the body; zero or less means no
// deadline beyond ctx. The body is read fully and closed before Send
// returns.
func (r *Request) Send(ctx context.Context, client *http.Client, timeout time.Duration) (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}
	if client == nil {
		client = http.DefaultClient
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	u := r.target()
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, &URLError{Base: r.url.String(), Err: err}
	}
	req.Header = r.header.Clone()
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Method: r.method, URL: u.String(), Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: r.method, URL: u.String(), Err: err}
	}
	return &Response{
		Method:     r.method,
		URL:        u.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}
