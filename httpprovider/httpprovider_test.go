package httpprovider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestJoinURL(t *testing.T) {
	t.Parallel()
	base := mustParse(t, "http://api.example.com/v1/")
	tests := []struct {
		path string
		want string
	}{
		{"items/42", "http://api.example.com/v1/items/42"},
		{"/items/42", "http://api.example.com/items/42"},
		{"", "http://api.example.com/v1/"},
		{"items?page=2", "http://api.example.com/v1/items?page=2"},
	}
	for _, tt := range tests {
		got, err := JoinURL(base, tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got.String())
	}
	assert.Equal(t, "http://api.example.com/v1/", base.String(), "base must not change")
}

func TestJoinURL_Errors(t *testing.T) {
	t.Parallel()
	_, err := JoinURL(nil, "/x")
	var ue *URLError
	require.ErrorAs(t, err, &ue)
	assert.ErrorIs(t, err, ErrRequest)
	assert.ErrorIs(t, err, ErrURL)

	_, err = JoinURL(mustParse(t, "http://h/"), "/bad%zzescape")
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "/bad%zzescape", ue.Path)

	// A bare '%' from a substituted value is not repaired.
	_, err = JoinURL(mustParse(t, "http://h/"), "/items/50%")
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "/items/50%", ue.Path)
	assert.Equal(t, "http://h/", ue.Base)
}

type echo struct {
	Method string              `json:"method"`
	Path   string              `json:"path"`
	Query  map[string][]string `json:"query"`
	Header map[string][]string `json:"header"`
	Body   string              `json:"body"`
}

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(echo{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header,
			Body:   string(b),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

type listQuery struct {
	Page  int    `schema:"page"`
	Order string `schema:"order,omitempty"`
}

func TestRequest_AllFeatures(t *testing.T) {
	t.Parallel()
	srv := echoServer(t)
	u, err := JoinURL(mustParse(t, srv.URL), "/items")
	require.NoError(t, err)

	headers := http.Header{"X-Trace": {"abc"}}
	resp, err := Post(u).
		JSON(&map[string]int{"n": 1}).
		Headers(headers).
		Query(&listQuery{Page: 2}).
		Send(context.Background(), srv.Client(), time.Second)
	require.NoError(t, err)
	require.NoError(t, resp.CheckStatus())

	var got echo
	require.NoError(t, resp.Decode(&got))
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/items", got.Path)
	assert.Equal(t, []string{"2"}, got.Query["page"])
	assert.NotContains(t, got.Query, "order")
	assert.Equal(t, []string{"abc"}, got.Header["X-Trace"])
	assert.Equal(t, []string{"application/json"}, got.Header["Content-Type"])
	assert.JSONEq(t, `{"n":1}`, got.Body)
	assert.Equal(t, http.Header{"X-Trace": {"abc"}}, headers, "caller headers must not change")
}

type namedQuery map[string]string

func TestRequest_QueryShapes(t *testing.T) {
	t.Parallel()
	srv := echoServer(t)
	base := mustParse(t, srv.URL+"/search?fixed=1")
	tests := []struct {
		name  string
		query any
		want  url.Values
	}{
		{"values", url.Values{"q": {"a", "b"}}, url.Values{"fixed": {"1"}, "q": {"a", "b"}}},
		{"string map", map[string]string{"q": "x"}, url.Values{"fixed": {"1"}, "q": {"x"}}},
		{"struct", listQuery{Page: 3, Order: "asc"}, url.Values{"fixed": {"1"}, "page": {"3"}, "order": {"asc"}}},
		{"slice map pointer", &map[string][]string{"q": {"a", "b"}}, url.Values{"fixed": {"1"}, "q": {"a", "b"}}},
		{"header pointer", &http.Header{"Q": {"h"}}, url.Values{"fixed": {"1"}, "Q": {"h"}}},
		{"named map", namedQuery{"q": "n"}, url.Values{"fixed": {"1"}, "q": {"n"}}},
		{"named map pointer", &namedQuery{"q": "p"}, url.Values{"fixed": {"1"}, "q": {"p"}}},
	}
	for _, tt := range tests {
		resp, err := Get(base).Query(tt.query).Send(context.Background(), srv.Client(), 0)
		require.NoError(t, err, tt.name)
		var got echo
		require.NoError(t, resp.Decode(&got))
		assert.Equal(t, map[string][]string(tt.want), got.Query, tt.name)
	}
}

func TestRequest_EncodeErrors(t *testing.T) {
	t.Parallel()
	u := mustParse(t, "http://127.0.0.1:1/")

	_, err := Put(u).JSON(make(chan int)).Send(context.Background(), nil, 0)
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "body", ee.Part)
	assert.ErrorIs(t, err, ErrEncode)

	_, err = Get(u).Query(42).Send(context.Background(), nil, 0)
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "query", ee.Part)

	_, err = Get(u).Query(&map[string]int{"n": 1}).Send(context.Background(), nil, 0)
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "query", ee.Part)

	_, err = Get(u).Headers(42).Send(context.Background(), nil, 0)
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "headers", ee.Part)
}

func TestSend_StatusError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(599)
		}
	}))
	defer srv.Close()

	resp, err := Delete(mustParse(t, srv.URL+"/missing")).Send(context.Background(), srv.Client(), time.Second)
	require.NoError(t, err)
	err = resp.CheckStatus()
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 404, se.Code)
	assert.Equal(t, "Not Found", se.Reason)
	assert.Contains(t, err.Error(), "404")
	assert.ErrorIs(t, err, ErrStatus)

	resp, err = Get(mustParse(t, srv.URL+"/odd")).Send(context.Background(), srv.Client(), time.Second)
	require.NoError(t, err)
	require.ErrorAs(t, resp.CheckStatus(), &se)
	assert.Equal(t, "Unknown error", se.Reason)
}

func TestSend_Timeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := Get(mustParse(t, srv.URL)).Send(context.Background(), srv.Client(), 50*time.Millisecond)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSend_NetworkFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := Get(mustParse(t, addr)).Send(context.Background(), &http.Client{}, time.Second)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.MethodGet, te.Method)
	assert.ErrorIs(t, err, ErrRequest)
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()
	resp := &Response{URL: "http://h/x", StatusCode: 200, Body: []byte(`{"value":`)}
	var v struct{ Value string }
	err := resp.Decode(&v)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "http://h/x", de.URL)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestRequest_QueryPointers(t *testing.T) {
	t.Parallel()
	u := mustParse(t, "http://h/items")
	vals := url.Values{"a": {"1"}}
	m := map[string]string{"b": "2"}
	var nilStruct *listQuery
	var nilMap *map[string][]string

	req := Get(u).Query(&vals).Query(&m).Query(nilStruct).Query(nilMap).Query(&listQuery{Page: 1})
	require.NoError(t, req.err)
	assert.Equal(t, "http://h/items?a=1&b=2&page=1", req.target().String())
	assert.Equal(t, "http://h/items", req.URL().String())
}
