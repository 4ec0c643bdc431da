package spec

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoad_BlocksFileURL(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "file:///etc/hosts")
	if err == nil {
		t.Fatalf("expected error for file:// URL")
	}
	var d *Diagnostic
	if !errors.As(err, &d) || d.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_UnsupportedScheme(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "ftp://example.com/items.http")
	var d *Diagnostic
	if !errors.As(err, &d) || d.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_EmptyInput(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "   ")
	var d *Diagnostic
	if !errors.As(err, &d) || d.Code != InputError {
		t.Fatalf("expected InputError, got %v", err)
	}
}

func TestLoad_NetworkError(t *testing.T) {
	t.Parallel()
	// Unused port to provoke a quick network failure.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Load(ctx, "http://127.0.0.1:1/items.http",
		WithHTTPTimeout(200*time.Millisecond), WithMaxRetries(2), WithBackoffBase(10*time.Millisecond))
	var d *Diagnostic
	if !errors.As(err, &d) || d.Code != NetworkError {
		t.Fatalf("expected NetworkError, got %v (%T)", err, err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.http"))
	var d *Diagnostic
	if !errors.As(err, &d) || d.Code != InputError {
		t.Fatalf("expected InputError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected cause to wrap os.ErrNotExist, got %v", err)
	}
}

func TestLoad_DSLFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "items.http")
	if err := os.WriteFile(path, []byte(itemsDSL), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ps, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ps.StructName.Name != "ItemsAPI" || len(ps.Endpoints) != 3 {
		t.Fatalf("unexpected provider: %+v", ps)
	}
	if ps.Source != path {
		t.Fatalf("expected source %q, got %q", path, ps.Source)
	}
}

func TestLoad_YAMLFileSelectedByExtension(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "items.yml")
	if err := os.WriteFile(path, []byte(itemsYAML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ps, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ps.StructName.Name != "ItemsAPI" {
		t.Fatalf("unexpected name %q", ps.StructName.Name)
	}
}

func TestLoad_HTTPRetriesTransientFailures(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(itemsDSL))
	}))
	defer srv.Close()

	ps, err := Load(context.Background(), srv.URL+"/items.http", WithBackoffBase(time.Millisecond))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
	if len(ps.Endpoints) != 3 {
		t.Fatalf("expected 3 endpoints, got %d", len(ps.Endpoints))
	}
}

func TestLoad_HTTPClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL+"/items.http", WithBackoffBase(time.Millisecond))
	var d *Diagnostic
	if !errors.As(err, &d) || d.Code != NetworkError {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}
