package spec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }

// Source is raw provider (or imported document) content.
type Source struct {
	Name  string // path or URL as given
	Path  string // absolute path for local files; empty for URLs
	Ext   string // lower-cased extension, e.g. ".yaml"
	Data  []byte
	IsURL bool
}

// ReadSource reads input from a filesystem path or an http/https URL.
// Errors are *Diagnostic values with code InputError or NetworkError.
func ReadSource(ctx context.Context, input string, opts ...Option) (*Source, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &Diagnostic{Code: InputError, Message: "spec: input is empty"}
	}

	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	u, uerr := url.Parse(input)
	if uerr == nil && strings.EqualFold(u.Scheme, "file") {
		return nil, &Diagnostic{Code: InputError, Message: "spec: file:// URLs are not supported, pass a path", Pos: Pos{Filename: input}}
	}
	isURL := uerr == nil && u.Scheme != "" && u.Host != ""
	if isURL {
		scheme := strings.ToLower(u.Scheme)
		if scheme != "http" && scheme != "https" {
			return nil, &Diagnostic{
				Code:    InputError,
				Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https allowed)", scheme),
				Pos:     Pos{Filename: input},
			}
		}
		raw, err := fetchWithRetry(ctx, input, settings)
		if err != nil {
			return nil, &Diagnostic{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Pos: Pos{Filename: input}, Cause: err}
		}
		return &Source{Name: input, Ext: strings.ToLower(path.Ext(u.Path)), Data: raw, IsURL: true}, nil
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, &Diagnostic{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Pos: Pos{Filename: input}, Cause: err}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, &Diagnostic{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Pos: Pos{Filename: input}, Cause: err}
	}
	return &Source{Name: input, Path: abs, Ext: strings.ToLower(filepath.Ext(abs)), Data: raw}, nil
}

// Load reads and parses a provider from a filesystem path or an http/https
// URL. Sources ending in .yaml or .yml use the YAML surface, anything else
// the DSL.
func Load(ctx context.Context, input string, opts ...Option) (*ProviderSpec, error) {
	src, err := ReadSource(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return ParseSource(src.Name, src.Ext, src.Data)
}

// ParseSource parses src with the surface selected by the file extension.
func ParseSource(filename, ext string, src []byte) (*ProviderSpec, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return ParseYAML(filename, src)
	default:
		return Parse(filename, src)
	}
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	var lastErr error
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		body, retry, err := fetchOnce(ctx, client, rawURL)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}

// fetchOnce performs one GET and reports whether a failure is transient.
func fetchOnce(ctx context.Context, client *http.Client, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		return body, false, err
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("transient http error %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return nil, false, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
