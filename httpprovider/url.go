// Package httpprovider is the runtime imported by clients that httpgen
// generates. It builds requests, sends them with a per-call timeout and
// maps every failure to a typed error.
package httpprovider

import (
	"errors"
	"net/url"
)

// JoinURL resolves path against base the way a browser resolves a link: an
// absolute path replaces the base path, a relative one is resolved against
// the base's last segment. base is never modified.
func JoinURL(base *url.URL, path string) (*url.URL, error) {
	if base == nil {
		return nil, &URLError{Path: path, Err: errors.New("base URL is nil")}
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, &URLError{Base: base.String(), Path: path, Err: err}
	}
	return base.ResolveReference(ref), nil
}
