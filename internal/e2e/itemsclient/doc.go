// Package itemsclient holds a client generated from items.http together
// with the types it references.
package itemsclient

//go:generate go run github.com/mark3labs/httpgen/cmd/httpgen generate --input items.http --out . --package itemsclient
