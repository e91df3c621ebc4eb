// Package server provides the HTTP server for the mark service.
//
// the server is configured through environment variables
// (see internal/config/config.go for details)
//
// The package wires together:
//   - the mark API (verify, anchor, query, revoke)
//   - common infrastructure handlers (health, version, jwks)
//
// middleware is in internal/server/middleware
package server
