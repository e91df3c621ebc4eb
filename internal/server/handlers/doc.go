// Package handlers provides the HTTP handlers for the mark server:
// the mark API (verify, anchor, query, revoke) and the common
// infrastructure handlers (health, version, jwks).
package handlers
