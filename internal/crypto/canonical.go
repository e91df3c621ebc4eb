// all digests in this system are computed over canonical JSON (RFC 8785)
// this implementation uses the gowebpki/jcs library to perform the canonicalization
package crypto

import (
	"github.com/gowebpki/jcs"
)

// CanonicalizeJSON converts JSON to canonical form per RFC 8785.
// This ensures the same logical document always hashes to the same digest,
// regardless of key ordering or whitespace in the input.
//
// If the input is not valid JSON, an error is returned (handled by jcs library).
func CanonicalizeJSON(jsonData []byte) ([]byte, error) {
	return jcs.Transform(jsonData)
}
