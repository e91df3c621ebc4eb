// this file contains the digest helpers used to fingerprint mark contents
//
// all property and root digests are SHA-256 over canonical JSON (see canonical.go)
// and are represented as lowercase hex strings.

package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SHA256Hex calculates the SHA-256 digest of data and returns it as a hex string
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON computes the SHA-256 digest of the canonical JSON encoding of v
func HashJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal value: %w", err)
	}

	canonical, err := CanonicalizeJSON(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize value: %w", err)
	}

	return SHA256Hex(canonical), nil
}

// VerifyDigest verifies that data matches the expected SHA-256 digest
func VerifyDigest(data []byte, expectedDigest string) bool {
	return SHA256Hex(data) == expectedDigest
}
