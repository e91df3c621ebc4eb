package identity

import (
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwk"
)

// DIDPrefix is the method prefix for mark issuer/holder DIDs.
const DIDPrefix = "did:mark:"

// DIDFromKey derives the DID for a key. The method-specific identifier is the
// key ID (the RFC 7638 thumbprint of the public key), so a DID resolves to
// exactly one verification key.
func DIDFromKey(key jwk.Key) (string, error) {
	kid, ok := key.KeyID()
	if !ok || kid == "" {
		return "", NewValidationError("key has no key ID")
	}
	return DIDPrefix + kid, nil
}

// KeyIDFromDID extracts the key ID from a mark DID.
func KeyIDFromDID(did string) (string, error) {
	if !strings.HasPrefix(did, DIDPrefix) {
		return "", NewValidationError("not a mark DID: " + did)
	}

	kid := strings.TrimPrefix(did, DIDPrefix)
	if kid == "" {
		return "", NewValidationError("DID has no method-specific identifier")
	}
	return kid, nil
}
