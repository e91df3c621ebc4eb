// sign.go - functions for signing and verifying detached payloads as JWS
// (JSON Web Signature) compact serializations.
//
// All mark signatures in this system are EdDSA over the entity's root hash.

package identity

import (
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
)

// SignPayload returns a JWS compact serialization over payload using an
// Ed25519 private key in JWK form. The key's kid is carried in the protected
// header so verifiers can resolve the public key.
func SignPayload(payload []byte, key jwk.Key) (string, error) {
	signed, err := jws.Sign(payload, jws.WithKey(jwa.EdDSA(), key))
	if err != nil {
		return "", WrapSignatureError(err, "failed to sign payload")
	}
	return string(signed), nil
}

// VerifyPayload verifies a JWS compact serialization with the given public key
// and returns the payload.
func VerifyPayload(token string, key jwk.Key) ([]byte, error) {
	payload, err := jws.Verify([]byte(token), jws.WithKey(jwa.EdDSA(), key))
	if err != nil {
		return nil, WrapSignatureError(err, "failed to verify JWS")
	}
	return payload, nil
}

// VerifyPayloadWithProvider verifies a JWS using a key provider for automatic
// kid-based key lookup (typically the KeyManager).
func VerifyPayloadWithProvider(token string, provider jws.KeyProvider) ([]byte, error) {
	payload, err := jws.Verify([]byte(token), jws.WithKeyProvider(provider))
	if err != nil {
		return nil, WrapSignatureError(err, "failed to verify JWS")
	}
	return payload, nil
}
