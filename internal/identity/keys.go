// JWK (JSON Web Key) handling for mark issuers and holders.
//
// these functions convert raw Ed25519 keys to JWK format (RFC 7517) and derive
// key IDs from the RFC 7638 thumbprint of the public key.
//
// they are used by the KeyManager to resolve verification keys, and by the
// keygen CLI to generate keypairs for distribution via /.well-known/jwks.json

package identity

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// KeyPair holds a freshly generated signing key in JWK form.
type KeyPair struct {

	// PrivateKey is the Ed25519 private key in JWK form (keep this secret)
	PrivateKey jwk.Key

	// PublicKey is the corresponding public key, suitable for a JWK set
	PublicKey jwk.Key

	// KeyID is the RFC 7638 SHA-256 thumbprint of the public key (hex)
	KeyID string
}

// GenerateKeyPair generates a new Ed25519 keypair in JWK form with the key ID
// set to the public key thumbprint on both halves.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to generate Ed25519 key")
	}

	kid, err := KeyIDFromPublicKey(pub)
	if err != nil {
		return nil, err
	}

	privateJWK, err := importKey(priv, kid)
	if err != nil {
		return nil, err
	}
	publicJWK, err := importKey(pub, kid)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		PrivateKey: privateJWK,
		PublicKey:  publicJWK,
		KeyID:      kid,
	}, nil
}

// KeyIDFromPublicKey derives a key ID from an Ed25519 public key using the
// hex-encoded SHA-256 thumbprint (RFC 7638).
func KeyIDFromPublicKey(publicKey ed25519.PublicKey) (string, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return "", NewValidationError("invalid Ed25519 public key length")
	}

	jwkKey, err := jwk.Import(publicKey)
	if err != nil {
		return "", WrapKeyManagementError(err, "failed to import public key")
	}

	thumbprint, err := jwkKey.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", WrapKeyManagementError(err, "failed to generate thumbprint")
	}

	return fmt.Sprintf("%x", thumbprint), nil
}

// LoadPrivateKey loads a private signing key in JWK format from a file.
// The key must carry a kid (the keygen CLI always sets one).
func LoadPrivateKey(path string) (jwk.Key, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from server config
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to read signing key file")
	}

	key, err := jwk.ParseKey(raw)
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to parse signing key")
	}

	if _, ok := key.KeyID(); !ok {
		return nil, NewKeyManagementError("signing key has no kid")
	}

	return key, nil
}

// PublicJWKSet builds a JWK set containing the public half of the given
// private key, for serving at /.well-known/jwks.json.
func PublicJWKSet(privateKey jwk.Key) (jwk.Set, error) {
	publicKey, err := jwk.PublicKeyOf(privateKey)
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to derive public key")
	}

	set := jwk.NewSet()
	if err := set.AddKey(publicKey); err != nil {
		return nil, WrapKeyManagementError(err, "failed to add key to set")
	}

	return set, nil
}

// importKey converts a raw Ed25519 key to JWK form with kid, alg and usage set.
func importKey(rawKey any, keyID string) (jwk.Key, error) {
	key, err := jwk.Import(rawKey)
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to create JWK from Ed25519 key")
	}

	if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, WrapKeyManagementError(err, "failed to set key ID")
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.EdDSA()); err != nil {
		return nil, WrapKeyManagementError(err, "failed to set algorithm")
	}
	if err := key.Set(jwk.KeyUsageKey, jwk.ForSignature); err != nil {
		return nil, WrapKeyManagementError(err, "failed to set key usage")
	}

	return key, nil
}
