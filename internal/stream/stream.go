// Package stream implements the content stream: the attested artifact an
// issuer produces from an approved content-stream request.
//
// A stream records the request's root hash, the issuing DID, and the issuer's
// signature over the root. The stream identifier is derived from the root hash
// and the issuer, so a stream cannot be re-pointed at different contents
// without changing its identity.
package stream

import (
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/35C4n0r/cord-mark/internal/crypto"
	"github.com/35C4n0r/cord-mark/internal/identity"
)

// IDPrefix namespaces stream identifiers.
const IDPrefix = "stream:"

// Stream is a content stream in object form.
type Stream struct {

	// ID is the stream identifier, derived from Root and Issuer (see IDForRoot).
	ID string `json:"id"`

	// Root is the root hash of the request the stream was issued from.
	Root string `json:"root"`

	// SchemaID identifies the schema the attested contents conform to.
	SchemaID string `json:"schemaId"`

	// Issuer is the DID of the attesting party.
	Issuer string `json:"issuer"`

	// Signature is a JWS (compact serialization) over Root, produced by the
	// issuer's key.
	Signature string `json:"signature"`

	// Revoked marks a stream the issuer has withdrawn. A revoked stream is
	// still structurally valid; callers decide whether to accept it.
	Revoked bool `json:"revoked"`
}

// IDForRoot derives the stream identifier for a root hash and issuer DID.
func IDForRoot(root, issuer string) string {
	return IDPrefix + crypto.SHA256Hex([]byte(root+issuer))
}

// New creates an unsigned stream over the given root hash. Use Sign to attach
// the issuer signature before the stream is anchored or transmitted.
func New(root, schemaID, issuer string) (*Stream, error) {
	if root == "" {
		return nil, NewInvalidError("root is required")
	}
	if issuer == "" {
		return nil, NewInvalidError("issuer is required")
	}

	return &Stream{
		ID:       IDForRoot(root, issuer),
		Root:     root,
		SchemaID: schemaID,
		Issuer:   issuer,
	}, nil
}

// Sign attaches a JWS over the root hash using the issuer's private key.
func (s *Stream) Sign(key jwk.Key) error {
	token, err := identity.SignPayload([]byte(s.Root), key)
	if err != nil {
		return WrapSignatureError(err, "failed to sign root hash")
	}
	s.Signature = token
	return nil
}

// Validate checks that the stream is structurally sound: all required fields
// are present and the identifier matches its derivation. It does not resolve
// keys; use VerifySignature for the cryptographic check.
func (s *Stream) Validate() error {
	if s == nil {
		return NewInvalidError("stream is required")
	}
	if s.Root == "" {
		return NewInvalidError("root is required")
	}
	if s.Issuer == "" {
		return NewInvalidError("issuer is required")
	}
	if s.ID != IDForRoot(s.Root, s.Issuer) {
		return NewInvalidError("id does not match its derivation from root and issuer")
	}
	if s.Signature == "" {
		return NewSignatureError("signature is required")
	}
	return nil
}

// VerifySignature verifies the issuer's JWS over the root hash.
func (s *Stream) VerifySignature(key jwk.Key) error {
	if s.Signature == "" {
		return NewSignatureError("signature is required")
	}

	payload, err := identity.VerifyPayload(s.Signature, key)
	if err != nil {
		return WrapSignatureError(err, "signature verification failed")
	}
	if string(payload) != s.Root {
		return NewSignatureError("signature payload does not match root hash")
	}
	return nil
}
