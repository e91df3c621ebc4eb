// Package request implements the content-stream request: the claim a holder
// submits for attestation, together with the salted property digests that
// commit to it.
//
// # Hash commitment scheme
//
// Each claim property is digested independently: the single-property object
// {name: value} is canonicalized (RFC 8785) and hashed with SHA-256, then
// salted with a per-property nonce. The sorted salted hashes are concatenated
// and hashed again to produce the root hash. The root is what the creator
// signs and what the issued content stream anchors, so:
//
//   - changing any property value invalidates its salted hash and the root
//   - properties can later be disclosed selectively (digest + nonce reveal
//     membership without revealing siblings)
//   - the nonce prevents dictionary attacks on low-entropy property values
package request

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/35C4n0r/cord-mark/internal/crypto"
	"github.com/35C4n0r/cord-mark/internal/identity"
)

// Request is a content-stream request: the verbose object form of the claim
// plus the hash commitment over its properties.
type Request struct {

	// Content is the claim being attested.
	Content *Content `json:"content"`

	// ContentHashes are the salted per-property digests, sorted ascending.
	ContentHashes []string `json:"contentHashes"`

	// NonceMap maps each property digest to the nonce used to salt it.
	NonceMap map[string]string `json:"contentNonceMap"`

	// RootHash commits to the full property hash set.
	RootHash string `json:"rootHash"`

	// Signature is a JWS (compact serialization) over the root hash, produced
	// by the creator's key.
	Signature string `json:"signature"`
}

// New builds a Request from claim content: it generates a nonce per property,
// computes the salted property digests and the root hash.
//
// The returned request is unsigned; use Sign before submitting it.
func New(content *Content) (*Request, error) {
	if content == nil {
		return nil, NewContentMissingError("content is required")
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}

	hashes := make([]string, 0, len(content.Contents))
	nonces := make(map[string]string, len(content.Contents))

	for name, value := range content.Contents {
		digest, err := propertyDigest(name, value)
		if err != nil {
			return nil, WrapHashMalformedError(err, "failed to digest property "+name)
		}

		nonce := uuid.NewString()
		nonces[digest] = nonce
		hashes = append(hashes, saltedHash(nonce, digest))
	}

	sort.Strings(hashes)

	return &Request{
		Content:       content,
		ContentHashes: hashes,
		NonceMap:      nonces,
		RootHash:      computeRoot(hashes),
	}, nil
}

// Sign attaches a JWS over the root hash using the creator's private key.
func (r *Request) Sign(key jwk.Key) error {
	token, err := identity.SignPayload([]byte(r.RootHash), key)
	if err != nil {
		return WrapSignatureError(err, "failed to sign root hash")
	}
	r.Signature = token
	return nil
}

// Validate checks that the request is internally consistent: the claim content
// is complete, every property is covered by a salted hash, and the root hash
// matches the hash set. It does not resolve keys; use VerifySignature for the
// cryptographic check.
func (r *Request) Validate() error {
	if r == nil || r.Content == nil {
		return NewContentMissingError("content is required")
	}
	if err := r.Content.Validate(); err != nil {
		return err
	}

	if len(r.ContentHashes) != len(r.Content.Contents) {
		return NewHashMalformedError("contentHashes must contain one entry per property")
	}

	members := make(map[string]bool, len(r.ContentHashes))
	for _, h := range r.ContentHashes {
		members[h] = true
	}

	for name, value := range r.Content.Contents {
		digest, err := propertyDigest(name, value)
		if err != nil {
			return WrapHashMalformedError(err, "failed to digest property "+name)
		}

		nonce, ok := r.NonceMap[digest]
		if !ok {
			return NewHashMalformedError("no nonce recorded for property " + name)
		}
		if !members[saltedHash(nonce, digest)] {
			return NewHashMalformedError("salted hash for property " + name + " is not in contentHashes")
		}
	}

	root, err := r.RecomputeRoot()
	if err != nil {
		return err
	}
	if root != r.RootHash {
		return NewRootMismatchError("rootHash does not match the recomputed root")
	}

	if r.Signature == "" {
		return NewSignatureError("signature is required")
	}

	return nil
}

// RecomputeRoot recomputes the root hash from the recorded property hashes.
func (r *Request) RecomputeRoot() (string, error) {
	if len(r.ContentHashes) == 0 {
		return "", NewHashMalformedError("contentHashes is empty")
	}
	return computeRoot(r.ContentHashes), nil
}

// VerifySignature verifies the creator's JWS over the root hash.
func (r *Request) VerifySignature(key jwk.Key) error {
	if r.Signature == "" {
		return NewSignatureError("signature is required")
	}

	payload, err := identity.VerifyPayload(r.Signature, key)
	if err != nil {
		return WrapSignatureError(err, "signature verification failed")
	}
	if string(payload) != r.RootHash {
		return NewSignatureError("signature payload does not match root hash")
	}
	return nil
}

// propertyDigest hashes the canonical JSON encoding of the single-property
// object {name: value}.
func propertyDigest(name string, value any) (string, error) {
	return crypto.HashJSON(map[string]any{name: value})
}

// saltedHash salts a property digest with its nonce.
func saltedHash(nonce, digest string) string {
	return crypto.SHA256Hex([]byte(nonce + digest))
}

// computeRoot combines sorted salted hashes into the root hash.
func computeRoot(hashes []string) string {
	sorted := make([]string, len(hashes))
	copy(sorted, hashes)
	sort.Strings(sorted)
	return crypto.SHA256Hex([]byte(strings.Join(sorted, "")))
}
