// Package mark implements the mark: the composite attestation record pairing
// a content stream with the request that produced it.
//
// A mark is well-formed only if the content stream and the request each pass
// their own structural validation, and the pair passes the cross-entity check
// proving the content was legitimately derived from the request (matching
// root hashes and identifier derivation).
//
// All operations in this package are pure functions over their arguments:
// no shared state, no I/O, no mutation of inputs. They are safe to invoke
// concurrently without coordination.
package mark

import (
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/35C4n0r/cord-mark/internal/request"
	"github.com/35C4n0r/cord-mark/internal/stream"
)

// Mark is the aggregate attestation record in object form.
type Mark struct {

	// Content is the content stream: the attested artifact.
	Content *stream.Stream `json:"content"`

	// Request is the content-stream request the content was issued from.
	Request *request.Request `json:"request"`
}

// ErrorCheck validates a mark, returning nil when it is well-formed.
//
// Validation runs in a fixed order and short-circuits at the first failure:
//
//  1. content absent -> ErrCodeContentNotProvided; otherwise the content
//     stream's own validation, propagated unchanged
//  2. request absent -> ErrCodeRequestNotProvided; otherwise the request's
//     own validation, propagated unchanged
//  3. cross-entity check (VerifyData) false -> ErrCodeContentUnverifiable
//
// Callers treat validation as a gate: nothing after the first broken
// invariant is checked.
func ErrorCheck(m *Mark) error {
	if m == nil || m.Content == nil {
		return NewContentNotProvidedError()
	}
	if err := m.Content.Validate(); err != nil {
		return err
	}

	if m.Request == nil {
		return NewRequestNotProvidedError()
	}
	if err := m.Request.Validate(); err != nil {
		return err
	}

	if !VerifyData(m) {
		return NewContentUnverifiableError()
	}

	return nil
}

// VerifyData reports whether the content stream legitimately derives from the
// request: the root recomputed from the request's property hashes must match
// both recorded roots, and the stream identifier must match its derivation.
func VerifyData(m *Mark) bool {
	if m == nil || m.Content == nil || m.Request == nil {
		return false
	}

	root, err := m.Request.RecomputeRoot()
	if err != nil {
		return false
	}

	if root != m.Request.RootHash {
		return false
	}
	if m.Content.Root != root {
		return false
	}
	return m.Content.ID == stream.IDForRoot(root, m.Content.Issuer)
}

// Issue creates a mark from a signed request: it builds the content stream
// over the request's root hash, signs it with the issuer's key, and pairs the
// two. The issued mark passes ErrorCheck by construction.
func Issue(r *request.Request, issuerDID string, issuerKey jwk.Key) (*Mark, error) {
	if r == nil {
		return nil, NewRequestNotProvidedError()
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	s, err := stream.New(r.RootHash, r.Content.SchemaID, issuerDID)
	if err != nil {
		return nil, err
	}
	if err := s.Sign(issuerKey); err != nil {
		return nil, err
	}

	return &Mark{Content: s, Request: r}, nil
}
