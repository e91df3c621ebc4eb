package stream

// codec.go implements the compact wire form of a Stream.
//
// The compressed form is a strictly ordered 6-element array:
//
//	[id, root, schemaId, issuer, signature, revoked]
//
// The ordering is a wire-format contract; it must not change without a
// version bump.

import (
	"encoding/json"
)

const compressedFieldCount = 6

// Compressed is the positional array form of a Stream.
type Compressed struct {
	ID        string
	Root      string
	SchemaID  string
	Issuer    string
	Signature string
	Revoked   bool
}

// MarshalJSON encodes the compressed stream as the ordered array.
func (c Compressed) MarshalJSON() ([]byte, error) {
	return json.Marshal([compressedFieldCount]any{
		c.ID,
		c.Root,
		c.SchemaID,
		c.Issuer,
		c.Signature,
		c.Revoked,
	})
}

// UnmarshalJSON decodes the ordered array, rejecting any other shape.
func (c *Compressed) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return WrapDecompressionError(err, "compressed Stream must be a JSON array")
	}
	if len(parts) != compressedFieldCount {
		return NewDecompressionError(len(parts))
	}

	targets := []any{
		&c.ID,
		&c.Root,
		&c.SchemaID,
		&c.Issuer,
		&c.Signature,
		&c.Revoked,
	}
	for i, target := range targets {
		if err := json.Unmarshal(parts[i], target); err != nil {
			return WrapDecompressionError(err, "invalid compressed Stream element")
		}
	}
	return nil
}

// Compress converts a Stream to its compressed form. The stream is validated
// first; a malformed stream is never compressible.
func Compress(s *Stream) (*Compressed, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &Compressed{
		ID:        s.ID,
		Root:      s.Root,
		SchemaID:  s.SchemaID,
		Issuer:    s.Issuer,
		Signature: s.Signature,
		Revoked:   s.Revoked,
	}, nil
}

// Decompress reconstructs the object form from the compressed form. It trusts
// that the input was produced by a matching Compress call and does not
// re-validate.
func Decompress(c *Compressed) (*Stream, error) {
	if c == nil {
		return nil, NewDecompressionError(0)
	}

	return &Stream{
		ID:        c.ID,
		Root:      c.Root,
		SchemaID:  c.SchemaID,
		Issuer:    c.Issuer,
		Signature: c.Signature,
		Revoked:   c.Revoked,
	}, nil
}
