package request

// codec.go implements the compact wire form of a Request.
//
// The compressed form is a strictly ordered 7-element array:
//
//	[schemaId, creator, contents, contentHashes, contentNonceMap, rootHash, signature]
//
// The ordering is a wire-format contract; it must not change without a
// version bump.

import (
	"encoding/json"
)

const compressedFieldCount = 7

// Compressed is the positional array form of a Request.
type Compressed struct {
	SchemaID      string
	Creator       string
	Contents      map[string]any
	ContentHashes []string
	NonceMap      map[string]string
	RootHash      string
	Signature     string
}

// MarshalJSON encodes the compressed request as the ordered array.
func (c Compressed) MarshalJSON() ([]byte, error) {
	return json.Marshal([compressedFieldCount]any{
		c.SchemaID,
		c.Creator,
		c.Contents,
		c.ContentHashes,
		c.NonceMap,
		c.RootHash,
		c.Signature,
	})
}

// UnmarshalJSON decodes the ordered array, rejecting any other shape.
func (c *Compressed) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return WrapDecompressionError(err, "compressed Request must be a JSON array")
	}
	if len(parts) != compressedFieldCount {
		return NewDecompressionError(len(parts))
	}

	targets := []any{
		&c.SchemaID,
		&c.Creator,
		&c.Contents,
		&c.ContentHashes,
		&c.NonceMap,
		&c.RootHash,
		&c.Signature,
	}
	for i, target := range targets {
		if err := json.Unmarshal(parts[i], target); err != nil {
			return WrapDecompressionError(err, "invalid compressed Request element")
		}
	}
	return nil
}

// Compress converts a Request to its compressed form. The request is validated
// first; a malformed request is never compressible.
func Compress(r *Request) (*Compressed, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	return &Compressed{
		SchemaID:      r.Content.SchemaID,
		Creator:       r.Content.Creator,
		Contents:      r.Content.Contents,
		ContentHashes: r.ContentHashes,
		NonceMap:      r.NonceMap,
		RootHash:      r.RootHash,
		Signature:     r.Signature,
	}, nil
}

// Decompress reconstructs the object form from the compressed form. It trusts
// that the input was produced by a matching Compress call and does not
// re-validate.
func Decompress(c *Compressed) (*Request, error) {
	if c == nil {
		return nil, NewDecompressionError(0)
	}

	return &Request{
		Content: &Content{
			SchemaID: c.SchemaID,
			Creator:  c.Creator,
			Contents: c.Contents,
		},
		ContentHashes: c.ContentHashes,
		NonceMap:      c.NonceMap,
		RootHash:      c.RootHash,
		Signature:     c.Signature,
	}, nil
}
