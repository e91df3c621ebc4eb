package mark

// codec.go implements the compact wire form of a Mark.
//
// The compressed form is a strictly ordered 2-element array:
//
//	[compressedRequest, compressedContent]
//
// Positional, not keyed: position 0 is always the request's compressed form,
// position 1 always the content stream's. No extra elements, no reordering
// tolerance. The ordering is a wire-format contract; it must not change
// without a version bump.

import (
	"encoding/json"

	"github.com/35C4n0r/cord-mark/internal/request"
	"github.com/35C4n0r/cord-mark/internal/stream"
)

// Compressed is the ordered wire pair form of a Mark.
type Compressed struct {
	Request *request.Compressed
	Content *stream.Compressed
}

// MarshalJSON encodes the compressed mark as the ordered pair.
func (c Compressed) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.Request, c.Content})
}

// UnmarshalJSON decodes the ordered pair, rejecting any other shape with
// ErrCodeDecompression. Element-level failures raised by the nested codecs
// propagate unchanged.
func (c *Compressed) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return WrapDecompressionError(err, "compressed Mark must be a JSON array")
	}
	if len(parts) != 2 {
		return NewDecompressionError(len(parts))
	}

	var req request.Compressed
	if err := json.Unmarshal(parts[0], &req); err != nil {
		return err
	}

	var content stream.Compressed
	if err := json.Unmarshal(parts[1], &content); err != nil {
		return err
	}

	c.Request = &req
	c.Content = &content
	return nil
}

// Compress converts a mark to its compressed form. ErrorCheck runs first; a
// malformed mark is never compressible, so the wire format only ever encodes
// valid data.
func Compress(m *Mark) (*Compressed, error) {
	if err := ErrorCheck(m); err != nil {
		return nil, err
	}

	req, err := request.Compress(m.Request)
	if err != nil {
		return nil, err
	}

	content, err := stream.Compress(m.Content)
	if err != nil {
		return nil, err
	}

	return &Compressed{Request: req, Content: content}, nil
}

// Decompress reconstructs the object form from the compressed form.
//
// Decompression trusts that its input was produced by a matching Compress
// call: it does not re-run ErrorCheck on the result. Ingestion paths that
// cannot rely on that (data from storage or the network) should use
// DecompressVerified instead.
func Decompress(c *Compressed) (*Mark, error) {
	if c == nil {
		return nil, NewDecompressionError(0)
	}

	req, err := request.Decompress(c.Request)
	if err != nil {
		return nil, err
	}

	content, err := stream.Decompress(c.Content)
	if err != nil {
		return nil, err
	}

	return &Mark{Content: content, Request: req}, nil
}

// DecompressVerified decompresses and then runs ErrorCheck on the result,
// closing the gap where a corrupted-but-shape-valid pair decompresses into an
// invalid mark without error.
func DecompressVerified(c *Compressed) (*Mark, error) {
	m, err := Decompress(c)
	if err != nil {
		return nil, err
	}
	if err := ErrorCheck(m); err != nil {
		return nil, err
	}
	return m, nil
}

// DecompressJSON decodes a compressed mark from its JSON encoding and
// reconstructs the object form.
func DecompressJSON(data []byte) (*Mark, error) {
	var c Compressed
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return Decompress(&c)
}
