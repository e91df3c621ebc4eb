package mark

import (
	"context"

	"github.com/35C4n0r/cord-mark/internal/schema"
)

// VerifyStructure checks that a mark's attested contents conform to a schema.
//
// The mark is gated through full ErrorCheck first (failing exactly as
// ErrorCheck fails on malformed input), then the nested claim properties are
// forwarded to the schema matcher. The matcher's verdict is returned
// unchanged; this function adds no matching logic of its own.
func VerifyStructure(ctx context.Context, m *Mark, sc *schema.Schema) (bool, error) {
	if err := ErrorCheck(m); err != nil {
		return false, err
	}
	if sc == nil {
		return false, schema.NewDefinitionError("schema is required")
	}

	return schema.VerifyContentProperties(ctx, m.Request.Content.Contents, sc.Schema)
}
