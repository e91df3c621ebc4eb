package request

// Content is the claim being attested: a set of named properties bound to a
// schema and the DID of the party making the claim.
type Content struct {

	// SchemaID identifies the schema the contents are expected to conform to.
	SchemaID string `json:"schemaId"`

	// Creator is the DID of the claim holder.
	Creator string `json:"creator"`

	// Contents holds the claim properties. Values must be JSON-encodable.
	Contents map[string]any `json:"contents"`
}

// Validate checks that all required claim fields are present.
func (c *Content) Validate() error {
	if c.SchemaID == "" {
		return NewContentMissingError("schemaId is required")
	}
	if c.Creator == "" {
		return NewContentMissingError("creator is required")
	}
	if len(c.Contents) == 0 {
		return NewContentMissingError("contents must contain at least one property")
	}
	return nil
}
