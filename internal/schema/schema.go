// Package schema implements the structural contract attested contents are
// checked against.
//
// The definition language is deliberately small: named properties with
// primitive types and a required set. Structural matching is delegated to the
// goskema validation engine (see matcher.go); this package only describes the
// contract and derives schema identifiers.
package schema

import (
	"github.com/35C4n0r/cord-mark/internal/crypto"
)

// PropertyType is the type of a single schema property.
type PropertyType string

const (
	TypeString  PropertyType = "string"
	TypeNumber  PropertyType = "number"
	TypeInteger PropertyType = "integer"
	TypeBoolean PropertyType = "boolean"
)

// IDPrefix namespaces schema identifiers.
const IDPrefix = "schema:"

// Definition is the structural contract: permitted properties, their types,
// and which of them must be present. Properties not declared here are
// rejected.
type Definition struct {
	Title      string                  `json:"title,omitempty"`
	Properties map[string]PropertyType `json:"properties"`
	Required   []string                `json:"required,omitempty"`
}

// Validate checks that the definition is well-formed: at least one property,
// known types only, and required names that are actually declared.
func (d *Definition) Validate() error {
	if len(d.Properties) == 0 {
		return NewDefinitionError("definition must declare at least one property")
	}

	for name, typ := range d.Properties {
		switch typ {
		case TypeString, TypeNumber, TypeInteger, TypeBoolean:
		default:
			return NewDefinitionError("unknown type " + string(typ) + " for property " + name)
		}
	}

	for _, name := range d.Required {
		if _, ok := d.Properties[name]; !ok {
			return NewDefinitionError("required property " + name + " is not declared")
		}
	}

	return nil
}

// Schema pairs a definition with its derived identifier and creator.
type Schema struct {
	ID      string     `json:"id"`
	Creator string     `json:"creator,omitempty"`
	Schema  Definition `json:"schema"`
}

// New builds a Schema, deriving the identifier from the canonical JSON digest
// of the definition so equivalent definitions share an identity.
func New(def Definition, creator string) (*Schema, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	digest, err := crypto.HashJSON(def)
	if err != nil {
		return nil, WrapInternalError(err, "failed to digest definition")
	}

	return &Schema{
		ID:      IDPrefix + digest,
		Creator: creator,
		Schema:  def,
	}, nil
}
