package schema

// matcher.go delegates structural matching to the goskema validation engine.
//
// A Definition is translated into a goskema object schema with a strict
// unknown policy: contents may only carry declared properties, required
// properties must be present, and every value must match its declared
// primitive type.

import (
	"context"
	"encoding/json"
	"fmt"

	goskema "github.com/reoring/goskema"
	"github.com/reoring/goskema/dsl"
)

// VerifyContentProperties reports whether contents structurally match the
// definition. A malformed definition is an error; contents that merely fail
// to match yield (false, nil).
func VerifyContentProperties(ctx context.Context, contents map[string]any, def Definition) (bool, error) {
	s, err := buildSchema(def)
	if err != nil {
		return false, err
	}

	raw, err := json.Marshal(contents)
	if err != nil {
		return false, WrapInternalError(err, "failed to encode contents")
	}

	if _, err := goskema.ParseFrom(ctx, s, goskema.JSONBytes(raw)); err != nil {
		return false, nil
	}
	return true, nil
}

// buildSchema translates a Definition into a goskema object schema.
func buildSchema(def Definition) (goskema.Schema[map[string]any], error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	b := dsl.Object()

	var integerProps []string
	for name, typ := range def.Properties {
		switch typ {
		case TypeString:
			b.Field(name, dsl.SchemaOf[string](dsl.String()))
		case TypeBoolean:
			b.Field(name, dsl.SchemaOf[bool](dsl.Bool()))
		case TypeNumber:
			b.Field(name, dsl.SchemaOf[json.Number](dsl.NumberJSON()))
		case TypeInteger:
			b.Field(name, dsl.SchemaOf[json.Number](dsl.NumberJSON()))
			integerProps = append(integerProps, name)
		}
	}

	if len(def.Required) > 0 {
		b.Require(def.Required...)
	}

	if len(integerProps) > 0 {
		props := integerProps
		b.Refine("integer_properties", func(_ context.Context, m map[string]any) error {
			for _, name := range props {
				num, ok := m[name].(json.Number)
				if !ok {
					continue
				}
				if _, err := num.Int64(); err != nil {
					return fmt.Errorf("property %s must be an integer", name)
				}
			}
			return nil
		})
	}

	s, err := b.Build()
	if err != nil {
		return nil, WrapInternalError(err, "failed to build schema")
	}
	return s, nil
}
