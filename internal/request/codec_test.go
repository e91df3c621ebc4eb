package request

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	r := newTestRequest(t)

	c, err := Compress(r)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	got, err := Decompress(c)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}

	if !reflect.DeepEqual(got, r) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, r)
	}
}

func TestCompressRejectsMalformedRequest(t *testing.T) {
	r := newTestRequest(t)
	r.Signature = ""

	if _, err := Compress(r); err == nil {
		t.Error("Compress() of unsigned request expected error, got nil")
	}
}

func TestCompressedJSONIsOrderedArray(t *testing.T) {
	r := newTestRequest(t)

	c, err := Compress(r)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		t.Fatalf("wire form is not a JSON array: %v", err)
	}
	if len(parts) != 7 {
		t.Fatalf("wire form has %d elements, want 7", len(parts))
	}

	// position 0 is the schema ID, position 5 the root hash
	var schemaID string
	if err := json.Unmarshal(parts[0], &schemaID); err != nil || schemaID != r.Content.SchemaID {
		t.Errorf("position 0 = %s, want schema ID %q", parts[0], r.Content.SchemaID)
	}
	var root string
	if err := json.Unmarshal(parts[5], &root); err != nil || root != r.RootHash {
		t.Errorf("position 5 = %s, want root hash %q", parts[5], r.RootHash)
	}

	var decoded Compressed
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	back, err := Decompress(&decoded)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if err := back.Validate(); err != nil {
		t.Errorf("Validate() after JSON round trip error = %v, want nil", err)
	}
}

func TestUnmarshalRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty array", `[]`},
		{"short array", `["schema:test", "did:mark:holder"]`},
		{"long array", `["a","b",{},[],{},"c","d","extra"]`},
		{"object", `{"schemaId": "schema:test"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Compressed
			err := json.Unmarshal([]byte(tc.input), &c)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := requestCode(t, err); code != ErrCodeDecompression {
				t.Errorf("code = %v, want %v", code, ErrCodeDecompression)
			}
			if !strings.Contains(err.Error(), "Request") {
				t.Errorf("error %q should name the Request entity", err.Error())
			}
		})
	}
}
