package mark

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestCompressRejectsMalformedMark(t *testing.T) {
	if _, err := Compress(&Mark{}); err == nil {
		t.Error("Compress() of malformed mark expected error, got nil")
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	m := newTestMark(t)

	c, err := Compress(m)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	got, err := Decompress(c)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}

	if !reflect.DeepEqual(got, m) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, m)
	}
}

func TestCompressedWireFormat(t *testing.T) {
	m := newTestMark(t)

	c, err := Compress(m)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	// the wire form is a 2-element array: request first, content second
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		t.Fatalf("wire form is not a JSON array: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("wire form has %d elements, want 2", len(parts))
	}

	var reqParts []json.RawMessage
	if err := json.Unmarshal(parts[0], &reqParts); err != nil || len(reqParts) != 7 {
		t.Errorf("position 0 should be the 7-element compressed request, got %s", parts[0])
	}

	var streamParts []json.RawMessage
	if err := json.Unmarshal(parts[1], &streamParts); err != nil || len(streamParts) != 6 {
		t.Errorf("position 1 should be the 6-element compressed stream, got %s", parts[1])
	}
}

func TestJSONRoundTrip(t *testing.T) {
	m := newTestMark(t)

	c, err := Compress(m)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	got, err := DecompressJSON(data)
	if err != nil {
		t.Fatalf("DecompressJSON() error = %v", err)
	}

	if !reflect.DeepEqual(got, m) {
		t.Errorf("JSON round trip mismatch:\ngot  %+v\nwant %+v", got, m)
	}

	// the reconstructed mark is well-formed
	if err := ErrorCheck(got); err != nil {
		t.Errorf("ErrorCheck() after round trip error = %v, want nil", err)
	}
}

func TestDecompressRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty array", `[]`},
		{"one element", `[["s", "c", {}, [], {}, "r", "sig"]]`},
		{"three elements", `[[], [], []]`},
		{"object", `{"request": [], "content": []}`},
		{"scalar", `42`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecompressJSON([]byte(tc.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if code := markCode(t, err); code != ErrCodeDecompression {
				t.Errorf("code = %v, want %v", code, ErrCodeDecompression)
			}

			// the entity name is included for diagnosability
			if !strings.Contains(err.Error(), "Mark") {
				t.Errorf("error %q should name the Mark entity", err.Error())
			}
		})
	}
}

func TestDecompressNilInput(t *testing.T) {
	if _, err := Decompress(nil); err == nil {
		t.Error("Decompress(nil) expected error, got nil")
	}
}

func TestDecompressDoesNotRevalidate(t *testing.T) {
	// a corrupted-but-shape-valid pair decompresses without error;
	// DecompressVerified closes the gap
	m := newTestMark(t)
	c, err := Compress(m)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	c.Content.Root = "2222222222222222222222222222222222222222222222222222222222222222"

	if _, err := Decompress(c); err != nil {
		t.Errorf("Decompress() of corrupted pair error = %v, want nil", err)
	}

	if _, err := DecompressVerified(c); err == nil {
		t.Error("DecompressVerified() of corrupted pair expected error, got nil")
	}
}
