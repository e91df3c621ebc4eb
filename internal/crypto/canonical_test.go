package crypto

import "testing"

func TestCanonicalizeJSON(t *testing.T) {
	input := []byte(`{"b": 2, "a": 1}`)
	want := `{"a":1,"b":2}`

	result, err := CanonicalizeJSON(input)
	if err != nil {
		t.Fatalf("CanonicalizeJSON() error = %v", err)
	}

	if string(result) != want {
		t.Errorf("CanonicalizeJSON() = %v, want %v", string(result), want)
	}
}

func TestCanonicalizeJSONInvalidInput(t *testing.T) {
	if _, err := CanonicalizeJSON([]byte(`{not json`)); err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}
