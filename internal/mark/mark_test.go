package mark

import (
	"errors"
	"testing"

	"github.com/35C4n0r/cord-mark/internal/request"
	"github.com/35C4n0r/cord-mark/internal/stream"
)

// newTestMark builds a well-formed mark with placeholder signatures.
// Structural validation only requires signature presence; the cryptographic
// check is exercised in the identity package tests.
func newTestMark(t *testing.T) *Mark {
	t.Helper()

	req, err := request.New(&request.Content{
		SchemaID: "schema:test",
		Creator:  "did:mark:holder",
		Contents: map[string]any{
			"name":     "alice",
			"age":      float64(29),
			"verified": true,
		},
	})
	if err != nil {
		t.Fatalf("request.New() error = %v", err)
	}
	req.Signature = "holder-signature"

	s, err := stream.New(req.RootHash, req.Content.SchemaID, "did:mark:issuer")
	if err != nil {
		t.Fatalf("stream.New() error = %v", err)
	}
	s.Signature = "issuer-signature"

	return &Mark{Content: s, Request: req}
}

func markCode(t *testing.T, err error) ErrorCode {
	t.Helper()
	var markErr *MarkError
	if !errors.As(err, &markErr) {
		t.Fatalf("expected *MarkError, got %T (%v)", err, err)
	}
	return markErr.Code()
}

func TestErrorCheckValidMark(t *testing.T) {
	m := newTestMark(t)
	if err := ErrorCheck(m); err != nil {
		t.Errorf("ErrorCheck() error = %v, want nil", err)
	}
}

func TestErrorCheckMissingContent(t *testing.T) {
	// content absent fails first regardless of the request's state
	cases := []struct {
		name string
		m    *Mark
	}{
		{"nil mark", nil},
		{"nil content with valid request", &Mark{Request: newTestMark(t).Request}},
		{"nil content and nil request", &Mark{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ErrorCheck(tc.m)
			if code := markCode(t, err); code != ErrCodeContentNotProvided {
				t.Errorf("ErrorCheck() code = %v, want %v", code, ErrCodeContentNotProvided)
			}
		})
	}
}

func TestErrorCheckMissingRequest(t *testing.T) {
	m := newTestMark(t)
	m.Request = nil

	err := ErrorCheck(m)
	if code := markCode(t, err); code != ErrCodeRequestNotProvided {
		t.Errorf("ErrorCheck() code = %v, want %v", code, ErrCodeRequestNotProvided)
	}
}

func TestErrorCheckPropagatesNestedFailuresUnchanged(t *testing.T) {
	// a broken request surfaces as a request error, not a mark error
	m := newTestMark(t)
	m.Request.Content.Contents["name"] = "mallory"

	err := ErrorCheck(m)
	var reqErr *request.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *request.RequestError, got %T (%v)", err, err)
	}
	if reqErr.Code() != request.ErrCodeHashMalformed {
		t.Errorf("code = %v, want %v", reqErr.Code(), request.ErrCodeHashMalformed)
	}

	// a broken stream surfaces as a stream error
	m2 := newTestMark(t)
	m2.Content.ID = "stream:bogus"

	err = ErrorCheck(m2)
	var streamErr *stream.StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("expected *stream.StreamError, got %T (%v)", err, err)
	}
}

func TestErrorCheckContentUnverifiable(t *testing.T) {
	// both entities pass their own validation, but the stream anchors a
	// different root than the request commits to
	m := newTestMark(t)

	other, err := stream.New("0000000000000000000000000000000000000000000000000000000000000000",
		m.Request.Content.SchemaID, "did:mark:issuer")
	if err != nil {
		t.Fatalf("stream.New() error = %v", err)
	}
	other.Signature = "issuer-signature"
	m.Content = other

	if err := m.Content.Validate(); err != nil {
		t.Fatalf("substitute stream should be independently valid, got %v", err)
	}

	checkErr := ErrorCheck(m)
	if code := markCode(t, checkErr); code != ErrCodeContentUnverifiable {
		t.Errorf("ErrorCheck() code = %v, want %v", code, ErrCodeContentUnverifiable)
	}
}

func TestVerifyData(t *testing.T) {
	m := newTestMark(t)
	if !VerifyData(m) {
		t.Error("VerifyData() = false for well-formed mark, want true")
	}

	if VerifyData(nil) {
		t.Error("VerifyData(nil) = true, want false")
	}

	// tampered stream root breaks the derivation proof
	m.Content.Root = "1111111111111111111111111111111111111111111111111111111111111111"
	if VerifyData(m) {
		t.Error("VerifyData() = true for mismatched roots, want false")
	}
}
