package stream

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/35C4n0r/cord-mark/internal/identity"
)

const testRoot = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func newTestStream(t *testing.T) *Stream {
	t.Helper()
	s, err := New(testRoot, "schema:test", "did:mark:issuer")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Signature = "issuer-signature"
	return s
}

func streamCode(t *testing.T, err error) ErrorCode {
	t.Helper()
	var streamErr *StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("expected *StreamError, got %T (%v)", err, err)
	}
	return streamErr.Code()
}

func TestNewDerivesID(t *testing.T) {
	s := newTestStream(t)

	if s.ID != IDForRoot(testRoot, "did:mark:issuer") {
		t.Errorf("ID = %v, want derivation from root and issuer", s.ID)
	}
	if !strings.HasPrefix(s.ID, IDPrefix) {
		t.Errorf("ID %v should have prefix %v", s.ID, IDPrefix)
	}

	// a different issuer yields a different identity for the same root
	other, err := New(testRoot, "schema:test", "did:mark:other")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if other.ID == s.ID {
		t.Error("streams from different issuers must not share an ID")
	}
}

func TestNewRequiredFields(t *testing.T) {
	if _, err := New("", "schema:test", "did:mark:issuer"); err == nil {
		t.Error("New() without root expected error, got nil")
	}
	if _, err := New(testRoot, "schema:test", ""); err == nil {
		t.Error("New() without issuer expected error, got nil")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *Stream)
		want   ErrorCode
	}{
		{"re-pointed at other root", func(s *Stream) {
			s.Root = "0000000000000000000000000000000000000000000000000000000000000000"
		}, ErrCodeInvalid},
		{"forged id", func(s *Stream) {
			s.ID = "stream:bogus"
		}, ErrCodeInvalid},
		{"substituted issuer", func(s *Stream) {
			s.Issuer = "did:mark:impostor"
		}, ErrCodeInvalid},
		{"missing signature", func(s *Stream) {
			s.Signature = ""
		}, ErrCodeSignature},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStream(t)
			tc.mutate(s)

			err := s.Validate()
			if code := streamCode(t, err); code != tc.want {
				t.Errorf("Validate() code = %v, want %v", code, tc.want)
			}
		})
	}

	if err := newTestStream(t).Validate(); err != nil {
		t.Errorf("Validate() of well-formed stream error = %v, want nil", err)
	}
}

func TestSignAndVerifySignature(t *testing.T) {
	pair, err := identity.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	s, err := New(testRoot, "schema:test", "did:mark:issuer")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.Sign(pair.PrivateKey); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if err := s.VerifySignature(pair.PublicKey); err != nil {
		t.Errorf("VerifySignature() error = %v, want nil", err)
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	s := newTestStream(t)
	s.Revoked = true

	c, err := Compress(s)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	got, err := Decompress(c)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}

	if !reflect.DeepEqual(got, s) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, s)
	}
}

func TestUnmarshalRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty array", `[]`},
		{"short array", `["stream:x", "root"]`},
		{"long array", `["a","b","c","d","e",false,"extra"]`},
		{"object", `{"id": "stream:x"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Compressed
			err := json.Unmarshal([]byte(tc.input), &c)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := streamCode(t, err); code != ErrCodeDecompression {
				t.Errorf("code = %v, want %v", code, ErrCodeDecompression)
			}
			if !strings.Contains(err.Error(), "Stream") {
				t.Errorf("error %q should name the Stream entity", err.Error())
			}
		})
	}
}
