package identity

import (
	"strings"
	"testing"
)

func TestGenerateKeyPair(t *testing.T) {
	pair, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	if pair.KeyID == "" {
		t.Error("expected non-empty key ID")
	}

	kid, ok := pair.PublicKey.KeyID()
	if !ok || kid != pair.KeyID {
		t.Errorf("public key kid = %v, want %v", kid, pair.KeyID)
	}

	kid, ok = pair.PrivateKey.KeyID()
	if !ok || kid != pair.KeyID {
		t.Errorf("private key kid = %v, want %v", kid, pair.KeyID)
	}
}

func TestDIDRoundTrip(t *testing.T) {
	pair, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	did, err := DIDFromKey(pair.PublicKey)
	if err != nil {
		t.Fatalf("DIDFromKey() error = %v", err)
	}
	if !strings.HasPrefix(did, DIDPrefix) {
		t.Errorf("DID %v does not have prefix %v", did, DIDPrefix)
	}

	kid, err := KeyIDFromDID(did)
	if err != nil {
		t.Fatalf("KeyIDFromDID() error = %v", err)
	}
	if kid != pair.KeyID {
		t.Errorf("KeyIDFromDID() = %v, want %v", kid, pair.KeyID)
	}
}

func TestKeyIDFromDIDRejectsOtherMethods(t *testing.T) {
	cases := []string{
		"did:web:example.com",
		"did:mark:",
		"not-a-did",
		"",
	}
	for _, did := range cases {
		if _, err := KeyIDFromDID(did); err == nil {
			t.Errorf("KeyIDFromDID(%q) expected error, got nil", did)
		}
	}
}

func TestSignAndVerifyPayload(t *testing.T) {
	pair, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	payload := []byte("root-hash-value")

	token, err := SignPayload(payload, pair.PrivateKey)
	if err != nil {
		t.Fatalf("SignPayload() error = %v", err)
	}

	got, err := VerifyPayload(token, pair.PublicKey)
	if err != nil {
		t.Fatalf("VerifyPayload() error = %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("VerifyPayload() = %q, want %q", got, payload)
	}

	// verification with an unrelated key must fail
	other, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}
	if _, err := VerifyPayload(token, other.PublicKey); err == nil {
		t.Error("expected verification failure with wrong key, got nil")
	}
}
