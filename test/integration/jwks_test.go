//go:build integration

package integration

import (
	"crypto/ed25519"
	"io"
	"net/http"
	"testing"

	"github.com/lestrrat-go/jwx/v3/jwk"
)

func TestJWKSEndpoint(t *testing.T) {
	env := startInProcessServer(t)
	defer env.shutdown()

	jwksURL := env.baseURL + "/.well-known/jwks.json"

	resp, err := http.Get(jwksURL)
	if err != nil {
		t.Fatalf("failed to fetch JWKS endpoint: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	set, err := jwk.Parse(body)
	if err != nil {
		t.Fatalf("failed to parse JWKS: %v", err)
	}

	if set.Len() != 1 {
		t.Fatalf("expected 1 key in JWKS, got %d", set.Len())
	}

	key, ok := set.Key(0)
	if !ok {
		t.Fatal("failed to get key from JWKS")
	}

	keyID, ok := key.KeyID()
	if !ok || keyID == "" {
		t.Error("kid is empty")
	}

	if keyUsage, ok := key.KeyUsage(); !ok || keyUsage == "" {
		t.Error("use is empty")
	}

	if alg, ok := key.Algorithm(); !ok || alg.String() == "" {
		t.Error("alg is empty")
	}

	// the served key must be a public Ed25519 key, never the private half
	var rawKey any
	if err := jwk.Export(key, &rawKey); err != nil {
		t.Fatalf("failed to convert to raw key: %v", err)
	}
	if _, ok := rawKey.(ed25519.PublicKey); !ok {
		t.Errorf("expected an Ed25519 public key, got %T", rawKey)
	}
}
