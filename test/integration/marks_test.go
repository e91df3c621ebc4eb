//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/35C4n0r/cord-mark/internal/mark"
)

func TestAnchorAndQuery(t *testing.T) {
	env := startInProcessServer(t)
	defer env.shutdown()

	m := buildSignedMark(t, env, map[string]any{"name": "alice", "age": 29})

	// anchor the mark
	status, body := postJSON(t, env.baseURL+"/v1/marks/anchor", m)
	if status != http.StatusCreated {
		t.Fatalf("anchor: expected status 201, got %d: %s", status, body)
	}

	var anchorResp struct {
		AnchorID string `json:"anchorId"`
		StreamID string `json:"streamId"`
	}
	if err := json.Unmarshal(body, &anchorResp); err != nil {
		t.Fatalf("failed to decode anchor response: %v", err)
	}
	if anchorResp.StreamID != m.Content.ID {
		t.Errorf("expected stream ID %s, got %s", m.Content.ID, anchorResp.StreamID)
	}
	if anchorResp.AnchorID == "" {
		t.Error("anchor ID is empty")
	}

	// anchoring the same stream again conflicts
	status, _ = postJSON(t, env.baseURL+"/v1/marks/anchor", m)
	if status != http.StatusConflict {
		t.Errorf("duplicate anchor: expected status 409, got %d", status)
	}

	// query it back
	status, body = getJSON(t, env.baseURL+"/v1/marks/"+url.PathEscape(m.Content.ID))
	if status != http.StatusOK {
		t.Fatalf("query: expected status 200, got %d: %s", status, body)
	}

	var got mark.Mark
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("failed to decode queried mark: %v", err)
	}
	if got.Content.ID != m.Content.ID {
		t.Errorf("queried stream ID %s does not match anchored %s", got.Content.ID, m.Content.ID)
	}
	if got.Request.RootHash != m.Request.RootHash {
		t.Errorf("queried root hash does not match anchored mark")
	}
	if got.Content.Revoked {
		t.Error("freshly anchored mark should not be revoked")
	}

	// querying an unknown stream is a 404
	status, _ = getJSON(t, env.baseURL+"/v1/marks/stream:unknown")
	if status != http.StatusNotFound {
		t.Errorf("unknown stream: expected status 404, got %d", status)
	}
}

func TestAnchorRejectsInvalidMark(t *testing.T) {
	env := startInProcessServer(t)
	defer env.shutdown()

	m := buildSignedMark(t, env, map[string]any{"name": "bob"})

	// break the commitment: the stored root no longer matches the request
	m.Content.Root = "0000000000000000000000000000000000000000000000000000000000000000"

	status, body := postJSON(t, env.baseURL+"/v1/marks/anchor", m)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", status, body)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	env := startInProcessServer(t)
	defer env.shutdown()

	verifyURL := env.baseURL + "/v1/marks/verify"

	type verifyResponse struct {
		Verified  bool   `json:"verified"`
		StreamID  string `json:"streamId"`
		ErrorCode string `json:"errorCode"`
	}

	t.Run("valid mark", func(t *testing.T) {
		m := buildSignedMark(t, env, map[string]any{"name": "carol", "age": 41})

		status, body := postJSON(t, verifyURL, map[string]any{"mark": m})
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", status, body)
		}

		var resp verifyResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.Verified {
			t.Errorf("expected verified=true, got error code %s", resp.ErrorCode)
		}
		if resp.StreamID != m.Content.ID {
			t.Errorf("expected stream ID %s, got %s", m.Content.ID, resp.StreamID)
		}
	})

	t.Run("valid mark with signature verification", func(t *testing.T) {
		m := buildSignedMark(t, env, map[string]any{"name": "dave"})

		status, body := postJSON(t, verifyURL, map[string]any{"mark": m, "verifySignatures": true})
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", status, body)
		}

		var resp verifyResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.Verified {
			t.Errorf("expected verified=true, got error code %s", resp.ErrorCode)
		}
	})

	t.Run("missing content", func(t *testing.T) {
		m := buildSignedMark(t, env, map[string]any{"name": "erin"})
		m.Content = nil

		status, body := postJSON(t, verifyURL, map[string]any{"mark": m})
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", status, body)
		}

		var resp verifyResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Verified {
			t.Error("expected verified=false for mark without content")
		}
		if resp.ErrorCode != "content_not_provided" {
			t.Errorf("expected error code content_not_provided, got %s", resp.ErrorCode)
		}
	})

	t.Run("tampered commitment", func(t *testing.T) {
		m := buildSignedMark(t, env, map[string]any{"name": "frank"})
		m.Request.Content.Contents["name"] = "mallory"

		status, body := postJSON(t, verifyURL, map[string]any{"mark": m})
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", status, body)
		}

		var resp verifyResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Verified {
			t.Error("expected verified=false for tampered contents")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		status, _ := postJSON(t, verifyURL, "not a verify request")
		if status != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", status)
		}
	})
}

func TestRevoke(t *testing.T) {
	env := startInProcessServer(t)
	defer env.shutdown()

	m := buildSignedMark(t, env, map[string]any{"name": "grace", "age": 33})

	status, body := postJSON(t, env.baseURL+"/v1/marks/anchor", m)
	if status != http.StatusCreated {
		t.Fatalf("anchor: expected status 201, got %d: %s", status, body)
	}

	markURL := env.baseURL + "/v1/marks/" + url.PathEscape(m.Content.ID)

	// revoking without the issuer DID header is rejected
	if status := doDelete(t, markURL, nil); status != http.StatusBadRequest {
		t.Errorf("missing header: expected status 400, got %d", status)
	}

	// a different DID cannot revoke the anchor
	if status := doDelete(t, markURL, map[string]string{"X-Issuer-DID": env.creatorDID}); status != http.StatusForbidden {
		t.Errorf("wrong issuer: expected status 403, got %d", status)
	}

	// the issuing DID can
	if status := doDelete(t, markURL, map[string]string{"X-Issuer-DID": env.issuerDID}); status != http.StatusNoContent {
		t.Errorf("revoke: expected status 204, got %d", status)
	}

	// the queried mark now reports revoked
	status, body = getJSON(t, markURL)
	if status != http.StatusOK {
		t.Fatalf("query after revoke: expected status 200, got %d: %s", status, body)
	}

	var got mark.Mark
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("failed to decode queried mark: %v", err)
	}
	if !got.Content.Revoked {
		t.Error("expected revoked=true after revocation")
	}

	// revoking an unknown stream is a 404
	unknownURL := env.baseURL + "/v1/marks/stream:unknown"
	if status := doDelete(t, unknownURL, map[string]string{"X-Issuer-DID": env.issuerDID}); status != http.StatusNotFound {
		t.Errorf("unknown stream: expected status 404, got %d", status)
	}
}
