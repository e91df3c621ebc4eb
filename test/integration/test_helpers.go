//go:build integration

// functions that are useful in integration tests

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/35C4n0r/cord-mark/internal/mark"
	"github.com/35C4n0r/cord-mark/internal/request"
	"github.com/35C4n0r/cord-mark/internal/schema"
)

// buildSignedMark creates a fully valid mark: the request is signed with the
// creator key and the content stream is issued and signed with the issuer key.
func buildSignedMark(t *testing.T, env *testEnv, contents map[string]any) *mark.Mark {
	t.Helper()

	sc, err := schema.New(schema.Definition{
		Title: "person",
		Properties: map[string]schema.PropertyType{
			"name": schema.TypeString,
			"age":  schema.TypeInteger,
		},
		Required: []string{"name"},
	}, env.creatorDID)
	if err != nil {
		t.Fatalf("Failed to build schema: %v", err)
	}

	req, err := request.New(&request.Content{
		SchemaID: sc.ID,
		Creator:  env.creatorDID,
		Contents: contents,
	})
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}

	if err := req.Sign(env.creatorKeys.PrivateKey); err != nil {
		t.Fatalf("Failed to sign request: %v", err)
	}

	m, err := mark.Issue(req, env.issuerDID, env.issuerKeys.PrivateKey)
	if err != nil {
		t.Fatalf("Failed to issue mark: %v", err)
	}

	return m
}

// postJSON sends a POST with a JSON body and returns the response status and body.
func postJSON(t *testing.T, url string, body any) (int, []byte) {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to encode request body: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	return resp.StatusCode, respBody
}

// getJSON sends a GET and returns the response status and body.
func getJSON(t *testing.T, url string) (int, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	return resp.StatusCode, respBody
}

// doDelete sends a DELETE with optional headers and returns the response status.
func doDelete(t *testing.T, url string, headers map[string]string) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		t.Fatalf("Failed to create DELETE request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode
}
