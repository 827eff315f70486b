package transport

import (
	"net/http"
	"testing"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	// Should not have any authentication headers
	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

// TestBearerAuth tests Bearer token authentication.
func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{Token: "test-token"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	authHeader := req.Header.Get("Authorization")
	expected := "Bearer test-token"
	if authHeader != expected {
		t.Errorf("Expected Authorization header '%s', got '%s'", expected, authHeader)
	}
}

// TestBearerAuthEmptyToken tests that an empty token sets no header.
func TestBearerAuthEmptyToken(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&BearerAuth{}).Apply(req)
	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}

// TestBasicAuth tests HTTP basic authentication.
func TestBasicAuth(t *testing.T) {
	auth := &BasicAuth{Username: "api", Password: "secret"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	user, pass, ok := req.BasicAuth()
	if !ok {
		t.Fatal("Expected basic auth credentials")
	}
	if user != "api" || pass != "secret" {
		t.Errorf("Expected api/secret, got %s/%s", user, pass)
	}
}

// TestHeaderAuth tests custom header authentication.
func TestHeaderAuth(t *testing.T) {
	auth := &HeaderAuth{Header: "x-api-key", Value: "test-api-key"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	headerValue := req.Header.Get("x-api-key")
	if headerValue != "test-api-key" {
		t.Errorf("Expected x-api-key header 'test-api-key', got '%s'", headerValue)
	}

	// Should not have Authorization header
	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}
