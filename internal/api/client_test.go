package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeTokens hands out tokens in order and records every forceRefresh
// value it was asked for.
type fakeTokens struct {
	tokens []string
	calls  []bool
}

func (f *fakeTokens) Token(ctx context.Context, forceRefresh bool) (string, error) {
	f.calls = append(f.calls, forceRefresh)
	i := len(f.calls) - 1
	if i >= len(f.tokens) {
		i = len(f.tokens) - 1
	}
	return f.tokens[i], nil
}

func TestNewClient(t *testing.T) {
	t.Run("appends versioned api prefix", func(t *testing.T) {
		client := NewClient("http://localhost:8787/", nil)
		if client.BaseURL != "http://localhost:8787/api/v1" {
			t.Errorf("expected BaseURL 'http://localhost:8787/api/v1', got %s", client.BaseURL)
		}
	})

	t.Run("removes trailing slashes", func(t *testing.T) {
		client := NewClient("http://example.com///", nil)
		if client.BaseURL != "http://example.com/api/v1" {
			t.Errorf("expected BaseURL 'http://example.com/api/v1', got %s", client.BaseURL)
		}
	})

	t.Run("sets default HTTP client timeout", func(t *testing.T) {
		client := NewClient("http://localhost:8787", nil)
		if client.HTTPClient == nil || client.HTTPClient.Timeout == 0 {
			t.Error("expected HTTPClient with a timeout")
		}
	})
}

func TestClient_Do(t *testing.T) {
	t.Run("sets default headers and bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("expected Accept 'application/json', got %s", r.Header.Get("Accept"))
			}
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				t.Errorf("expected Authorization 'Bearer tok-1', got %s", r.Header.Get("Authorization"))
			}
			if r.Header.Get("Content-Type") != "" {
				t.Errorf("expected no Content-Type on bodyless request, got %s", r.Header.Get("Content-Type"))
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}))
		defer server.Close()

		client := NewClient(server.URL, &fakeTokens{tokens: []string{"tok-1"}})
		var out map[string]string
		if err := client.Do(context.Background(), Get("/health"), &out); err != nil {
			t.Fatalf("Do() returned error: %v", err)
		}
		if out["status"] != "ok" {
			t.Errorf("expected status 'ok', got %s", out["status"])
		}
	})

	t.Run("sets content type and body for json payloads", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("expected Content-Type 'application/json', got %s", r.Header.Get("Content-Type"))
			}
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("failed to decode request body: %v", err)
			}
			if body["name"] != "Lego" {
				t.Errorf("expected name 'Lego', got %s", body["name"])
			}
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "123"})
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		req := NewRequest(http.MethodPost, "/test").WithJSON(map[string]string{"name": "Lego"})
		var out map[string]string
		if err := client.Do(context.Background(), req, &out); err != nil {
			t.Fatalf("Do() returned error: %v", err)
		}
		if out["id"] != "123" {
			t.Errorf("expected id '123', got %s", out["id"])
		}
	})

	t.Run("appends query parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("limit") != "10" {
				t.Errorf("expected limit=10, got %s", r.URL.Query().Get("limit"))
			}
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		if err := client.Do(context.Background(), Get("/test").WithQuery("limit", "10"), nil); err != nil {
			t.Fatalf("Do() returned error: %v", err)
		}
	})

	t.Run("caller headers override defaults", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/xml" {
				t.Errorf("expected overridden Accept 'application/xml', got %s", r.Header.Get("Accept"))
			}
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		req := Get("/test").WithHeader("Accept", "application/xml")
		if err := client.Do(context.Background(), req, nil); err != nil {
			t.Fatalf("Do() returned error: %v", err)
		}
	})

	t.Run("defaults method to GET", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		if err := client.Do(context.Background(), Request{Path: "/test"}, nil); err != nil {
			t.Fatalf("Do() returned error: %v", err)
		}
	})
}

func TestClient_RetryOn401(t *testing.T) {
	t.Run("retries exactly once with a force-refreshed token", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}))
		defer server.Close()

		tokens := &fakeTokens{tokens: []string{"stale", "fresh"}}
		client := NewClient(server.URL, tokens)
		var out map[string]string
		if err := client.Do(context.Background(), Get("/health"), &out); err != nil {
			t.Fatalf("Do() returned error: %v", err)
		}
		if requests != 2 {
			t.Errorf("expected 2 requests, got %d", requests)
		}
		if len(tokens.calls) != 2 || tokens.calls[0] || !tokens.calls[1] {
			t.Errorf("expected token calls [false true], got %v", tokens.calls)
		}
	})

	t.Run("never retries more than once", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		var unauthorized int
		client := NewClient(server.URL, &fakeTokens{tokens: []string{"stale"}})
		client.OnUnauthorized = func() { unauthorized++ }

		err := client.Do(context.Background(), Get("/bootstrap"), nil)
		if !IsUnauthorized(err) {
			t.Fatalf("expected unauthorized APIError, got %v", err)
		}
		if requests != 2 {
			t.Errorf("expected 2 requests, got %d", requests)
		}
		if unauthorized != 1 {
			t.Errorf("expected OnUnauthorized to fire once, got %d", unauthorized)
		}
	})

	t.Run("does not retry without a token source", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		err := client.Do(context.Background(), Get("/bootstrap"), nil)
		if !IsUnauthorized(err) {
			t.Fatalf("expected unauthorized APIError, got %v", err)
		}
		if requests != 1 {
			t.Errorf("expected 1 request, got %d", requests)
		}
	})

	t.Run("no unauthorized signal when the retry succeeds", func(t *testing.T) {
		first := true
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if first {
				first = false
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer server.Close()

		var unauthorized int
		client := NewClient(server.URL, &fakeTokens{tokens: []string{"stale", "fresh"}})
		client.OnUnauthorized = func() { unauthorized++ }

		if err := client.Do(context.Background(), Get("/bootstrap"), nil); err != nil {
			t.Fatalf("Do() returned error: %v", err)
		}
		if unauthorized != 0 {
			t.Errorf("expected no unauthorized signal, got %d", unauthorized)
		}
	})
}

func TestClient_Errors(t *testing.T) {
	t.Run("decodes the error envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"no such user"},"reqId":"req-42"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		err := client.Do(context.Background(), Get("/bootstrap"), nil)
		if !IsNotFound(err) {
			t.Fatalf("expected NOT_FOUND APIError, got %v", err)
		}
		apiErr := err.(*APIError)
		if apiErr.Message != "no such user" {
			t.Errorf("expected message 'no such user', got %q", apiErr.Message)
		}
		if apiErr.ReqID != "req-42" {
			t.Errorf("expected reqId 'req-42', got %q", apiErr.ReqID)
		}
	})

	t.Run("falls back to raw body for non-json errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream exploded"))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		err := client.Do(context.Background(), Get("/test"), nil)
		apiErr, ok := err.(*APIError)
		if !ok {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.Code != "HTTP_502" {
			t.Errorf("expected code HTTP_502, got %s", apiErr.Code)
		}
		if apiErr.Message != "upstream exploded" {
			t.Errorf("expected raw body as message, got %q", apiErr.Message)
		}
	})

	t.Run("empty error body produces a placeholder message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		err := client.Do(context.Background(), Get("/test"), nil)
		apiErr, ok := err.(*APIError)
		if !ok {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.Message != "Unknown error" {
			t.Errorf("expected 'Unknown error', got %q", apiErr.Message)
		}
	})

	t.Run("undecodable success body is a DecodeError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json at all"))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		var out map[string]string
		err := client.Do(context.Background(), Get("/test"), &out)
		if _, ok := err.(*DecodeError); !ok {
			t.Fatalf("expected DecodeError, got %T (%v)", err, err)
		}
	})

	t.Run("transport failure is neither APIError nor DecodeError", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", nil)
		err := client.Do(context.Background(), Get("/test"), nil)
		if err == nil {
			t.Fatal("expected transport error")
		}
		if _, ok := err.(*APIError); ok {
			t.Error("transport failure must not be an APIError")
		}
		if _, ok := err.(*DecodeError); ok {
			t.Error("transport failure must not be a DecodeError")
		}
	})
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Status: 404, Code: "NOT_FOUND", Message: "no such kid"}
	if err.Error() != "api: 404 [NOT_FOUND] no such kid" {
		t.Errorf("unexpected error string: %q", err.Error())
	}
	err.ReqID = "req-7"
	if err.Error() != "api: 404 [NOT_FOUND] no such kid (reqId req-7)" {
		t.Errorf("unexpected error string with reqId: %q", err.Error())
	}
}
