package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwish/cli/internal/api"
	"github.com/giftwish/cli/internal/domain"
)

func TestUsersService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("sends identity fields when present", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ana@example.com", body["email"])
			assert.Equal(t, "Ana", body["name"])
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "U1"})
		}))
		defer server.Close()

		svc := NewUsers(api.NewClient(server.URL, nil))
		id, err := svc.Create(ctx, "ana@example.com", "Ana")
		require.NoError(t, err)
		assert.Equal(t, "U1", id)
	})

	t.Run("omits the body when nothing is known", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			assert.Empty(t, data)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "U1"})
		}))
		defer server.Close()

		svc := NewUsers(api.NewClient(server.URL, nil))
		_, err := svc.Create(ctx, "", "")
		require.NoError(t, err)
	})
}

func TestUsersService_Update(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/v1/users/U1", r.URL.Path)

		var body struct {
			Name      string `json:"name"`
			Birthdate string `json:"birthdate"`
			Sizes     string `json:"sizes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana", body.Name)
		assert.Equal(t, "1990-04-02T00:00:00Z", body.Birthdate)

		// Sizes ride as a JSON-encoded string, not a nested object.
		var sizes domain.Sizes
		require.NoError(t, json.Unmarshal([]byte(body.Sizes), &sizes))
		assert.Equal(t, "M", sizes.Shirt)

		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	svc := NewUsers(api.NewClient(server.URL, nil))
	birthdate := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	err := svc.Update(context.Background(), "U1", "Ana", "ana@example.com", birthdate, domain.Sizes{Shirt: "M"})
	require.NoError(t, err)
}

func TestUsersService_DeleteMe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/users/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	svc := NewUsers(api.NewClient(server.URL, nil))
	require.NoError(t, svc.DeleteMe(context.Background()))
}
