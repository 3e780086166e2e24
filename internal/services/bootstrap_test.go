package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwish/cli/internal/api"
)

const bootstrapBody = `{
	"currentUser": {"id": "U1", "name": "Ana", "email": "ana@example.com", "birthdate": "1990-04-02", "sizes": {"shirt": "M"}},
	"groups": [{
		"id": "11111111-1111-1111-1111-111111111111",
		"name": "Family",
		"isAdmin": true,
		"members": [{
			"id": "U2",
			"name": "Ben",
			"wishlistItems": [{"id": "22222222-2222-2222-2222-222222222222", "name": "Socks", "isPurchased": true, "purchasedAt": "2024-01-01T00:00:00Z", "purchasedBy": "U1"}]
		}],
		"pendingInvitations": [{"email": "carl@example.com", "role": "member", "invitedAt": "1735123200"}]
	}],
	"kids": [{"id": "33333333-3333-3333-3333-333333333333", "name": "Mia", "birthdate": "2018-06-01", "wishlistItems": [], "sizes": null}],
	"wishlistItems": [{"id": "44444444-4444-4444-4444-444444444444", "name": "Book"}],
	"giftIdeas": [{"id": "55555555-5555-5555-5555-555555555555", "personName": "Ben", "giftName": "Mug"}]
}`

func TestBootstrap_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the full snapshot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/bootstrap", r.URL.Path)
			_, _ = w.Write([]byte(bootstrapBody))
		}))
		defer server.Close()

		client := api.NewClient(server.URL, nil)
		svc := NewBootstrap(client, NewUsers(client), nil)

		snapshot, isNew, err := svc.Load(ctx)
		require.NoError(t, err)
		assert.False(t, isNew)

		assert.Equal(t, "U1", snapshot.CurrentUser.ID)
		assert.Equal(t, "M", snapshot.CurrentUser.Sizes.Shirt)
		assert.False(t, snapshot.CurrentUser.Birthdate.IsZero())

		require.Len(t, snapshot.Groups, 1)
		group := snapshot.Groups[0]
		assert.Equal(t, "Family", group.Name)
		assert.True(t, group.IsAdmin)
		require.Len(t, group.Members, 1)
		require.Len(t, group.Members[0].WishlistItems, 1)
		assert.True(t, group.Members[0].WishlistItems[0].IsPurchased)
		assert.Equal(t, "U1", group.Members[0].WishlistItems[0].PurchasedBy)
		require.Len(t, group.PendingInvitations, 1)
		assert.Equal(t, "carl@example.com", group.PendingInvitations[0].Email)
		assert.False(t, group.PendingInvitations[0].InvitedAt.IsZero(), "epoch-seconds invitedAt must parse")

		require.Len(t, snapshot.Kids, 1)
		assert.Equal(t, "Mia", snapshot.Kids[0].Name)
		require.Len(t, snapshot.WishlistItems, 1)
		require.Len(t, snapshot.GiftIdeas, 1)
	})

	t.Run("auto-provisions on NOT_FOUND then retries once", func(t *testing.T) {
		var bootstrapCalls, createCalls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/v1/bootstrap":
				bootstrapCalls++
				if bootstrapCalls == 1 {
					w.WriteHeader(http.StatusNotFound)
					_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"user not provisioned"}}`))
					return
				}
				_, _ = w.Write([]byte(bootstrapBody))
			case "/api/v1/users":
				require.Equal(t, http.MethodPost, r.Method)
				createCalls++
				_, _ = w.Write([]byte(`{"id":"U1"}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		client := api.NewClient(server.URL, nil)
		svc := NewBootstrap(client, NewUsers(client), func() Identity {
			return Identity{Email: "ana@example.com", Name: "Ana"}
		})

		snapshot, isNew, err := svc.Load(ctx)
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.Equal(t, "U1", snapshot.CurrentUser.ID)
		assert.Equal(t, 2, bootstrapCalls, "exactly one retry")
		assert.Equal(t, 1, createCalls, "exactly one create-user call")
	})

	t.Run("other errors propagate without a create attempt", func(t *testing.T) {
		var createCalls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v1/users" {
				createCalls++
			}
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL","message":"boom"}}`))
		}))
		defer server.Close()

		client := api.NewClient(server.URL, nil)
		svc := NewBootstrap(client, NewUsers(client), nil)

		_, _, err := svc.Load(ctx)
		var apiErr *api.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "INTERNAL", apiErr.Code)
		assert.Zero(t, createCalls)
	})

	t.Run("plain 404 without NOT_FOUND code is not auto-provisioned", func(t *testing.T) {
		var createCalls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v1/users" {
				createCalls++
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("no route"))
		}))
		defer server.Close()

		client := api.NewClient(server.URL, nil)
		svc := NewBootstrap(client, NewUsers(client), nil)

		_, _, err := svc.Load(ctx)
		var apiErr *api.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "HTTP_404", apiErr.Code)
		assert.Zero(t, createCalls)
	})

	t.Run("decode errors keep their type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		client := api.NewClient(server.URL, nil)
		svc := NewBootstrap(client, NewUsers(client), nil)

		_, _, err := svc.Load(ctx)
		var decodeErr *api.DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}
