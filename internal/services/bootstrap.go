package services

import (
	"context"
	"fmt"

	"github.com/giftwish/cli/internal/api"
	"github.com/giftwish/cli/internal/domain"
)

// Identity is the little the auth layer knows about the signed-in
// account before a user record exists. It seeds auto-provisioning.
type Identity struct {
	Email string
	Name  string
}

// BootstrapService hydrates the full authenticated snapshot in one
// call, auto-provisioning the user record the first time an identity
// shows up without one.
type BootstrapService struct {
	client   *api.Client
	users    *UsersService
	identity func() Identity
}

func NewBootstrap(client *api.Client, users *UsersService, identity func() Identity) *BootstrapService {
	return &BootstrapService{client: client, users: users, identity: identity}
}

// Load fetches the snapshot. When the server reports the authenticated
// identity has no user record (404/NOT_FOUND), Load creates the user
// seeded from the identity, retries the fetch exactly once, and
// reports isNewlyCreated=true so the caller can run first-time setup.
// Every other error, decoding errors included, propagates unchanged.
func (s *BootstrapService) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	snapshot, err := s.fetch(ctx)
	if err == nil {
		return snapshot, false, nil
	}
	if !api.IsNotFound(err) {
		return domain.Snapshot{}, false, err
	}

	id := Identity{}
	if s.identity != nil {
		id = s.identity()
	}
	if _, err := s.users.Create(ctx, id.Email, id.Name); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("provisioning user: %w", err)
	}

	snapshot, err = s.fetch(ctx)
	if err != nil {
		return domain.Snapshot{}, false, err
	}
	return snapshot, true, nil
}

func (s *BootstrapService) fetch(ctx context.Context) (domain.Snapshot, error) {
	var resp api.BootstrapResponse
	if err := s.client.Do(ctx, api.Get("/bootstrap"), &resp); err != nil {
		return domain.Snapshot{}, err
	}

	groups := make([]domain.Group, 0, len(resp.Groups))
	for _, g := range resp.Groups {
		groups = append(groups, g.Domain())
	}
	kids := make([]domain.Kid, 0, len(resp.Kids))
	for _, k := range resp.Kids {
		kids = append(kids, k.Domain())
	}
	items := make([]domain.WishlistItem, 0, len(resp.WishlistItems))
	for _, w := range resp.WishlistItems {
		items = append(items, w.Domain())
	}
	ideas := make([]domain.GiftIdea, 0, len(resp.GiftIdeas))
	for _, g := range resp.GiftIdeas {
		ideas = append(ideas, g.Domain())
	}

	return domain.Snapshot{
		CurrentUser:   resp.CurrentUser.Domain(),
		Groups:        groups,
		Kids:          kids,
		WishlistItems: items,
		GiftIdeas:     ideas,
	}, nil
}
