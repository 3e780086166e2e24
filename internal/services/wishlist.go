package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/giftwish/cli/internal/api"
	"github.com/giftwish/cli/internal/domain"
)

// WishlistService manages wishlist items for the user, their kids, and
// the purchase toggles seen through groups.
type WishlistService struct {
	client *api.Client
}

func NewWishlist(client *api.Client) *WishlistService {
	return &WishlistService{client: client}
}

type createItemPayload struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	Price            *float64    `json:"price,omitempty"`
	Link             string      `json:"link,omitempty"`
	AssignedGroupIDs []uuid.UUID `json:"assignedGroupIds,omitempty"`
}

type updateItemPayload struct {
	Name             string      `json:"name,omitempty"`
	Description      string      `json:"description,omitempty"`
	Price            *float64    `json:"price,omitempty"`
	Link             string      `json:"link,omitempty"`
	AssignedGroupIDs []uuid.UUID `json:"assignedGroupIds,omitempty"`
}

// PurchaseState is the server-computed purchase triple. The three
// fields change together or not at all.
type PurchaseState struct {
	IsPurchased bool
	PurchasedAt time.Time
	PurchasedBy string
}

func itemPayload(item domain.WishlistItem) createItemPayload {
	return createItemPayload{
		ID:               item.ID,
		Name:             item.Name,
		Description:      item.Description,
		Price:            item.Price,
		Link:             item.Link,
		AssignedGroupIDs: item.AssignedGroupIDs,
	}
}

// CreateUserItem adds an item to the user's own wishlist. The item id
// is a client proposal; the server-issued id is canonical.
func (s *WishlistService) CreateUserItem(ctx context.Context, userID string, item domain.WishlistItem) (uuid.UUID, error) {
	req := api.NewRequest(http.MethodPost, "/users/"+userID+"/wishlist").WithJSON(itemPayload(item))
	var resp api.IDResponse
	if err := s.client.Do(ctx, req, &resp); err != nil {
		return uuid.Nil, fmt.Errorf("creating wishlist item: %w", err)
	}
	return resp.ID, nil
}

// CreateKidItem adds an item to a kid's wishlist.
func (s *WishlistService) CreateKidItem(ctx context.Context, userID string, kidID uuid.UUID, item domain.WishlistItem) (uuid.UUID, error) {
	req := api.NewRequest(http.MethodPost, "/users/"+userID+"/kids/"+kidID.String()+"/wishlist").WithJSON(itemPayload(item))
	var resp api.IDResponse
	if err := s.client.Do(ctx, req, &resp); err != nil {
		return uuid.Nil, fmt.Errorf("creating kid wishlist item: %w", err)
	}
	return resp.ID, nil
}

// UpdateUserItem rewrites an item on the user's own wishlist.
func (s *WishlistService) UpdateUserItem(ctx context.Context, userID string, item domain.WishlistItem) error {
	payload := updateItemPayload{
		Name:             item.Name,
		Description:      item.Description,
		Price:            item.Price,
		Link:             item.Link,
		AssignedGroupIDs: item.AssignedGroupIDs,
	}
	req := api.NewRequest(http.MethodPatch, "/users/"+userID+"/wishlist/"+item.ID.String()).WithJSON(payload)
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("updating wishlist item: %w", err)
	}
	return nil
}

// UpdateKidItem rewrites an item on a kid's wishlist.
func (s *WishlistService) UpdateKidItem(ctx context.Context, userID string, kidID uuid.UUID, item domain.WishlistItem) error {
	payload := updateItemPayload{
		Name:             item.Name,
		Description:      item.Description,
		Price:            item.Price,
		Link:             item.Link,
		AssignedGroupIDs: item.AssignedGroupIDs,
	}
	req := api.NewRequest(http.MethodPatch, "/users/"+userID+"/kids/"+kidID.String()+"/wishlist/"+item.ID.String()).WithJSON(payload)
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("updating kid wishlist item: %w", err)
	}
	return nil
}

// DeleteUserItem removes an item from the user's own wishlist.
func (s *WishlistService) DeleteUserItem(ctx context.Context, userID string, itemID uuid.UUID) error {
	req := api.NewRequest(http.MethodDelete, "/users/"+userID+"/wishlist/"+itemID.String())
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("deleting wishlist item: %w", err)
	}
	return nil
}

// DeleteKidItem removes an item from a kid's wishlist.
func (s *WishlistService) DeleteKidItem(ctx context.Context, userID string, kidID, itemID uuid.UUID) error {
	req := api.NewRequest(http.MethodDelete, "/users/"+userID+"/kids/"+kidID.String()+"/wishlist/"+itemID.String())
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("deleting kid wishlist item: %w", err)
	}
	return nil
}

// ToggleMemberItem flips the purchase state of another member's item
// as seen through a group. The server decides the resulting triple.
func (s *WishlistService) ToggleMemberItem(ctx context.Context, groupID uuid.UUID, memberID string, itemID uuid.UUID) (PurchaseState, error) {
	path := "/groups/" + groupID.String() + "/members/" + memberID + "/wishlist/" + itemID.String() + "/purchase"
	return s.toggle(ctx, path)
}

// ToggleKidItem flips the purchase state of a kid's item as seen
// through a group.
func (s *WishlistService) ToggleKidItem(ctx context.Context, groupID, kidID, itemID uuid.UUID) (PurchaseState, error) {
	path := "/groups/" + groupID.String() + "/kids/" + kidID.String() + "/wishlist/" + itemID.String() + "/purchase"
	return s.toggle(ctx, path)
}

func (s *WishlistService) toggle(ctx context.Context, path string) (PurchaseState, error) {
	var resp api.ToggleResponse
	if err := s.client.Do(ctx, api.NewRequest(http.MethodPatch, path), &resp); err != nil {
		return PurchaseState{}, fmt.Errorf("toggling purchase: %w", err)
	}
	state := PurchaseState{IsPurchased: resp.IsPurchased}
	if resp.PurchasedAt != nil {
		state.PurchasedAt = api.ParseDate(*resp.PurchasedAt)
	}
	if resp.PurchasedBy != nil {
		state.PurchasedBy = *resp.PurchasedBy
	}
	return state, nil
}
