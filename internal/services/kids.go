package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/giftwish/cli/internal/api"
	"github.com/giftwish/cli/internal/domain"
)

// KidsService manages an account's dependents.
type KidsService struct {
	client *api.Client
}

func NewKids(client *api.Client) *KidsService {
	return &KidsService{client: client}
}

type createKidPayload struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Birthdate     string    `json:"birthdate,omitempty"`
	Sizes         *string   `json:"sizes,omitempty"`
	GuardianEmail string    `json:"guardianEmail,omitempty"`
}

type updateKidPayload struct {
	Name          string  `json:"name,omitempty"`
	Birthdate     string  `json:"birthdate,omitempty"`
	Sizes         *string `json:"sizes,omitempty"`
	GuardianEmail string  `json:"guardianEmail,omitempty"`
}

// Create registers a kid under the given user. The kid's id is a
// client proposal; the returned server id is canonical and may differ.
func (s *KidsService) Create(ctx context.Context, userID string, kid domain.Kid, guardianEmail string) (uuid.UUID, error) {
	sizesJSON, err := encodeSizes(kid.Sizes)
	if err != nil {
		return uuid.Nil, err
	}
	payload := createKidPayload{
		ID:            kid.ID,
		Name:          kid.Name,
		Sizes:         sizesJSON,
		GuardianEmail: guardianEmail,
	}
	if !kid.Birthdate.IsZero() {
		payload.Birthdate = api.FormatDate(kid.Birthdate)
	}
	req := api.NewRequest(http.MethodPost, "/users/"+userID+"/kids").WithJSON(payload)
	var resp api.IDResponse
	if err := s.client.Do(ctx, req, &resp); err != nil {
		return uuid.Nil, fmt.Errorf("creating kid: %w", err)
	}
	return resp.ID, nil
}

// Update rewrites a kid's profile.
func (s *KidsService) Update(ctx context.Context, userID string, kid domain.Kid, guardianEmail string) error {
	sizesJSON, err := encodeSizes(kid.Sizes)
	if err != nil {
		return err
	}
	payload := updateKidPayload{
		Name:          kid.Name,
		Sizes:         sizesJSON,
		GuardianEmail: guardianEmail,
	}
	if !kid.Birthdate.IsZero() {
		payload.Birthdate = api.FormatDate(kid.Birthdate)
	}
	req := api.NewRequest(http.MethodPatch, "/users/"+userID+"/kids/"+kid.ID.String()).WithJSON(payload)
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("updating kid: %w", err)
	}
	return nil
}

// Delete removes a kid and their wishlist.
func (s *KidsService) Delete(ctx context.Context, userID string, kidID uuid.UUID) error {
	req := api.NewRequest(http.MethodDelete, "/users/"+userID+"/kids/"+kidID.String())
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("deleting kid: %w", err)
	}
	return nil
}
