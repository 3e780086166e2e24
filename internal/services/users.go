// Package services translates domain operations into API requests, one
// service per resource family. Services never swallow errors; callers
// decide how to roll back or surface them.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/giftwish/cli/internal/api"
	"github.com/giftwish/cli/internal/domain"
)

// UsersService manages the account behind the session.
type UsersService struct {
	client *api.Client
}

func NewUsers(client *api.Client) *UsersService {
	return &UsersService{client: client}
}

type createUserPayload struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type updateUserPayload struct {
	Name      string  `json:"name,omitempty"`
	Email     string  `json:"email,omitempty"`
	Birthdate string  `json:"birthdate,omitempty"`
	Sizes     *string `json:"sizes,omitempty"`
}

// Create provisions the user record for the authenticated identity.
// Empty email/name are omitted from the payload. The returned id is
// server-issued and canonical.
func (s *UsersService) Create(ctx context.Context, email, name string) (string, error) {
	req := api.NewRequest(http.MethodPost, "/users")
	if email != "" || name != "" {
		req = req.WithJSON(createUserPayload{Email: email, Name: name})
	}
	var resp api.CreatedUserResponse
	if err := s.client.Do(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("creating user: %w", err)
	}
	return resp.ID, nil
}

// Update replaces the user's profile fields. Sizes are serialized as a
// nested JSON string per the API schema.
func (s *UsersService) Update(ctx context.Context, userID, name, email string, birthdate time.Time, sizes domain.Sizes) error {
	sizesJSON, err := encodeSizes(sizes)
	if err != nil {
		return err
	}
	payload := updateUserPayload{
		Name:  name,
		Email: email,
		Sizes: sizesJSON,
	}
	if !birthdate.IsZero() {
		payload.Birthdate = api.FormatDate(birthdate)
	}
	req := api.NewRequest(http.MethodPatch, "/users/"+userID).WithJSON(payload)
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// DeleteMe removes the authenticated user's account and data.
func (s *UsersService) DeleteMe(ctx context.Context) error {
	req := api.NewRequest(http.MethodDelete, "/users/me")
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return nil
}

// encodeSizes renders sizes as the JSON-string envelope the API
// expects, or nil when nothing is set.
func encodeSizes(sizes domain.Sizes) (*string, error) {
	if sizes.IsZero() {
		return nil, nil
	}
	data, err := json.Marshal(sizes)
	if err != nil {
		return nil, fmt.Errorf("encoding sizes: %w", err)
	}
	s := string(data)
	return &s, nil
}
