package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/giftwish/cli/internal/api"
	"github.com/giftwish/cli/internal/domain"
)

// GiftIdeasService manages the user's private gift-idea notes.
type GiftIdeasService struct {
	client *api.Client
}

func NewGiftIdeas(client *api.Client) *GiftIdeasService {
	return &GiftIdeasService{client: client}
}

type createIdeaPayload struct {
	ID          uuid.UUID `json:"id"`
	PersonName  string    `json:"personName"`
	GiftName    string    `json:"giftName"`
	URL         string    `json:"url,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	IsPurchased bool      `json:"isPurchased"`
}

type updateIdeaPayload struct {
	PersonName  string `json:"personName,omitempty"`
	GiftName    string `json:"giftName,omitempty"`
	URL         string `json:"url,omitempty"`
	Notes       string `json:"notes,omitempty"`
	IsPurchased bool   `json:"isPurchased"`
}

// Create stores a new idea and returns the canonical server id.
func (s *GiftIdeasService) Create(ctx context.Context, userID string, idea domain.GiftIdea) (uuid.UUID, error) {
	payload := createIdeaPayload{
		ID:          idea.ID,
		PersonName:  idea.PersonName,
		GiftName:    idea.GiftName,
		URL:         idea.URL,
		Notes:       idea.Notes,
		IsPurchased: idea.IsPurchased,
	}
	req := api.NewRequest(http.MethodPost, "/users/"+userID+"/gift-ideas").WithJSON(payload)
	var resp api.IDResponse
	if err := s.client.Do(ctx, req, &resp); err != nil {
		return uuid.Nil, fmt.Errorf("creating gift idea: %w", err)
	}
	return resp.ID, nil
}

// Update rewrites an idea.
func (s *GiftIdeasService) Update(ctx context.Context, userID string, idea domain.GiftIdea) error {
	payload := updateIdeaPayload{
		PersonName:  idea.PersonName,
		GiftName:    idea.GiftName,
		URL:         idea.URL,
		Notes:       idea.Notes,
		IsPurchased: idea.IsPurchased,
	}
	req := api.NewRequest(http.MethodPatch, "/users/"+userID+"/gift-ideas/"+idea.ID.String()).WithJSON(payload)
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("updating gift idea: %w", err)
	}
	return nil
}

// Delete removes an idea.
func (s *GiftIdeasService) Delete(ctx context.Context, userID string, ideaID uuid.UUID) error {
	req := api.NewRequest(http.MethodDelete, "/users/"+userID+"/gift-ideas/"+ideaID.String())
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("deleting gift idea: %w", err)
	}
	return nil
}
