package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/giftwish/cli/internal/api"
)

// GroupsService manages groups, their membership, and pending
// invitations.
type GroupsService struct {
	client *api.Client
}

func NewGroups(client *api.Client) *GroupsService {
	return &GroupsService{client: client}
}

type createGroupPayload struct {
	Name string `json:"name"`
}

type renameGroupPayload struct {
	Name string `json:"name"`
}

type addMemberPayload struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Create makes a new group and returns the server-issued id.
func (s *GroupsService) Create(ctx context.Context, name string) (uuid.UUID, error) {
	req := api.NewRequest(http.MethodPost, "/groups").WithJSON(createGroupPayload{Name: name})
	var resp api.IDResponse
	if err := s.client.Do(ctx, req, &resp); err != nil {
		return uuid.Nil, fmt.Errorf("creating group: %w", err)
	}
	return resp.ID, nil
}

// Rename changes a group's display name.
func (s *GroupsService) Rename(ctx context.Context, groupID uuid.UUID, name string) error {
	req := api.NewRequest(http.MethodPatch, "/groups/"+groupID.String()).WithJSON(renameGroupPayload{Name: name})
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("renaming group: %w", err)
	}
	return nil
}

// Delete removes a group entirely.
func (s *GroupsService) Delete(ctx context.Context, groupID uuid.UUID) error {
	req := api.NewRequest(http.MethodDelete, "/groups/"+groupID.String())
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	return nil
}

// AddMemberByEmail invites someone to the group by email; the server
// records a pending invitation when no account exists yet.
func (s *GroupsService) AddMemberByEmail(ctx context.Context, groupID uuid.UUID, email, role string) error {
	return s.addMember(ctx, groupID, addMemberPayload{Email: email, Role: role})
}

// AddMemberByUserID adds an existing user to the group directly.
func (s *GroupsService) AddMemberByUserID(ctx context.Context, groupID uuid.UUID, userID, role string) error {
	return s.addMember(ctx, groupID, addMemberPayload{UserID: userID, Role: role})
}

func (s *GroupsService) addMember(ctx context.Context, groupID uuid.UUID, payload addMemberPayload) error {
	req := api.NewRequest(http.MethodPost, "/groups/"+groupID.String()+"/members").WithJSON(payload)
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("adding member: %w", err)
	}
	return nil
}

// RemoveMember takes a user out of the group.
func (s *GroupsService) RemoveMember(ctx context.Context, groupID uuid.UUID, userID string) error {
	req := api.NewRequest(http.MethodDelete, "/groups/"+groupID.String()+"/members/"+userID)
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("removing member: %w", err)
	}
	return nil
}

// RemoveInvitation withdraws a pending invitation. Invitations are
// keyed by invitee email, so the email rides in the path, escaped.
// Idempotent on the server side.
func (s *GroupsService) RemoveInvitation(ctx context.Context, groupID uuid.UUID, email string) error {
	req := api.NewRequest(http.MethodDelete, "/groups/"+groupID.String()+"/invitations/"+url.PathEscape(email))
	if err := s.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("removing invitation: %w", err)
	}
	return nil
}
