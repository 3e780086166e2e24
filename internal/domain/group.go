package domain

import (
	"time"

	"github.com/google/uuid"
)

// Group is a social circle whose members can see and purchase each
// other's shared wishlist items.
type Group struct {
	ID                 uuid.UUID           `json:"id"`
	Name               string              `json:"name"`
	IsAdmin            bool                `json:"isAdmin"`
	Members            []GroupMember       `json:"members,omitempty"`
	PendingInvitations []PendingInvitation `json:"pendingInvitations,omitempty"`
}

// GroupMember is another user as seen through a group: their shared
// wishlist, their kids, and enough profile data to shop for them.
type GroupMember struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	WishlistItems []WishlistItem `json:"wishlistItems,omitempty"`
	Kids          []Kid          `json:"kids,omitempty"`
	Sizes         Sizes          `json:"sizes,omitempty"`
	Birthdate     time.Time      `json:"birthdate,omitempty"`
}

// PendingInvitation is an invite that has been sent but not accepted.
// Invitations precede account existence, so they are keyed by email.
type PendingInvitation struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	InvitedAt time.Time `json:"invitedAt,omitempty"`
}

// Member returns the member with the given user id, or nil.
func (g *Group) Member(userID string) *GroupMember {
	for i := range g.Members {
		if g.Members[i].ID == userID {
			return &g.Members[i]
		}
	}
	return nil
}
