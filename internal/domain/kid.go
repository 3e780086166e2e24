package domain

import (
	"time"

	"github.com/google/uuid"
)

// Kid is a dependent whose wishlist is managed by a parent account.
// GuardianEmails lists the parents/guardians with visibility into the
// kid's data.
type Kid struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Birthdate      time.Time      `json:"birthdate,omitempty"`
	WishlistItems  []WishlistItem `json:"wishlistItems,omitempty"`
	Sizes          Sizes          `json:"sizes,omitempty"`
	GuardianEmails []string       `json:"guardianEmails,omitempty"`
}
