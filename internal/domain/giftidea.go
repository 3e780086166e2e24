package domain

import "github.com/google/uuid"

// GiftIdea is a private note about a gift for someone. PersonName is
// free text, not a user reference; the person may not even have an
// account.
type GiftIdea struct {
	ID          uuid.UUID `json:"id"`
	PersonName  string    `json:"personName"`
	GiftName    string    `json:"giftName"`
	URL         string    `json:"url,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	IsPurchased bool      `json:"isPurchased"`
}
