package domain

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is one wanted gift. AssignedGroupIDs controls which
// groups may see and purchase it; an empty list keeps the item private
// to its owner.
//
// IsPurchased, PurchasedAt and PurchasedBy move as a unit: the purchase
// flag never turns on without the timestamp/purchaser pair, and turning
// it off clears both.
type WishlistItem struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	Price            *float64    `json:"price,omitempty"`
	Link             string      `json:"link,omitempty"`
	IsPurchased      bool        `json:"isPurchased"`
	PurchasedAt      time.Time   `json:"purchasedAt,omitempty"`
	PurchasedBy      string      `json:"purchasedBy,omitempty"`
	AssignedGroupIDs []uuid.UUID `json:"assignedGroupIds,omitempty"`
}

// PurchasedByOther reports whether the item is already claimed by a
// user other than userID. The server is authoritative for purchase
// state; a claim by someone else must never be overridden locally.
func (w WishlistItem) PurchasedByOther(userID string) bool {
	return w.IsPurchased && w.PurchasedBy != "" && w.PurchasedBy != userID
}

// MarkPurchased sets the purchase triple as a pair.
func (w *WishlistItem) MarkPurchased(by string, at time.Time) {
	w.IsPurchased = true
	w.PurchasedBy = by
	w.PurchasedAt = at
}

// ClearPurchased resets the purchase triple.
func (w *WishlistItem) ClearPurchased() {
	w.IsPurchased = false
	w.PurchasedBy = ""
	w.PurchasedAt = time.Time{}
}
