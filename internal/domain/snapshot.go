package domain

// Snapshot is the full authenticated application state as hydrated by
// one bootstrap call. It lives in memory only and is rebuilt from the
// server at every session start.
type Snapshot struct {
	CurrentUser   User           `json:"currentUser"`
	Groups        []Group        `json:"groups"`
	Kids          []Kid          `json:"kids"`
	WishlistItems []WishlistItem `json:"wishlistItems"`
	GiftIdeas     []GiftIdea     `json:"giftIdeas"`
}

// Kid returns the kid with the given id, or nil.
func (s *Snapshot) Kid(id string) *Kid {
	for i := range s.Kids {
		if s.Kids[i].ID.String() == id {
			return &s.Kids[i]
		}
	}
	return nil
}

// Group returns the group with the given id, or nil.
func (s *Snapshot) Group(id string) *Group {
	for i := range s.Groups {
		if s.Groups[i].ID.String() == id {
			return &s.Groups[i]
		}
	}
	return nil
}
