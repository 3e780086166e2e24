package api

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/giftwish/cli/internal/domain"
)

// Wire models mirror the server's JSON. Decoding is deliberately
// tolerant: optional fields are pointers, dates travel as raw strings,
// and each DTO owns the defaulting in its Domain() mapper so null
// handling lives in one place per entity.

// BootstrapResponse mirrors GET /api/v1/bootstrap.
type BootstrapResponse struct {
	CurrentUser   UserDTO           `json:"currentUser"`
	Groups        []GroupDTO        `json:"groups"`
	Kids          []KidDTO          `json:"kids"`
	WishlistItems []WishlistItemDTO `json:"wishlistItems"`
	GiftIdeas     []GiftIdeaDTO     `json:"giftIdeas"`
}

// UserDTO mirrors the current-user object.
type UserDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Birthdate *string  `json:"birthdate"`
	Sizes     SizesDTO `json:"sizes"`
}

// Domain maps the wire user to the domain model.
func (u UserDTO) Domain() domain.User {
	return domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Birthdate: ParseDate(strOrEmpty(u.Birthdate)),
		Sizes:     domain.Sizes(u.Sizes),
	}
}

// SizesDTO decodes the sizes payload, which the server sends either as
// a nested object, a JSON-encoded string of that object, or null.
// Whatever arrives, missing fields default to empty strings.
type SizesDTO domain.Sizes

func (s *SizesDTO) UnmarshalJSON(data []byte) error {
	*s = SizesDTO{}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil || raw == "" {
			return nil
		}
		data = []byte(raw)
	}
	var fields struct {
		Shirt      string `json:"shirt"`
		Pants      string `json:"pants"`
		Shoes      string `json:"shoes"`
		Sweatshirt string `json:"sweatshirt"`
		Hat        string `json:"hat"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil // not an object either; keep the zero value
	}
	*s = SizesDTO(fields)
	return nil
}

// GroupDTO mirrors one group in the bootstrap payload.
type GroupDTO struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	IsAdmin            bool            `json:"isAdmin"`
	Members            []MemberDTO     `json:"members"`
	PendingInvitations []InvitationDTO `json:"pendingInvitations"`
}

func (g GroupDTO) Domain() domain.Group {
	members := make([]domain.GroupMember, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, m.Domain())
	}
	invites := make([]domain.PendingInvitation, 0, len(g.PendingInvitations))
	for _, inv := range g.PendingInvitations {
		invites = append(invites, domain.PendingInvitation{
			Email:     inv.Email,
			Role:      inv.Role,
			InvitedAt: ParseDate(strOrEmpty(inv.InvitedAt)),
		})
	}
	return domain.Group{
		ID:                 g.ID,
		Name:               g.Name,
		IsAdmin:            g.IsAdmin,
		Members:            members,
		PendingInvitations: invites,
	}
}

// MemberDTO mirrors a member inside a group.
type MemberDTO struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	WishlistItems []WishlistItemDTO `json:"wishlistItems"`
	Kids          []KidDTO          `json:"kids"`
	Sizes         SizesDTO          `json:"sizes"`
	Birthdate     *string           `json:"birthdate"`
}

func (m MemberDTO) Domain() domain.GroupMember {
	kids := make([]domain.Kid, 0, len(m.Kids))
	for _, k := range m.Kids {
		kids = append(kids, k.Domain())
	}
	return domain.GroupMember{
		ID:            m.ID,
		Name:          m.Name,
		WishlistItems: itemsDomain(m.WishlistItems),
		Kids:          kids,
		Sizes:         domain.Sizes(m.Sizes),
		Birthdate:     ParseDate(strOrEmpty(m.Birthdate)),
	}
}

// InvitationDTO mirrors a pending group invitation.
type InvitationDTO struct {
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	InvitedAt *string `json:"invitedAt"`
}

// KidDTO mirrors a kid record.
type KidDTO struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Birthdate      *string           `json:"birthdate"`
	WishlistItems  []WishlistItemDTO `json:"wishlistItems"`
	Sizes          SizesDTO          `json:"sizes"`
	GuardianEmails []string          `json:"guardianEmails"`
}

func (k KidDTO) Domain() domain.Kid {
	return domain.Kid{
		ID:             k.ID,
		Name:           k.Name,
		Birthdate:      ParseDate(strOrEmpty(k.Birthdate)),
		WishlistItems:  itemsDomain(k.WishlistItems),
		Sizes:          domain.Sizes(k.Sizes),
		GuardianEmails: k.GuardianEmails,
	}
}

// WishlistItemDTO mirrors a wishlist item.
type WishlistItemDTO struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Description      *string     `json:"description"`
	Price            *float64    `json:"price"`
	Link             *string     `json:"link"`
	IsPurchased      *bool       `json:"isPurchased"`
	PurchasedAt      *string     `json:"purchasedAt"`
	PurchasedBy      *string     `json:"purchasedBy"`
	AssignedGroupIDs []uuid.UUID `json:"assignedGroupIds"`
}

func (w WishlistItemDTO) Domain() domain.WishlistItem {
	return domain.WishlistItem{
		ID:               w.ID,
		Name:             w.Name,
		Description:      strOrEmpty(w.Description),
		Price:            w.Price,
		Link:             strOrEmpty(w.Link),
		IsPurchased:      w.IsPurchased != nil && *w.IsPurchased,
		PurchasedAt:      ParseDate(strOrEmpty(w.PurchasedAt)),
		PurchasedBy:      strOrEmpty(w.PurchasedBy),
		AssignedGroupIDs: w.AssignedGroupIDs,
	}
}

func itemsDomain(dtos []WishlistItemDTO) []domain.WishlistItem {
	items := make([]domain.WishlistItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, d.Domain())
	}
	return items
}

// GiftIdeaDTO mirrors a gift idea.
type GiftIdeaDTO struct {
	ID          uuid.UUID `json:"id"`
	PersonName  string    `json:"personName"`
	GiftName    string    `json:"giftName"`
	URL         *string   `json:"url"`
	Notes       *string   `json:"notes"`
	IsPurchased *bool     `json:"isPurchased"`
}

func (g GiftIdeaDTO) Domain() domain.GiftIdea {
	return domain.GiftIdea{
		ID:          g.ID,
		PersonName:  g.PersonName,
		GiftName:    g.GiftName,
		URL:         strOrEmpty(g.URL),
		Notes:       strOrEmpty(g.Notes),
		IsPurchased: g.IsPurchased != nil && *g.IsPurchased,
	}
}

// OKResponse is the minimal acknowledgement for updates and deletes.
type OKResponse struct {
	OK bool `json:"ok"`
}

// IDResponse is returned by create endpoints for uuid-keyed resources.
// The server-issued id is canonical even when the client proposed one.
type IDResponse struct {
	ID uuid.UUID `json:"id"`
}

// CreatedUserResponse is returned by POST /users; user ids are opaque
// strings, not uuids.
type CreatedUserResponse struct {
	ID string `json:"id"`
}

// ToggleResponse is returned by the purchase-toggle endpoints. The
// server computes the new purchase triple; clients reconcile to it.
type ToggleResponse struct {
	OK          bool    `json:"ok"`
	IsPurchased bool    `json:"isPurchased"`
	PurchasedAt *string `json:"purchasedAt"`
	PurchasedBy *string `json:"purchasedBy"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
