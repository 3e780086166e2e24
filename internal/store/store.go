// Package store owns the live in-memory snapshot and mediates every
// mutation against it: local changes apply immediately so callers see
// instant feedback, the remote call follows, and a failed call rolls
// the snapshot back to the exact prior state.
//
// A Store is not safe for concurrent use. All reads and mutations must
// come from the single goroutine driving the session; overlapping
// mutations on the same entity are rejected via in-flight id sets.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/giftwish/cli/internal/domain"
	"github.com/giftwish/cli/internal/services"
)

var (
	// ErrPurchasedByOther rejects a toggle on an item already claimed
	// by a different user. The claim is the server's to undo, never
	// ours; no request is issued.
	ErrPurchasedByOther = errors.New("item already purchased by someone else")

	// ErrMutationInFlight rejects a mutation on an entity that already
	// has one outstanding.
	ErrMutationInFlight = errors.New("a mutation for this entity is already in flight")

	// ErrNotFound means the entity is not in the snapshot.
	ErrNotFound = errors.New("entity not found in snapshot")
)

// WishlistAPI is the slice of the wishlist service the store uses.
type WishlistAPI interface {
	CreateUserItem(ctx context.Context, userID string, item domain.WishlistItem) (uuid.UUID, error)
	CreateKidItem(ctx context.Context, userID string, kidID uuid.UUID, item domain.WishlistItem) (uuid.UUID, error)
	UpdateUserItem(ctx context.Context, userID string, item domain.WishlistItem) error
	UpdateKidItem(ctx context.Context, userID string, kidID uuid.UUID, item domain.WishlistItem) error
	DeleteUserItem(ctx context.Context, userID string, itemID uuid.UUID) error
	DeleteKidItem(ctx context.Context, userID string, kidID, itemID uuid.UUID) error
	ToggleMemberItem(ctx context.Context, groupID uuid.UUID, memberID string, itemID uuid.UUID) (services.PurchaseState, error)
	ToggleKidItem(ctx context.Context, groupID, kidID, itemID uuid.UUID) (services.PurchaseState, error)
}

// KidsAPI is the slice of the kids service the store uses.
type KidsAPI interface {
	Create(ctx context.Context, userID string, kid domain.Kid, guardianEmail string) (uuid.UUID, error)
	Update(ctx context.Context, userID string, kid domain.Kid, guardianEmail string) error
	Delete(ctx context.Context, userID string, kidID uuid.UUID) error
}

// GroupsAPI is the slice of the groups service the store uses.
type GroupsAPI interface {
	Create(ctx context.Context, name string) (uuid.UUID, error)
	Rename(ctx context.Context, groupID uuid.UUID, name string) error
	Delete(ctx context.Context, groupID uuid.UUID) error
	AddMemberByEmail(ctx context.Context, groupID uuid.UUID, email, role string) error
	AddMemberByUserID(ctx context.Context, groupID uuid.UUID, userID, role string) error
	RemoveMember(ctx context.Context, groupID uuid.UUID, userID string) error
	RemoveInvitation(ctx context.Context, groupID uuid.UUID, email string) error
}

// GiftIdeasAPI is the slice of the gift-ideas service the store uses.
type GiftIdeasAPI interface {
	Create(ctx context.Context, userID string, idea domain.GiftIdea) (uuid.UUID, error)
	Update(ctx context.Context, userID string, idea domain.GiftIdea) error
	Delete(ctx context.Context, userID string, ideaID uuid.UUID) error
}

// UsersAPI is the slice of the users service the store uses.
type UsersAPI interface {
	Update(ctx context.Context, userID, name, email string, birthdate time.Time, sizes domain.Sizes) error
}

// BootstrapAPI loads the full snapshot.
type BootstrapAPI interface {
	Load(ctx context.Context) (domain.Snapshot, bool, error)
}

// Store mediates mutations between the snapshot and the server.
type Store struct {
	bootstrap BootstrapAPI
	users     UsersAPI
	wishlist  WishlistAPI
	kids      KidsAPI
	groups    GroupsAPI
	ideas     GiftIdeasAPI

	snapshot domain.Snapshot

	deleting map[uuid.UUID]bool
	toggling map[uuid.UUID]bool
}

// New wires a Store to its services. The snapshot starts empty; call
// Refresh to hydrate it.
func New(bootstrap BootstrapAPI, users UsersAPI, wishlist WishlistAPI, kids KidsAPI, groups GroupsAPI, ideas GiftIdeasAPI) *Store {
	return &Store{
		bootstrap: bootstrap,
		users:     users,
		wishlist:  wishlist,
		kids:      kids,
		groups:    groups,
		ideas:     ideas,
		deleting:  make(map[uuid.UUID]bool),
		toggling:  make(map[uuid.UUID]bool),
	}
}

// Refresh replaces the snapshot with a fresh bootstrap load and
// reports whether the user record was newly provisioned.
func (s *Store) Refresh(ctx context.Context) (bool, error) {
	snapshot, isNew, err := s.bootstrap.Load(ctx)
	if err != nil {
		return false, err
	}
	s.snapshot = snapshot
	return isNew, nil
}

// Snapshot exposes the live state for display. Callers must not hold
// the pointer across mutations.
func (s *Store) Snapshot() *domain.Snapshot {
	return &s.snapshot
}

// Deleting reports whether a delete is in flight for the id, so UIs
// can disable the control.
func (s *Store) Deleting(id uuid.UUID) bool { return s.deleting[id] }

// Toggling reports whether a purchase toggle is in flight for the id.
func (s *Store) Toggling(id uuid.UUID) bool { return s.toggling[id] }

// --- purchase toggles ---

// ToggleMemberItem optimistically flips the purchase state of another
// member's item, then reconciles to the server-returned triple. The
// flip is refused when the item is claimed by a different user or a
// toggle is already in flight.
func (s *Store) ToggleMemberItem(ctx context.Context, groupID uuid.UUID, memberID string, itemID uuid.UUID) error {
	item := s.findMemberItem(groupID, memberID, itemID)
	if item == nil {
		return ErrNotFound
	}
	return s.toggle(ctx, item, itemID, func() (services.PurchaseState, error) {
		return s.wishlist.ToggleMemberItem(ctx, groupID, memberID, itemID)
	}, func() *domain.WishlistItem {
		return s.findMemberItem(groupID, memberID, itemID)
	})
}

// ToggleKidItem is ToggleMemberItem for a kid's item in a group.
func (s *Store) ToggleKidItem(ctx context.Context, groupID, kidID, itemID uuid.UUID) error {
	item := s.findGroupKidItem(groupID, kidID, itemID)
	if item == nil {
		return ErrNotFound
	}
	return s.toggle(ctx, item, itemID, func() (services.PurchaseState, error) {
		return s.wishlist.ToggleKidItem(ctx, groupID, kidID, itemID)
	}, func() *domain.WishlistItem {
		return s.findGroupKidItem(groupID, kidID, itemID)
	})
}

// toggle runs the optimistic state machine for one purchase flip:
// guard, apply locally, call remote, then commit the server triple or
// roll back the exact prior value. relocate looks the item up by id
// again after the call, since the surrounding lists may have moved.
func (s *Store) toggle(ctx context.Context, item *domain.WishlistItem, itemID uuid.UUID, remote func() (services.PurchaseState, error), relocate func() *domain.WishlistItem) error {
	self := s.snapshot.CurrentUser.ID
	if item.PurchasedByOther(self) {
		return ErrPurchasedByOther
	}
	if s.toggling[itemID] {
		return ErrMutationInFlight
	}

	prior := *item
	if item.IsPurchased {
		item.ClearPurchased()
	} else {
		item.MarkPurchased(self, time.Now().UTC())
	}

	s.toggling[itemID] = true
	defer delete(s.toggling, itemID)

	state, err := remote()
	current := relocate()
	if err != nil {
		if current != nil {
			*current = prior
		}
		return err
	}
	if current == nil {
		// Deleted concurrently; the server confirmation has nowhere to
		// land and the refreshed snapshot will carry the truth.
		return nil
	}
	if state.IsPurchased {
		current.MarkPurchased(state.PurchasedBy, state.PurchasedAt)
	} else {
		current.ClearPurchased()
	}
	return nil
}

// --- own wishlist ---

// AddItem creates an item on the user's own wishlist (or a kid's, when
// kidID is non-nil). The snapshot gains the item only after the server
// confirms, under the server-issued id; the client-proposed id never
// survives a disagreement.
func (s *Store) AddItem(ctx context.Context, item domain.WishlistItem, kidID *uuid.UUID) (uuid.UUID, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	userID := s.snapshot.CurrentUser.ID

	var serverID uuid.UUID
	var err error
	if kidID != nil {
		serverID, err = s.wishlist.CreateKidItem(ctx, userID, *kidID, item)
	} else {
		serverID, err = s.wishlist.CreateUserItem(ctx, userID, item)
	}
	if err != nil {
		return uuid.Nil, err
	}
	item.ID = serverID

	if kidID != nil {
		kid := s.snapshot.Kid(kidID.String())
		if kid == nil {
			return serverID, ErrNotFound
		}
		kid.WishlistItems = append(kid.WishlistItems, item)
	} else {
		s.snapshot.WishlistItems = append(s.snapshot.WishlistItems, item)
	}
	return serverID, nil
}

// UpdateItem optimistically rewrites an item, rolling back on failure.
func (s *Store) UpdateItem(ctx context.Context, item domain.WishlistItem, kidID *uuid.UUID) error {
	current := s.findOwnItem(item.ID, kidID)
	if current == nil {
		return ErrNotFound
	}
	prior := *current
	*current = item

	userID := s.snapshot.CurrentUser.ID
	var err error
	if kidID != nil {
		err = s.wishlist.UpdateKidItem(ctx, userID, *kidID, item)
	} else {
		err = s.wishlist.UpdateUserItem(ctx, userID, item)
	}
	if err != nil {
		if current := s.findOwnItem(item.ID, kidID); current != nil {
			*current = prior
		}
		return err
	}
	return nil
}

// DeleteItem optimistically removes an item, restoring it in place if
// the server refuses.
func (s *Store) DeleteItem(ctx context.Context, itemID uuid.UUID, kidID *uuid.UUID) error {
	if s.deleting[itemID] {
		return ErrMutationInFlight
	}

	list := s.ownItemList(kidID)
	if list == nil {
		return ErrNotFound
	}
	idx := indexOfItem(*list, itemID)
	if idx < 0 {
		return ErrNotFound
	}
	removed := (*list)[idx]
	*list = append((*list)[:idx], (*list)[idx+1:]...)

	s.deleting[itemID] = true
	defer delete(s.deleting, itemID)

	userID := s.snapshot.CurrentUser.ID
	var err error
	if kidID != nil {
		err = s.wishlist.DeleteKidItem(ctx, userID, *kidID, itemID)
	} else {
		err = s.wishlist.DeleteUserItem(ctx, userID, itemID)
	}
	if err != nil {
		if list := s.ownItemList(kidID); list != nil {
			if idx > len(*list) {
				idx = len(*list)
			}
			*list = append((*list)[:idx], append([]domain.WishlistItem{removed}, (*list)[idx:]...)...)
		}
		return err
	}
	return nil
}

// --- kids ---

// AddKid registers a kid and appends it after server confirmation.
func (s *Store) AddKid(ctx context.Context, kid domain.Kid, guardianEmail string) (uuid.UUID, error) {
	if kid.ID == uuid.Nil {
		kid.ID = uuid.New()
	}
	serverID, err := s.kids.Create(ctx, s.snapshot.CurrentUser.ID, kid, guardianEmail)
	if err != nil {
		return uuid.Nil, err
	}
	kid.ID = serverID
	s.snapshot.Kids = append(s.snapshot.Kids, kid)
	return serverID, nil
}

// UpdateKid optimistically rewrites a kid's profile.
func (s *Store) UpdateKid(ctx context.Context, kid domain.Kid, guardianEmail string) error {
	current := s.snapshot.Kid(kid.ID.String())
	if current == nil {
		return ErrNotFound
	}
	prior := *current
	kid.WishlistItems = prior.WishlistItems // profile update never touches the list
	*current = kid

	if err := s.kids.Update(ctx, s.snapshot.CurrentUser.ID, kid, guardianEmail); err != nil {
		if current := s.snapshot.Kid(kid.ID.String()); current != nil {
			*current = prior
		}
		return err
	}
	return nil
}

// DeleteKid optimistically removes a kid and their wishlist.
func (s *Store) DeleteKid(ctx context.Context, kidID uuid.UUID) error {
	if s.deleting[kidID] {
		return ErrMutationInFlight
	}
	idx := -1
	for i := range s.snapshot.Kids {
		if s.snapshot.Kids[i].ID == kidID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	removed := s.snapshot.Kids[idx]
	s.snapshot.Kids = append(s.snapshot.Kids[:idx], s.snapshot.Kids[idx+1:]...)

	s.deleting[kidID] = true
	defer delete(s.deleting, kidID)

	if err := s.kids.Delete(ctx, s.snapshot.CurrentUser.ID, kidID); err != nil {
		if idx > len(s.snapshot.Kids) {
			idx = len(s.snapshot.Kids)
		}
		s.snapshot.Kids = append(s.snapshot.Kids[:idx], append([]domain.Kid{removed}, s.snapshot.Kids[idx:]...)...)
		return err
	}
	return nil
}

// --- groups ---

// AddGroup creates a group and appends it after server confirmation.
// The session user administers groups they create.
func (s *Store) AddGroup(ctx context.Context, name string) (uuid.UUID, error) {
	id, err := s.groups.Create(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	s.snapshot.Groups = append(s.snapshot.Groups, domain.Group{ID: id, Name: name, IsAdmin: true})
	return id, nil
}

// RenameGroup optimistically renames a group.
func (s *Store) RenameGroup(ctx context.Context, groupID uuid.UUID, name string) error {
	group := s.snapshot.Group(groupID.String())
	if group == nil {
		return ErrNotFound
	}
	prior := group.Name
	group.Name = name

	if err := s.groups.Rename(ctx, groupID, name); err != nil {
		if group := s.snapshot.Group(groupID.String()); group != nil {
			group.Name = prior
		}
		return err
	}
	return nil
}

// DeleteGroup optimistically removes a group.
func (s *Store) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	if s.deleting[groupID] {
		return ErrMutationInFlight
	}
	idx := -1
	for i := range s.snapshot.Groups {
		if s.snapshot.Groups[i].ID == groupID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	removed := s.snapshot.Groups[idx]
	s.snapshot.Groups = append(s.snapshot.Groups[:idx], s.snapshot.Groups[idx+1:]...)

	s.deleting[groupID] = true
	defer delete(s.deleting, groupID)

	if err := s.groups.Delete(ctx, groupID); err != nil {
		if idx > len(s.snapshot.Groups) {
			idx = len(s.snapshot.Groups)
		}
		s.snapshot.Groups = append(s.snapshot.Groups[:idx], append([]domain.Group{removed}, s.snapshot.Groups[idx:]...)...)
		return err
	}
	return nil
}

// InviteMember sends an invitation; membership shows up after the next
// refresh since the server decides between direct add and pending
// invitation.
func (s *Store) InviteMember(ctx context.Context, groupID uuid.UUID, email, role string) error {
	return s.groups.AddMemberByEmail(ctx, groupID, email, role)
}

// AddMemberByID adds an existing user to the group directly, skipping
// the invitation step. The member shows up on the next refresh.
func (s *Store) AddMemberByID(ctx context.Context, groupID uuid.UUID, userID, role string) error {
	return s.groups.AddMemberByUserID(ctx, groupID, userID, role)
}

// RemoveMember optimistically drops a member from a group.
func (s *Store) RemoveMember(ctx context.Context, groupID uuid.UUID, userID string) error {
	group := s.snapshot.Group(groupID.String())
	if group == nil {
		return ErrNotFound
	}
	idx := -1
	for i := range group.Members {
		if group.Members[i].ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	removed := group.Members[idx]
	group.Members = append(group.Members[:idx], group.Members[idx+1:]...)

	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		if group := s.snapshot.Group(groupID.String()); group != nil {
			if idx > len(group.Members) {
				idx = len(group.Members)
			}
			group.Members = append(group.Members[:idx], append([]domain.GroupMember{removed}, group.Members[idx:]...)...)
		}
		return err
	}
	return nil
}

// RemoveInvitation optimistically withdraws a pending invitation,
// keyed by invitee email.
func (s *Store) RemoveInvitation(ctx context.Context, groupID uuid.UUID, email string) error {
	group := s.snapshot.Group(groupID.String())
	if group == nil {
		return ErrNotFound
	}
	idx := -1
	for i := range group.PendingInvitations {
		if group.PendingInvitations[i].Email == email {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	removed := group.PendingInvitations[idx]
	group.PendingInvitations = append(group.PendingInvitations[:idx], group.PendingInvitations[idx+1:]...)

	if err := s.groups.RemoveInvitation(ctx, groupID, email); err != nil {
		if group := s.snapshot.Group(groupID.String()); group != nil {
			if idx > len(group.PendingInvitations) {
				idx = len(group.PendingInvitations)
			}
			group.PendingInvitations = append(group.PendingInvitations[:idx], append([]domain.PendingInvitation{removed}, group.PendingInvitations[idx:]...)...)
		}
		return err
	}
	return nil
}

// --- gift ideas ---

// AddIdea stores an idea and appends it after server confirmation.
func (s *Store) AddIdea(ctx context.Context, idea domain.GiftIdea) (uuid.UUID, error) {
	if idea.ID == uuid.Nil {
		idea.ID = uuid.New()
	}
	serverID, err := s.ideas.Create(ctx, s.snapshot.CurrentUser.ID, idea)
	if err != nil {
		return uuid.Nil, err
	}
	idea.ID = serverID
	s.snapshot.GiftIdeas = append(s.snapshot.GiftIdeas, idea)
	return serverID, nil
}

// UpdateIdea optimistically rewrites an idea.
func (s *Store) UpdateIdea(ctx context.Context, idea domain.GiftIdea) error {
	idx := s.ideaIndex(idea.ID)
	if idx < 0 {
		return ErrNotFound
	}
	prior := s.snapshot.GiftIdeas[idx]
	s.snapshot.GiftIdeas[idx] = idea

	if err := s.ideas.Update(ctx, s.snapshot.CurrentUser.ID, idea); err != nil {
		if idx := s.ideaIndex(idea.ID); idx >= 0 {
			s.snapshot.GiftIdeas[idx] = prior
		}
		return err
	}
	return nil
}

// DeleteIdea optimistically removes an idea.
func (s *Store) DeleteIdea(ctx context.Context, ideaID uuid.UUID) error {
	if s.deleting[ideaID] {
		return ErrMutationInFlight
	}
	idx := s.ideaIndex(ideaID)
	if idx < 0 {
		return ErrNotFound
	}
	removed := s.snapshot.GiftIdeas[idx]
	s.snapshot.GiftIdeas = append(s.snapshot.GiftIdeas[:idx], s.snapshot.GiftIdeas[idx+1:]...)

	s.deleting[ideaID] = true
	defer delete(s.deleting, ideaID)

	if err := s.ideas.Delete(ctx, s.snapshot.CurrentUser.ID, ideaID); err != nil {
		if idx > len(s.snapshot.GiftIdeas) {
			idx = len(s.snapshot.GiftIdeas)
		}
		s.snapshot.GiftIdeas = append(s.snapshot.GiftIdeas[:idx], append([]domain.GiftIdea{removed}, s.snapshot.GiftIdeas[idx:]...)...)
		return err
	}
	return nil
}

// --- profile ---

// UpdateProfile optimistically rewrites the current user's profile.
func (s *Store) UpdateProfile(ctx context.Context, name, email string, birthdate time.Time, sizes domain.Sizes) error {
	prior := s.snapshot.CurrentUser
	s.snapshot.CurrentUser.Name = name
	s.snapshot.CurrentUser.Email = email
	s.snapshot.CurrentUser.Birthdate = birthdate
	s.snapshot.CurrentUser.Sizes = sizes

	if err := s.users.Update(ctx, prior.ID, name, email, birthdate, sizes); err != nil {
		s.snapshot.CurrentUser = prior
		return err
	}
	return nil
}

// --- lookup helpers ---

func (s *Store) findOwnItem(itemID uuid.UUID, kidID *uuid.UUID) *domain.WishlistItem {
	list := s.ownItemList(kidID)
	if list == nil {
		return nil
	}
	if idx := indexOfItem(*list, itemID); idx >= 0 {
		return &(*list)[idx]
	}
	return nil
}

func (s *Store) ownItemList(kidID *uuid.UUID) *[]domain.WishlistItem {
	if kidID == nil {
		return &s.snapshot.WishlistItems
	}
	kid := s.snapshot.Kid(kidID.String())
	if kid == nil {
		return nil
	}
	return &kid.WishlistItems
}

func (s *Store) findMemberItem(groupID uuid.UUID, memberID string, itemID uuid.UUID) *domain.WishlistItem {
	group := s.snapshot.Group(groupID.String())
	if group == nil {
		return nil
	}
	member := group.Member(memberID)
	if member == nil {
		return nil
	}
	if idx := indexOfItem(member.WishlistItems, itemID); idx >= 0 {
		return &member.WishlistItems[idx]
	}
	return nil
}

func (s *Store) findGroupKidItem(groupID, kidID, itemID uuid.UUID) *domain.WishlistItem {
	group := s.snapshot.Group(groupID.String())
	if group == nil {
		return nil
	}
	for i := range group.Members {
		for j := range group.Members[i].Kids {
			kid := &group.Members[i].Kids[j]
			if kid.ID != kidID {
				continue
			}
			if idx := indexOfItem(kid.WishlistItems, itemID); idx >= 0 {
				return &kid.WishlistItems[idx]
			}
		}
	}
	return nil
}

func (s *Store) ideaIndex(id uuid.UUID) int {
	for i := range s.snapshot.GiftIdeas {
		if s.snapshot.GiftIdeas[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfItem(items []domain.WishlistItem, id uuid.UUID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
