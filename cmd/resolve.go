package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/giftwish/cli/internal/domain"
)

// resolveID matches a user-supplied id argument against known ids,
// accepting either the full uuid or an unambiguous prefix as shown in
// the tables. A well-formed uuid that is not in known is still an
// error; every caller dereferences the lookup result.
func resolveID(arg string, known []uuid.UUID) (uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		for _, k := range known {
			if k == id {
				return id, nil
			}
		}
		return uuid.Nil, fmt.Errorf("no entity matches id %q", arg)
	}

	var match uuid.UUID
	found := 0
	for _, id := range known {
		if strings.HasPrefix(id.String(), strings.ToLower(arg)) {
			match = id
			found++
		}
	}
	switch found {
	case 0:
		return uuid.Nil, fmt.Errorf("no entity matches id %q", arg)
	case 1:
		return match, nil
	default:
		return uuid.Nil, fmt.Errorf("id %q is ambiguous, use the full uuid", arg)
	}
}

func itemIDs(items []domain.WishlistItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func kidIDs(kids []domain.Kid) []uuid.UUID {
	ids := make([]uuid.UUID, len(kids))
	for i, k := range kids {
		ids[i] = k.ID
	}
	return ids
}

func groupIDs(groups []domain.Group) []uuid.UUID {
	ids := make([]uuid.UUID, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return ids
}

func ideaIDs(ideas []domain.GiftIdea) []uuid.UUID {
	ids := make([]uuid.UUID, len(ideas))
	for i, idea := range ideas {
		ids[i] = idea.ID
	}
	return ids
}
