package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/giftwish/cli/internal/domain"
	"github.com/giftwish/cli/internal/store"
)

var purchaseCmd = &cobra.Command{
	Use:   "purchase <group-id> <item-id>",
	Short: "Toggle the purchase mark on a group member's item",
	Long: `Mark an item on another member's (or their kid's) wishlist as
purchased, or undo your own mark. Items claimed by someone else stay
theirs; the toggle is refused.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		snapshot := sess.store.Snapshot()

		groupID, err := resolveID(args[0], groupIDs(snapshot.Groups))
		if err != nil {
			return err
		}
		group := snapshot.Group(groupID.String())

		memberID, kidID, itemID, err := locateGroupItem(group, args[1])
		if err != nil {
			return err
		}

		if kidID != uuid.Nil {
			err = sess.store.ToggleKidItem(cmd.Context(), groupID, kidID, itemID)
		} else {
			err = sess.store.ToggleMemberItem(cmd.Context(), groupID, memberID, itemID)
		}
		if errors.Is(err, store.ErrPurchasedByOther) {
			return fmt.Errorf("that item is already purchased by someone else")
		}
		if err != nil {
			return fmt.Errorf("toggling purchase: %w", err)
		}

		if item, _ := findGroupItem(group, itemID); item != nil && item.IsPurchased {
			fmt.Printf("Marked %q as purchased.\n", item.Name)
		} else if item != nil {
			fmt.Printf("Unmarked %q.\n", item.Name)
		}
		return nil
	},
}

// locateGroupItem finds an item anywhere in the group, on a member's
// own list or on one of their kids' lists, by full id or prefix.
func locateGroupItem(group *domain.Group, arg string) (memberID string, kidID, itemID uuid.UUID, err error) {
	var all []uuid.UUID
	for _, m := range group.Members {
		all = append(all, itemIDs(m.WishlistItems)...)
		for _, k := range m.Kids {
			all = append(all, itemIDs(k.WishlistItems)...)
		}
	}
	itemID, err = resolveID(arg, all)
	if err != nil {
		return "", uuid.Nil, uuid.Nil, err
	}

	for _, m := range group.Members {
		for _, it := range m.WishlistItems {
			if it.ID == itemID {
				return m.ID, uuid.Nil, itemID, nil
			}
		}
		for _, k := range m.Kids {
			for _, it := range k.WishlistItems {
				if it.ID == itemID {
					return m.ID, k.ID, itemID, nil
				}
			}
		}
	}
	return "", uuid.Nil, uuid.Nil, fmt.Errorf("no item %q in this group", arg)
}

func findGroupItem(group *domain.Group, itemID uuid.UUID) (*domain.WishlistItem, string) {
	for i := range group.Members {
		m := &group.Members[i]
		for j := range m.WishlistItems {
			if m.WishlistItems[j].ID == itemID {
				return &m.WishlistItems[j], m.ID
			}
		}
		for j := range m.Kids {
			for l := range m.Kids[j].WishlistItems {
				if m.Kids[j].WishlistItems[l].ID == itemID {
					return &m.Kids[j].WishlistItems[l], m.ID
				}
			}
		}
	}
	return nil, ""
}

func init() {
	rootCmd.AddCommand(purchaseCmd)
}
