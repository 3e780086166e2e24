package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/giftwish/cli/internal/domain"
	"github.com/giftwish/cli/internal/output"
)

var (
	flagItemKid   string
	flagItemDesc  string
	flagItemPrice float64
	flagItemLink  string
	flagItemName  string
)

var wishlistCmd = &cobra.Command{
	Use:     "wishlist",
	Aliases: []string{"wl"},
	Short:   "Manage your own wishlist (or a kid's with --kid)",
}

var wishlistLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List wishlist items",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}

		items, _, err := targetList()
		if err != nil {
			return err
		}
		if flagJSON {
			output.JSON(items)
			return nil
		}
		output.ItemTable(items)
		return nil
	},
}

var wishlistShowCmd = &cobra.Command{
	Use:   "show <item-id>",
	Short: "Show a wishlist item's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		items, _, err := targetList()
		if err != nil {
			return err
		}
		itemID, err := resolveID(args[0], itemIDs(items))
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.ID == itemID {
				if flagJSON {
					output.JSON(it)
				} else {
					output.ItemDetail(it)
				}
				return nil
			}
		}
		return fmt.Errorf("no item with id %q", args[0])
	},
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a wishlist item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		_, kidID, err := targetList()
		if err != nil {
			return err
		}

		item := domain.WishlistItem{
			Name:        args[0],
			Description: flagItemDesc,
			Link:        flagItemLink,
		}
		if cmd.Flags().Changed("price") {
			price := flagItemPrice
			item.Price = &price
		}

		id, err := sess.store.AddItem(cmd.Context(), item, kidID)
		if err != nil {
			return fmt.Errorf("adding item: %w", err)
		}
		fmt.Printf("Added %q (%s)\n", args[0], id)
		return nil
	},
}

var wishlistUpdateCmd = &cobra.Command{
	Use:   "update <item-id>",
	Short: "Update a wishlist item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		items, kidID, err := targetList()
		if err != nil {
			return err
		}
		itemID, err := resolveID(args[0], itemIDs(items))
		if err != nil {
			return err
		}

		var item domain.WishlistItem
		for _, it := range items {
			if it.ID == itemID {
				item = it
				break
			}
		}

		if cmd.Flags().Changed("name") {
			item.Name = flagItemName
		}
		if cmd.Flags().Changed("desc") {
			item.Description = flagItemDesc
		}
		if cmd.Flags().Changed("link") {
			item.Link = flagItemLink
		}
		if cmd.Flags().Changed("price") {
			price := flagItemPrice
			item.Price = &price
		}

		if err := sess.store.UpdateItem(cmd.Context(), item, kidID); err != nil {
			return fmt.Errorf("updating item: %w", err)
		}
		fmt.Printf("Updated %q\n", item.Name)
		return nil
	},
}

var wishlistRmCmd = &cobra.Command{
	Use:   "rm <item-id>",
	Short: "Remove a wishlist item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		items, kidID, err := targetList()
		if err != nil {
			return err
		}
		itemID, err := resolveID(args[0], itemIDs(items))
		if err != nil {
			return err
		}

		if err := sess.store.DeleteItem(cmd.Context(), itemID, kidID); err != nil {
			return fmt.Errorf("removing item: %w", err)
		}
		fmt.Println("Removed.")
		return nil
	},
}

// targetList picks the wishlist the item commands operate on: the
// current user's own, or a kid's when --kid is given.
func targetList() ([]domain.WishlistItem, *uuid.UUID, error) {
	snapshot := sess.store.Snapshot()
	if flagItemKid == "" {
		return snapshot.WishlistItems, nil, nil
	}
	kidID, err := resolveID(flagItemKid, kidIDs(snapshot.Kids))
	if err != nil {
		return nil, nil, err
	}
	kid := snapshot.Kid(kidID.String())
	if kid == nil {
		return nil, nil, fmt.Errorf("no kid with id %q", flagItemKid)
	}
	return kid.WishlistItems, &kidID, nil
}

func init() {
	wishlistCmd.PersistentFlags().StringVar(&flagItemKid, "kid", "", "Operate on this kid's wishlist instead of your own")

	for _, c := range []*cobra.Command{wishlistAddCmd, wishlistUpdateCmd} {
		c.Flags().StringVar(&flagItemDesc, "desc", "", "Item description")
		c.Flags().Float64Var(&flagItemPrice, "price", 0, "Approximate price")
		c.Flags().StringVar(&flagItemLink, "link", "", "Product link")
	}
	wishlistUpdateCmd.Flags().StringVar(&flagItemName, "name", "", "New item name")

	wishlistCmd.AddCommand(wishlistLsCmd, wishlistShowCmd, wishlistAddCmd, wishlistUpdateCmd, wishlistRmCmd)
	rootCmd.AddCommand(wishlistCmd)
}
