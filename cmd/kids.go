package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giftwish/cli/internal/api"
	"github.com/giftwish/cli/internal/domain"
	"github.com/giftwish/cli/internal/output"
)

var (
	flagKidBirthdate string
	flagKidGuardian  string
	flagKidName      string
)

var kidsCmd = &cobra.Command{
	Use:   "kids",
	Short: "Manage your kids and their wishlists",
}

var kidsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your kids",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		kids := sess.store.Snapshot().Kids
		if flagJSON {
			output.JSON(kids)
			return nil
		}
		output.KidTable(kids)
		return nil
	},
}

var kidsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a kid",
	Long: `Register a kid under your account. A co-parent invited with
--guardian sees and edits the kid's wishlist too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}

		kid := domain.Kid{
			Name:      args[0],
			Birthdate: api.ParseDate(flagKidBirthdate),
			Sizes:     sizesFromFlags(cmd, domain.Sizes{}),
		}
		id, err := sess.store.AddKid(cmd.Context(), kid, flagKidGuardian)
		if err != nil {
			return fmt.Errorf("adding kid: %w", err)
		}
		fmt.Printf("Added %q (%s)\n", args[0], id)
		return nil
	},
}

var kidsUpdateCmd = &cobra.Command{
	Use:   "update <kid-id>",
	Short: "Update a kid's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		snapshot := sess.store.Snapshot()
		kidID, err := resolveID(args[0], kidIDs(snapshot.Kids))
		if err != nil {
			return err
		}
		kid := *snapshot.Kid(kidID.String())

		if cmd.Flags().Changed("name") {
			kid.Name = flagKidName
		}
		if cmd.Flags().Changed("birthdate") {
			kid.Birthdate = api.ParseDate(flagKidBirthdate)
		}
		kid.Sizes = sizesFromFlags(cmd, kid.Sizes)

		if err := sess.store.UpdateKid(cmd.Context(), kid, flagKidGuardian); err != nil {
			return fmt.Errorf("updating kid: %w", err)
		}
		fmt.Printf("Updated %q\n", kid.Name)
		return nil
	},
}

var kidsRmCmd = &cobra.Command{
	Use:   "rm <kid-id>",
	Short: "Remove a kid and their wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		kidID, err := resolveID(args[0], kidIDs(sess.store.Snapshot().Kids))
		if err != nil {
			return err
		}
		if err := sess.store.DeleteKid(cmd.Context(), kidID); err != nil {
			return fmt.Errorf("removing kid: %w", err)
		}
		fmt.Println("Removed.")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{kidsAddCmd, kidsUpdateCmd} {
		c.Flags().StringVar(&flagKidBirthdate, "birthdate", "", "Birthdate (YYYY-MM-DD)")
		c.Flags().StringVar(&flagKidGuardian, "guardian", "", "Co-parent email to grant access")
		addSizesFlags(c)
	}
	kidsUpdateCmd.Flags().StringVar(&flagKidName, "name", "", "New name")

	kidsCmd.AddCommand(kidsLsCmd, kidsAddCmd, kidsUpdateCmd, kidsRmCmd)
	rootCmd.AddCommand(kidsCmd)
}
