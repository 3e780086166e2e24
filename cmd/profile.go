package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giftwish/cli/internal/api"
	"github.com/giftwish/cli/internal/config"
	"github.com/giftwish/cli/internal/domain"
	"github.com/giftwish/cli/internal/output"
)

var (
	flagProfileName      string
	flagProfileEmail     string
	flagProfileBirthdate string

	flagSizeShirt      string
	flagSizePants      string
	flagSizeShoes      string
	flagSizeSweatshirt string
	flagSizeHat        string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		user := sess.store.Snapshot().CurrentUser
		if flagJSON {
			output.JSON(user)
			return nil
		}
		output.UserInfo(user)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your name, email, birthdate, or sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		user := sess.store.Snapshot().CurrentUser

		name := user.Name
		if cmd.Flags().Changed("name") {
			name = flagProfileName
		}
		email := user.Email
		if cmd.Flags().Changed("email") {
			email = flagProfileEmail
		}
		birthdate := user.Birthdate
		if cmd.Flags().Changed("birthdate") {
			birthdate = api.ParseDate(flagProfileBirthdate)
		}
		sizes := sizesFromFlags(cmd, user.Sizes)

		if err := sess.store.UpdateProfile(cmd.Context(), name, email, birthdate, sizes); err != nil {
			return fmt.Errorf("updating profile: %w", err)
		}
		fmt.Println("Profile updated.")
		return nil
	},
}

var flagDeleteConfirm bool

var profileDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Permanently delete your account and all its data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		if !flagDeleteConfirm {
			return fmt.Errorf("this removes your wishlist, kids, and group memberships; re-run with --confirm")
		}
		if err := sess.users.DeleteMe(cmd.Context()); err != nil {
			return fmt.Errorf("deleting account: %w", err)
		}
		if err := configClear(); err != nil {
			return err
		}
		fmt.Println("Account deleted.")
		return nil
	},
}

// addSizesFlags registers the clothing-size flags shared by the
// profile and kid commands.
func addSizesFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagSizeShirt, "shirt", "", "Shirt size")
	c.Flags().StringVar(&flagSizePants, "pants", "", "Pants size")
	c.Flags().StringVar(&flagSizeShoes, "shoes", "", "Shoe size")
	c.Flags().StringVar(&flagSizeSweatshirt, "sweatshirt", "", "Sweatshirt size")
	c.Flags().StringVar(&flagSizeHat, "hat", "", "Hat size")
}

// sizesFromFlags overlays any size flags the user set on top of the
// current values.
func sizesFromFlags(cmd *cobra.Command, current domain.Sizes) domain.Sizes {
	if cmd.Flags().Changed("shirt") {
		current.Shirt = flagSizeShirt
	}
	if cmd.Flags().Changed("pants") {
		current.Pants = flagSizePants
	}
	if cmd.Flags().Changed("shoes") {
		current.Shoes = flagSizeShoes
	}
	if cmd.Flags().Changed("sweatshirt") {
		current.Sweatshirt = flagSizeSweatshirt
	}
	if cmd.Flags().Changed("hat") {
		current.Hat = flagSizeHat
	}
	return current
}

func init() {
	profileUpdateCmd.Flags().StringVar(&flagProfileName, "name", "", "Display name")
	profileUpdateCmd.Flags().StringVar(&flagProfileEmail, "email", "", "Email address")
	profileUpdateCmd.Flags().StringVar(&flagProfileBirthdate, "birthdate", "", "Birthdate (YYYY-MM-DD)")
	addSizesFlags(profileUpdateCmd)

	profileDeleteCmd.Flags().BoolVar(&flagDeleteConfirm, "confirm", false, "Confirm the permanent deletion")

	profileCmd.AddCommand(profileUpdateCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}

// configClear drops the stored credentials after the account is gone.
func configClear() error {
	if err := config.Clear(); err != nil {
		return fmt.Errorf("clearing config: %w", err)
	}
	return nil
}
