package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giftwish/cli/internal/domain"
	"github.com/giftwish/cli/internal/output"
)

var (
	flagIdeaFor       string
	flagIdeaGift      string
	flagIdeaURL       string
	flagIdeaNotes     string
	flagIdeaPurchased bool
)

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Manage your private gift ideas",
	Long: `Manage your private gift ideas. Ideas are visible only to you; they
never appear in any group.`,
}

var ideasLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your gift ideas",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		ideas := sess.store.Snapshot().GiftIdeas
		if flagJSON {
			output.JSON(ideas)
			return nil
		}
		output.IdeaTable(ideas)
		return nil
	},
}

var ideasAddCmd = &cobra.Command{
	Use:   "add <person> <gift>",
	Short: "Record a gift idea",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		idea := domain.GiftIdea{
			PersonName: args[0],
			GiftName:   args[1],
			URL:        flagIdeaURL,
			Notes:      flagIdeaNotes,
		}
		id, err := sess.store.AddIdea(cmd.Context(), idea)
		if err != nil {
			return fmt.Errorf("adding idea: %w", err)
		}
		fmt.Printf("Added %q for %s (%s)\n", args[1], args[0], id)
		return nil
	},
}

var ideasUpdateCmd = &cobra.Command{
	Use:   "update <idea-id>",
	Short: "Update a gift idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		snapshot := sess.store.Snapshot()
		ideaID, err := resolveID(args[0], ideaIDs(snapshot.GiftIdeas))
		if err != nil {
			return err
		}

		var idea domain.GiftIdea
		for _, it := range snapshot.GiftIdeas {
			if it.ID == ideaID {
				idea = it
				break
			}
		}

		if cmd.Flags().Changed("for") {
			idea.PersonName = flagIdeaFor
		}
		if cmd.Flags().Changed("gift") {
			idea.GiftName = flagIdeaGift
		}
		if cmd.Flags().Changed("url") {
			idea.URL = flagIdeaURL
		}
		if cmd.Flags().Changed("notes") {
			idea.Notes = flagIdeaNotes
		}
		if cmd.Flags().Changed("purchased") {
			idea.IsPurchased = flagIdeaPurchased
		}

		if err := sess.store.UpdateIdea(cmd.Context(), idea); err != nil {
			return fmt.Errorf("updating idea: %w", err)
		}
		fmt.Printf("Updated %q\n", idea.GiftName)
		return nil
	},
}

var ideasRmCmd = &cobra.Command{
	Use:   "rm <idea-id>",
	Short: "Remove a gift idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		ideaID, err := resolveID(args[0], ideaIDs(sess.store.Snapshot().GiftIdeas))
		if err != nil {
			return err
		}
		if err := sess.store.DeleteIdea(cmd.Context(), ideaID); err != nil {
			return fmt.Errorf("removing idea: %w", err)
		}
		fmt.Println("Removed.")
		return nil
	},
}

func init() {
	ideasAddCmd.Flags().StringVar(&flagIdeaURL, "url", "", "Product link")
	ideasAddCmd.Flags().StringVar(&flagIdeaNotes, "notes", "", "Free-form notes")

	ideasUpdateCmd.Flags().StringVar(&flagIdeaFor, "for", "", "Who the gift is for")
	ideasUpdateCmd.Flags().StringVar(&flagIdeaGift, "gift", "", "Gift name")
	ideasUpdateCmd.Flags().StringVar(&flagIdeaURL, "url", "", "Product link")
	ideasUpdateCmd.Flags().StringVar(&flagIdeaNotes, "notes", "", "Free-form notes")
	ideasUpdateCmd.Flags().BoolVar(&flagIdeaPurchased, "purchased", false, "Mark as purchased")

	ideasCmd.AddCommand(ideasLsCmd, ideasAddCmd, ideasUpdateCmd, ideasRmCmd)
	rootCmd.AddCommand(ideasCmd)
}
