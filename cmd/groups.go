package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giftwish/cli/internal/output"
)

var (
	flagInviteRole   string
	flagInviteUserID string
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage your gift groups",
}

var groupsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		groups := sess.store.Snapshot().Groups
		if flagJSON {
			output.JSON(groups)
			return nil
		}
		output.GroupTable(groups)
		return nil
	},
}

var groupsShowCmd = &cobra.Command{
	Use:   "show <group-id>",
	Short: "Show a group's members and pending invitations",
	Args:  cobra.ExactArgs(1),
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
		if flagJSON {
			output.JSON(group)
			return nil
		}
		output.GroupDetail(*group)
		return nil
	},
}

var groupsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		id, err := sess.store.AddGroup(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("creating group: %w", err)
		}
		fmt.Printf("Created %q (%s)\n", args[0], id)
		return nil
	},
}

var groupsRenameCmd = &cobra.Command{
	Use:   "rename <group-id> <name>",
	Short: "Rename a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		groupID, err := resolveID(args[0], groupIDs(sess.store.Snapshot().Groups))
		if err != nil {
			return err
		}
		if err := sess.store.RenameGroup(cmd.Context(), groupID, args[1]); err != nil {
			return fmt.Errorf("renaming group: %w", err)
		}
		fmt.Printf("Renamed to %q\n", args[1])
		return nil
	},
}

var groupsRmCmd = &cobra.Command{
	Use:   "rm <group-id>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		groupID, err := resolveID(args[0], groupIDs(sess.store.Snapshot().Groups))
		if err != nil {
			return err
		}
		if err := sess.store.DeleteGroup(cmd.Context(), groupID); err != nil {
			return fmt.Errorf("deleting group: %w", err)
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var groupsInviteCmd = &cobra.Command{
	Use:   "invite <group-id> [email]",
	Short: "Add a member by email or user id",
	Long: `Invite a member by email. Existing users join directly; anyone else
gets a pending invitation that converts when they sign up.

A known user id skips the invitation step entirely:

  giftwish groups invite <group-id> --user-id U7`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		groupID, err := resolveID(args[0], groupIDs(sess.store.Snapshot().Groups))
		if err != nil {
			return err
		}

		if flagInviteUserID != "" {
			if len(args) > 1 {
				return fmt.Errorf("provide an email or --user-id, not both")
			}
			if err := sess.store.AddMemberByID(cmd.Context(), groupID, flagInviteUserID, flagInviteRole); err != nil {
				return fmt.Errorf("adding member: %w", err)
			}
			fmt.Printf("Added user %s\n", flagInviteUserID)
			return nil
		}

		if len(args) < 2 {
			return fmt.Errorf("provide an email to invite, or --user-id for an existing user")
		}
		if err := sess.store.InviteMember(cmd.Context(), groupID, args[1], flagInviteRole); err != nil {
			return fmt.Errorf("inviting member: %w", err)
		}
		fmt.Printf("Invited %s\n", args[1])
		return nil
	},
}

var groupsRemoveMemberCmd = &cobra.Command{
	Use:   "remove-member <group-id> <user-id>",
	Short: "Remove a member from a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		groupID, err := resolveID(args[0], groupIDs(sess.store.Snapshot().Groups))
		if err != nil {
			return err
		}
		if err := sess.store.RemoveMember(cmd.Context(), groupID, args[1]); err != nil {
			return fmt.Errorf("removing member: %w", err)
		}
		fmt.Println("Removed.")
		return nil
	},
}

var groupsRmInviteCmd = &cobra.Command{
	Use:   "rm-invite <group-id> <email>",
	Short: "Withdraw a pending invitation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}
		groupID, err := resolveID(args[0], groupIDs(sess.store.Snapshot().Groups))
		if err != nil {
			return err
		}
		if err := sess.store.RemoveInvitation(cmd.Context(), groupID, args[1]); err != nil {
			return fmt.Errorf("withdrawing invitation: %w", err)
		}
		fmt.Println("Withdrawn.")
		return nil
	},
}

func init() {
	groupsInviteCmd.Flags().StringVar(&flagInviteRole, "role", "member", "Role for the new member: member, admin")
	groupsInviteCmd.Flags().StringVar(&flagInviteUserID, "user-id", "", "Add an existing user directly by id")

	groupsCmd.AddCommand(groupsLsCmd, groupsShowCmd, groupsAddCmd, groupsRenameCmd,
		groupsRmCmd, groupsInviteCmd, groupsRemoveMemberCmd, groupsRmInviteCmd)
	rootCmd.AddCommand(groupsCmd)
}
