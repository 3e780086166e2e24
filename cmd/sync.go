package cmd

import (
	"github.com/spf13/cobra"

	"github.com/giftwish/cli/internal/output"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"status"},
	Short:   "Fetch your account data and show a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSnapshot(cmd.Context()); err != nil {
			return err
		}

		snapshot := sess.store.Snapshot()
		if flagJSON {
			output.JSON(snapshot)
			return nil
		}
		output.Summary(snapshot)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
