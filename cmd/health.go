package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giftwish/cli/internal/output"
	"github.com/giftwish/cli/internal/services"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the server is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		up := services.NewHealth(cfg.ServerURL).Check(cmd.Context())

		if flagJSON {
			output.JSON(map[string]interface{}{"server": cfg.ServerURL, "up": up})
			if !up {
				return fmt.Errorf("server is not reachable")
			}
			return nil
		}

		if !up {
			return fmt.Errorf("server %s is not reachable", cfg.ServerURL)
		}
		fmt.Printf("Server %s is up.\n", cfg.ServerURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
