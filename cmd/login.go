package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giftwish/cli/internal/api"
	"github.com/giftwish/cli/internal/config"
)

var (
	flagToken        string
	flagRefreshToken string
	flagEmail        string
	flagName         string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store credentials for your GiftWish server",
	Long: `Store an access token (and optionally a refresh token) issued by your
identity provider, then verify it against the server.

  giftwish login --token eyJhbGci...
  giftwish login --token eyJhbGci... --refresh-token def502...

The email and name flags seed your profile when the server has no
account for you yet:

  giftwish login --token ... --email me@example.com --name "Sam"`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&flagToken, "token", "", "Access token for bearer authentication")
	loginCmd.Flags().StringVar(&flagRefreshToken, "refresh-token", "", "Refresh token for automatic renewal")
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "Email to register under when the account is new")
	loginCmd.Flags().StringVar(&flagName, "name", "", "Display name to register under when the account is new")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if flagToken == "" && flagRefreshToken == "" {
		return fmt.Errorf("provide --token or --refresh-token")
	}

	cfg.Token = flagToken
	cfg.RefreshToken = flagRefreshToken
	if flagEmail != "" {
		cfg.Email = flagEmail
	}
	if flagName != "" {
		cfg.Name = flagName
	}

	// Rebuild the session against the new credentials and verify them
	// with a full load. A missing account is provisioned on the spot.
	apiClient = api.NewClient(cfg.ServerURL, tokenSource())
	apiClient.Log = log
	sess = newSession(apiClient)

	isNew, err := sess.store.Refresh(cmd.Context())
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			return fmt.Errorf("the server rejected the token (401)")
		}
		return fmt.Errorf("verifying credentials: %w", err)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	user := sess.store.Snapshot().CurrentUser
	if isNew {
		fmt.Printf("Account created. Logged in as %s (%s)\n", user.Name, user.Email)
	} else {
		fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Email)
	}
	return nil
}
