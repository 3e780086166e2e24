package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/giftwish/cli/internal/api"
	"github.com/giftwish/cli/internal/auth"
	"github.com/giftwish/cli/internal/config"
	"github.com/giftwish/cli/internal/services"
	"github.com/giftwish/cli/internal/store"
	"github.com/giftwish/cli/pkg/logger"
)

var (
	flagJSON      bool
	flagServerURL string
	flagLogLevel  string

	cfg       *config.Config
	log       *logrus.Logger
	apiClient *api.Client
	sess      *session
)

// session bundles the services and the store behind one snapshot.
type session struct {
	users    *services.UsersService
	groups   *services.GroupsService
	kids     *services.KidsService
	wishlist *services.WishlistService
	ideas    *services.GiftIdeasService
	store    *store.Store
}

var rootCmd = &cobra.Command{
	Use:   "giftwish",
	Short: "GiftWish CLI — manage wishlists, groups, and gift ideas from the terminal",
	Long: `GiftWish CLI lets you maintain your wishlist, coordinate gift groups,
track your kids' lists, and keep private gift ideas without leaving
the terminal.

Get started:
  giftwish login --token X     Store your access token
  giftwish sync                Fetch your data from the server
  giftwish wishlist ls         Show your own wishlist
  giftwish groups ls           Show your gift groups`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagServerURL != "" {
			cfg.ServerURL = flagServerURL
		}

		level := flagLogLevel
		if level == "" {
			level = os.Getenv("LOG_LEVEL")
		}
		if level == "" {
			level = "warn"
		}
		log = logger.New(level)

		apiClient = api.NewClient(cfg.ServerURL, tokenSource())
		apiClient.Log = log
		apiClient.OnUnauthorized = func() {
			log.Warn(`session expired, run "giftwish login" to sign in again`)
		}

		sess = newSession(apiClient)
		return nil
	},
}

// tokenSource picks the right bearer-token strategy for the stored
// credentials. With a refresh token the access token renews itself;
// with only an access token it is served as-is until the server
// rejects it.
func tokenSource() api.TokenSource {
	if cfg.RefreshToken != "" {
		src := auth.NewRefreshing(refreshAccessToken)
		if cfg.Token != "" {
			src.Seed(cfg.Token)
		}
		return src
	}
	if cfg.Token != "" {
		return auth.Static(cfg.Token)
	}
	return nil
}

// refreshAccessToken trades the stored refresh token for a new access
// token and persists it so later invocations start warm.
func refreshAccessToken(ctx context.Context) (string, error) {
	client := api.NewClient(cfg.ServerURL, nil)
	client.Log = log

	var resp struct {
		Token string `json:"token"`
	}
	req := api.NewRequest(http.MethodPost, "/auth/refresh").
		WithJSON(map[string]string{"refreshToken": cfg.RefreshToken})
	if err := client.Do(ctx, req, &resp); err != nil {
		return "", err
	}

	cfg.Token = resp.Token
	if err := config.Save(cfg); err != nil {
		log.WithError(err).Warn("could not persist refreshed token")
	}
	return resp.Token, nil
}

func newSession(client *api.Client) *session {
	s := &session{
		users:    services.NewUsers(client),
		groups:   services.NewGroups(client),
		kids:     services.NewKids(client),
		wishlist: services.NewWishlist(client),
		ideas:    services.NewGiftIdeas(client),
	}
	bootstrap := services.NewBootstrap(client, s.users, func() services.Identity {
		return services.Identity{Email: cfg.Email, Name: cfg.Name}
	})
	s.store = store.New(bootstrap, s.users, s.wishlist, s.kids, s.groups, s.ideas)
	return s
}

// loadSnapshot hydrates the store; every data command starts here.
func loadSnapshot(ctx context.Context) error {
	if err := requireAuth(); err != nil {
		return err
	}
	isNew, err := sess.store.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("loading account data: %w", err)
	}
	if isNew {
		fmt.Fprintln(os.Stderr, "Welcome! Your account has been set up.")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Override server URL (default: from config or http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// requireAuth is a helper that returns an error if no token is configured.
func requireAuth() error {
	if cfg == nil || (!cfg.HasToken() && cfg.RefreshToken == "") {
		return fmt.Errorf("not authenticated — run \"giftwish login\" first")
	}
	return nil
}
