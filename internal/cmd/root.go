package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aesconnect/cli/pkg/api"
	"github.com/aesconnect/cli/pkg/cache"
	"github.com/aesconnect/cli/pkg/config"
	"github.com/aesconnect/cli/pkg/errorlog"
	"github.com/aesconnect/cli/pkg/logger"
	"github.com/aesconnect/cli/pkg/manager"
	"github.com/aesconnect/cli/pkg/retry"
	"github.com/aesconnect/cli/pkg/toast"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
	apiURL     string
)

// App bundles the client and the managers for one invocation. Commands
// receive their dependencies from here instead of reaching for globals.
type App struct {
	Client        *api.Client
	Cache         *cache.Cache
	Toasts        *toast.Emitter
	Posts         *manager.PostManager
	Search        *manager.SearchManager
	Session       *manager.SessionManager
	Notifications *manager.NotificationManager
}

var app *App

func newApp() (*App, error) {
	baseURL := apiURL
	if baseURL == "" {
		baseURL = config.GetString("api.base_url")
	}

	responseCache := cache.New(config.GetDuration("cache.ttl_minutes", time.Minute))

	client, err := api.NewClient(api.Options{
		BaseURL: baseURL,
		Timeout: config.GetDuration("api.timeout", time.Second),
		Cache:   responseCache,
		Retry: retry.NewPolicy(
			config.GetInt("api.max_attempts"),
			config.GetDuration("api.retry_delay_ms", time.Millisecond),
		),
		ErrorLog: errorlog.New(),
	})
	if err != nil {
		return nil, err
	}

	toasts := toast.NewEmitter(nil)
	session := manager.NewSessionManager(client, toasts)
	session.Restore()

	return &App{
		Client:        client,
		Cache:         responseCache,
		Toasts:        toasts,
		Posts:         manager.NewPostManager(client, toasts),
		Search:        manager.NewSearchManager(client, config.GetDuration("search.debounce_ms", time.Millisecond)),
		Session:       session,
		Notifications: manager.NewNotificationManager(client),
	}, nil
}

var rootCmd = &cobra.Command{
	Use:   "aesconnect",
	Short: "AESConnect CLI - Social network of the Alliance des États du Sahel",
	Long: `AESConnect CLI is a command-line client for AESConnect, the social
network of the Alliance des États du Sahel. Share posts, follow your
notifications and connect with the community from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		logger.Init(verbose)

		if outputFmt != "" {
			if err := config.SetString("output.format", outputFmt); err != nil {
				logger.Warn("Could not persist output format", "error", err)
			}
		}

		var err error
		app, err = newApp()
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/aesconnect/cli/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "", "Output format: text, json, table")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "AESConnect backend URL (overrides config)")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(errorsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
