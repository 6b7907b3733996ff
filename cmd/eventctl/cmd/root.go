package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/inclusivevents/client/internal/accounts"
	"github.com/inclusivevents/client/internal/cms"
	"github.com/inclusivevents/client/internal/config"
	"github.com/inclusivevents/client/internal/media"
	"github.com/inclusivevents/client/internal/session"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string

	rootCmd = &cobra.Command{
		Use:   "eventctl",
		Short: "eventctl - inclusive events platform client",
		Long: `eventctl talks to the inclusive events CMS backend.

It covers the full account lifecycle (register, login, profile and
accessibility-card management) and read access to the event catalog,
keeping the session persisted between runs.`,
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if msg := accounts.UserMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (optional, uses env vars by default)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: console)")
}

// app bundles everything a command needs.
type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	sessions *session.Store
	client   *cms.Client
	accounts *accounts.Service
	media    *media.Resolver
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	logger := config.NewLogger(cfg.Logging)

	sessions := session.New(session.NewFileStore(cfg.Session.File), logger)
	client := cms.NewClient(cfg.API.BaseURL,
		cms.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		cms.WithLocale(cfg.API.Locale),
		cms.WithRateLimit(cfg.API.RateLimit),
		cms.WithTokenSource(sessions),
		cms.WithLogger(logger),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		client:   client,
		accounts: accounts.NewService(client, sessions, logger),
		media:    &media.Resolver{Origin: cfg.API.Origin},
	}, nil
}
