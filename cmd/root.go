package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ramanasai/magicmind/internal/cloud"
	"github.com/ramanasai/magicmind/internal/config"
	"github.com/ramanasai/magicmind/internal/db"
	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/logging"
	"github.com/ramanasai/magicmind/internal/notify"
	"github.com/ramanasai/magicmind/internal/render"
	"github.com/ramanasai/magicmind/internal/schedule"
	"github.com/ramanasai/magicmind/internal/session"
	"github.com/ramanasai/magicmind/internal/streak"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg    = config.Default()
	logger = logging.Discard()
)

// openStore is replaced in tests.
var openStore = openConfiguredStore

var rootCmd = &cobra.Command{
	Use:           "magicmind",
	Short:         "A private journal with streaks and reflective insights",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger = logging.New(os.Stderr, level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return tuiCmd.RunE(cmd, args)
	},
}

// Execute runs the CLI and reports errors on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/magicmind/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors")

	rootCmd.AddCommand(
		writeCmd, editCmd, deleteCmd, listCmd, searchCmd,
		streakCmd, insightsCmd, summaryCmd, promptsCmd,
		exportCmd, importCmd, serveCmd, tokenCmd, tuiCmd, versionCmd,
	)
}

func openConfiguredStore(ctx context.Context, cfg config.Config, log *slog.Logger) (journal.Store, func() error, error) {
	switch cfg.Storage.Driver {
	case "cloud":
		s, err := cloud.New(cloud.Options{
			Endpoint:   cfg.Cloud.Endpoint,
			Container:  cfg.Cloud.Container,
			User:       cfg.Cloud.User,
			Token:      cfg.Cloud.Token,
			Passphrase: cfg.Cloud.Passphrase,
			Logger:     log,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case "", db.DriverSQLite, db.DriverPostgres:
		opts := db.Options{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN, Logger: log}
		if cfg.Encryption.Enabled {
			if cfg.Encryption.Passphrase == "" {
				return nil, nil, errors.New("encryption is enabled but MAGICMIND_ENCRYPTION_PASSPHRASE is not set")
			}
			opts.Passphrase = cfg.Encryption.Passphrase
		}
		s, err := db.Open(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// withSession opens the configured store, loads a session over it and
// hands both to f.
func withSession(cmd *cobra.Command, f func(ctx context.Context, s *session.Session, store journal.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	s := session.New(store,
		session.WithLocation(cfg.Location()),
		session.WithLogger(logger),
	)
	if err := s.Load(ctx); err != nil {
		return err
	}
	return f(ctx, s, store)
}

func newRenderer(format render.Format) *render.Renderer {
	rc := render.DefaultConfig()
	rc.Format = format
	rc.Color = !noColor
	rc.Location = cfg.Location()
	return render.NewRenderer(rc)
}

func prompts() []string {
	if len(cfg.Prompts) > 0 {
		return cfg.Prompts
	}
	return session.DefaultPrompts
}

// startReminders runs the daily reminder in the background of long-lived
// commands. MAGICMIND_NO_REMINDER=1 turns it off.
func startReminders(ctx context.Context, store journal.Store) {
	if !cfg.Reminder.Enabled || os.Getenv("MAGICMIND_NO_REMINDER") == "1" {
		return
	}
	go schedule.Run(ctx, cfg, func() {
		entries, err := store.List(ctx)
		if err != nil {
			logger.Warn("reminder: list entries", "err", err)
			return
		}
		days, err := streak.Compute(entries, cfg.Location())
		if err != nil {
			logger.Warn("reminder: streak", "err", err)
		}
		if err := notify.Remind(notify.Desktop, days); err != nil {
			logger.Warn("reminder: notify", "err", err)
		}
	})
	logger.Debug("daily reminder scheduled", "time", cfg.Reminder.Time)
}
