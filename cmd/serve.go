package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramanasai/magicmind/internal/auth"
	"github.com/ramanasai/magicmind/internal/server"
	"github.com/ramanasai/magicmind/internal/version"
)

var (
	serveAddr string
	tokenTTL  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal over a token-protected JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Server.Secret == "" {
			return fmt.Errorf("server.secret is not set (MAGICMIND_SERVER_SECRET): %w", auth.ErrNoSecret)
		}
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, closeStore, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()
		startReminders(ctx, store)

		srv := server.New(store, server.Options{
			Secret:   cfg.Server.Secret,
			Location: cfg.Location(),
			Prompts:  prompts(),
			Logger:   logger,
		})
		err = srv.ListenAndServe(ctx, addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issue an API token signed with server.secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ttl := cfg.Server.TokenTTL
		if cmd.Flags().Changed("ttl") {
			ttl = tokenTTL
		}
		tok, err := auth.GenerateToken(args[0], cfg.Server.Secret, ttl, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime, 0 = never expires (default server.token_ttl)")
}
