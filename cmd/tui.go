package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/session"
	"github.com/ramanasai/magicmind/internal/ui"
)

// tuiCmd launches the Bubble Tea journal. It is also what a bare
// `magicmind` runs.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the full-screen journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		return withSession(cmd, func(ctx context.Context, s *session.Session, store journal.Store) error {
			startReminders(ctx, store)
			return ui.Run(ctx, s, prompts(), cfg.Location(), ui.ThemeFor(!noColor))
		})
	},
}
