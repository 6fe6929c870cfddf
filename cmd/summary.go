package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/render"
	"github.com/ramanasai/magicmind/internal/session"
)

// summaryCmd prints the streak, entry counts and theme counts.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Streak, entry counts and themes at a glance",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session, _ journal.Store) error {
			loc := cfg.Location()
			now := time.Now()
			entries := s.Entries()

			n, err := s.Streak()
			if err != nil {
				return err
			}
			todayFrom, todayTo, _ := render.PresetRange("today", now, loc)
			weekFrom, weekTo, _ := render.PresetRange("week", now, loc)

			out := cmd.OutOrStdout()
			fmt.Fprint(out, newRenderer("").RenderStreak(n))
			fmt.Fprintf(out, "  %-10s %4d\n", "today", len(render.Window(entries, todayFrom, todayTo)))
			fmt.Fprintf(out, "  %-10s %4d\n", "this week", len(render.Window(entries, weekFrom, weekTo)))
			fmt.Fprintf(out, "  %-10s %4d\n", "total", len(entries))
			for _, c := range s.Insights() {
				fmt.Fprintf(out, "  %-10s %4d\n", c.Name, len(c.Texts))
			}
			return nil
		})
	},
}
