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

var (
	since  string
	preset string
	limit  int
	page   int
	format string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries, newest first",
	Long: `Examples:
	magicmind list                          # every entry
	magicmind list --since yesterday        # since yesterday
	magicmind list --preset last7days       # last 7 days
	magicmind list --format json --limit 50 # machine readable
	magicmind list --page 2                 # older entries`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := render.ParseFormat(format)
		if err != nil {
			return err
		}
		loc := cfg.Location()
		now := time.Now()

		var from, to time.Time
		switch {
		case preset != "":
			from, to, err = render.PresetRange(preset, now, loc)
			if err != nil {
				return fmt.Errorf("invalid --preset %q: %w", preset, err)
			}
		case since != "":
			from, err = render.ParseSince(since, now, loc)
			if err != nil {
				return fmt.Errorf("invalid --since %q: %w", since, err)
			}
		}

		return withSession(cmd, func(ctx context.Context, s *session.Session, _ journal.Store) error {
			entries := render.Window(s.Entries(), from, to)
			p := render.NewPagination(len(entries), limit, page)
			list := p.List(entries)
			if preset != "" {
				list.Since = preset
			} else {
				list.Since = since
			}

			out, err := newRenderer(f).RenderEntryList(list)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

func init() {
	listCmd.Flags().StringVar(&since, "since", "", "show entries since: today, yesterday, '3 days', 2025-06-01, ...")
	listCmd.Flags().StringVar(&preset, "preset", "", "date preset: today|yesterday|week|month|last7days|last30days")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "entries per page (0 = all)")
	listCmd.Flags().IntVar(&page, "page", 1, "page number")
	listCmd.Flags().StringVarP(&format, "format", "f", "default", "output format: default|compact|json|csv|quiet")
}
