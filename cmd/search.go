package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"

	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/render"
	"github.com/ramanasai/magicmind/internal/session"
)

var searchFormat string

// searchCmd does a case-insensitive substring match over entry texts.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find entries containing text",
	Long: `Examples:
	magicmind search stuck
	magicmind search "the walk" --format compact`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := render.ParseFormat(searchFormat)
		if err != nil {
			return err
		}
		fold := cases.Fold()
		query := fold.String(strings.Join(args, " "))

		return withSession(cmd, func(ctx context.Context, s *session.Session, _ journal.Store) error {
			var hits []journal.Entry
			for _, e := range s.Entries() {
				if strings.Contains(fold.String(e.Text), query) {
					hits = append(hits, e)
				}
			}
			out, err := newRenderer(f).RenderEntryList(render.EntryList{Entries: hits, Total: len(hits)})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "default", "output format: default|compact|json|csv|quiet")
}
