package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/session"
)

var writePrompt int

var writeCmd = &cobra.Command{
	Use:   "write [text]",
	Short: "Write a new journal entry",
	Long: `Examples:
	magicmind write "A small win today"
	echo "feeling scattered" | magicmind write
	magicmind write --prompt 3 "the same meeting again"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 || text == "-" {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = string(b)
		}
		if writePrompt > 0 {
			ps := prompts()
			if writePrompt > len(ps) {
				return fmt.Errorf("no prompt %d (have %d)", writePrompt, len(ps))
			}
			body := strings.TrimSpace(text)
			if body == "" {
				return journal.ErrEmptyText
			}
			text = session.AppendPrompt(ps[writePrompt-1], body)
		}

		return withSession(cmd, func(ctx context.Context, s *session.Session, _ journal.Store) error {
			s.NewEntry()
			e, err := s.Save(ctx, text)
			if err != nil {
				return err
			}
			n, err := s.Streak()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved %s.\n", e.ID)
			fmt.Fprint(out, newRenderer("").RenderStreak(n))
			return nil
		})
	},
}

func init() {
	writeCmd.Flags().IntVarP(&writePrompt, "prompt", "p", 0, "start the entry with reflective prompt N (see `magicmind prompts`)")
}
