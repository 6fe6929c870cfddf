package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/session"
)

var editText string

var editCmd = &cobra.Command{
	Use:   "edit <entry-id>",
	Short: "Replace the text of an entry",
	Long: `The entry keeps its id and original date.

Example:
	magicmind edit 0190c8a2-... --text "Felt better after the walk"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session, _ journal.Store) error {
			if _, err := s.Edit(args[0]); err != nil {
				return err
			}
			e, err := s.Save(ctx, editText)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s.\n", e.ID)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <entry-id>",
	Aliases: []string{"rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session, _ journal.Store) error {
			if err := s.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
			return nil
		})
	},
}

func init() {
	editCmd.Flags().StringVarP(&editText, "text", "t", "", "new entry text")
	_ = editCmd.MarkFlagRequired("text")
}
