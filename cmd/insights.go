package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/magicmind/internal/insights"
	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/session"
)

var insightsJSON bool

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current run of consecutive writing days",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session, _ journal.Store) error {
			n, err := s.Streak()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), newRenderer("").RenderStreak(n))
			return nil
		})
	},
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Group entries into reflective themes with a tip for each",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session, _ journal.Store) error {
			clusters := s.Insights()
			if insightsJSON {
				if clusters == nil {
					clusters = []insights.Cluster{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(clusters)
			}
			fmt.Fprint(cmd.OutOrStdout(), newRenderer("").RenderInsights(clusters))
			return nil
		})
	},
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the reflective prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), newRenderer("").RenderPrompts(prompts()))
		return nil
	},
}

func init() {
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "print clusters as JSON")
}
