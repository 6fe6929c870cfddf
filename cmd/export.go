package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/render"
	"github.com/ramanasai/magicmind/internal/session"
)

var (
	exportFormat string
	exportOutput string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every entry as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session, _ journal.Store) error {
			var w io.Writer = cmd.OutOrStdout()
			if exportOutput != "" && exportOutput != "-" {
				f, err := os.Create(exportOutput)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return render.Export(w, s.Entries(), exportFormat)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import entries from an export or a browser dump",
	Long: `Accepts the output of 'magicmind export' (JSON or YAML) and the
[{"id","date","text"}] array saved by the browser version. Entries whose id
already exists are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		incoming, err := render.Import(r)
		if err != nil {
			return err
		}

		return withSession(cmd, func(ctx context.Context, s *session.Session, store journal.Store) error {
			seen := map[string]bool{}
			for _, e := range s.Entries() {
				seen[e.ID] = true
			}
			var added, skipped int
			for _, e := range incoming {
				if seen[e.ID] {
					skipped++
					continue
				}
				seen[e.ID] = true
				if !importDryRun {
					if err := store.Create(ctx, e); err != nil {
						return fmt.Errorf("import %s: %w", e.ID, err)
					}
				}
				added++
			}
			verb := "Imported"
			if importDryRun {
				verb = "Would import"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries, skipped %d existing.\n", verb, added, skipped)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json|yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "report what would be imported")
}
