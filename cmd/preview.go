package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RamXX/backplan/internal/artifact"
	"github.com/RamXX/backplan/internal/ui"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [id]",
	Short: "Render the plan, or one issue draft, in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := outDir(cmd)
		theme := cfg.Theme

		if len(args) == 0 {
			data, err := os.ReadFile(filepath.Join(out, artifact.PlanFile))
			if err != nil {
				return fmt.Errorf("read plan: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderMarkdown(string(data), theme))
			return nil
		}

		s, rows, err := openOutput(cmd)
		if err != nil {
			return err
		}
		index, err := s.DraftIndex(rows)
		if err != nil {
			return err
		}
		if _, ok := index[args[0]]; !ok {
			return fmt.Errorf("%s is not in the summary", args[0])
		}
		data, err := os.ReadFile(filepath.Join(s.Dir(), index[args[0]]))
		if err != nil {
			return fmt.Errorf("read draft: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderMarkdown(string(data), theme))
		return nil
	},
}

func init() {
	addOutputFlags(previewCmd)
	rootCmd.AddCommand(previewCmd)
}
