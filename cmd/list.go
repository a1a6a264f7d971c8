package cmd

import (
	"path/filepath"

	"github.com/RamXX/backplan/internal/artifact"
	"github.com/RamXX/backplan/internal/format"
	"github.com/RamXX/backplan/internal/model"
	"github.com/RamXX/backplan/internal/summary"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the items of a generated summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		label, _ := cmd.Flags().GetString("label")
		limit, _ := cmd.Flags().GetInt("limit")

		path := filepath.Join(cfg.ReportPath(outDir(cmd)), artifact.SummaryCSVFile)
		if cmd.Flags().Changed("summary") {
			path, _ = cmd.Flags().GetString("summary")
		}
		rows, err := summary.Load(path)
		if err != nil {
			return err
		}
		rows = filterRows(rows, label, limit)

		if jsonOut {
			return format.JSON(cmd.OutOrStdout(), nonNilRows(rows))
		}
		format.Table(cmd.OutOrStdout(), rows)
		return nil
	},
}

// filterRows keeps rows carrying label (when set), then the first limit rows.
func filterRows(rows []model.SummaryRow, label string, limit int) []model.SummaryRow {
	var out []model.SummaryRow
	for _, r := range rows {
		if label != "" && !hasLabel(r.Labels, label) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}

func nonNilRows(rows []model.SummaryRow) []model.SummaryRow {
	if rows == nil {
		return []model.SummaryRow{}
	}
	return rows
}

func init() {
	addOutputFlags(listCmd)
	listCmd.Flags().String("label", "", "only items with this label (e.g. status:mvp)")
	listCmd.Flags().Int("limit", 0, "show at most N items (0 = all)")
	rootCmd.AddCommand(listCmd)
}
