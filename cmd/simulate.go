package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/RamXX/backplan/internal/artifact"
	"github.com/RamXX/backplan/internal/backlog"
	"github.com/RamXX/backplan/internal/draft"
	"github.com/RamXX/backplan/internal/format"
	"github.com/RamXX/backplan/internal/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate the plan, issue drafts and summaries from a backlog",
	RunE: func(cmd *cobra.Command, args []string) error {
		backlogPath, _ := cmd.Flags().GetString("backlog")
		reportDir, _ := cmd.Flags().GetString("report-dir")
		generatedAt, _ := cmd.Flags().GetString("generated-at")
		sortByID, _ := cmd.Flags().GetBool("sort-by-id")
		html, _ := cmd.Flags().GetBool("html")
		theme, _ := cmd.Flags().GetString("theme")
		clean, _ := cmd.Flags().GetBool("clean")

		stamp, err := parseGeneratedAt(generatedAt)
		if err != nil {
			return err
		}
		bl, tmpl, err := loadInputs(cmd, backlogPath)
		if err != nil {
			return err
		}
		if sortByID {
			bl.SortByID()
		}

		b := draft.Builder{Templates: tmpl, GeneratedAt: stamp}
		set := artifact.Set{
			Project:     bl.Project,
			Plan:        b.Plan(bl),
			Drafts:      b.Drafts(bl),
			GeneratedAt: stamp,
		}

		out := outDir(cmd)
		if !cmd.Flags().Changed("report-dir") {
			reportDir = cfg.ReportPath(out)
		}
		if !cmd.Flags().Changed("theme") {
			theme = cfg.Theme
		}
		w := artifact.Writer{
			OutDir:    out,
			ReportDir: reportDir,
			HTML:      html,
			Theme:     theme,
			Clean:     clean,
			Logger:    logger,
		}
		res, err := w.Write(set)
		if err != nil {
			return err
		}

		if jsonOut {
			return format.JSON(cmd.OutOrStdout(), res)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d drafts for %s\n", len(res.DraftPaths), bl.Project)
			fmt.Fprintf(cmd.OutOrStdout(), "  plan     %s\n", res.PlanPath)
			fmt.Fprintf(cmd.OutOrStdout(), "  summary  %s\n", res.CSVPath)
			fmt.Fprintf(cmd.OutOrStdout(), "  json     %s\n", res.JSONPath)
			if res.HTMLPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  report   %s\n", res.HTMLPath)
			}
		}
		return nil
	},
}

// loadInputs reads the backlog and templates named by the command flags.
// With --strict-templates, templates missing required placeholders fail.
func loadInputs(cmd *cobra.Command, backlogPath string) (*model.Backlog, draft.Templates, error) {
	issueTmpl, _ := cmd.Flags().GetString("issue-template")
	planTmpl, _ := cmd.Flags().GetString("plan-template")
	strict, _ := cmd.Flags().GetBool("strict-templates")

	if backlogPath == "" {
		return nil, draft.Templates{}, fmt.Errorf("--backlog is required")
	}
	bl, err := backlog.Load(backlogPath)
	if err != nil {
		return nil, draft.Templates{}, err
	}
	tmpl, err := draft.LoadTemplates(issueTmpl, planTmpl)
	if err != nil {
		return nil, draft.Templates{}, err
	}
	if strict {
		if err := draft.CheckTemplates(tmpl); err != nil {
			return nil, draft.Templates{}, err
		}
	}
	logger.Debug("backlog loaded",
		zap.String("file", backlogPath),
		zap.String("project", bl.Project),
		zap.Int("items", len(bl.Items)))
	return bl, tmpl, nil
}

// parseGeneratedAt accepts an RFC 3339 timestamp; empty means now.
func parseGeneratedAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --generated-at %q: want RFC 3339, e.g. 2024-01-02T15:04:05Z", s)
	}
	return t, nil
}

func addTemplateFlags(cmd *cobra.Command) {
	cmd.Flags().String("backlog", "backlog.yaml", "backlog file (YAML or JSON)")
	cmd.Flags().String("issue-template", "", "issue template file (default: built-in)")
	cmd.Flags().String("plan-template", "", "plan template file (default: built-in)")
	cmd.Flags().Bool("strict-templates", false, "fail when a template lacks required placeholders")
}

func init() {
	addTemplateFlags(simulateCmd)
	simulateCmd.Flags().String("out", "", "output directory (default: out_dir or dist)")
	simulateCmd.Flags().String("report-dir", "", "summary/report directory (default: <out>/report)")
	simulateCmd.Flags().String("generated-at", "", "plan timestamp, RFC 3339 (default: now)")
	simulateCmd.Flags().Bool("sort-by-id", false, "order items by id instead of file order")
	simulateCmd.Flags().Bool("html", false, "also write the HTML report")
	simulateCmd.Flags().String("theme", "", "HTML report theme: "+strings.Join(artifact.Themes(), ", "))
	simulateCmd.Flags().Bool("clean", false, "remove the output directory before writing")
	rootCmd.AddCommand(simulateCmd)
}
