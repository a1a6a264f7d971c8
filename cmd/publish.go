package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/RamXX/backplan/internal/artifact"
	"github.com/RamXX/backplan/internal/format"
	"github.com/RamXX/backplan/internal/model"
	"github.com/RamXX/backplan/internal/publish"
	"github.com/RamXX/backplan/internal/store"
	"github.com/RamXX/backplan/internal/summary"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Create GitHub issues from the generated drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _ := cmd.Flags().GetString("repo")
		assign, _ := cmd.Flags().GetBool("assign-owner")
		if !cmd.Flags().Changed("repo") {
			repo = cfg.Publish.Repo
		}
		if !cmd.Flags().Changed("assign-owner") {
			assign = cfg.Publish.AssignOwner
		}
		opts := publish.Options{
			Mode:        publish.ModeIssues,
			Repo:        repo,
			AssignOwner: assign,
		}
		return runPublish(cmd, opts, cfg.PublishStatePath(outDir(cmd)))
	},
}

var projectDraftsCmd = &cobra.Command{
	Use:   "project-drafts",
	Short: "Create GitHub Projects draft items from the generated drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		number, _ := cmd.Flags().GetInt("project")
		if !cmd.Flags().Changed("owner") {
			owner = cfg.Project.Owner
		}
		if !cmd.Flags().Changed("project") {
			number = cfg.Project.Number
		}
		opts := publish.Options{
			Mode:          publish.ModeProjectDrafts,
			ProjectOwner:  owner,
			ProjectNumber: number,
		}
		return runPublish(cmd, opts, cfg.ProjectStatePath(outDir(cmd)))
	},
}

func runPublish(cmd *cobra.Command, opts publish.Options, defaultState string) error {
	opts.StatePath = defaultState
	if cmd.Flags().Changed("state") {
		opts.StatePath, _ = cmd.Flags().GetString("state")
	}
	noResume, _ := cmd.Flags().GetBool("no-resume")
	opts.Resume = !noResume
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.Delay = cfg.Publish.Delay
	if cmd.Flags().Changed("delay") {
		opts.Delay, _ = cmd.Flags().GetDuration("delay")
	}
	opts.GHBin = cfg.GHBin

	s, rows, err := openOutput(cmd)
	if err != nil {
		return err
	}

	r := &publish.Runner{
		Store:   s,
		Invoker: publish.NewGH(cfg.GHBin),
		Logger:  logger,
		Out:     cmd.OutOrStdout(),
	}
	if jsonOut {
		r.Out = nil
	}
	report, err := r.Run(cmd.Context(), rows, opts)
	if jsonOut && report != nil {
		if jerr := format.JSON(cmd.OutOrStdout(), publishJSON(report, opts)); jerr != nil && err == nil {
			err = jerr
		}
	}
	if err != nil {
		return err
	}
	logger.Debug("publish finished",
		zap.Stringer("mode", opts.Mode),
		zap.Int("created", len(report.Created)),
		zap.Int("skipped", len(report.Skipped)))
	if !jsonOut && !quiet {
		switch {
		case opts.DryRun:
			fmt.Fprintf(cmd.OutOrStdout(), "Dry run: %d to create, %d already recorded\n", len(report.Planned), len(report.Skipped))
		case len(report.Planned) == 0:
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing to publish (%d already recorded)\n", len(report.Skipped))
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d, skipped %d (state: %s)\n", len(report.Created), len(report.Skipped), opts.StatePath)
		}
	}
	return nil
}

func publishJSON(report *publish.Report, opts publish.Options) map[string]any {
	planned := make([]string, 0, len(report.Planned))
	var commands []string
	for _, t := range report.Planned {
		planned = append(planned, t.Row.ID)
		if opts.DryRun {
			commands = append(commands, publish.DryRunCommand(t, opts))
		}
	}
	out := map[string]any{
		"mode":    opts.Mode.String(),
		"dry_run": opts.DryRun,
		"planned": planned,
		"created": nonNil(report.Created),
		"skipped": nonNil(report.Skipped),
	}
	if opts.DryRun {
		out["commands"] = nonNil(commands)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// openOutput opens the draft tree and reads the summary rows for it.
func openOutput(cmd *cobra.Command) (*store.Store, []model.SummaryRow, error) {
	out := outDir(cmd)
	summaryPath := filepath.Join(cfg.ReportPath(out), artifact.SummaryCSVFile)
	if f := cmd.Flags().Lookup("summary"); f != nil && f.Changed {
		summaryPath = f.Value.String()
	}
	rows, err := summary.Load(summaryPath)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(out)
	if err != nil {
		return nil, nil, err
	}
	return s, rows, nil
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", "", "simulate output directory (default: out_dir or dist)")
	cmd.Flags().String("summary", "", "summary CSV (default: <report-dir>/summary.csv)")
}

func addRunFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
	cmd.Flags().String("state", "", "state ledger file")
	cmd.Flags().Bool("dry-run", false, "print the gh commands without running them")
	cmd.Flags().Bool("no-resume", false, "ignore the ledger and consider every draft")
	cmd.Flags().Int("limit", 0, "create at most N items (0 = no limit)")
	cmd.Flags().Duration("delay", 0, "pause between creations, e.g. 2s")
}

func init() {
	addRunFlags(publishCmd)
	publishCmd.Flags().String("repo", "", "target repository OWNER/NAME")
	publishCmd.Flags().Bool("assign-owner", false, "assign the draft's Owner: users")
	rootCmd.AddCommand(publishCmd)

	addRunFlags(projectDraftsCmd)
	projectDraftsCmd.Flags().String("owner", "", "project owner (user or org)")
	projectDraftsCmd.Flags().Int("project", 0, "project number")
	rootCmd.AddCommand(projectDraftsCmd)
}
