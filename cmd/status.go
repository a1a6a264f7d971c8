package cmd

import (
	"github.com/RamXX/backplan/internal/format"
	"github.com/RamXX/backplan/internal/publish"
	"github.com/RamXX/backplan/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which drafts are published, pending or changed since publish",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetBool("project-drafts")
		mode := publish.ModeIssues
		statePath := cfg.PublishStatePath(outDir(cmd))
		if project {
			mode = publish.ModeProjectDrafts
			statePath = cfg.ProjectStatePath(outDir(cmd))
		}
		if cmd.Flags().Changed("state") {
			statePath, _ = cmd.Flags().GetString("state")
		}

		s, rows, err := openOutput(cmd)
		if err != nil {
			return err
		}
		state, warn, err := store.LoadState(statePath)
		if err != nil {
			return err
		}
		if warn != nil {
			logger.Warn(warn.Error())
		}

		bodies := make(map[string]string, len(rows))
		index, err := s.DraftIndex(rows)
		if err != nil {
			return err
		}
		for id, file := range index {
			body, err := s.ReadDraftBody(file)
			if err != nil {
				return err
			}
			bodies[id] = body
		}

		entries := publish.Status(rows, state, bodies)
		if jsonOut {
			return format.JSON(cmd.OutOrStdout(), map[string]any{
				"mode":    mode.String(),
				"state":   statePath,
				"entries": entries,
			})
		}
		format.Ledger(cmd.OutOrStdout(), entries)
		return nil
	},
}

func init() {
	addOutputFlags(statusCmd)
	statusCmd.Flags().String("state", "", "state ledger file")
	statusCmd.Flags().Bool("project-drafts", false, "read the project drafts ledger instead of the issues ledger")
	rootCmd.AddCommand(statusCmd)
}
