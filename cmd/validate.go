package cmd

import (
	"fmt"

	"github.com/RamXX/backplan/internal/format"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a backlog and templates without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		backlogPath, _ := cmd.Flags().GetString("backlog")
		bl, _, err := loadInputs(cmd, backlogPath)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.JSON(cmd.OutOrStdout(), map[string]any{
				"project": bl.Project,
				"items":   len(bl.Items),
				"ids":     bl.IDs(),
			})
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d items OK\n", bl.Project, len(bl.Items))
		}
		return nil
	},
}

func init() {
	addTemplateFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
