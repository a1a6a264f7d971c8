package cmd

import (
	"fmt"

	"github.com/RamXX/backplan/internal/format"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect resolved configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		val, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), val)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := cfg.Entries()
		if jsonOut {
			m := make(map[string]string, len(entries))
			for _, e := range entries {
				m[e[0]] = e[1]
			}
			return format.JSON(cmd.OutOrStdout(), m)
		}
		if cfg.Source != "" && !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "# from %s\n", cfg.Source)
		}
		for _, entry := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", entry[0], entry[1])
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
