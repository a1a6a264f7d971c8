package cmd

import (
	"fmt"
	"os"

	"github.com/RamXX/backplan/internal/config"
	"github.com/RamXX/backplan/internal/logging"
	"github.com/RamXX/backplan/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	jsonOut    bool
	verbose    bool
	quiet      bool

	cfg    = config.Default()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "backplan",
	Short: "Backlog to plan, drafts and GitHub issues",
	Long: "backplan -- turn a YAML backlog into a plan, issue drafts and summaries,\n" +
		"then publish the drafts through the gh CLI with a resumable ledger.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(os.Stderr, logging.Options{
			Verbose: verbose,
			Quiet:   quiet,
			Color:   ui.ShouldColorStderr(),
		})
		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if cfg.Source != "" {
			logger.Debug("config loaded", zap.String("file", cfg.Source))
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errorf("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-essential output")
}

// outDir returns --out when given, else the configured out_dir.
func outDir(cmd *cobra.Command) string {
	if cmd.Flags().Changed("out") {
		v, _ := cmd.Flags().GetString("out")
		return v
	}
	return cfg.OutDir
}

func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "backplan: "+format+"\n", args...)
}
