package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/RamXX/backplan/internal/config"
	"github.com/RamXX/backplan/internal/draft"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a backlog, templates and config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		project, _ := cmd.Flags().GetString("project")
		force, _ := cmd.Flags().GetBool("force")
		if project == "" {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			project = filepath.Base(abs)
		}

		written, err := scaffold(dir, project, force)
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized backplan project %q in %s\n", project, dir)
			for _, p := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
		}
		return nil
	},
}

type scaffoldItem struct {
	ID         string   `yaml:"id"`
	Title      string   `yaml:"title"`
	Pitch      string   `yaml:"pitch"`
	Owner      string   `yaml:"owner,omitempty"`
	Status     string   `yaml:"status"`
	Labels     []string `yaml:"labels,omitempty"`
	Tasks      []string `yaml:"tasks,omitempty"`
	Acceptance []string `yaml:"acceptance,omitempty"`
}

type scaffoldBacklog struct {
	Project string         `yaml:"project"`
	Items   []scaffoldItem `yaml:"items"`
}

type scaffoldConfig struct {
	OutDir  string `yaml:"out_dir"`
	Theme   string `yaml:"theme"`
	Publish struct {
		Repo        string `yaml:"repo"`
		Delay       string `yaml:"delay"`
		AssignOwner bool   `yaml:"assign_owner"`
	} `yaml:"publish"`
}

// scaffold writes a starter project into dir and returns the files written.
// Existing files are left alone unless force is set.
func scaffold(dir, project string, force bool) ([]string, error) {
	bl := scaffoldBacklog{
		Project: project,
		Items: []scaffoldItem{
			{
				ID:         "bp-001",
				Title:      "First deliverable",
				Pitch:      "Describe the outcome this item delivers.",
				Owner:      "unassigned",
				Status:     "backlog",
				Labels:     []string{"planning"},
				Tasks:      []string{"Break the work down"},
				Acceptance: []string{"Outcome is demonstrable"},
			},
			{
				ID:     "bp-002",
				Title:  "Second deliverable",
				Pitch:  "Describe the next outcome.",
				Status: "backlog",
			},
		},
	}
	backlogData, err := yaml.Marshal(bl)
	if err != nil {
		return nil, fmt.Errorf("marshal backlog: %w", err)
	}

	var c scaffoldConfig
	c.OutDir = config.DefaultOutDir
	c.Theme = config.DefaultTheme
	c.Publish.Delay = "1s"
	configData, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{"backlog.yaml", backlogData},
		{filepath.Join("templates", "issue.md"), []byte(draft.DefaultIssueTemplate)},
		{filepath.Join("templates", "plan.md"), []byte(draft.DefaultPlanTemplate)},
		{config.DefaultFile, configData},
	}

	if !force {
		for _, f := range files {
			p := filepath.Join(dir, f.name)
			if _, err := os.Stat(p); err == nil {
				return nil, fmt.Errorf("%s already exists (use --force to overwrite)", p)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	var written []string
	for _, f := range files {
		p := filepath.Join(dir, f.name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return written, fmt.Errorf("mkdir %s: %w", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, f.data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", p, err)
		}
		written = append(written, p)
	}
	return written, nil
}

func init() {
	initCmd.Flags().String("dir", ".", "directory to initialize")
	initCmd.Flags().String("project", "", "project name (default: directory name)")
	initCmd.Flags().Bool("force", false, "overwrite existing files")
	rootCmd.AddCommand(initCmd)
}
