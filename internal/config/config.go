// Package config loads backplan settings from defaults, an optional YAML file
// and BACKPLAN_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultFile is read from the working directory when no --config is given.
	DefaultFile = ".backplan.yaml"
	// EnvPrefix marks environment overrides; "__" separates sections, so
	// BACKPLAN_PUBLISH__REPO sets publish.repo.
	EnvPrefix = "BACKPLAN_"

	DefaultOutDir = "dist"
	DefaultTheme  = "light"
	DefaultGHBin  = "gh"

	maxFileSize = 1 << 20
)

// Config is the resolved configuration. Empty path fields are derived from
// the output directory at use time.
type Config struct {
	OutDir    string        `koanf:"out_dir"`
	ReportDir string        `koanf:"report_dir"`
	Theme     string        `koanf:"theme"`
	GHBin     string        `koanf:"gh_bin"`
	Publish   PublishConfig `koanf:"publish"`
	Project   ProjectConfig `koanf:"project"`

	// Source is the file the values were read from, if any.
	Source string `koanf:"-"`
}

type PublishConfig struct {
	Repo        string        `koanf:"repo"`
	StateFile   string        `koanf:"state_file"`
	Delay       time.Duration `koanf:"delay"`
	AssignOwner bool          `koanf:"assign_owner"`
}

type ProjectConfig struct {
	Owner     string `koanf:"owner"`
	Number    int    `koanf:"number"`
	StateFile string `koanf:"state_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{OutDir: DefaultOutDir, Theme: DefaultTheme, GHBin: DefaultGHBin}
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load resolves configuration. An explicit path must exist; an empty path
// falls back to DefaultFile when present.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	source := path
	if source == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			source = DefaultFile
		}
	}
	if source != "" {
		data, err := readFile(source)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", source, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(cfg)
	cfg.Source = source
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read config: %s is a directory", path)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("read config: %s is larger than %d bytes", path, maxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return data, nil
}

// envKey maps BACKPLAN_PUBLISH__STATE_FILE to publish.state_file.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func applyDefaults(c *Config) {
	if strings.TrimSpace(c.OutDir) == "" {
		c.OutDir = DefaultOutDir
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = DefaultTheme
	}
	if strings.TrimSpace(c.GHBin) == "" {
		c.GHBin = DefaultGHBin
	}
}

// Validate rejects values no command could use.
func (c *Config) Validate() error {
	var problems []string
	if c.Publish.Delay < 0 {
		problems = append(problems, fmt.Sprintf("publish.delay must not be negative, got %s", c.Publish.Delay))
	}
	if c.Project.Number < 0 {
		problems = append(problems, fmt.Sprintf("project.number must not be negative, got %d", c.Project.Number))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ReportPath returns report_dir, or <out>/report when unset.
func (c *Config) ReportPath(out string) string {
	if c.ReportDir != "" {
		return c.ReportDir
	}
	return filepath.Join(out, "report")
}

// PublishStatePath returns publish.state_file, or the default inside out.
func (c *Config) PublishStatePath(out string) string {
	if c.Publish.StateFile != "" {
		return c.Publish.StateFile
	}
	return filepath.Join(out, ".publish-state.json")
}

// ProjectStatePath returns project.state_file, or the default inside out.
func (c *Config) ProjectStatePath(out string) string {
	if c.Project.StateFile != "" {
		return c.Project.StateFile
	}
	return filepath.Join(out, ".project-drafts-state.json")
}

func (c *Config) values() map[string]string {
	number := ""
	if c.Project.Number > 0 {
		number = strconv.Itoa(c.Project.Number)
	}
	return map[string]string{
		"out_dir":              c.OutDir,
		"report_dir":           c.ReportPath(c.OutDir),
		"theme":                c.Theme,
		"gh_bin":               c.GHBin,
		"publish.repo":         c.Publish.Repo,
		"publish.state_file":   c.PublishStatePath(c.OutDir),
		"publish.delay":        c.Publish.Delay.String(),
		"publish.assign_owner": strconv.FormatBool(c.Publish.AssignOwner),
		"project.owner":        c.Project.Owner,
		"project.number":       number,
		"project.state_file":   c.ProjectStatePath(c.OutDir),
	}
}

// Entries lists every key with its resolved value, sorted by key.
func (c *Config) Entries() [][2]string {
	vals := c.values()
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, vals[k]})
	}
	return out
}

// Get returns the resolved value of key.
func (c *Config) Get(key string) (string, error) {
	v, ok := c.values()[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return v, nil
}
