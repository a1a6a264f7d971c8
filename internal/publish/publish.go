// Package publish replays issue drafts against the external tracker, keeping
// a resume ledger so that reruns never create the same item twice.
package publish

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/RamXX/backplan/internal/enforce"
	"github.com/RamXX/backplan/internal/logging"
	"github.com/RamXX/backplan/internal/model"
	"github.com/RamXX/backplan/internal/store"
	"go.uber.org/zap"
)

// Mode selects what gets created for each draft.
type Mode int

const (
	ModeIssues Mode = iota
	ModeProjectDrafts
)

func (m Mode) String() string {
	if m == ModeProjectDrafts {
		return "project-drafts"
	}
	return "issues"
}

// Options configures one publish run.
type Options struct {
	Mode          Mode
	Repo          string
	ProjectOwner  string
	ProjectNumber int
	StatePath     string
	Resume        bool
	Limit         int
	Delay         time.Duration
	DryRun        bool
	AssignOwner   bool
	// GHBin is only used to print dry-run commands.
	GHBin string
}

// Validate checks that the options name a complete target.
func (o Options) Validate() error {
	switch o.Mode {
	case ModeIssues:
		if strings.TrimSpace(o.Repo) == "" {
			return fmt.Errorf("a target repository is required (--repo or publish.repo)")
		}
	case ModeProjectDrafts:
		if strings.TrimSpace(o.ProjectOwner) == "" {
			return fmt.Errorf("a project owner is required (--owner or project.owner)")
		}
		if o.ProjectNumber <= 0 {
			return fmt.Errorf("a positive project number is required (--project or project.number)")
		}
	default:
		return fmt.Errorf("unknown publish mode %d", o.Mode)
	}
	if o.StatePath == "" {
		return fmt.Errorf("a state file path is required")
	}
	if o.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", o.Delay)
	}
	return nil
}

// Target is a summary row paired with its draft.
type Target struct {
	Row model.SummaryRow
	// File is relative to the output directory; Path is absolute or
	// relative to the working directory.
	File      string
	Path      string
	Body      string
	Assignees []string
}

// Report summarizes a run.
type Report struct {
	Planned []Target
	Created []string
	Skipped []string
}

// Runner drives publish runs. Out receives dry-run commands and progress;
// nil discards them.
type Runner struct {
	Store   *store.Store
	Invoker Invoker
	Sleeper Sleeper
	Logger  *zap.Logger
	Out     io.Writer
}

// Run resolves every row to its draft, drops rows already in the ledger
// (when resuming), applies the limit, then either prints the equivalent
// commands (dry run) or creates the items one at a time, saving the ledger
// after every success. The first failure stops the run.
func (r *Runner) Run(ctx context.Context, rows []model.SummaryRow, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := logging.OrNop(r.Logger)
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	targets, err := r.resolve(rows, opts)
	if err != nil {
		return nil, err
	}

	state, warn, err := store.LoadState(opts.StatePath)
	if err != nil {
		return nil, err
	}
	if warn != nil && opts.Resume {
		log.Warn(warn.Error())
	}

	report := &Report{}
	if opts.Resume {
		kept := targets[:0]
		for _, t := range targets {
			if state.Has(t.Row.ID) {
				report.Skipped = append(report.Skipped, t.Row.ID)
				continue
			}
			kept = append(kept, t)
		}
		targets = kept
	}
	if opts.Limit > 0 && len(targets) > opts.Limit {
		targets = targets[:opts.Limit]
	}
	report.Planned = targets
	log.Debug("publish batch resolved",
		zap.Stringer("mode", opts.Mode),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("planned", len(targets)))

	if opts.DryRun {
		for _, t := range targets {
			fmt.Fprintln(out, DryRunCommand(t, opts))
		}
		return report, nil
	}

	queue := append([]Target(nil), targets...)
	for n := 0; len(queue) > 0; n++ {
		t := queue[0]
		queue = queue[1:]
		if n > 0 && opts.Delay > 0 {
			log.Debug("waiting before next creation", zap.Duration("delay", opts.Delay))
			r.sleeper().Sleep(opts.Delay)
		}

		rec, err := r.create(ctx, t, opts)
		if err != nil {
			return report, fmt.Errorf("create %s (%d of %d done, rerun to resume): %w", t.Row.ID, n, len(targets), err)
		}
		state.Put(t.Row.ID, rec)
		if err := state.Save(opts.StatePath); err != nil {
			return report, fmt.Errorf("record %s: %w", t.Row.ID, err)
		}
		report.Created = append(report.Created, t.Row.ID)
		if rec.URL != "" {
			fmt.Fprintf(out, "created %s %s\n", t.Row.ID, rec.URL)
		} else {
			fmt.Fprintf(out, "created %s\n", t.Row.ID)
		}
	}
	return report, nil
}

func (r *Runner) sleeper() Sleeper {
	if r.Sleeper == nil {
		return WallClock
	}
	return r.Sleeper
}

func (r *Runner) resolve(rows []model.SummaryRow, opts Options) ([]Target, error) {
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if seen[row.ID] {
			return nil, fmt.Errorf("summary lists %s more than once", row.ID)
		}
		seen[row.ID] = true
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if r.Store == nil {
		return nil, fmt.Errorf("no draft store configured")
	}
	index, err := r.Store.DraftIndex(rows)
	if err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(rows))
	for _, row := range rows {
		file := index[row.ID]
		body, err := r.Store.ReadDraftBody(file)
		if err != nil {
			return nil, err
		}
		t := Target{Row: row, File: file, Path: filepath.Join(r.Store.Dir(), file), Body: body}
		if opts.AssignOwner && opts.Mode == ModeIssues {
			t.Assignees = ParseAssignees(body)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func (r *Runner) create(ctx context.Context, t Target, opts Options) (store.Record, error) {
	rec := store.Record{Title: t.Row.Title, BodyHash: enforce.ComputeContentHash(t.Body)}
	if r.Invoker == nil {
		return rec, fmt.Errorf("no invoker configured")
	}
	switch opts.Mode {
	case ModeProjectDrafts:
		err := r.Invoker.CreateProjectItem(ctx, ProjectItemRequest{
			Owner:  opts.ProjectOwner,
			Number: opts.ProjectNumber,
			Title:  t.Row.Title,
			Body:   t.Body,
		})
		return rec, err
	default:
		created, err := r.Invoker.CreateIssue(ctx, IssueRequest{
			Repo:      opts.Repo,
			Title:     t.Row.Title,
			Body:      t.Body,
			Labels:    t.Row.Labels,
			Assignees: t.Assignees,
		})
		if err != nil {
			return rec, err
		}
		rec.Labels = t.Row.Labels
		rec.URL = created.URL
		rec.Number = created.Number
		return rec, nil
	}
}

// DryRunCommand renders the gh invocation a real run would perform for t.
func DryRunCommand(t Target, opts Options) string {
	bin := opts.GHBin
	if bin == "" {
		bin = "gh"
	}
	var args []string
	switch opts.Mode {
	case ModeProjectDrafts:
		req := ProjectItemRequest{Owner: opts.ProjectOwner, Number: opts.ProjectNumber, Title: t.Row.Title}
		args = projectArgs(req, "$(cat "+shellQuote(filepath.ToSlash(t.Path))+")")
		last := len(args) - 1
		return shellJoin(bin, args[:last]) + ` "` + args[last] + `"`
	default:
		req := IssueRequest{Repo: opts.Repo, Title: t.Row.Title, Labels: t.Row.Labels, Assignees: t.Assignees}
		args = issueArgs(req, filepath.ToSlash(t.Path))
	}
	return shellJoin(bin, args)
}

func shellJoin(bin string, args []string) string {
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, shellQuote(bin))
	for _, a := range args {
		quoted = append(quoted, shellQuote(a))
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, c := range s {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_./:@,=+", c) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Status compares rows against a ledger. bodies maps id to the current draft
// body; a published item whose recorded hash differs is reported as drifted.
func Status(rows []model.SummaryRow, state *store.State, bodies map[string]string) []model.PublishStatus {
	out := make([]model.PublishStatus, 0, len(rows))
	for _, row := range rows {
		ps := model.PublishStatus{ID: row.ID, Title: row.Title, Labels: row.Labels}
		if rec, ok := state.Created[row.ID]; ok {
			ps.Published = true
			ps.URL = rec.URL
			if body, ok := bodies[row.ID]; ok && rec.BodyHash != "" {
				ps.Drifted = rec.BodyHash != enforce.ComputeContentHash(body)
			}
		}
		out = append(out, ps)
	}
	return out
}

// StatePathFor returns the default ledger location inside an output tree.
func StatePathFor(outDir string, mode Mode) string {
	if mode == ModeProjectDrafts {
		return filepath.Join(outDir, ".project-drafts-state.json")
	}
	return filepath.Join(outDir, ".publish-state.json")
}
