package test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/RamXX/backplan/internal/artifact"
	"github.com/RamXX/backplan/internal/backlog"
	"github.com/RamXX/backplan/internal/draft"
	"github.com/RamXX/backplan/internal/publish"
	"github.com/RamXX/backplan/internal/store"
	"github.com/RamXX/backplan/internal/summary"
)

// Full workflow: load -> simulate -> dry run -> publish -> fail -> resume.
// No mocks beyond the recording invoker. Real files on disk.

const backlogYAML = `
project: Garden Planner
items:
  - id: gp-002
    title: Seed catalog
    pitch: Browse seeds by season.
    status: backlog
    labels: [catalog]
  - id: gp-001
    title: Plot editor
    pitch: Drag beds onto a grid.
    owner: "alice, @bob"
    status: mvp
    labels: [ui, "needs, review"]
    tasks: [Grid model, Drag handles]
  - id: gp-003
    title: Harvest log
    pitch: Record yields per bed.
`

var generatedAt = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func simulate(t *testing.T, out string) *artifact.Result {
	t.Helper()
	return simulateYAML(t, out, backlogYAML)
}

func simulateYAML(t *testing.T, out, doc string) *artifact.Result {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "backlog.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	bl, err := backlog.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	bl.SortByID()

	b := draft.Builder{Templates: draft.DefaultTemplates(), GeneratedAt: generatedAt}
	set := artifact.Set{Project: bl.Project, Plan: b.Plan(bl), Drafts: b.Drafts(bl), GeneratedAt: generatedAt}
	res, err := artifact.Writer{OutDir: out, HTML: true, Theme: "dark"}.Write(set)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	return res
}

func TestFullWorkflow(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")

	// 1. Simulate twice; output is byte-identical.
	res := simulate(t, out)
	first, err := os.ReadFile(res.PlanPath)
	if err != nil {
		t.Fatal(err)
	}
	simulate(t, out)
	second, err := os.ReadFile(res.PlanPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("plan differs between identical runs")
	}
	wantDrafts := []string{"01-gp-001-plot-editor.md", "02-gp-002-seed-catalog.md", "03-gp-003-harvest-log.md"}
	for i, p := range res.DraftPaths {
		if filepath.Base(p) != wantDrafts[i] {
			t.Errorf("draft %d = %s, want %s", i, filepath.Base(p), wantDrafts[i])
		}
	}
	if res.HTMLPath == "" {
		t.Error("no HTML report written")
	}

	// 2. Summary round trip keeps labels with commas intact.
	rows, err := summary.Load(res.CSVPath)
	if err != nil {
		t.Fatalf("summary.Load: %v", err)
	}
	if got, want := rows[0].Labels, []string{"status:mvp", "ui", "needs, review"}; !reflect.DeepEqual(got, want) {
		t.Errorf("gp-001 labels = %v, want %v", got, want)
	}

	s, err := store.Open(out)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	statePath := publish.StatePathFor(out, publish.ModeIssues)
	opts := publish.Options{Mode: publish.ModeIssues, Repo: "acme/garden", StatePath: statePath, Resume: true, AssignOwner: true}

	// 3. Dry run proposes everything, touches nothing.
	var buf bytes.Buffer
	rec := &publish.Recorder{}
	dry := opts
	dry.DryRun = true
	report, err := (&publish.Runner{Store: s, Invoker: rec, Out: &buf}).Run(context.Background(), rows, dry)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if len(report.Planned) != 3 || len(rec.Calls) != 0 {
		t.Errorf("dry run planned %d, calls %d", len(report.Planned), len(rec.Calls))
	}
	if !strings.Contains(buf.String(), "--assignee alice --assignee bob") {
		t.Errorf("dry run output missing assignees:\n%s", buf.String())
	}
	if _, err := os.Stat(statePath); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote state: %v", err)
	}

	// 4. Publish fails on the second item; the first is recorded.
	rec.Fail = map[string]error{"Seed catalog": errors.New("HTTP 502")}
	_, err = (&publish.Runner{Store: s, Invoker: rec}).Run(context.Background(), rows, opts)
	if err == nil || !strings.Contains(err.Error(), "gp-002") {
		t.Fatalf("expected failure naming gp-002, got %v", err)
	}
	st, warn, err := store.LoadState(statePath)
	if err != nil || warn != nil {
		t.Fatalf("LoadState: %v %v", warn, err)
	}
	if len(st.Created) != 1 || !st.Has("gp-001") {
		t.Fatalf("ledger after failure = %v", st.Created)
	}

	// 5. Resume creates the rest; a further run is a no-op.
	rec.Fail = nil
	report, err = (&publish.Runner{Store: s, Invoker: rec}).Run(context.Background(), rows, opts)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !reflect.DeepEqual(report.Created, []string{"gp-002", "gp-003"}) || !reflect.DeepEqual(report.Skipped, []string{"gp-001"}) {
		t.Errorf("resume created %v skipped %v", report.Created, report.Skipped)
	}
	calls := len(rec.Calls)
	report, err = (&publish.Runner{Store: s, Invoker: rec}).Run(context.Background(), rows, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Planned) != 0 || len(rec.Calls) != calls {
		t.Errorf("third run planned %d", len(report.Planned))
	}

	// 6. Status reports everything published; editing a draft shows drift.
	st, _, err = store.LoadState(statePath)
	if err != nil {
		t.Fatal(err)
	}
	bodies := map[string]string{}
	idx, err := s.DraftIndex(rows)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range rows {
		body, err := s.ReadDraftBody(idx[row.ID])
		if err != nil {
			t.Fatal(err)
		}
		bodies[row.ID] = body
	}
	for _, e := range publish.Status(rows, st, bodies) {
		if !e.Published || e.Drifted {
			t.Errorf("status %s = %+v", e.ID, e)
		}
	}
	bodies["gp-003"] += "\nedited"
	if e := publish.Status(rows, st, bodies)[2]; !e.Drifted {
		t.Errorf("edited gp-003 not reported as drifted: %+v", e)
	}
}

func TestInvalidBacklogWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backlog.yaml")
	data := "project: X\nitems:\n  - {id: a-1, title: A, pitch: P}\n  - {id: a-1, title: B, pitch: Q}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := backlog.Load(path)
	var dup *backlog.DuplicateIDError
	if !errors.As(err, &dup) || !reflect.DeepEqual(dup.IDs, []string{"a-1"}) {
		t.Fatalf("Load error = %v, want duplicate a-1", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist")); !os.IsNotExist(err) {
		t.Error("output directory exists after a rejected backlog")
	}
}

func TestProjectDraftsWorkflow(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	res := simulate(t, out)
	rows, err := summary.Load(res.CSVPath)
	if err != nil {
		t.Fatal(err)
	}
	s, err := store.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	opts := publish.Options{
		Mode:          publish.ModeProjectDrafts,
		ProjectOwner:  "acme",
		ProjectNumber: 2,
		StatePath:     publish.StatePathFor(out, publish.ModeProjectDrafts),
		Resume:        true,
		Limit:         2,
	}
	rec := &publish.Recorder{}
	report, err := (&publish.Runner{Store: s, Invoker: rec}).Run(context.Background(), rows, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(report.Created, []string{"gp-001", "gp-002"}) {
		t.Errorf("created = %v", report.Created)
	}
	report, err = (&publish.Runner{Store: s, Invoker: rec}).Run(context.Background(), rows, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(report.Created, []string{"gp-003"}) {
		t.Errorf("second run created = %v", report.Created)
	}
	for _, c := range rec.Calls {
		if c.Project == nil || c.Issue != nil {
			t.Errorf("unexpected call %+v", c)
		}
	}
}

func TestRetitleWithoutClean(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	simulate(t, out)
	res := simulateYAML(t, out, strings.Replace(backlogYAML, "title: Plot editor", "title: Bed layout editor", 1))

	rows, err := summary.Load(res.CSVPath)
	if err != nil {
		t.Fatal(err)
	}
	s, err := store.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	files, err := s.DraftFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 4 {
		t.Fatalf("expected the stale draft to remain, files = %v", files)
	}

	opts := publish.Options{
		Mode:      publish.ModeIssues,
		Repo:      "acme/garden",
		StatePath: publish.StatePathFor(out, publish.ModeIssues),
		Resume:    true,
		DryRun:    true,
	}
	report, err := (&publish.Runner{Store: s, Invoker: &publish.Recorder{}}).Run(context.Background(), rows, opts)
	if err != nil {
		t.Fatalf("dry run after retitle: %v", err)
	}
	if got := report.Planned[0].File; got != "issues/01-gp-001-bed-layout-editor.md" {
		t.Errorf("gp-001 paired with %s", got)
	}
}
