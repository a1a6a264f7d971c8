package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RamXX/backplan/internal/backlog"
	"github.com/RamXX/backplan/internal/config"
	"github.com/RamXX/backplan/internal/draft"
	"github.com/RamXX/backplan/internal/model"
)

func TestParseGeneratedAt(t *testing.T) {
	got, err := parseGeneratedAt("2024-03-01T10:00:00+02:00")
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("parseGeneratedAt = %v, want %v", got, want)
	}
	if got, err := parseGeneratedAt(""); err != nil || !got.IsZero() {
		t.Errorf("empty = %v, %v", got, err)
	}
	if _, err := parseGeneratedAt("yesterday"); err == nil {
		t.Error("expected error for non RFC 3339 input")
	}
}

func idsOf(rows []model.SummaryRow) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestFilterRows(t *testing.T) {
	rows := []model.SummaryRow{
		{ID: "a", Labels: []string{"status:mvp", "ui"}},
		{ID: "b", Labels: []string{"status:backlog"}},
		{ID: "c", Labels: []string{"status:mvp"}},
	}
	tests := []struct {
		label string
		limit int
		want  []string
	}{
		{"", 0, []string{"a", "b", "c"}},
		{"status:mvp", 0, []string{"a", "c"}},
		{"status:mvp", 1, []string{"a"}},
		{"", 2, []string{"a", "b"}},
		{"missing", 0, nil},
	}
	for _, tt := range tests {
		got := idsOf(filterRows(rows, tt.label, tt.limit))
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("filterRows(%q, %d) = %v, want %v", tt.label, tt.limit, got, tt.want)
		}
	}
}

func TestScaffold(t *testing.T) {
	dir := t.TempDir()
	written, err := scaffold(dir, "demo", false)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if len(written) != 4 {
		t.Errorf("written = %v", written)
	}

	bl, err := backlog.Load(filepath.Join(dir, "backlog.yaml"))
	if err != nil {
		t.Fatalf("scaffolded backlog does not load: %v", err)
	}
	if bl.Project != "demo" || len(bl.Items) != 2 {
		t.Errorf("backlog = %+v", bl)
	}

	tmpl, err := draft.LoadTemplates(filepath.Join(dir, "templates", "issue.md"), filepath.Join(dir, "templates", "plan.md"))
	if err != nil {
		t.Fatal(err)
	}
	if err := draft.CheckTemplates(tmpl); err != nil {
		t.Errorf("scaffolded templates: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dir, config.DefaultFile))
	if err != nil {
		t.Fatalf("scaffolded config does not load: %v", err)
	}
	if cfg.Publish.Delay != time.Second {
		t.Errorf("delay = %s", cfg.Publish.Delay)
	}

	if _, err := scaffold(dir, "demo", false); err == nil {
		t.Error("expected error when files exist")
	}
	if err := os.WriteFile(filepath.Join(dir, "backlog.yaml"), []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := scaffold(dir, "demo", true); err != nil {
		t.Errorf("force: %v", err)
	}
}
