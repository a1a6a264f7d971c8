// Package artifact writes the simulate output tree: plan, drafts, summaries
// and the optional HTML report.
package artifact

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RamXX/backplan/internal/enforce"
	"github.com/RamXX/backplan/internal/format"
	"github.com/RamXX/backplan/internal/idgen"
	"github.com/RamXX/backplan/internal/logging"
	"github.com/RamXX/backplan/internal/model"
	"github.com/RamXX/backplan/internal/store"
	"github.com/RamXX/backplan/internal/summary"
	"go.uber.org/zap"
)

// File names inside the output and report directories.
const (
	PlanFile        = "plan.md"
	SummaryCSVFile  = "summary.csv"
	SummaryJSONFile = "summary.json"
	ReportHTMLFile  = "index.html"
)

// Set is everything produced by one simulate run.
type Set struct {
	Project     string
	Plan        string
	Drafts      []model.IssueDraft
	GeneratedAt time.Time
}

// Writer places a Set on disk. ReportDir defaults to <OutDir>/report.
type Writer struct {
	OutDir    string
	ReportDir string
	HTML      bool
	Theme     string
	Clean     bool
	Logger    *zap.Logger
}

// Result lists the files written.
type Result struct {
	PlanPath   string   `json:"plan"`
	DraftPaths []string `json:"drafts"`
	CSVPath    string   `json:"summary_csv"`
	JSONPath   string   `json:"summary_json"`
	HTMLPath   string   `json:"report,omitempty"`
}

// DefaultReportDir returns the report directory used when none is configured.
func DefaultReportDir(outDir string) string {
	return filepath.Join(outDir, "report")
}

// Write renders the set into the output tree, overwriting existing files.
func (w Writer) Write(set Set) (*Result, error) {
	log := logging.OrNop(w.Logger)
	reportDir := w.ReportDir
	if reportDir == "" {
		reportDir = DefaultReportDir(w.OutDir)
	}

	var (
		page []byte
		err  error
	)
	if w.HTML {
		theme, ok := ResolveTheme(w.Theme)
		if !ok {
			log.Warn("unknown theme, using default",
				zap.String("theme", w.Theme),
				zap.String("default", theme),
				zap.Strings("available", Themes()))
		}
		page, err = renderHTML(set, theme)
		if err != nil {
			return nil, err
		}
	}

	if w.Clean {
		if err := enforce.SafeToClean(w.OutDir); err != nil {
			return nil, err
		}
		log.Debug("cleaning output directory", zap.String("dir", w.OutDir))
		if err := os.RemoveAll(w.OutDir); err != nil {
			return nil, fmt.Errorf("clean %s: %w", w.OutDir, err)
		}
	}

	issuesDir := filepath.Join(w.OutDir, store.IssuesDir)
	for _, dir := range []string{w.OutDir, issuesDir, reportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	res := &Result{
		PlanPath: filepath.Join(w.OutDir, PlanFile),
		CSVPath:  filepath.Join(reportDir, SummaryCSVFile),
		JSONPath: filepath.Join(reportDir, SummaryJSONFile),
	}
	if err := writeFile(res.PlanPath, []byte(set.Plan)); err != nil {
		return nil, err
	}
	for i, d := range set.Drafts {
		p := filepath.Join(issuesDir, idgen.DraftFileName(i, d.ID, d.Title))
		if err := writeFile(p, []byte(store.SerializeDraft(d))); err != nil {
			return nil, err
		}
		res.DraftPaths = append(res.DraftPaths, p)
	}

	rows := Rows(set.Drafts)
	if err := writeFile(res.CSVPath, summary.Encode(rows)); err != nil {
		return nil, err
	}
	jsonData, err := SummaryJSON(rows)
	if err != nil {
		return nil, err
	}
	if err := writeFile(res.JSONPath, jsonData); err != nil {
		return nil, err
	}
	if w.HTML {
		res.HTMLPath = filepath.Join(reportDir, ReportHTMLFile)
		if err := writeFile(res.HTMLPath, page); err != nil {
			return nil, err
		}
	}
	log.Debug("artifacts written",
		zap.String("plan", res.PlanPath),
		zap.Int("drafts", len(res.DraftPaths)),
		zap.String("report_dir", reportDir))
	return res, nil
}

// Rows projects drafts into summary rows.
func Rows(drafts []model.IssueDraft) []model.SummaryRow {
	rows := make([]model.SummaryRow, len(drafts))
	for i, d := range drafts {
		rows[i] = d.Summary()
	}
	return rows
}

type jsonRow struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Labels string `json:"labels"`
}

// SummaryJSON renders rows as an indented JSON array with labels flattened
// the same way as in the CSV.
func SummaryJSON(rows []model.SummaryRow) ([]byte, error) {
	out := make([]jsonRow, len(rows))
	for i, r := range rows {
		out[i] = jsonRow{ID: r.ID, Title: r.Title, Labels: summary.JoinLabels(r.Labels)}
	}
	var buf bytes.Buffer
	if err := format.JSON(&buf, out); err != nil {
		return nil, fmt.Errorf("encode summary json: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
