package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/RamXX/backplan/internal/model"
	"github.com/RamXX/backplan/internal/ui"
)

// Table renders a compact summary listing.
// Format: STATUS_ICON ID [LABELS] - TITLE (STATUS)
func Table(w io.Writer, rows []model.SummaryRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}

	for _, row := range rows {
		st, ok := row.StatusLabel()
		parts := []string{ui.RenderStatusIcon(string(st)), row.ID}
		if labels := otherLabels(row.Labels); len(labels) > 0 {
			parts = append(parts, ui.RenderMuted(fmt.Sprintf("[%s]", strings.Join(labels, ", "))))
		}
		parts = append(parts, fmt.Sprintf("- %s", truncate(row.Title, 60)))
		if ok {
			parts = append(parts, "("+ui.RenderStatus(string(st))+")")
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
	}
	fmt.Fprintf(w, "\n%d item(s)\n", len(rows))
}

// Ledger renders publish progress per item.
// Format: MARKER ID - TITLE (URL)
func Ledger(w io.Writer, entries []model.PublishStatus) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s %s - %s", ui.RenderPublishState(e.Published, e.Drifted), e.ID, truncate(e.Title, 60))
		if e.URL != "" {
			line += " (" + ui.RenderAccent(e.URL) + ")"
		}
		if e.Drifted {
			line += " " + ui.RenderWarn("draft changed since publish")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	Progress(w, entries)
}

// JSON outputs v as indented JSON. &, < and > are written as-is.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func otherLabels(labels []string) []string {
	var out []string
	for _, l := range labels {
		if !strings.HasPrefix(l, "status:") {
			out = append(out, l)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
