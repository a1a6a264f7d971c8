package artifact

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/RamXX/backplan/internal/summary"
)

// DefaultTheme is used when no theme or an unknown theme is requested.
const DefaultTheme = "light"

var themes = map[string]template.CSS{
	"light": `--bg:#fafafa;--fg:#5c6166;--muted:#828c99;--accent:#399ee6;--panel:#ffffff;--border:#e7eaed;`,
	"dark":  `--bg:#0d1017;--fg:#bfbdb6;--muted:#6c7680;--accent:#59c2ff;--panel:#131721;--border:#1e232b;`,
}

// Themes returns the selectable theme names.
func Themes() []string {
	return []string{"light", "dark"}
}

// ResolveTheme maps a requested theme to a known one. The second result is
// false when the request was non-empty and unknown.
func ResolveTheme(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultTheme, true
	}
	if _, ok := themes[name]; ok {
		return name, true
	}
	return DefaultTheme, false
}

type reportRow struct {
	ID     string
	Title  string
	Labels string
	Body   string
	Anchor string
	Search string
}

type reportData struct {
	Project     string
	GeneratedAt string
	Theme       string
	Vars        template.CSS
	Plan        string
	Rows        []reportRow
}

func renderHTML(set Set, theme string) ([]byte, error) {
	data := reportData{
		Project: set.Project,
		Theme:   theme,
		Vars:    themes[theme],
		Plan:    set.Plan,
	}
	if !set.GeneratedAt.IsZero() {
		data.GeneratedAt = set.GeneratedAt.UTC().Format(time.RFC3339)
	}
	for _, d := range set.Drafts {
		labels := summary.JoinLabels(d.Labels)
		data.Rows = append(data.Rows, reportRow{
			ID:     d.ID,
			Title:  d.Title,
			Labels: strings.Join(d.Labels, ", "),
			Body:   d.Body,
			Anchor: "issue-" + d.ID,
			Search: strings.ToLower(d.ID + " " + d.Title + " " + labels),
		})
	}
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render html report: %w", err)
	}
	return buf.Bytes(), nil
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Project}} plan</title>
<style>
:root{ {{- .Vars -}} }
body{margin:0;padding:2rem;background:var(--bg);color:var(--fg);font:15px/1.5 system-ui,sans-serif}
h1,h2,h3{color:var(--accent)}
section{background:var(--panel);border:1px solid var(--border);border-radius:6px;padding:1rem 1.5rem;margin-bottom:1.5rem}
table{width:100%;border-collapse:collapse}
th,td{text-align:left;padding:.35rem .5rem;border-bottom:1px solid var(--border)}
td.labels,.meta{color:var(--muted)}
a{color:var(--accent)}
input{width:100%;padding:.5rem;margin-bottom:1rem;background:var(--bg);color:var(--fg);border:1px solid var(--border);border-radius:4px}
pre{white-space:pre-wrap;font:13px/1.45 ui-monospace,monospace}
tr.hidden{display:none}
</style>
</head>
<body class="theme-{{.Theme}}">
<header>
<h1>{{.Project}}</h1>
<p class="meta">{{len .Rows}} item(s){{if .GeneratedAt}} &middot; generated {{.GeneratedAt}}{{end}}</p>
</header>
<section id="summary">
<h2>Summary</h2>
<input id="filter" type="search" placeholder="Filter by id, title or label" autocomplete="off">
<table>
<thead><tr><th>ID</th><th>Title</th><th>Labels</th></tr></thead>
<tbody>
{{- range .Rows}}
<tr data-search="{{.Search}}"><td><a href="#{{.Anchor}}">{{.ID}}</a></td><td>{{.Title}}</td><td class="labels">{{.Labels}}</td></tr>
{{- end}}
</tbody>
</table>
</section>
<section id="plan">
<h2>Plan</h2>
<pre>{{.Plan}}</pre>
</section>
<section id="issues">
<h2>Issues</h2>
{{- range .Rows}}
<article id="{{.Anchor}}">
<h3>{{.ID}} &middot; {{.Title}}</h3>
<p class="meta">{{.Labels}}</p>
<pre>{{.Body}}</pre>
</article>
{{- end}}
</section>
<script>
(function () {
  var input = document.getElementById("filter");
  var rows = document.querySelectorAll("#summary tbody tr");
  input.addEventListener("input", function () {
    var q = input.value.toLowerCase();
    for (var i = 0; i < rows.length; i++) {
      var hit = rows[i].getAttribute("data-search").indexOf(q) !== -1;
      rows[i].classList.toggle("hidden", !hit);
    }
  });
})();
</script>
</body>
</html>
`))
