// Package draft projects a validated backlog into issue drafts and the plan document.
package draft

import (
	"fmt"
	"strings"
	"time"

	"github.com/RamXX/backplan/internal/model"
)

var (
	defaultTasks      = []string{"- [ ] Define tasks"}
	defaultAcceptance = []string{
		"- [ ] Behavior is documented for users",
		"- [ ] Automated tests cover the main path and failure modes",
		"- [ ] Change is reviewed and merged",
	}
	defaultRisks = []string{
		"- Scope grows beyond the pitch",
		"- Dependencies on other items are discovered late",
	}
)

const unassigned = "unassigned"

// Builder renders drafts and the plan document from fixed templates.
// A zero GeneratedAt stamps the plan with the current time.
type Builder struct {
	Templates   Templates
	GeneratedAt time.Time
}

// ResolveLabels returns the status label followed by the item's own labels,
// keeping the first occurrence of each.
func ResolveLabels(item model.BacklogItem) []string {
	return model.AppendUnique([]string{item.Status.Label()}, item.Labels...)
}

// Drafts renders one issue draft per item, in item order.
func (b Builder) Drafts(backlog *model.Backlog) []model.IssueDraft {
	drafts := make([]model.IssueDraft, 0, len(backlog.Items))
	for _, item := range backlog.Items {
		drafts = append(drafts, b.Draft(backlog.Project, item))
	}
	return drafts
}

// Draft renders a single issue draft.
func (b Builder) Draft(project string, item model.BacklogItem) model.IssueDraft {
	labels := ResolveLabels(item)
	owner := item.Owner
	if owner == "" {
		owner = unassigned
	}
	body := Render(b.Templates.Issue, map[string]string{
		"project":    project,
		"id":         item.ID,
		"title":      item.Title,
		"pitch":      item.Pitch,
		"owner":      owner,
		"status":     item.Status.String(),
		"tasks":      checklist(item.Tasks, defaultTasks),
		"labels":     strings.Join(labels, ", "),
		"acceptance": checklist(item.Acceptance, defaultAcceptance),
		"risks":      bullets(item.Risks, defaultRisks),
	})
	return model.IssueDraft{
		ID:     item.ID,
		Title:  item.Title,
		Body:   strings.TrimSpace(body),
		Labels: labels,
	}
}

// Plan renders the plan document: one numbered section per item inside the
// plan template.
func (b Builder) Plan(backlog *model.Backlog) string {
	sections := make([]string, 0, len(backlog.Items))
	for i, item := range backlog.Items {
		sections = append(sections, planSection(i+1, item))
	}
	out := Render(b.Templates.Plan, map[string]string{
		"project":      backlog.Project,
		"generated_at": b.stamp(),
		"items":        strings.Join(sections, "\n"),
	})
	return strings.TrimRight(out, "\n") + "\n"
}

func (b Builder) stamp() string {
	ts := b.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.UTC().Format(time.RFC3339)
}

func planSection(n int, item model.BacklogItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %d. %s\n\n", n, item.Title)
	fmt.Fprintf(&sb, "- ID: `%s`\n", item.ID)
	fmt.Fprintf(&sb, "- Status: %s\n", item.Status)
	if item.Owner != "" {
		fmt.Fprintf(&sb, "- Owner: %s\n", item.Owner)
	}
	fmt.Fprintf(&sb, "\n%s\n", item.Pitch)
	fmt.Fprintf(&sb, "\n### Tasks\n\n%s\n", checklist(item.Tasks, defaultTasks))
	fmt.Fprintf(&sb, "\n### Acceptance\n\n%s\n", checklist(item.Acceptance, defaultAcceptance))
	fmt.Fprintf(&sb, "\n### Risks\n\n%s\n", bullets(item.Risks, defaultRisks))
	return sb.String()
}

func checklist(items, fallback []string) string {
	return lines(items, fallback, "- [ ] ")
}

func bullets(items, fallback []string) string {
	return lines(items, fallback, "- ")
}

func lines(items, fallback []string, prefix string) string {
	if len(items) == 0 {
		return strings.Join(fallback, "\n")
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = prefix + it
	}
	return strings.Join(out, "\n")
}
