package draft

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// DefaultIssueTemplate renders the body of a single issue draft.
const DefaultIssueTemplate = `{{pitch}}

Project: {{project}}
Backlog ID: {{id}}
Status: {{status}}
Owner: {{owner}}

## Tasks

{{tasks}}

## Acceptance Criteria

{{acceptance}}

## Risks

{{risks}}
`

// DefaultPlanTemplate wraps the per-item sections of the plan document.
const DefaultPlanTemplate = `# {{project}} Execution Plan

Generated: {{generated_at}}

{{items}}
`

// Placeholder names understood by the issue and plan templates.
var (
	IssuePlaceholders = []string{"project", "id", "title", "pitch", "owner", "status", "tasks", "labels", "acceptance", "risks"}
	PlanPlaceholders  = []string{"project", "generated_at", "items"}

	requiredIssue = []string{"id", "pitch", "tasks", "acceptance"}
	requiredPlan  = []string{"items"}
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-z_]+)\s*\}\}`)

// Templates holds the raw issue and plan template text.
type Templates struct {
	Issue string
	Plan  string
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() Templates {
	return Templates{Issue: DefaultIssueTemplate, Plan: DefaultPlanTemplate}
}

// LoadTemplates starts from the defaults and replaces each template whose
// path is non-empty with the file contents.
func LoadTemplates(issuePath, planPath string) (Templates, error) {
	t := DefaultTemplates()
	if issuePath != "" {
		data, err := os.ReadFile(issuePath)
		if err != nil {
			return Templates{}, fmt.Errorf("read issue template: %w", err)
		}
		t.Issue = string(data)
	}
	if planPath != "" {
		data, err := os.ReadFile(planPath)
		if err != nil {
			return Templates{}, fmt.Errorf("read plan template: %w", err)
		}
		t.Plan = string(data)
	}
	return t, nil
}

// Render substitutes {{name}} placeholders with values. Unknown names render
// as the empty string.
func Render(tmpl string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		return values[name]
	})
}

// Placeholders returns the distinct placeholder names used in tmpl, sorted.
func Placeholders(tmpl string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// MissingPlaceholdersError names every required placeholder a template lacks.
type MissingPlaceholdersError struct {
	Template string
	Missing  []string
}

func (e *MissingPlaceholdersError) Error() string {
	return fmt.Sprintf("%s template is missing placeholders: %s", e.Template, strings.Join(e.Missing, ", "))
}

// RequirePlaceholders checks that every name appears as a placeholder in tmpl.
func RequirePlaceholders(tmpl, kind string, names []string) error {
	present := make(map[string]bool)
	for _, n := range Placeholders(tmpl) {
		present[n] = true
	}
	var missing []string
	for _, n := range names {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &MissingPlaceholdersError{Template: kind, Missing: missing}
	}
	return nil
}

// CheckTemplates verifies both templates carry their required placeholders.
func CheckTemplates(t Templates) error {
	if err := RequirePlaceholders(t.Issue, "issue", requiredIssue); err != nil {
		return err
	}
	return RequirePlaceholders(t.Plan, "plan", requiredPlan)
}
