package model

import (
	"fmt"
	"sort"
	"strings"
)

// Status represents the lifecycle stage of a backlog item.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusScaffolded Status = "scaffolded"
	StatusMVP        Status = "mvp"
	StatusHardened   Status = "hardened"
	StatusShipped    Status = "shipped"
)

var validStatuses = map[Status]bool{
	StatusBacklog:    true,
	StatusScaffolded: true,
	StatusMVP:        true,
	StatusHardened:   true,
	StatusShipped:    true,
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !validStatuses[st] {
		return "", fmt.Errorf("invalid status %q: must be one of backlog, scaffolded, mvp, hardened, shipped", s)
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

// Label returns the synthesized tracker label for the status, e.g. "status:mvp".
func (s Status) Label() string { return "status:" + string(s) }

// BacklogItem is one unit of planned work.
type BacklogItem struct {
	ID         string
	Title      string
	Pitch      string
	Owner      string
	Labels     []string
	Status     Status
	Tasks      []string
	Acceptance []string
	Risks      []string
}

// Backlog is the validated input document.
type Backlog struct {
	Project string
	Items   []BacklogItem
}

// SortByID orders items lexicographically by ID. Equal IDs keep input order.
func (b *Backlog) SortByID() {
	sort.SliceStable(b.Items, func(i, j int) bool {
		return b.Items[i].ID < b.Items[j].ID
	})
}

// IDs returns item identifiers in item order.
func (b *Backlog) IDs() []string {
	ids := make([]string, len(b.Items))
	for i, item := range b.Items {
		ids[i] = item.ID
	}
	return ids
}

// IssueDraft is the rendered, tracker-ready form of a BacklogItem.
// It is recomputed on every run and never persisted on its own.
type IssueDraft struct {
	ID     string
	Title  string
	Body   string
	Labels []string
}

// Summary projects the draft into its durable summary row.
func (d IssueDraft) Summary() SummaryRow {
	labels := make([]string, len(d.Labels))
	copy(labels, d.Labels)
	return SummaryRow{ID: d.ID, Title: d.Title, Labels: labels}
}

// SummaryRow is the minimal record written to summary.csv/summary.json and
// read back by the publish stage.
type SummaryRow struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
}

// StatusLabel returns the status:* label of the row, if any.
func (r SummaryRow) StatusLabel() (Status, bool) {
	for _, l := range r.Labels {
		if strings.HasPrefix(l, "status:") {
			st, err := ParseStatus(strings.TrimPrefix(l, "status:"))
			if err == nil {
				return st, true
			}
		}
	}
	return "", false
}

// ValidID reports whether id is safe to embed in a file name: non-empty,
// alphanumeric first character, then alphanumerics, '.', '_' or '-'.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		alnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if alnum {
			continue
		}
		if i == 0 {
			return false
		}
		if c != '.' && c != '_' && c != '-' {
			return false
		}
	}
	return true
}

// AppendUnique appends each value to dst unless it is already present,
// preserving first-occurrence order.
func AppendUnique(dst []string, values ...string) []string {
	seen := make(map[string]bool, len(dst)+len(values))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		dst = append(dst, v)
	}
	return dst
}

// PublishStatus describes one summary row against a state ledger.
type PublishStatus struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Labels    []string `json:"labels"`
	Published bool     `json:"published"`
	Drifted   bool     `json:"drifted,omitempty"`
	URL       string   `json:"url,omitempty"`
}
