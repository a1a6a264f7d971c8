// Package backlog loads and validates backlog documents.
package backlog

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/RamXX/backplan/internal/model"
	"gopkg.in/yaml.v3"
)

// SchemaError collects every structural problem found in a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid backlog: " + strings.Join(e.Problems, "; ")
}

// DuplicateIDError lists identifiers used by more than one item, sorted.
type DuplicateIDError struct {
	IDs []string
}

func (e *DuplicateIDError) Error() string {
	return "duplicate item ids: " + strings.Join(e.IDs, ", ")
}

// Load reads and validates a backlog document from disk.
func Load(path string) (*model.Backlog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat backlog: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("backlog %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backlog: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a YAML or JSON backlog document and validates it. All schema
// problems are reported together; duplicate identifiers are checked only once
// the structure is sound and are reported as a *DuplicateIDError.
func Parse(data []byte) (*model.Backlog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &SchemaError{Problems: []string{"backlog document is empty"}}
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SchemaError{Problems: []string{fmt.Sprintf("decode: %v", err)}}
	}

	v := &validator{}
	b := v.document(&doc)
	if len(v.problems) > 0 {
		return nil, &SchemaError{Problems: v.problems}
	}
	if dups := duplicateIDs(b.Items); len(dups) > 0 {
		return nil, &DuplicateIDError{IDs: dups}
	}
	return b, nil
}

func duplicateIDs(items []model.BacklogItem) []string {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item.ID]++
	}
	var dups []string
	for id, n := range counts {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}

type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) document(doc *yaml.Node) *model.Backlog {
	b := &model.Backlog{}
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		v.addf("document: expected a mapping with project and items")
		return b
	}

	b.Project = v.requiredString(root, "project", "project")

	items := lookup(root, "items")
	switch {
	case isNull(items):
		v.addf("items: required")
	case items.Kind != yaml.SequenceNode:
		v.addf("items: expected a list (line %d)", items.Line)
	default:
		for i, node := range items.Content {
			if item, ok := v.item(node, fmt.Sprintf("items[%d]", i)); ok {
				b.Items = append(b.Items, item)
			}
		}
	}
	return b
}

func (v *validator) item(node *yaml.Node, path string) (model.BacklogItem, bool) {
	if node.Kind != yaml.MappingNode {
		v.addf("%s: expected a mapping (line %d)", path, node.Line)
		return model.BacklogItem{}, false
	}
	before := len(v.problems)

	item := model.BacklogItem{
		ID:         v.requiredString(node, "id", path+".id"),
		Title:      v.requiredString(node, "title", path+".title"),
		Pitch:      v.requiredString(node, "pitch", path+".pitch"),
		Owner:      v.optionalString(node, "owner", path+".owner"),
		Labels:     model.AppendUnique(nil, v.stringList(node, "labels", path+".labels")...),
		Status:     model.StatusBacklog,
		Tasks:      v.stringList(node, "tasks", path+".tasks"),
		Acceptance: v.stringList(node, "acceptance", path+".acceptance"),
		Risks:      v.stringList(node, "risks", path+".risks"),
	}
	if item.ID != "" && !model.ValidID(item.ID) {
		v.addf("%s.id: %q must start with a letter or digit and contain only letters, digits, '.', '_' or '-'", path, item.ID)
	}
	if raw := v.optionalString(node, "status", path+".status"); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			v.addf("%s.status: %v", path, err)
		} else {
			item.Status = st
		}
	}
	return item, len(v.problems) == before
}

func (v *validator) requiredString(node *yaml.Node, key, path string) string {
	val := lookup(node, key)
	if isNull(val) {
		v.addf("%s: required", path)
		return ""
	}
	s, ok := scalar(val)
	if !ok {
		v.addf("%s: expected a string (line %d)", path, val.Line)
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		v.addf("%s: must not be empty", path)
	}
	return s
}

func (v *validator) optionalString(node *yaml.Node, key, path string) string {
	val := lookup(node, key)
	if isNull(val) {
		return ""
	}
	s, ok := scalar(val)
	if !ok {
		v.addf("%s: expected a string (line %d)", path, val.Line)
		return ""
	}
	return strings.TrimSpace(s)
}

func (v *validator) stringList(node *yaml.Node, key, path string) []string {
	val := lookup(node, key)
	if isNull(val) {
		return nil
	}
	if val.Kind != yaml.SequenceNode {
		v.addf("%s: expected a list of strings (line %d)", path, val.Line)
		return nil
	}
	var out []string
	for i, el := range val.Content {
		s, ok := scalar(el)
		if !ok || isNull(el) {
			v.addf("%s[%d]: expected a string (line %d)", path, i, el.Line)
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// lookup returns the value node for key in a mapping, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// scalar accepts any non-null scalar; numbers and booleans keep their literal text.
func scalar(n *yaml.Node) (string, bool) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}
