package store

import (
	"fmt"
	"path"
	"strings"

	"github.com/RamXX/backplan/internal/model"
)

// SerializeDraft renders a draft file: title heading, body and a trailing
// Labels line.
func SerializeDraft(d model.IssueDraft) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", d.Title))
	sb.WriteString(strings.TrimSpace(d.Body))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Labels: %s\n", strings.Join(d.Labels, ", ")))
	return sb.String()
}

// DraftBody strips a leading markdown title line and surrounding whitespace.
func DraftBody(content string) string {
	content = strings.TrimLeft(content, "\r\n\t ")
	if strings.HasPrefix(content, "# ") {
		if i := strings.IndexByte(content, '\n'); i >= 0 {
			content = content[i+1:]
		} else {
			content = ""
		}
	}
	return strings.TrimSpace(content)
}

// ReadDraftBody reads a draft note through the vault and returns its body.
func (s *Store) ReadDraftBody(file string) (string, error) {
	name := strings.TrimSuffix(path.Base(file), ".md")
	content, err := s.vault.Read(name, "")
	if err != nil {
		return "", fmt.Errorf("read draft %s: %w", file, err)
	}
	return DraftBody(content), nil
}
