// Package store reads the artifact tree written by simulate and keeps the
// publish state ledgers.
package store

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/RamXX/backplan/internal/idgen"
	"github.com/RamXX/backplan/internal/model"
	"github.com/RamXX/vlt"
)

// IssuesDir is the draft folder inside the output tree.
const IssuesDir = "issues"

// Store wraps a vlt.Vault rooted at the simulate output directory.
type Store struct {
	vault *vlt.Vault
	dir   string
}

// Open opens an existing output tree at dir.
func Open(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open output dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open output dir: %s is not a directory", dir)
	}
	v, err := vlt.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	return &Store{vault: v, dir: dir}, nil
}

// Dir returns the output root directory.
func (s *Store) Dir() string { return s.dir }

// DraftFiles lists draft files relative to the output root, sorted.
func (s *Store) DraftFiles() ([]string, error) {
	files, err := s.vault.Files(IssuesDir, "md")
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, path.Join(IssuesDir, path.Base(f)))
	}
	sort.Strings(out)
	return out, nil
}

// DraftIndexError reports summary ids that could not be paired with exactly
// one draft file.
type DraftIndexError struct {
	Missing   []string
	Ambiguous map[string][]string
}

func (e *DraftIndexError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "no draft file for "+strings.Join(e.Missing, ", "))
	}
	ids := make([]string, 0, len(e.Ambiguous))
	for id := range e.Ambiguous {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s matches several drafts (%s)", id, strings.Join(e.Ambiguous[id], ", ")))
	}
	return strings.Join(parts, "; ")
}

// DraftIndex pairs every summary row with its draft file. See BuildDraftIndex.
func (s *Store) DraftIndex(rows []model.SummaryRow) (map[string]string, error) {
	files, err := s.DraftFiles()
	if err != nil {
		return nil, err
	}
	return BuildDraftIndex(rows, files)
}

// BuildDraftIndex maps each row id to a file. The row at position i owns the
// file simulate declared for it, NN-<id>-<slug(title)>.md. Rows whose
// declared file is absent fall back to any unclaimed file named
// <digits>-<id>-*.md, which must then be unique. A *DraftIndexError names
// every id left unresolved.
func BuildDraftIndex(rows []model.SummaryRow, files []string) (map[string]string, error) {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}

	index := make(map[string]string, len(rows))
	claimed := make(map[string]bool, len(rows))
	for i, row := range rows {
		declared := path.Join(IssuesDir, idgen.DraftFileName(i, row.ID, row.Title))
		if present[declared] {
			index[row.ID] = declared
			claimed[declared] = true
		}
	}

	ierr := &DraftIndexError{Ambiguous: make(map[string][]string)}
	for _, row := range rows {
		if _, ok := index[row.ID]; ok {
			continue
		}
		var hits []string
		for _, f := range files {
			if !claimed[f] && idgen.MatchesDraft(path.Base(f), row.ID) {
				hits = append(hits, f)
			}
		}
		switch len(hits) {
		case 0:
			ierr.Missing = append(ierr.Missing, row.ID)
		case 1:
			index[row.ID] = hits[0]
		default:
			ierr.Ambiguous[row.ID] = hits
		}
	}
	if len(ierr.Missing) > 0 || len(ierr.Ambiguous) > 0 {
		return nil, ierr
	}
	return index, nil
}
