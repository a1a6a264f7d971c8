package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// StateVersion is the only ledger schema version understood.
const StateVersion = 1

// Record is what a ledger remembers about one externally created item.
// Issue ledgers fill every field; project-draft ledgers keep only the title
// and body hash.
type Record struct {
	Title    string   `json:"title"`
	Labels   []string `json:"labels,omitempty"`
	URL      string   `json:"url,omitempty"`
	Number   int      `json:"number,omitempty"`
	BodyHash string   `json:"body_hash,omitempty"`
}

// State is a versioned ledger of created items keyed by backlog id.
// It is read once per run and rewritten in full after every creation.
// Concurrent runs against the same file are not supported.
type State struct {
	Version int               `json:"version"`
	Created map[string]Record `json:"created"`
}

// NewState returns an empty ledger.
func NewState() *State {
	return &State{Version: StateVersion, Created: make(map[string]Record)}
}

// Has reports whether id was already created.
func (st *State) Has(id string) bool {
	_, ok := st.Created[id]
	return ok
}

// Put records id as created.
func (st *State) Put(id string, rec Record) {
	st.Created[id] = rec
}

// StateWarning explains why an existing ledger was ignored.
type StateWarning struct {
	Path   string
	Reason string
}

func (w *StateWarning) Error() string {
	return fmt.Sprintf("state file %s %s; continuing without resume", w.Path, w.Reason)
}

// LoadState reads the ledger at path. A missing or invalid file yields an
// empty ledger together with a warning; only I/O failures are errors.
func LoadState(path string) (*State, *StateWarning, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewState(), &StateWarning{Path: path, Reason: "does not exist"}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read state: %w", err)
	}
	st, reason := decodeState(data)
	if reason != "" {
		return NewState(), &StateWarning{Path: path, Reason: reason}, nil
	}
	return st, nil, nil
}

func decodeState(data []byte) (*State, string) {
	var raw struct {
		Version *int            `json:"version"`
		Created json.RawMessage `json:"created"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Sprintf("is not valid JSON (%v)", err)
	}
	if raw.Version == nil {
		return nil, "has no version"
	}
	if *raw.Version != StateVersion {
		return nil, fmt.Sprintf("has unsupported version %d", *raw.Version)
	}
	trimmed := bytes.TrimSpace(raw.Created)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, "has no created map"
	}
	st := NewState()
	if err := json.Unmarshal(trimmed, &st.Created); err != nil {
		return nil, fmt.Sprintf("has malformed records (%v)", err)
	}
	for id, rec := range st.Created {
		if id == "" || rec.Title == "" {
			return nil, fmt.Sprintf("has a record without id or title (%q)", id)
		}
	}
	return st, ""
}

// Save writes the whole ledger to path, creating parent directories.
func (st *State) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
