// Package state persists the processing history between runs: which source
// files were fingerprinted, and every receipt merged so far keyed by its dedup
// identity.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"receiptranger/internal/receipt"
)

// State is the sole durable artifact between runs.
type State struct {
	Files    map[string]string          `json:"files"`
	Receipts map[string]receipt.Receipt `json:"receipts"`
}

// New returns an empty state.
func New() *State {
	return &State{
		Files:    make(map[string]string),
		Receipts: make(map[string]receipt.Receipt),
	}
}

// normalize fills in nil maps after decoding.
func (s *State) normalize() {
	if s.Files == nil {
		s.Files = make(map[string]string)
	}
	if s.Receipts == nil {
		s.Receipts = make(map[string]receipt.Receipt)
	}
}

// Load reads the state file. A missing file yields an empty state; a malformed
// file is an error so a run never proceeds with silently-emptied history. The
// legacy flat {filename: hash} format is accepted and lifted into the current
// shape.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	// Schema detection: the current format has files/receipts sections, the
	// legacy format is a flat filename->hash mapping.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}

	_, hasFiles := probe["files"]
	_, hasReceipts := probe["receipts"]
	if hasFiles || hasReceipts {
		var s State
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing state file %s: %w", path, err)
		}
		s.normalize()
		return &s, nil
	}

	var files map[string]string
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("parsing legacy state file %s: %w", path, err)
	}
	s := New()
	s.Files = files
	s.normalize()
	return s, nil
}

// Save persists the state as indented JSON. It writes to a temp file in the
// same directory and renames it into place so a crash mid-write leaves the
// previous file intact.
func (s *State) Save(path string) error {
	s.normalize()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// MergeReceipts folds a batch into the receipt store, overwriting any existing
// entry with the same dedup key. This is how dedup state accumulates across
// runs.
func (s *State) MergeReceipts(receipts []receipt.Receipt) {
	s.normalize()
	for _, r := range receipts {
		s.Receipts[r.Key()] = r
	}
}

// RecordFile overwrites the stored fingerprint for a successfully processed
// file.
func (s *State) RecordFile(filename, fingerprint string) {
	s.normalize()
	s.Files[filename] = fingerprint
}
