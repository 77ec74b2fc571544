// Package store persists address book snapshots as JSON files.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/smileynet/contacts/internal/contact"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrStoreRead   = errors.New("store: read failed")
	ErrStoreDecode = errors.New("store: decode failed")
	ErrInvalidPath = errors.New("store: invalid path")
)

// snapshotVersion is written into every snapshot. Older versions are not migrated.
const snapshotVersion = 1

type snapshot struct {
	Version int           `json:"version"`
	Records []recordEntry `json:"records"`
}

type recordEntry struct {
	ID     uuid.UUID    `json:"id"`
	Name   nameEntry    `json:"name"`
	Phones []phoneEntry `json:"phones"`
}

type nameEntry struct {
	First  string `json:"first"`
	Last   string `json:"last,omitempty"`
	Middle string `json:"middle,omitempty"`
}

type phoneEntry struct {
	Kind  contact.PhoneKind `json:"kind"`
	Value string            `json:"value"`
}

// FileStore reads and writes whole-book snapshots.
type FileStore struct{}

// NewFileStore creates a FileStore.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Write replaces the snapshot at path with records, in order.
// Parent directories are created as needed. The data is written to a
// temporary file in the same directory and renamed over path.
func (s *FileStore) Write(path string, records []contact.Record) error {
	if err := checkPath(path); err != nil {
		return err
	}

	snap := snapshot{Version: snapshotVersion, Records: make([]recordEntry, len(records))}
	for i, r := range records {
		snap.Records[i] = encodeRecord(r)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshaling: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store: writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("store: replacing %s: %w", path, err)
	}
	return nil
}

// Read loads the snapshot at path.
// Returns (records, true, nil) if found, (nil, false, nil) when the file does
// not exist or is empty. Other failures wrap ErrStoreRead or ErrStoreDecode.
func (s *FileStore) Read(path string) ([]contact.Record, bool, error) {
	if err := checkPath(path); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %s: %w", ErrStoreRead, path, err)
	}
	if len(data) == 0 {
		return nil, false, nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrStoreDecode, path, err)
	}

	records := make([]contact.Record, 0, len(snap.Records))
	for i, e := range snap.Records {
		r, err := decodeRecord(e)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s: record %d: %w", ErrStoreDecode, path, i, err)
		}
		records = append(records, r)
	}
	return records, true, nil
}

func encodeRecord(r contact.Record) recordEntry {
	e := recordEntry{
		ID:     r.ID,
		Name:   nameEntry{First: r.Name.First, Last: r.Name.Last, Middle: r.Name.Middle},
		Phones: make([]phoneEntry, len(r.Phones)),
	}
	for i, p := range r.Phones {
		value := p.Number()
		if p.IsDraft() {
			value = p.Draft()
		}
		e.Phones[i] = phoneEntry{Kind: p.Kind(), Value: value}
	}
	return e
}

func decodeRecord(e recordEntry) (contact.Record, error) {
	name := contact.Name{First: e.Name.First, Last: e.Name.Last, Middle: e.Name.Middle}
	if err := name.Validate(); err != nil {
		return contact.Record{}, err
	}

	r := contact.Record{ID: e.ID, Name: name}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	for _, pe := range e.Phones {
		p, err := contact.RestorePhoneNumber(pe.Kind, pe.Value)
		if err != nil {
			return contact.Record{}, err
		}
		r.Phones = append(r.Phones, p)
	}
	return r, nil
}

// checkPath rejects empty paths and paths naming a directory.
func checkPath(path string) error {
	if path == "" || path == "." || path == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %q is a directory", ErrInvalidPath, path)
	}
	return nil
}
