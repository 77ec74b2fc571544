package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/smileynet/contacts/internal/contact"
)

// recordView flattens a Record into comparable fields.
type recordView struct {
	ID     uuid.UUID
	First  string
	Last   string
	Middle string
	Phones []string
}

func view(records []contact.Record) []recordView {
	out := make([]recordView, len(records))
	for i, r := range records {
		v := recordView{ID: r.ID, First: r.Name.First, Last: r.Name.Last, Middle: r.Name.Middle}
		for _, p := range r.Phones {
			v.Phones = append(v.Phones, string(p.Kind())+":"+p.Number()+p.Draft())
		}
		out[i] = v
	}
	return out
}

func sampleRecords() []contact.Record {
	valid := contact.NewPhoneNumber("1122334455")
	draft := contact.NewPhoneNumber("12345")
	return []contact.Record{
		contact.NewRecord(contact.Name{First: "Dm", Last: "Krvts", Middle: "Andr"}, &valid),
		contact.NewRecord(contact.Name{First: "Kt", Last: "Khn"}, &draft),
		contact.NewRecord(contact.Name{First: "Anna"}, nil),
	}
}

func TestFileStore_WriteAndRead(t *testing.T) {
	// Given records with valid, draft, and absent phones
	path := filepath.Join(t.TempDir(), "book", "auto_save.json")
	s := NewFileStore()
	records := sampleRecords()

	// When Write then Read are called
	if err := s.Write(path, records); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	loaded, found, err := s.Read(path)

	// Then the same records come back in the same order
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !found {
		t.Fatal("Read() found = false, want true")
	}
	if diff := cmp.Diff(view(records), view(loaded)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStore_WriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto_save.json")
	s := NewFileStore()

	if err := s.Write(path, sampleRecords()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Write(path, nil); err != nil {
		t.Fatalf("Write(nil) error = %v", err)
	}

	loaded, found, err := s.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !found {
		t.Fatal("Read() found = false, want true")
	}
	if len(loaded) != 0 {
		t.Errorf("Read() len = %d, want 0", len(loaded))
	}
}

func TestFileStore_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auto_save.json")

	if err := NewFileStore().Write(path, sampleRecords()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "auto_save.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want [auto_save.json]", names)
	}
}

func TestFileStore_ReadFirstRun(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, path string)
	}{
		{name: "missing file", setup: func(*testing.T, string) {}},
		{name: "zero-length file", setup: func(t *testing.T, path string) {
			if err := os.WriteFile(path, nil, 0o644); err != nil {
				t.Fatal(err)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given a store path with no prior snapshot
			path := filepath.Join(t.TempDir(), "auto_save.json")
			tt.setup(t, path)

			// When Read is called
			records, found, err := NewFileStore().Read(path)

			// Then it reports not found without error
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if found {
				t.Error("Read() found = true, want false")
			}
			if len(records) != 0 {
				t.Errorf("Read() len = %d, want 0", len(records))
			}
		})
	}
}

func TestFileStore_ReadDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "\x80\x04\x95 pickle bytes"},
		{name: "truncated", content: `{"version":1,"records":[{"id":`},
		{name: "invalid first name", content: `{"version":1,"records":[{"name":{"first":"A1"},"phones":[]}]}`},
		{name: "valid phone that does not validate", content: `{"version":1,"records":[{"name":{"first":"Anna"},"phones":[{"kind":"valid","value":"12"}]}]}`},
		{name: "unknown phone kind", content: `{"version":1,"records":[{"name":{"first":"Anna"},"phones":[{"kind":"fax","value":"12"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "auto_save.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, found, err := NewFileStore().Read(path)

			if !errors.Is(err, ErrStoreDecode) {
				t.Errorf("Read() error = %v, want ErrStoreDecode", err)
			}
			if found {
				t.Error("Read() found = true, want false")
			}
		})
	}
}

func TestFileStore_ReadAssignsMissingIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto_save.json")
	content := `{"version":1,"records":[{"name":{"first":"Anna"},"phones":[{"kind":"draft","value":"12"}]}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, _, err := NewFileStore().Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if records[0].ID == uuid.Nil {
		t.Error("ID = uuid.Nil, want generated ID")
	}
	if records[0].Phones[0].Draft() != "12" {
		t.Errorf("Draft() = %q, want %q", records[0].Phones[0].Draft(), "12")
	}
}

func TestFileStore_ReadError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files regardless of mode")
	}
	path := filepath.Join(t.TempDir(), "auto_save.json")
	if err := os.WriteFile(path, []byte("{}"), 0o000); err != nil {
		t.Fatal(err)
	}

	_, _, err := NewFileStore().Read(path)

	if !errors.Is(err, ErrStoreRead) {
		t.Errorf("Read() error = %v, want ErrStoreRead", err)
	}
}

func TestFileStore_InvalidPath(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore()

	for _, path := range []string{"", ".", "..", dir} {
		t.Run(path, func(t *testing.T) {
			if err := s.Write(path, nil); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Write(%q) error = %v, want ErrInvalidPath", path, err)
			}
			if _, _, err := s.Read(path); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Read(%q) error = %v, want ErrInvalidPath", path, err)
			}
		})
	}
}

func TestFileStore_SnapshotFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto_save.json")
	draft := contact.NewPhoneNumber("12345")
	rec := contact.NewRecord(contact.Name{First: "Kt"}, &draft)

	if err := NewFileStore().Write(path, []contact.Record{rec}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"version": 1`, `"kind": "draft"`, `"value": "12345"`, rec.ID.String()} {
		if !strings.Contains(string(data), want) {
			t.Errorf("snapshot missing %q:\n%s", want, data)
		}
	}
}
