package tui

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/smileynet/contacts/internal/contact"
)

// --- isTTY ---

func TestIsTTY_NonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	if isTTY(&buf) {
		t.Error("non-*os.File writer should not be a TTY")
	}
}

func TestIsTTY_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "test")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	if isTTY(f) {
		t.Error("regular file should not be a TTY")
	}
}

// --- NewDisplay factory ---

func TestNewDisplay_ForcePlainReturnsPlainDisplay(t *testing.T) {
	d := NewDisplay(DisplayOptions{Writer: os.Stdout, ForcePlain: true})

	if _, ok := d.(*PlainDisplay); !ok {
		t.Errorf("ForcePlain should return *PlainDisplay, got %T", d)
	}
}

func TestNewDisplay_NonTTYReturnsPlainDisplay(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(DisplayOptions{Writer: &buf})

	if _, ok := d.(*PlainDisplay); !ok {
		t.Errorf("non-TTY writer should return *PlainDisplay, got %T", d)
	}
}

func TestNewDisplay_DefaultsWriterToStdout(t *testing.T) {
	d := NewDisplay(DisplayOptions{ForcePlain: true})

	pd, ok := d.(*PlainDisplay)
	if !ok {
		t.Fatalf("expected *PlainDisplay, got %T", d)
	}
	if pd.w != os.Stdout {
		t.Error("default Writer should be os.Stdout")
	}
}

// --- PlainDisplay ---

func TestPlainDisplay_NumberedLines(t *testing.T) {
	// Given: a valid record and a record with a draft phone
	var buf bytes.Buffer
	d := &PlainDisplay{w: &buf}

	// When: both are shown
	if err := d.Show(sampleRecords()); err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	// Then: lines are numbered in order and the draft is noted
	want := "1. Anna Smith: 1234567890\n" +
		"2. Kt Khn:  (draft: 12345)\n" +
		"3. Anton: \n"
	if got := buf.String(); got != want {
		t.Errorf("Show() output =\n%q\nwant\n%q", got, want)
	}
}

func TestPlainDisplay_Empty(t *testing.T) {
	var buf bytes.Buffer
	d := &PlainDisplay{w: &buf}

	if err := d.Show(nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Address book is empty\n" {
		t.Errorf("Show(nil) = %q", got)
	}
}

// --- TableDisplay ---

func TestRenderTable_ContainsEveryRecord(t *testing.T) {
	// Given: records including one with several phones
	records := sampleRecords()
	second := contact.NewPhoneNumber("0987654321")
	if err := records[0].SetPhone(1, second); err != nil {
		t.Fatal(err)
	}

	// When: the table is rendered
	plain := stripANSI(RenderTable(records))

	// Then: headers, names, and phones (with drafts marked) are present
	for _, want := range []string{"Name", "Phone", "Anna Smith", "+1234567890, +0987654321", "Kt Khn", "draft: 12345", "Anton"} {
		if !strings.Contains(plain, want) {
			t.Errorf("table missing %q:\n%s", want, plain)
		}
	}
	if strings.Index(plain, "Anna Smith") > strings.Index(plain, "Kt Khn") {
		t.Errorf("rows out of insertion order:\n%s", plain)
	}
}

func TestTableDisplay_Empty(t *testing.T) {
	var buf bytes.Buffer
	d := &TableDisplay{w: &buf}

	if err := d.Show(nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stripANSI(buf.String()), "Address book is empty") {
		t.Errorf("Show(nil) = %q", buf.String())
	}
}

// --- Browse ---

func TestBrowse_NonTTYFallsBackToPlain(t *testing.T) {
	var buf bytes.Buffer

	err := Browse(context.Background(), sampleRecords(), DisplayOptions{
		Writer: &buf,
		Input:  strings.NewReader(""),
	})

	if err != nil {
		t.Fatalf("Browse() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "1. Anna Smith: 1234567890\n") {
		t.Errorf("Browse() fallback output = %q", buf.String())
	}
}
