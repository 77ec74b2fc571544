// Package tui renders address book records for terminals: a styled table or
// plain lines for one-shot listings, and a Bubble Tea browser with live search.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/contacts/internal/contact"
)

// Display renders a list of records.
type Display interface {
	Show(records []contact.Record) error
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Writer     io.Writer // Output destination (default: os.Stdout).
	Input      io.Reader // Key input for Browse (default: os.Stdin).
	ForcePlain bool      // Force plain text even if TTY.
}

// NewDisplay returns a table display when the writer is a TTY, or a plain
// text display otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	if opts.ForcePlain || !isTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer}
	}

	return &TableDisplay{w: opts.Writer}
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return IsTerminal(f)
}

// PlainDisplay renders records as numbered text lines.
type PlainDisplay struct {
	w io.Writer
}

// Show prints one "N. <record>" line per record.
func (d *PlainDisplay) Show(records []contact.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(d.w, "Address book is empty")
		return err
	}
	for i, r := range records {
		line := fmt.Sprintf("%d. %s", i+1, r)
		if p, ok := r.FirstPhone(); ok && p.IsDraft() && p.Draft() != "" {
			line += fmt.Sprintf(" (draft: %s)", p.Draft())
		}
		if _, err := fmt.Fprintln(d.w, line); err != nil {
			return err
		}
	}
	return nil
}

// TableDisplay renders records as a bordered lipgloss table.
type TableDisplay struct {
	w io.Writer
}

// Show prints every record as a table row with all of its phones.
func (d *TableDisplay) Show(records []contact.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(d.w, mutedText.Render("Address book is empty"))
		return err
	}
	_, err := fmt.Fprintln(d.w, RenderTable(records))
	return err
}

// RenderTable lays records out as a table with number, name and phone columns.
func RenderTable(records []contact.Record) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{strconv.Itoa(i + 1), r.Name.String(), phoneCell(r)}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(dimColor)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("#", "Name", "Phone").
		Rows(rows...).
		String()
}

func phoneCell(r contact.Record) string {
	parts := make([]string, 0, len(r.Phones))
	for _, p := range r.Phones {
		if p.IsDraft() {
			parts = append(parts, DraftBadge(p.Draft()))
			continue
		}
		parts = append(parts, "+"+p.Number())
	}
	return strings.Join(parts, ", ")
}

// Browse runs the interactive browser over records until the user quits.
// When the output is not a terminal, or the program fails to start, the
// records are printed as plain text instead.
func Browse(ctx context.Context, records []contact.Record, opts DisplayOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	plain := &PlainDisplay{w: opts.Writer}
	if opts.ForcePlain || !isTTY(opts.Writer) {
		return plain.Show(records)
	}

	p := tea.NewProgram(NewModel(records),
		tea.WithContext(ctx),
		tea.WithInput(opts.Input),
		tea.WithOutput(opts.Writer),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return plain.Show(records)
	}
	return nil
}
