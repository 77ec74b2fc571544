package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contacts/internal/contact"
)

// Model is the Bubble Tea model for browsing records with a live search filter.
// It works on a snapshot of the records and never changes them.
type Model struct {
	records   []contact.Record
	matches   []contact.Record
	cursor    int
	search    textinput.Model
	searching bool
	keys      browseKeys
	inputKeys searchKeys
	help      help.Model
	width     int
	height    int
	quitting  bool
}

// NewModel creates a Model listing records in the given order.
func NewModel(records []contact.Record) Model {
	ti := textinput.New()
	ti.Prompt = "search: "
	ti.Placeholder = "part of a first, last or middle name"

	snapshot := make([]contact.Record, len(records))
	for i, r := range records {
		snapshot[i] = r.Clone()
	}

	return Model{
		records:   snapshot,
		matches:   snapshot,
		search:    ti,
		keys:      BrowseKeyMap(),
		inputKeys: SearchKeyMap(),
		help:      help.New(),
	}
}

// Filter returns the records whose name components contain query, in order.
// Matching is case-sensitive and an empty query keeps every record.
func Filter(records []contact.Record, query string) []contact.Record {
	if query == "" {
		return records
	}
	var out []contact.Record
	for _, r := range records {
		if r.Matches(query) {
			out = append(out, r)
		}
	}
	return out
}

// Init does no initial I/O; the records are already in memory.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if len(m.matches) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.matches) - 1
			}
		}

	case key.Matches(msg, m.keys.Down):
		if len(m.matches) > 0 {
			m.cursor++
			if m.cursor >= len(m.matches) {
				m.cursor = 0
			}
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		m.search.Reset()
		m = m.refilter()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.inputKeys.Accept):
		m.searching = false
		m.search.Blur()
		return m, nil

	case key.Matches(msg, m.inputKeys.Cancel):
		m.searching = false
		m.search.Blur()
		m.search.Reset()
		return m.refilter(), nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m.refilter(), cmd
}

// refilter recomputes matches from the search box and resets the cursor.
func (m Model) refilter() Model {
	m.matches = Filter(m.records, m.search.Value())
	m.cursor = 0
	return m
}

// Query returns the current search request.
func (m Model) Query() string {
	return m.search.Value()
}

// Matches returns the records currently shown.
func (m Model) Matches() []contact.Record {
	return m.matches
}

// Selected returns the record under the cursor, if any.
func (m Model) Selected() (contact.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return contact.Record{}, false
	}
	return m.matches[m.cursor], true
}

// View renders the title, search box, record list, selected record and help bar.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Contacts"))
	b.WriteString(mutedText.Render(fmt.Sprintf(" (%d of %d)", len(m.matches), len(m.records))))
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case len(m.records) == 0:
		b.WriteString(mutedText.Render("Address book is empty"))
		b.WriteString("\n")
	case len(m.matches) == 0:
		b.WriteString(mutedText.Render(fmt.Sprintf("No matches found for the request:'%s'", m.search.Value())))
		b.WriteString("\n")
	default:
		for i, r := range m.matches {
			if i == m.cursor {
				b.WriteString(CursorMarker)
				b.WriteString(selectedStyle.Render(r.Name.String()))
			} else {
				b.WriteString("  ")
				b.WriteString(r.Name.String())
			}
			if phone := phoneLabel(r); phone != "" {
				b.WriteString("  ")
				b.WriteString(phone)
			}
			b.WriteString("\n")
		}
		if sel, ok := m.Selected(); ok {
			b.WriteString("\n")
			b.WriteString(DetailBorder().Render(detail(sel)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.help.View(m.inputKeys))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

// phoneLabel renders the first phone of r, marking drafts.
func phoneLabel(r contact.Record) string {
	p, ok := r.FirstPhone()
	switch {
	case !ok:
		return ""
	case p.IsDraft():
		if p.Draft() == "" {
			return ""
		}
		return DraftBadge(p.Draft())
	default:
		return p.Number()
	}
}

// detail renders every field of r for the selected-record box.
func detail(r contact.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "First:  %s", r.Name.First)
	if r.Name.Middle != "" {
		fmt.Fprintf(&b, "\nMiddle: %s", r.Name.Middle)
	}
	if r.Name.Last != "" {
		fmt.Fprintf(&b, "\nLast:   %s", r.Name.Last)
	}
	if len(r.Phones) == 0 {
		b.WriteString("\n" + mutedText.Render("no phone numbers"))
	}
	for i, p := range r.Phones {
		if p.IsDraft() {
			fmt.Fprintf(&b, "\nPhone %d: %s", i+1, DraftBadge(p.Draft()))
			continue
		}
		fmt.Fprintf(&b, "\nPhone %d: +%s", i+1, p.Number())
	}
	return b.String()
}
