// Package shell runs the interactive contact assistant command loop.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/smileynet/contacts/internal/book"
	"github.com/smileynet/contacts/internal/contact"
)

// Commands in the order shown by help.
var Commands = []string{"Add", "Search", "Edit", "Load", "Remove", "Save", "Congratulate", "View", "Exit"}

// helpColumnWidth is the width command names are centered in.
const helpColumnWidth = 20

// Greeting is printed once when Run starts.
const Greeting = "Hello. I am your contact-assistant. What should I do with your contacts?"

// Shell reads commands from an input stream and applies them to an address book.
type Shell struct {
	book      *book.AddressBook
	in        *bufio.Reader
	out       io.Writer
	storePath string
	autosave  bool
	retries   int
	log       *zap.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithStorePath sets the snapshot path used by load, save, and auto-save.
func WithStorePath(p string) Option {
	return func(s *Shell) { s.storePath = p }
}

// WithAutosave enables saving after add, edit, and remove.
func WithAutosave(on bool) Option {
	return func(s *Shell) { s.autosave = on }
}

// WithRetries sets the first-name repair budget.
func WithRetries(n int) Option {
	return func(s *Shell) { s.retries = n }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) { s.log = l }
}

// New creates a Shell over b reading from in and writing to out.
func New(b *book.AddressBook, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		book:      b,
		in:        bufio.NewReader(in),
		out:       out,
		storePath: "auto_save.json",
		autosave:  true,
		retries:   contact.DefaultNameRetries,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run loops over commands until exit or end of input.
func (s *Shell) Run() error {
	s.println(Greeting)
	for {
		line, err := s.ask("Type help for list of commands or enter your command", "")
		if err != nil {
			return ignoreEOF(err)
		}
		action := normalize(line)

		if action == "help" {
			s.printHelp()
			line, err = s.readLine()
			if err != nil {
				return ignoreEOF(err)
			}
			action = normalize(line)
		}

		exit, err := s.Handle(action)
		if err != nil {
			return ignoreEOF(err)
		}
		if exit {
			return nil
		}
	}
}

// Handle executes a single normalized command. It reports whether the loop
// should stop. Only input failures are returned as errors; command failures
// are reported to the user.
func (s *Shell) Handle(action string) (exit bool, err error) {
	s.log.Debug("dispatch", zap.String("command", action))

	var changed bool
	switch action {
	case "add":
		changed, err = s.add()
	case "view":
		s.view()
	case "search":
		err = s.search()
	case "edit":
		changed, err = s.edit()
	case "remove":
		changed, err = s.remove()
	case "load":
		s.load()
	case "save":
		s.save()
	case "congratulate":
		s.println("There is nobody to congratulate: records do not store birthdays")
	case "exit":
		s.println("Good bye!")
		return true, nil
	case "":
	default:
		s.printf("Unknown command %q. Type help for list of commands\n", action)
	}
	if err != nil {
		return false, err
	}

	if changed && s.autosave {
		s.autoSave()
	}
	return false, nil
}

func (s *Shell) add() (bool, error) {
	first, err := s.ask("Please provide First name: ", "..>")
	if err != nil {
		return false, err
	}
	last, err := s.ask("Please provide Last name(hit enter to skip): ", "..>")
	if err != nil {
		return false, err
	}
	middle, err := s.ask("Please provide Middle name(hit enter to skip): ", "..>")
	if err != nil {
		return false, err
	}

	name, err := contact.NewName(first, last, middle,
		contact.WithPrompter(contact.PromptFunc(func(msg string) (string, error) {
			return s.ask(msg, "..>")
		})),
		contact.WithRetries(s.retries),
		contact.WithRejectedFunc(func(v string) {
			s.printf("Sorry, provided first name: '%s' is not valid\n", v)
		}),
	)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, err
		}
		s.log.Info("record creation failed", zap.Error(err))
		s.println("Why even bother trying to create a record without the valid name, or even nickname?")
		return false, nil
	}

	raw, err := s.ask(fmt.Sprintf("Please provide phone number(only digits) for %s(hit enter to skip): ", name.First), "..>  +")
	if err != nil {
		return false, err
	}

	var phone *contact.PhoneNumber
	if raw != "" {
		p := contact.NewPhoneNumber(raw)
		if p.IsDraft() {
			s.printf("Please note, since provided phone number '%s' is not valid, it was only saved as draft, you may edit it later\n", p.Draft())
		}
		phone = &p
	}

	r := contact.NewRecord(name, phone)
	s.book.Add(r)
	s.printf("The record [%s] was created and saved\n", r)
	return true, nil
}

func (s *Shell) view() {
	records := s.book.Records()
	if len(records) == 0 {
		s.println("Address book is empty")
		return
	}
	for i, r := range records {
		s.printf("%d. %s\n", i+1, describe(r))
	}
}

func (s *Shell) search() error {
	query, err := s.ask("Please provide search request: ", "..>")
	if err != nil {
		return err
	}
	matches, err := s.book.Find(query)
	if err != nil {
		if errors.Is(err, book.ErrNoMatches) {
			s.printf("No matches found for the request:'%s'\n", query)
			return nil
		}
		return err
	}
	for _, r := range matches {
		s.println(describe(r))
	}
	return nil
}

func (s *Shell) edit() (bool, error) {
	r, ok, err := s.pick("edit")
	if err != nil || !ok {
		return false, err
	}

	last, err := s.ask(fmt.Sprintf("Please provide new Last name(hit enter to keep '%s'): ", r.Name.Last), "..>")
	if err != nil {
		return false, err
	}
	if last != "" {
		r.Name = r.Name.WithLast(last)
	}

	current := ""
	if p, ok := r.FirstPhone(); ok {
		current = p.Number() + p.Draft()
	}
	raw, err := s.ask(fmt.Sprintf("Please provide new phone number(only digits)(hit enter to keep '%s'): ", current), "..>  +")
	if err != nil {
		return false, err
	}
	if raw != "" {
		p := contact.NewPhoneNumber(raw)
		if p.IsDraft() {
			s.printf("Please note, since provided phone number '%s' is not valid, it was only saved as draft, you may edit it later\n", p.Draft())
		}
		if err := r.SetPhone(0, p); err != nil {
			return false, err
		}
	}

	if err := s.book.Update(r); err != nil {
		s.printf("Could not update the record: %v\n", err)
		return false, nil
	}
	s.printf("The record [%s] was updated\n", r)
	return true, nil
}

func (s *Shell) remove() (bool, error) {
	r, ok, err := s.pick("remove")
	if err != nil || !ok {
		return false, err
	}
	if err := s.book.Remove(r.ID); err != nil {
		s.printf("Could not remove the record: %v\n", err)
		return false, nil
	}
	s.printf("The record [%s] was removed\n", r)
	return true, nil
}

// pick lists the records and asks for a 1-based record number.
func (s *Shell) pick(verb string) (contact.Record, bool, error) {
	records := s.book.Records()
	if len(records) == 0 {
		s.println("Address book is empty")
		return contact.Record{}, false, nil
	}
	s.view()

	answer, err := s.ask(fmt.Sprintf("Please provide the number of the record to %s: ", verb), "..>")
	if err != nil {
		return contact.Record{}, false, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(answer))
	if convErr != nil || n < 1 || n > len(records) {
		s.printf("There is no record number '%s'\n", answer)
		return contact.Record{}, false, nil
	}
	return records[n-1], true, nil
}

func (s *Shell) load() {
	if err := s.book.Load(s.storePath); err != nil {
		s.log.Warn("load failed", zap.String("path", s.storePath), zap.Error(err))
		s.printf("Could not load the address book: %v\n", err)
		return
	}
	s.log.Info("loaded", zap.String("path", s.storePath), zap.Int("records", s.book.Len()))
	s.printf("Loaded %d records from %s\n", s.book.Len(), s.storePath)
}

func (s *Shell) save() {
	if err := s.book.Save(s.storePath); err != nil {
		s.log.Warn("save failed", zap.String("path", s.storePath), zap.Error(err))
		s.printf("Could not save the address book: %v\n", err)
		return
	}
	s.printf("Saved %d records to %s\n", s.book.Len(), s.storePath)
}

func (s *Shell) autoSave() {
	if err := s.book.Save(s.storePath); err != nil {
		s.log.Warn("auto-save failed", zap.String("path", s.storePath), zap.Error(err))
		s.printf("warning: auto-save failed: %v\n", err)
		return
	}
	s.log.Debug("auto-saved", zap.String("path", s.storePath), zap.Int("records", s.book.Len()))
}

func (s *Shell) printHelp() {
	for _, c := range Commands {
		s.println(center(c, helpColumnWidth))
	}
}

// ask prints message and an optional input marker, then reads one line.
func (s *Shell) ask(message, marker string) (string, error) {
	s.println(message)
	if marker != "" {
		_, _ = io.WriteString(s.out, marker)
	}
	return s.readLine()
}

// readLine returns the next input line without its line ending. The content
// is otherwise untouched. A final unterminated line is returned before io.EOF.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

// describe renders a record for listings, noting a draft phone when present.
func describe(r contact.Record) string {
	if p, ok := r.FirstPhone(); ok && p.IsDraft() && p.Draft() != "" {
		return fmt.Sprintf("%s (draft: %s)", r, p.Draft())
	}
	return r.String()
}

// normalize trims and lowercases a command line.
func normalize(line string) string {
	return strings.ToLower(strings.TrimSpace(line))
}

// center pads s with spaces to width, putting any odd space on the right.
func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
