package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	contacts "github.com/smileynet/contacts"
	"github.com/smileynet/contacts/internal/auditlog"
	"github.com/smileynet/contacts/internal/book"
	"github.com/smileynet/contacts/internal/config"
	"github.com/smileynet/contacts/internal/contact"
	"github.com/smileynet/contacts/internal/shell"
	"github.com/smileynet/contacts/internal/store"
	"github.com/smileynet/contacts/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals holds flags shared by every command.
type Globals struct {
	Config  string `help:"Extra config file applied after user and project config." placeholder:"PATH"`
	Store   string `help:"Address book snapshot file (overrides config)." placeholder:"PATH"`
	LogFile string `help:"Audit log file (overrides config)." placeholder:"PATH"`
	Verbose bool   `help:"Write diagnostic logs to stderr." short:"v"`
}

// CLI is the top-level command structure for contacts.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Shell   ShellCmd         `cmd:"" default:"1" help:"Start the interactive contact assistant."`
	Add     AddCmd           `cmd:"" help:"Add one record and save the address book."`
	View    ViewCmd          `cmd:"" help:"List every record."`
	Search  SearchCmd        `cmd:"" help:"List records whose name contains the query."`
	Browse  BrowseCmd        `cmd:"" help:"Browse records with a live search filter."`
	Init    InitCmd          `cmd:"" help:"Write a starter project config."`
}

// app is the wired address book shared by the commands.
type app struct {
	cfg  *config.Config
	book *book.AddressBook
	log  *zap.Logger
}

// loadConfig loads layered config from user, project, and extra paths with env overrides.
func loadConfig(extra string) (*config.Config, error) {
	if extra != "" {
		if _, err := os.Stat(extra); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/contacts/config.yaml"),
		".contacts/config.yaml",
		extra,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns a no-op logger unless verbose output is requested.
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopmentConfig().Build()
}

// setup resolves config, applies flag overrides, and loads the address book.
func (g *Globals) setup() (*app, error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides.
	if g.Store != "" {
		cfg.Store.Path = g.Store
	}
	if g.LogFile != "" {
		cfg.Log.Path = g.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := newLogger(g.Verbose)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	audit, err := auditlog.New(cfg.Log.Path)
	if err != nil {
		return nil, err
	}
	b := book.New(store.NewFileStore(), audit)
	if err := b.Load(cfg.Store.Path); err != nil {
		return nil, err
	}
	log.Info("address book loaded",
		zap.String("store", cfg.Store.Path),
		zap.String("audit", cfg.Log.Path),
		zap.Int("records", b.Len()),
	)

	return &app{cfg: cfg, book: b, log: log}, nil
}

// --- Shell command ---

// ShellCmd runs the interactive command loop on stdin and stdout.
type ShellCmd struct{}

// Run executes the shell command.
func (c *ShellCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	defer func() { _ = a.log.Sync() }()
	return c.run(os.Stdin, os.Stdout, a)
}

// run drives the shell over the given streams, enabling testable wiring.
func (c *ShellCmd) run(in io.Reader, w io.Writer, a *app) error {
	sh := shell.New(a.book, in, w,
		shell.WithStorePath(a.cfg.Store.Path),
		shell.WithAutosave(a.cfg.Store.Autosave),
		shell.WithRetries(a.cfg.Name.Retries),
		shell.WithLogger(a.log),
	)
	return sh.Run()
}

// --- Add command ---

// AddCmd adds a single record from flags.
type AddCmd struct {
	First  string `help:"First name (letters only)."`
	Last   string `help:"Last name."`
	Middle string `help:"Middle name."`
	Phone  string `help:"Phone number, 10 to 12 digits. Anything else is kept as a draft."`
}

// Run executes the add command. An invalid first name is asked for again
// only when stdin is a terminal.
func (c *AddCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	defer func() { _ = a.log.Sync() }()
	return c.run(os.Stdin, os.Stdout, a, tui.IsTerminal(os.Stdin))
}

// run adds the record and saves the book. With interactive set, the first-name
// repair loop prompts on in; otherwise an invalid first name fails at once.
func (c *AddCmd) run(in io.Reader, w io.Writer, a *app, interactive bool) error {
	opts := []contact.NameOption{contact.WithRetries(0)}
	if interactive {
		r := bufio.NewReader(in)
		opts = []contact.NameOption{
			contact.WithRetries(a.cfg.Name.Retries),
			contact.WithPrompter(contact.PromptFunc(func(msg string) (string, error) {
				_, _ = fmt.Fprintln(w, msg)
				_, _ = io.WriteString(w, "..>")
				return readLine(r)
			})),
			contact.WithRejectedFunc(func(v string) {
				_, _ = fmt.Fprintf(w, "Sorry, provided first name: '%s' is not valid\n", v)
			}),
		}
	}

	name, err := contact.NewName(c.First, c.Last, c.Middle, opts...)
	if err != nil {
		a.log.Info("record creation failed", zap.Error(err))
		return fmt.Errorf("add: %w", err)
	}

	var phone *contact.PhoneNumber
	if c.Phone != "" {
		p := contact.NewPhoneNumber(c.Phone)
		if p.IsDraft() {
			_, _ = fmt.Fprintf(w, "Please note, since provided phone number '%s' is not valid, it was only saved as draft, you may edit it later\n", p.Draft())
		}
		phone = &p
	}

	r := contact.NewRecord(name, phone)
	a.book.Add(r)
	if err := a.book.Save(a.cfg.Store.Path); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	_, _ = fmt.Fprintf(w, "The record [%s] was created and saved\n", r)
	return nil
}

// readLine reads one line without its line ending. A final unterminated line
// is returned before io.EOF.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// --- View and search commands ---

// ViewCmd lists every record.
type ViewCmd struct {
	Plain bool `help:"Force plain text output even if stdout is a TTY."`
}

// Run executes the view command.
func (c *ViewCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}
	defer func() { _ = a.log.Sync() }()
	return c.run(os.Stdout, a)
}

func (c *ViewCmd) run(w io.Writer, a *app) error {
	d := tui.NewDisplay(tui.DisplayOptions{Writer: w, ForcePlain: c.Plain})
	return d.Show(a.book.Records())
}

// SearchCmd lists records matching a query.
type SearchCmd struct {
	Query string `arg:"" help:"Case-sensitive part of a first, last or middle name."`
	Plain bool   `help:"Force plain text output even if stdout is a TTY."`
}

// Run executes the search command.
func (c *SearchCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer func() { _ = a.log.Sync() }()
	return c.run(os.Stdout, a)
}

func (c *SearchCmd) run(w io.Writer, a *app) error {
	matches, err := a.book.Find(c.Query)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	a.log.Debug("search", zap.String("query", c.Query), zap.Int("matches", len(matches)))
	d := tui.NewDisplay(tui.DisplayOptions{Writer: w, ForcePlain: c.Plain})
	return d.Show(matches)
}

// --- Browse command ---

// BrowseCmd opens the interactive browser.
type BrowseCmd struct{}

// Run executes the browse command. Without a terminal the records are
// printed as plain text.
func (c *BrowseCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	defer func() { _ = a.log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return tui.Browse(ctx, a.book.Records(), tui.DisplayOptions{Writer: os.Stdout, Input: os.Stdin})
}

// --- Init command ---

// InitCmd writes the starter config to the project config path.
type InitCmd struct {
	Force bool `help:"Overwrite an existing project config."`
}

// errConfigExists is returned by init when the project config is already present.
var errConfigExists = errors.New("init: config already exists (use --force to overwrite)")

// Run executes the init command. A config.yaml under
// ~/.config/contacts/templates replaces the built-in starter.
func (c *InitCmd) Run() error {
	templates := contacts.OverlayFS(os.ExpandEnv("$HOME/.config/contacts/templates"), contacts.Templates)
	return c.run(os.Stdout, templates, ".contacts/config.yaml")
}

// run copies the config template from templates to dst.
func (c *InitCmd) run(w io.Writer, templates fs.FS, dst string) error {
	if _, err := os.Stat(dst); err == nil && !c.Force {
		return errConfigExists
	}
	data, err := fs.ReadFile(templates, contacts.ConfigTemplate)
	if err != nil {
		return fmt.Errorf("init: reading template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", dst)
	return nil
}

const (
	exitSuccess = 0
	exitDomain  = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	// Domain failures: nothing matched, or no valid first name was given.
	if errors.Is(err, book.ErrNoMatches) || errors.Is(err, contact.ErrMissingRequiredField) {
		return exitDomain
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contacts"),
		kong.Description("An interactive contact-management assistant."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
