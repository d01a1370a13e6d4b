// Package present assembles a presentation session: configuration, logging,
// the loaded deck, its navigator and router, and the bookmark store. The
// terminal and desktop front ends both drive a Session.
package present

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/metcalfc/folio/internal/config"
	"github.com/metcalfc/folio/internal/deck"
	"github.com/metcalfc/folio/internal/logging"
	"github.com/metcalfc/folio/internal/nav"
	"github.com/metcalfc/folio/internal/source"
	"github.com/metcalfc/folio/internal/state"
	"github.com/metcalfc/folio/internal/ui"
)

// ErrEmptyDeck is returned when a deck has no slides.
var ErrEmptyDeck = errors.New("no slides found")

// Options are the command line inputs to Open. Zero values defer to the
// configuration file.
type Options struct {
	// Path is the deck file. Empty means read Markdown from Stdin.
	Path  string
	Stdin io.Reader

	ConfigPath string
	StateDir   string

	At     string
	Resume bool
	Fresh  bool
	Watch  bool

	Theme    string
	Scale    float64
	LogFile  string
	LogLevel string
}

// Session is an open presentation.
type Session struct {
	Path   string
	Title  string
	Config *config.Config
	Log    *zap.Logger
	Nav    *nav.Navigator
	Router *nav.Router
	Prefs  ui.Prefs

	store    *state.Store
	key      string
	closeLog func()
}

// Open loads configuration and the deck and positions the navigator.
func Open(opts Options) (*Session, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Path:     opts.Path,
		Config:   cfg,
		Log:      log,
		Prefs:    ui.NewPrefs(cfg),
		closeLog: closeLog,
	}

	doc, err := s.read(opts.Stdin)
	if err != nil {
		closeLog()
		return nil, err
	}
	d, err := s.build(doc)
	if err != nil {
		closeLog()
		return nil, err
	}
	s.Title = doc.Title

	s.Nav = nav.New(d,
		nav.WithAnnotations(nav.NewAnnotations(cfg.Annotations)),
		nav.WithLogger(log))
	s.Router = nav.NewRouter(s.Nav, cfg.History, log)

	log.Info("session opened",
		zap.String("deck", s.Path),
		zap.Int("sections", d.Len()),
		zap.Int("slides", d.Total()))

	s.openBookmarks(opts)

	if opts.At != "" && !s.Jump(opts.At) {
		log.Warn("ignored start position", zap.String("at", opts.At))
	}
	return s, nil
}

// LoadConfig resolves the configuration for opts: the config file, then
// FOLIO_ environment variables, then command line overrides.
func LoadConfig(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath(opts.Path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if opts.Theme != "" {
		cfg.Theme = opts.Theme
	}
	if opts.Scale != 0 {
		cfg.Scale = opts.Scale
	}
	if opts.LogFile != "" {
		cfg.Log.File = opts.LogFile
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Watch {
		cfg.Watch = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (s *Session) read(stdin io.Reader) (*source.Document, error) {
	if s.Path == "" {
		if stdin == nil {
			return nil, fmt.Errorf("no deck provided")
		}
		return source.ReadMarkdown(stdin)
	}
	return source.Load(s.Path)
}

func (s *Session) build(doc *source.Document) (*deck.Deck, error) {
	d, err := deck.Build(doc.Slides, source.Names(s.Config.Sections, doc.SectionNames))
	if err != nil {
		return nil, fmt.Errorf("build deck: %w", err)
	}
	if d.Empty() {
		return nil, ErrEmptyDeck
	}
	return d, nil
}

func (s *Session) openBookmarks(opts Options) {
	if s.Path == "" {
		return
	}
	store, err := state.NewStore(opts.StateDir)
	if err != nil {
		s.Log.Warn("bookmarks unavailable", zap.Error(err))
		return
	}
	key, err := state.Key(s.Path)
	if err != nil {
		s.Log.Warn("bookmarks unavailable", zap.Error(err))
		return
	}
	s.store, s.key = store, key

	switch {
	case opts.Fresh:
		if err := store.Clear(key); err != nil {
			s.Log.Warn("clear bookmark", zap.Error(err))
		}
	case opts.Resume:
		if frag, ok := store.Get(key); ok {
			s.Router.Route(frag)
			s.Log.Debug("resumed", zap.String("fragment", frag))
		}
	}
}

// Resolve names the slide for a fragment ("section-1-slide-0", with or
// without '#') or a 1-based global slide number. It reports false when the
// input names no slide in the deck.
func (s *Session) Resolve(input string) (deck.Position, bool) {
	input = strings.TrimSpace(input)
	d := s.Nav.Deck()
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > d.Total() {
			return deck.Position{}, false
		}
		return d.FromGlobal(n - 1), true
	}
	p, ok := nav.ParseFragment(input)
	if !ok || !d.Valid(p) {
		return deck.Position{}, false
	}
	return p, true
}

// Jump moves to the slide named by input, see Resolve. It reports whether
// input names a slide; jumping to the current slide is a successful no-op.
func (s *Session) Jump(input string) bool {
	p, ok := s.Resolve(input)
	if !ok {
		return false
	}
	if p != s.Nav.Position() {
		s.Nav.GoTo(p.Section, p.Slide)
	}
	return true
}

// Reload reads the deck again and swaps it into the navigator. On error
// the current deck stays in place.
func (s *Session) Reload() error {
	if s.Path == "" {
		return nil
	}
	doc, err := source.Load(s.Path)
	if err != nil {
		s.Log.Warn("reload failed", zap.Error(err))
		return err
	}
	d, err := s.build(doc)
	if err != nil {
		s.Log.Warn("reload failed", zap.Error(err))
		return err
	}
	s.Title = doc.Title
	s.Nav.Reload(d)
	return nil
}

// Watch blocks, calling onChange when the deck file changes, until ctx is
// cancelled. It returns immediately for decks read from stdin.
func (s *Session) Watch(ctx context.Context, onChange func()) error {
	if s.Path == "" {
		return nil
	}
	return source.Watch(ctx, s.Path, source.DefaultDebounce, s.Log, onChange)
}

// Save records the current position as the deck's bookmark.
func (s *Session) Save() error {
	if s.store == nil {
		return nil
	}
	return s.store.Set(s.key, nav.Fragment(s.Nav.Position()))
}

// Close saves the bookmark and flushes the log.
func (s *Session) Close() error {
	err := s.Save()
	if err != nil {
		s.Log.Warn("save bookmark", zap.Error(err))
	}
	s.Log.Info("session closed", zap.String("fragment", nav.Fragment(s.Nav.Position())))
	s.closeLog()
	return err
}
