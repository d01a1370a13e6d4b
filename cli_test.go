package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/folio/internal/deck"
	"github.com/metcalfc/folio/internal/present"
)

const testDeck = `# Intro
Hello there.

## Agenda
Things to cover.

# Work
<!-- widget: grades -->
Grade boundaries.

## Scorer
<!-- widget: scorer -->
Definitions.

## Wrap
Bye for now.
`

func openSession(t *testing.T, body string) (*present.Session, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	path := filepath.Join(dir, "talk.md")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := present.Open(present.Options{Path: path, StateDir: filepath.Join(dir, "state")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

const cliDeck = "# One\nfirst\n\n## Two\nsecond\n\n# Three\nthird\n"

type recorder struct {
	calls    int
	st       startup
	total    int
	position deck.Position
	dark     bool
	watch    bool
}

func (r *recorder) run(s *present.Session, st startup) error {
	r.calls++
	r.st = st
	r.total = s.Nav.Deck().Total()
	r.position = s.Nav.Position()
	r.dark = s.Prefs.Dark
	r.watch = s.Config.Watch
	return nil
}

func execute(t *testing.T, stdin string, terminal bool, args ...string) (*recorder, string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	rec := &recorder{}
	cmd := newRootCmd(rec.run, strings.NewReader(stdin), func() bool { return terminal })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return rec, out.String(), err
}

func writeDeck(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.md")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRootFile(t *testing.T) {
	path := writeDeck(t, cliDeck)

	rec, _, err := execute(t, "", true, "--toc", "--at", "3", "--theme", "light", "--watch", path)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.calls)
	assert.True(t, rec.st.toc)
	assert.Equal(t, 3, rec.total)
	assert.Equal(t, deck.Position{Section: 1, Slide: 0}, rec.position)
	assert.False(t, rec.dark)
	assert.True(t, rec.watch)
}

func TestRootStdin(t *testing.T) {
	rec, _, err := execute(t, cliDeck, false, "--watch", "--resume")
	require.NoError(t, err)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, 3, rec.total)
	assert.False(t, rec.watch, "watch is meaningless for stdin")
}

func TestRootNoInput(t *testing.T) {
	rec, _, err := execute(t, "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No input provided")
	assert.Zero(t, rec.calls)
}

func TestRootEmptyDeck(t *testing.T) {
	path := writeDeck(t, "\n\n")

	rec, _, err := execute(t, "", true, path)
	assert.ErrorIs(t, err, present.ErrEmptyDeck)
	assert.Zero(t, rec.calls)
}

func TestRootMissingFile(t *testing.T) {
	_, _, err := execute(t, "", true, filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestRootResumeFreshExclusive(t *testing.T) {
	path := writeDeck(t, cliDeck)

	rec, _, err := execute(t, "", true, "--resume", "--fresh", path)
	assert.Error(t, err)
	assert.Zero(t, rec.calls)
}

func TestRootTooManyArgs(t *testing.T) {
	_, _, err := execute(t, "", true, "a.md", "b.md")
	assert.Error(t, err)
}

func TestRootVersion(t *testing.T) {
	_, out, err := execute(t, "", true, "--version")
	require.NoError(t, err)
	assert.Equal(t, "folio dev (commit: none, built: unknown)\n", out)
}

func TestRootResume(t *testing.T) {
	path := writeDeck(t, cliDeck)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	run := func(args ...string) *recorder {
		rec := &recorder{}
		cmd := newRootCmd(rec.run, strings.NewReader(""), func() bool { return true })
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
		return rec
	}

	// Closing the session saves the position it was left at.
	run("--at", "section-1-slide-0", path)

	assert.Equal(t, deck.Position{Section: 1, Slide: 0}, run("--resume", path).position)
	assert.Equal(t, deck.Position{}, run(path).position)
	assert.Equal(t, deck.Position{}, run("--fresh", path).position)
}

func TestRootPrintConfig(t *testing.T) {
	path := writeDeck(t, cliDeck)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "folio.yaml"), []byte("sections: [Opening]\n"), 0644))

	rec, out, err := execute(t, "", true, "--print-config", "--theme", "light", path)
	require.NoError(t, err)
	assert.Zero(t, rec.calls)
	assert.Contains(t, out, "theme: light")
	assert.Contains(t, out, "- Opening")
}
