package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metcalfc/folio/internal/present"
	"github.com/metcalfc/folio/internal/source"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// startup carries front-end options that are not part of the session.
type startup struct {
	toc bool
}

// runFunc drives an open session until the viewer quits.
type runFunc func(s *present.Session, st startup) error

func newRootCmd(run runFunc, stdin io.Reader, stdinIsTerminal func() bool) *cobra.Command {
	var (
		opts        present.Options
		st          startup
		printConfig bool
	)

	cmd := &cobra.Command{
		Use:   "folio [flags] [deck]",
		Short: "Present slide decks in the terminal",
		Long: `Folio presents Markdown, HTML and EPUB slide decks with section
navigation, a table of contents, full-text search and address fragments
like section-1-slide-2.

Supported formats: ` + strings.Join(source.SupportedFormats(), ", ") + `.
Unknown extensions are read as Markdown. With no deck, Markdown is read
from stdin.`,
		Example: `  folio talk.md                       Present a Markdown deck
  folio --at section-2-slide-0 talk.md Start at a slide
  folio --resume --watch talk.md      Resume and reload on save
  cat talk.md | folio                 Read from stdin`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printConfig {
				if len(args) == 1 {
					opts.Path = args[0]
				}
				cfg, err := present.LoadConfig(opts)
				if err != nil {
					return err
				}
				data, err := cfg.YAML()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if len(args) == 1 {
				opts.Path = args[0]
			} else {
				if stdinIsTerminal() {
					return errors.New("No input provided. Provide a deck file or pipe Markdown to stdin.")
				}
				opts.Stdin = stdin
				opts.Resume, opts.Fresh, opts.Watch = false, false, false
			}

			s, err := present.Open(opts)
			if err != nil {
				return err
			}
			runErr := run(s, st)
			if err := s.Close(); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
	cmd.SetVersionTemplate("folio {{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&opts.ConfigPath, "config", "", "config file (default: folio.yaml next to the deck)")
	f.StringVar(&opts.At, "at", "", "start at a fragment (section-N-slide-M) or slide number")
	f.BoolVar(&opts.Resume, "resume", false, "resume at the saved position for this deck")
	f.BoolVar(&opts.Fresh, "fresh", false, "forget the saved position for this deck")
	f.BoolVar(&st.toc, "toc", false, "show the table of contents at startup")
	f.BoolVar(&opts.Watch, "watch", false, "reload the deck when the file changes")
	f.StringVar(&opts.Theme, "theme", "", "color theme: dark or light")
	f.Float64Var(&opts.Scale, "scale", 0, "text scale between 0.7 and 1.5")
	f.StringVar(&opts.LogFile, "log-file", "", "write logs to this file")
	f.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&printConfig, "print-config", false, "print the effective configuration as YAML and exit")
	cmd.MarkFlagsMutuallyExclusive("resume", "fresh")

	return cmd
}

func stdinIsTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return true
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func main() {
	cmd := newRootCmd(runPresenter, os.Stdin, stdinIsTerminal)
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, present.ErrEmptyDeck) {
			fmt.Fprintln(os.Stderr, "Error: No slides found.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
