// Package cli implements the corepassmd command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/corepassmd/internal/config"
	"github.com/dgallion1/corepassmd/internal/coreid"
)

// ErrInvalid is returned when validate finds an invalid or unrecognized id.
var ErrInvalid = errors.New("invalid identifiers")

type rootFlags struct {
	cfgFile        string
	timeout        time.Duration
	noIcanCheck    bool
	noSkipOverride bool
	negation       string
	verbose        bool
}

// NewRootCmd builds the command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:           "corepassmd",
		Short:         "corepassmd - rewrite CorePass identity references in documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&f.cfgFile, "config", "", "YAML options file (ican_check, skip_override, negation)")
	pf.DurationVar(&f.timeout, "timeout", 30*time.Second, "Give up after this long")
	pf.BoolVar(&f.noIcanCheck, "no-ican-check", false, "Link fixed-form ids without checking their checksum")
	pf.BoolVar(&f.noSkipOverride, "no-skip-override", false, "Ignore the ! prefix that skips the checksum check")
	pf.StringVar(&f.negation, "negation", "", "Invalid id marker: strikethrough or glyph")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Log per-file details to stderr")

	root.AddCommand(newRenderCmd(f))
	root.AddCommand(newValidateCmd(f))
	return root
}

// Execute runs the command line with args.
func Execute(args []string, stdout, stderr io.Writer) error {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil && !errors.Is(err, ErrInvalid) {
		fmt.Fprintln(stderr, "error:", err)
	}
	return err
}

// options resolves rewrite options: defaults, then the options file, then
// explicit flags.
func (f *rootFlags) options(cmd *cobra.Command) (coreid.Options, error) {
	opts := coreid.DefaultOptions()
	if f.cfgFile != "" {
		var err error
		if opts, err = config.LoadOptionsFile(f.cfgFile, opts); err != nil {
			return opts, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("no-ican-check") {
		opts.EnableValidityCheck = !f.noIcanCheck
	}
	if flags.Changed("no-skip-override") {
		opts.EnableSkipOverride = !f.noSkipOverride
	}
	if flags.Changed("negation") {
		style, err := coreid.ParseNegationStyle(f.negation)
		if err != nil {
			return opts, err
		}
		opts.Negation = style
	}
	return opts, nil
}

func (f *rootFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
