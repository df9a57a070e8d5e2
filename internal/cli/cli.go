// Package cli implements the mutatag command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mutatag/internal/config"
	"github.com/llehouerou/mutatag/internal/editor"
	"github.com/llehouerou/mutatag/internal/tags"
)

// Process exit statuses.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const (
	helpProlog = "Sets or writes audio metadata tags. " +
		"When run without any optional parameters, prints all tags."

	helpEpilog = "Even though this program supports MP3 and M4A files, the tag names used in " +
		"options like --set-tag are always based on VORBISCOMMENT and then converted to the " +
		`appropriate ID3/iTunes tag. Don't specify ID3 tags like "TPE2" directly.`
)

// UsageError is a malformed command line. It is reported with the usage text.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

type options struct {
	set       []editor.TagEdit
	setTags   []string
	addTags   []string
	clearTags []string
	write     bool
	verbose   bool
}

// intent assembles the edit intent. Shortcut edits come first, in the order
// they were given, followed by every --set-tag then every --clear-tag.
func (o *options) intent() (editor.Intent, error) {
	intent := editor.Intent{
		Set:        slices.Clone(o.set),
		ForceWrite: o.write,
	}

	for _, s := range o.setTags {
		edit, err := splitTagValue("set-tag", s)
		if err != nil {
			return editor.Intent{}, err
		}
		intent.Set = append(intent.Set, edit)
	}

	for _, name := range o.clearTags {
		intent.Set = append(intent.Set, editor.TagEdit{Name: name})
	}

	for _, s := range o.addTags {
		edit, err := splitTagValue("add-tag", s)
		if err != nil {
			return editor.Intent{}, err
		}
		if edit.Value == "" {
			continue
		}
		intent.Add = append(intent.Add, edit)
	}

	return intent, nil
}

type runFunc func(files []string, intent editor.Intent, verbose bool) error

func newCommand(run runFunc) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "mutatag [flags] file...",
		Short: helpProlog,
		Long:  helpProlog + "\n\n" + helpEpilog,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &UsageError{Err: errors.New("requires at least one file")}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			intent, err := opts.intent()
			if err != nil {
				return &UsageError{Err: err}
			}
			return run(args, intent, opts.verbose)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	flags := cmd.Flags()
	for _, s := range shortcuts {
		v := &tagValue{tag: s.tag, edits: &opts.set}
		flags.VarP(v, s.long, s.short, fmt.Sprintf("Set the tag for `%s`", s.tag))
	}
	flags.StringArrayVar(&opts.setTags, "set-tag", nil,
		"Sets the value of any arbitrary VORBISCOMMENT tag (`TAGNAME:VALUE`). "+
			"If the tag already exists, its value is overwritten.")
	flags.StringArrayVar(&opts.addTags, "add-tag", nil,
		"Sets the value of any arbitrary VORBISCOMMENT tag (`TAGNAME:VALUE`). "+
			"If the tag already exists, a second copy of the tag name is added with the specified value.")
	flags.StringArrayVar(&opts.clearTags, "clear-tag", nil,
		"Clears the value of any existing tag matching the specified VORBISCOMMENT name (`TAGNAME`).")
	flags.BoolVar(&opts.write, "write", false,
		"Forces a rewrite of all tags even if nothing changed. This results in all tag names "+
			"being normalized to UPPERCASE and sorted lexicographically.")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func newLogger(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

// Run executes mutatag with args (without the program name) and returns the
// process exit status.
func Run(args []string, stdout, stderr io.Writer, cfg *config.Config) int {
	log := newLogger(stderr, cfg.GetLogLevel())
	opts := tags.Options{ID3Version: cfg.GetID3Version()}

	cmd := newCommand(func(files []string, intent editor.Intent, verbose bool) error {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		log.WithFields(logrus.Fields{
			"files": files,
			"set":   intent.Set,
			"add":   intent.Add,
			"write": intent.ForceWrite,
		}).Debug("parsed arguments")

		open := func(path string) (tags.Container, error) {
			return tags.Open(path, opts)
		}
		return editor.New(open, stdout, log).Run(files, intent)
	})

	// cobra falls back to os.Args on a nil slice
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return report(cmd, stderr, log, cmd.Execute())
}

func report(cmd *cobra.Command, stderr io.Writer, log logrus.FieldLogger, err error) int {
	var usageErr *UsageError
	var invalidErr *editor.InvalidTagError

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usageErr):
		fmt.Fprintf(stderr, "Error: %v\n", usageErr)
		fmt.Fprint(stderr, cmd.UsageString())
		return ExitUsage
	case errors.As(err, &invalidErr):
		fmt.Fprintf(stderr, "ERROR: %v\n", invalidErr)
		return ExitError
	default:
		log.Error(err)
		return ExitError
	}
}
