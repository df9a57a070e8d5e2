// Package editor applies a set of tag edits to music files.
package editor

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/mutatag/internal/errmsg"
	"github.com/llehouerou/mutatag/internal/tags"
)

// TagEdit is one queued tag operation. An empty Value means "no value": a
// clear when setting, a no-op when adding.
type TagEdit struct {
	Name  string
	Value string
}

// Intent is the full set of edits requested on the command line.
type Intent struct {
	Set        []TagEdit
	Add        []TagEdit
	ForceWrite bool
}

// Modifies reports whether files must be rewritten rather than displayed.
func (i Intent) Modifies() bool {
	return i.ForceWrite || len(i.Set) > 0 || len(i.Add) > 0
}

// InvalidTagError reports a name that the file's format cannot store.
type InvalidTagError struct {
	Path   string
	Format tags.Format
	Name   string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("Invalid tag for %s file: %s", e.Format, e.Name)
}

// Opener opens the tag container of a file.
type Opener func(path string) (tags.Container, error)

// Editor applies an Intent to files one at a time.
type Editor struct {
	open   Opener
	stdout io.Writer
	log    logrus.FieldLogger
}

// New creates an Editor. Dumps of unmodified files go to stdout.
func New(open Opener, stdout io.Writer, log logrus.FieldLogger) *Editor {
	return &Editor{
		open:   open,
		stdout: stdout,
		log:    log,
	}
}

// Run handles every path in order and stops at the first error; files after
// the failing one are left untouched.
func (e *Editor) Run(paths []string, intent Intent) error {
	for _, path := range paths {
		if err := e.HandleFile(path, intent); err != nil {
			return err
		}
	}
	return nil
}

// HandleFile applies intent to a single file. Without any edit or forced
// write the tags are printed and the file is not written.
func (e *Editor) HandleFile(path string, intent Intent) error {
	c, err := e.open(path)
	if err != nil {
		return errmsg.Wrap(errmsg.OpTagsOpen, path, err)
	}
	log := e.log.WithFields(logrus.Fields{
		"file":   c.Path(),
		"format": c.Format(),
	})
	log.Debug("opened tags")

	modified := intent.Modifies()

	for _, edit := range intent.Set {
		if !c.Valid(edit.Name) {
			return &InvalidTagError{Path: c.Path(), Format: c.Format(), Name: edit.Name}
		}
		if edit.Value == "" {
			c.Set(edit.Name, nil)
			continue
		}
		c.Set(edit.Name, []string{edit.Value})
	}

	for _, edit := range intent.Add {
		if !c.Valid(edit.Name) {
			return &InvalidTagError{Path: c.Path(), Format: c.Format(), Name: edit.Name}
		}
		if edit.Value == "" {
			continue
		}
		c.Append(edit.Name, edit.Value)
	}

	if !modified {
		_, err := fmt.Fprintln(e.stdout, c.Pprint())
		return err
	}

	if !c.Constrained() {
		c.Normalize()
	}

	if err := c.Save(); err != nil {
		return errmsg.Wrap(errmsg.OpTagsSave, path, err)
	}

	if info, err := os.Stat(c.Path()); err == nil {
		log = log.WithField("size", humanize.Bytes(uint64(info.Size())))
	}
	log.Debug("saved tags")
	return nil
}
