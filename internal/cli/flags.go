package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/llehouerou/mutatag/internal/editor"
)

// shortcut binds a friendly option to a canonical tag name.
type shortcut struct {
	long  string
	short string
	tag   string
}

var shortcuts = []shortcut{
	{long: "artist", short: "a", tag: "ARTIST"},
	{long: "album-artist", tag: "ALBUMARTIST"},
	{long: "album", short: "A", tag: "ALBUM"},
	{long: "title", short: "t", tag: "TITLE"},
	{long: "track", short: "n", tag: "TRACKNUMBER"},
	{long: "track-total", short: "N", tag: "TRACKTOTAL"},
	{long: "disc", short: "d", tag: "DISCNUMBER"},
	{long: "disc-total", short: "D", tag: "DISCTOTAL"},
	{long: "genre", short: "G", tag: "GENRE"},
	{long: "date", tag: "DATE"},
}

// tagValue is a repeatable flag that appends (tag, value) to a shared edit
// list each time it is parsed, so that edits keep their command-line order
// across different flags.
type tagValue struct {
	tag   string
	edits *[]editor.TagEdit
}

var _ pflag.Value = (*tagValue)(nil)

func (v *tagValue) String() string { return "" }

func (v *tagValue) Set(s string) error {
	*v.edits = append(*v.edits, editor.TagEdit{Name: v.tag, Value: s})
	return nil
}

func (v *tagValue) Type() string { return "string" }

// splitTagValue splits a NAME:VALUE argument on its first colon.
func splitTagValue(flag, s string) (editor.TagEdit, error) {
	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return editor.TagEdit{}, fmt.Errorf("invalid argument %q for --%s: expected TAGNAME:VALUE", s, flag)
	}
	return editor.TagEdit{Name: name, Value: value}, nil
}
