package tags

import (
	"fmt"
	"slices"

	"go.senan.xyz/taglib"
)

// oggContainer is the comment header of an Ogg Vorbis or Opus stream,
// accessed through TagLib's property map.
type oggContainer struct {
	vorbisComments
	path string
}

var _ Container = (*oggContainer)(nil)

// openOgg reads the comment header of an Ogg file. TagLib reports keys in
// uppercase; they are loaded in sorted order.
func openOgg(path string) (*oggContainer, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	c := &oggContainer{path: path}
	for _, k := range keys {
		for _, v := range raw[k] {
			c.entries = append(c.entries, comment{key: k, value: v})
		}
	}
	return c, nil
}

func (c *oggContainer) Path() string   { return c.path }
func (c *oggContainer) Format() Format { return FormatOgg }

func (c *oggContainer) Pprint() string {
	return dump(c.path, FormatOgg, c.lines(), embeddedPictureLines(c.path))
}

// Save writes the full comment set; names no longer present are removed.
func (c *oggContainer) Save() error {
	if err := taglib.WriteTags(c.path, c.asMap(), taglib.Clear); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}
