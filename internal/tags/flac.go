package tags

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// flacVendor is written when a file has no vorbis comment block yet.
const flacVendor = "mutatag"

// flacContainer is a FLAC file's vorbis comment block.
type flacContainer struct {
	vorbisComments
	path   string
	file   *flac.File
	vendor string
}

var _ Container = (*flacContainer)(nil)

// openFLAC parses a FLAC file and its vorbis comments.
func openFLAC(path string) (*flacContainer, error) {
	f, _, err := parseFLACWithID3Support(path)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	c := &flacContainer{
		path:   path,
		file:   f,
		vendor: flacVendor,
	}

	for _, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, fmt.Errorf("parse vorbis comment: %w", err)
		}
		c.vendor = cmts.Vendor
		for _, raw := range cmts.Comments {
			if cmt, ok := parseComment(raw); ok {
				c.entries = append(c.entries, cmt)
			}
		}
		break
	}

	return c, nil
}

func (c *flacContainer) Path() string   { return c.path }
func (c *flacContainer) Format() Format { return FormatFLAC }

// Pprint returns the stream header, the comments in storage order and a line
// per embedded picture.
func (c *flacContainer) Pprint() string {
	return dump(c.path, FormatFLAC, c.lines(), flacPictureLines(c.file.Meta))
}

// Save replaces the vorbis comment block and rewrites the file. A prepended
// ID3v2 header is dropped in the process.
func (c *flacContainer) Save() error {
	raw := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		raw = append(raw, e.key+"="+e.value)
	}
	cmts := &flacvorbis.MetaDataBlockVorbisComment{
		Vendor:   c.vendor,
		Comments: raw,
	}
	block := cmts.Marshal()

	cmtIdx := -1
	for i, meta := range c.file.Meta {
		if meta.Type == flac.VorbisComment {
			cmtIdx = i
			break
		}
	}
	if cmtIdx >= 0 {
		c.file.Meta[cmtIdx] = &block
	} else {
		c.file.Meta = append(c.file.Meta, &block)
	}

	if err := c.file.Save(c.path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

// parseFLACWithID3Support parses a FLAC file, handling ID3v2 headers if present.
// Returns the parsed FLAC file, the size of any ID3v2 header found, and any error.
func parseFLACWithID3Support(path string) (*flac.File, int64, error) {
	// First try normal parsing
	f, err := flac.ParseFile(path)
	if err == nil {
		return f, 0, nil
	}

	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, 0, err // Return original error
	}
	defer file.Close()

	header := make([]byte, 10)
	if _, readErr := io.ReadFull(file, header); readErr != nil {
		return nil, 0, err
	}

	id3Size := id3v2Size(header)
	if id3Size == 0 {
		return nil, 0, err // Not an ID3v2 header, return original error
	}

	// Verify FLAC magic after ID3v2 header
	if _, seekErr := file.Seek(id3Size, io.SeekStart); seekErr != nil {
		return nil, 0, err
	}
	flacMagic := make([]byte, 4)
	if _, readErr := io.ReadFull(file, flacMagic); readErr != nil {
		return nil, 0, err
	}
	if !bytes.Equal(flacMagic, []byte("fLaC")) {
		return nil, 0, errors.New("no fLaC marker found after ID3v2 header")
	}

	if _, seekErr := file.Seek(id3Size, io.SeekStart); seekErr != nil {
		return nil, 0, seekErr
	}
	f, err = flac.ParseBytes(bufio.NewReader(file))
	if err != nil {
		return nil, 0, err
	}
	return f, id3Size, nil
}
