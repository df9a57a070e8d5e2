package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// DefaultID3Version is the ID3v2 minor version written to MP3 files.
const DefaultID3Version = 4

// Options controls how containers are opened and saved.
type Options struct {
	// ID3Version is the ID3v2 minor version written to MP3 files (3 or 4).
	ID3Version int
}

func (o Options) id3Version() byte {
	if o.ID3Version == 3 {
		return 3
	}
	return DefaultID3Version
}

// UnsupportedFormatError is returned by Open for files that are not one of
// the supported container formats.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Path)
}

// Open detects the format of path and opens its tags.
func Open(path string, opts Options) (Container, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatFLAC:
		return openFLAC(path)
	case FormatOgg:
		return openOgg(path)
	case FormatMP3:
		return openMP3(path, opts)
	case FormatM4A:
		return openM4A(path)
	}
	return nil, &UnsupportedFormatError{Path: path}
}

// Detect identifies the container format from the file content, falling back
// to the extension when the content is not recognized (an MP3 without any
// tag, for instance).
func Detect(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	extFormat, extOK := formatForExt(strings.ToLower(filepath.Ext(path)))

	if _, fileType, err := tag.Identify(f); err == nil {
		switch fileType {
		case tag.FLAC:
			return FormatFLAC, nil
		case tag.OGG:
			return FormatOgg, nil
		case tag.MP3:
			// Any file starting with an ID3v2 header looks like MP3; some
			// tools prepend one to FLAC files.
			if extOK && extFormat == FormatFLAC {
				return FormatFLAC, nil
			}
			return FormatMP3, nil
		case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
			return FormatM4A, nil
		}
	}

	if extOK {
		return extFormat, nil
	}
	return "", &UnsupportedFormatError{Path: path}
}
