package tags

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
	"github.com/dustin/go-humanize"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/go-flac"
)

// pictureLine describes one embedded picture in a dump.
func pictureLine(mimeType, description string, size int) string {
	line := fmt.Sprintf("Picture: %s, %s", mimeType, humanize.Bytes(uint64(size)))
	if description != "" {
		line += " (" + description + ")"
	}
	return line
}

// flacPictureLines lists every PICTURE block of a FLAC file.
func flacPictureLines(blocks []*flac.MetaDataBlock) []string {
	var lines []string
	for _, meta := range blocks {
		if meta.Type != flac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil {
			continue
		}
		lines = append(lines, pictureLine(pic.MIME, pic.Description, len(pic.ImageData)))
	}
	return lines
}

// embeddedPictureLines describes the front picture of a non-FLAC file, if any.
// Read failures are not reported: a dump without the picture line is still
// useful.
func embeddedPictureLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil
	}

	pic := m.Picture()
	if pic == nil {
		return nil
	}
	return []string{pictureLine(pic.MIMEType, pic.Description, len(pic.Data))}
}
