// Package tags provides a uniform, name-addressed view over the metadata
// stored in music files. It covers FLAC and Ogg (free-form Vorbis comments)
// and MP3 and M4A (fixed vocabularies mapped onto ID3v2 frames and iTunes atoms).
package tags

// File extensions supported by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// Format identifies the tag container family of a file.
type Format string

// Supported container formats.
const (
	FormatFLAC Format = "FLAC"
	FormatOgg  Format = "Ogg"
	FormatMP3  Format = "MP3"
	FormatM4A  Format = "M4A"
)

// MIME returns the MIME type used in pretty-print headers.
func (f Format) MIME() string {
	switch f {
	case FormatFLAC:
		return "audio/flac"
	case FormatOgg:
		return "audio/ogg"
	case FormatMP3:
		return "audio/mp3"
	case FormatM4A:
		return "audio/mp4"
	}
	return "application/octet-stream"
}

// Container is an opened tag set of a single file.
//
// Names are matched case-insensitively. Free-form containers store names as
// given and accept any legal Vorbis field name. Constrained containers only
// accept the names of their vocabulary and store them lowercase.
type Container interface {
	// Path returns the file the container was opened from.
	Path() string

	// Format returns the container family.
	Format() Format

	// Constrained reports whether the container has a fixed vocabulary.
	Constrained() bool

	// Valid reports whether name can be stored in this container.
	Valid(name string) bool

	// Get returns the values stored under name, or nil.
	Get(name string) []string

	// Set replaces all values of name. An empty values slice removes the name.
	Set(name string, values []string)

	// Append adds value after the existing values of name.
	Append(name, value string)

	// Names returns the stored names in storage order.
	Names() []string

	// Normalize uppercases and sorts all names. It is a no-op for
	// constrained containers.
	Normalize()

	// Pprint returns a human-readable dump of stream info and tags.
	Pprint() string

	// Save writes the container back to its file.
	Save() error
}

// formatForExt maps a lowercase extension to its container format.
func formatForExt(ext string) (Format, bool) {
	switch ext {
	case ExtFLAC:
		return FormatFLAC, true
	case ExtOGG, ExtOGA, ExtOPUS:
		return FormatOgg, true
	case ExtMP3:
		return FormatMP3, true
	case ExtM4A, ExtMP4:
		return FormatM4A, true
	}
	return "", false
}
