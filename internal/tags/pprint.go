package tags

import "strings"

// fallbackHeader is used when stream properties cannot be read.
func fallbackHeader(f Format) string {
	return string(f) + " (" + f.MIME() + ")"
}

// dump renders the common pretty-print layout: a stream header line, one
// line per tag value, then one line per embedded picture.
func dump(path string, f Format, tagLines, pictures []string) string {
	header := fallbackHeader(f)
	if info, err := ReadAudioInfo(path, f); err == nil {
		header = info.Header(f)
	}

	lines := make([]string, 0, len(tagLines)+len(pictures)+1)
	lines = append(lines, header)
	lines = append(lines, tagLines...)
	lines = append(lines, pictures...)
	return strings.Join(lines, "\n")
}
