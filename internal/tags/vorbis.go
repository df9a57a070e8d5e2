package tags

import (
	"slices"
	"strings"
)

// comment is a single KEY=value Vorbis comment.
type comment struct {
	key   string
	value string
}

// vorbisComments is an ordered list of Vorbis comments. Lookups ignore case,
// as field names in Vorbis comments are case-insensitive.
//
// It implements the name-addressed half of Container for FLAC and Ogg files.
type vorbisComments struct {
	entries []comment
}

// Constrained is always false: Vorbis comments have no fixed vocabulary.
func (c *vorbisComments) Constrained() bool { return false }

// Valid reports whether name is a legal Vorbis field name: at least one
// printable ASCII byte in 0x20-0x7D, with no '='.
func (c *vorbisComments) Valid(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if b := name[i]; b < 0x20 || b > 0x7d || b == '=' {
			return false
		}
	}
	return true
}

// Get returns the values of every comment whose key matches name.
func (c *vorbisComments) Get(name string) []string {
	var values []string
	for _, e := range c.entries {
		if strings.EqualFold(e.key, name) {
			values = append(values, e.value)
		}
	}
	return values
}

// Set removes every comment matching name and appends one comment per value.
func (c *vorbisComments) Set(name string, values []string) {
	c.entries = slices.DeleteFunc(c.entries, func(e comment) bool {
		return strings.EqualFold(e.key, name)
	})
	for _, v := range values {
		c.entries = append(c.entries, comment{key: name, value: v})
	}
}

// Append adds a comment after all existing ones.
func (c *vorbisComments) Append(name, value string) {
	c.entries = append(c.entries, comment{key: name, value: value})
}

// Names returns the distinct keys in order of first appearance.
func (c *vorbisComments) Names() []string {
	var names []string
	seen := make(map[string]bool)
	for _, e := range c.entries {
		if !seen[e.key] {
			seen[e.key] = true
			names = append(names, e.key)
		}
	}
	return names
}

// Normalize rewrites every key to uppercase and sorts the comments by key.
//
// Keys are visited in byte-wise order and assigned to their uppercase form,
// so when two keys differ only in case the later one ("artist" after
// "ARTIST") replaces the values of the earlier one.
func (c *vorbisComments) Normalize() {
	byKey := make(map[string][]string)
	for _, e := range c.entries {
		byKey[e.key] = append(byKey[e.key], e.value)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	merged := make(map[string][]string, len(keys))
	for _, k := range keys {
		merged[strings.ToUpper(k)] = byKey[k]
	}

	upper := make([]string, 0, len(merged))
	for k := range merged {
		upper = append(upper, k)
	}
	slices.Sort(upper)

	entries := make([]comment, 0, len(c.entries))
	for _, k := range upper {
		for _, v := range merged[k] {
			entries = append(entries, comment{key: k, value: v})
		}
	}
	c.entries = entries
}

// lines renders the comments as KEY=value lines in storage order.
func (c *vorbisComments) lines() []string {
	out := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.key+"="+e.value)
	}
	return out
}

// asMap groups the comments by key, preserving value order.
func (c *vorbisComments) asMap() map[string][]string {
	m := make(map[string][]string)
	for _, e := range c.entries {
		m[e.key] = append(m[e.key], e.value)
	}
	return m
}

// parseComment splits a raw KEY=value comment. Comments without '=' are
// returned with ok=false.
func parseComment(raw string) (comment, bool) {
	idx := strings.Index(raw, "=")
	if idx <= 0 {
		return comment{}, false
	}
	return comment{key: raw[:idx], value: raw[idx+1:]}, true
}
