package tags

import (
	"slices"
	"strings"
)

// fixedTags holds tags for formats with a fixed vocabulary of names (ID3v2
// and iTunes atoms). Names are stored lowercase.
//
// It implements the name-addressed half of Container for MP3 and M4A files.
type fixedTags struct {
	vocab  map[string]bool
	values map[string][]string
}

func newFixedTags(names []string) fixedTags {
	vocab := make(map[string]bool, len(names))
	for _, n := range names {
		vocab[n] = true
	}
	return fixedTags{
		vocab:  vocab,
		values: make(map[string][]string),
	}
}

// Constrained is always true for fixed vocabularies.
func (f *fixedTags) Constrained() bool { return true }

// Valid reports whether the lowercase form of name is in the vocabulary.
func (f *fixedTags) Valid(name string) bool {
	return f.vocab[strings.ToLower(name)]
}

// Get returns the values stored under name.
func (f *fixedTags) Get(name string) []string {
	return f.values[strings.ToLower(name)]
}

// Set replaces the values of name. Names outside the vocabulary are ignored.
func (f *fixedTags) Set(name string, values []string) {
	key := strings.ToLower(name)
	if !f.vocab[key] {
		return
	}
	if len(values) == 0 {
		delete(f.values, key)
		return
	}
	f.values[key] = slices.Clone(values)
}

// Append adds value to the values of name.
func (f *fixedTags) Append(name, value string) {
	key := strings.ToLower(name)
	if !f.vocab[key] {
		return
	}
	f.values[key] = append(f.values[key], value)
}

// Names returns the stored names in sorted order.
func (f *fixedTags) Names() []string {
	names := make([]string, 0, len(f.values))
	for k := range f.values {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Normalize is a no-op: fixed vocabularies keep their native identifiers.
func (f *fixedTags) Normalize() {}

// first returns the first value of name, or "".
func (f *fixedTags) first(name string) string {
	if v := f.values[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// lines renders name=value lines sorted by name.
func (f *fixedTags) lines() []string {
	var out []string
	for _, name := range f.Names() {
		for _, v := range f.values[name] {
			out = append(out, name+"="+v)
		}
	}
	return out
}
