package tags

import (
	"strings"
	"testing"

	"github.com/Sorrow446/go-mp4tag"
	"go.senan.xyz/taglib"
)

func TestM4A_Vocabulary(t *testing.T) {
	c := mustOpen(t, createTestM4A(t, t.TempDir()), Options{})

	if c.Format() != FormatM4A {
		t.Fatalf("Format() = %q, want %q", c.Format(), FormatM4A)
	}
	for _, name := range []string{
		"title", "ALBUMARTIST", "tracknumber", "TRACKTOTAL", "discnumber", "disctotal", "genre", "date",
		"comment", "description", "grouping", "bpm", "musicbrainz_trackid", "musicbrainz_albumstatus", "musicip_puid",
	} {
		if !c.Valid(name) {
			t.Errorf("Valid(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"©nam", "barcode", "foo"} {
		if c.Valid(name) {
			t.Errorf("Valid(%q) = true, want false", name)
		}
	}
}

func TestM4A_SaveAndReopen(t *testing.T) {
	path := createTestM4A(t, t.TempDir())
	c := mustOpen(t, path, Options{})

	c.Set("title", []string{"Test Title"})
	c.Set("ARTIST", []string{"Test Artist"})
	c.Set("albumartist", []string{"Album Artist"})
	c.Set("genre", []string{"Jazz"})
	c.Set("tracknumber", []string{"4"})
	c.Set("tracktotal", []string{"10"})
	c.Set("discnumber", []string{"1"})
	mustSave(t, c)

	got := mustOpen(t, path, Options{})
	assertValues(t, got, "title", "Test Title")
	assertValues(t, got, "artist", "Test Artist")
	assertValues(t, got, "albumartist", "Album Artist")
	assertValues(t, got, "genre", "Jazz")
	assertValues(t, got, "tracknumber", "4")
	assertValues(t, got, "tracktotal", "10")
	assertValues(t, got, "discnumber", "1")

	mp4, err := mp4tag.Open(path)
	if err != nil {
		t.Fatalf("mp4tag.Open() error: %v", err)
	}
	defer mp4.Close()
	raw, err := mp4.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if raw.TrackNumber != 4 || raw.TrackTotal != 10 {
		t.Errorf("trkn = %d/%d, want 4/10", raw.TrackNumber, raw.TrackTotal)
	}
}

func TestM4A_KeepsUnmanagedProperties(t *testing.T) {
	path := createTestM4A(t, t.TempDir())
	if err := taglib.WriteTags(path, map[string][]string{
		"BARCODE":    {"0123456789"},
		taglib.Title: {"Old"},
	}, 0); err != nil {
		t.Fatalf("WriteTags() error: %v", err)
	}

	c := mustOpen(t, path, Options{})
	assertValues(t, c, "title", "Old")
	c.Set("title", []string{"New"})
	mustSave(t, c)

	raw, err := taglib.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags() error: %v", err)
	}
	if got := raw["BARCODE"]; len(got) != 1 || got[0] != "0123456789" {
		t.Errorf("BARCODE = %q, want [0123456789]", got)
	}
	if got := raw[taglib.Title]; len(got) != 1 || got[0] != "New" {
		t.Errorf("TITLE = %q, want [New]", got)
	}
}

func TestM4A_GenreAtoms(t *testing.T) {
	tests := []struct {
		name string
		tags *mp4tag.MP4Tags
		want string
	}{
		{"gnre", &mp4tag.MP4Tags{Genre: mp4tag.GenreRock}, "Rock"},
		{"©gen", &mp4tag.MP4Tags{CustomGenre: "Shoegaze"}, "Shoegaze"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTestM4A(t, t.TempDir())
			mp4, err := mp4tag.Open(path)
			if err != nil {
				t.Fatalf("mp4tag.Open() error: %v", err)
			}
			if err := mp4.Write(tt.tags, nil); err != nil {
				mp4.Close()
				t.Fatalf("mp4tag.Write() error: %v", err)
			}
			mp4.Close()

			c := mustOpen(t, path, Options{})
			assertValues(t, c, "genre", tt.want)

			// Editing another atom keeps the genre
			c.Set("title", []string{"Song"})
			mustSave(t, c)
			got := mustOpen(t, path, Options{})
			assertValues(t, got, "genre", tt.want)
			assertValues(t, got, "title", "Song")
		})
	}
}

func TestM4A_KeepsMultipleValues(t *testing.T) {
	path := createTestM4A(t, t.TempDir())
	if err := taglib.WriteTags(path, map[string][]string{
		taglib.Genre:          {"Rock", "Pop"},
		taglib.Artist:         {"A", "B"},
		"MUSICBRAINZ_TRACKID": {"track-uuid"},
		"GROUPING":            {"Set 1"},
	}, 0); err != nil {
		t.Fatalf("WriteTags() error: %v", err)
	}

	c := mustOpen(t, path, Options{})
	assertValues(t, c, "genre", "Rock", "Pop")
	assertValues(t, c, "artist", "A", "B")
	assertValues(t, c, "musicbrainz_trackid", "track-uuid")
	assertValues(t, c, "grouping", "Set 1")

	c.Set("title", []string{"New"})
	mustSave(t, c)

	raw, err := taglib.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags() error: %v", err)
	}
	if got := raw[taglib.Genre]; len(got) != 2 || got[0] != "Rock" || got[1] != "Pop" {
		t.Errorf("GENRE = %q, want [Rock Pop]", got)
	}
	if got := raw[taglib.Artist]; len(got) != 2 {
		t.Errorf("ARTIST = %q, want two values", got)
	}
	if got := raw["MUSICBRAINZ_TRACKID"]; len(got) != 1 || got[0] != "track-uuid" {
		t.Errorf("MUSICBRAINZ_TRACKID = %q, want [track-uuid]", got)
	}
}

func TestM4A_Pprint(t *testing.T) {
	path := createTestM4A(t, t.TempDir())
	c := mustOpen(t, path, Options{})
	c.Set("artist", []string{"A"})
	mustSave(t, c)

	out := mustOpen(t, path, Options{}).Pprint()

	if !strings.HasPrefix(out, "AAC, ") || !strings.Contains(out, "(audio/mp4)") {
		t.Errorf("Pprint() header = %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "\nartist=A") {
		t.Errorf("Pprint() = %q, want an artist=A line", out)
	}
}
