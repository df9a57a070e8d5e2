package tags

import (
	"strings"
	"testing"

	"go.senan.xyz/taglib"
)

func TestOgg_Roundtrip(t *testing.T) {
	tests := []struct {
		name   string
		create func(*testing.T, string) string
		codec  string
	}{
		{"opus", createTestOpus, "OPUS"},
		{"vorbis", createTestVorbis, "VORBIS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.create(t, t.TempDir())
			c := mustOpen(t, path, Options{})

			if c.Format() != FormatOgg {
				t.Fatalf("Format() = %q, want %q", c.Format(), FormatOgg)
			}
			if c.Constrained() {
				t.Error("Constrained() = true, want false")
			}

			c.Set("artist", []string{"A"})
			c.Append("GENRE", "Rock")
			c.Append("GENRE", "Pop")
			c.Set("MY_CUSTOM_TAG", []string{"custom"})
			mustSave(t, c)

			got := mustOpen(t, path, Options{})
			assertValues(t, got, "ARTIST", "A")
			assertValues(t, got, "genre", "Rock", "Pop")
			assertValues(t, got, "my_custom_tag", "custom")

			if header := strings.SplitN(got.Pprint(), "\n", 2)[0]; !strings.HasPrefix(header, tt.codec+", ") {
				t.Errorf("Pprint() header = %q, want %s prefix", header, tt.codec)
			}
		})
	}
}

func TestOgg_SaveRemovesClearedNames(t *testing.T) {
	path := createTestOpus(t, t.TempDir())
	if err := taglib.WriteTags(path, map[string][]string{
		taglib.Artist: {"A"},
		taglib.Album:  {"B"},
	}, 0); err != nil {
		t.Fatalf("WriteTags() error: %v", err)
	}

	c := mustOpen(t, path, Options{})
	c.Set("album", nil)
	mustSave(t, c)

	raw, err := taglib.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags() error: %v", err)
	}
	if _, ok := raw[taglib.Album]; ok {
		t.Errorf("ALBUM = %q, want removed", raw[taglib.Album])
	}
	if got := raw[taglib.Artist]; len(got) != 1 || got[0] != "A" {
		t.Errorf("ARTIST = %q, want [A]", got)
	}
}

func TestOggCodec_NotOgg(t *testing.T) {
	path := createTestMP3(t, t.TempDir())
	if got := oggCodec(path); got != "OGG" {
		t.Errorf("oggCodec() = %q, want OGG", got)
	}
}
