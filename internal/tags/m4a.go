package tags

import (
	"fmt"
	"strconv"

	"github.com/Sorrow446/go-mp4tag"
	"go.senan.xyz/taglib"
)

// m4aAtoms maps the M4A vocabulary to the TagLib properties of the
// iTunes atoms. TagLib folds both the gnre and ©gen atoms into GENRE.
var m4aAtoms = map[string]string{
	"title":                      taglib.Title,
	"album":                      taglib.Album,
	"artist":                     taglib.Artist,
	"albumartist":                taglib.AlbumArtist,
	"date":                       taglib.Date,
	"comment":                    "COMMENT",
	"description":                "PODCASTDESC",
	"grouping":                   "GROUPING",
	"genre":                      taglib.Genre,
	"composer":                   "COMPOSER",
	"copyright":                  "COPYRIGHT",
	"lyrics":                     "LYRICS",
	"bpm":                        "BPM",
	"titlesort":                  "TITLESORT",
	"albumsort":                  "ALBUMSORT",
	"artistsort":                 taglib.ArtistSort,
	"albumartistsort":            "ALBUMARTISTSORT",
	"composersort":               "COMPOSERSORT",
	"musicbrainz_trackid":        "MUSICBRAINZ_TRACKID",
	"musicbrainz_artistid":       "MUSICBRAINZ_ARTISTID",
	"musicbrainz_albumid":        "MUSICBRAINZ_ALBUMID",
	"musicbrainz_albumartistid":  "MUSICBRAINZ_ALBUMARTISTID",
	"musicbrainz_releasegroupid": "MUSICBRAINZ_RELEASEGROUPID",
	"musicbrainz_workid":         "MUSICBRAINZ_WORKID",
	"musicbrainz_albumstatus":    "RELEASESTATUS",
	"musicbrainz_albumtype":      "RELEASETYPE",
	"releasecountry":             "RELEASECOUNTRY",
	"musicip_puid":               "MUSICIP_PUID",
}

// m4aNumberAtoms holds the trkn and disk atoms, exposed by TagLib as "N/M".
var m4aNumberAtoms = []numberPair{
	{frame: taglib.TrackNumber, number: "tracknumber", total: "tracktotal"},
	{frame: taglib.DiscNumber, number: "discnumber", total: "disctotal"},
}

func m4aVocabulary() []string {
	names := make([]string, 0, len(m4aAtoms)+4)
	for n := range m4aAtoms {
		names = append(names, n)
	}
	for _, p := range m4aNumberAtoms {
		names = append(names, p.number, p.total)
	}
	return names
}

// m4aContainer maps the M4A vocabulary onto iTunes atoms.
type m4aContainer struct {
	fixedTags
	path string
}

var _ Container = (*m4aContainer)(nil)

// openM4A loads the vocabulary atoms of an MP4 file. Text atoms come from
// TagLib with every value they hold; trkn and disk come from go-mp4tag.
func openM4A(path string) (*m4aContainer, error) {
	props, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	mp4, err := mp4tag.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer mp4.Close()

	t, err := mp4.Read()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	c := &m4aContainer{
		fixedTags: newFixedTags(m4aVocabulary()),
		path:      path,
	}
	for name, property := range m4aAtoms {
		if values := nonEmpty(props[property]); len(values) > 0 {
			c.Set(name, values)
		}
	}
	setPositive := func(name string, n int16) {
		if n > 0 {
			c.Set(name, []string{strconv.Itoa(int(n))})
		}
	}
	setPositive("tracknumber", t.TrackNumber)
	setPositive("tracktotal", t.TrackTotal)
	setPositive("discnumber", t.DiscNumber)
	setPositive("disctotal", t.DiscTotal)

	return c, nil
}

// nonEmpty drops empty strings from values.
func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *m4aContainer) Path() string   { return c.path }
func (c *m4aContainer) Format() Format { return FormatM4A }

func (c *m4aContainer) Pprint() string {
	return dump(c.path, FormatM4A, c.lines(), embeddedPictureLines(c.path))
}

// Save merges the vocabulary atoms over the file's current TagLib property
// map, so freeform atoms this container does not know about are kept.
func (c *m4aContainer) Save() error {
	props, err := taglib.ReadTags(c.path)
	if err != nil {
		return fmt.Errorf("read tags: %w", err)
	}
	if props == nil {
		props = make(map[string][]string)
	}

	for name, property := range m4aAtoms {
		delete(props, property)
		if values := c.Get(name); len(values) > 0 {
			props[property] = values
		}
	}
	for _, p := range m4aNumberAtoms {
		delete(props, p.frame)
		if text := joinNumberPair(c.first(p.number), c.first(p.total)); text != "" {
			props[p.frame] = []string{text}
		}
	}

	if err := taglib.WriteTags(c.path, props, taglib.Clear); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}
