package tags

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// id3TextFrames maps vocabulary names to ID3v2.4 text frames.
var id3TextFrames = map[string]string{
	"album":           "TALB",
	"bpm":             "TBPM",
	"compilation":     "TCMP",
	"composer":        "TCOM",
	"copyright":       "TCOP",
	"encodedby":       "TENC",
	"lyricist":        "TEXT",
	"length":          "TLEN",
	"media":           "TMED",
	"mood":            "TMOO",
	"grouping":        "TIT1",
	"title":           "TIT2",
	"version":         "TIT3",
	"artist":          "TPE1",
	"albumartist":     "TPE2",
	"conductor":       "TPE3",
	"arranger":        "TPE4",
	"organization":    "TPUB",
	"author":          "TOLY",
	"albumartistsort": "TSO2",
	"albumsort":       "TSOA",
	"composersort":    "TSOC",
	"artistsort":      "TSOP",
	"titlesort":       "TSOT",
	"isrc":            "TSRC",
	"discsubtitle":    "TSST",
	"language":        "TLAN",
	"genre":           "TCON",
	"date":            "TDRC",
	"originaldate":    "TDOR",
}

// id3v23Frames replaces ID3v2.4-only frames when writing ID3v2.3.
var id3v23Frames = map[string]string{
	"date":         "TYER",
	"originaldate": "TORY",
}

// id3UserFrames maps vocabulary names to TXXX descriptions, following Picard.
var id3UserFrames = map[string]string{
	"musicbrainz_artistid":       "MusicBrainz Artist Id",
	"musicbrainz_albumid":        "MusicBrainz Album Id",
	"musicbrainz_albumartistid":  "MusicBrainz Album Artist Id",
	"musicbrainz_releasegroupid": "MusicBrainz Release Group Id",
	"musicbrainz_releasetrackid": "MusicBrainz Release Track Id",
	"musicbrainz_workid":         "MusicBrainz Work Id",
	"musicbrainz_trmid":          "MusicBrainz TRM Id",
	"musicbrainz_discid":         "MusicBrainz Disc Id",
	"musicbrainz_albumstatus":    "MusicBrainz Album Status",
	"musicbrainz_albumtype":      "MusicBrainz Album Type",
	"releasecountry":             "MusicBrainz Album Release Country",
	"musicip_puid":               "MusicIP PUID",
	"musicip_fingerprint":        "MusicMagic Fingerprint",
	"acoustid_id":                "Acoustid Id",
	"acoustid_fingerprint":       "Acoustid Fingerprint",
	"replaygain_track_gain":      "REPLAYGAIN_TRACK_GAIN",
	"replaygain_track_peak":      "REPLAYGAIN_TRACK_PEAK",
	"replaygain_album_gain":      "REPLAYGAIN_ALBUM_GAIN",
	"replaygain_album_peak":      "REPLAYGAIN_ALBUM_PEAK",
	"barcode":                    "BARCODE",
	"catalognumber":              "CATALOGNUMBER",
	"asin":                       "ASIN",
	"script":                     "SCRIPT",
}

// id3NumberFrames holds the frames storing "N/M" pairs.
var id3NumberFrames = []numberPair{
	{frame: "TRCK", number: "tracknumber", total: "tracktotal"},
	{frame: "TPOS", number: "discnumber", total: "disctotal"},
}

const (
	musicBrainzTrackID = "musicbrainz_trackid"
	musicBrainzOwner   = "http://musicbrainz.org"

	// website is the official artist page, a WOAR URL link frame.
	website      = "website"
	websiteFrame = "WOAR"
)

// numberPair is a frame or atom holding a position and an optional total.
type numberPair struct {
	frame  string
	number string
	total  string
}

// id3Vocabulary lists every name an MP3 container accepts.
func id3Vocabulary() []string {
	names := make([]string, 0, len(id3TextFrames)+len(id3UserFrames)+6)
	for n := range id3TextFrames {
		names = append(names, n)
	}
	for n := range id3UserFrames {
		names = append(names, n)
	}
	for _, p := range id3NumberFrames {
		names = append(names, p.number, p.total)
	}
	return append(names, musicBrainzTrackID, website)
}

// mp3Container maps the MP3 vocabulary onto ID3v2 frames.
type mp3Container struct {
	fixedTags
	path    string
	version byte
	legacy  bool // file carries an ID3v2.2 tag that must be stripped on save
}

var _ Container = (*mp3Container)(nil)

// openMP3 reads the vocabulary frames of an MP3 file.
func openMP3(path string, opts Options) (*mp3Container, error) {
	c := &mp3Container{
		fixedTags: newFixedTags(id3Vocabulary()),
		path:      path,
		version:   opts.id3Version(),
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		// ID3v2.2 or older: nothing we can read, replaced on save
		c.legacy = true
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer tag.Close()

	for name, id := range id3TextFrames {
		values := id3TextValues(tag, id)
		if len(values) == 0 {
			if old, ok := id3v23Frames[name]; ok {
				values = id3TextValues(tag, old)
			}
		}
		c.Set(name, values)
	}

	for name, desc := range id3UserFrames {
		c.Set(name, id3UserValues(tag, desc))
	}

	for _, p := range id3NumberFrames {
		num, total := splitNumberPair(getID3TextFrame(tag, p.frame))
		if num != "" {
			c.Set(p.number, []string{num})
		}
		if total != "" {
			c.Set(p.total, []string{total})
		}
	}

	for _, frame := range tag.GetFrames("UFID") {
		if ufid, ok := frame.(id3v2.UFIDFrame); ok && ufid.OwnerIdentifier == musicBrainzOwner {
			c.Append(musicBrainzTrackID, string(ufid.Identifier))
		}
	}

	if url := id3URLFrame(tag, websiteFrame); url != "" {
		c.Set(website, []string{url})
	}

	return c, nil
}

func (c *mp3Container) Path() string   { return c.path }
func (c *mp3Container) Format() Format { return FormatMP3 }

func (c *mp3Container) Pprint() string {
	return dump(c.path, FormatMP3, c.lines(), embeddedPictureLines(c.path))
}

// Save rewrites every vocabulary frame. Frames outside the vocabulary
// (pictures, comments, lyrics, ...) are kept.
func (c *mp3Container) Save() error {
	if c.legacy {
		if err := stripID3v2Tag(c.path); err != nil {
			return fmt.Errorf("strip unsupported ID3v2.2 tag: %w", err)
		}
		c.legacy = false
	}

	tag, err := id3v2.Open(c.path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(c.version)
	enc := id3v2.EncodingUTF8
	sep := "\x00"
	if c.version == 3 {
		// ID3v2.3 has neither UTF-8 nor NUL-separated values
		enc = id3v2.EncodingUTF16
		sep = "/"
	}
	tag.SetDefaultEncoding(enc)

	for name, id := range id3TextFrames {
		tag.DeleteFrames(id)
		if old, ok := id3v23Frames[name]; ok {
			tag.DeleteFrames(old)
			if c.version == 3 {
				id = old
			}
		}
		if values := c.Get(name); len(values) > 0 {
			tag.AddTextFrame(id, enc, strings.Join(values, sep))
		}
	}

	for _, p := range id3NumberFrames {
		tag.DeleteFrames(p.frame)
		if text := joinNumberPair(c.first(p.number), c.first(p.total)); text != "" {
			tag.AddTextFrame(p.frame, enc, text)
		}
	}

	// TXXX and UFID frames are shared with other owners; only ours are replaced
	userFrames := tag.GetFrames("TXXX")
	tag.DeleteFrames("TXXX")
	managed := make(map[string]string, len(id3UserFrames))
	for name, desc := range id3UserFrames {
		managed[desc] = name
	}
	for _, frame := range userFrames {
		if txxx, ok := frame.(id3v2.UserDefinedTextFrame); ok {
			if _, ours := managed[txxx.Description]; !ours {
				tag.AddUserDefinedTextFrame(txxx)
			}
		}
	}
	for name, desc := range id3UserFrames {
		if values := c.Get(name); len(values) > 0 {
			tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    enc,
				Description: desc,
				Value:       strings.Join(values, sep),
			})
		}
	}

	ufids := tag.GetFrames("UFID")
	tag.DeleteFrames("UFID")
	for _, frame := range ufids {
		if ufid, ok := frame.(id3v2.UFIDFrame); ok && ufid.OwnerIdentifier != musicBrainzOwner {
			tag.AddFrame("UFID", ufid)
		}
	}
	for _, id := range c.Get(musicBrainzTrackID) {
		tag.AddFrame("UFID", id3v2.UFIDFrame{
			OwnerIdentifier: musicBrainzOwner,
			Identifier:      []byte(id),
		})
	}

	// URL link frames hold a single Latin-1 URL
	tag.DeleteFrames(websiteFrame)
	if url := c.first(website); url != "" {
		tag.AddFrame(websiteFrame, id3v2.UnknownFrame{Body: []byte(url)})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

// id3TextValues returns the values of a text frame, split on NUL separators.
func id3TextValues(tag *id3v2.Tag, frameID string) []string {
	text := getID3TextFrame(tag, frameID)
	if text == "" {
		return nil
	}
	return splitNul(text)
}

// id3UserValues returns the values of every TXXX frame with description.
func id3UserValues(tag *id3v2.Tag, description string) []string {
	var values []string
	for _, frame := range tag.GetFrames("TXXX") {
		if txxx, ok := frame.(id3v2.UserDefinedTextFrame); ok && txxx.Description == description {
			values = append(values, splitNul(txxx.Value)...)
		}
	}
	return values
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(tag *id3v2.Tag, frameID string) string {
	frames := tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}

// id3URLFrame reads the URL of a link frame, which id3v2 leaves unparsed.
func id3URLFrame(tag *id3v2.Tag, frameID string) string {
	for _, frame := range tag.GetFrames(frameID) {
		if uf, ok := frame.(id3v2.UnknownFrame); ok {
			return strings.TrimRight(string(uf.Body), "\x00")
		}
	}
	return ""
}

// splitNul splits an ID3v2.4 multi-value string, dropping empty parts.
func splitNul(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, "\x00") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitNumberPair splits "N/M" into its parts; either may be empty.
func splitNumberPair(s string) (num, total string) {
	num, total, _ = strings.Cut(strings.TrimSpace(s), "/")
	return strings.TrimSpace(num), strings.TrimSpace(total)
}

// joinNumberPair builds "N/M", "N", or "/M" when only the total is known.
func joinNumberPair(num, total string) string {
	if total == "" {
		return num
	}
	return num + "/" + total
}

// stripID3v2Tag removes ID3v2 tags from an MP3 file.
// This is used to handle ID3v2.2 tags which the id3v2 library doesn't support.
func stripID3v2Tag(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	tagSize := id3v2Size(data)
	if tagSize == 0 {
		return nil // No ID3v2 tag to strip
	}
	if tagSize >= int64(len(data)) {
		return fmt.Errorf("ID3v2 tag size (%d) exceeds file size (%d)", tagSize, len(data))
	}

	// Preserve original file permissions
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	if err := os.WriteFile(path, data[tagSize:], info.Mode()); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
