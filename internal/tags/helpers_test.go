package tags

import (
	"bytes"
	"encoding/binary"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// mp3Frame returns a silent MPEG1 Layer3 frame (128kbps, 44100Hz, stereo).
func mp3Frame() []byte {
	frame := make([]byte, 417)
	frame[0] = 0xff
	frame[1] = 0xfb
	frame[2] = 0x90
	frame[3] = 0x00
	return frame
}

// createTestMP3 creates an untagged MP3 file made of a few frames.
func createTestMP3(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test.mp3")

	data := bytes.Repeat(mp3Frame(), 20)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to create test MP3: %v", err)
	}
	return path
}

// createWithFFmpeg encodes one second of sine wave into name with codec.
func createWithFFmpeg(t *testing.T, dir, name, codec string) string {
	t.Helper()
	path := filepath.Join(dir, name)

	cmd := exec.Command("ffmpeg", "-y", "-f", "lavfi", "-i", "sine=frequency=440:duration=1", "-c:a", codec, path)
	cmd.Stderr = nil
	cmd.Stdout = nil
	if err := cmd.Run(); err != nil {
		t.Skipf("ffmpeg not available: %v", err)
	}
	return path
}

func createTestFLAC(t *testing.T, dir string) string {
	t.Helper()
	return createWithFFmpeg(t, dir, "test.flac", "flac")
}

func createTestOpus(t *testing.T, dir string) string {
	t.Helper()
	return createWithFFmpeg(t, dir, "test.opus", "libopus")
}

func createTestVorbis(t *testing.T, dir string) string {
	t.Helper()
	return createWithFFmpeg(t, dir, "test.ogg", "libvorbis")
}

func createTestM4A(t *testing.T, dir string) string {
	t.Helper()
	return createWithFFmpeg(t, dir, "test.m4a", "aac")
}

// flacFrame is one encoded FLAC frame: 4096 silent samples, mono, 16 bit,
// 44100 Hz, constant subframe, with valid CRC-8 and CRC-16.
var flacFrame = []byte{0xff, 0xf8, 0xc9, 0x08, 0x00, 0x95, 0x00, 0x00, 0x00, 0x21, 0xbd}

// flacStreamInfo describes flacFrame.
func flacStreamInfo() *flac.MetaDataBlock {
	data := make([]byte, 34)
	binary.BigEndian.PutUint16(data[0:], 4096)
	binary.BigEndian.PutUint16(data[2:], 4096)
	data[10] = 0x0a // 44100 Hz over 20 bits, mono, 16 bits per sample
	data[11] = 0xc4
	data[12] = 0x40
	data[13] = 0xf0
	binary.BigEndian.PutUint32(data[14:], 4096)
	return &flac.MetaDataBlock{Type: flac.StreamInfo, Data: data}
}

// writeFLAC builds a FLAC file with go-flac holding the given raw
// "KEY=value" comments.
func writeFLAC(t *testing.T, dir string, comments ...string) string {
	t.Helper()
	cmts := flacvorbis.New()
	cmts.Comments = append(cmts.Comments, comments...)
	block := cmts.Marshal()

	f := &flac.File{
		Meta:   []*flac.MetaDataBlock{flacStreamInfo(), &block},
		Frames: flacFrame,
	}
	path := filepath.Join(dir, "song.flac")
	if err := f.Save(path); err != nil {
		t.Fatalf("failed to create test FLAC: %v", err)
	}
	return path
}

func mustOpen(t *testing.T, path string, opts Options) Container {
	t.Helper()
	c, err := Open(path, opts)
	if err != nil {
		t.Fatalf("Open(%q) error: %v", path, err)
	}
	return c
}

func mustSave(t *testing.T, c Container) {
	t.Helper()
	if err := c.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
}

func assertValues(t *testing.T, c Container, name string, want ...string) {
	t.Helper()
	got := c.Get(name)
	if len(got) != len(want) {
		t.Errorf("Get(%q) = %q, want %q", name, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Get(%q) = %q, want %q", name, got, want)
			return
		}
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

// id3Header builds a 10-byte ID3v2 header with the given version and a
// tagSize-byte body of padding.
func id3Header(version byte, tagSize int) []byte {
	h := []byte{
		'I', 'D', '3', version, 0x00, 0x00,
		byte((tagSize >> 21) & 0x7f),
		byte((tagSize >> 14) & 0x7f),
		byte((tagSize >> 7) & 0x7f),
		byte(tagSize & 0x7f),
	}
	return append(h, make([]byte, tagSize)...)
}
