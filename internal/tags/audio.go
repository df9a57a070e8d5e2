package tags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2/flac"
	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"
	"go.senan.xyz/taglib"
)

// AudioInfo contains audio stream properties (not tags).
type AudioInfo struct {
	Duration   time.Duration
	Codec      string // MP3, FLAC, OPUS, VORBIS, AAC, ALAC
	SampleRate int
	BitDepth   int
}

// Header renders the first line of a pretty-print dump.
func (a *AudioInfo) Header(f Format) string {
	return fmt.Sprintf("%s, %.2f seconds, %d Hz (%s)",
		a.Codec, a.Duration.Seconds(), a.SampleRate, f.MIME())
}

// ReadAudioInfo reads audio stream properties for a file of the given format.
// This uses lighter-weight methods than full decoding where possible.
func ReadAudioInfo(path string, format Format) (*AudioInfo, error) {
	switch format {
	case FormatMP3:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readMP3AudioInfo(f)
	case FormatFLAC:
		return readFLACStreamInfo(path)
	case FormatOgg:
		return readOggAudioInfo(path)
	case FormatM4A:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readM4AAudioInfo(f)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// readMP3AudioInfo extracts audio info from an MP3 file.
func readMP3AudioInfo(f *os.File) (*AudioInfo, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, errors.New("mp3: invalid sample rate")
	}

	sampleCount := max(decoder.SampleCount(), 0)

	duration := time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second))

	return &AudioInfo{
		Duration:   duration,
		Codec:      "MP3",
		SampleRate: sampleRate,
		BitDepth:   16, // MP3 decodes to 16-bit
	}, nil
}

// readFLACStreamInfo extracts audio info from FLAC streaminfo metadata.
func readFLACStreamInfo(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	flacFile, err := goflac.ParseMetadata(f)
	if err != nil {
		// Try with ID3v2 skip for files with prepended ID3 tags
		return readFLACWithBeep(path)
	}
	if info, ok := streamInfoFromMeta(flacFile.Meta); ok {
		return info, nil
	}
	return readFLACWithBeep(path)
}

// streamInfoFromMeta parses the STREAMINFO block out of parsed FLAC metadata.
func streamInfoFromMeta(blocks []*goflac.MetaDataBlock) (*AudioInfo, bool) {
	for _, meta := range blocks {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		data := meta.Data

		// Sample rate is in bits 0-19 of bytes 10-12
		sampleRate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
		// Bits per sample is in bits 4-8 of bytes 12-13 (add 1 to get actual value)
		bitsPerSample := (int(data[12])&0x01)<<4 | int(data[13])>>4 + 1

		// Total samples is in bytes 14-17 (plus 4 bits from byte 13)
		totalSamples := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])

		duration := time.Duration(0)
		if sampleRate > 0 {
			duration = time.Duration(float64(totalSamples) / float64(sampleRate) * float64(time.Second))
		}

		return &AudioInfo{
			Duration:   duration,
			Codec:      "FLAC",
			SampleRate: sampleRate,
			BitDepth:   bitsPerSample,
		}, true
	}
	return nil, false
}

// readFLACWithBeep uses beep's FLAC decoder as fallback.
func readFLACWithBeep(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		return nil, err
	}

	streamer, format, err := flac.Decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return &AudioInfo{
		Duration:   format.SampleRate.D(streamer.Len()),
		Codec:      "FLAC",
		SampleRate: int(format.SampleRate),
		BitDepth:   format.Precision * 8,
	}, nil
}

// readOggAudioInfo reads Ogg Vorbis/Opus stream properties through TagLib.
func readOggAudioInfo(path string) (*AudioInfo, error) {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return nil, err
	}
	return &AudioInfo{
		Duration:   props.Length,
		Codec:      oggCodec(path),
		SampleRate: int(props.SampleRate),
		BitDepth:   16,
	}, nil
}

// oggCodec sniffs the first Ogg packet for the Opus or Vorbis signature.
func oggCodec(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "OGG"
	}
	defer f.Close()

	// First page header is 27 bytes plus the segment table; the identification
	// packet follows within the first few hundred bytes.
	buf := make([]byte, 512)
	n, _ := io.ReadFull(f, buf)
	buf = buf[:n]
	if len(buf) < 28 || string(buf[:4]) != "OggS" {
		return "OGG"
	}
	segments := int(buf[26])
	start := 27 + segments
	if start >= len(buf) {
		return "OGG"
	}
	packet := buf[start:]
	switch {
	case len(packet) >= 8 && string(packet[:8]) == "OpusHead":
		return "OPUS"
	case len(packet) >= 7 && packet[0] == 0x01 && string(packet[1:7]) == "vorbis":
		return "VORBIS"
	}
	return "OGG"
}

// readM4AAudioInfo extracts audio info from an M4A/MP4 file.
func readM4AAudioInfo(f *os.File) (*AudioInfo, error) {
	container, err := m4a.Open(f)
	if err != nil {
		return nil, err
	}

	codecType := container.Codec()
	var codec string
	switch codecType {
	case m4a.CodecAAC:
		codec = "AAC"
	case m4a.CodecALAC:
		codec = "ALAC"
	case m4a.CodecUnknown:
		codec = "M4A"
	}

	bitDepth := 16
	if codecType == m4a.CodecALAC && container.SampleSize() == 24 {
		bitDepth = 24
	}

	return &AudioInfo{
		Duration:   container.Duration(),
		Codec:      codec,
		SampleRate: int(container.SampleRate()),
		BitDepth:   bitDepth,
	}, nil
}

// id3v2Size returns the total size of an ID3v2 tag at the start of header,
// including the extended header and footer, or 0 if there is none.
func id3v2Size(header []byte) int64 {
	if len(header) < 10 || string(header[:3]) != id3Magic {
		return 0
	}
	// Size is stored in bytes 6-9 as syncsafe integer (7 bits per byte)
	size := int64(10) + (int64(header[6]&0x7f)<<21 |
		int64(header[7]&0x7f)<<14 |
		int64(header[8]&0x7f)<<7 |
		int64(header[9]&0x7f))
	// Footer flag (ID3v2.4 only)
	if header[5]&0x10 != 0 {
		size += 10
	}
	return size
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	size := id3v2Size(header[:n])
	_, err = r.Seek(size, io.SeekStart)
	return err
}
