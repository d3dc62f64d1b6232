// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/pcm"
	"github.com/ik5/audtrack/utils"
)

// wavReader is the part of gowav.Decoder the source needs, split out for testing.
type wavReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        wavReader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
	eof        bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BitDepth() int   { return s.bitDepth }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.intBuf.Data) }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}
	if cap(s.intBuf.Data) < want {
		s.intBuf.Data = make([]int, want)
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("decoding wav: %w", err)
	}
	// go-audio signals the end of the data chunk with a short or empty read.
	if n < want || errors.Is(err, io.EOF) {
		s.eof = true
	}

	n -= n % s.channels
	utils.IntsToFloat32(dst, s.intBuf.Data[:n], s.bitDepth)

	if s.eof {
		return n, io.EOF
	}
	return n, nil
}

type Decoder struct{}

// Decode sniffs the fmt chunk and dispatches float data to the pcm reader.
// go-audio needs to seek, so a plain io.Reader is buffered in memory.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating wav start: %w", err)
	}

	h, data, err := pcm.ReadHeader(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	switch {
	case h.IsFloat32():
		return pcm.NewSource(h, data)
	case h.Format != pcm.FormatPCM:
		return nil, fmt.Errorf("%w: tag 0x%04x, %d bits", ErrUnsupportedFormat, h.Format, h.BitsPerSample)
	}

	switch h.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, h.BitsPerSample)
	}

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding wav: %w", err)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
		intBuf: &goaudio.IntBuffer{
			Format:         dec.Format(),
			Data:           make([]int, 4096),
			SourceBitDepth: int(dec.BitDepth),
		},
	}, nil
}
