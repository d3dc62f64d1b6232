// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/utils"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps go-audio aiff.Decoder to implement audio.Source
type source struct {
	dec        aiffReader
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
		return 0, fmt.Errorf("decoding aiff: %w", err)
	}
	if n < want || errors.Is(err, io.EOF) {
		s.eof = true
	}

	n -= n % s.channels
	// AIFF stores signed samples at every depth, 8-bit included.
	scale := utils.IntScale(s.bitDepth)
	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]) * scale
	}

	if s.eof {
		return n, io.EOF
	}
	return n, nil
}

type Decoder struct{}

// Decode buffers non-seekable input, since go-audio needs io.ReadSeeker.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, ErrNotAiffFile
	}

	return &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   int(dec.BitDepth),
		intBuf: &goaudio.IntBuffer{
			Format:         format,
			Data:           make([]int, 4096),
			SourceBitDepth: int(dec.BitDepth),
		},
	}, nil
}
