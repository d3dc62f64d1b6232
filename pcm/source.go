// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audtrack/audio"
)

// Source streams float32 samples from a WAVE data chunk.
type Source struct {
	r      io.Reader
	closer io.Closer
	header Header
	buf    []byte
	eof    bool
}

// NewSource reads float samples from data, which must be positioned at the
// start of the data chunk described by h.
func NewSource(h Header, data io.Reader) (*Source, error) {
	if !h.IsFloat32() {
		return nil, ErrNotFloat
	}

	return &Source{
		r:      data,
		header: h,
		buf:    make([]byte, 4096*4),
	}, nil
}

func (s *Source) SampleRate() int { return s.header.SampleRate }
func (s *Source) Channels() int   { return s.header.Channels }
func (s *Source) BitDepth() int   { return 32 }
func (s *Source) BufSize() int    { return cap(s.buf) / 4 }

// Header returns the parsed stream header.
func (s *Source) Header() Header { return s.header }

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("closing pcm source: %w", err)
	}
	return nil
}

// ReadSamples decodes whole frames only; a trailing partial frame is dropped.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	frameBytes := 4 * s.header.Channels
	want := (len(dst) / s.header.Channels) * frameBytes
	if want == 0 {
		return 0, nil
	}
	if cap(s.buf) < want {
		s.buf = make([]byte, want)
	}
	s.buf = s.buf[:want]

	n, err := io.ReadFull(s.r, s.buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		s.eof = true
		err = io.EOF
	} else if err != nil {
		return 0, fmt.Errorf("reading float samples: %w", err)
	}

	samples := (n / frameBytes) * s.header.Channels
	for i := range samples {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(s.buf[4*i:]))
	}

	return samples, err
}

// Decoder decodes float WAVE streams only.
// Integer WAVE files go through formats/wav.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	h, data, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	return NewSource(h, data)
}
