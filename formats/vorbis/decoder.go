// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audtrack/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec      oggReader
	channels int
	eof      bool
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.channels }

// BitDepth reports 32: Vorbis has no integer depth and decodes to float.
func (s *source) BitDepth() int { return 32 }
func (s *source) Close() error  { return nil }
func (s *source) BufSize() int  { return 4096 }

// ReadSamples decodes straight into dst. oggvorbis counts values, not
// frames, and always returns whole frames.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:want])
	if errors.Is(err, io.EOF) {
		s.eof = true
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("decoding vorbis: %w", err)
	}

	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening ogg vorbis stream: %w", err)
	}

	return &source{
		dec:      dec,
		channels: dec.Channels(),
	}, nil
}
