// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/faiface/beep"
	beepflac "github.com/faiface/beep/flac"

	"github.com/ik5/audtrack/audio"
)

// ErrTooManyChannels indicates a FLAC stream with more channels than beep can deliver.
var ErrTooManyChannels = errors.New("flac: only mono and stereo streams are supported")

// streamer is the part of beep.StreamSeekCloser the source needs.
type streamer interface {
	Stream(samples [][2]float64) (int, bool)
	Err() error
	Close() error
}

type source struct {
	st       streamer
	format   beep.Format
	channels int
	pairs    [][2]float64
	eof      bool
}

func (s *source) SampleRate() int { return int(s.format.SampleRate) }
func (s *source) Channels() int   { return s.channels }
func (s *source) BitDepth() int   { return s.format.Precision * 8 }
func (s *source) BufSize() int    { return cap(s.pairs) * s.channels }

func (s *source) Close() error {
	if err := s.st.Close(); err != nil {
		return fmt.Errorf("closing flac stream: %w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	frames := len(dst) / s.channels
	if frames == 0 {
		return 0, nil
	}
	if cap(s.pairs) < frames {
		s.pairs = make([][2]float64, frames)
	}
	s.pairs = s.pairs[:frames]

	n, ok := s.st.Stream(s.pairs)
	if !ok || n < frames {
		if err := s.st.Err(); err != nil {
			return 0, fmt.Errorf("decoding flac: %w", err)
		}
		s.eof = true
	}

	if s.channels == 1 {
		for i := range n {
			dst[i] = float32(s.pairs[i][0])
		}
	} else {
		for i := range n {
			dst[2*i] = float32(s.pairs[i][0])
			dst[2*i+1] = float32(s.pairs[i][1])
		}
	}

	if s.eof {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	st, format, err := beepflac.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("opening flac stream: %w", err)
	}

	if format.NumChannels < 1 || format.NumChannels > 2 {
		_ = st.Close()
		return nil, fmt.Errorf("%w: %d channels", ErrTooManyChannels, format.NumChannels)
	}

	return &source{
		st:       st,
		format:   format,
		channels: format.NumChannels,
		pairs:    make([][2]float64, 2048),
	}, nil
}
