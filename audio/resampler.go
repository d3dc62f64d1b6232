// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audtrack/utils"
)

// Resampler streams from src to a target sample rate using cubic interpolation.
// Works on interleaved samples and preserves the channel count.
// A one-pole low-pass runs on the input when downsampling.
//
// Output frame k sits at source position k*srcRate/dstRate; frames are
// produced while that position does not pass the last source frame, so a
// same-rate resampler yields exactly the source frame count.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames advanced per output frame
	channels int

	// Window around the current source index i:
	// window[0] = i-1, window[1] = i, window[2] = i+1, window[3] = i+2
	// Indices outside the stream repeat the nearest edge frame.
	window [4][]float32
	primed bool

	index int64   // i
	frac  float64 // fractional position between i and i+1
	count int64   // source frames read so far
	eof   bool

	frame []float32

	lowpass   bool
	lpAlpha   float32
	lpHistory []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:       src,
		dstRate:   dstRate,
		step:      float64(src.SampleRate()) / float64(dstRate),
		channels:  channels,
		frame:     make([]float32, channels),
		lpAlpha:   0.5,
		lpHistory: make([]float32, channels),
	}
	r.lowpass = r.step > 1.0

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BitDepth() int   { return r.src.BitDepth() }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}
	return nil
}

// readFrame pulls one whole frame from the source into r.frame.
// It reports false once the source is exhausted.
func (r *Resampler) readFrame() (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.frame)
	if errors.Is(err, io.EOF) {
		r.eof = true
	} else if err != nil {
		return false, fmt.Errorf("resampler read: %w", err)
	}

	if n < r.channels {
		// A source that keeps answering (0, nil) is treated as finished.
		r.eof = true
		return false, nil
	}

	if r.lowpass {
		if r.count == 0 {
			copy(r.lpHistory, r.frame)
		}
		for c := range r.channels {
			// y[n] = alpha * x[n] + (1-alpha) * y[n-1]
			v := r.lpAlpha*r.frame[c] + (1-r.lpAlpha)*r.lpHistory[c]
			r.frame[c] = v
			r.lpHistory[c] = v
		}
	}

	r.count++
	return true, nil
}

// pull fills window slot from the source, or repeats the previous slot at the edge.
func (r *Resampler) pull(slot int) error {
	ok, err := r.readFrame()
	if err != nil {
		return err
	}
	if ok {
		copy(r.window[slot], r.frame)
		return nil
	}
	copy(r.window[slot], r.window[slot-1])
	return nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.readFrame()
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.window[0], r.frame)
	copy(r.window[1], r.frame)

	if err := r.pull(2); err != nil {
		return err
	}
	return r.pull(3)
}

func (r *Resampler) advance() error {
	r.index++
	copy(r.window[0], r.window[1])
	copy(r.window[1], r.window[2])
	copy(r.window[2], r.window[3])
	return r.pull(3)
}

// exhausted reports whether the current position lies past the last source frame.
func (r *Resampler) exhausted() bool {
	if !r.eof {
		return false
	}
	last := r.count - 1
	return r.index > last || (r.index == last && r.frac > 0)
}

// ReadSamples produces dst samples at the target rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.channels == 0 || len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.frac >= 1.0 {
			r.frac -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if r.exhausted() {
			return written * r.channels, io.EOF
		}

		x := float32(r.frac)
		base := written * r.channels
		for c := range r.channels {
			dst[base+c] = utils.CubicInterpolate(
				r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], x)
		}

		written++
		r.frac += r.step
	}

	return written * r.channels, nil
}
