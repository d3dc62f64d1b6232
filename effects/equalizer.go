// SPDX-License-Identifier: EPL-2.0

package effects

import (
	"math"
	"sync/atomic"
)

// Bands is the number of equalizer bands.
const Bands = 10

const (
	bandQ = 1.0
	// Centers above this fraction of the sample rate are pulled down so
	// the filter design stays below Nyquist.
	maxCenterRatio = 0.45
)

// BandFrequencies are the octave-spaced band centers in Hz.
var BandFrequencies = [Bands]float64{
	31.25, 62.5, 125, 250, 500,
	1000, 2000, 4000, 8000, 16000,
}

// biquad holds normalized coefficients (a0 == 1).
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// peaking designs an RBJ cookbook peaking filter.
func peaking(sampleRate, center, q, gainDB float64) biquad {
	center = min(center, sampleRate*maxCenterRatio)

	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * center / sampleRate
	cosw, sinw := math.Cos(w0), math.Sin(w0)
	alpha := sinw / (2 * q)

	a0 := 1 + alpha/a
	return biquad{
		b0: (1 + alpha*a) / a0,
		b1: -2 * cosw / a0,
		b2: (1 - alpha*a) / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha/a) / a0,
	}
}

type biquadState struct {
	x1, x2, y1, y2 float64
}

func (s *biquadState) step(c *biquad, x float64) float64 {
	y := c.b0*x + c.b1*s.x1 + c.b2*s.x2 - c.a1*s.y1 - c.a2*s.y2
	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y
	return y
}

// EqualizerUnit runs every sample through ten peaking filters in band
// order, flat bands included.
type EqualizerUnit struct {
	base
	sampleRate float64
	channels   int

	gains  [Bands]*param
	coeffs [Bands]atomic.Pointer[biquad]

	// state is touched only by Process.
	state [][Bands]biquadState
}

// NewEqualizer returns a flat equalizer with filter state for each
// channel. A non-positive sampleRate falls back to 44100.
func NewEqualizer(sampleRate, channels int) *EqualizerUnit {
	if sampleRate <= 0 {
		sampleRate = 44100
	}

	e := &EqualizerUnit{
		base:       base{kind: GraphicEQ},
		sampleRate: float64(sampleRate),
		channels:   channels,
		state:      make([][Bands]biquadState, channels),
	}
	for b := range Bands {
		e.gains[b] = newParam(0)
		c := peaking(e.sampleRate, BandFrequencies[b], bandQ, 0)
		e.coeffs[b].Store(&c)
	}

	return e
}

// BandGain returns the gain of band in dB, or 0 for an out-of-range band.
func (e *EqualizerUnit) BandGain(band int) float32 {
	if band < 0 || band >= Bands {
		return 0
	}
	return e.gains[band].Load()
}

// SetBandGain sets band to gainDB and redesigns its filter.
// Out-of-range bands are ignored.
func (e *EqualizerUnit) SetBandGain(band int, gainDB float32) {
	if band < 0 || band >= Bands {
		return
	}

	e.gains[band].Store(gainDB)
	c := peaking(e.sampleRate, BandFrequencies[band], bandQ, float64(gainDB))
	e.coeffs[band].Store(&c)
}

func (e *EqualizerUnit) Process(buf []float32, offset, count int) {
	var coeffs [Bands]*biquad
	for b := range Bands {
		coeffs[b] = e.coeffs[b].Load()
	}

	s := window(buf, offset, count)
	for i, x := range s {
		st := &e.state[i%e.channels]
		v := float64(x)
		for b := range Bands {
			v = st[b].step(coeffs[b], v)
		}
		s[i] = float32(v)
	}
}
