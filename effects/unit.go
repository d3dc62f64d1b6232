// SPDX-License-Identifier: EPL-2.0

package effects

import (
	"math"
	"sync/atomic"
)

// Unit is one stage of the chain.
type Unit interface {
	Name() string
	Kind() Kind
	Enabled() bool
	SetEnabled(enabled bool)
	// Process transforms buf[offset:offset+count] in place.
	Process(buf []float32, offset, count int)
}

// New builds a unit of the given kind with its default parameters.
// Unknown kinds yield nil.
func New(kind Kind, sampleRate, channels int) Unit {
	if channels <= 0 {
		channels = 1
	}

	switch kind {
	case Volume:
		return NewVolume()
	case Distortion:
		return NewDistortion()
	case GraphicEQ:
		return NewEqualizer(sampleRate, channels)
	case Reverb:
		return NewReverb(sampleRate, channels)
	default:
		return nil
	}
}

// base carries the parts every unit shares.
type base struct {
	kind     Kind
	disabled atomic.Bool
}

func (b *base) Name() string            { return b.kind.String() }
func (b *base) Kind() Kind              { return b.kind }
func (b *base) Enabled() bool           { return !b.disabled.Load() }
func (b *base) SetEnabled(enabled bool) { b.disabled.Store(!enabled) }

// param is a float32 readable from the audio callback without locking.
type param struct {
	bits atomic.Uint32
}

func newParam(v float32) *param {
	p := &param{}
	p.Store(v)
	return p
}

func (p *param) Load() float32   { return math.Float32frombits(p.bits.Load()) }
func (p *param) Store(v float32) { p.bits.Store(math.Float32bits(v)) }

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}

// window returns buf[offset:offset+count] limited to the slice bounds.
func window(buf []float32, offset, count int) []float32 {
	if offset < 0 || count <= 0 || offset >= len(buf) {
		return nil
	}
	return buf[offset:min(offset+count, len(buf))]
}
