// SPDX-License-Identifier: EPL-2.0

package effects

const (
	DefaultWetMix = 0.3
	DefaultDecay  = 0.5
)

// reverbDelaysMs are the nominal lengths of the four delay lines.
var reverbDelaysMs = [4]int{29, 37, 41, 53}

type delayLine struct {
	buf []float32
	pos int
}

// ReverbUnit mixes four parallel feedback delay lines into the dry signal.
// Each channel has its own set of lines.
type ReverbUnit struct {
	base
	wet      *param
	decay    *param
	channels int
	lines    [][len(reverbDelaysMs)]delayLine
}

// NewReverb returns a reverb at the default mix with delay lines sized
// for sampleRate.
func NewReverb(sampleRate, channels int) *ReverbUnit {
	if sampleRate <= 0 {
		sampleRate = 44100
	}

	lengths := DelayLengths(sampleRate)
	r := &ReverbUnit{
		base:     base{kind: Reverb},
		wet:      newParam(DefaultWetMix),
		decay:    newParam(DefaultDecay),
		channels: channels,
		lines:    make([][len(reverbDelaysMs)]delayLine, channels),
	}
	for c := range r.lines {
		for d, n := range lengths {
			r.lines[c][d].buf = make([]float32, n)
		}
	}

	return r
}

// DelayLengths returns the delay line lengths in samples for sampleRate:
// the smallest primes at or above each nominal length, strictly increasing
// so no two lines share a period.
func DelayLengths(sampleRate int) [len(reverbDelaysMs)]int {
	var out [len(reverbDelaysMs)]int
	prev := 1
	for i, ms := range reverbDelaysMs {
		n := max(ms*sampleRate/1000, prev+1)
		out[i] = nextPrime(n)
		prev = out[i]
	}
	return out
}

func nextPrime(n int) int {
	if n <= 2 {
		return 2
	}
	if n%2 == 0 {
		n++
	}
	for ; ; n += 2 {
		if isPrime(n) {
			return n
		}
	}
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func (r *ReverbUnit) WetMix() float32 { return r.wet.Load() }

// SetWetMix sets the wet proportion, clamped to [0, 1].
func (r *ReverbUnit) SetWetMix(wet float32) { r.wet.Store(clamp(wet, 0, 1)) }

func (r *ReverbUnit) Decay() float32 { return r.decay.Load() }

// SetDecay sets the feedback factor, clamped to [0, 1).
func (r *ReverbUnit) SetDecay(decay float32) { r.decay.Store(clamp(decay, 0, 0.999)) }

// Process leaves the buffer and the delay lines untouched at zero wet mix.
func (r *ReverbUnit) Process(buf []float32, offset, count int) {
	wet := r.wet.Load()
	if wet == 0 {
		return
	}
	decay := r.decay.Load()
	dry := 1 - wet

	s := window(buf, offset, count)
	for i, x := range s {
		lines := &r.lines[i%r.channels]

		var sum float32
		for d := range lines {
			l := &lines[d]
			delayed := l.buf[l.pos]
			sum += delayed
			l.buf[l.pos] = x + delayed*decay
			l.pos++
			if l.pos == len(l.buf) {
				l.pos = 0
			}
		}

		s[i] = x*dry + sum/float32(len(lines))*wet
	}
}
