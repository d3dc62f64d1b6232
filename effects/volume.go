// SPDX-License-Identifier: EPL-2.0

package effects

// VolumeUnit scales by a gain and clips at +1.0 only.
type VolumeUnit struct {
	base
	gain *param
}

// NewVolume returns a unit at unity gain.
func NewVolume() *VolumeUnit {
	return &VolumeUnit{
		base: base{kind: Volume},
		gain: newParam(1),
	}
}

func (v *VolumeUnit) Gain() float32 { return v.gain.Load() }

// SetGain sets the linear gain. Negative values are stored as 0.
func (v *VolumeUnit) SetGain(gain float32) {
	v.gain.Store(max(gain, 0))
}

// Process clips positive overshoot only.
func (v *VolumeUnit) Process(buf []float32, offset, count int) {
	g := v.gain.Load()
	s := window(buf, offset, count)
	for i, x := range s {
		s[i] = min(x*g, 1)
	}
}
