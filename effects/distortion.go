// SPDX-License-Identifier: EPL-2.0

package effects

const (
	DefaultDrive = 5.0
	DefaultLevel = 0.8
)

// DistortionUnit hard-clips the driven signal and scales the result.
type DistortionUnit struct {
	base
	drive *param
	level *param
}

// NewDistortion returns a unit at the default drive and level.
func NewDistortion() *DistortionUnit {
	return &DistortionUnit{
		base:  base{kind: Distortion},
		drive: newParam(DefaultDrive),
		level: newParam(DefaultLevel),
	}
}

func (d *DistortionUnit) Drive() float32         { return d.drive.Load() }
func (d *DistortionUnit) SetDrive(drive float32) { d.drive.Store(drive) }
func (d *DistortionUnit) Level() float32         { return d.level.Load() }
func (d *DistortionUnit) SetLevel(level float32) { d.level.Store(level) }

func (d *DistortionUnit) Process(buf []float32, offset, count int) {
	drive, level := d.drive.Load(), d.level.Load()
	s := window(buf, offset, count)
	for i, x := range s {
		s[i] = clamp(x*drive, -1, 1) * level
	}
}
