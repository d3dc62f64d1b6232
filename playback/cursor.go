// SPDX-License-Identifier: EPL-2.0

package playback

import "sync/atomic"

// Cursor reads an interleaved buffer frame by frame. Reads and seeks may
// race; a seek that lands during a read wins.
type Cursor struct {
	samples  []float32
	channels int
	frames   int64
	pos      atomic.Int64
}

// NewCursor positions a cursor at the first frame of samples. A
// non-positive channel count is treated as mono.
func NewCursor(samples []float32, channels int) *Cursor {
	if channels <= 0 {
		channels = 1
	}
	return &Cursor{
		samples:  samples,
		channels: channels,
		frames:   int64(len(samples) / channels),
	}
}

func (c *Cursor) Channels() int { return c.channels }
func (c *Cursor) Frames() int64 { return c.frames }

// Frame returns the next frame to be read. It equals Frames once the
// buffer is exhausted.
func (c *Cursor) Frame() int64 { return c.pos.Load() }

// Seek moves to frame, clamped to [0, Frames].
func (c *Cursor) Seek(frame int64) {
	c.pos.Store(min(max(frame, 0), c.frames))
}

// Read copies up to count samples into buf[offset:], rounded down to
// whole frames, and returns how many samples it copied. It returns 0 at
// the end of the buffer.
func (c *Cursor) Read(buf []float32, offset, count int) int {
	if offset < 0 || offset >= len(buf) || count <= 0 {
		return 0
	}
	count = min(count, len(buf)-offset)

	want := int64(count / c.channels)
	if want == 0 {
		return 0
	}

	pos := c.pos.Load()
	frames := min(want, c.frames-pos)
	if frames <= 0 {
		return 0
	}

	ch := int64(c.channels)
	n := copy(buf[offset:offset+int(frames*ch)], c.samples[pos*ch:(pos+frames)*ch])
	c.pos.CompareAndSwap(pos, pos+frames)

	return n
}
