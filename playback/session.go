// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"sync/atomic"

	"github.com/ik5/audtrack/device"
	"github.com/ik5/audtrack/effects"
	"github.com/ik5/audtrack/track"
)

// ScratchFrames is how many frames the session processes per chain pass.
const ScratchFrames = 4096

// Session plays one buffer generation of a track. Once the track's
// buffer is replaced the session is stale and must be closed.
type Session struct {
	cursor     *Cursor
	chain      *effects.Chain
	generation uint64
	binding    device.Binding

	scratch []float32
	state   atomic.Int32
	ended   atomic.Bool
}

// NewSession binds a session for t to sink, positioned at the track's
// cursor. The session starts Stopped.
func NewSession(t *track.Track, sink device.Sink) (*Session, error) {
	s := &Session{
		cursor:     NewCursor(t.Samples(), t.Channels()),
		chain:      t.Chain(),
		generation: t.Generation(),
		scratch:    make([]float32, ScratchFrames*t.Channels()),
	}
	s.cursor.Seek(t.Cursor())
	s.state.Store(int32(Stopped))

	b, err := sink.Bind(s, t.SampleRate())
	if err != nil {
		return nil, fmt.Errorf("binding output: %w", err)
	}
	s.binding = b

	return s, nil
}

// Stream fills samples with processed audio. Unless the session is
// Playing it writes silence and leaves the cursor alone. Past the end of
// the buffer it writes silence and moves the session to Stopped.
func (s *Session) Stream(samples [][2]float64) (int, bool) {
	if s.State() != Playing {
		clear(samples)
		return len(samples), true
	}

	ch := s.cursor.Channels()
	per := len(s.scratch) / ch
	filled := 0

	for filled < len(samples) {
		want := min(len(samples)-filled, per) * ch
		n := s.cursor.Read(s.scratch, 0, want)
		if n == 0 {
			break
		}

		s.chain.Process(s.scratch, 0, n)

		frames := n / ch
		for i := range frames {
			l := float64(s.scratch[i*ch])
			r := l
			if ch > 1 {
				r = float64(s.scratch[i*ch+1])
			}
			samples[filled+i] = [2]float64{l, r}
		}
		filled += frames
	}

	if filled < len(samples) {
		clear(samples[filled:])
		s.ended.Store(true)
		s.state.CompareAndSwap(int32(Playing), int32(Stopped))
	}

	return len(samples), true
}

func (s *Session) Err() error { return nil }

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) Generation() uint64 { return s.generation }

// Ended reports whether playback has run off the end of the buffer.
func (s *Session) Ended() bool { return s.ended.Load() }

// Play starts or resumes output. A session that reached the end restarts
// from the first frame.
func (s *Session) Play() {
	switch s.State() {
	case Closed, Playing:
		return
	}

	if s.ended.Load() {
		s.cursor.Seek(0)
		s.ended.Store(false)
	}
	s.state.Store(int32(Playing))
	s.binding.Start()
}

// Pause halts output. It has no effect unless the session is playing.
func (s *Session) Pause() {
	if !s.state.CompareAndSwap(int32(Playing), int32(Paused)) {
		return
	}
	s.binding.Pause()
}

// Position returns the current frame, clamped to the last frame.
func (s *Session) Position() int64 {
	last := max(s.cursor.Frames()-1, 0)
	return min(s.cursor.Frame(), last)
}

// Seek moves the cursor. It does not change the state.
func (s *Session) Seek(frame int64) {
	s.cursor.Seek(frame)
	s.ended.Store(false)
}

// Close releases the device binding. The sink will not pull the session
// again once Close returns.
func (s *Session) Close() {
	if State(s.state.Swap(int32(Closed))) == Closed {
		return
	}
	s.binding.Close()
}
