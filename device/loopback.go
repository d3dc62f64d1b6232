// SPDX-License-Identifier: EPL-2.0

package device

import (
	"slices"
	"sync"

	"github.com/faiface/beep"
)

// Loopback is a sink pulled by its owner instead of a hardware clock.
type Loopback struct {
	mu          sync.Mutex
	bindings    []*loopBinding
	unavailable error
}

// NewLoopback returns a sink with no bindings.
func NewLoopback() *Loopback {
	return &Loopback{}
}

// SetUnavailable makes subsequent Bind calls fail with err. A nil err
// makes the sink available again.
func (l *Loopback) SetUnavailable(err error) {
	l.mu.Lock()
	l.unavailable = err
	l.mu.Unlock()
}

func (l *Loopback) Bind(s beep.Streamer, sampleRate int) (Binding, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidRate
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.unavailable != nil {
		return nil, l.unavailable
	}

	b := &loopBinding{sink: l, streamer: s}
	l.bindings = append(l.bindings, b)

	return b, nil
}

// Bound returns the number of open bindings.
func (l *Loopback) Bound() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bindings)
}

// Pull streams frames from every started binding and returns their sum.
// Paused bindings contribute silence.
func (l *Loopback) Pull(frames int) [][2]float64 {
	out := make([][2]float64, frames)
	tmp := make([][2]float64, frames)

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, b := range l.bindings {
		if !b.started {
			continue
		}
		n, _ := b.streamer.Stream(tmp)
		for i := range n {
			out[i][0] += tmp[i][0]
			out[i][1] += tmp[i][1]
		}
	}

	return out
}

type loopBinding struct {
	sink     *Loopback
	streamer beep.Streamer
	started  bool
}

func (b *loopBinding) Start() {
	b.sink.mu.Lock()
	b.started = true
	b.sink.mu.Unlock()
}

func (b *loopBinding) Pause() {
	b.sink.mu.Lock()
	b.started = false
	b.sink.mu.Unlock()
}

func (b *loopBinding) Close() {
	l := b.sink
	l.mu.Lock()
	defer l.mu.Unlock()

	b.started = false
	l.bindings = slices.DeleteFunc(l.bindings, func(o *loopBinding) bool { return o == b })
}
