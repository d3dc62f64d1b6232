// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds synthetic sources shared by the package tests.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// MockSource generates audio on demand.
// It satisfies audio.Source without importing it.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	closed      bool
	failAfter   int // frames after which ReadSamples fails, -1 disables
	waveform    func(frame int, channel int) float32
}

// ErrInjected is returned by sources built with NewFailingSource.
var ErrInjected = errors.New("audiotest: injected read failure")

// NewMockSource creates a source of totalFrames frames whose sample values
// come from waveform(frame, channel).
func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		failAfter:   -1,
		waveform:    waveform,
	}
}

// NewSilentSource creates a source of zeros.
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalFrames, 0)
}

// NewSineSource creates a sine wave at frequency Hz on every channel.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a source holding value on every sample.
func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return value
	})
}

// NewSliceSource replays interleaved samples.
func NewSliceSource(sampleRate, channels int, samples []float32) *MockSource {
	return NewMockSource(sampleRate, channels, len(samples)/channels, func(frame int, ch int) float32 {
		return samples[frame*channels+ch]
	})
}

// NewFailingSource yields silence for failAfter frames and then ErrInjected.
func NewFailingSource(sampleRate, channels, failAfter int) *MockSource {
	m := NewSilentSource(sampleRate, channels, failAfter*2+1)
	m.failAfter = failAfter
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BitDepth() int   { return 32 }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds the generator.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.failAfter >= 0 && m.generated >= m.failAfter {
		return 0, ErrInjected
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	if m.failAfter >= 0 {
		frames = min(frames, m.failAfter-m.generated)
	}

	for f := range frames {
		idx := m.generated + f
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(idx, ch)
		}
	}

	m.generated += frames
	if m.generated >= m.totalFrames {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}
