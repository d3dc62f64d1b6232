// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	DefaultRate    = 44100
	DefaultBuffer  = 100 * time.Millisecond
	DefaultQuality = 4
)

// Speaker plays through the system audio device. The device is opened
// once, on the first Bind, at a fixed rate; streams at other rates are
// resampled.
type Speaker struct {
	rate    beep.SampleRate
	buffer  time.Duration
	quality int

	once    sync.Once
	initErr error
}

// NewSpeaker returns a sink for the system device. Zero values select
// the defaults.
func NewSpeaker(rate int, buffer time.Duration, quality int) *Speaker {
	if rate <= 0 {
		rate = DefaultRate
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if quality < 1 || quality > 64 {
		quality = DefaultQuality
	}

	return &Speaker{
		rate:    beep.SampleRate(rate),
		buffer:  buffer,
		quality: quality,
	}
}

func (s *Speaker) init() error {
	s.once.Do(func() {
		s.initErr = speaker.Init(s.rate, s.rate.N(s.buffer))
	})
	return s.initErr
}

// Rate is the device sample rate.
func (s *Speaker) Rate() int { return int(s.rate) }

func (s *Speaker) Bind(st beep.Streamer, sampleRate int) (Binding, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidRate
	}
	if err := s.init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	if src := beep.SampleRate(sampleRate); src != s.rate {
		st = beep.Resample(s.quality, src, s.rate, st)
	}

	ctrl := &beep.Ctrl{Streamer: st, Paused: true}
	speaker.Play(ctrl)

	return &speakerBinding{ctrl: ctrl}, nil
}

type speakerBinding struct {
	ctrl *beep.Ctrl
}

func (b *speakerBinding) Start() {
	speaker.Lock()
	if b.ctrl.Streamer != nil {
		b.ctrl.Paused = false
	}
	speaker.Unlock()
}

func (b *speakerBinding) Pause() {
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
}

// Close detaches the stream. The mixer drops a Ctrl whose streamer is
// nil on its next pull.
func (b *speakerBinding) Close() {
	speaker.Lock()
	b.ctrl.Streamer = nil
	b.ctrl.Paused = true
	speaker.Unlock()
}
