// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/audtrack/internal/audiotest"
)

func TestMonoMixer_Metadata(t *testing.T) {
	t.Parallel()

	mixer := NewMonoMixer(audiotest.NewSilentSource(44100, 2, 100))

	if mixer.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", mixer.Channels())
	}
	if mixer.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", mixer.SampleRate())
	}
	if mixer.BitDepth() != 32 {
		t.Errorf("BitDepth() = %d, want 32", mixer.BitDepth())
	}
}

func TestMonoMixer_Averages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		value    func(frame, ch int) float32
		want     float32
	}{
		{"mono passthrough", 1, func(int, int) float32 { return 0.3 }, 0.3},
		{"stereo opposite", 2, func(_ int, ch int) float32 { return float32(1 - 2*ch) }, 0},
		{"stereo one side", 2, func(_ int, ch int) float32 { return float32(ch) }, 0.5},
		{"quad", 4, func(_ int, ch int) float32 { return float32(ch) * 0.25 }, 0.375},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mixer := NewMonoMixer(audiotest.NewMockSource(8000, tt.channels, 64, tt.value))
			buf := make([]float32, 64)

			n, err := mixer.ReadSamples(buf)
			if err != nil && !errors.Is(err, io.EOF) {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != 64 {
				t.Fatalf("ReadSamples() n = %d, want 64", n)
			}
			for i := range n {
				if math.Abs(float64(buf[i]-tt.want)) > 1e-6 {
					t.Fatalf("buf[%d] = %v, want %v", i, buf[i], tt.want)
				}
			}
		})
	}
}

func TestMonoMixer_EOF(t *testing.T) {
	t.Parallel()

	mixer := NewMonoMixer(audiotest.NewSilentSource(8000, 2, 10))
	buf := make([]float32, 100)

	n, err := mixer.ReadSamples(buf)
	if n != 10 {
		t.Errorf("first read n = %d, want 10", n)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("first read error = %v", err)
	}

	n, err = mixer.ReadSamples(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("second read = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestMonoMixer_EmptyDst(t *testing.T) {
	t.Parallel()

	mixer := NewMonoMixer(audiotest.NewSilentSource(8000, 2, 10))

	n, err := mixer.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestMonoMixer_ReusesBuffer(t *testing.T) {
	src := audiotest.NewSineSource(8000, 2, 1<<20, 440)
	mixer := NewMonoMixer(src)
	buf := make([]float32, 1024)
	_, _ = mixer.ReadSamples(buf)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = mixer.ReadSamples(buf)
	})

	if allocs > 0 {
		t.Errorf("ReadSamples() allocated %.0f times per run, want 0", allocs)
	}
}

func BenchmarkMonoMixer_Stereo(b *testing.B) {
	src := audiotest.NewSineSource(44100, 2, 1<<30, 440)
	mixer := NewMonoMixer(src)
	buf := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = mixer.ReadSamples(buf)
	}
}
