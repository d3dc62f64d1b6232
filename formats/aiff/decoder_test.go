// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockAiffReader simulates aiff.Decoder.PCMBuffer.
type mockAiffReader struct {
	samples []int
	err     error
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := copy(buf.Data, m.samples)
	m.samples = m.samples[n:]
	return n, nil
}

func newTestSource(bitDepth, channels int, samples ...int) *source {
	return &source{
		dec:        &mockAiffReader{samples: samples},
		sampleRate: 44100,
		channels:   channels,
		bitDepth:   bitDepth,
		intBuf:     &goaudio.IntBuffer{Data: make([]int, 2)},
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("This is not AIFF data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := (Decoder{}).Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotAiffFile) {
				t.Errorf("Decode() error = %v, want ErrNotAiffFile", err)
			}
		})
	}
}

func TestSource_BitDepthScaling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		input    int
		want     float32
	}{
		{"8-bit signed", 8, -64, -0.5},
		{"16-bit", 16, 16384, 0.5},
		{"24-bit", 24, -8388608, -1},
		{"32-bit", 32, 1 << 30, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newTestSource(tt.bitDepth, 1, tt.input)
			buf := make([]float32, 4)

			n, err := src.ReadSamples(buf)
			if n != 1 || !errors.Is(err, io.EOF) {
				t.Fatalf("ReadSamples() = (%d, %v), want (1, EOF)", n, err)
			}
			if buf[0] != tt.want {
				t.Errorf("sample = %v, want %v", buf[0], tt.want)
			}
		})
	}
}

func TestSource_GrowsBuffer(t *testing.T) {
	t.Parallel()

	src := newTestSource(16, 2, 1, 2, 3, 4, 5, 6, 7, 8)

	n, err := src.ReadSamples(make([]float32, 6))
	if n != 6 || err != nil {
		t.Fatalf("ReadSamples() = (%d, %v), want (6, nil)", n, err)
	}
	if src.BufSize() < 6 {
		t.Errorf("BufSize() = %d, want >= 6", src.BufSize())
	}
}

func TestSource_DecoderError(t *testing.T) {
	t.Parallel()

	src := newTestSource(16, 1)
	src.dec = &mockAiffReader{err: io.ErrUnexpectedEOF}

	if _, err := src.ReadSamples(make([]float32, 2)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want ErrUnexpectedEOF", err)
	}
}
