// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/ik5/audtrack/audio"
)

// Probe reads only the header of the WAVE file at path.
func Probe(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h, _, err := ReadHeader(bufio.NewReader(f))
	if err != nil {
		return Header{}, fmt.Errorf("probing %s: %w", path, err)
	}

	return h, nil
}

// ReadFile loads every sample of the float WAVE file at path.
func ReadFile(ctx context.Context, path string) (Header, []float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h, data, err := ReadHeader(bufio.NewReader(f))
	if err != nil {
		return Header{}, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	src, err := NewSource(h, data)
	if err != nil {
		return h, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	hint := 0
	if frames := h.Frames(); frames > 0 {
		hint = int(frames) * h.Channels
	}

	samples, err := audio.ReadAll(ctx, src, hint)
	if err != nil {
		return h, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return h, samples, nil
}

// WriteFile writes samples to a new float WAVE file at path.
func WriteFile(path string, sampleRate, channels int, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	bw := bufio.NewWriterSize(f, 64*1024)
	if err := Encode(bw, sampleRate, channels, samples); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	return nil
}
