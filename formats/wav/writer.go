// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audtrack/utils"
)

// ErrInvalidLayout is returned for non-positive rates or channel counts.
var ErrInvalidLayout = errors.New("invalid sample rate or channel count")

// WritePCM16 encodes interleaved int16 samples as a 16-bit PCM WAVE file.
// A trailing partial frame is dropped.
func WritePCM16(ws io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	if sampleRate <= 0 || channels <= 0 {
		return ErrInvalidLayout
	}

	samples = samples[:len(samples)-len(samples)%channels]

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	enc := gowav.NewEncoder(ws, sampleRate, 16, channels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}

	return nil
}

// WriteFloatAsPCM16 clamps float samples to [-1, 1] and encodes them as
// 16-bit PCM.
func WriteFloatAsPCM16(ws io.WriteSeeker, sampleRate, channels int, samples []float32) error {
	ints := make([]int16, len(samples))
	for i, v := range samples {
		ints[i] = utils.Float32ToInt16(v)
	}

	return WritePCM16(ws, sampleRate, channels, ints)
}
