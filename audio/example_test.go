// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"context"
	"fmt"
	"io"

	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/internal/audiotest"
)

// Example_resampler converts one second of 44.1 kHz audio to 16 kHz.
func Example_resampler() {
	source := audiotest.NewSineSource(44100, 1, 44100, 440.0)
	resampler := audio.NewResampler(source, 16000)

	buf := make([]float32, 4096)
	total := 0
	for {
		n, err := resampler.ReadSamples(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}

	fmt.Printf("Output sample rate: %d Hz\n", resampler.SampleRate())
	fmt.Printf("Total samples read: %d\n", total)
	// Output:
	// Output sample rate: 16000 Hz
	// Total samples read: 16000
}

// Example_processingChain resamples stereo audio and folds it to mono.
func Example_processingChain() {
	source := audiotest.NewSineSource(48000, 2, 48000, 440.0)
	mono := audio.NewMonoMixer(audio.NewResampler(source, 8000))

	samples, err := audio.ReadAll(context.Background(), mono, 0)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Channels: %d\n", mono.Channels())
	fmt.Printf("Duration: %.2f seconds\n", float64(len(samples))/float64(mono.SampleRate()))
	// Output:
	// Channels: 1
	// Duration: 1.00 seconds
}

type toneDecoder struct{}

func (toneDecoder) Decode(io.Reader) (audio.Source, error) {
	return audiotest.NewSineSource(16000, 1, 1000, 440.0), nil
}

// Example_registry looks decoders up by file extension.
func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("tone", toneDecoder{})

	if _, ok := registry.Get(".TONE"); ok {
		fmt.Println("found decoder for .TONE")
	}
	if _, ok := registry.Get("mp3"); !ok {
		fmt.Println("mp3 is not registered")
	}
	fmt.Println(registry.Formats())
	// Output:
	// found decoder for .TONE
	// mp3 is not registered
	// [tone]
}
