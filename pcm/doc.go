// SPDX-License-Identifier: EPL-2.0

// Package pcm reads and writes the canonical cache artifact: a RIFF/WAVE
// file holding interleaved 32-bit IEEE float samples.
//
// The writer emits a fmt chunk with the WAVE_FORMAT_IEEE_FLOAT tag, a fact
// chunk with the frame count and a data chunk. Sizes are patched on Close,
// so the destination must be seekable:
//
//	f, _ := os.Create("track.wav")
//	w, err := pcm.NewWriter(f, 44100, 2)
//	...
//	err = w.Write(samples)
//	err = w.Close()
//
// Encode writes a complete file in one pass when all samples are already
// in memory and the destination cannot seek.
//
// The reader walks chunks with github.com/go-audio/riff and accepts both
// the plain float tag and WAVE_FORMAT_EXTENSIBLE with a float sub-format.
// A data chunk sized 0 or 0xFFFFFFFF is read until EOF, which is what
// encoders writing to a pipe produce.
package pcm
