// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes WAVE files.
//
// Integer PCM (8, 16, 24 and 32 bit) is decoded with github.com/go-audio/wav;
// 32-bit IEEE float files are handed to the pcm package so the canonical
// cache artifact can be read back without conversion.
//
//	src, err := wav.Decoder{}.Decode(file)
//
// WritePCM16 encodes interleaved int16 samples with any channel count.
package wav
