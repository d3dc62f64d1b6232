// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III streams with
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit little-endian stereo, so mono files come
// out with both channels equal. Fold them with audio.NewMonoMixer when a
// single channel is wanted.
//
//	src, err := mp3.Decoder{}.Decode(file)
package mp3
