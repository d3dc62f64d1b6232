// SPDX-License-Identifier: EPL-2.0

package utils

import (
	goaudio "github.com/go-audio/audio"
)

// Float32ToInt16 clamps x to [-1, 1] and scales it to the full int16 range,
// so -1 maps to math.MinInt16 and 1 to math.MaxInt16.
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return 32767
	case x <= -1:
		return -32768
	case x < 0:
		return int16(x * 32768)
	default:
		return int16(x * 32767)
	}
}

// IntScale returns the factor that maps a signed integer sample of the given
// bit depth into [-1, 1).
func IntScale(bitDepth int) float32 {
	return 1 / (float32(goaudio.IntMaxSignedValue(bitDepth)) + 1)
}

// IntsToFloat32 converts signed integer samples of bitDepth bits into dst
// and returns how many were written. 8-bit input is unsigned, as stored in
// WAVE files, and is re-centred first.
func IntsToFloat32(dst []float32, src []int, bitDepth int) int {
	n := min(len(dst), len(src))
	scale := IntScale(bitDepth)

	if bitDepth == 8 {
		for i := range n {
			dst[i] = float32(src[i]-128) * scale
		}
		return n
	}

	for i := range n {
		dst[i] = float32(src[i]) * scale
	}

	return n
}
