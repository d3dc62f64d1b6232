// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile indicates the input is not a WAVE file.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedFormat indicates a compressed or otherwise unknown sample encoding.
	ErrUnsupportedFormat = errors.New("unsupported WAV sample format")

	// ErrUnsupportedBitDepth indicates an integer bit depth go-audio cannot decode.
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")
)
