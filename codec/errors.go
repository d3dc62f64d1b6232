// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	// ErrUnsupportedFormat indicates no decoder handles the file extension.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrInvalidLayout indicates a decoder reported a non-positive rate or channel count.
	ErrInvalidLayout = errors.New("decoded stream has invalid layout")
)
