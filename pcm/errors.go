// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

var (
	// ErrNotWave indicates the input is not a RIFF/WAVE stream.
	ErrNotWave = errors.New("not a RIFF/WAVE stream")

	// ErrMissingFormat indicates the data chunk came before any fmt chunk.
	ErrMissingFormat = errors.New("WAVE stream has no fmt chunk")

	// ErrMissingData indicates the stream ended without a data chunk.
	ErrMissingData = errors.New("WAVE stream has no data chunk")

	// ErrNotFloat indicates the samples are not 32-bit IEEE float.
	ErrNotFloat = errors.New("WAVE samples are not 32-bit float")

	// ErrInvalidFormat indicates a malformed fmt chunk.
	ErrInvalidFormat = errors.New("invalid WAVE fmt chunk")

	// ErrWriterClosed is returned by Write after Close.
	ErrWriterClosed = errors.New("pcm writer is closed")
)
