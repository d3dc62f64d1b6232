// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	// ErrDeviceUnavailable is returned when the output device cannot be
	// opened.
	ErrDeviceUnavailable = errors.New("output device unavailable")

	// ErrInvalidRate is returned when a stream is bound with a
	// non-positive sample rate.
	ErrInvalidRate = errors.New("invalid sample rate")
)
