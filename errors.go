// SPDX-License-Identifier: EPL-2.0

package audtrack

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSamples is returned when exporting an empty track.
	ErrNoSamples = errors.New("track has no samples")

	// ErrTrackNotFound is returned when a handle does not name an open
	// track.
	ErrTrackNotFound = errors.New("track not found")

	// ErrEngineClosed is returned by operations started after Shutdown.
	ErrEngineClosed = errors.New("engine is shut down")

	// ErrUnknownExportFormat is returned for an ExportFormat outside the
	// declared constants.
	ErrUnknownExportFormat = errors.New("unknown export format")
)

// DecodeError reports a source that could not be opened. No track is
// created when it is returned.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ExportError reports a failed export. The track is left untouched.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("exporting %q: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// DeviceError reports that playback could not reach the output device.
// The track stays loaded and Play may be retried.
type DeviceError struct {
	Track Handle
	Err   error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("track %d: %v", e.Track, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }
