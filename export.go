// SPDX-License-Identifier: EPL-2.0

package audtrack

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrack/formats/wav"
	"github.com/ik5/audtrack/pcm"
)

const exportMode fs.FileMode = 0o644

// ExportFormat selects the sample encoding of an exported file.
type ExportFormat int

const (
	// FormatFloat32 is the canonical IEEE float WAVE format.
	FormatFloat32 ExportFormat = iota
	// FormatPCM16 is 16-bit integer WAVE, clamped to [-1, 1].
	FormatPCM16
)

func (f ExportFormat) String() string {
	switch f {
	case FormatFloat32:
		return "float32"
	case FormatPCM16:
		return "pcm16"
	default:
		return "unknown"
	}
}

// ExportTrack writes the track to dest in the canonical float format.
func (e *Engine) ExportTrack(ctx context.Context, h Handle, dest string) error {
	return e.ExportTrackAs(ctx, h, dest, FormatFloat32)
}

// ExportTrackAs writes the track to dest using format. Failures are
// returned as *ExportError; a file already at dest is only replaced by a
// complete export and survives any failure.
func (e *Engine) ExportTrackAs(ctx context.Context, h Handle, dest string, format ExportFormat) error {
	fail := func(err error) error {
		e.trackLog(h).WithError(err).WithField("path", dest).Warn("export failed")
		return &ExportError{Path: dest, Err: err}
	}

	if format != FormatFloat32 && format != FormatPCM16 {
		return fail(ErrUnknownExportFormat)
	}

	ent := e.acquire(h)
	if ent == nil {
		return fail(ErrTrackNotFound)
	}
	// Samples are replaced, never written in place, so the slice stays
	// valid after the lock is released.
	samples := ent.track.Samples()
	rate := ent.track.SampleRate()
	channels := ent.track.Channels()
	ent.mu.Unlock()

	if len(samples) == 0 {
		return fail(ErrNoSamples)
	}

	if err := e.workers.Acquire(ctx, 1); err != nil {
		return fail(err)
	}
	defer e.workers.Release(1)

	if err := e.writeExport(ctx, dest, format, rate, channels, samples); err != nil {
		return fail(err)
	}

	e.trackLog(h).WithFields(logrus.Fields{
		"path":   dest,
		"format": format.String(),
		"frames": len(samples) / channels,
	}).Info("track exported")

	return nil
}

// writeExport encodes into a temporary file next to dest and renames it
// over dest once everything is written. A failure or a cancelled ctx
// removes the temporary file and leaves dest untouched.
func (e *Engine) writeExport(ctx context.Context, dest string, format ExportFormat, rate, channels int, samples []float32) error {
	f, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", dest, err)
	}
	tmp := f.Name()

	switch format {
	case FormatPCM16:
		err = wav.WriteFloatAsPCM16(f, rate, channels, samples)
	default:
		bw := bufio.NewWriterSize(f, 64*1024)
		if err = pcm.Encode(bw, rate, channels, samples); err == nil {
			err = bw.Flush()
		}
	}
	if err == nil {
		err = f.Chmod(exportMode)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", tmp, cerr)
	}
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		if rerr := os.Rename(tmp, dest); rerr != nil {
			err = fmt.Errorf("renaming into %s: %w", dest, rerr)
		}
	}
	if err != nil {
		e.removeFile(tmp)
		return err
	}

	return nil
}

func (e *Engine) removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		e.log.WithError(err).WithField("path", path).Warn("removing export")
	}
}

// ExportTrackAsync runs ExportTrackAs in the background and yields dest.
// Cancelling the task after the export finished removes the file it
// wrote.
func (e *Engine) ExportTrackAsync(ctx context.Context, h Handle, dest string, format ExportFormat) *Task[string] {
	return startTask(ctx, func(ctx context.Context) (string, error) {
		if err := e.ExportTrackAs(ctx, h, dest, format); err != nil {
			return "", err
		}
		return dest, nil
	}, e.removeFile)
}
