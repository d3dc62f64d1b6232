// SPDX-License-Identifier: EPL-2.0

package audtrack

import (
	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrack/edit"
	"github.com/ik5/audtrack/track"
)

// Clip removes the inclusive frame range [start, end] from the track and
// returns the number of frames removed. Any playback session is torn
// down before the buffer changes; the next Play builds a new one.
// Degenerate ranges, empty tracks and unknown handles are no-ops.
func (e *Engine) Clip(h Handle, start, end int64) int64 {
	ent := e.acquire(h)
	if ent == nil {
		return 0
	}

	if _, _, ok := edit.Bounds(ent.track, start, end); !ok {
		ent.mu.Unlock()
		e.trackLog(h).WithFields(logrus.Fields{"start": start, "end": end}).Debug("clip ignored")
		return 0
	}

	ent.dropSession()
	removed := edit.Clip(ent.track, start, end)
	ent.peaks.Invalidate()
	frames := ent.track.TotalFrames()
	cursor := ent.track.Cursor()
	ent.mu.Unlock()

	e.trackLog(h).WithFields(logrus.Fields{
		"start":   start,
		"end":     end,
		"removed": removed,
		"frames":  frames,
	}).Info("clip")

	e.notifyBuffer(h)
	e.notifyPosition(h, cursor)

	return removed
}

// GetPeaks returns per-channel [min, max] pairs for blocks of
// samplesPerBlock frames. Results are cached until the buffer or the
// resolution changes and must not be modified. An empty track yields
// one empty slice per channel; an unknown handle yields nil.
func (e *Engine) GetPeaks(h Handle, samplesPerBlock int) [][]float32 {
	ent := e.acquire(h)
	if ent == nil {
		return nil
	}
	defer ent.mu.Unlock()

	t := ent.track
	return ent.peaks.Get(t.Generation(), t.Samples(), t.Channels(), samplesPerBlock)
}

// Selection returns the selected frame range.
func (e *Engine) Selection(h Handle) track.Range {
	ent := e.acquire(h)
	if ent == nil {
		return track.Range{}
	}
	defer ent.mu.Unlock()

	return ent.track.Selection()
}

// SetSelection stores r clamped to the track and returns it.
func (e *Engine) SetSelection(h Handle, r track.Range) track.Range {
	ent := e.acquire(h)
	if ent == nil {
		return track.Range{}
	}
	defer ent.mu.Unlock()

	return ent.track.SetSelection(r)
}

// VisibleRange returns the frame range shown by the viewport.
func (e *Engine) VisibleRange(h Handle) track.Range {
	ent := e.acquire(h)
	if ent == nil {
		return track.Range{}
	}
	defer ent.mu.Unlock()

	return ent.track.VisibleRange()
}

// SetVisibleRange stores r clamped to the track and returns the stored
// range.
func (e *Engine) SetVisibleRange(h Handle, r track.Range) track.Range {
	ent := e.acquire(h)
	if ent == nil {
		return track.Range{}
	}
	defer ent.mu.Unlock()

	return ent.track.SetVisibleRange(r)
}
