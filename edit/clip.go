// SPDX-License-Identifier: EPL-2.0

// Package edit implements destructive edits on a track's sample buffer.
package edit

import "github.com/ik5/audtrack/track"

// Bounds normalizes a clip range against t. It reports false when the
// range misses the track entirely or the track is empty.
func Bounds(t *track.Track, start, end int64) (int64, int64, bool) {
	total := t.TotalFrames()
	if total == 0 {
		return 0, 0, false
	}

	if start > end {
		start, end = end, start
	}
	if end < 0 || start >= total {
		return 0, 0, false
	}

	return t.ClampFrame(start), t.ClampFrame(end), true
}

// Clip removes the inclusive frame range between start and end from t.
//
// The bounds may be given in either order and are clamped to the track.
// Clip reports the number of frames removed; zero means nothing changed.
// The cursor keeps pointing at the same audio when it lay after the range
// and moves to the splice point when it lay inside it. The selection is
// reset.
func Clip(t *track.Track, start, end int64) int64 {
	start, end, ok := Bounds(t, start, end)
	if !ok {
		return 0
	}

	removed := end - start + 1
	ch := int64(t.Channels())
	old := t.Samples()

	next := make([]float32, 0, (t.TotalFrames()-removed)*ch)
	next = append(next, old[:start*ch]...)
	next = append(next, old[(end+1)*ch:]...)

	cursor := t.Cursor()
	switch {
	case cursor > end:
		cursor -= removed
	case cursor >= start:
		cursor = start
	}

	t.Replace(next)
	t.SetCursor(cursor)
	t.SetSelection(track.Range{})

	return removed
}
