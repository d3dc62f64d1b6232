// SPDX-License-Identifier: EPL-2.0

// Package track holds the in-memory model of one loaded audio clip.
//
// A Track is not safe for concurrent use; the engine serializes access
// with a per-track lock. Every frame-indexed field is re-clamped after
// each mutation so it always lies in [0, TotalFrames-1], or is 0 when the
// track is empty.
package track

import (
	"time"

	"github.com/ik5/audtrack/effects"
)

// Range is an inclusive pair of frame indices.
type Range struct {
	Left  int64
	Right int64
}

// Meta describes where the samples came from.
type Meta struct {
	Name     string
	Path     string
	Format   string
	BitDepth int
	// Artifact is the owned canonical PCM file backing the samples.
	Artifact string
}

type Track struct {
	meta Meta

	samples    []float32
	channels   int
	sampleRate int
	generation uint64

	cursor    int64
	selection Range
	visible   Range

	chain *effects.Chain
}

// New builds a track over samples. A trailing partial frame is dropped.
func New(samples []float32, sampleRate, channels int, meta Meta) *Track {
	if channels <= 0 {
		channels = 1
	}

	t := &Track{
		meta:       meta,
		channels:   channels,
		sampleRate: sampleRate,
		chain:      effects.NewChain(),
	}
	t.setSamples(samples)
	t.visible = t.FullRange()

	return t
}

func (t *Track) setSamples(samples []float32) {
	t.samples = samples[:len(samples)-len(samples)%t.channels]
	t.generation++
}

func (t *Track) Meta() Meta            { return t.meta }
func (t *Track) Samples() []float32    { return t.samples }
func (t *Track) Channels() int         { return t.channels }
func (t *Track) SampleRate() int       { return t.sampleRate }
func (t *Track) Chain() *effects.Chain { return t.chain }

// Generation identifies the current sample buffer. It changes every time
// the buffer is replaced.
func (t *Track) Generation() uint64 { return t.generation }

func (t *Track) TotalFrames() int64 {
	return int64(len(t.samples) / t.channels)
}

func (t *Track) Empty() bool { return len(t.samples) == 0 }

// Duration is TotalFrames divided by the sample rate.
func (t *Track) Duration() time.Duration {
	if t.sampleRate <= 0 {
		return 0
	}
	return time.Duration(t.TotalFrames() * int64(time.Second) / int64(t.sampleRate))
}

// FullRange spans the whole track.
func (t *Track) FullRange() Range {
	return Range{Left: 0, Right: t.ClampFrame(t.TotalFrames() - 1)}
}

// ClampFrame limits frame to [0, TotalFrames-1], or 0 for an empty track.
func (t *Track) ClampFrame(frame int64) int64 {
	last := t.TotalFrames() - 1
	if last < 0 || frame < 0 {
		return 0
	}
	return min(frame, last)
}

func (t *Track) clampRange(r Range) Range {
	return Range{Left: t.ClampFrame(r.Left), Right: t.ClampFrame(r.Right)}
}

func (t *Track) Cursor() int64 { return t.cursor }

// SetCursor stores the clamped frame and returns it.
func (t *Track) SetCursor(frame int64) int64 {
	t.cursor = t.ClampFrame(frame)
	return t.cursor
}

func (t *Track) Selection() Range { return t.selection }

// SetSelection stores r clamped to the track and returns it.
func (t *Track) SetSelection(r Range) Range {
	t.selection = t.clampRange(r)
	return t.selection
}

func (t *Track) VisibleRange() Range { return t.visible }

// SetVisibleRange stores r clamped to the track and returns it.
func (t *Track) SetVisibleRange(r Range) Range {
	t.visible = t.clampRange(r)
	return t.visible
}

// Replace swaps in a new buffer with the same layout and re-clamps every
// frame-indexed field. The visible range keeps its edges where they still
// fit and restarts at frame zero when its left edge falls past the end.
func (t *Track) Replace(samples []float32) {
	t.setSamples(samples)

	t.cursor = t.ClampFrame(t.cursor)
	t.selection = t.clampRange(t.selection)

	t.visible = t.reclampView(t.visible)
}

// reclampView fits a view into the current buffer. A left edge past the
// end restarts the view at frame zero.
func (t *Track) reclampView(v Range) Range {
	total := t.TotalFrames()
	if total == 0 {
		return t.FullRange()
	}

	if v.Left >= total {
		v.Left = 0
	}
	v.Left = t.ClampFrame(v.Left)
	v.Right = min(max(v.Right, v.Left), total-1)

	return v
}
