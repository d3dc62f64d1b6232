// SPDX-License-Identifier: EPL-2.0

// Package peaks reduces interleaved samples to per-channel min/max pairs
// for waveform rendering.
package peaks

import "sync"

// Blocks returns the number of blocks needed to cover frames.
func Blocks(frames int64, samplesPerBlock int) int64 {
	if frames <= 0 {
		return 0
	}
	spb := int64(max(samplesPerBlock, 1))
	return (frames + spb - 1) / spb
}

// Extract returns one slice per channel laid out as
// [min0, max0, min1, max1, ...]. Block i covers frames
// [i*samplesPerBlock, (i+1)*samplesPerBlock) clipped to the buffer end.
// A samplesPerBlock below 1 is treated as 1.
func Extract(samples []float32, channels, samplesPerBlock int) [][]float32 {
	if channels <= 0 {
		return nil
	}
	spb := max(samplesPerBlock, 1)
	frames := int64(len(samples) / channels)
	blocks := Blocks(frames, spb)

	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, 2*blocks)
	}

	for b := int64(0); b < blocks; b++ {
		first := b * int64(spb)
		last := min(first+int64(spb), frames)

		for ch := range channels {
			if first >= last {
				continue
			}
			lo := samples[first*int64(channels)+int64(ch)]
			hi := lo
			for f := first + 1; f < last; f++ {
				v := samples[f*int64(channels)+int64(ch)]
				lo = min(lo, v)
				hi = max(hi, v)
			}
			out[ch][2*b] = lo
			out[ch][2*b+1] = hi
		}
	}

	return out
}

type key struct {
	generation uint64
	spb        int
}

// Cache remembers the last extraction for one track. It is rebuilt from
// the samples, never rescaled, when the buffer generation or the
// resolution changes.
type Cache struct {
	mu    sync.Mutex
	valid bool
	key   key
	peaks [][]float32
}

// Get returns peaks for samples at samplesPerBlock, extracting them only
// if generation or samplesPerBlock differ from the cached entry. The
// returned slices are shared and must not be modified.
func (c *Cache) Get(generation uint64, samples []float32, channels, samplesPerBlock int) [][]float32 {
	k := key{generation: generation, spb: max(samplesPerBlock, 1)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.key == k {
		return c.peaks
	}

	c.peaks = Extract(samples, channels, k.spb)
	c.key = k
	c.valid = true

	return c.peaks
}

// Invalidate drops the cached entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.peaks = nil
	c.mu.Unlock()
}
