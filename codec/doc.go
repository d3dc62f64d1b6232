// SPDX-License-Identifier: EPL-2.0

// Package codec turns an arbitrary audio file into canonical PCM.
//
// A Bridge picks a decoder by file extension, falls back to ffmpeg for
// everything else, optionally resamples and folds to mono, and writes the
// result to a fresh artifact in the cache store. The artifact is then read
// back into memory, so a track never depends on the file it came from.
//
//	b := codec.NewBridge(codec.DefaultRegistry())
//	dec, err := b.Ingest(ctx, "song.mp3", store)
package codec
