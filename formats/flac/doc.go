// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files through github.com/faiface/beep/flac.
//
// beep streams stereo float64 pairs; mono files are unpacked back to one
// channel so the track keeps the layout of the file on disk.
package flac
