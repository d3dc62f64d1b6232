// SPDX-License-Identifier: EPL-2.0

// Package ffmpeg decodes any container the ffmpeg binary understands by
// asking it for 32-bit float WAVE on stdout.
//
// It backs every extension the in-process decoders do not cover. The
// binary is looked up on PATH unless Decoder.Binary names it.
package ffmpeg
