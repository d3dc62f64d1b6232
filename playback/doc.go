// SPDX-License-Identifier: EPL-2.0

// Package playback streams a track's samples through its effect chain to
// a device sink.
//
// A Session owns one Cursor over one sample buffer. The sink pulls the
// session from its real-time callback; that path takes no locks and does
// not allocate. Control methods (Play, Pause, Seek, Close) are meant to
// be serialized by the caller.
package playback
