// SPDX-License-Identifier: EPL-2.0

// Package device connects playback streams to an output sink.
//
// A Sink binds a beep.Streamer and pulls it from its own callback at the
// sink's cadence. Speaker drives the system audio device through
// beep/speaker; Loopback is pulled on demand and suits headless use.
//
// A Binding starts paused. Close guarantees the streamer is not running
// and will never be called again once it returns.
package device
