// SPDX-License-Identifier: EPL-2.0

// Package audtrack is an embeddable audio track engine.
//
// An Engine opens audio files into editable in-memory tracks, plays them
// through a chain of real-time effects, cuts frame ranges out of them and
// produces min/max peak data for waveform views. Tracks are addressed by
// a Handle; an unknown handle turns every operation into a no-op.
//
// # Opening tracks
//
// Every opened file is first converted to the canonical format,
// interleaved 32-bit float WAVE, and written to a fresh artifact in the
// cache directory. The track is then loaded from that artifact, never
// from the source file, and the artifact is deleted when the track is
// closed.
//
//	cfg, _ := config.Load()
//	eng, _ := audtrack.New(cfg)
//	defer eng.Shutdown()
//
//	h, err := eng.OpenTrack(ctx, "voice.mp3")
//	var de *audtrack.DecodeError
//	if errors.As(err, &de) {
//		// de.Path, de.Err
//	}
//
// WAV, MP3, Ogg Vorbis, AIFF and FLAC are decoded in-process (see the
// formats subpackages). Other extensions go through ffmpeg when
// Config.FFmpegPath names a binary.
//
// # Playback and effects
//
//	eng.AddEffect(h, "reverb")
//	eng.AddEffect(h, "graphic eq")
//	eq := eng.Effect(h, "graphic eq").(*effects.EqualizerUnit)
//	eq.SetBandGain(3, 6)
//
//	if err := eng.Play(h); err != nil {
//		// *DeviceError: the device is unavailable; retry later
//	}
//	pos := eng.GetPosition(h)
//	eng.Pause(h)
//
// Effect parameters may be changed while the track plays; the change is
// heard on the next device buffer. Adding or removing effects publishes
// a new chain without blocking the audio callback.
//
// # Editing and peaks
//
//	eng.Clip(h, 1000, 1999) // remove 1000 frames
//	peaks := eng.GetPeaks(h, 512)
//
// Clip stops any playback session of the track before it replaces the
// buffer. GetPeaks is cached per buffer and resolution.
//
// # Long operations
//
// OpenTrackAsync and ExportTrackAsync return a Task. Cancelling a task
// discards its result: a track that finished opening is closed and an
// exported file is removed.
package audtrack
