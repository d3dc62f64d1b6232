// SPDX-License-Identifier: EPL-2.0

package audtrack

import (
	"github.com/ik5/audtrack/playback"
)

// live reports whether the session cursor is the authoritative position.
func live(s *playback.Session) bool {
	if s == nil {
		return false
	}
	st := s.State()
	return st == playback.Playing || st == playback.Paused
}

// dropSession tears the session down, keeping the position it reached.
// The caller holds ent.mu.
func (ent *entry) dropSession() {
	if ent.session == nil {
		return
	}
	if live(ent.session) {
		ent.track.SetCursor(ent.session.Position())
	}
	ent.session.Close()
	ent.session = nil
}

// Play starts or resumes playback. A session left over from an older
// buffer is rebuilt first. Playing an empty track or an unknown handle
// does nothing. Device failures are returned as *DeviceError.
func (e *Engine) Play(h Handle) error {
	ent := e.acquire(h)
	if ent == nil {
		return nil
	}
	defer ent.mu.Unlock()

	log := e.trackLog(h)
	if ent.track.Empty() {
		log.Debug("play ignored, track is empty")
		return nil
	}

	if ent.session != nil && ent.session.Generation() != ent.track.Generation() {
		log.Debug("rebuilding stale playback session")
		ent.dropSession()
	}

	if ent.session == nil {
		s, err := playback.NewSession(ent.track, e.sink)
		if err != nil {
			log.WithError(err).Warn("output device unavailable")
			return &DeviceError{Track: h, Err: err}
		}
		ent.session = s
	}

	ent.session.Play()
	log.WithField("frame", ent.session.Position()).Debug("play")

	return nil
}

// Pause halts a playing track and stores the position it reached.
func (e *Engine) Pause(h Handle) {
	ent := e.acquire(h)
	if ent == nil {
		return
	}

	if ent.session == nil || ent.session.State() != playback.Playing {
		ent.mu.Unlock()
		return
	}

	ent.session.Pause()
	frame := ent.track.SetCursor(ent.session.Position())
	ent.mu.Unlock()

	e.trackLog(h).WithField("frame", frame).Debug("pause")
	e.notifyPosition(h, frame)
}

// Stop ends playback and releases the output binding. The stored cursor
// keeps the position reached.
func (e *Engine) Stop(h Handle) {
	ent := e.acquire(h)
	if ent == nil {
		return
	}

	had := ent.session != nil
	ent.dropSession()
	frame := ent.track.Cursor()
	ent.mu.Unlock()

	if had {
		e.trackLog(h).WithField("frame", frame).Debug("stop")
		e.notifyPosition(h, frame)
	}
}

// GetPosition returns the live playback frame while a session is playing
// or paused, and the stored cursor otherwise.
func (e *Engine) GetPosition(h Handle) int64 {
	ent := e.acquire(h)
	if ent == nil {
		return 0
	}
	defer ent.mu.Unlock()

	if live(ent.session) {
		return ent.session.Position()
	}
	return ent.track.Cursor()
}

// SetPosition moves the stored cursor and any session to frame, clamped
// to the track, and returns the frame used.
func (e *Engine) SetPosition(h Handle, frame int64) int64 {
	ent := e.acquire(h)
	if ent == nil {
		return 0
	}

	frame = ent.track.SetCursor(frame)
	if ent.session != nil {
		ent.session.Seek(frame)
	}
	ent.mu.Unlock()

	e.notifyPosition(h, frame)

	return frame
}

// State reports the playback state of h. Unknown handles are Closed; a
// track that has never played is Stopped.
func (e *Engine) State(h Handle) playback.State {
	ent := e.acquire(h)
	if ent == nil {
		return playback.Closed
	}
	defer ent.mu.Unlock()

	if ent.session == nil {
		return playback.Stopped
	}
	return ent.session.State()
}
