// SPDX-License-Identifier: EPL-2.0

package audtrack

import (
	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrack/effects"
)

// AddEffect appends a new unit of the kind called name to the track's
// chain. Unknown names, duplicates and unknown handles are ignored; the
// result reports whether a unit was added.
func (e *Engine) AddEffect(h Handle, name string) bool {
	kind, ok := effects.ParseKind(name)
	if !ok {
		e.trackLog(h).WithField("effect", name).Debug("unknown effect ignored")
		return false
	}

	ent := e.acquire(h)
	if ent == nil {
		return false
	}
	t := ent.track
	added := t.Chain().Add(effects.New(kind, t.SampleRate(), t.Channels()))
	ent.mu.Unlock()

	e.trackLog(h).WithFields(logrus.Fields{
		"effect": kind.String(),
		"added":  added,
	}).Debug("add effect")

	return added
}

// RemoveEffect drops the unit called name and reports whether one was
// removed. Removing an absent unit is a no-op.
func (e *Engine) RemoveEffect(h Handle, name string) bool {
	ent := e.acquire(h)
	if ent == nil {
		return false
	}
	removed := ent.track.Chain().Remove(name)
	ent.mu.Unlock()

	e.trackLog(h).WithFields(logrus.Fields{
		"effect":  name,
		"removed": removed,
	}).Debug("remove effect")

	return removed
}

// Effects returns the track's chain in processing order.
func (e *Engine) Effects(h Handle) []effects.Unit {
	ent := e.acquire(h)
	if ent == nil {
		return nil
	}
	defer ent.mu.Unlock()

	return ent.track.Chain().Units()
}

// Effect returns the unit called name for parameter editing, or nil.
// Setters on the returned unit take effect on the next processed buffer.
func (e *Engine) Effect(h Handle, name string) effects.Unit {
	ent := e.acquire(h)
	if ent == nil {
		return nil
	}
	defer ent.mu.Unlock()

	return ent.track.Chain().Find(name)
}
