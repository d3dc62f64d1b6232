// SPDX-License-Identifier: EPL-2.0

package playback

// State is the lifecycle state of a track's playback.
type State int32

const (
	Closed State = iota
	Stopped
	Playing
	Paused
)

var stateNames = [...]string{
	Closed:  "closed",
	Stopped: "stopped",
	Playing: "playing",
	Paused:  "paused",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
