// SPDX-License-Identifier: EPL-2.0

package device

import "github.com/faiface/beep"

// Sink is an output that pulls streams bound to it.
type Sink interface {
	// Bind attaches s, producing audio at sampleRate, to the sink.
	Bind(s beep.Streamer, sampleRate int) (Binding, error)
}

// Binding controls one bound stream.
type Binding interface {
	Start()
	Pause()
	Close()
}
