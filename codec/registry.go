// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/formats/aiff"
	"github.com/ik5/audtrack/formats/flac"
	"github.com/ik5/audtrack/formats/mp3"
	"github.com/ik5/audtrack/formats/vorbis"
	"github.com/ik5/audtrack/formats/wav"
)

// DefaultRegistry maps the extensions decoded in-process.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()

	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("flac", flac.Decoder{})

	return r
}
