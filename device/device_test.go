// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constStreamer struct {
	v     float64
	calls int
}

func (c *constStreamer) Stream(samples [][2]float64) (int, bool) {
	c.calls++
	for i := range samples {
		samples[i] = [2]float64{c.v, -c.v}
	}
	return len(samples), true
}

func (c *constStreamer) Err() error { return nil }

func TestLoopback_StartsPaused(t *testing.T) {
	t.Parallel()

	sink := NewLoopback()
	st := &constStreamer{v: 0.5}

	b, err := sink.Bind(st, 8000)
	require.NoError(t, err)

	out := sink.Pull(4)
	assert.Equal(t, make([][2]float64, 4), out)
	assert.Zero(t, st.calls)

	b.Start()
	out = sink.Pull(4)
	assert.Equal(t, [2]float64{0.5, -0.5}, out[3])

	b.Pause()
	sink.Pull(4)
	assert.Equal(t, 1, st.calls)
}

func TestLoopback_Mixes(t *testing.T) {
	t.Parallel()

	sink := NewLoopback()
	for _, v := range []float64{0.25, 0.5} {
		b, err := sink.Bind(&constStreamer{v: v}, 8000)
		require.NoError(t, err)
		b.Start()
	}

	out := sink.Pull(2)
	assert.InDelta(t, 0.75, out[0][0], 1e-12)
	assert.InDelta(t, -0.75, out[1][1], 1e-12)
}

func TestLoopback_CloseDetaches(t *testing.T) {
	t.Parallel()

	sink := NewLoopback()
	st := &constStreamer{v: 1}
	b, err := sink.Bind(st, 8000)
	require.NoError(t, err)
	b.Start()
	assert.Equal(t, 1, sink.Bound())

	b.Close()
	b.Close()
	assert.Zero(t, sink.Bound())

	sink.Pull(8)
	assert.Zero(t, st.calls)
}

func TestLoopback_Unavailable(t *testing.T) {
	t.Parallel()

	sink := NewLoopback()
	sink.SetUnavailable(ErrDeviceUnavailable)

	_, err := sink.Bind(&constStreamer{}, 8000)
	assert.True(t, errors.Is(err, ErrDeviceUnavailable))

	sink.SetUnavailable(nil)
	_, err = sink.Bind(&constStreamer{}, 8000)
	assert.NoError(t, err)
}

func TestBind_InvalidRate(t *testing.T) {
	t.Parallel()

	_, err := NewLoopback().Bind(&constStreamer{}, 0)
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = NewSpeaker(0, 0, 0).Bind(&constStreamer{}, -1)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestNewSpeaker_Defaults(t *testing.T) {
	t.Parallel()

	s := NewSpeaker(0, 0, 99)
	assert.Equal(t, DefaultRate, s.Rate())
	assert.Equal(t, DefaultBuffer, s.buffer)
	assert.Equal(t, DefaultQuality, s.quality)
}
