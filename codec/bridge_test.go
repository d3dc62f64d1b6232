// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audtrack/cache"
	"github.com/ik5/audtrack/formats/wav"
	"github.com/ik5/audtrack/pcm"
)

func newStore(t *testing.T) *cache.Store {
	t.Helper()

	s, err := cache.NewStore(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	return s
}

func storeEntries(t *testing.T, s *cache.Store) []os.DirEntry {
	t.Helper()

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	return entries
}

func writeInt16(t *testing.T, rate, channels, frames int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "int16.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	samples := make([]int16, frames*channels)
	for i := range samples {
		samples[i] = int16(i % 1000)
	}
	require.NoError(t, wav.WritePCM16(f, rate, channels, samples))
	require.NoError(t, f.Close())

	return path
}

func writeFloat(t *testing.T, rate, channels int, samples []float32) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "float.wav")
	require.NoError(t, pcm.WriteFile(path, rate, channels, samples))
	return path
}

func TestIngest_IntegerWave(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	src := writeInt16(t, 22050, 2, 2205)

	got, err := NewBridge(nil).Ingest(context.Background(), src, store)
	require.NoError(t, err)

	assert.Equal(t, 22050, got.SampleRate)
	assert.Equal(t, 2, got.Channels)
	assert.Equal(t, 16, got.BitDepth)
	assert.Equal(t, 2205, got.Frames())
	assert.Equal(t, 100*time.Millisecond, got.Duration)
	assert.Equal(t, "wav", got.Format)
	assert.True(t, store.Owns(got.Artifact))

	h, err := pcm.Probe(got.Artifact)
	require.NoError(t, err)
	assert.True(t, h.IsFloat32())
}

func TestIngest_FloatWaveIsCopied(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	samples := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}
	src := writeFloat(t, 48000, 2, samples)

	got, err := NewBridge(nil).Ingest(context.Background(), src, store)
	require.NoError(t, err)

	assert.NotEqual(t, src, got.Artifact)
	assert.True(t, store.Owns(got.Artifact))
	assert.Equal(t, samples, got.Samples)
	assert.Equal(t, 32, got.BitDepth)

	want, err := os.ReadFile(src)
	require.NoError(t, err)
	have, err := os.ReadFile(got.Artifact)
	require.NoError(t, err)
	assert.Equal(t, want, have)
}

func TestIngest_Normalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		opts         []Option
		wantRate     int
		wantChannels int
		wantFrames   int
	}{
		{"native", nil, 16000, 2, 1600},
		{"resample", []Option{WithSampleRate(8000)}, 8000, 2, 800},
		{"mono", []Option{WithMono(true)}, 16000, 1, 1600},
		{"both", []Option{WithSampleRate(8000), WithMono(true)}, 8000, 1, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newStore(t)
			src := writeInt16(t, 16000, 2, 1600)

			got, err := NewBridge(nil, tt.opts...).Ingest(context.Background(), src, store)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRate, got.SampleRate)
			assert.Equal(t, tt.wantChannels, got.Channels)
			assert.Equal(t, tt.wantFrames, got.Frames())
		})
	}
}

func TestIngest_FloatWaveNeedingResampleIsConverted(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	src := writeFloat(t, 16000, 1, make([]float32, 1600))

	got, err := NewBridge(nil, WithSampleRate(8000)).Ingest(context.Background(), src, store)
	require.NoError(t, err)
	assert.Equal(t, 8000, got.SampleRate)
	assert.Equal(t, 800, got.Frames())
}

func TestIngest_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.wav")
	require.NoError(t, os.WriteFile(corrupt, []byte("RIFF....WAVEjunk"), 0o600))
	unknown := filepath.Join(dir, "track.xyz")
	require.NoError(t, os.WriteFile(unknown, []byte("whatever"), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"unsupported extension", unknown, ErrUnsupportedFormat},
		{"corrupt wave", corrupt, nil},
		{"missing file", filepath.Join(dir, "missing.wav"), os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newStore(t)
			_, err := NewBridge(nil).Ingest(context.Background(), tt.path, store)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, storeEntries(t, store), "no artifact may survive a failed ingest")
		})
	}
}

func TestIngest_Cancelled(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	src := writeInt16(t, 8000, 1, 8000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBridge(nil).Ingest(ctx, src, store)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, storeEntries(t, store))
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	want := []string{"aif", "aiff", "flac", "mp3", "oga", "ogg", "wav", "wave"}
	assert.Equal(t, want, DefaultRegistry().Formats())
}
