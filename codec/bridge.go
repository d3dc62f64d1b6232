// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/cache"
	"github.com/ik5/audtrack/formats/ffmpeg"
	"github.com/ik5/audtrack/pcm"
)

// Bridge decodes files and produces canonical PCM artifacts.
type Bridge struct {
	registry *audio.Registry
	ffmpeg   *ffmpeg.Decoder
	rate     int
	mono     bool
	log      logrus.FieldLogger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithFFmpeg enables the ffmpeg fallback for unregistered extensions.
// An empty binary name disables it.
func WithFFmpeg(binary string) Option {
	return func(b *Bridge) {
		if binary == "" {
			b.ffmpeg = nil
			return
		}
		b.ffmpeg = &ffmpeg.Decoder{Binary: binary}
	}
}

// WithSampleRate resamples every input to rate. Zero keeps the native rate.
func WithSampleRate(rate int) Option {
	return func(b *Bridge) { b.rate = rate }
}

// WithMono folds multi-channel input to a single channel.
func WithMono(mono bool) Option {
	return func(b *Bridge) { b.mono = mono }
}

// WithLogger sets where decode progress is logged.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Bridge) { b.log = log }
}

// NewBridge returns a Bridge decoding through registry, or through
// DefaultRegistry when registry is nil.
func NewBridge(registry *audio.Registry, opts ...Option) *Bridge {
	if registry == nil {
		registry = DefaultRegistry()
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	b := &Bridge{
		registry: registry,
		log:      discard,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Decoded is a fully loaded canonical track.
type Decoded struct {
	Samples    []float32
	SampleRate int
	Channels   int
	// BitDepth of the source before conversion.
	BitDepth int
	Duration time.Duration
	// Artifact is the owned canonical file the samples were read from.
	Artifact string
	// Format names the decoder that handled the source.
	Format string
}

// Frames returns the number of whole frames in Samples.
func (d *Decoded) Frames() int {
	if d.Channels <= 0 {
		return 0
	}
	return len(d.Samples) / d.Channels
}

func formatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Close() error {
	serr := s.Source.Close()
	ferr := s.f.Close()
	return errors.Join(serr, ferr)
}

// Open returns a decoded stream for path with normalization applied.
// The returned format is the decoder key that handled it.
func (b *Bridge) Open(ctx context.Context, path string) (audio.Source, string, error) {
	src, format, err := b.openRaw(ctx, path)
	if err != nil {
		return nil, "", err
	}

	if src.SampleRate() <= 0 || src.Channels() <= 0 {
		_ = src.Close()
		return nil, "", fmt.Errorf("%w: %d Hz, %d channels", ErrInvalidLayout, src.SampleRate(), src.Channels())
	}

	return b.normalize(src), format, nil
}

func (b *Bridge) openRaw(ctx context.Context, path string) (audio.Source, string, error) {
	format := formatOf(path)

	dec, ok := b.registry.Get(format)
	if !ok {
		if b.ffmpeg == nil {
			return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		b.log.WithFields(logrus.Fields{"path": path, "format": format}).Debug("decoding through ffmpeg")

		src, err := b.ffmpeg.Open(ctx, path)
		if err != nil {
			return nil, "", err
		}
		return src, "ffmpeg", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening source: %w", err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("decoding %s: %w", format, err)
	}

	return &fileSource{Source: src, f: f}, format, nil
}

func (b *Bridge) normalize(src audio.Source) audio.Source {
	if b.rate > 0 && src.SampleRate() != b.rate {
		src = audio.NewResampler(src, b.rate)
	}
	if b.mono && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}
	return src
}

// alreadyCanonical reports whether path is a float WAVE file that needs no
// normalization, in which case conversion is a plain copy.
func (b *Bridge) alreadyCanonical(path string) (pcm.Header, bool) {
	switch formatOf(path) {
	case "wav", "wave":
	default:
		return pcm.Header{}, false
	}

	h, err := pcm.Probe(path)
	if err != nil || !h.IsFloat32() || h.DataSize < 0 {
		return pcm.Header{}, false
	}
	if b.rate > 0 && h.SampleRate != b.rate {
		return pcm.Header{}, false
	}
	if b.mono && h.Channels > 1 {
		return pcm.Header{}, false
	}

	return h, true
}

// Convert writes path as a canonical artifact in store and returns the
// artifact path, the source bit depth and the decoder format key.
// No artifact is left behind on failure.
func (b *Bridge) Convert(ctx context.Context, path string, store *cache.Store) (string, int, string, error) {
	if _, ok := b.alreadyCanonical(path); ok {
		artifact, err := copyArtifact(ctx, path, store)
		if err != nil {
			return "", 0, "", err
		}
		b.log.WithFields(logrus.Fields{"path": path, "artifact": artifact}).Debug("source already canonical, copied")
		return artifact, 32, formatOf(path), nil
	}

	src, format, err := b.Open(ctx, path)
	if err != nil {
		return "", 0, "", err
	}
	defer src.Close()

	f, err := store.Create(path)
	if err != nil {
		return "", 0, "", err
	}
	artifact := f.Name()

	frames, err := pcm.WriteSource(ctx, f, src)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing artifact: %w", cerr)
	}
	if err != nil {
		_ = store.Remove(artifact)
		return "", 0, "", err
	}

	b.log.WithFields(logrus.Fields{
		"path":     path,
		"artifact": artifact,
		"format":   format,
		"frames":   frames,
	}).Debug("converted to canonical pcm")

	return artifact, src.BitDepth(), format, nil
}

func copyArtifact(ctx context.Context, path string, store *cache.Store) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := store.Create(path)
	if err != nil {
		return "", err
	}
	artifact := out.Name()

	w := bufio.NewWriterSize(out, 64*1024)
	_, err = io.Copy(w, &ctxReader{ctx: ctx, r: in})
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		_ = store.Remove(artifact)
		return "", fmt.Errorf("copying to artifact: %w", err)
	}

	return artifact, nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Ingest converts path into an owned artifact and loads it fully into memory.
func (b *Bridge) Ingest(ctx context.Context, path string, store *cache.Store) (*Decoded, error) {
	artifact, bitDepth, format, err := b.Convert(ctx, path, store)
	if err != nil {
		return nil, err
	}

	h, samples, err := pcm.ReadFile(ctx, artifact)
	if err != nil {
		_ = store.Remove(artifact)
		return nil, err
	}

	d := &Decoded{
		Samples:    samples[:len(samples)-len(samples)%h.Channels],
		SampleRate: h.SampleRate,
		Channels:   h.Channels,
		BitDepth:   bitDepth,
		Artifact:   artifact,
		Format:     format,
	}
	d.Duration = time.Duration(int64(d.Frames()) * int64(time.Second) / int64(h.SampleRate))

	return d, nil
}
