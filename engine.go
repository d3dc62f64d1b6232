// SPDX-License-Identifier: EPL-2.0

package audtrack

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/cache"
	"github.com/ik5/audtrack/codec"
	"github.com/ik5/audtrack/config"
	"github.com/ik5/audtrack/device"
	"github.com/ik5/audtrack/peaks"
	"github.com/ik5/audtrack/playback"
	"github.com/ik5/audtrack/track"
)

// Handle names an open track. Handles are never reused.
type Handle uint64

// entry is everything the engine owns for one track. mu serializes every
// operation on the track, including session transitions.
type entry struct {
	mu      sync.Mutex
	handle  Handle
	track   *track.Track
	session *playback.Session
	peaks   peaks.Cache
	closed  bool
}

// Engine owns a set of open tracks and drives their playback.
type Engine struct {
	cfg      config.Config
	log      logrus.FieldLogger
	sink     device.Sink
	registry *audio.Registry
	store    *cache.Store
	bridge   *codec.Bridge
	workers  *semaphore.Weighted

	mu       sync.RWMutex
	tracks   map[Handle]*entry
	next     Handle
	shutdown bool

	cbMu       sync.RWMutex
	onPosition []func(Handle, int64)
	onBuffer   []func(Handle)
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink replaces the system speaker as the output.
func WithSink(sink device.Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithLogger sets the logger for engine and per-track events. Without it
// the engine logs at the configured LogLevel.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRegistry replaces the built-in extension to decoder mapping.
func WithRegistry(r *audio.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// New validates cfg, prepares the cache directory and returns an engine
// with no open tracks.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := cache.NewStore(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		store:   store,
		workers: semaphore.NewWeighted(int64(cfg.IngestWorkers)),
		tracks:  make(map[Handle]*entry),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		e.log = cfg.Logger()
	}
	if e.sink == nil {
		e.sink = device.NewSpeaker(cfg.DeviceRate, cfg.DeviceBuffer, cfg.ResampleQuality)
	}
	if e.registry == nil {
		e.registry = codec.DefaultRegistry()
	}

	e.bridge = codec.NewBridge(e.registry,
		codec.WithFFmpeg(cfg.FFmpegPath),
		codec.WithSampleRate(cfg.IngestSampleRate),
		codec.WithMono(cfg.IngestMono),
		codec.WithLogger(e.log),
	)

	return e, nil
}

// CacheDir is the directory holding the canonical artifacts.
func (e *Engine) CacheDir() string { return e.store.Dir() }

func (e *Engine) lookup(h Handle) *entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tracks[h]
}

// acquire locks the entry for h. It returns nil when h is unknown or the
// track was closed while waiting for the lock.
func (e *Engine) acquire(h Handle) *entry {
	ent := e.lookup(h)
	if ent == nil {
		return nil
	}

	ent.mu.Lock()
	if ent.closed {
		ent.mu.Unlock()
		return nil
	}

	return ent
}

func (e *Engine) trackLog(h Handle) *logrus.Entry {
	return e.log.WithField("track", h)
}

// OpenTrack decodes path into an owned canonical artifact, loads it and
// registers a new track. On failure no track or artifact is left behind
// and the error is a *DecodeError.
func (e *Engine) OpenTrack(ctx context.Context, path string) (Handle, error) {
	if err := e.workers.Acquire(ctx, 1); err != nil {
		return 0, &DecodeError{Path: path, Err: err}
	}
	defer e.workers.Release(1)

	d, err := e.bridge.Ingest(ctx, path, e.store)
	if err == nil && ctx.Err() != nil {
		e.removeArtifact(0, d.Artifact)
		err = ctx.Err()
	}
	if err != nil {
		e.log.WithError(err).WithField("path", path).Warn("open failed")
		return 0, &DecodeError{Path: path, Err: err}
	}

	t := track.New(d.Samples, d.SampleRate, d.Channels, track.Meta{
		Name:     filepath.Base(path),
		Path:     path,
		Format:   d.Format,
		BitDepth: d.BitDepth,
		Artifact: d.Artifact,
	})

	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		e.removeArtifact(0, d.Artifact)
		return 0, &DecodeError{Path: path, Err: ErrEngineClosed}
	}
	e.next++
	h := e.next
	e.tracks[h] = &entry{handle: h, track: t}
	e.mu.Unlock()

	e.trackLog(h).WithFields(logrus.Fields{
		"path":     path,
		"format":   d.Format,
		"frames":   t.TotalFrames(),
		"rate":     d.SampleRate,
		"channels": d.Channels,
	}).Info("track opened")

	return h, nil
}

// OpenTrackAsync runs OpenTrack in the background. Cancelling the task
// closes a track that finished opening in the meantime.
func (e *Engine) OpenTrackAsync(ctx context.Context, path string) *Task[Handle] {
	return startTask(ctx, func(ctx context.Context) (Handle, error) {
		return e.OpenTrack(ctx, path)
	}, e.Close)
}

// OpenTracks opens every path concurrently, bounded by the worker limit.
// On the first failure the remaining opens are cancelled and every
// track already opened by this call is closed.
func (e *Engine) OpenTracks(ctx context.Context, paths ...string) ([]Handle, error) {
	handles := make([]Handle, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.IngestWorkers)
	for i, path := range paths {
		g.Go(func() error {
			h, err := e.OpenTrack(gctx, path)
			if err != nil {
				return err
			}
			handles[i] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, h := range handles {
			if h != 0 {
				e.Close(h)
			}
		}
		return nil, err
	}

	return handles, nil
}

// Handles lists the open tracks in opening order.
func (e *Engine) Handles() []Handle {
	e.mu.RLock()
	hs := make([]Handle, 0, len(e.tracks))
	for h := range e.tracks {
		hs = append(hs, h)
	}
	e.mu.RUnlock()

	slices.Sort(hs)
	return hs
}

func (e *Engine) removeArtifact(h Handle, artifact string) {
	if artifact == "" || !e.store.Owns(artifact) {
		return
	}
	if err := e.store.Remove(artifact); err != nil {
		e.trackLog(h).WithError(err).WithField("path", artifact).Warn("removing cache artifact")
	}
}

// Close stops playback, forgets the track and deletes its artifact.
// Unknown handles are ignored.
func (e *Engine) Close(h Handle) {
	e.mu.Lock()
	ent := e.tracks[h]
	delete(e.tracks, h)
	e.mu.Unlock()

	if ent == nil {
		return
	}

	ent.mu.Lock()
	if ent.closed {
		ent.mu.Unlock()
		return
	}
	ent.closed = true
	if ent.session != nil {
		ent.session.Close()
		ent.session = nil
	}
	ent.peaks.Invalidate()
	artifact := ent.track.Meta().Artifact
	ent.mu.Unlock()

	e.removeArtifact(h, artifact)
	e.trackLog(h).Info("track closed")
}

// Shutdown closes every track. Later opens fail with ErrEngineClosed.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	e.shutdown = true
	e.mu.Unlock()

	for _, h := range e.Handles() {
		e.Close(h)
	}
}

// TrackInfo describes an open track.
type TrackInfo struct {
	Name       string
	Path       string
	Format     string
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int64
	Duration   time.Duration
}

// Info describes the track behind h. It reports false for an unknown
// handle.
func (e *Engine) Info(h Handle) (TrackInfo, bool) {
	ent := e.acquire(h)
	if ent == nil {
		return TrackInfo{}, false
	}
	defer ent.mu.Unlock()

	t := ent.track
	m := t.Meta()

	return TrackInfo{
		Name:       m.Name,
		Path:       m.Path,
		Format:     m.Format,
		SampleRate: t.SampleRate(),
		Channels:   t.Channels(),
		BitDepth:   m.BitDepth,
		Frames:     t.TotalFrames(),
		Duration:   t.Duration(),
	}, true
}

// OnPositionChanged registers fn to be called after the stored cursor of
// a track moves through the API.
func (e *Engine) OnPositionChanged(fn func(Handle, int64)) {
	e.cbMu.Lock()
	e.onPosition = append(e.onPosition, fn)
	e.cbMu.Unlock()
}

// OnBufferChanged registers fn to be called after a track's samples are
// replaced.
func (e *Engine) OnBufferChanged(fn func(Handle)) {
	e.cbMu.Lock()
	e.onBuffer = append(e.onBuffer, fn)
	e.cbMu.Unlock()
}

func (e *Engine) notifyPosition(h Handle, frame int64) {
	e.cbMu.RLock()
	fns := e.onPosition
	e.cbMu.RUnlock()

	for _, fn := range fns {
		fn(h, frame)
	}
}

func (e *Engine) notifyBuffer(h Handle) {
	e.cbMu.RLock()
	fns := e.onBuffer
	e.cbMu.RUnlock()

	for _, fn := range fns {
		fn(h)
	}
}
