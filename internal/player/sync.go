package player

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tevify/internal/shared"
)

// DefaultTickInterval is how often [Sync.Run] samples the engine position.
const DefaultTickInterval = 500 * time.Millisecond

type transition struct {
	prev, next State
}

// Sync drives an [Engine] from [Store] transitions and feeds engine events back into the store.
type Sync struct {
	store    *Store
	engine   Engine
	logger   *log.Logger
	interval time.Duration

	mu      sync.Mutex
	pending []transition
	lastErr error
	loaded  uint64 // Loads value of the stream the engine holds
	wake    chan struct{}
	once    sync.Once
}

// NewSync connects store and engine. The engine's end-of-track notification advances the queue.
func NewSync(store *Store, engine Engine, logger *log.Logger) *Sync {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Sync{
		store:    store,
		engine:   engine,
		logger:   logger.WithPrefix("player").With("session", store.SessionID()),
		interval: DefaultTickInterval,
		wake:     make(chan struct{}, 1),
	}
	engine.OnEnded(s.ended)
	return s
}

// SetTickInterval changes how often Run samples the engine position. Zero or less disables sampling.
func (s *Sync) SetTickInterval(d time.Duration) {
	s.interval = d
}

func (s *Sync) ended() {
	s.logger.Debug("track ended")
	s.store.NextTrack()
}

// Apply drives the engine for a single store transition.
//
// A track that cannot be loaded or started pauses the store and the error is returned.
func (s *Sync) Apply(ctx context.Context, prev, next State) error {
	if next.Volume != prev.Volume {
		s.engine.SetVolume(next.Volume)
	}

	if next.CurrentTrack != nil && next.Loads != prev.Loads {
		return s.load(ctx, next)
	}

	switch {
	case next.IsPlaying && !prev.IsPlaying:
		if next.CurrentTrack == nil {
			return nil
		}
		if s.loadedCount() != next.Loads {
			return s.load(ctx, next)
		}
		if err := s.engine.Play(); err != nil {
			return s.fail(next.TrackID(), err)
		}
	case !next.IsPlaying && prev.IsPlaying:
		s.engine.Pause()
	}
	return nil
}

func (s *Sync) load(ctx context.Context, next State) error {
	track := next.CurrentTrack
	if track.Audio == "" {
		return s.fail(track.ID, fmt.Errorf("%w: no audio url", shared.ErrInvalidInput))
	}

	if current := s.store.Snapshot(); current.Loads != next.Loads {
		s.logger.Debug("skipping superseded track", "track", track.ID)
		return nil
	}

	s.logger.Info("loading track", "track", track.ID, "name", track.Name)
	duration, err := s.engine.Load(ctx, track.Audio)
	if err != nil {
		return s.fail(track.ID, err)
	}
	s.mu.Lock()
	s.loaded = next.Loads
	s.lastErr = nil
	s.mu.Unlock()
	s.store.SetDuration(duration)

	if !next.IsPlaying {
		return nil
	}
	if err := s.engine.Play(); err != nil {
		return s.fail(track.ID, err)
	}
	return nil
}

// fail resynchronizes the store with a stopped engine.
func (s *Sync) fail(trackID string, err error) error {
	perr := &shared.PlaybackError{TrackID: trackID, Err: err}
	s.logger.Error("playback failed", "error", perr)
	s.setErr(perr)
	s.engine.Pause()
	s.store.Pause()
	return perr
}

func (s *Sync) loadedCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Sync) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Err returns the most recent playback failure, cleared by the next successful load.
func (s *Sync) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Tick copies the engine position into the store.
func (s *Sync) Tick() {
	st := s.store.Snapshot()
	if st.CurrentTrack == nil {
		return
	}
	s.store.SetProgress(s.engine.Position())
}

// Seek moves playback to seconds, clamped into the current track's duration.
func (s *Sync) Seek(seconds float64) error {
	st := s.store.Snapshot()
	if st.CurrentTrack == nil {
		return nil
	}
	seconds = max(0, seconds)
	if st.Duration > 0 {
		seconds = min(seconds, st.Duration)
	}
	if err := s.engine.Seek(seconds); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	s.store.SetProgress(seconds)
	return nil
}

// SeekBy moves playback relative to the current position.
func (s *Sync) SeekBy(delta float64) error {
	return s.Seek(s.store.Snapshot().Progress + delta)
}

func (s *Sync) enqueue(prev, next State) {
	s.mu.Lock()
	s.pending = append(s.pending, transition{prev: prev, next: next})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Sync) drain() []transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// Run applies store transitions in order on the calling goroutine until ctx is done.
//
// Transitions raised while applying (a pause after a failed load, a duration update) are queued, not nested.
func (s *Sync) Run(ctx context.Context) error {
	s.once.Do(func() { s.store.Subscribe(s.enqueue) })
	s.engine.SetVolume(s.store.Snapshot().Volume)

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
			for _, t := range s.drain() {
				if err := s.Apply(ctx, t.prev, t.next); err != nil && ctx.Err() != nil {
					return ctx.Err()
				}
			}
		case <-tick:
			s.Tick()
		}
	}
}
