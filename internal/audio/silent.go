package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/tevify/internal/shared"
)

// SilentEngine keeps a playback clock without producing sound.
//
// Durations are unknown, so loaded streams report zero and never end on their own.
type SilentEngine struct {
	mu      sync.Mutex
	loaded  string
	offset  float64
	started time.Time
	playing bool
	now     func() time.Time
}

func NewSilentEngine() *SilentEngine {
	return &SilentEngine{now: time.Now}
}

func (e *SilentEngine) Load(ctx context.Context, url string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loaded = ""
	e.offset = 0
	e.playing = false
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	e.loaded = url
	return 0, nil
}

func (e *SilentEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded == "" {
		return fmt.Errorf("%w: nothing loaded", shared.ErrPlaybackFailed)
	}
	if !e.playing {
		e.started = e.now()
		e.playing = true
	}
	return nil
}

func (e *SilentEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing {
		e.offset += e.now().Sub(e.started).Seconds()
		e.playing = false
	}
}

func (e *SilentEngine) Seek(seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.offset = max(0, seconds)
	e.started = e.now()
	return nil
}

func (e *SilentEngine) SetVolume(float64) {}

func (e *SilentEngine) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing {
		return e.offset
	}
	return e.offset + e.now().Sub(e.started).Seconds()
}

func (e *SilentEngine) OnEnded(func()) {}

func (e *SilentEngine) Close() error { return nil }
