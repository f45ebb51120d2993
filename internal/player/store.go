package player

import (
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
)

const (
	DefaultVolume = 0.7
	VolumeStep    = 0.05
)

// State is a snapshot of the player.
type State struct {
	CurrentTrack *models.Track
	IsPlaying    bool
	Queue        []models.Track
	Volume       float64
	Progress     float64
	Duration     float64
	// Loads counts how many times a track was made current, so replaying the same track is observable.
	Loads uint64
}

// HasTrack reports whether a track is loaded.
func (s State) HasTrack() bool {
	return s.CurrentTrack != nil
}

// TrackID returns the current track id, or "".
func (s State) TrackID() string {
	if s.CurrentTrack == nil {
		return ""
	}
	return s.CurrentTrack.ID
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	if s.CurrentTrack != nil {
		t := *s.CurrentTrack
		c.CurrentTrack = &t
	}
	c.Queue = slices.Clone(s.Queue)
	return c
}

// Listener receives the state before and after a change.
type Listener func(prev, next State)

// Option configures a [Store].
type Option func(*Store)

// WithVolume sets the initial volume, clamped into [0,1]. NaN keeps the default.
func WithVolume(v float64) Option {
	return func(s *Store) {
		if !math.IsNaN(v) {
			s.state.Volume = clamp(v)
		}
	}
}

// WithPermissiveToggle lets TogglePlay set playing without a loaded track.
func WithPermissiveToggle() Option {
	return func(s *Store) { s.permissiveToggle = true }
}

// Store is the player state machine. It is safe for concurrent use.
type Store struct {
	mu               sync.Mutex
	state            State
	listeners        []Listener
	permissiveToggle bool
	sessionID        string
	lastVolume       float64
}

// NewStore creates a player with no track, an empty queue and the default volume.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state:      State{Queue: []models.Track{}, Volume: DefaultVolume},
		sessionID:  shared.GenerateID(),
		lastVolume: DefaultVolume,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.state.Volume > 0 {
		s.lastVolume = s.state.Volume
	}
	return s
}

// SessionID identifies this player instance in logs.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive every state change.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// update applies fn under the lock and notifies listeners when fn reports a change.
func (s *Store) update(fn func(st *State) bool) {
	s.mu.Lock()
	prev := s.state.Clone()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	next := s.state.Clone()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev, next)
	}
}

func clamp(v float64) float64 {
	return max(0, min(1, v))
}

func load(st *State, track models.Track) {
	st.CurrentTrack = &track
	st.IsPlaying = true
	st.Progress = 0
	st.Duration = 0
	st.Loads++
}

// SetTrack makes track current and starts playing it from the beginning. The queue is kept.
func (s *Store) SetTrack(track models.Track) {
	s.update(func(st *State) bool {
		load(st, track)
		return true
	})
}

// PlayTrackFromQueue makes track current and playing. A non-nil queue replaces the stored queue.
func (s *Store) PlayTrackFromQueue(track models.Track, queue []models.Track) {
	s.update(func(st *State) bool {
		load(st, track)
		if queue != nil {
			st.Queue = slices.Clone(queue)
		}
		return true
	})
}

// PlayAll queues tracks and plays the first. No-op for an empty list.
func (s *Store) PlayAll(tracks []models.Track) {
	if len(tracks) == 0 {
		return
	}
	s.PlayTrackFromQueue(tracks[0], tracks)
}

// PlayShuffled queues a shuffled copy of tracks and plays its first entry.
func (s *Store) PlayShuffled(tracks []models.Track, rng *rand.Rand) {
	if len(tracks) == 0 {
		return
	}
	shuffled := slices.Clone(tracks)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.PlayTrackFromQueue(shuffled[0], shuffled)
}

// SetQueue replaces the queue without touching the current track.
func (s *Store) SetQueue(tracks []models.Track) {
	s.update(func(st *State) bool {
		st.Queue = slices.Clone(tracks)
		if st.Queue == nil {
			st.Queue = []models.Track{}
		}
		return true
	})
}

// Play resumes playback. No-op without a track or when already playing.
func (s *Store) Play() {
	s.update(func(st *State) bool {
		if st.CurrentTrack == nil || st.IsPlaying {
			return false
		}
		st.IsPlaying = true
		return true
	})
}

// Pause stops playback. No-op when already paused.
func (s *Store) Pause() {
	s.update(func(st *State) bool {
		if !st.IsPlaying {
			return false
		}
		st.IsPlaying = false
		return true
	})
}

// TogglePlay flips between playing and paused.
//
// Without a loaded track it does nothing unless the store was built with [WithPermissiveToggle].
func (s *Store) TogglePlay() {
	s.update(func(st *State) bool {
		if st.CurrentTrack == nil && !st.IsPlaying && !s.permissiveToggle {
			return false
		}
		st.IsPlaying = !st.IsPlaying
		return true
	})
}

// indexOf returns the position of the first queue entry with id, or -1.
func indexOf(queue []models.Track, id string) int {
	return slices.IndexFunc(queue, func(t models.Track) bool { return t.ID == id })
}

// NextTrack advances to the following queue entry, wrapping to the start.
// No-op with an empty queue or no current track.
func (s *Store) NextTrack() {
	s.update(func(st *State) bool {
		if len(st.Queue) == 0 || st.CurrentTrack == nil {
			return false
		}
		i := indexOf(st.Queue, st.CurrentTrack.ID)
		load(st, st.Queue[(i+1)%len(st.Queue)])
		return true
	})
}

// PreviousTrack moves to the preceding queue entry, wrapping to the end.
// No-op with an empty queue or no current track.
func (s *Store) PreviousTrack() {
	s.update(func(st *State) bool {
		if len(st.Queue) == 0 || st.CurrentTrack == nil {
			return false
		}
		i := indexOf(st.Queue, st.CurrentTrack.ID)
		prev := i - 1
		if i <= 0 {
			prev = len(st.Queue) - 1
		}
		load(st, st.Queue[prev])
		return true
	})
}

// SetVolume stores v clamped into [0,1]. NaN is ignored.
func (s *Store) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.update(func(st *State) bool {
		v = clamp(v)
		if v == st.Volume {
			return false
		}
		if v > 0 {
			s.lastVolume = v
		}
		st.Volume = v
		return true
	})
}

// AdjustVolume changes volume by delta, clamped into [0,1].
func (s *Store) AdjustVolume(delta float64) {
	s.mu.Lock()
	v := s.state.Volume
	s.mu.Unlock()
	s.SetVolume(v + delta)
}

// ToggleMute silences output, or restores the last audible volume when muted.
func (s *Store) ToggleMute() {
	s.mu.Lock()
	muted := s.state.Volume == 0
	restore := s.lastVolume
	s.mu.Unlock()

	if !muted {
		s.SetVolume(0)
		return
	}
	if restore <= 0 {
		restore = DefaultVolume
	}
	s.SetVolume(restore)
}

// SetProgress records the playback position in seconds.
func (s *Store) SetProgress(v float64) {
	s.update(func(st *State) bool {
		if st.Progress == v {
			return false
		}
		st.Progress = v
		return true
	})
}

// SetDuration records the current track length in seconds.
func (s *Store) SetDuration(v float64) {
	s.update(func(st *State) bool {
		if st.Duration == v {
			return false
		}
		st.Duration = v
		return true
	})
}
