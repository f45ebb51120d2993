package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
)

const (
	// StorageKey names the durable slot holding the library.
	StorageKey = "tevify-library"
	// PayloadVersion is written into every persisted envelope.
	PayloadVersion = 0
)

// Storage is a named key-value slot store. Get returns [shared.ErrNotFound] when the key is absent.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Listener receives the library state after each mutation.
type Listener func(models.LibraryState)

type payload struct {
	State   models.LibraryState `json:"state"`
	Version int                 `json:"version"`
}

// Store holds the library toggle-sets and persists them on every change.
type Store struct {
	mu        sync.RWMutex
	state     models.LibraryState
	storage   Storage
	logger    *log.Logger
	listeners []Listener
}

// New creates a store and loads any previously persisted state from storage.
//
// A nil storage keeps the library in memory only.
func New(storage Storage, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Store{
		state:   models.NewLibraryState(),
		storage: storage,
		logger:  logger.WithPrefix("library"),
	}

	if storage != nil {
		state, err := load(storage)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			s.logger.Debug("no saved library, starting empty")
		case err != nil:
			s.logger.Warn("could not load library, starting empty", "error", err)
		default:
			s.state = state
			s.logger.Debug("library loaded",
				"liked", len(state.LikedSongs),
				"albums", len(state.SavedAlbums),
				"artists", len(state.FollowedArtists))
		}
	}

	return s
}

func load(storage Storage) (models.LibraryState, error) {
	data, err := storage.Get(StorageKey)
	if err != nil {
		return models.LibraryState{}, err
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return models.LibraryState{}, fmt.Errorf("%w: decode library: %v", shared.ErrPersistence, err)
	}

	return models.LibraryState{
		LikedSongs:      dedupe(p.State.LikedSongs, func(t models.Track) string { return t.ID }),
		SavedAlbums:     dedupe(p.State.SavedAlbums, func(a models.SavedAlbum) string { return a.ID }),
		FollowedArtists: dedupe(p.State.FollowedArtists, func(a models.FollowedArtist) string { return a.ID }),
	}, nil
}

// dedupe keeps the first occurrence of every id. The result is never nil.
func dedupe[T any](items []T, id func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := id(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// toggle removes the item with id when present, otherwise prepends item.
// Reports whether the item is now a member.
func toggle[T any](items []T, item T, id func(T) string) ([]T, bool) {
	key := id(item)
	for i, existing := range items {
		if id(existing) == key {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), false
		}
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...), true
}

func contains[T any](items []T, key string, id func(T) string) bool {
	for _, item := range items {
		if id(item) == key {
			return true
		}
	}
	return false
}

func trackID(t models.Track) string           { return t.ID }
func albumID(a models.SavedAlbum) string      { return a.ID }
func artistID(a models.FollowedArtist) string { return a.ID }

// mutate applies fn under the lock, persists the result and notifies listeners.
func (s *Store) mutate(fn func(*models.LibraryState)) models.LibraryState {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.Clone()
	s.persist(snapshot)
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
	return snapshot
}

// persist writes state through to storage. Failures are logged only.
func (s *Store) persist(state models.LibraryState) {
	if s.storage == nil {
		return
	}

	data, err := json.Marshal(payload{State: state, Version: PayloadVersion})
	if err != nil {
		s.logger.Error("could not encode library", "error", err)
		return
	}

	if err := s.storage.Set(StorageKey, data); err != nil {
		s.logger.Error("could not save library", "error", fmt.Errorf("%w: %v", shared.ErrPersistence, err))
	}
}

// ToggleLike likes track when absent and unlikes it when present. Reports whether it is now liked.
func (s *Store) ToggleLike(track models.Track) bool {
	var liked bool
	s.mutate(func(st *models.LibraryState) {
		st.LikedSongs, liked = toggle(st.LikedSongs, track, trackID)
	})
	s.logger.Debug("toggled like", "track", track.ID, "liked", liked)
	return liked
}

// IsLiked reports whether the track id is in liked songs.
func (s *Store) IsLiked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contains(s.state.LikedSongs, id, trackID)
}

// ToggleSaveAlbum saves album when absent and removes it when present. Reports whether it is now saved.
func (s *Store) ToggleSaveAlbum(album models.SavedAlbum) bool {
	var saved bool
	s.mutate(func(st *models.LibraryState) {
		st.SavedAlbums, saved = toggle(st.SavedAlbums, album, albumID)
	})
	s.logger.Debug("toggled album", "album", album.ID, "saved", saved)
	return saved
}

// IsAlbumSaved reports whether the album id is in saved albums.
func (s *Store) IsAlbumSaved(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contains(s.state.SavedAlbums, id, albumID)
}

// ToggleFollowArtist follows artist when absent and unfollows when present. Reports whether it is now followed.
func (s *Store) ToggleFollowArtist(artist models.FollowedArtist) bool {
	var followed bool
	s.mutate(func(st *models.LibraryState) {
		st.FollowedArtists, followed = toggle(st.FollowedArtists, artist, artistID)
	})
	s.logger.Debug("toggled artist", "artist", artist.ID, "followed", followed)
	return followed
}

// IsArtistFollowed reports whether the artist id is in followed artists.
func (s *Store) IsArtistFollowed(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contains(s.state.FollowedArtists, id, artistID)
}

// LikedSongs returns a copy of the liked songs, most recent first.
func (s *Store) LikedSongs() []models.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Track{}, s.state.LikedSongs...)
}

// SavedAlbums returns a copy of the saved albums, most recent first.
func (s *Store) SavedAlbums() []models.SavedAlbum {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SavedAlbum{}, s.state.SavedAlbums...)
}

// FollowedArtists returns a copy of the followed artists, most recent first.
func (s *Store) FollowedArtists() []models.FollowedArtist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FollowedArtist{}, s.state.FollowedArtists...)
}

// State returns a copy of the whole library.
func (s *Store) State() models.LibraryState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to be called with the new state after every mutation.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
