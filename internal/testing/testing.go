// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// MemoryStorage is an in-memory key-value slot store for library persistence tests.
//
// Get returns [shared.ErrNotFound] for absent keys. Set FailGet or FailSet to simulate an unavailable backend.
type MemoryStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	FailGet bool
	FailSet bool
	Writes  int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string][]byte{}}
}

func (m *MemoryStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet {
		return nil, errors.New("storage unavailable")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStorage) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet {
		return errors.New("storage full")
	}
	m.data[key] = append([]byte(nil), value...)
	m.Writes++
	return nil
}

// Put seeds a raw payload without counting it as a write.
func (m *MemoryStorage) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Raw returns the stored payload for key, or nil.
func (m *MemoryStorage) Raw(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// FakeEngine is a test double for the playback engine. It records calls and plays nothing.
type FakeEngine struct {
	mu       sync.Mutex
	Calls    []string
	Loaded   []string
	Current  string
	Volume   float64
	Pos      float64
	Playing  bool
	Closed   bool
	Duration float64
	LoadErr  error
	PlayErr  error
	SeekErr  error
	onEnded  func()
}

func NewFakeEngine(duration float64) *FakeEngine {
	return &FakeEngine{Duration: duration, Volume: -1}
}

func (f *FakeEngine) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *FakeEngine) Load(ctx context.Context, url string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("load")
	f.Current = ""
	f.Playing = false
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if f.LoadErr != nil {
		return 0, f.LoadErr
	}
	f.Loaded = append(f.Loaded, url)
	f.Current = url
	f.Pos = 0
	return f.Duration, nil
}

func (f *FakeEngine) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("play")
	if f.PlayErr != nil {
		return f.PlayErr
	}
	if f.Current == "" {
		return errors.New("nothing loaded")
	}
	f.Playing = true
	return nil
}

func (f *FakeEngine) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("pause")
	f.Playing = false
}

func (f *FakeEngine) Seek(seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("seek")
	if f.SeekErr != nil {
		return f.SeekErr
	}
	f.Pos = seconds
	return nil
}

func (f *FakeEngine) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("volume")
	f.Volume = v
}

func (f *FakeEngine) Position() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Pos
}

func (f *FakeEngine) OnEnded(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onEnded = fn
}

func (f *FakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("close")
	f.Closed = true
	return nil
}

// End simulates the current track finishing.
func (f *FakeEngine) End() {
	f.mu.Lock()
	fn := f.onEnded
	f.Playing = false
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// CallLog returns a copy of the recorded calls.
func (f *FakeEngine) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

// Reset clears the recorded calls.
func (f *FakeEngine) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

// MockCatalog is a test double for [services.Catalog] serving canned data.
//
// Err, when set, is returned by every operation. AlbumErrs fails AlbumTracks for
// individual album ids. Calls counts requests by operation name.
type MockCatalog struct {
	mu        sync.Mutex
	Tracks    []models.Track
	TagTracks map[string][]models.Track
	Artists   []models.Artist
	Albums    []models.Album
	Playlists []models.Playlist
	Err       error
	AlbumErrs map[string]error
	Calls     map[string]int
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{TagTracks: map[string][]models.Track{}, Calls: map[string]int{}}
}

func (m *MockCatalog) hit(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = map[string]int{}
	}
	m.Calls[op]++
	return m.Err
}

// CallCount returns how many times op was requested.
func (m *MockCatalog) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[op]
}

func take[T any](items []T, limit int) []T {
	out := append([]T{}, items...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *MockCatalog) PopularTracks(ctx context.Context, limit int) ([]models.Track, error) {
	if err := m.hit("PopularTracks"); err != nil {
		return nil, err
	}
	return take(m.Tracks, limit), nil
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if err := m.hit("SearchTracks"); err != nil {
		return nil, err
	}
	var out []models.Track
	for _, t := range m.Tracks {
		if containsFold(t.Name, query) {
			out = append(out, t)
		}
	}
	return take(out, limit), nil
}

func (m *MockCatalog) ArtistTracks(ctx context.Context, artistID string, limit int) ([]models.Track, error) {
	if err := m.hit("ArtistTracks"); err != nil {
		return nil, err
	}
	var out []models.Track
	for _, t := range m.Tracks {
		if t.ArtistID == artistID {
			out = append(out, t)
		}
	}
	return take(out, limit), nil
}

func (m *MockCatalog) TracksByTag(ctx context.Context, tag string, limit int) ([]models.Track, error) {
	if err := m.hit("TracksByTag"); err != nil {
		return nil, err
	}
	return take(m.TagTracks[tag], limit), nil
}

func (m *MockCatalog) NewReleases(ctx context.Context, limit int) ([]models.Track, error) {
	if err := m.hit("NewReleases"); err != nil {
		return nil, err
	}
	return take(m.Tracks, limit), nil
}

func (m *MockCatalog) Artist(ctx context.Context, artistID string) (*models.Artist, error) {
	if err := m.hit("Artist"); err != nil {
		return nil, err
	}
	for _, a := range m.Artists {
		if a.ID == artistID {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MockCatalog) PopularArtists(ctx context.Context, limit int) ([]models.Artist, error) {
	if err := m.hit("PopularArtists"); err != nil {
		return nil, err
	}
	return take(m.Artists, limit), nil
}

func (m *MockCatalog) Album(ctx context.Context, albumID string) (*models.Album, error) {
	if err := m.hit("Album"); err != nil {
		return nil, err
	}
	for _, a := range m.Albums {
		if a.ID == albumID {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MockCatalog) AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	if err := m.hit("AlbumTracks"); err != nil {
		return nil, err
	}
	if err := m.AlbumErrs[albumID]; err != nil {
		return nil, err
	}
	out := []models.Track{}
	for _, t := range m.Tracks {
		if t.AlbumID == albumID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockCatalog) PopularAlbums(ctx context.Context, limit int) ([]models.Album, error) {
	if err := m.hit("PopularAlbums"); err != nil {
		return nil, err
	}
	return take(m.Albums, limit), nil
}

func (m *MockCatalog) ArtistAlbums(ctx context.Context, artistID string, limit int) ([]models.Album, error) {
	if err := m.hit("ArtistAlbums"); err != nil {
		return nil, err
	}
	var out []models.Album
	for _, a := range m.Albums {
		if a.ArtistID == artistID {
			out = append(out, a)
		}
	}
	return take(out, limit), nil
}

func (m *MockCatalog) SearchAlbums(ctx context.Context, query string, limit int) ([]models.Album, error) {
	if err := m.hit("SearchAlbums"); err != nil {
		return nil, err
	}
	var out []models.Album
	for _, a := range m.Albums {
		if containsFold(a.Name, query) {
			out = append(out, a)
		}
	}
	return take(out, limit), nil
}

func (m *MockCatalog) PopularPlaylists(ctx context.Context, limit int) ([]models.Playlist, error) {
	if err := m.hit("PopularPlaylists"); err != nil {
		return nil, err
	}
	return take(m.Playlists, limit), nil
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if err := m.hit("PlaylistTracks"); err != nil {
		return nil, err
	}
	return take(m.Tracks, 0), nil
}

func (m *MockCatalog) Name() string { return "mock" }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// SampleTracks returns n deterministic tracks with ids "t1".."tn" by artist "a1" on album "al1".
func SampleTracks(n int) []models.Track {
	tracks := make([]models.Track, n)
	for i := range tracks {
		id := strconv.Itoa(i + 1)
		tracks[i] = models.Track{
			ID:         "t" + id,
			Name:       "Track " + id,
			Duration:   180 + i,
			ArtistID:   "a1",
			ArtistName: "Artist One",
			AlbumID:    "al1",
			AlbumName:  "Album One",
			Image:      "https://img.example.com/t" + id + ".jpg",
			Audio:      "https://audio.example.com/t" + id + ".mp3",
		}
	}
	return tracks
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
