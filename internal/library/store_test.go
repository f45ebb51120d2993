package library

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/repositories"
	"github.com/desertthunder/tevify/internal/shared"
	tu "github.com/desertthunder/tevify/internal/testing"
)

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func savedAlbum(id string) models.SavedAlbum {
	return models.SavedAlbum{ID: id, Name: "Album " + id, Image: "img", ArtistName: "Ann", ArtistID: "a1"}
}

func followedArtist(id string) models.FollowedArtist {
	return models.FollowedArtist{ID: id, Name: "Artist " + id, Image: "img"}
}

func TestStore(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("Empty Storage", func(t *testing.T) {
			s := New(tu.NewMemoryStorage(), nil)
			state := s.State()

			if state.LikedSongs == nil || state.SavedAlbums == nil || state.FollowedArtists == nil {
				t.Fatal("expected non-nil empty sequences")
			}
			if len(state.LikedSongs)+len(state.SavedAlbums)+len(state.FollowedArtists) != 0 {
				t.Errorf("expected empty library, got %+v", state)
			}
		})

		t.Run("Nil Storage", func(t *testing.T) {
			s := New(nil, nil)
			if !s.ToggleLike(tu.SampleTracks(1)[0]) {
				t.Error("expected in-memory toggle to work")
			}
		})

		t.Run("Unreadable Payload Falls Back To Empty", func(t *testing.T) {
			storage := tu.NewMemoryStorage()
			storage.Put(StorageKey, []byte("{not json"))

			var buf bytes.Buffer
			s := New(storage, testLogger(&buf))

			if len(s.LikedSongs()) != 0 {
				t.Errorf("expected empty liked songs, got %d", len(s.LikedSongs()))
			}
			if !strings.Contains(buf.String(), "could not load library") {
				t.Errorf("expected warning log, got %q", buf.String())
			}
		})

		t.Run("Storage Read Failure Falls Back To Empty", func(t *testing.T) {
			storage := tu.NewMemoryStorage()
			storage.FailGet = true

			s := New(storage, nil)
			if len(s.SavedAlbums()) != 0 {
				t.Error("expected empty library")
			}
		})

		t.Run("Restores Persisted State", func(t *testing.T) {
			storage := tu.NewMemoryStorage()
			tracks := tu.SampleTracks(2)

			first := New(storage, nil)
			first.ToggleLike(tracks[0])
			first.ToggleLike(tracks[1])
			first.ToggleSaveAlbum(savedAlbum("al1"))
			first.ToggleFollowArtist(followedArtist("a1"))

			second := New(storage, nil)
			liked := second.LikedSongs()
			if len(liked) != 2 || liked[0].ID != "t2" || liked[1].ID != "t1" {
				t.Errorf("expected liked [t2 t1], got %+v", liked)
			}
			if !second.IsAlbumSaved("al1") || !second.IsArtistFollowed("a1") {
				t.Error("expected album and artist restored")
			}
		})

		t.Run("Drops Duplicate IDs From Payload", func(t *testing.T) {
			storage := tu.NewMemoryStorage()
			storage.Put(StorageKey, []byte(`{"state":{
				"likedSongs":[{"id":"t1","name":"first"},{"id":"t1","name":"second"},{"id":"t2"}],
				"savedAlbums":[{"id":"al1"},{"id":"al1"}],
				"followedArtists":null
			},"version":0}`))

			s := New(storage, nil)
			liked := s.LikedSongs()
			if len(liked) != 2 || liked[0].Name != "first" {
				t.Errorf("expected first occurrence kept, got %+v", liked)
			}
			if len(s.SavedAlbums()) != 1 {
				t.Errorf("expected 1 saved album, got %d", len(s.SavedAlbums()))
			}
			if s.FollowedArtists() == nil {
				t.Error("expected non-nil followed artists")
			}
		})
	})

	t.Run("ToggleLike", func(t *testing.T) {
		t.Run("Involution", func(t *testing.T) {
			s := New(tu.NewMemoryStorage(), nil)
			for _, track := range tu.SampleTracks(3) {
				before := s.IsLiked(track.ID)
				s.ToggleLike(track)
				if s.IsLiked(track.ID) == before {
					t.Errorf("expected first toggle to flip %s", track.ID)
				}
				s.ToggleLike(track)
				if s.IsLiked(track.ID) != before {
					t.Errorf("expected second toggle to restore %s", track.ID)
				}
			}
		})

		t.Run("Prepends Most Recent", func(t *testing.T) {
			s := New(nil, nil)
			tracks := tu.SampleTracks(3)
			for _, track := range tracks {
				s.ToggleLike(track)
			}

			liked := s.LikedSongs()
			if liked[0].ID != "t3" || liked[2].ID != "t1" {
				t.Errorf("expected most recent first, got %v", liked)
			}

			s.ToggleLike(tracks[1])
			liked = s.LikedSongs()
			if len(liked) != 2 || liked[0].ID != "t3" || liked[1].ID != "t1" {
				t.Errorf("expected order preserved after removal, got %v", liked)
			}
		})

		t.Run("Never Duplicates", func(t *testing.T) {
			s := New(nil, nil)
			tracks := tu.SampleTracks(4)
			ops := []int{0, 1, 0, 2, 2, 3, 1, 0, 3, 3, 1}
			for _, i := range ops {
				s.ToggleLike(tracks[i])

				seen := map[string]bool{}
				for _, liked := range s.LikedSongs() {
					if seen[liked.ID] {
						t.Fatalf("duplicate id %s after toggles", liked.ID)
					}
					seen[liked.ID] = true
				}
			}
		})

		t.Run("Returns Membership", func(t *testing.T) {
			s := New(nil, nil)
			track := tu.SampleTracks(1)[0]
			if !s.ToggleLike(track) {
				t.Error("expected liked after first toggle")
			}
			if s.ToggleLike(track) {
				t.Error("expected unliked after second toggle")
			}
		})
	})

	t.Run("ToggleSaveAlbum", func(t *testing.T) {
		s := New(tu.NewMemoryStorage(), nil)
		album := savedAlbum("A1")

		s.ToggleSaveAlbum(album)
		if !s.IsAlbumSaved("A1") {
			t.Fatal("expected A1 saved")
		}

		s.ToggleSaveAlbum(album)
		if s.IsAlbumSaved("A1") {
			t.Error("expected A1 removed")
		}
		if len(s.SavedAlbums()) != 0 {
			t.Errorf("expected 0 saved albums, got %d", len(s.SavedAlbums()))
		}
	})

	t.Run("ToggleFollowArtist", func(t *testing.T) {
		s := New(nil, nil)
		s.ToggleFollowArtist(followedArtist("a1"))
		s.ToggleFollowArtist(followedArtist("a2"))

		if !s.IsArtistFollowed("a1") || !s.IsArtistFollowed("a2") {
			t.Fatal("expected both artists followed")
		}
		s.ToggleFollowArtist(followedArtist("a1"))
		if s.IsArtistFollowed("a1") {
			t.Error("expected a1 unfollowed")
		}
		if got := s.FollowedArtists(); len(got) != 1 || got[0].ID != "a2" {
			t.Errorf("expected [a2], got %v", got)
		}
	})

	t.Run("Persistence", func(t *testing.T) {
		t.Run("Writes Through On Every Mutation", func(t *testing.T) {
			storage := tu.NewMemoryStorage()
			s := New(storage, nil)

			s.ToggleLike(tu.SampleTracks(1)[0])
			s.ToggleSaveAlbum(savedAlbum("al1"))
			s.ToggleFollowArtist(followedArtist("a1"))

			if storage.Writes != 3 {
				t.Errorf("expected 3 writes, got %d", storage.Writes)
			}

			var p struct {
				State   models.LibraryState `json:"state"`
				Version int                 `json:"version"`
			}
			if err := json.Unmarshal(storage.Raw(StorageKey), &p); err != nil {
				t.Fatalf("failed to decode payload: %v", err)
			}
			if p.Version != PayloadVersion {
				t.Errorf("expected version %d, got %d", PayloadVersion, p.Version)
			}
			if len(p.State.LikedSongs) != 1 || len(p.State.SavedAlbums) != 1 || len(p.State.FollowedArtists) != 1 {
				t.Errorf("unexpected persisted state %+v", p.State)
			}
		})

		t.Run("Payload Uses Library Keys", func(t *testing.T) {
			storage := tu.NewMemoryStorage()
			New(storage, nil).ToggleLike(tu.SampleTracks(1)[0])

			raw := string(storage.Raw(StorageKey))
			for _, key := range []string{`"state"`, `"likedSongs"`, `"savedAlbums"`, `"followedArtists"`, `"version"`} {
				if !strings.Contains(raw, key) {
					t.Errorf("expected %s in payload %s", key, raw)
				}
			}
		})

		t.Run("Failed Write Is Swallowed", func(t *testing.T) {
			storage := tu.NewMemoryStorage()
			storage.FailSet = true

			var buf bytes.Buffer
			s := New(storage, testLogger(&buf))
			track := tu.SampleTracks(1)[0]

			if !s.ToggleLike(track) {
				t.Error("expected in-memory state to change despite failed write")
			}
			if !s.IsLiked(track.ID) {
				t.Error("expected track liked")
			}
			if !strings.Contains(buf.String(), "could not save library") {
				t.Errorf("expected error log, got %q", buf.String())
			}
		})

		t.Run("Survives Restart With SQLite", func(t *testing.T) {
			cfg := shared.DatabaseConfig{Path: t.TempDir() + "/library.db"}

			db, err := shared.OpenDatabase(cfg)
			if err != nil {
				t.Fatalf("failed to open database: %v", err)
			}
			s := New(repositories.NewKVRepository(db), nil)
			s.ToggleLike(tu.SampleTracks(1)[0])
			s.ToggleSaveAlbum(savedAlbum("al9"))
			db.Close()

			db, err = shared.OpenDatabase(cfg)
			if err != nil {
				t.Fatalf("failed to reopen database: %v", err)
			}
			defer db.Close()

			restored := New(repositories.NewKVRepository(db), nil)
			if !restored.IsLiked("t1") || !restored.IsAlbumSaved("al9") {
				t.Errorf("expected state restored, got %+v", restored.State())
			}
		})
	})

	t.Run("Subscribe", func(t *testing.T) {
		s := New(nil, nil)
		var got []models.LibraryState
		s.Subscribe(func(state models.LibraryState) {
			got = append(got, state)
		})

		s.ToggleLike(tu.SampleTracks(1)[0])
		s.ToggleSaveAlbum(savedAlbum("al1"))

		if len(got) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(got))
		}
		if len(got[0].LikedSongs) != 1 || len(got[0].SavedAlbums) != 0 {
			t.Errorf("unexpected first notification %+v", got[0])
		}
		if len(got[1].SavedAlbums) != 1 {
			t.Errorf("unexpected second notification %+v", got[1])
		}
	})

	t.Run("Copies Are Isolated", func(t *testing.T) {
		s := New(nil, nil)
		s.ToggleLike(tu.SampleTracks(1)[0])

		liked := s.LikedSongs()
		liked[0].Name = "mutated"

		if s.LikedSongs()[0].Name == "mutated" {
			t.Error("expected LikedSongs to return a copy")
		}
	})
}
