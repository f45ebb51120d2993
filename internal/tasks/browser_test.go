package tasks

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
	tu "github.com/desertthunder/tevify/internal/testing"
)

func newCatalog() *tu.MockCatalog {
	c := tu.NewMockCatalog()
	c.Tracks = tu.SampleTracks(25)
	c.TagTracks["chill"] = tu.SampleTracks(12)
	c.TagTracks["electronic"] = tu.SampleTracks(3)
	c.TagTracks["jazz"] = tu.SampleTracks(50)
	c.Artists = []models.Artist{{ID: "a1", Name: "Artist One"}, {ID: "a2", Name: "Artist Two"}}
	c.Albums = []models.Album{
		{ID: "al1", Name: "Album One", ArtistID: "a1", ArtistName: "Artist One"},
		{ID: "al2", Name: "Album Two", ArtistID: "a2", ArtistName: "Artist Two"},
	}
	c.Playlists = []models.Playlist{{ID: "p1", Name: "Focus"}}
	return c
}

func TestBrowser(t *testing.T) {
	ctx := context.Background()

	t.Run("Home", func(t *testing.T) {
		t.Run("loads every section with its limit", func(t *testing.T) {
			catalog := newCatalog()
			page, err := NewBrowser(catalog, nil).Home(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(page.Trending) != HomeTrendingLimit {
				t.Errorf("expected %d trending tracks, got %d", HomeTrendingLimit, len(page.Trending))
			}
			if len(page.Chill) != HomePicksLimit {
				t.Errorf("expected %d chill tracks, got %d", HomePicksLimit, len(page.Chill))
			}
			if len(page.Electronic) != 3 {
				t.Errorf("expected 3 electronic tracks, got %d", len(page.Electronic))
			}
			if len(page.Artists) != 2 || len(page.Albums) != 2 {
				t.Errorf("expected 2 artists and 2 albums, got %d and %d", len(page.Artists), len(page.Albums))
			}
			if catalog.CallCount("TracksByTag") != 2 {
				t.Errorf("expected 2 tag requests, got %d", catalog.CallCount("TracksByTag"))
			}
		})

		t.Run("fails when any section fails", func(t *testing.T) {
			catalog := newCatalog()
			catalog.Err = &shared.RequestError{StatusCode: 500, Status: "500 Internal Server Error"}

			_, err := NewBrowser(catalog, nil).Home(ctx)
			var reqErr *shared.RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected RequestError, got %v", err)
			}
		})
	})

	t.Run("Artist", func(t *testing.T) {
		t.Run("loads profile tracks and albums", func(t *testing.T) {
			page, err := NewBrowser(newCatalog(), nil).Artist(ctx, "a1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.Artist.Name != "Artist One" {
				t.Errorf("expected Artist One, got %s", page.Artist.Name)
			}
			if len(page.Tracks) != 25 {
				t.Errorf("expected 25 tracks, got %d", len(page.Tracks))
			}
			if len(page.Albums) != 1 || page.Albums[0].ID != "al1" {
				t.Errorf("expected album al1, got %+v", page.Albums)
			}
		})

		t.Run("missing artist", func(t *testing.T) {
			_, err := NewBrowser(newCatalog(), nil).Artist(ctx, "nope")
			if !errors.Is(err, shared.ErrArtistNotFound) {
				t.Errorf("expected ErrArtistNotFound, got %v", err)
			}
		})
	})

	t.Run("Album", func(t *testing.T) {
		t.Run("loads album and tracks", func(t *testing.T) {
			page, err := NewBrowser(newCatalog(), nil).Album(ctx, "al1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.Album.ID != "al1" || len(page.Tracks) != 25 {
				t.Errorf("unexpected page: album=%s tracks=%d", page.Album.ID, len(page.Tracks))
			}
		})

		t.Run("missing album", func(t *testing.T) {
			_, err := NewBrowser(newCatalog(), nil).Album(ctx, "nope")
			if !errors.Is(err, shared.ErrAlbumNotFound) {
				t.Errorf("expected ErrAlbumNotFound, got %v", err)
			}
		})
	})

	t.Run("Genre tiles", func(t *testing.T) {
		if len(Genres) != 16 {
			t.Errorf("expected 16 genres, got %d", len(Genres))
		}
		for _, tag := range []string{"hip hop", "chill", "country", "indie"} {
			if !slices.Contains(Genres, tag) {
				t.Errorf("expected %q among genres", tag)
			}
		}
	})

	t.Run("Genre limits results", func(t *testing.T) {
		tracks, err := NewBrowser(newCatalog(), nil).Genre(ctx, "jazz")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != GenreLimit {
			t.Errorf("expected %d tracks, got %d", GenreLimit, len(tracks))
		}
	})

	t.Run("Search", func(t *testing.T) {
		tracks, err := NewBrowser(newCatalog(), nil).Search(ctx, "track 1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Track 1 and Track 10..19
		if len(tracks) != 11 {
			t.Errorf("expected 11 matches, got %d", len(tracks))
		}
	})

	t.Run("Playlists", func(t *testing.T) {
		catalog := newCatalog()
		b := NewBrowser(catalog, nil)

		playlists, err := b.Playlists(ctx)
		if err != nil || len(playlists) != 1 {
			t.Fatalf("expected 1 playlist, got %d (%v)", len(playlists), err)
		}
		tracks, err := b.Playlist(ctx, playlists[0].ID)
		if err != nil || len(tracks) != 25 {
			t.Errorf("expected 25 tracks, got %d (%v)", len(tracks), err)
		}
	})

	t.Run("wraps errors with the section name", func(t *testing.T) {
		catalog := newCatalog()
		catalog.Err = &shared.APIError{Code: 5, Message: "bad client"}

		_, err := NewBrowser(catalog, nil).Genre(ctx, "jazz")
		if err == nil || err.Error() == "" {
			t.Fatal("expected error")
		}
		var apiErr *shared.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != 5 {
			t.Errorf("expected APIError with code 5, got %v", err)
		}
	})
}
