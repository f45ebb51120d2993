// package services defines interface Catalog for interacting with the music catalog HTTP API
//
// Jamendo v3.0
package services

import (
	"context"

	"github.com/desertthunder/tevify/internal/models"
)

// Catalog defines the read-only operations the client needs from a music catalog.
//
// A limit <= 0 selects the operation's default result size.
type Catalog interface {
	// PopularTracks returns the month's most popular tracks.
	PopularTracks(ctx context.Context, limit int) ([]models.Track, error)

	// SearchTracks searches tracks by name. Blank queries return an empty result without a request.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// ArtistTracks returns an artist's tracks, most popular first.
	ArtistTracks(ctx context.Context, artistID string, limit int) ([]models.Track, error)

	// TracksByTag returns popular tracks for a genre tag.
	TracksByTag(ctx context.Context, tag string, limit int) ([]models.Track, error)

	// NewReleases returns the most recently released tracks.
	NewReleases(ctx context.Context, limit int) ([]models.Track, error)

	// Artist looks up an artist by ID. Returns nil without error when absent.
	Artist(ctx context.Context, artistID string) (*models.Artist, error)

	// PopularArtists returns the month's most popular artists.
	PopularArtists(ctx context.Context, limit int) ([]models.Artist, error)

	// Album looks up an album by ID. Returns nil without error when absent.
	Album(ctx context.Context, albumID string) (*models.Album, error)

	// AlbumTracks returns an album's tracks in album order.
	AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error)

	// PopularAlbums returns the month's most popular albums.
	PopularAlbums(ctx context.Context, limit int) ([]models.Album, error)

	// ArtistAlbums returns an artist's discography, newest first.
	ArtistAlbums(ctx context.Context, artistID string, limit int) ([]models.Album, error)

	// SearchAlbums searches albums by name. Blank queries return an empty result without a request.
	SearchAlbums(ctx context.Context, query string, limit int) ([]models.Album, error)

	// PopularPlaylists returns the newest community playlists.
	PopularPlaylists(ctx context.Context, limit int) ([]models.Playlist, error)

	// PlaylistTracks returns a playlist's tracks in playlist order.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// Name returns the name of the catalog (e.g., "Jamendo")
	Name() string
}
