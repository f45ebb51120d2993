package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Result sizes requested by each page.
const (
	HomeTrendingLimit = 20
	HomePicksLimit    = 10
	HomeArtistsLimit  = 10
	HomeAlbumsLimit   = 10
	ArtistAlbumsLimit = 20
	GenreLimit        = 40
	SearchLimit       = 30
	PlaylistsLimit    = 20
)

// Home-page genre picks.
const (
	ChillTag      = "chill"
	ElectronicTag = "electronic"
)

// Genres lists the tags offered for browsing.
var Genres = []string{
	"pop", "rock", "electronic", "jazz", "hip hop", "classical", "chill", "ambient",
	"metal", "country", "blues", "folk", "latin", "soul", "reggae", "indie",
}

// HomePage is the landing view.
type HomePage struct {
	Trending   []models.Track
	Chill      []models.Track
	Electronic []models.Track
	Artists    []models.Artist
	Albums     []models.Album
}

// ArtistPage is an artist profile with top tracks and discography.
type ArtistPage struct {
	Artist *models.Artist
	Tracks []models.Track
	Albums []models.Album
}

// AlbumPage is an album with its track listing.
type AlbumPage struct {
	Album  *models.Album
	Tracks []models.Track
}

// Home loads the landing page.
func (b *Browser) Home(ctx context.Context) (*HomePage, error) {
	page := &HomePage{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		page.Trending, err = b.catalog.PopularTracks(ctx, HomeTrendingLimit)
		return wrap("popular tracks", err)
	})
	g.Go(func() (err error) {
		page.Chill, err = b.catalog.TracksByTag(ctx, ChillTag, HomePicksLimit)
		return wrap("chill tracks", err)
	})
	g.Go(func() (err error) {
		page.Electronic, err = b.catalog.TracksByTag(ctx, ElectronicTag, HomePicksLimit)
		return wrap("electronic tracks", err)
	})
	g.Go(func() (err error) {
		page.Artists, err = b.catalog.PopularArtists(ctx, HomeArtistsLimit)
		return wrap("popular artists", err)
	})
	g.Go(func() (err error) {
		page.Albums, err = b.catalog.PopularAlbums(ctx, HomeAlbumsLimit)
		return wrap("popular albums", err)
	})

	if err := g.Wait(); err != nil {
		b.logger.Error("home page failed", "error", err)
		return nil, err
	}
	return page, nil
}

// Artist loads an artist page. A missing artist yields [shared.ErrArtistNotFound].
func (b *Browser) Artist(ctx context.Context, artistID string) (*ArtistPage, error) {
	page := &ArtistPage{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		page.Artist, err = b.catalog.Artist(ctx, artistID)
		return wrap("artist", err)
	})
	g.Go(func() (err error) {
		page.Tracks, err = b.catalog.ArtistTracks(ctx, artistID, 0)
		return wrap("artist tracks", err)
	})
	g.Go(func() (err error) {
		page.Albums, err = b.catalog.ArtistAlbums(ctx, artistID, ArtistAlbumsLimit)
		return wrap("artist albums", err)
	})

	if err := g.Wait(); err != nil {
		b.logger.Error("artist page failed", "artist", artistID, "error", err)
		return nil, err
	}
	if page.Artist == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrArtistNotFound, artistID)
	}
	return page, nil
}

// Album loads an album page. A missing album yields [shared.ErrAlbumNotFound].
func (b *Browser) Album(ctx context.Context, albumID string) (*AlbumPage, error) {
	page := &AlbumPage{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		page.Album, err = b.catalog.Album(ctx, albumID)
		return wrap("album", err)
	})
	g.Go(func() (err error) {
		page.Tracks, err = b.catalog.AlbumTracks(ctx, albumID)
		return wrap("album tracks", err)
	})

	if err := g.Wait(); err != nil {
		b.logger.Error("album page failed", "album", albumID, "error", err)
		return nil, err
	}
	if page.Album == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, albumID)
	}
	return page, nil
}

// Playlist loads a playlist's tracks.
func (b *Browser) Playlist(ctx context.Context, playlistID string) ([]models.Track, error) {
	tracks, err := b.catalog.PlaylistTracks(ctx, playlistID)
	if err != nil {
		b.logger.Error("playlist page failed", "playlist", playlistID, "error", err)
		return nil, wrap("playlist tracks", err)
	}
	return tracks, nil
}

// Genre loads popular tracks for tag.
func (b *Browser) Genre(ctx context.Context, tag string) ([]models.Track, error) {
	tracks, err := b.catalog.TracksByTag(ctx, tag, GenreLimit)
	if err != nil {
		b.logger.Error("genre page failed", "tag", tag, "error", err)
		return nil, wrap("genre tracks", err)
	}
	return tracks, nil
}

// Search loads tracks matching query. A blank query yields an empty result.
func (b *Browser) Search(ctx context.Context, query string) ([]models.Track, error) {
	tracks, err := b.catalog.SearchTracks(ctx, query, SearchLimit)
	if err != nil {
		b.logger.Error("search failed", "query", query, "error", err)
		return nil, wrap("search", err)
	}
	return tracks, nil
}

// Playlists loads community playlists.
func (b *Browser) Playlists(ctx context.Context) ([]models.Playlist, error) {
	playlists, err := b.catalog.PopularPlaylists(ctx, PlaylistsLimit)
	if err != nil {
		b.logger.Error("playlists page failed", "error", err)
		return nil, wrap("playlists", err)
	}
	return playlists, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
