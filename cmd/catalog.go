package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/tevify/internal/shared"
	"github.com/urfave/cli/v3"
)

// TracksPopular lists the month's most popular tracks.
func (r *Runner) TracksPopular(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireCatalog(); err != nil {
		return err
	}
	tracks, err := r.catalog.PopularTracks(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to fetch popular tracks: %w", err)
	}
	return r.writeTracks("Popular Tracks", tracks, cmd.Bool("json"))
}

// TracksSearch searches tracks by name.
func (r *Runner) TracksSearch(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireCatalog(); err != nil {
		return err
	}
	query, err := argument(cmd, "query")
	if err != nil {
		return err
	}

	r.logger.Debug("searching tracks", "query", query)
	tracks, err := r.catalog.SearchTracks(ctx, query, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return r.writeTracks(fmt.Sprintf("Results for %q", query), tracks, cmd.Bool("json"))
}

// TracksByTag lists popular tracks for a genre tag.
func (r *Runner) TracksByTag(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireCatalog(); err != nil {
		return err
	}
	tag, err := argument(cmd, "tag")
	if err != nil {
		return err
	}
	tracks, err := r.catalog.TracksByTag(ctx, tag, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to fetch %s tracks: %w", tag, err)
	}
	return r.writeTracks("Genre: "+tag, tracks, cmd.Bool("json"))
}

// TracksNew lists the newest releases.
func (r *Runner) TracksNew(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireCatalog(); err != nil {
		return err
	}
	tracks, err := r.catalog.NewReleases(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to fetch new releases: %w", err)
	}
	return r.writeTracks("New Releases", tracks, cmd.Bool("json"))
}

// ArtistShow prints an artist page.
func (r *Runner) ArtistShow(ctx context.Context, cmd *cli.Command) error {
	b, err := r.requireCatalog()
	if err != nil {
		return err
	}
	id, err := argument(cmd, "id")
	if err != nil {
		return err
	}

	page, err := b.Artist(ctx, id)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	r.writeTracks(page.Artist.Name, page.Tracks, false)
	r.writePlain("\n")
	r.writeAlbums("Albums", page.Albums)
	if page.Artist.Website != "" {
		r.writePlainln("Website: %s", page.Artist.Website)
	}
	return nil
}

// ArtistPopular lists the month's most popular artists.
func (r *Runner) ArtistPopular(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireCatalog(); err != nil {
		return err
	}
	artists, err := r.catalog.PopularArtists(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to fetch popular artists: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(artists, true)
	}

	r.writePlainHeader("Popular Artists")
	for i, a := range artists {
		r.writePlain("%3d. %s  [%s]\n", i+1, a.Name, a.ID)
	}
	return nil
}

// AlbumShow prints an album with its tracks.
func (r *Runner) AlbumShow(ctx context.Context, cmd *cli.Command) error {
	b, err := r.requireCatalog()
	if err != nil {
		return err
	}
	id, err := argument(cmd, "id")
	if err != nil {
		return err
	}

	page, err := b.Album(ctx, id)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	title := fmt.Sprintf("%s • %s", page.Album.Name, page.Album.ArtistName)
	if page.Album.ReleaseDate != "" {
		title = fmt.Sprintf("%s (%s)", title, page.Album.ReleaseDate)
	}
	return r.writeTracks(title, page.Tracks, false)
}

// AlbumSearch searches albums by name.
func (r *Runner) AlbumSearch(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireCatalog(); err != nil {
		return err
	}
	query, err := argument(cmd, "query")
	if err != nil {
		return err
	}
	albums, err := r.catalog.SearchAlbums(ctx, query, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(albums, true)
	}
	r.writeAlbums(fmt.Sprintf("Albums matching %q", query), albums)
	return nil
}

// PlaylistList lists community playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireCatalog(); err != nil {
		return err
	}
	playlists, err := r.catalog.PopularPlaylists(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	r.writePlainHeader("Playlists")
	for i, p := range playlists {
		owner := ""
		if p.UserName != "" {
			owner = " by " + p.UserName
		}
		r.writePlain("%3d. %s%s  [%s]\n", i+1, p.Name, owner, p.ID)
	}
	return nil
}

// PlaylistTracks lists a playlist's tracks.
func (r *Runner) PlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	b, err := r.requireCatalog()
	if err != nil {
		return err
	}
	id, err := argument(cmd, "id")
	if err != nil {
		return err
	}
	tracks, err := b.Playlist(ctx, id)
	if err != nil {
		return err
	}
	return r.writeTracks("Playlist "+id, tracks, cmd.Bool("json"))
}

// APIGet makes a direct GET request to the catalog API.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: set catalog.client_id in config.toml or %s", shared.ErrServiceUnavailable, shared.ClientIDEnv)
	}
	path, err := argument(cmd, "path")
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &shared.RequestError{
			StatusCode: resp.StatusCode,
			Status:     fmt.Sprintf("%s, body: %s", http.StatusText(resp.StatusCode), resp.Body),
		}
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("json"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
