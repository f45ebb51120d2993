package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/tevify/internal/formatter"
	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
	"github.com/desertthunder/tevify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// LibraryList prints the library as Markdown or JSON.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.openLibrary()
	if err != nil {
		return err
	}
	state := lib.State()
	if cmd.Bool("json") {
		return r.writeJSON(state, true)
	}
	_, err = r.output.Write(formatter.LibraryToMarkdown(state))
	return err
}

// LibraryLike toggles a track in liked songs.
//
// A liked track is removed by id alone. Liking a new track looks it up on its album.
func (r *Runner) LibraryLike(ctx context.Context, cmd *cli.Command) error {
	id, err := argument(cmd, "track-id")
	if err != nil {
		return err
	}
	lib, err := r.openLibrary()
	if err != nil {
		return err
	}

	if i := slices.IndexFunc(lib.LikedSongs(), func(t models.Track) bool { return t.ID == id }); i >= 0 {
		track := lib.LikedSongs()[i]
		lib.ToggleLike(track)
		return r.writePlain("Removed %q from Liked Songs\n", track.Name)
	}

	albumID := cmd.String("album")
	if albumID == "" {
		return fmt.Errorf("%w: --album is required to like a new track", shared.ErrMissingArgument)
	}
	if _, err := r.requireCatalog(); err != nil {
		return err
	}
	tracks, err := r.catalog.AlbumTracks(ctx, albumID)
	if err != nil {
		return fmt.Errorf("failed to fetch album tracks: %w", err)
	}
	i := slices.IndexFunc(tracks, func(t models.Track) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s on album %s", shared.ErrTrackNotFound, id, albumID)
	}

	lib.ToggleLike(tracks[i])
	return r.writePlain("Added %q to Liked Songs\n", tracks[i].Name)
}

// LibrarySave toggles an album in saved albums.
func (r *Runner) LibrarySave(ctx context.Context, cmd *cli.Command) error {
	id, err := argument(cmd, "album-id")
	if err != nil {
		return err
	}
	lib, err := r.openLibrary()
	if err != nil {
		return err
	}

	if i := slices.IndexFunc(lib.SavedAlbums(), func(a models.SavedAlbum) bool { return a.ID == id }); i >= 0 {
		album := lib.SavedAlbums()[i]
		lib.ToggleSaveAlbum(album)
		return r.writePlain("Removed %q from your albums\n", album.Name)
	}

	if _, err := r.requireCatalog(); err != nil {
		return err
	}
	album, err := r.catalog.Album(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch album: %w", err)
	}
	if album == nil {
		return fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, id)
	}

	lib.ToggleSaveAlbum(models.NewSavedAlbum(*album))
	return r.writePlain("Saved %q by %s\n", album.Name, album.ArtistName)
}

// LibraryFollow toggles an artist in followed artists.
func (r *Runner) LibraryFollow(ctx context.Context, cmd *cli.Command) error {
	id, err := argument(cmd, "artist-id")
	if err != nil {
		return err
	}
	lib, err := r.openLibrary()
	if err != nil {
		return err
	}

	if i := slices.IndexFunc(lib.FollowedArtists(), func(a models.FollowedArtist) bool { return a.ID == id }); i >= 0 {
		artist := lib.FollowedArtists()[i]
		lib.ToggleFollowArtist(artist)
		return r.writePlain("Unfollowed %s\n", artist.Name)
	}

	if _, err := r.requireCatalog(); err != nil {
		return err
	}
	artist, err := r.catalog.Artist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch artist: %w", err)
	}
	if artist == nil {
		return fmt.Errorf("%w: %s", shared.ErrArtistNotFound, id)
	}

	lib.ToggleFollowArtist(models.NewFollowedArtist(*artist))
	return r.writePlain("Following %s\n", artist.Name)
}

// LibraryExport writes the library to files, printing progress as albums complete.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	b, err := r.requireCatalog()
	if err != nil {
		return err
	}
	format := cmd.String("format")
	if !formatter.ValidFormat(format) {
		return fmt.Errorf("%w: format must be one of %v", shared.ErrInvalidFlag, formatter.Formats)
	}
	lib, err := r.openLibrary()
	if err != nil {
		return err
	}

	prog := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := b.ExportLibrary(ctx, prog, lib.State(), tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		Covers:     cmd.Bool("covers"),
	})
	close(prog)
	<-done
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	m := result.Manifest
	r.writePlainln("✓ Exported %d/%d collections to %s", m.Successful, m.Total, result.OutputDir)
	if m.Failed > 0 {
		r.writePlain("  %d failed, see %s\n", m.Failed, result.ManifestPath)
	}
	return nil
}
