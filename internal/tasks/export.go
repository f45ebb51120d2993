package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/tevify/internal/formatter"
	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
	"golang.org/x/time/rate"
)

// LikedCollectionID names the liked songs export.
const LikedCollectionID = "liked_songs"

// ManifestFile is written to the output directory after every export.
const ManifestFile = "export_manifest.json"

// ExportOpts contains configuration for library exports.
type ExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: tevify_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Album requests per second (default: 5)
	Covers     bool    // Download cover art (markdown only)
}

// ExportResult summarizes a library export.
type ExportResult struct {
	OutputDir    string
	ManifestPath string
	Manifest     formatter.Manifest
}

type albumJob struct {
	step  int
	album models.SavedAlbum
}

// ExportLibrary writes liked songs and the track listings of saved albums under opts.OutputDir.
//
// Liked songs are exported from state directly. Album listings are fetched through a
// rate limited producer and written by a worker pool. A failed album is recorded in the
// manifest and does not stop the export.
func (b *Browser) ExportLibrary(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	state models.LibraryState,
	opts ExportOpts,
) (*ExportResult, error) {
	if b.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Format == "" {
		opts.Format = "json"
	}
	if !formatter.ValidFormat(opts.Format) {
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tevify_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(state.SavedAlbums) + 1
	manifest := formatter.Manifest{
		Format:     opts.Format,
		ExportedAt: time.Now().UTC(),
		Total:      total,
	}
	entries := make([]*formatter.ManifestEntry, total)
	record := func(step int, entry formatter.ManifestEntry, err error) {
		entries[step-1] = &entry
		if err != nil {
			manifest.Failed++
			sendProgress(prog, exportFailedUpdate(step, total, entry.Name, err))
			return
		}
		manifest.Successful++
		sendProgress(prog, exportCompletedUpdate(step, total, entry.Name, len(entry.Files)))
	}

	sendProgress(prog, likedSongsUpdate(len(state.LikedSongs)))
	liked := &models.Collection{
		ID:     LikedCollectionID,
		Name:   "Liked Songs",
		Kind:   models.KindLiked,
		Tracks: append([]models.Track{}, state.LikedSongs...),
	}
	entry, err := b.writeCollection(liked, "", opts)
	record(1, entry, err)

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan albumJob, len(state.SavedAlbums))
	results := make(chan exportOutcome, len(state.SavedAlbums))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go b.exportWorker(ctx, &wg, jobs, results, limiter, opts)
	}

	go func() {
		defer close(jobs)
		for i, album := range state.SavedAlbums {
			select {
			case <-ctx.Done():
				return
			case jobs <- albumJob{step: i + 2, album: album}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		record(res.step, res.entry, res.err)
	}

	manifest.Entries = make([]formatter.ManifestEntry, 0, total)
	for _, e := range entries {
		if e != nil {
			manifest.Entries = append(manifest.Entries, *e)
		}
	}

	if err := ctx.Err(); err != nil {
		return &ExportResult{OutputDir: opts.OutputDir, Manifest: manifest}, err
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	if err := formatter.WriteManifest(manifest, manifestPath); err != nil {
		return &ExportResult{OutputDir: opts.OutputDir, Manifest: manifest},
			fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	sendProgress(prog, manifestUpdate(manifestPath))

	b.logger.Info("library exported", "dir", opts.OutputDir, "ok", manifest.Successful, "failed", manifest.Failed)
	return &ExportResult{OutputDir: opts.OutputDir, ManifestPath: manifestPath, Manifest: manifest}, nil
}

type exportOutcome struct {
	step  int
	entry formatter.ManifestEntry
	err   error
}

// exportWorker fetches and writes album listings from the jobs channel.
func (b *Browser) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan albumJob,
	results chan<- exportOutcome,
	limiter *rate.Limiter,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		entry, err := b.exportAlbum(ctx, job.album, opts)
		results <- exportOutcome{step: job.step, entry: entry, err: err}
	}
}

func (b *Browser) exportAlbum(ctx context.Context, album models.SavedAlbum, opts ExportOpts) (formatter.ManifestEntry, error) {
	entry := formatter.ManifestEntry{ID: album.ID, Name: album.Name, Kind: models.KindAlbum, Status: "failed"}

	tracks, err := b.catalog.AlbumTracks(ctx, album.ID)
	if err != nil {
		err = fmt.Errorf("failed to fetch album: %w", err)
		entry.Error = err.Error()
		b.logger.Warn("album export failed", "album", album.ID, "error", err)
		return entry, err
	}

	c := &models.Collection{
		ID:     album.ID,
		Name:   album.Name,
		Kind:   models.KindAlbum,
		Owner:  album.ArtistName,
		Image:  album.Image,
		Tracks: tracks,
	}
	cover := ""
	if opts.Covers {
		cover = album.Image
	}
	return b.writeCollection(c, cover, opts)
}

func (b *Browser) writeCollection(c *models.Collection, cover string, opts ExportOpts) (formatter.ManifestEntry, error) {
	entry := formatter.ManifestEntry{ID: c.ID, Name: c.Name, Kind: c.Kind, Status: "failed"}

	files, err := formatter.WriteExport(c, opts.Format, opts.OutputDir, cover)
	if err != nil {
		entry.Error = err.Error()
		return entry, err
	}
	entry.Status = "success"
	entry.Files = files
	return entry, nil
}
