package formatter

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
	th "github.com/desertthunder/tevify/internal/testing"
)

func sampleCollection() *models.Collection {
	return &models.Collection{
		ID:    "al1",
		Name:  "Test Album",
		Kind:  models.KindAlbum,
		Owner: "Artist One",
		Tracks: []models.Track{
			{ID: "track1", Name: "Song One", ArtistName: "Artist One", AlbumName: "Test Album", Duration: 180, Audio: "https://audio.example.com/1.mp3"},
			{ID: "track2", Name: "Song Two", ArtistName: "Artist One", AlbumName: "Test Album", Duration: 245, Audio: "https://audio.example.com/2.mp3"},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleCollection())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Name,Artist,Album,Duration,Audio") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1,Song One,Artist One,Test Album,180,https://audio.example.com/1.mp3") {
			t.Errorf("CSV missing track1 row, got: %s", output)
		}
	})

	t.Run("ExportToCSV Quotes Commas", func(t *testing.T) {
		c := &models.Collection{Tracks: []models.Track{{ID: "x", Name: "Hello, World"}}}
		data, err := ExportToCSV(c)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), `"Hello, World"`) {
			t.Errorf("expected quoted field, got %s", data)
		}
	})

	t.Run("WriteTracksCSV Write Failure", func(t *testing.T) {
		if err := WriteTracksCSV(&th.FWriter{}, sampleCollection().Tracks); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleCollection(), "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Test Album",
				"**By**: Artist One",
				"**Tracks**: 2",
				"**Length**: 7:05",
				"1. Artist One - Song One [3:00]",
				"2. Artist One - Song Two [4:05]",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got:\n%s", want, output)
				}
			}
			if strings.Contains(output, "![Cover]") {
				t.Error("Markdown should not contain cover image")
			}
			if strings.Contains(output, "(Test Album)") {
				t.Error("album exports should not repeat the album name per track")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleCollection(), "cover.jpg")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Error("Markdown missing cover image")
			}
		})

		t.Run("liked songs show album", func(t *testing.T) {
			c := sampleCollection()
			c.Kind = models.KindLiked
			data, _ := ExportToMarkdown(c, "")
			if !strings.Contains(string(data), "Song One (Test Album)") {
				t.Errorf("expected album name per track, got %s", data)
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleCollection())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Album: Test Album") {
			t.Errorf("Text missing header, got %s", output)
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Error("Text missing track count")
		}
		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Error("Text missing track 1")
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(sampleCollection())
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, `"track_count": 2`) {
			t.Errorf("metadata missing track count, got %s", output)
		}
		if strings.Contains(output, "track1") {
			t.Error("metadata should not include tracks")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleCollection())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{`"al1"`, `"Test Album"`, `"track1"`, `"Song Two"`, `"kind": "album"`} {
			if !strings.Contains(output, want) {
				t.Errorf("JSON missing %s", want)
			}
		}
	})

	t.Run("LibraryToMarkdown", func(t *testing.T) {
		state := models.LibraryState{
			LikedSongs:      sampleCollection().Tracks[:1],
			SavedAlbums:     []models.SavedAlbum{{ID: "al1", Name: "Test Album", ArtistName: "Artist One"}},
			FollowedArtists: []models.FollowedArtist{{ID: "a1", Name: "Artist One"}},
		}

		output := string(LibraryToMarkdown(state))
		for _, want := range []string{
			"## Liked Songs (1)",
			"1. Artist One - Song One [3:00]",
			"## Saved Albums (1)",
			"- Test Album by Artist One",
			"## Followed Artists (1)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("library markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ValidFormat", func(t *testing.T) {
		for _, f := range Formats {
			if !ValidFormat(f) {
				t.Errorf("expected %s valid", f)
			}
		}
		if ValidFormat("xml") {
			t.Error("expected xml invalid")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("DownloadImage with empty URL should return error")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpegbytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "jpegbytes" {
			t.Errorf("unexpected image data %q", data)
		}
	})

	t.Run("BadStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			res, err := WriteCSVExport(sampleCollection(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if res.TracksFile != "al1_tracks.csv" || res.MetadataFile != "al1_metadata.json" {
				t.Errorf("unexpected files %+v", res)
			}
			th.AssertFileExists(t, res.TracksFile)
			th.AssertFileExists(t, res.MetadataFile)
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "custom")
			res, err := WriteCSVExport(sampleCollection(), base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			content := th.MustReadFile(t, res.TracksFile)
			if !strings.Contains(content, "Song Two") {
				t.Error("CSV file missing track")
			}
		})

		t.Run("UnwritableDirectory", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "missing", "dir", "x")
			if _, err := WriteCSVExport(sampleCollection(), base); err == nil {
				t.Error("expected error writing to missing directory")
			}
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithCustomDirectory", func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "album")
			res, err := WriteMarkdownExport(sampleCollection(), dir, "")
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			th.AssertDirExists(t, dir)
			th.AssertFileExists(t, filepath.Join(dir, "README.md"))
			if res.CoverImage != "" {
				t.Error("expected no cover image")
			}
		})

		t.Run("WithCoverImage", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("jpeg"))
			}))
			defer server.Close()

			dir := filepath.Join(t.TempDir(), "album")
			res, err := WriteMarkdownExport(sampleCollection(), dir, server.URL)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if len(res.Files) != 2 {
				t.Errorf("expected cover and README, got %v", res.Files)
			}
			if !strings.Contains(th.MustReadFile(t, filepath.Join(dir, "README.md")), "![Cover](cover.jpg)") {
				t.Error("README missing cover reference")
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteTextExport(sampleCollection(), "")
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if path != "al1_tracks.txt" {
			t.Errorf("expected default path, got %s", path)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		if _, err := WriteJSONExport(sampleCollection(), path); err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}
		if !strings.Contains(th.MustReadFile(t, path), `"tracks"`) {
			t.Error("JSON file missing tracks")
		}
	})

	t.Run("WriteExport", func(t *testing.T) {
		tests := []struct {
			format string
			files  int
		}{
			{"csv", 2},
			{"markdown", 1},
			{"txt", 1},
			{"json", 1},
		}

		for _, tt := range tests {
			t.Run(tt.format, func(t *testing.T) {
				files, err := WriteExport(sampleCollection(), tt.format, t.TempDir(), "")
				if err != nil {
					t.Fatalf("WriteExport failed: %v", err)
				}
				if len(files) != tt.files {
					t.Errorf("expected %d files, got %v", tt.files, files)
				}
				for _, f := range files {
					if _, err := os.Stat(f); err != nil {
						t.Errorf("missing file %s", f)
					}
				}
			})
		}

		t.Run("unknown", func(t *testing.T) {
			_, err := WriteExport(sampleCollection(), "xml", t.TempDir(), "")
			if !errors.Is(err, shared.ErrInvalidFlag) {
				t.Errorf("expected ErrInvalidFlag, got %v", err)
			}
		})
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		m := Manifest{
			Format:     "csv",
			Total:      2,
			Successful: 1,
			Failed:     1,
			Entries: []ManifestEntry{
				{ID: "liked", Name: "Liked Songs", Kind: models.KindLiked, Status: "success", Files: []string{"liked_tracks.csv"}},
				{ID: "al9", Name: "Gone", Kind: models.KindAlbum, Status: "failed", Error: "catalog request failed: 500"},
			},
		}

		if err := WriteManifest(m, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		for _, want := range []string{`"format": "csv"`, `"successful": 1`, `"failed": 1`, `"status": "failed"`, `"catalog request failed: 500"`} {
			if !strings.Contains(content, want) {
				t.Errorf("manifest missing %s", want)
			}
		}
	})
}
