// package formatter provides functions to export library collections to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
)

// Formats lists the supported export formats.
var Formats = []string{"csv", "markdown", "txt", "json"}

// ValidFormat reports whether f is a supported export format.
func ValidFormat(f string) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}

// ExportToCSV converts a Collection to CSV format with columns: ID, Name, Artist, Album, Duration, Audio
func ExportToCSV(c *models.Collection) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTracksCSV(&buf, c.Tracks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTracksCSV writes tracks as CSV to w.
func WriteTracksCSV(w io.Writer, tracks []models.Track) error {
	writer := csv.NewWriter(w)

	headers := []string{"ID", "Name", "Artist", "Album", "Duration", "Audio"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Name,
			track.ArtistName,
			track.AlbumName,
			strconv.Itoa(track.Duration),
			track.Audio,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// ExportToMarkdown converts a Collection to Markdown format with optional cover image
func ExportToMarkdown(c *models.Collection, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", c.Name))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	if c.Owner != "" {
		buf.WriteString(fmt.Sprintf("**By**: %s\n\n", c.Owner))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(c.Tracks)))
	buf.WriteString(fmt.Sprintf("**Length**: %s\n\n", shared.FormatDuration(c.TotalDuration())))

	buf.WriteString("## Tracks\n\n")
	for i, track := range c.Tracks {
		duration := shared.FormatDuration(track.Duration)
		albumPart := ""
		if track.AlbumName != "" && c.Kind != models.KindAlbum {
			albumPart = fmt.Sprintf(" (%s)", track.AlbumName)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.ArtistName, track.Name, albumPart, duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Collection to plain text format
func ExportToText(c *models.Collection) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s: %s\n", kindLabel(c.Kind), c.Name))
	if c.Owner != "" {
		buf.WriteString(fmt.Sprintf("By: %s\n", c.Owner))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(c.Tracks)))

	for i, track := range c.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.ArtistName, track.Name))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a Collection, tracks included, to indented JSON
func ExportToJSON(c *models.Collection) ([]byte, error) {
	return shared.MarshalJSON(c, true)
}

func kindLabel(kind string) string {
	switch kind {
	case models.KindLiked:
		return "Liked Songs"
	case models.KindAlbum:
		return "Album"
	case models.KindPlaylist:
		return "Playlist"
	default:
		return "Collection"
	}
}

// LibraryToMarkdown renders a summary of the whole library.
func LibraryToMarkdown(state models.LibraryState) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Library\n\n")

	buf.WriteString(fmt.Sprintf("## Liked Songs (%d)\n\n", len(state.LikedSongs)))
	for i, t := range state.LikedSongs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, t.ArtistName, t.Name, shared.FormatDuration(t.Duration)))
	}

	buf.WriteString(fmt.Sprintf("\n## Saved Albums (%d)\n\n", len(state.SavedAlbums)))
	for _, a := range state.SavedAlbums {
		buf.WriteString(fmt.Sprintf("- %s by %s\n", a.Name, a.ArtistName))
	}

	buf.WriteString(fmt.Sprintf("\n## Followed Artists (%d)\n\n", len(state.FollowedArtists)))
	for _, a := range state.FollowedArtists {
		buf.WriteString(fmt.Sprintf("- %s\n", a.Name))
	}

	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of collection metadata (without tracks)
func ToMetadataJSON(c *models.Collection) ([]byte, error) {
	return shared.MarshalJSON(c.Metadata(), true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a collection to CSV format with accompanying metadata JSON file.
//
// Defaults to the collection ID as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(c *models.Collection, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = c.ID
	}

	csvData, err := ExportToCSV(c)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(c)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a collection to Markdown format in a dedicated directory.
//
// Directory name defaults to the collection ID.
// The imageURL parameter is optional - if provided, attempts to download the cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(c *models.Collection, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = c.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(c, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a collection to plain text format.
//
// Defaults to {collection.ID}_tracks.txt as the filename.
func WriteTextExport(c *models.Collection, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_tracks.txt", c.ID)
	}

	textData, err := ExportToText(c)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport exports a collection with its tracks to JSON.
//
// Defaults to {collection.ID}.json as the filename.
func WriteJSONExport(c *models.Collection, path string) (string, error) {
	if path == "" {
		path = c.ID + ".json"
	}

	data, err := ExportToJSON(c)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return path, nil
}

// ManifestEntry records the outcome of exporting one collection.
type ManifestEntry struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Status string   `json:"status"`
	Files  []string `json:"files,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Manifest summarizes a library export.
type Manifest struct {
	Format     string          `json:"format"`
	ExportedAt time.Time       `json:"exported_at"`
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Entries    []ManifestEntry `json:"entries"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// WriteExport writes c in format under dir and returns the created files.
// coverURL is only used by the markdown format.
func WriteExport(c *models.Collection, format, dir, coverURL string) ([]string, error) {
	base := filepath.Join(dir, c.ID)
	switch format {
	case "csv":
		res, err := WriteCSVExport(c, base)
		if err != nil {
			return nil, err
		}
		return []string{res.TracksFile, res.MetadataFile}, nil
	case "markdown":
		res, err := WriteMarkdownExport(c, base, coverURL)
		if err != nil {
			return nil, err
		}
		return res.Files, nil
	case "txt":
		path, err := WriteTextExport(c, base+"_tracks.txt")
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case "json":
		path, err := WriteJSONExport(c, base+".json")
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}
