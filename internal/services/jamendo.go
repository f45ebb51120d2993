// Jamendo API implementation of [Catalog]
//
// Jamendo response types based on https://developer.jamendo.com/v3.0/docs
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
	"golang.org/x/time/rate"
)

const (
	JamendoBaseURL = "https://api.jamendo.com/v3.0"

	defaultTrackLimit       = 20
	defaultArtistTrackLimit = 50
	defaultAlbumLimit       = 20
	defaultArtistLimit      = 20
	defaultPlaylistLimit    = 20

	imageSize      = "400"
	albumImageSize = "600"
)

type jamendoHeaders struct {
	Status       string `json:"status"`
	Code         int    `json:"code"`
	ErrorMessage string `json:"error_message"`
	ResultsCount int    `json:"results_count"`
}

// jamendoResponse is the envelope every Jamendo endpoint returns.
type jamendoResponse[T any] struct {
	Headers jamendoHeaders `json:"headers"`
	Results []T            `json:"results"`
}

// jamendoTrackGroup is a result of the albums/tracks and playlists/tracks endpoints:
// the parent resource with its tracks nested.
type jamendoTrackGroup struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Image      string               `json:"image"`
	ArtistID   string               `json:"artist_id"`
	ArtistName string               `json:"artist_name"`
	Tracks     []jamendoNestedTrack `json:"tracks"`
}

// jamendoNestedTrack is a track inside a group. Nested entries report duration as a string.
type jamendoNestedTrack struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Duration      flexInt `json:"duration"`
	ArtistID      string  `json:"artist_id"`
	ArtistName    string  `json:"artist_name"`
	AlbumID       string  `json:"album_id"`
	AlbumName     string  `json:"album_name"`
	Image         string  `json:"image"`
	Audio         string  `json:"audio"`
	AudioDownload string  `json:"audiodownload"`
	ReleaseDate   string  `json:"releasedate"`
	ShareURL      string  `json:"shareurl"`
}

// flexInt decodes a JSON number or a quoted integer.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", b, err)
	}
	*f = flexInt(n)
	return nil
}

func (t jamendoNestedTrack) toModel() models.Track {
	return models.Track{
		ID:            t.ID,
		Name:          t.Name,
		Duration:      int(t.Duration),
		ArtistID:      t.ArtistID,
		ArtistName:    t.ArtistName,
		AlbumID:       t.AlbumID,
		AlbumName:     t.AlbumName,
		Image:         t.Image,
		Audio:         t.Audio,
		AudioDownload: t.AudioDownload,
		ReleaseDate:   t.ReleaseDate,
		ShareURL:      t.ShareURL,
	}
}

// JamendoOption configures a [JamendoService].
type JamendoOption func(*JamendoService)

// WithHTTPClient sets the HTTP client used for catalog requests.
func WithHTTPClient(c *http.Client) JamendoOption {
	return func(s *JamendoService) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithBaseURL overrides the catalog base URL.
func WithBaseURL(u string) JamendoOption {
	return func(s *JamendoService) {
		if u != "" {
			s.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithRateLimit spaces requests to at most rps per second. Zero or less disables limiting.
func WithRateLimit(rps float64) JamendoOption {
	return func(s *JamendoService) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			s.limiter = nil
		}
	}
}

// JamendoService implements [Catalog] against the Jamendo REST API.
type JamendoService struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewJamendoService creates a Jamendo client authenticated with the given application client id.
func NewJamendoService(clientID string, opts ...JamendoOption) (*JamendoService, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("%w: jamendo client_id", shared.ErrMissingCredentials)
	}

	s := &JamendoService{
		baseURL:    JamendoBaseURL,
		clientID:   clientID,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewJamendoServiceFromConfig builds a client from the [catalog] config section.
func NewJamendoServiceFromConfig(cfg shared.CatalogConfig) (*JamendoService, error) {
	return NewJamendoService(
		cfg.ClientID,
		WithBaseURL(cfg.BaseURL),
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		WithRateLimit(cfg.RateLimit),
	)
}

func (s *JamendoService) Name() string {
	return "Jamendo"
}

// BaseURL returns the catalog base URL requests are issued against.
func (s *JamendoService) BaseURL() string {
	return s.baseURL
}

// ClientID returns the application client id attached to every request.
func (s *JamendoService) ClientID() string {
	return s.clientID
}

// HTTPClient returns the underlying HTTP client, shared with the audio engine.
func (s *JamendoService) HTTPClient() *http.Client {
	return s.httpClient
}

// endpointURL builds GET {base}/{endpoint}?client_id=...&format=jsonpretty&params...
func (s *JamendoService) endpointURL(endpoint string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("client_id", s.clientID)
	q.Set("format", "jsonpretty")
	return s.baseURL + "/" + strings.TrimLeft(endpoint, "/") + "?" + q.Encode()
}

// fetch performs one catalog GET and decodes the results array of the envelope.
func fetch[T any](ctx context.Context, s *JamendoService, endpoint string, params url.Values) ([]T, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, &shared.RequestError{Status: err.Error(), Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpointURL(endpoint, params), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &shared.RequestError{Status: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &shared.RequestError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	var envelope jamendoResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	if envelope.Headers.Code != 0 {
		return nil, &shared.APIError{Code: envelope.Headers.Code, Message: envelope.Headers.ErrorMessage}
	}

	if envelope.Results == nil {
		return []T{}, nil
	}
	return envelope.Results, nil
}

func limitOr(limit, def int) string {
	if limit <= 0 {
		limit = def
	}
	return strconv.Itoa(limit)
}

func (s *JamendoService) PopularTracks(ctx context.Context, limit int) ([]models.Track, error) {
	return fetch[models.Track](ctx, s, "tracks", url.Values{
		"order":     {"popularity_month"},
		"limit":     {limitOr(limit, defaultTrackLimit)},
		"imagesize": {imageSize},
		"include":   {"musicinfo"},
	})
}

func (s *JamendoService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Track{}, nil
	}
	return fetch[models.Track](ctx, s, "tracks", url.Values{
		"search":    {query},
		"limit":     {limitOr(limit, defaultTrackLimit)},
		"imagesize": {imageSize},
	})
}

func (s *JamendoService) ArtistTracks(ctx context.Context, artistID string, limit int) ([]models.Track, error) {
	return fetch[models.Track](ctx, s, "tracks", url.Values{
		"artist_id": {artistID},
		"limit":     {limitOr(limit, defaultArtistTrackLimit)},
		"imagesize": {imageSize},
		"order":     {"popularity_total"},
	})
}

func (s *JamendoService) TracksByTag(ctx context.Context, tag string, limit int) ([]models.Track, error) {
	return fetch[models.Track](ctx, s, "tracks", url.Values{
		"tags":      {tag},
		"limit":     {limitOr(limit, defaultTrackLimit)},
		"imagesize": {imageSize},
		"order":     {"popularity_month"},
	})
}

func (s *JamendoService) NewReleases(ctx context.Context, limit int) ([]models.Track, error) {
	return fetch[models.Track](ctx, s, "tracks", url.Values{
		"order":     {"releasedate_desc"},
		"limit":     {limitOr(limit, defaultTrackLimit)},
		"imagesize": {imageSize},
	})
}

func (s *JamendoService) Artist(ctx context.Context, artistID string) (*models.Artist, error) {
	results, err := fetch[models.Artist](ctx, s, "artists", url.Values{
		"id":        {artistID},
		"imagesize": {imageSize},
	})
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return &results[0], nil
}

func (s *JamendoService) PopularArtists(ctx context.Context, limit int) ([]models.Artist, error) {
	return fetch[models.Artist](ctx, s, "artists", url.Values{
		"order":     {"popularity_month"},
		"limit":     {limitOr(limit, defaultArtistLimit)},
		"imagesize": {imageSize},
	})
}

func (s *JamendoService) Album(ctx context.Context, albumID string) (*models.Album, error) {
	results, err := fetch[models.Album](ctx, s, "albums", url.Values{
		"id":        {albumID},
		"imagesize": {albumImageSize},
	})
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return &results[0], nil
}

func (s *JamendoService) AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	groups, err := fetch[jamendoTrackGroup](ctx, s, "albums/tracks", url.Values{
		"id":        {albumID},
		"imagesize": {imageSize},
	})
	if err != nil {
		return nil, err
	}
	return flattenTracks(groups, true), nil
}

func (s *JamendoService) PopularAlbums(ctx context.Context, limit int) ([]models.Album, error) {
	return fetch[models.Album](ctx, s, "albums", url.Values{
		"order":     {"popularity_month"},
		"limit":     {limitOr(limit, defaultAlbumLimit)},
		"imagesize": {imageSize},
	})
}

func (s *JamendoService) ArtistAlbums(ctx context.Context, artistID string, limit int) ([]models.Album, error) {
	return fetch[models.Album](ctx, s, "albums", url.Values{
		"artist_id": {artistID},
		"limit":     {limitOr(limit, defaultAlbumLimit)},
		"imagesize": {imageSize},
		"order":     {"releasedate_desc"},
	})
}

func (s *JamendoService) SearchAlbums(ctx context.Context, query string, limit int) ([]models.Album, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Album{}, nil
	}
	return fetch[models.Album](ctx, s, "albums", url.Values{
		"namesearch": {query},
		"limit":      {limitOr(limit, defaultAlbumLimit)},
		"imagesize":  {imageSize},
	})
}

func (s *JamendoService) PopularPlaylists(ctx context.Context, limit int) ([]models.Playlist, error) {
	return fetch[models.Playlist](ctx, s, "playlists", url.Values{
		"order": {"creationdate_desc"},
		"limit": {limitOr(limit, defaultPlaylistLimit)},
	})
}

func (s *JamendoService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	groups, err := fetch[jamendoTrackGroup](ctx, s, "playlists/tracks", url.Values{
		"id":        {playlistID},
		"imagesize": {imageSize},
	})
	if err != nil {
		return nil, err
	}
	return flattenTracks(groups, false), nil
}

// flattenTracks concatenates nested track lists in result order.
// For albums, tracks missing album or artist fields inherit them from the parent.
func flattenTracks(groups []jamendoTrackGroup, album bool) []models.Track {
	tracks := []models.Track{}
	for _, g := range groups {
		for _, nested := range g.Tracks {
			t := nested.toModel()
			if album {
				if t.ArtistID == "" {
					t.ArtistID = g.ArtistID
				}
				if t.ArtistName == "" {
					t.ArtistName = g.ArtistName
				}
				if t.AlbumID == "" {
					t.AlbumID = g.ID
				}
				if t.AlbumName == "" {
					t.AlbumName = g.Name
				}
				if t.Image == "" {
					t.Image = g.Image
				}
			}
			tracks = append(tracks, t)
		}
	}
	return tracks
}
