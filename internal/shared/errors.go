package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Catalog errors
	ErrRequestFailed      = fmt.Errorf("catalog request failed")
	ErrCatalogAPI         = fmt.Errorf("catalog API error")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrAlbumNotFound      = fmt.Errorf("album not found")
	ErrArtistNotFound     = fmt.Errorf("artist not found")

	// Playback and persistence errors
	ErrPlaybackFailed = fmt.Errorf("playback failed")
	ErrPersistence    = fmt.Errorf("persistence failed")
	ErrNotFound       = fmt.Errorf("key not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// RequestError reports a transport level failure talking to the catalog:
// either the request never completed or the service answered with a non-2xx status.
type RequestError struct {
	StatusCode int    // zero when no response was received
	Status     string // HTTP status text or transport error description
	Err        error  // underlying transport error, if any
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%v: %s", ErrRequestFailed, e.Status)
	}
	return fmt.Sprintf("%v: %d %s", ErrRequestFailed, e.StatusCode, e.Status)
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequestFailed}
	}
	return []error{ErrRequestFailed, e.Err}
}

// APIError reports a logical failure signalled inside a successful catalog response envelope.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %s (code %d)", ErrCatalogAPI, e.Message, e.Code)
}

func (e *APIError) Unwrap() error { return ErrCatalogAPI }

// PlaybackError reports that the playback engine could not load or start a track.
type PlaybackError struct {
	TrackID string
	Err     error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("%v for track %s: %v", ErrPlaybackFailed, e.TrackID, e.Err)
}

func (e *PlaybackError) Unwrap() []error { return []error{ErrPlaybackFailed, e.Err} }

// IsCatalogError reports whether err came from the catalog, through either failure channel.
func IsCatalogError(err error) bool {
	return errors.Is(err, ErrRequestFailed) || errors.Is(err, ErrCatalogAPI)
}
