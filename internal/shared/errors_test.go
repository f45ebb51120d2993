package shared

import (
	"errors"
	"strings"
	"testing"
)

func TestCatalogErrors(t *testing.T) {
	t.Run("RequestError", func(t *testing.T) {
		var err error = &RequestError{StatusCode: 503, Status: "Service Unavailable"}

		if !errors.Is(err, ErrRequestFailed) {
			t.Error("expected RequestError to match ErrRequestFailed")
		}
		if errors.Is(err, ErrCatalogAPI) {
			t.Error("RequestError must not match ErrCatalogAPI")
		}
		if !strings.Contains(err.Error(), "503") {
			t.Errorf("expected status code in message, got %s", err)
		}
	})

	t.Run("RequestError Wraps Transport Error", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &RequestError{Status: cause.Error(), Err: cause}

		if !errors.Is(err, cause) {
			t.Error("expected transport cause to be reachable")
		}
	})

	t.Run("APIError", func(t *testing.T) {
		var err error = &APIError{Code: 5, Message: "invalid client id"}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "invalid client id" {
			t.Errorf("expected APIError via errors.As, got %v", err)
		}
		if errors.Is(err, ErrRequestFailed) {
			t.Error("APIError must not match ErrRequestFailed")
		}
		if !IsCatalogError(err) {
			t.Error("expected APIError to be a catalog error")
		}
	})

	t.Run("PlaybackError", func(t *testing.T) {
		cause := errors.New("decode failed")
		err := &PlaybackError{TrackID: "42", Err: cause}

		if !errors.Is(err, ErrPlaybackFailed) || !errors.Is(err, cause) {
			t.Errorf("expected sentinel and cause to match, got %v", err)
		}
		if IsCatalogError(err) {
			t.Error("playback errors are not catalog errors")
		}
	})
}
