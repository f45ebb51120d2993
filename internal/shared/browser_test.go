package shared

import (
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCommand
	t.Cleanup(func() {
		getRuntime, startCommand = origRuntime, origStart
	})

	tc := []struct {
		goos string
		want string
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "cmd"},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			var started *exec.Cmd
			getRuntime = func() string { return tt.goos }
			startCommand = func(cmd *exec.Cmd) error {
				started = cmd
				return nil
			}

			if err := OpenBrowser("https://www.jamendo.com/track/1"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if started == nil || filepath.Base(started.Args[0]) != tt.want {
				t.Errorf("expected %s to be started, got %v", tt.want, started)
			}
		})
	}

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		if err := OpenBrowser(""); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("start failure", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		startCommand = func(*exec.Cmd) error { return errors.New("no display") }
		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error when command fails to start")
		}
	})
}
