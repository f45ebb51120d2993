package shared

import (
	"math"
	"strings"
	"testing"
)

func TestFormatTime(t *testing.T) {
	tc := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "zero", seconds: 0, want: "0:00"},
		{name: "NaN", seconds: math.NaN(), want: "0:00"},
		{name: "negative", seconds: -4, want: "0:00"},
		{name: "under a minute", seconds: 7.9, want: "0:07"},
		{name: "minutes and seconds", seconds: 185.2, want: "3:05"},
		{name: "over an hour", seconds: 3725, want: "62:05"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.seconds); got != tt.want {
				t.Errorf("FormatTime(%v) = %s, want %s", tt.seconds, got, tt.want)
			}
		})
	}

	t.Run("FormatDuration", func(t *testing.T) {
		if got := FormatDuration(240); got != "4:00" {
			t.Errorf("expected 4:00, got %s", got)
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(map[string]string{"a": "b"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"a\"") {
		t.Errorf("expected indented output, got %s", data)
	}

	data, err = MarshalJSON(map[string]string{"a": "b"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"a":"b"}` {
		t.Errorf("expected compact output, got %s", data)
	}
}
