package shared

import (
	"encoding/json"
	"fmt"
	"math"
)

// FormatTime renders a position in seconds as m:ss.
//
// NaN, infinite, negative and zero values render as "0:00".
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return "0:00"
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatDuration renders a whole-second duration as m:ss.
func FormatDuration(seconds int) string {
	return FormatTime(float64(seconds))
}

// MarshalJSON encodes v, indenting when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
