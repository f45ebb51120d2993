package player

import "context"

// Engine plays a single audio stream at a time.
type Engine interface {
	// Load stops any current stream and prepares url for playback, returning its duration in seconds.
	Load(ctx context.Context, url string) (float64, error)
	// Play starts or resumes the loaded stream.
	Play() error
	// Pause stops output, keeping the position.
	Pause()
	// Seek moves the loaded stream to seconds.
	Seek(seconds float64) error
	// SetVolume sets output volume in [0,1].
	SetVolume(v float64)
	// Position reports the current playback position in seconds.
	Position() float64
	// OnEnded registers fn to be called when the loaded stream finishes.
	OnEnded(fn func())
	// Close releases the engine's resources.
	Close() error
}
