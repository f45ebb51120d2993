package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tevify/internal/shared"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
)

// OutputSampleRate is the rate the speaker is initialized with; every stream is resampled to it.
const OutputSampleRate beep.SampleRate = 44100

const resampleQuality = 4

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(OutputSampleRate, OutputSampleRate.N(time.Second/10))
	})
	return speakerErr
}

// memoryStream is a fully downloaded audio body that the decoder can seek in.
type memoryStream struct {
	*bytes.Reader
}

func (memoryStream) Close() error { return nil }

// volumeGain maps a linear volume in [0,1] to a base-2 gain and silence flag for [effects.Volume].
func volumeGain(v float64) (float64, bool) {
	if v <= 0 || math.IsNaN(v) {
		return 0, true
	}
	return math.Log2(min(v, 1)), false
}

// BeepEngine plays one MP3 stream at a time through the speaker.
type BeepEngine struct {
	client *http.Client
	logger *log.Logger

	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64
	onEnded  func()
}

// NewBeepEngine creates an engine that downloads audio with client.
func NewBeepEngine(client *http.Client, logger *log.Logger) *BeepEngine {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &BeepEngine{client: client, logger: logger.WithPrefix("audio"), level: 1}
}

func (e *BeepEngine) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &shared.RequestError{Status: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &shared.RequestError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	return data, nil
}

// Load downloads and decodes url, replacing the current stream. The new stream starts paused.
//
// The previous stream is released first, so a failed load leaves the engine empty.
func (e *BeepEngine) Load(ctx context.Context, url string) (float64, error) {
	if err := e.unload(); err != nil {
		e.logger.Warn("failed to close previous stream", "error", err)
	}

	data, err := e.download(ctx, url)
	if err != nil {
		return 0, err
	}

	streamer, format, err := mp3.Decode(memoryStream{bytes.NewReader(data)})
	if err != nil {
		return 0, fmt.Errorf("failed to decode audio: %w", err)
	}

	if err := initSpeaker(); err != nil {
		streamer.Close()
		return 0, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	e.mu.Lock()
	var source beep.Streamer = streamer
	if format.SampleRate != OutputSampleRate {
		source = beep.Resample(resampleQuality, format.SampleRate, OutputSampleRate, streamer)
	}

	ctrl := &beep.Ctrl{Streamer: beep.Seq(source, beep.Callback(e.finished)), Paused: true}
	gain, silent := volumeGain(e.level)
	volume := &effects.Volume{Streamer: ctrl, Base: 2, Volume: gain, Silent: silent}

	e.streamer = streamer
	e.format = format
	e.ctrl = ctrl
	e.volume = volume
	e.mu.Unlock()

	speaker.Play(volume)

	duration := format.SampleRate.D(streamer.Len()).Seconds()
	e.logger.Debug("stream loaded", "bytes", len(data), "rate", format.SampleRate, "duration", duration)
	return duration, nil
}

// finished runs on the speaker goroutine with the speaker locked, so the callback is dispatched.
func (e *BeepEngine) finished() {
	e.mu.Lock()
	fn := e.onEnded
	e.mu.Unlock()
	if fn != nil {
		go fn()
	}
}

func (e *BeepEngine) Play() error {
	e.mu.Lock()
	ctrl := e.ctrl
	e.mu.Unlock()
	if ctrl == nil {
		return fmt.Errorf("%w: nothing loaded", shared.ErrPlaybackFailed)
	}

	speaker.Lock()
	ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (e *BeepEngine) Pause() {
	e.mu.Lock()
	ctrl := e.ctrl
	e.mu.Unlock()
	if ctrl == nil {
		return
	}

	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()
}

func (e *BeepEngine) Seek(seconds float64) error {
	e.mu.Lock()
	streamer, format := e.streamer, e.format
	e.mu.Unlock()
	if streamer == nil {
		return fmt.Errorf("%w: nothing loaded", shared.ErrPlaybackFailed)
	}

	pos := format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	pos = max(0, min(pos, streamer.Len()-1))

	speaker.Lock()
	defer speaker.Unlock()
	return streamer.Seek(pos)
}

func (e *BeepEngine) SetVolume(v float64) {
	e.mu.Lock()
	e.level = v
	volume := e.volume
	e.mu.Unlock()
	if volume == nil {
		return
	}

	gain, silent := volumeGain(v)
	speaker.Lock()
	volume.Volume = gain
	volume.Silent = silent
	speaker.Unlock()
}

func (e *BeepEngine) Position() float64 {
	e.mu.Lock()
	streamer, format := e.streamer, e.format
	e.mu.Unlock()
	if streamer == nil {
		return 0
	}

	speaker.Lock()
	pos := streamer.Position()
	speaker.Unlock()
	return format.SampleRate.D(pos).Seconds()
}

func (e *BeepEngine) OnEnded(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEnded = fn
}

func (e *BeepEngine) Close() error {
	return e.unload()
}

// unload stops output and releases the current stream, leaving nothing to resume.
func (e *BeepEngine) unload() error {
	e.mu.Lock()
	streamer := e.streamer
	e.streamer = nil
	e.ctrl = nil
	e.volume = nil
	e.mu.Unlock()
	if streamer == nil {
		return nil
	}

	speaker.Clear()
	return streamer.Close()
}
