// Package speaker plays MP3 sources on the default audio device with beep.
package speaker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// Sample rate the device is opened with. Sources at other rates are resampled.
const deviceRate beep.SampleRate = 44100

// Output downloads each source, decodes it and plays it through the speaker.
// Only one source plays at a time. Each Play bumps a generation counter so the
// download, decode and end callback of a replaced source are discarded.
//
// Thread-safety: This implementation is thread-safe.
type Output struct {
	logger *slog.Logger
	bus    ports.EventBus
	client *http.Client

	mu         sync.Mutex
	generation uint64
	source     string
	ctrl       *beep.Ctrl
	stream     beep.StreamSeekCloser
	cancel     context.CancelFunc
	closed     bool
	ready      bool
}

// NewOutput creates a speaker output. The device is opened lazily on the
// first decoded source.
func NewOutput(logger *slog.Logger, bus ports.EventBus) *Output {
	return &Output{
		logger: logger,
		bus:    bus,
		client: &http.Client{},
	}
}

// Play starts loading source and returns immediately. Failures that happen
// after Play returns are published as domain.OutputErrorEvent.
func (o *Output) Play(ctx context.Context, source string) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return domain.ErrOutputClosed
	}
	o.releaseLocked()
	o.generation++
	gen := o.generation
	o.source = source
	loadCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.mu.Unlock()

	go o.load(loadCtx, gen, source)
	return nil
}

func (o *Output) load(ctx context.Context, gen uint64, source string) {
	data, err := o.download(ctx, source)
	if err != nil {
		o.fail(gen, source, "download", err)
		return
	}

	if md, ok := extractMetadata(data); ok && o.current(gen) {
		o.bus.Publish(domain.NewTrackMetadataEvent(source, md))
	}

	stream, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		o.fail(gen, source, "decode", err)
		return
	}

	if err := o.start(gen, source, stream, format); err != nil {
		stream.Close()
		o.fail(gen, source, "start", err)
	}
}

func (o *Output) download(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.HTTPStatusError{URL: source, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func (o *Output) start(gen uint64, source string, stream beep.StreamSeekCloser, format beep.Format) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation || o.closed {
		stream.Close()
		return nil
	}

	if !o.ready {
		if err := speaker.Init(deviceRate, deviceRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("init speaker: %w", err)
		}
		o.ready = true
		o.logger.Debug("speaker initialized", slog.Int("sample_rate", int(deviceRate)))
	}

	var s beep.Streamer = stream
	if format.SampleRate != deviceRate {
		s = beep.Resample(4, format.SampleRate, deviceRate, stream)
	}

	// The callback runs on the speaker goroutine with the speaker lock held,
	// so the event is published from a new goroutine.
	ended := beep.Callback(func() {
		go o.ended(gen, source)
	})

	o.stream = stream
	o.ctrl = &beep.Ctrl{Streamer: beep.Seq(s, ended)}
	speaker.Play(o.ctrl)

	o.logger.Info("playback started", slog.String("source", source), slog.Int("sample_rate", int(format.SampleRate)))
	return nil
}

func (o *Output) ended(gen uint64, source string) {
	if !o.current(gen) {
		return
	}
	o.logger.Debug("source ended", slog.String("source", source))
	o.bus.Publish(domain.NewOutputEndedEvent(source))
}

func (o *Output) fail(gen uint64, source, op string, err error) {
	if !o.current(gen) {
		return
	}
	o.logger.Warn("playback failed", slog.String("source", source), slog.String("op", op), slog.Any("error", err))
	o.bus.Publish(domain.NewOutputErrorEvent(source,
		domain.NewOutputError(op, source, "failed to play source", err)))
}

func (o *Output) current(gen uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return gen == o.generation && !o.closed
}

// Pause pauses the current source.
func (o *Output) Pause() error {
	return o.setPaused(true)
}

// Resume continues the current source.
func (o *Output) Resume() error {
	return o.setPaused(false)
}

func (o *Output) setPaused(paused bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return domain.ErrOutputClosed
	}
	if o.ctrl == nil {
		return nil
	}
	speaker.Lock()
	o.ctrl.Paused = paused
	speaker.Unlock()
	return nil
}

// Stop stops and releases the current source.
func (o *Output) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.generation++
	o.releaseLocked()
	o.source = ""
	return nil
}

// Close stops playback and closes the device.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.generation++
	o.releaseLocked()
	o.closed = true
	if o.ready {
		speaker.Close()
		o.ready = false
	}
	return nil
}

func (o *Output) releaseLocked() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	if o.ready {
		speaker.Clear()
	}
	if o.stream != nil {
		o.stream.Close()
		o.stream = nil
	}
	o.ctrl = nil
}

var _ ports.AudioOutput = (*Output)(nil)
