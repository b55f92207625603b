// Package speaker plays tracks through the system audio device using beep.
// It implements audio.Channel: the game loop issues play, pause and stop and
// this package turns them into beep stream controls.
package speaker

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
)

// DefaultSampleRate is used when the config does not set one.
const DefaultSampleRate = beep.SampleRate(44100)

// Device is the sink streams are played on. The beep speaker satisfies it;
// tests use a fake.
type Device interface {
	Play(s ...beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// Opener decodes the asset behind a handle.
type Opener func(h audio.Handle) (beep.StreamSeekCloser, beep.Format, error)

// OpenWAV decodes a WAV file named by the handle.
func OpenWAV(h audio.Handle) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(string(h))
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("speaker: cannot open %s: %w", h, err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("speaker: cannot decode %s: %w", h, err)
	}
	return s, format, nil
}

// Output is an audio.Channel backed by a Device.
type Output struct {
	device Device
	rate   beep.SampleRate
	open   Opener
	logger *log.Logger

	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	volume *effects.Volume

	level float64
	muted bool
}

// New creates an output playing on device at the given sample rate.
func New(device Device, rate beep.SampleRate, open Opener, logger *log.Logger) *Output {
	if open == nil {
		open = OpenWAV
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Output{
		device: device,
		rate:   rate,
		open:   open,
		logger: logger,
	}
}

// Open initialises the system speaker and returns an output for it.
// Initialisation is retried with exponential backoff because the device may
// be briefly held by another process.
func Open(ctx context.Context, rate beep.SampleRate, logger *log.Logger) (*Output, error) {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if logger == nil {
		logger = log.Default()
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := speaker.Init(rate, rate.N(time.Second/10))
		if err != nil {
			logger.Warn("speaker init failed", "attempt", attempt, "error", err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(4),
	)
	if err != nil {
		return nil, fmt.Errorf("speaker: cannot initialise device: %w", err)
	}

	return New(systemSpeaker{}, rate, OpenWAV, logger), nil
}

// Play starts the track behind h from the beginning, looping it.
// A track that cannot be opened is logged and playback stays silent.
func (o *Output) Play(h audio.Handle) {
	stream, format, err := o.open(h)
	if err != nil {
		o.logger.Warn("cannot play track", "handle", h, "error", err)
		o.release()
		return
	}

	var s beep.Streamer = beep.Loop(-1, stream)
	if format.SampleRate != o.rate {
		s = beep.Resample(4, format.SampleRate, o.rate, s)
	}

	ctrl := &beep.Ctrl{Streamer: s}
	vol := &effects.Volume{Streamer: ctrl, Base: 2, Volume: o.level, Silent: o.muted}

	o.release()
	o.device.Lock()
	o.stream, o.ctrl, o.volume = stream, ctrl, vol
	o.device.Unlock()
	o.device.Play(vol)
	o.logger.Debug("track started", "handle", h, "rate", int(format.SampleRate))
}

// Pause holds the current track at its position.
func (o *Output) Pause() {
	o.device.Lock()
	defer o.device.Unlock()
	if o.ctrl != nil {
		o.ctrl.Paused = true
	}
}

// Stop pauses the current track and rewinds it.
func (o *Output) Stop() {
	o.device.Lock()
	defer o.device.Unlock()
	if o.ctrl == nil {
		return
	}
	o.ctrl.Paused = true
	if err := o.stream.Seek(0); err != nil {
		o.logger.Warn("cannot rewind track", "error", err)
	}
}

// OnTransition unpauses the track whenever playback enters Playing.
// Subscribe it to the conductor so Resume reaches the device.
func (o *Output) OnTransition(t audio.Transition) {
	if t.To != audio.Playing {
		return
	}
	o.device.Lock()
	defer o.device.Unlock()
	if o.ctrl != nil {
		o.ctrl.Paused = false
	}
}

// SetVolume sets the gain in powers of two (0 = unchanged) and mute flag.
func (o *Output) SetVolume(level float64, muted bool) {
	o.device.Lock()
	defer o.device.Unlock()
	o.level, o.muted = level, muted
	if o.volume != nil {
		o.volume.Volume = level
		o.volume.Silent = muted
	}
}

// Paused reports whether a track is loaded and held.
func (o *Output) Paused() bool {
	o.device.Lock()
	defer o.device.Unlock()
	return o.ctrl != nil && o.ctrl.Paused
}

// Close stops playback and releases the current track.
func (o *Output) Close() error {
	o.release()
	return nil
}

func (o *Output) release() {
	o.device.Clear()
	o.device.Lock()
	stream := o.stream
	o.stream, o.ctrl, o.volume = nil, nil, nil
	o.device.Unlock()
	if stream != nil {
		if err := stream.Close(); err != nil {
			o.logger.Warn("cannot close track", "error", err)
		}
	}
}

type systemSpeaker struct{}

func (systemSpeaker) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (systemSpeaker) Clear()                  { speaker.Clear() }
func (systemSpeaker) Lock()                   { speaker.Lock() }
func (systemSpeaker) Unlock()                 { speaker.Unlock() }
