package audio

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Batch is the result of draining the command queue once.
type Batch struct {
	Outcomes    []Outcome
	SongChanged bool
}

// Transitions returns the accepted transitions in order.
func (b Batch) Transitions() []Transition {
	var ts []Transition
	for _, o := range b.Outcomes {
		if o.Changed {
			ts = append(ts, o.Transition)
		}
	}
	return ts
}

// Conductor owns the audio subsystem for one game session: the command queue,
// the current-song registry, the metronome and the playback state machine.
//
// FixedUpdate is meant to be called once per fixed simulation step and Update
// once per rendered frame. Submit may be called from any goroutine.
type Conductor struct {
	logger *log.Logger
	tracer trace.Tracer

	mu    sync.Mutex
	queue []Command

	songs     *SongRegistry
	metronome *Metronome
	playback  *Playback

	missingReported bool
}

// Option configures a Conductor.
type Option func(*Conductor)

// WithLogger sets the logger used for warnings and debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Conductor) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer sets the tracer used for command batches.
func WithTracer(t trace.Tracer) Option {
	return func(c *Conductor) {
		if t != nil {
			c.tracer = t
		}
	}
}

// NewConductor creates a conductor driving the given channel. The metronome
// does not exist until Startup is called.
func NewConductor(ch Channel, opts ...Option) *Conductor {
	c := &Conductor{
		logger:   log.New(io.Discard),
		tracer:   noop.NewTracerProvider().Tracer("audio"),
		songs:    NewSongRegistry(),
		playback: NewPlayback(ch),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.playback.Subscribe(c.onTransition)
	return c
}

// Startup spawns the metronome from the current song, or from zero timing
// info when no song is selected (all timers disabled). Calling it again is a
// no-op: the metronome lives for the whole session.
func (c *Conductor) Startup() {
	if c.metronome != nil {
		return
	}
	var info AudioInfo
	if s, ok := c.songs.Current(); ok {
		info = s.Info
	}
	c.metronome = NewMetronome(info)
	c.missingReported = false
	c.logger.Debug("metronome started", "tempo", float64(info.Tempo), "metre", info.Metre.String())
}

// Submit queues commands for the next Update, preserving order.
func (c *Conductor) Submit(cmds ...Command) {
	c.mu.Lock()
	c.queue = append(c.queue, cmds...)
	c.mu.Unlock()
}

// Pending returns the number of queued commands.
func (c *Conductor) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Update drains the command queue in submission order, then re-targets the
// metronome if the current song changed since the previous Update.
func (c *Conductor) Update(ctx context.Context) Batch {
	c.mu.Lock()
	cmds := c.queue
	c.queue = nil
	c.mu.Unlock()

	var batch Batch
	if len(cmds) > 0 {
		batch.Outcomes = c.apply(ctx, cmds)
	}

	song, ok, changed := c.songs.Poll()
	if changed {
		batch.SongChanged = true
		c.retarget(song, ok)
	}
	return batch
}

func (c *Conductor) apply(ctx context.Context, cmds []Command) []Outcome {
	_, span := c.tracer.Start(ctx, "audio.commands",
		trace.WithAttributes(attribute.Int("audio.commands.count", len(cmds))),
	)
	defer span.End()

	outcomes := make([]Outcome, 0, len(cmds))
	for _, cmd := range cmds {
		if p, ok := cmd.(Play); ok && p.Song != nil {
			c.songs.Set(*p.Song)
		}

		out := c.playback.Apply(cmd)
		outcomes = append(outcomes, out)

		switch {
		case errors.Is(out.Err, ErrNoActiveSong):
			c.logger.Debug("command ignored", "command", cmd.String(), "reason", out.Err)
			span.AddEvent("ignored", trace.WithAttributes(attribute.String("audio.command", cmd.String())))
		case out.Err != nil:
			c.logger.Warn("command failed", "command", cmd.String(), "error", out.Err)
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, out.Err.Error())
		case out.Changed:
			c.logger.Info("playback", "command", cmd.String(), "from", out.Transition.From, "to", out.Transition.To)
			span.AddEvent("transition", trace.WithAttributes(
				attribute.String("audio.command", cmd.String()),
				attribute.String("audio.from", out.Transition.From.String()),
				attribute.String("audio.to", out.Transition.To.String()),
			))
		}
	}
	span.SetAttributes(attribute.String("audio.state", c.playback.State().String()))
	return outcomes
}

func (c *Conductor) retarget(song Song, ok bool) {
	if c.metronome == nil {
		return
	}
	var info AudioInfo
	if ok {
		info = song.Info
	}
	if err := c.metronome.Update(info); err != nil {
		c.logger.Warn("metronome disabled", "song", song.ID, "error", err)
		return
	}
	c.logger.Debug("metronome updated", "song", song.ID, "tempo", float64(info.Tempo), "metre", info.Metre.String())
}

// onTransition rewinds the metronome on Stop and on every Play, including a
// Play issued while paused, so beats line up with the start of the track.
// Resume is the only transition that keeps the position.
func (c *Conductor) onTransition(t Transition) {
	if c.metronome == nil {
		return
	}
	if t.To == Stopped || t.Restart {
		c.metronome.Reset()
	}
}

// FixedUpdate advances the metronome by one fixed step while playing.
// Ticking before Startup is reported once per run of missing ticks.
func (c *Conductor) FixedUpdate(step time.Duration) Fires {
	if c.metronome == nil {
		if !c.missingReported {
			c.logger.Warn("skipping tick", "error", ErrSingletonMissing)
			c.missingReported = true
		}
		return Fires{}
	}
	c.missingReported = false

	if c.playback.State() != Playing {
		return Fires{}
	}
	return c.metronome.Tick(step)
}

// Subscribe registers a playback transition listener.
func (c *Conductor) Subscribe(l Listener) {
	c.playback.Subscribe(l)
}

// State returns the playback state.
func (c *Conductor) State() PlaybackState {
	return c.playback.State()
}

// Metronome returns the metronome, or nil before Startup.
func (c *Conductor) Metronome() *Metronome {
	return c.metronome
}

// Current returns the currently selected song.
func (c *Conductor) Current() (Song, bool) {
	return c.songs.Current()
}

// Select sets the current song without starting playback. The metronome
// picks it up on the next Update.
func (c *Conductor) Select(s Song) {
	c.songs.Set(s)
}
