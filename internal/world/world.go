// Package world holds the per-session game context shared by all scenes:
// the state machine, the audio conductor, the validated song list, settings
// and persistence.
package world

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
	"github.com/vovakirdan/chrysopoeia/internal/config"
	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/storage"
)

// Mixer is an audio output with adjustable gain.
type Mixer interface {
	SetVolume(level float64, muted bool)
}

// Options configure a new World. Zero values are valid.
type Options struct {
	Config    core.RuntimeConfig
	Settings  config.Settings
	Catalog   config.Catalog
	Conductor *audio.Conductor
	Store     *storage.Store
	Mixer     Mixer
	Logger    *log.Logger
	Tracer    trace.Tracer
	SessionID string

	// HasAsset reports whether a song's track exists. Nil skips the check.
	HasAsset func(audio.Handle) bool
}

// World is the mutable game context. It is owned by a single goroutine.
type World struct {
	Config    core.RuntimeConfig
	Settings  config.Settings
	Catalog   config.Catalog
	Conductor *audio.Conductor
	Store     *storage.Store
	Mixer     Mixer
	Logger    *log.Logger
	Tracer    trace.Tracer
	SessionID string
	HasAsset  func(audio.Handle) bool

	// Songs is filled by the loading screen with the playable catalog entries.
	Songs    []audio.Song
	Selected int

	// Fires accumulates metronome fires during the current frame.
	Fires audio.Fires
	// Delta is the real time covered by the current frame.
	Delta time.Duration

	state   GameState
	next    GameState
	hasNext bool
	pause   PauseState
	combat  CombatState
	quit    bool
}

// New creates a world in the Loading state.
func New(opts Options) *World {
	w := &World{
		Config:    opts.Config,
		Settings:  opts.Settings,
		Catalog:   opts.Catalog,
		Conductor: opts.Conductor,
		Store:     opts.Store,
		Mixer:     opts.Mixer,
		Logger:    opts.Logger,
		Tracer:    opts.Tracer,
		SessionID: opts.SessionID,
		HasAsset:  opts.HasAsset,
		state:     Loading,
		combat:    CombatOut,
	}
	if w.Config.TickRate <= 0 {
		w.Config = core.DefaultConfig()
	}
	if w.Logger == nil {
		w.Logger = log.New(io.Discard)
	}
	if w.Tracer == nil {
		w.Tracer = noop.NewTracerProvider().Tracer("world")
	}
	if w.Conductor == nil {
		w.Conductor = audio.NewConductor(nil, audio.WithLogger(w.Logger))
	}
	if w.SessionID == "" {
		w.SessionID = uuid.NewString()
	}
	return w
}

// State returns the current game state.
func (w *World) State() GameState {
	return w.state
}

// SetNext requests a state change, applied between frames.
// A later request in the same frame replaces an earlier one.
func (w *World) SetNext(s GameState) {
	w.next = s
	w.hasNext = true
}

// Next returns the pending state change, if any.
func (w *World) Next() (GameState, bool) {
	return w.next, w.hasNext
}

// CancelNext drops the pending state change.
func (w *World) CancelNext() {
	w.hasNext = false
}

// ApplyNext performs the pending state change. Entering Playing resets the
// pause and combat substates; leaving it marks combat as out.
func (w *World) ApplyNext() (from, to GameState, changed bool) {
	if !w.hasNext {
		return w.state, w.state, false
	}
	from, to = w.state, w.next
	w.hasNext = false
	if from == to {
		return from, to, false
	}

	w.state = to
	switch {
	case to == Playing:
		w.pause = Unpaused
		w.combat = CombatIn
	case from == Playing:
		w.combat = CombatOut
	}
	w.Logger.Debug("state", "from", from, "to", to)
	return from, to, true
}

// Pause returns the pause substate; ok is false outside Playing.
func (w *World) Pause() (PauseState, bool) {
	return w.pause, w.state == Playing
}

// SetPause changes the pause substate. It has no effect outside Playing.
func (w *World) SetPause(p PauseState) {
	if w.state == Playing {
		w.pause = p
	}
}

// Combat returns the combat substate; ok is false outside Playing.
func (w *World) Combat() (CombatState, bool) {
	return w.combat, w.state == Playing
}

// SetCombat changes the combat substate. It has no effect outside Playing.
func (w *World) SetCombat(c CombatState) {
	if w.state == Playing {
		w.combat = c
	}
}

// Quit asks the session to end.
func (w *World) Quit() {
	w.quit = true
}

// Quitting reports whether Quit was called.
func (w *World) Quitting() bool {
	return w.quit
}

// SelectedSong returns the song highlighted in the menu.
func (w *World) SelectedSong() (audio.Song, bool) {
	if w.Selected < 0 || w.Selected >= len(w.Songs) {
		return audio.Song{}, false
	}
	return w.Songs[w.Selected], true
}

// CycleSong moves the selection by delta, wrapping around, and tells the
// conductor so the metronome follows the highlighted song.
func (w *World) CycleSong(delta int) {
	n := len(w.Songs)
	if n == 0 {
		return
	}
	w.Selected = ((w.Selected+delta)%n + n) % n
	w.Conductor.Select(w.Songs[w.Selected])
}

// ApplySettings pushes the current settings to the audio output.
func (w *World) ApplySettings() {
	if w.Settings.TickRate > 0 {
		w.Config.TickRate = w.Settings.TickRate
	}
	if w.Mixer != nil {
		w.Mixer.SetVolume(w.Settings.Audio.Volume, w.Settings.Audio.Muted)
	}
}
