// Package combat is the playing screen: four buttons along the bottom of the
// screen are pressed in time with the song's beat.
package combat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/registry"
	"github.com/vovakirdan/chrysopoeia/internal/storage"
	"github.com/vovakirdan/chrysopoeia/internal/ui"
	"github.com/vovakirdan/chrysopoeia/internal/world"
)

var keyLabels = [len(core.CombatActions)]string{"J", "K", "L", ";"}

// Scene is the combat screen.
type Scene struct {
	song     audio.Song
	hasSong  bool
	tally    Tally
	last     Verdict
	lastAge  int // frames since the last verdict
	played   time.Duration
	finished bool
	saved    bool

	buttons [len(core.CombatActions)]*ui.Button
	span    trace.Span
}

// New creates a combat scene.
func New() *Scene {
	s := &Scene{}
	for i, l := range keyLabels {
		s.buttons[i] = ui.NewButton(l, core.Rect{})
	}
	return s
}

func init() {
	registry.Register(world.Playing, func() registry.Scene {
		return New()
	})
}

// State implements registry.Scene.
func (s *Scene) State() world.GameState { return world.Playing }

// Enter starts a run against the current song.
func (s *Scene) Enter(w *world.World) {
	s.song, s.hasSong = w.Conductor.Current()
	if !s.hasSong {
		s.song, s.hasSong = w.SelectedSong()
	}
	s.tally = Tally{}
	s.last, s.lastAge = VerdictNone, 0
	s.played = 0
	s.finished, s.saved = false, false

	_, s.span = w.Tracer.Start(context.Background(), "combat.run",
		trace.WithAttributes(
			attribute.String("song.id", s.song.ID),
			attribute.String("session.id", w.SessionID),
		),
	)
	w.Logger.Info("[STARTUP] Combat", "song", s.song.ID)
}

// Tally returns the running score.
func (s *Scene) Tally() Tally {
	return s.tally
}

// Last returns the most recent verdict.
func (s *Scene) Last() Verdict {
	return s.last
}

// Finished reports whether the song has run through all its measures.
func (s *Scene) Finished() bool {
	return s.finished
}

// Step handles pause, leaving and combat presses.
func (s *Scene) Step(w *world.World, in core.InputFrame) {
	for _, b := range s.buttons {
		b.Step()
	}
	s.lastAge++

	if s.finished {
		if in.Has(core.ActionConfirm) || in.Has(core.ActionBack) {
			w.SetNext(world.Menu)
		}
		return
	}

	if in.Has(core.ActionBack) {
		w.Conductor.Submit(audio.Stop{})
		w.SetCombat(world.CombatOut)
		w.SetNext(world.Menu)
		return
	}

	if in.Has(core.ActionPause) {
		s.togglePause(w)
	}
	if p, _ := w.Pause(); p == world.Paused {
		return
	}

	if w.Conductor.State() == audio.Playing {
		s.played += w.Delta
	}

	for i, a := range core.CombatActions {
		if !in.Has(a) {
			continue
		}
		s.buttons[i].Press()
		s.judge(w)
	}

	s.checkFinished(w)
}

func (s *Scene) togglePause(w *world.World) {
	if p, _ := w.Pause(); p == world.Paused {
		w.Conductor.Submit(audio.Resume{})
		w.SetPause(world.Unpaused)
		return
	}
	w.Conductor.Submit(audio.Pause{})
	w.SetPause(world.Paused)
}

func (s *Scene) judge(w *world.World) {
	m := w.Conductor.Metronome()
	if m == nil || w.Conductor.State() != audio.Playing {
		return
	}
	beat, ok := m.Beat()
	if !ok {
		return
	}
	v, offset := Judge(beat)
	if v == VerdictNone {
		return
	}
	s.tally.Add(v)
	s.last, s.lastAge = v, 0
	w.Logger.Debug("press", "verdict", v, "offset", offset, "streak", s.tally.Streak)
}

func (s *Scene) checkFinished(w *world.World) {
	m := w.Conductor.Metronome()
	if m == nil || !s.hasSong {
		return
	}
	total := s.song.Info.Measures()
	if total == 0 {
		return
	}
	if measure, _ := m.Position(); measure >= total {
		s.finished = true
		w.Conductor.Submit(audio.Stop{})
		w.SetCombat(world.CombatOut)
		w.Logger.Info("song finished", "song", s.song.ID, "score", s.tally.Score)
	}
}

// Render draws the HUD, the beat indicator and the combat buttons.
func (s *Scene) Render(w *world.World, dst *core.Screen) {
	bounds := dst.Bounds()
	dst.FillRect(bounds, core.ColorDarker)

	title := "no song"
	if s.hasSong {
		title = s.song.String()
	}
	dst.DrawTextStyled(2, 1, title, core.ColorLighter, core.ColorDarker)

	measure, beat := 0, 0
	if m := w.Conductor.Metronome(); m != nil {
		measure, beat = m.Position()
	}
	section := s.song.Info.SectionAt(measure)
	pos := fmt.Sprintf("Measure %d  Beat %d  %s", measure+1, beat+1, section)
	dst.DrawTextStyled(2, 2, pos, core.ColorLight, core.ColorDarker)

	stats := fmt.Sprintf("Score %d  Hits %d  Misses %d  Streak %d (best %d)",
		s.tally.Score, s.tally.Hits, s.tally.Misses, s.tally.Streak, s.tally.BestStreak)
	dst.DrawTextStyled(2, 3, stats, core.ColorLight, core.ColorDarker)

	s.renderBeats(dst, beat, w.Fires.Any())

	if s.last != VerdictNone && s.lastAge < 30 {
		_, cy := bounds.Center()
		dst.DrawTextIn(core.NewRect(0, cy-2, dst.Width(), 1), s.last.String(), core.ColorWhite, core.ColorDarker)
	}

	s.renderButtons(w, dst)

	switch {
	case s.finished:
		s.renderOverlay(dst, fmt.Sprintf("FINISHED  Score %d", s.tally.Score), "Enter to continue")
	default:
		if p, _ := w.Pause(); p == world.Paused {
			s.renderOverlay(dst, "PAUSED", "P to resume, Esc for menu")
		}
	}
}

func (s *Scene) renderBeats(dst *core.Screen, beat int, pulse bool) {
	top := s.song.Info.Metre.Top
	if top <= 0 {
		return
	}
	var sb strings.Builder
	for i := 0; i < top; i++ {
		if i > 0 {
			sb.WriteRune(' ')
		}
		if i == beat {
			sb.WriteRune('●')
		} else {
			sb.WriteRune('○')
		}
	}
	fg := core.ColorLight
	if pulse {
		fg = core.ColorWhite
	}
	_, cy := dst.Bounds().Center()
	dst.DrawTextIn(core.NewRect(0, cy-4, dst.Width(), 1), sb.String(), fg, core.ColorDarker)
}

func (s *Scene) renderButtons(w *world.World, dst *core.Screen) {
	band := dst.Bounds().Percent(80, 20)
	size := w.Settings.Resolution.Scale.Scale()
	bw, bh := size*2, core.Max(3, core.Min(band.H, size-1))
	for i, r := range band.SpaceEvenly(len(s.buttons), bw, bh) {
		s.buttons[i].Rect = r
		s.buttons[i].Draw(dst)
	}
}

func (s *Scene) renderOverlay(dst *core.Screen, line1, line2 string) {
	box := dst.Bounds().Centered(core.Max(len(line1), len(line2))+6, 5)
	dst.FillRect(box, core.ColorDark)
	dst.DrawBox(box, core.ColorLighter)
	dst.DrawTextIn(core.NewRect(box.X, box.Y+1, box.W, 1), line1, core.ColorWhite, core.ColorDark)
	dst.DrawTextIn(core.NewRect(box.X, box.Y+3, box.W, 1), line2, core.ColorLighter, core.ColorDark)
}

// Exit saves the run and ends its trace span.
func (s *Scene) Exit(w *world.World) {
	w.SetCombat(world.CombatOut)
	s.save(w)
	if s.span != nil {
		s.span.SetAttributes(
			attribute.Int("combat.score", s.tally.Score),
			attribute.Int("combat.hits", s.tally.Hits),
			attribute.Int("combat.misses", s.tally.Misses),
			attribute.Int("combat.best_streak", s.tally.BestStreak),
			attribute.Bool("combat.finished", s.finished),
		)
		s.span.End()
	}
	w.Logger.Info("[CLEANUP] Combat", "score", s.tally.Score, "hits", s.tally.Hits, "misses", s.tally.Misses)
}

func (s *Scene) save(w *world.World) {
	if s.saved || w.Store == nil || !s.hasSong {
		return
	}
	if s.tally.Hits+s.tally.Misses == 0 {
		return
	}
	run, err := w.Store.SaveRun(storage.Run{
		SessionID:  w.SessionID,
		SongID:     s.song.ID,
		Score:      s.tally.Score,
		Hits:       s.tally.Hits,
		Misses:     s.tally.Misses,
		BestStreak: s.tally.BestStreak,
		Duration:   s.played,
	})
	if err != nil {
		w.Logger.Warn("cannot save run", "song", s.song.ID, "error", err)
		return
	}
	s.saved = true
	w.Logger.Info("run saved", "run", run.RunID, "score", run.Score)
}
