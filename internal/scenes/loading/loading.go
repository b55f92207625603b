// Package loading validates the song catalog, one entry per frame, before
// handing over to the menu.
package loading

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/registry"
	"github.com/vovakirdan/chrysopoeia/internal/world"
)

const barWidth = 40

// Scene is the loading screen.
type Scene struct {
	index   int
	total   int
	dropped int
	silent  int
}

// New creates a loading scene.
func New() *Scene {
	return &Scene{}
}

func init() {
	registry.Register(world.Loading, func() registry.Scene {
		return New()
	})
}

// State implements registry.Scene.
func (s *Scene) State() world.GameState { return world.Loading }

// Enter resets the song list.
func (s *Scene) Enter(w *world.World) {
	s.index, s.dropped, s.silent = 0, 0, 0
	s.total = len(w.Catalog.Songs)
	w.Songs = w.Songs[:0]
	w.Logger.Info("[STARTUP] Loading", "songs", s.total)
}

// Step checks the next catalog entry. Invalid timing drops the song; a
// missing track keeps it but it plays without audio.
func (s *Scene) Step(w *world.World, _ core.InputFrame) {
	if s.index >= s.total {
		if len(w.Songs) > 0 {
			w.Selected = 0
			w.Conductor.Select(w.Songs[0])
		}
		w.SetNext(world.Menu)
		return
	}

	entry := w.Catalog.Songs[s.index]
	s.index++

	song, err := w.Catalog.Song(entry)
	if err != nil {
		s.dropped++
		w.Logger.Warn("dropping song", "id", entry.ID, "error", err)
		return
	}
	if w.HasAsset != nil && !w.HasAsset(song.Handle) {
		s.silent++
		w.Logger.Warn("track missing, song will play silently", "id", song.ID, "handle", song.Handle)
	}
	w.Songs = append(w.Songs, song)
}

// Progress returns how many entries have been checked out of the total.
func (s *Scene) Progress() (done, total int) {
	return s.index, s.total
}

// Render draws the title and a progress bar.
func (s *Scene) Render(_ *world.World, dst *core.Screen) {
	dst.FillRect(dst.Bounds(), core.ColorDarker)
	_, cy := dst.Bounds().Center()

	title := "C H R Y S O P O E I A"
	dst.DrawTextIn(core.NewRect(0, cy-3, dst.Width(), 1), title, core.ColorLighter, core.ColorDarker)

	filled := barWidth
	if s.total > 0 {
		filled = barWidth * s.index / s.total
	}
	bar := core.NewRect(0, cy, dst.Width(), 1).Centered(barWidth+2, 1)
	dst.DrawTextStyled(bar.X, bar.Y, "[", core.ColorLight, core.ColorDarker)
	dst.DrawTextStyled(bar.X+1, bar.Y, strings.Repeat("█", filled), core.ColorLight, core.ColorDarker)
	dst.DrawTextStyled(bar.X+1+filled, bar.Y, strings.Repeat("·", barWidth-filled), core.ColorDark, core.ColorDarker)
	dst.DrawTextStyled(bar.X+barWidth+1, bar.Y, "]", core.ColorLight, core.ColorDarker)

	label := fmt.Sprintf("Loading songs %d/%d", s.index, s.total)
	dst.DrawTextIn(core.NewRect(0, cy+2, dst.Width(), 1), label, core.ColorLight, core.ColorDarker)
}

// Exit logs the catalog summary.
func (s *Scene) Exit(w *world.World) {
	w.Logger.Info("[CLEANUP] Loading", "playable", len(w.Songs), "dropped", s.dropped, "silent", s.silent)
}
