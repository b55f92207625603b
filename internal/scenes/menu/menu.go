// Package menu is the main menu: pick a song, start playing, open the
// settings or leave.
package menu

import (
	"fmt"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/registry"
	"github.com/vovakirdan/chrysopoeia/internal/ui"
	"github.com/vovakirdan/chrysopoeia/internal/world"
)

// Item is a menu button.
type Item int

const (
	ItemPlay Item = iota
	ItemSettings
	ItemExit
)

var labels = [...]string{"Play", "Settings", "Exit"}

func (i Item) String() string {
	return labels[i]
}

const (
	buttonW = 20
	buttonH = 3
)

// Scene is the main menu.
type Scene struct {
	focus   Item
	buttons [len(labels)]*ui.Button
}

// New creates a menu scene.
func New() *Scene {
	s := &Scene{}
	for i, l := range labels {
		s.buttons[i] = ui.NewButton(l, core.Rect{})
	}
	return s
}

func init() {
	registry.Register(world.Menu, func() registry.Scene {
		return New()
	})
}

// State implements registry.Scene.
func (s *Scene) State() world.GameState { return world.Menu }

// Enter focuses the Play button.
func (s *Scene) Enter(w *world.World) {
	s.focus = ItemPlay
	w.Logger.Info("[STARTUP] Main Menu")
}

// Focus returns the focused item.
func (s *Scene) Focus() Item {
	return s.focus
}

// Step handles navigation and presses.
func (s *Scene) Step(w *world.World, in core.InputFrame) {
	for _, b := range s.buttons {
		b.Step()
	}

	switch {
	case in.Has(core.ActionUp):
		s.focus = (s.focus + Item(len(labels)) - 1) % Item(len(labels))
	case in.Has(core.ActionDown):
		s.focus = (s.focus + 1) % Item(len(labels))
	case in.Has(core.ActionLeft):
		w.CycleSong(-1)
	case in.Has(core.ActionRight):
		w.CycleSong(1)
	case in.Has(core.ActionConfirm):
		s.buttons[s.focus].Press()
		s.activate(w)
	}
}

func (s *Scene) activate(w *world.World) {
	switch s.focus {
	case ItemPlay:
		song, ok := w.SelectedSong()
		if !ok {
			w.Logger.Warn("nothing to play")
			return
		}
		w.Conductor.Submit(audio.Play{Song: &song})
		if w.Store != nil {
			if _, err := w.Store.RecordPlay(w.SessionID, song.ID); err != nil {
				w.Logger.Warn("cannot record play", "song", song.ID, "error", err)
			}
		}
		w.SetNext(world.Playing)
	case ItemSettings:
		w.SetNext(world.Settings)
	case ItemExit:
		w.Quit()
	}
}

// Render draws the title, the song selector and the buttons.
func (s *Scene) Render(w *world.World, dst *core.Screen) {
	bounds := dst.Bounds()
	dst.FillRect(bounds, core.ColorDarker)

	top := core.Max(1, (dst.Height()-(len(labels)*(buttonH+1)+6))/2)
	dst.DrawTextIn(core.NewRect(0, top, dst.Width(), 1), "C H R Y S O P O E I A", core.ColorLighter, core.ColorDarker)

	selector := "no songs"
	if song, ok := w.SelectedSong(); ok {
		selector = fmt.Sprintf("◀  %s  ▶", song)
	}
	dst.DrawTextIn(core.NewRect(0, top+2, dst.Width(), 1), selector, core.ColorLight, core.ColorDarker)

	y := top + 4
	for i, b := range s.buttons {
		b.Rect = core.NewRect((dst.Width()-buttonW)/2, y, buttonW, buttonH)
		b.SetHovered(Item(i) == s.focus)
		b.Draw(dst)
		y += buttonH + 1
	}
}

// Exit logs the cleanup.
func (s *Scene) Exit(w *world.World) {
	w.Logger.Info("[CLEANUP] Main Menu")
}
