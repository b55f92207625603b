// Package settings is the options screen. Changes apply to the audio output
// immediately and are stored when the screen is left.
package settings

import (
	"fmt"

	"github.com/vovakirdan/chrysopoeia/internal/config"
	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/registry"
	"github.com/vovakirdan/chrysopoeia/internal/ui"
	"github.com/vovakirdan/chrysopoeia/internal/world"
)

// Row is an adjustable line on the settings screen.
type Row int

const (
	RowScale Row = iota
	RowMonitor
	RowVolume
	RowMute
	RowBack
	numRows
)

const (
	volumeStep = 0.5
	maxMonitor = 8
	rowW       = 36
)

// Scene is the settings screen.
type Scene struct {
	focus   Row
	changed bool
	back    *ui.Button
}

// New creates a settings scene.
func New() *Scene {
	return &Scene{back: ui.NewButton("Back", core.Rect{})}
}

func init() {
	registry.Register(world.Settings, func() registry.Scene {
		return New()
	})
}

// State implements registry.Scene.
func (s *Scene) State() world.GameState { return world.Settings }

// Enter focuses the first row.
func (s *Scene) Enter(w *world.World) {
	s.focus, s.changed = RowScale, false
	w.Logger.Info("[STARTUP] Settings")
}

// Focus returns the focused row.
func (s *Scene) Focus() Row {
	return s.focus
}

// Step handles navigation and value changes.
func (s *Scene) Step(w *world.World, in core.InputFrame) {
	s.back.Step()

	switch {
	case in.Has(core.ActionBack):
		w.SetNext(world.Menu)
	case in.Has(core.ActionUp):
		s.focus = (s.focus + numRows - 1) % numRows
	case in.Has(core.ActionDown):
		s.focus = (s.focus + 1) % numRows
	case in.Has(core.ActionLeft):
		s.adjust(w, -1)
	case in.Has(core.ActionRight):
		s.adjust(w, 1)
	case in.Has(core.ActionConfirm):
		if s.focus == RowBack {
			s.back.Press()
			w.SetNext(world.Menu)
			return
		}
		s.adjust(w, 1)
	}
}

func (s *Scene) adjust(w *world.World, dir int) {
	st := &w.Settings
	switch s.focus {
	case RowScale:
		st.Resolution.Scale = st.Resolution.Scale.Toggle()
	case RowMonitor:
		st.Monitor = core.Clamp(st.Monitor+dir, 0, maxMonitor)
	case RowVolume:
		st.Audio.Volume = core.ClampF(st.Audio.Volume+float64(dir)*volumeStep, config.MinVolume, config.MaxVolume)
	case RowMute:
		st.Audio.Muted = !st.Audio.Muted
	default:
		return
	}
	s.changed = true
	w.ApplySettings()
}

func (s *Scene) label(w *world.World, r Row) string {
	st := w.Settings
	switch r {
	case RowScale:
		scale := st.Resolution.Scale
		if scale == "" {
			scale = config.ScaleLarge
		}
		return fmt.Sprintf("Scale      ◀ %-6s (x%d) ▶", scale, scale.Scale())
	case RowMonitor:
		return fmt.Sprintf("Monitor    ◀ %d ▶", st.Monitor)
	case RowVolume:
		return fmt.Sprintf("Volume     ◀ %+.1f ▶", st.Audio.Volume)
	case RowMute:
		mute := "off"
		if st.Audio.Muted {
			mute = "on"
		}
		return fmt.Sprintf("Mute       ◀ %s ▶", mute)
	default:
		return ""
	}
}

// Render draws the rows and the Back button.
func (s *Scene) Render(w *world.World, dst *core.Screen) {
	dst.FillRect(dst.Bounds(), core.ColorDarker)

	top := core.Max(1, (dst.Height()-int(numRows)*2-2)/2)
	dst.DrawTextIn(core.NewRect(0, top, dst.Width(), 1), "S E T T I N G S", core.ColorLighter, core.ColorDarker)

	x := (dst.Width() - rowW) / 2
	y := top + 2
	for r := RowScale; r < RowBack; r++ {
		fg, bg := core.ColorLight, core.ColorDarker
		if r == s.focus {
			fg, bg = core.ColorBlack, core.ColorLighter
			dst.FillRect(core.NewRect(x, y, rowW, 1), bg)
		}
		dst.DrawTextStyled(x+1, y, s.label(w, r), fg, bg)
		y += 2
	}

	s.back.Rect = core.NewRect((dst.Width()-12)/2, y, 12, 3)
	s.back.SetHovered(s.focus == RowBack)
	s.back.Draw(dst)
}

// Exit stores the settings if anything changed.
func (s *Scene) Exit(w *world.World) {
	if s.changed && w.Store != nil {
		if err := w.Store.SaveSettings(w.Settings); err != nil {
			w.Logger.Warn("cannot save settings", "error", err)
		}
	}
	w.Logger.Info("[CLEANUP] Settings", "changed", s.changed)
}
