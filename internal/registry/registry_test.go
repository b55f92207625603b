package registry

import (
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/world"
)

var events []string

// fakeScene moves to next on Confirm.
type fakeScene struct {
	state world.GameState
	next  world.GameState
}

func (s *fakeScene) State() world.GameState { return s.state }
func (s *fakeScene) Enter(*world.World)     { events = append(events, "enter "+s.state.String()) }
func (s *fakeScene) Exit(*world.World)      { events = append(events, "exit "+s.state.String()) }
func (s *fakeScene) Step(w *world.World, in core.InputFrame) {
	if in.Has(core.ActionConfirm) {
		w.SetNext(s.next)
	}
	if in.Has(core.ActionBack) {
		w.SetNext(s.state)
	}
}
func (s *fakeScene) Render(_ *world.World, dst *core.Screen) {
	dst.DrawText(0, 0, s.state.String())
}

// Settings is deliberately left unregistered.
func init() {
	Register(world.Loading, func() Scene { return &fakeScene{state: world.Loading, next: world.Menu} })
	Register(world.Menu, func() Scene { return &fakeScene{state: world.Menu, next: world.Playing} })
	Register(world.Playing, func() Scene { return &fakeScene{state: world.Playing, next: world.Settings} })
}

func press(a core.Action) core.InputFrame {
	in := core.NewInputFrame()
	in.Set(a)
	return in
}

func TestRegistry(t *testing.T) {
	list := List()
	want := []SceneInfo{
		{world.Loading, "loading"},
		{world.Menu, "menu"},
		{world.Playing, "playing"},
	}
	if !reflect.DeepEqual(list, want) {
		t.Errorf("List() = %v, expected %v", list, want)
	}

	if !Exists(world.Menu) || Exists(world.Settings) {
		t.Error("Exists() mismatch")
	}
	if _, err := Create(world.Settings); err == nil {
		t.Error("Create() of an unregistered state should fail")
	}

	defer func() {
		if recover() == nil {
			t.Error("registering a state twice should panic")
		}
	}()
	Register(world.Menu, func() Scene { return nil })
}

func TestDirectorSwitchesScenesBetweenFrames(t *testing.T) {
	events = nil
	w := world.New(world.Options{})
	d, err := NewDirector(w)
	if err != nil {
		t.Fatalf("NewDirector() error: %v", err)
	}
	if d.World() != w {
		t.Error("World() should return the directed world")
	}

	ctx := t.Context()
	if err := d.Frame(ctx, 0, press(core.ActionConfirm)); err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	if w.State() != world.Menu || d.Scene().State() != world.Menu {
		t.Errorf("state = %s, scene = %s, expected menu", w.State(), d.Scene().State())
	}

	// Requesting the current state is a no-op.
	d.Frame(ctx, 0, press(core.ActionBack))

	d.Frame(ctx, 0, press(core.ActionConfirm))
	if w.State() != world.Playing {
		t.Errorf("state = %s, expected playing", w.State())
	}

	// Switching to a state without a scene fails and keeps the current one.
	if err := d.Frame(ctx, 0, press(core.ActionConfirm)); err == nil {
		t.Error("Frame() should report the missing scene")
	}
	if w.State() != world.Playing {
		t.Errorf("state = %s, expected playing", w.State())
	}
	if _, pending := w.Next(); pending {
		t.Error("failed switch should drop the request")
	}

	d.Close()

	want := []string{
		"enter loading",
		"exit loading", "enter menu",
		"exit menu", "enter playing",
		"exit playing",
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, expected %v", events, want)
	}

	screen := core.NewScreen(10, 1)
	screen.DrawText(0, 0, "xxxxxxxxxx")
	d.Render(screen)
	if screen.Row(0) != "playing   " {
		t.Errorf("Render() row = %q", screen.Row(0))
	}
}

func TestDirectorFixedStep(t *testing.T) {
	w := world.New(world.Options{Config: core.RuntimeConfig{TickRate: 10}})
	d, err := NewDirector(w)
	if err != nil {
		t.Fatalf("NewDirector() error: %v", err)
	}
	ctx := t.Context()

	song := &audio.Song{ID: "a", Info: audio.AudioInfo{Tempo: 120, Metre: audio.Metre{Top: 4, Bottom: 4}}}
	w.Conductor.Submit(audio.Play{Song: song})

	// Commands apply after the fixed steps, so the first frame is silent.
	d.Frame(ctx, 100*time.Millisecond, core.InputFrame{})
	if w.Fires.Any() {
		t.Errorf("fires before playback = %v", w.Fires)
	}
	if w.Conductor.State() != audio.Playing {
		t.Fatalf("conductor state = %s, expected playing", w.Conductor.State())
	}

	// A stall is clamped: 300ms becomes 250ms, two 100ms steps, 50ms carried.
	d.Frame(ctx, 300*time.Millisecond, core.InputFrame{})
	if got := w.Fires.Of(audio.ThirtySecond); got != 3 {
		t.Errorf("thirty-second fires = %d, expected 3", got)
	}
	if got := w.Fires.Of(audio.Sixteenth); got != 1 {
		t.Errorf("sixteenth fires = %d, expected 1", got)
	}
	if got := w.Fires.Of(audio.Eighth); got != 0 {
		t.Errorf("eighth fires = %d, expected 0", got)
	}

	d.Frame(ctx, 50*time.Millisecond, core.InputFrame{})
	if got := w.Fires.Of(audio.Eighth); got != 1 {
		t.Errorf("eighth fires after carry = %d, expected 1", got)
	}
}
