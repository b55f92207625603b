package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/world"
)

// maxCatchUp bounds the simulated time per frame after a stall.
const maxCatchUp = 250 * time.Millisecond

// Director runs the active scene and the audio conductor for one world.
//
// Each frame it ticks the conductor at the fixed step for the elapsed real
// time, steps the scene, drains the conductor's command queue and finally
// switches scenes if a state change was requested.
type Director struct {
	world   *world.World
	current Scene
	acc     time.Duration
}

// NewDirector starts the conductor and enters the scene for the world's
// current state.
func NewDirector(w *world.World) (*Director, error) {
	scene, err := Create(w.State())
	if err != nil {
		return nil, err
	}
	w.Conductor.Startup()
	d := &Director{world: w, current: scene}
	scene.Enter(w)
	return d, nil
}

// World returns the directed world.
func (d *Director) World() *world.World {
	return d.world
}

// Scene returns the active scene.
func (d *Director) Scene() Scene {
	return d.current
}

// Frame advances the game by dt of real time.
func (d *Director) Frame(ctx context.Context, dt time.Duration, in core.InputFrame) error {
	w := d.world

	d.acc += dt
	if d.acc > maxCatchUp {
		d.acc = maxCatchUp
	}
	step := w.Config.Step()
	w.Delta = dt
	w.Fires = audio.Fires{}
	for d.acc >= step {
		fires := w.Conductor.FixedUpdate(step)
		for k, n := range fires {
			w.Fires[k] += n
		}
		d.acc -= step
	}

	d.current.Step(w, in)
	w.Conductor.Update(ctx)
	return d.switchScene()
}

// Render draws the active scene.
func (d *Director) Render(dst *core.Screen) {
	dst.Clear()
	d.current.Render(d.world, dst)
}

// Close exits the active scene so it can persist its state.
func (d *Director) Close() {
	d.current.Exit(d.world)
}

func (d *Director) switchScene() error {
	w := d.world
	to, pending := w.Next()
	if !pending {
		return nil
	}
	if to == w.State() {
		w.CancelNext()
		return nil
	}

	next, err := Create(to)
	if err != nil {
		w.CancelNext()
		return fmt.Errorf("registry: cannot switch to %s: %w", to, err)
	}

	d.current.Exit(w)
	w.ApplyNext()
	d.current = next
	d.current.Enter(w)
	return nil
}
