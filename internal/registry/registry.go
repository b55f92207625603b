// Package registry provides a global registry of scene factories, one per
// game state. Scenes register themselves in init() functions, allowing the
// platform to build them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/world"
)

// Scene is the interface every screen of the game implements.
// Scenes contain pure logic with no Bubble Tea dependency; the platform
// handles key mapping, timing and terminal output.
type Scene interface {
	// State returns the game state this scene is shown for.
	State() world.GameState

	// Enter is called when the game switches to this scene's state.
	Enter(w *world.World)

	// Step advances the scene by one frame with the frame's input.
	// State changes are requested with w.SetNext.
	Step(w *world.World, in core.InputFrame)

	// Render draws the scene into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(w *world.World, dst *core.Screen)

	// Exit is called when the game leaves this scene's state.
	Exit(w *world.World)
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	State world.GameState
	Name  string
}

// Factory is a function that creates a new instance of a scene.
type Factory func() Scene

var (
	factories = make(map[world.GameState]Factory)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Typically called from a scene's init() function.
// Panics if a scene for the same state is already registered.
func Register(state world.GameState, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[state]; exists {
		panic(fmt.Sprintf("registry: scene for %s already registered", state))
	}
	factories[state] = f
}

// List returns all registered scenes, sorted by state.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(factories))
	for state := range factories {
		result = append(result, SceneInfo{State: state, Name: state.String()})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].State < result[j].State
	})
	return result
}

// Create instantiates a new scene for the given state.
func Create(state world.GameState) (Scene, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[state]
	if !ok {
		return nil, fmt.Errorf("registry: no scene for %s", state)
	}
	return f(), nil
}

// Exists checks if a scene is registered for the given state.
func Exists(state world.GameState) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[state]
	return ok
}
