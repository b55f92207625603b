package core

// Action represents a semantic game action, abstracted from physical key presses.
// Scenes react to intents; the platform layer owns the key bindings.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow - previous menu entry
	ActionDown           // S, Down arrow - next menu entry
	ActionLeft           // A, Left arrow - previous song / decrease value
	ActionRight          // D, Right arrow - next song / increase value
	ActionConfirm        // Enter, Space - press the focused button
	ActionBack           // Escape - leave the current screen
	ActionPause          // P - pause/unpause combat
	ActionQuit           // Q, Ctrl+C - exit the session
	ActionCombatOne      // J - first combat button
	ActionCombatTwo      // K - second combat button
	ActionCombatThree    // L - third combat button
	ActionCombatFour     // ; - fourth combat button
)

// CombatActions lists the combat button actions in left-to-right order.
var CombatActions = [4]Action{ActionCombatOne, ActionCombatTwo, ActionCombatThree, ActionCombatFour}

// CombatIndex returns the button slot of a combat action.
func (a Action) CombatIndex() (int, bool) {
	for i, c := range CombatActions {
		if c == a {
			return i, true
		}
	}
	return 0, false
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	case ActionCombatOne:
		return "CombatOne"
	case ActionCombatTwo:
		return "CombatTwo"
	case ActionCombatThree:
		return "CombatThree"
	case ActionCombatFour:
		return "CombatFour"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one frame.
// Presses are edge-triggered: an action appears once per key press.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	c := NewInputFrame()
	for k, v := range f.Actions {
		c.Actions[k] = v
	}
	return c
}
