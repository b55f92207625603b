package world

// GameState is the top-level screen the game is on.
type GameState int

const (
	Loading GameState = iota
	Menu
	Playing
	Settings
)

// States lists every game state.
var States = []GameState{Loading, Menu, Playing, Settings}

func (s GameState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Menu:
		return "menu"
	case Playing:
		return "playing"
	case Settings:
		return "settings"
	default:
		return "unknown"
	}
}

// PauseState is a substate of Playing.
type PauseState int

const (
	Unpaused PauseState = iota
	Paused
)

func (s PauseState) String() string {
	if s == Paused {
		return "paused"
	}
	return "unpaused"
}

// CombatState is a substate of Playing.
type CombatState int

const (
	CombatIn CombatState = iota
	CombatOut
)

func (s CombatState) String() string {
	if s == CombatOut {
		return "out"
	}
	return "in"
}
