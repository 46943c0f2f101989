package states

import "fmt"

// GamePhase represents the current phase of a game
type GamePhase int

const (
	// PhaseInitializing - Map generation, player placement
	PhaseInitializing GamePhase = iota

	// PhaseAwaitingAction - The current player may select and move pieces
	PhaseAwaitingAction

	// PhaseActionApplied - A move has just been applied and its consequences resolved
	PhaseActionApplied

	// PhaseTurnEnding - Rotation done, waiting for the hand-over to be acknowledged
	PhaseTurnEnding

	// PhaseGameOver - A single player remains
	PhaseGameOver

	// PhaseError - Error recovery state
	PhaseError

	// PhaseReset - Reset the current game without full teardown
	PhaseReset
)

var phaseNames = map[GamePhase]string{
	PhaseInitializing:   "Initializing",
	PhaseAwaitingAction: "AwaitingAction",
	PhaseActionApplied:  "ActionApplied",
	PhaseTurnEnding:     "TurnEnding",
	PhaseGameOver:       "GameOver",
	PhaseError:          "Error",
	PhaseReset:          "Reset",
}

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", p)
}

// IsTerminal returns true if the phase represents a terminal state
func (p GamePhase) IsTerminal() bool {
	return p == PhaseGameOver || p == PhaseError
}

// CanReceiveActions returns true if the current player may move in this phase
func (p GamePhase) CanReceiveActions() bool {
	return p == PhaseAwaitingAction
}

// IsInPlay returns true while a game is between setup and its end
func (p GamePhase) IsInPlay() bool {
	return p == PhaseAwaitingAction || p == PhaseActionApplied || p == PhaseTurnEnding
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseInitializing:
		return []GamePhase{PhaseAwaitingAction, PhaseError}
	case PhaseAwaitingAction:
		return []GamePhase{PhaseActionApplied, PhaseTurnEnding, PhaseGameOver, PhaseError, PhaseReset}
	case PhaseActionApplied:
		return []GamePhase{PhaseAwaitingAction, PhaseTurnEnding, PhaseGameOver, PhaseError, PhaseReset}
	case PhaseTurnEnding:
		return []GamePhase{PhaseAwaitingAction, PhaseGameOver, PhaseError, PhaseReset}
	case PhaseGameOver:
		return []GamePhase{PhaseReset}
	case PhaseError:
		return []GamePhase{PhaseReset}
	case PhaseReset:
		return []GamePhase{PhaseInitializing}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a GamePhase
func ParsePhase(s string) GamePhase {
	for phase, name := range phaseNames {
		if name == s {
			return phase
		}
	}
	return PhaseInitializing // Default to initializing for unknown phases
}
