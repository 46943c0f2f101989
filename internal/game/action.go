package game

import (
	"errors"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

// ResultKind describes what an engine entry point did
type ResultKind int

const (
	ResultRejected ResultKind = iota
	ResultSelected
	ResultMoved
	ResultTurnEnded
	ResultAcknowledged
	ResultDeselected
)

func (k ResultKind) String() string {
	switch k {
	case ResultRejected:
		return "rejected"
	case ResultSelected:
		return "selected"
	case ResultMoved:
		return "moved"
	case ResultTurnEnded:
		return "turn_ended"
	case ResultAcknowledged:
		return "acknowledged"
	case ResultDeselected:
		return "deselected"
	default:
		return "unknown"
	}
}

// Result is returned by every player-facing entry point. Expected refusals
// never surface as errors; they come back with Applied=false and a sentinel
// from core in Reason.
type Result struct {
	Applied bool
	Kind    ResultKind
	Reason  error
	From    core.Coordinate
	To      core.Coordinate
}

func rejected(reason error) Result {
	return Result{Kind: ResultRejected, Reason: reason}
}

// Is reports whether the result was rejected for target
func (r Result) Is(target error) bool {
	return r.Reason != nil && errors.Is(r.Reason, target)
}
