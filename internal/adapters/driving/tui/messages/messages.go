// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// ReorderRequested starts a reorder with the given options.
type ReorderRequested struct {
	Options domain.ReorderOptions
}

// ReorderCompleted carries the reorder result and its score report back to the model.
type ReorderCompleted struct {
	Result *domain.ReorderResult
	Report *domain.ScoreReport
	Err    error
}

// Phase identifies what the app is currently showing.
type Phase int

const (
	// PhaseRunning shows the spinner while a reorder runs.
	PhaseRunning Phase = iota
	// PhaseResult shows original and reordered text side by side.
	PhaseResult
	// PhaseError shows the last error.
	PhaseError
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseResult:
		return "result"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}
