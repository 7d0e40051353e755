// Package tui provides an interactive terminal view of a reorder run.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/sentorder/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Reorder reorders and scores the text.
	Reorder driving.ReorderService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(reorder driving.ReorderService) *Ports {
	return &Ports{Reorder: reorder}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Reorder == nil {
		return ErrMissingReorderService
	}
	return nil
}
