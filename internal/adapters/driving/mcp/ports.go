package mcp

import (
	"github.com/custodia-labs/sentorder/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Reorder reorders and scores texts.
	Reorder driving.ReorderService

	// History exposes past runs. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Reorder == nil {
		return ErrMissingReorderService
	}
	return nil
}
