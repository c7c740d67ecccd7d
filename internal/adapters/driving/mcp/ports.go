package mcp

import (
	"github.com/custodia-labs/regdash/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Dataset serves the loaded table and its views.
	Dataset driving.DatasetService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Dataset == nil {
		return ErrMissingDatasetService
	}
	return nil
}
