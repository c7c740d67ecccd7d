// Package tui provides an interactive terminal dashboard for regdash.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/regdash/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Dataset loads the table and computes the dashboard.
	Dataset driving.DatasetService

	// Settings provides the configured sectors and export paths.
	// Optional.
	Settings driving.SettingsService

	// Export writes charts and workbooks. Optional; export menu
	// entries report an error when it is missing.
	Export driving.ExportService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	dataset driving.DatasetService,
	settings driving.SettingsService,
	export driving.ExportService,
) *Ports {
	return &Ports{
		Dataset:  dataset,
		Settings: settings,
		Export:   export,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Dataset == nil {
		return ErrMissingDatasetService
	}
	return nil
}
