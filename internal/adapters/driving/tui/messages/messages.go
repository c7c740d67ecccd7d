// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/regdash/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewRecords is the scored record table.
	ViewRecords
	// ViewIntensity shows mean intensity as bars and a heatmap.
	ViewIntensity
	// ViewGaps shows the sector-exclusive domains.
	ViewGaps
	// ViewTrend shows yearly counts and the projection.
	ViewTrend
	// ViewFilters is the sector and domain selection.
	ViewFilters
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewRecords:
		return "records"
	case ViewIntensity:
		return "intensity"
	case ViewGaps:
		return "gaps"
	case ViewTrend:
		return "trend"
	case ViewFilters:
		return "filters"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DatasetLoaded carries the result of reading the source table.
type DatasetLoaded struct {
	Info *domain.SnapshotInfo
	Err  error
}

// OptionsLoaded carries the distinct sectors and domains of the table.
type OptionsLoaded struct {
	Options *domain.FilterOptions
	Err     error
}

// DashboardLoaded carries every view computed for the current filter.
type DashboardLoaded struct {
	// Filter is the selection the dashboard was computed for.
	Filter    domain.Filter
	Dashboard *domain.Dashboard
	Err       error
}

// FilterChanged is sent when the sector or domain selection changes.
type FilterChanged struct {
	Filter domain.Filter
}

// ReloadRequested asks for the source table to be read again.
type ReloadRequested struct{}

// SourceChanged is sent by the file watcher when the source table changes.
type SourceChanged struct {
	Path string
}

// WatchFailed is sent when the file watcher stops with an error.
type WatchFailed struct {
	Err error
}

// ExportRequested asks for charts or a workbook to be written.
type ExportRequested struct {
	Kind ExportKind
}

// ExportKind selects what ExportRequested writes.
type ExportKind int

const (
	// ExportCharts writes PNG charts.
	ExportCharts ExportKind = iota
	// ExportWorkbook writes an XLSX workbook.
	ExportWorkbook
)

// ExportCompleted reports the files written by an export.
type ExportCompleted struct {
	Kind  ExportKind
	Paths []string
	Err   error
}
