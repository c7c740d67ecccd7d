package driven

import (
	"context"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

// ChartRenderer draws dashboard views as image files.
type ChartRenderer interface {
	// Render writes one chart per view into dir and returns the file paths.
	// Views with no data produce no file.
	Render(ctx context.Context, dashboard *domain.Dashboard, dir string) ([]string, error)
}

// ReportWriter writes the dashboard views to a document.
type ReportWriter interface {
	// Write stores every view at path, one section per view.
	Write(ctx context.Context, dashboard *domain.Dashboard, path string) error
}

// SourceWatcher reports changes to a source file.
type SourceWatcher interface {
	// Watch calls onChange whenever the file at path is written or replaced.
	// It blocks until ctx is cancelled.
	Watch(ctx context.Context, path string, onChange func()) error
}
