package driving

import (
	"context"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

// ExportService writes dashboard views to files.
type ExportService interface {
	// Charts renders PNG charts of the filtered dashboard into dir.
	// An empty dir falls back to the configured chart directory.
	Charts(ctx context.Context, filter domain.Filter, dir string) ([]string, error)

	// Workbook writes every view of the filtered dashboard to path.
	Workbook(ctx context.Context, filter domain.Filter, path string) error
}
