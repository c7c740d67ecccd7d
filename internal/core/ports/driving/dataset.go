package driving

import (
	"context"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

// DatasetService loads the regulation table and serves filtered views of it.
type DatasetService interface {
	// Load reads, enriches and stores the table at path.
	// An empty path falls back to the configured source path.
	Load(ctx context.Context, path string) (*domain.SnapshotInfo, error)

	// Reload reads the last loaded path again.
	Reload(ctx context.Context) (*domain.SnapshotInfo, error)

	// Records returns the current enriched table.
	// Returns domain.ErrNoDataset if nothing has been loaded.
	Records(ctx context.Context) ([]domain.Record, error)

	// Options returns the distinct sectors and domains of the current table.
	Options(ctx context.Context) (*domain.FilterOptions, error)

	// Dashboard computes every view over the current table narrowed by filter.
	Dashboard(ctx context.Context, filter domain.Filter) (*domain.Dashboard, error)

	// Analyze is Dashboard with explicit sectors and forecast options.
	// Zero-valued fields fall back to the configured values.
	Analyze(ctx context.Context, filter domain.Filter, opts domain.DashboardOptions) (*domain.Dashboard, error)

	// Snapshots lists stored tables, newest first.
	Snapshots(ctx context.Context) ([]domain.SnapshotInfo, error)
}
