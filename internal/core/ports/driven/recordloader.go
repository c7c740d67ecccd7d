package driven

import (
	"context"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

// RecordLoader reads raw regulation rows from a source.
// Returned records carry only the input columns; enrichment is the
// caller's job.
type RecordLoader interface {
	// Load reads every row at location.
	// Structural problems (missing columns, non-integer presence/detail)
	// are returned as errors wrapping domain.ErrSchema or
	// domain.ErrInvalidRecord; nothing is partially loaded.
	Load(ctx context.Context, location string) ([]domain.Record, error)
}
