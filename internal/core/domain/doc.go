// Package domain defines the core business entities for regdash.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: One regulation row plus its derived scores
//   - Ranking: Legal-hierarchy ranks used for level scoring
//   - Filter: The sector/domain selection applied to every view
//   - Dashboard: The aggregate views computed from a filtered table
//   - Snapshot: A loaded, enriched table with its provenance
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
