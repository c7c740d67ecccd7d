package driving

import "github.com/custodia-labs/regdash/internal/core/domain"

// MetricsService derives scores and aggregates from regulation records.
// Every method is pure: the same input always yields the same output,
// and an empty input yields an empty result.
type MetricsService interface {
	// Enrich computes Sanction, LevelScore, IntensityScore and Year.
	Enrich(records []domain.Record) []domain.Record

	// SummarizeIntensity returns the mean intensity per (domain, sector) present.
	SummarizeIntensity(records []domain.Record) []domain.IntensityCell

	// IntensityGrid pivots a summary into a domain × sector grid, filling gaps with 0.
	IntensityGrid(summary []domain.IntensityCell) domain.IntensityGrid

	// ExclusiveDomains returns domains present for sectorA and absent for sectorB.
	ExclusiveDomains(records []domain.Record, sectorA, sectorB string) []string

	// ExclusiveGapRows returns the present sectorA rows in the given domains,
	// ordered by domain then strictest level first.
	ExclusiveGapRows(records []domain.Record, domains []string, sectorA string) []domain.Record

	// YearlyTrend counts records per (year, sector) for records with a year.
	YearlyTrend(records []domain.Record) []domain.TrendPoint

	// ForecastLinear projects each sector's trend forward.
	ForecastLinear(trend []domain.TrendPoint, opts domain.ForecastOptions) []domain.SectorForecast

	// BuildDashboard filters records and computes every view.
	BuildDashboard(records []domain.Record, filter domain.Filter, opts domain.DashboardOptions) *domain.Dashboard
}
