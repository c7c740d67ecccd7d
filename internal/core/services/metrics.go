package services

import (
	"sort"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driving"
	"github.com/custodia-labs/regdash/internal/logger"
)

// Ensure MetricsService implements the interface.
var _ driving.MetricsService = (*MetricsService)(nil)

// MetricsService derives per-record scores and the aggregate views.
// It holds no state beyond the level ranking and is safe for concurrent use.
type MetricsService struct {
	ranking domain.Ranking
}

// NewMetricsService creates a metrics service using the given ranking.
// A nil ranking falls back to domain.DefaultRanking.
func NewMetricsService(ranking domain.Ranking) *MetricsService {
	if ranking == nil {
		ranking = domain.DefaultRanking()
	}
	return &MetricsService{ranking: ranking}
}

// Ranking returns the level ranking used for scoring and ordering.
func (m *MetricsService) Ranking() domain.Ranking {
	return m.ranking
}

// Enrich computes the derived fields of every record.
// Derived fields already present are overwritten, so enriching twice is a no-op.
func (m *MetricsService) Enrich(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	for i, r := range records {
		r.Sanction = r.Presence
		r.LevelScore = m.ranking.Score(r.Level)
		r.IntensityScore = r.LevelScore + r.Detail + r.Sanction
		r.Year, _ = domain.ExtractYear(r.Regulasi)
		out[i] = r
	}
	return out
}

// groupKey identifies a (domain, sector) pair.
type groupKey struct {
	domain string
	sector string
}

// SummarizeIntensity returns the mean intensity per (domain, sector) pair.
// Pairs with no rows are absent. Cells are ordered by domain, then sector.
func (m *MetricsService) SummarizeIntensity(records []domain.Record) []domain.IntensityCell {
	sums := make(map[groupKey]int)
	counts := make(map[groupKey]int)
	for i := range records {
		k := groupKey{domain: records[i].Domain, sector: records[i].Sector}
		sums[k] += records[i].IntensityScore
		counts[k]++
	}

	cells := make([]domain.IntensityCell, 0, len(counts))
	for k, n := range counts {
		cells = append(cells, domain.IntensityCell{
			Domain: k.domain,
			Sector: k.sector,
			Mean:   float64(sums[k]) / float64(n),
			Count:  n,
		})
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Domain != cells[j].Domain {
			return cells[i].Domain < cells[j].Domain
		}
		return cells[i].Sector < cells[j].Sector
	})
	return cells
}

// IntensityGrid pivots the summary into a domain × sector grid.
// Combinations missing from the summary are filled with 0.
func (m *MetricsService) IntensityGrid(summary []domain.IntensityCell) domain.IntensityGrid {
	domainIdx := make(map[string]int)
	sectorIdx := make(map[string]int)
	grid := domain.IntensityGrid{
		Domains: make([]string, 0),
		Sectors: make([]string, 0),
		Values:  make([][]float64, 0),
	}

	for _, c := range summary {
		if _, ok := domainIdx[c.Domain]; !ok {
			domainIdx[c.Domain] = 0
			grid.Domains = append(grid.Domains, c.Domain)
		}
		if _, ok := sectorIdx[c.Sector]; !ok {
			sectorIdx[c.Sector] = 0
			grid.Sectors = append(grid.Sectors, c.Sector)
		}
	}
	sort.Strings(grid.Domains)
	sort.Strings(grid.Sectors)
	for i, d := range grid.Domains {
		domainIdx[d] = i
	}
	for j, s := range grid.Sectors {
		sectorIdx[s] = j
	}

	for range grid.Domains {
		grid.Values = append(grid.Values, make([]float64, len(grid.Sectors)))
	}
	for _, c := range summary {
		grid.Values[domainIdx[c.Domain]][sectorIdx[c.Sector]] = c.Mean
	}
	return grid
}

// ExclusiveDomains returns the domains whose summed presence is positive for
// sectorA and exactly zero for sectorB. A sector with no rows in a domain
// counts as zero. The result is sorted.
//
// The relation is one-directional: swapping the sectors gives a different set.
func (m *MetricsService) ExclusiveDomains(records []domain.Record, sectorA, sectorB string) []string {
	presence := make(map[string]map[string]int)
	for i := range records {
		r := &records[i]
		if presence[r.Domain] == nil {
			presence[r.Domain] = make(map[string]int)
		}
		presence[r.Domain][r.Sector] += r.Presence
	}

	exclusive := make([]string, 0)
	for d, bySector := range presence {
		if bySector[sectorA] > 0 && bySector[sectorB] == 0 {
			exclusive = append(exclusive, d)
		}
	}
	sort.Strings(exclusive)
	return exclusive
}

// ExclusiveGapRows returns the sectorA rows with presence 1 whose domain is
// in domains, ordered by domain ascending and then strictest level first.
// Rows that tie keep their input order.
func (m *MetricsService) ExclusiveGapRows(records []domain.Record, domains []string, sectorA string) []domain.Record {
	wanted := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		wanted[d] = struct{}{}
	}

	rows := make([]domain.Record, 0)
	for i := range records {
		r := records[i]
		if r.Sector != sectorA || r.Presence != 1 {
			continue
		}
		if _, ok := wanted[r.Domain]; !ok {
			continue
		}
		rows = append(rows, r)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Domain != rows[j].Domain {
			return rows[i].Domain < rows[j].Domain
		}
		return m.ranking.Score(rows[i].Level) > m.ranking.Score(rows[j].Level)
	})
	return rows
}

// trendKey identifies a (year, sector) pair.
type trendKey struct {
	year   int
	sector string
}

// YearlyTrend counts records per (year, sector), skipping records without a year.
// Years with no records for a sector are absent; the year axis is not dense.
func (m *MetricsService) YearlyTrend(records []domain.Record) []domain.TrendPoint {
	counts := make(map[trendKey]int)
	for i := range records {
		if !records[i].HasYear() {
			continue
		}
		counts[trendKey{year: records[i].Year, sector: records[i].Sector}]++
	}

	points := make([]domain.TrendPoint, 0, len(counts))
	for k, n := range counts {
		points = append(points, domain.TrendPoint{Year: k.year, Sector: k.sector, Count: n})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Sector < points[j].Sector
	})
	return points
}

// ForecastLinear projects every sector in trend forward by opts.Horizon points.
//
// Growth is the mean of the sector's successive first differences (0 for a
// single-point series). Point i lands at maxYear + i*Step with value
// lastCount + i*growth, where maxYear is the latest year across the whole
// trend rather than the sector's own last year.
func (m *MetricsService) ForecastLinear(trend []domain.TrendPoint, opts domain.ForecastOptions) []domain.SectorForecast {
	forecasts := make([]domain.SectorForecast, 0)
	if len(trend) == 0 {
		return forecasts
	}
	opts = opts.Normalised()

	maxYear := trend[0].Year
	bySector := make(map[string][]domain.TrendPoint)
	for _, p := range trend {
		if p.Year > maxYear {
			maxYear = p.Year
		}
		bySector[p.Sector] = append(bySector[p.Sector], p)
	}

	sectors := make([]string, 0, len(bySector))
	for s := range bySector {
		sectors = append(sectors, s)
	}
	sort.Strings(sectors)

	for _, sector := range sectors {
		series := bySector[sector]
		sort.SliceStable(series, func(i, j int) bool { return series[i].Year < series[j].Year })

		growth := meanFirstDifference(series)
		last := series[len(series)-1]

		f := domain.SectorForecast{
			Sector:    sector,
			Growth:    growth,
			LastYear:  last.Year,
			LastCount: last.Count,
			Points:    make([]domain.ForecastPoint, 0, opts.Horizon),
		}
		for i := 1; i <= opts.Horizon; i++ {
			f.Points = append(f.Points, domain.ForecastPoint{
				Year:  maxYear + i*opts.Step,
				Value: float64(last.Count) + float64(i)*growth,
			})
		}
		forecasts = append(forecasts, f)
	}
	return forecasts
}

// meanFirstDifference returns the mean of count[i] - count[i-1], or 0 when
// the series has fewer than two points.
func meanFirstDifference(series []domain.TrendPoint) float64 {
	if len(series) < 2 {
		return 0
	}
	total := 0
	for i := 1; i < len(series); i++ {
		total += series[i].Count - series[i-1].Count
	}
	return float64(total) / float64(len(series)-1)
}

// BuildDashboard narrows records by filter and computes every view from the result.
// Records must already be enriched.
func (m *MetricsService) BuildDashboard(
	records []domain.Record,
	filter domain.Filter,
	opts domain.DashboardOptions,
) *domain.Dashboard {
	filtered := filter.Apply(records)
	opts.Forecast = opts.Forecast.Normalised()

	summary := m.SummarizeIntensity(filtered)
	exclusive := m.ExclusiveDomains(filtered, opts.PrimarySector, opts.SecondarySector)
	trend := m.YearlyTrend(filtered)

	logger.Debug("dashboard: %d of %d records after filter", len(filtered), len(records))

	return &domain.Dashboard{
		Filter:           filter,
		Options:          opts,
		Records:          filtered,
		Summary:          summary,
		Grid:             m.IntensityGrid(summary),
		ExclusiveDomains: exclusive,
		GapRows:          m.ExclusiveGapRows(filtered, exclusive, opts.PrimarySector),
		Trend:            trend,
		Forecasts:        m.ForecastLinear(trend, opts.Forecast),
	}
}
