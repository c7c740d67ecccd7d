package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

func rawRecords() []domain.Record {
	return []domain.Record{
		{Sector: "Minol", Domain: "distribusi", Regulasi: "Permendag No. 20 Tahun 2014", Level: "Permen", Presence: 1, Detail: 1},
		{Sector: "Minol", Domain: "distribusi", Regulasi: "Perpres No. 74 Tahun 2013", Level: "Perpres", Presence: 1, Detail: 0},
		{Sector: "Minol", Domain: "label", Regulasi: "Perban POM No. 22 Tahun 2019", Level: "Perban", Presence: 1, Detail: 1},
		{Sector: "Tembakau", Domain: "label", Regulasi: "PP No. 109 Tahun 2012", Level: "PP", Presence: 1, Detail: 1},
		{Sector: "Tembakau", Domain: "iklan", Regulasi: "UU No. 36 Tahun 2009", Level: "UU", Presence: 1, Detail: 0},
		{Sector: "Tembakau", Domain: "distribusi", Regulasi: "Rancangan", Level: "Perda", Presence: 0, Detail: 0},
	}
}

func TestNewMetricsService_DefaultRanking(t *testing.T) {
	svc := NewMetricsService(nil)

	require.NotNil(t, svc)
	assert.Equal(t, domain.DefaultRanking(), svc.Ranking())
}

func TestMetricsService_Enrich(t *testing.T) {
	svc := NewMetricsService(nil)

	enriched := svc.Enrich(rawRecords())

	require.Len(t, enriched, 6)
	for _, r := range enriched {
		assert.Equal(t, r.Presence, r.Sanction)
		assert.Equal(t, svc.Ranking().Score(r.Level)+r.Detail+r.Sanction, r.IntensityScore)
		assert.GreaterOrEqual(t, r.IntensityScore, 0)
		assert.LessOrEqual(t, r.IntensityScore, svc.Ranking().MaxIntensity())
	}

	assert.Equal(t, 2, enriched[0].LevelScore)
	assert.Equal(t, 4, enriched[0].IntensityScore)
	assert.Equal(t, 2014, enriched[0].Year)

	// Unknown level scores zero without failing.
	assert.Equal(t, 0, enriched[5].LevelScore)
	assert.Equal(t, 0, enriched[5].IntensityScore)
	assert.False(t, enriched[5].HasYear())
}

func TestMetricsService_Enrich_Idempotent(t *testing.T) {
	svc := NewMetricsService(nil)

	once := svc.Enrich(rawRecords())
	twice := svc.Enrich(once)

	assert.Equal(t, once, twice)
}

func TestMetricsService_Enrich_OverwritesStaleDerivedFields(t *testing.T) {
	svc := NewMetricsService(nil)
	stale := []domain.Record{{Sector: "Minol", Level: "UU", Regulasi: "UU 1", Presence: 0, Detail: 1,
		Sanction: 1, LevelScore: 9, IntensityScore: 99, Year: 1999}}

	got := svc.Enrich(stale)

	assert.Equal(t, 0, got[0].Sanction)
	assert.Equal(t, 4, got[0].LevelScore)
	assert.Equal(t, 5, got[0].IntensityScore)
	assert.Equal(t, 0, got[0].Year)
	// Input is not mutated.
	assert.Equal(t, 99, stale[0].IntensityScore)
}

func TestMetricsService_Enrich_Empty(t *testing.T) {
	svc := NewMetricsService(nil)

	assert.Empty(t, svc.Enrich(nil))
}

func TestMetricsService_SummarizeIntensity(t *testing.T) {
	svc := NewMetricsService(nil)

	summary := svc.SummarizeIntensity(svc.Enrich(rawRecords()))

	require.Len(t, summary, 5)
	// distribusi/Minol: (4 + 4) / 2
	assert.Equal(t, domain.IntensityCell{Domain: "distribusi", Sector: "Minol", Mean: 4, Count: 2}, summary[0])
	assert.Equal(t, domain.IntensityCell{Domain: "distribusi", Sector: "Tembakau", Mean: 0, Count: 1}, summary[1])
	assert.Equal(t, "iklan", summary[2].Domain)
	assert.Equal(t, "label", summary[3].Domain)
	assert.Equal(t, "Minol", summary[3].Sector)
	assert.Equal(t, 3.0, summary[3].Mean)

	// iklan/Minol has no rows, so it is absent rather than zero.
	for _, c := range summary {
		assert.False(t, c.Domain == "iklan" && c.Sector == "Minol")
	}
}

func TestMetricsService_SummarizeIntensity_FractionalMean(t *testing.T) {
	svc := NewMetricsService(nil)
	records := []domain.Record{
		{Domain: "label", Sector: "Minol", IntensityScore: 3},
		{Domain: "label", Sector: "Minol", IntensityScore: 4},
	}

	summary := svc.SummarizeIntensity(records)

	require.Len(t, summary, 1)
	assert.InDelta(t, 3.5, summary[0].Mean, 1e-9)
}

func TestMetricsService_IntensityGrid_FillsMissingWithZero(t *testing.T) {
	svc := NewMetricsService(nil)
	summary := svc.SummarizeIntensity(svc.Enrich(rawRecords()))

	grid := svc.IntensityGrid(summary)

	assert.Equal(t, []string{"distribusi", "iklan", "label"}, grid.Domains)
	assert.Equal(t, []string{"Minol", "Tembakau"}, grid.Sectors)
	require.Len(t, grid.Values, 3)
	assert.Equal(t, []float64{4, 0}, grid.Values[0])
	assert.Equal(t, []float64{0, 5}, grid.Values[1])
	assert.Equal(t, []float64{3, 5}, grid.Values[2])
}

func TestMetricsService_IntensityGrid_Empty(t *testing.T) {
	svc := NewMetricsService(nil)

	grid := svc.IntensityGrid(nil)

	assert.True(t, grid.Empty())
	assert.Empty(t, grid.Values)
}

func TestMetricsService_ExclusiveDomains_Asymmetric(t *testing.T) {
	svc := NewMetricsService(nil)
	records := []domain.Record{
		{Domain: "D", Sector: "A", Presence: 1},
		{Domain: "D", Sector: "A", Presence: 1},
		{Domain: "D", Sector: "A", Presence: 1},
		{Domain: "D", Sector: "B", Presence: 0},
	}

	assert.Equal(t, []string{"D"}, svc.ExclusiveDomains(records, "A", "B"))
	assert.Empty(t, svc.ExclusiveDomains(records, "B", "A"))
}

func TestMetricsService_ExclusiveDomains_ReverseDirection(t *testing.T) {
	svc := NewMetricsService(nil)
	records := []domain.Record{
		{Domain: "D", Sector: "A", Presence: 0},
		{Domain: "D", Sector: "B", Presence: 3},
	}

	assert.Empty(t, svc.ExclusiveDomains(records, "A", "B"))
	assert.Equal(t, []string{"D"}, svc.ExclusiveDomains(records, "B", "A"))
}

func TestMetricsService_ExclusiveDomains_AbsentSectorCountsAsZero(t *testing.T) {
	svc := NewMetricsService(nil)
	enriched := svc.Enrich(rawRecords())

	// Minol has no "iklan" rows at all, which counts as zero presence.
	assert.Equal(t, []string{"distribusi"}, svc.ExclusiveDomains(enriched, "Minol", "Tembakau"))
	assert.Equal(t, []string{"iklan"}, svc.ExclusiveDomains(enriched, "Tembakau", "Minol"))
}

func TestMetricsService_ExclusiveDomains_Empty(t *testing.T) {
	svc := NewMetricsService(nil)

	assert.Empty(t, svc.ExclusiveDomains(nil, "Minol", "Tembakau"))
}

func TestMetricsService_ExclusiveGapRows_Ordering(t *testing.T) {
	svc := NewMetricsService(nil)
	records := []domain.Record{
		{Sector: "Minol", Domain: "label", Level: "Permen", Regulasi: "a", Presence: 1},
		{Sector: "Minol", Domain: "distribusi", Level: "Permen", Regulasi: "b", Presence: 1},
		{Sector: "Minol", Domain: "distribusi", Level: "UU", Regulasi: "c", Presence: 1},
		{Sector: "Minol", Domain: "distribusi", Level: "Perda", Regulasi: "d", Presence: 1},
		{Sector: "Minol", Domain: "distribusi", Level: "PP", Regulasi: "e", Presence: 0},
		{Sector: "Tembakau", Domain: "distribusi", Level: "UUD", Regulasi: "f", Presence: 1},
		{Sector: "Minol", Domain: "iklan", Level: "UUD", Regulasi: "g", Presence: 1},
	}

	rows := svc.ExclusiveGapRows(records, []string{"distribusi", "label"}, "Minol")

	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.Regulasi
	}
	// Statute precedes ministerial within a domain; unknown level sorts last;
	// absent rows, other sectors and other domains are excluded.
	assert.Equal(t, []string{"c", "b", "d", "a"}, got)
}

func TestMetricsService_ExclusiveGapRows_StableForTies(t *testing.T) {
	svc := NewMetricsService(nil)
	records := []domain.Record{
		{Sector: "Minol", Domain: "label", Level: "Permen", Regulasi: "first", Presence: 1},
		{Sector: "Minol", Domain: "label", Level: "Permen", Regulasi: "second", Presence: 1},
	}

	rows := svc.ExclusiveGapRows(records, []string{"label"}, "Minol")

	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].Regulasi)
	assert.Equal(t, "second", rows[1].Regulasi)
}

func TestMetricsService_ExclusiveGapRows_NoDomains(t *testing.T) {
	svc := NewMetricsService(nil)

	assert.Empty(t, svc.ExclusiveGapRows(svc.Enrich(rawRecords()), nil, "Minol"))
}

func TestMetricsService_YearlyTrend(t *testing.T) {
	svc := NewMetricsService(nil)
	records := svc.Enrich([]domain.Record{
		{Sector: "Minol", Regulasi: "Permen 2014"},
		{Sector: "Minol", Regulasi: "Perpres 2014"},
		{Sector: "Tembakau", Regulasi: "PP 2012"},
		{Sector: "Minol", Regulasi: "Permen 2"},
		{Sector: "Tembakau", Regulasi: "UU 2009"},
	})

	trend := svc.YearlyTrend(records)

	assert.Equal(t, []domain.TrendPoint{
		{Year: 2009, Sector: "Tembakau", Count: 1},
		{Year: 2012, Sector: "Tembakau", Count: 1},
		{Year: 2014, Sector: "Minol", Count: 2},
	}, trend)
}

func TestMetricsService_YearlyTrend_NoYears(t *testing.T) {
	svc := NewMetricsService(nil)
	records := svc.Enrich([]domain.Record{{Sector: "Minol", Regulasi: "Permen 2"}})

	assert.Empty(t, svc.YearlyTrend(records))
}

func TestMetricsService_ForecastLinear(t *testing.T) {
	svc := NewMetricsService(nil)
	trend := []domain.TrendPoint{
		{Year: 2010, Sector: "Minol", Count: 1},
		{Year: 2012, Sector: "Minol", Count: 3},
		{Year: 2014, Sector: "Minol", Count: 3},
	}

	forecasts := svc.ForecastLinear(trend, domain.ForecastOptions{Horizon: 2, Step: 2})

	require.Len(t, forecasts, 1)
	f := forecasts[0]
	assert.Equal(t, "Minol", f.Sector)
	assert.InDelta(t, 1.0, f.Growth, 1e-9)
	assert.Equal(t, 2014, f.LastYear)
	assert.Equal(t, 3, f.LastCount)
	assert.Equal(t, []domain.ForecastPoint{{Year: 2016, Value: 4}, {Year: 2018, Value: 5}}, f.Points)
}

func TestMetricsService_ForecastLinear_SharedHorizon(t *testing.T) {
	svc := NewMetricsService(nil)
	trend := []domain.TrendPoint{
		{Year: 2010, Sector: "Minol", Count: 1},
		{Year: 2012, Sector: "Minol", Count: 3},
		{Year: 2014, Sector: "Minol", Count: 3},
		{Year: 2017, Sector: "Tembakau", Count: 2},
	}

	forecasts := svc.ForecastLinear(trend, domain.ForecastOptions{})

	require.Len(t, forecasts, 2)
	// Minol projects from its own last count but past the dataset-wide max year.
	assert.Equal(t, []domain.ForecastPoint{{Year: 2019, Value: 4}, {Year: 2021, Value: 5}}, forecasts[0].Points)
	// A single-point series has zero growth.
	assert.Equal(t, "Tembakau", forecasts[1].Sector)
	assert.Equal(t, 0.0, forecasts[1].Growth)
	assert.Equal(t, []domain.ForecastPoint{{Year: 2019, Value: 2}, {Year: 2021, Value: 2}}, forecasts[1].Points)
}

func TestMetricsService_ForecastLinear_FractionalAndUnsorted(t *testing.T) {
	svc := NewMetricsService(nil)
	trend := []domain.TrendPoint{
		{Year: 2015, Sector: "Minol", Count: 2},
		{Year: 2011, Sector: "Minol", Count: 1},
		{Year: 2013, Sector: "Minol", Count: 1},
	}

	forecasts := svc.ForecastLinear(trend, domain.ForecastOptions{Horizon: 3, Step: 1})

	require.Len(t, forecasts, 1)
	assert.InDelta(t, 0.5, forecasts[0].Growth, 1e-9)
	require.Len(t, forecasts[0].Points, 3)
	assert.Equal(t, 2016, forecasts[0].Points[0].Year)
	assert.InDelta(t, 2.5, forecasts[0].Points[0].Value, 1e-9)
	assert.Equal(t, 2018, forecasts[0].Points[2].Year)
	assert.InDelta(t, 3.5, forecasts[0].Points[2].Value, 1e-9)
}

func TestMetricsService_ForecastLinear_Empty(t *testing.T) {
	svc := NewMetricsService(nil)

	forecasts := svc.ForecastLinear(nil, domain.ForecastOptions{Horizon: 2, Step: 2})

	assert.NotNil(t, forecasts)
	assert.Empty(t, forecasts)
}

func TestMetricsService_BuildDashboard(t *testing.T) {
	svc := NewMetricsService(nil)
	records := svc.Enrich(rawRecords())
	opts := domain.DashboardOptions{PrimarySector: "Minol", SecondarySector: "Tembakau"}

	dash := svc.BuildDashboard(records, domain.Filter{}, opts)

	require.NotNil(t, dash)
	assert.Len(t, dash.Records, 6)
	assert.Len(t, dash.Summary, 5)
	assert.Equal(t, []string{"distribusi"}, dash.ExclusiveDomains)
	require.Len(t, dash.GapRows, 2)
	assert.Equal(t, "Perpres", dash.GapRows[0].Level)
	assert.Equal(t, "Permen", dash.GapRows[1].Level)
	assert.NotEmpty(t, dash.Trend)
	assert.Len(t, dash.Forecasts, 2)
	assert.Equal(t, domain.ForecastOptions{Horizon: 2, Step: 2}, dash.Options.Forecast)
}

func TestMetricsService_BuildDashboard_FilterRestrictsEveryView(t *testing.T) {
	svc := NewMetricsService(nil)
	records := svc.Enrich(rawRecords())
	opts := domain.DashboardOptions{PrimarySector: "Minol", SecondarySector: "Tembakau"}

	dash := svc.BuildDashboard(records, domain.Filter{Domains: []string{"label"}}, opts)

	assert.Len(t, dash.Records, 2)
	assert.Equal(t, []string{"label"}, dash.Grid.Domains)
	assert.Empty(t, dash.ExclusiveDomains)
	assert.Empty(t, dash.GapRows)
}

func TestMetricsService_BuildDashboard_EmptySelection(t *testing.T) {
	svc := NewMetricsService(nil)
	records := svc.Enrich(rawRecords())
	opts := domain.DashboardOptions{PrimarySector: "Minol", SecondarySector: "Tembakau"}

	dash := svc.BuildDashboard(records, domain.Filter{Sectors: []string{"Minol"}, Domains: []string{"iklan"}}, opts)

	assert.True(t, dash.Empty())
	assert.Empty(t, dash.Summary)
	assert.True(t, dash.Grid.Empty())
	assert.Empty(t, dash.ExclusiveDomains)
	assert.Empty(t, dash.GapRows)
	assert.Empty(t, dash.Trend)
	assert.Empty(t, dash.Forecasts)
}
