package domain

import (
	"slices"
	"time"
)

// Filter is the sector/domain selection applied before any aggregate is computed.
//
// A nil slice selects every value (the default). A non-nil empty slice
// selects nothing, so every view comes back empty.
type Filter struct {
	Sectors []string `json:"sectors,omitempty"`
	Domains []string `json:"domains,omitempty"`
}

// Matches reports whether a record passes both selections.
func (f Filter) Matches(r Record) bool {
	if f.Sectors != nil && !slices.Contains(f.Sectors, r.Sector) {
		return false
	}
	if f.Domains != nil && !slices.Contains(f.Domains, r.Domain) {
		return false
	}
	return true
}

// Apply returns the records that pass the filter, preserving order.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for i := range records {
		if f.Matches(records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// IsAll reports whether the filter selects every record.
func (f Filter) IsAll() bool {
	return f.Sectors == nil && f.Domains == nil
}

// Equal reports whether both filters make the same selection.
// A nil selection differs from an empty one.
func (f Filter) Equal(other Filter) bool {
	return sameSelection(f.Sectors, other.Sectors) && sameSelection(f.Domains, other.Domains)
}

func sameSelection(a, b []string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return slices.Equal(a, b)
}

// FilterOptions lists the distinct values a filter can select.
type FilterOptions struct {
	Sectors []string `json:"sectors"`
	Domains []string `json:"domains"`
}

// IntensityCell is the mean intensity of one (domain, sector) group.
type IntensityCell struct {
	Domain string  `json:"domain"`
	Sector string  `json:"sector"`
	Mean   float64 `json:"mean_intensity"`
	Count  int     `json:"count"`
}

// IntensityGrid is the domain × sector pivot of the intensity summary.
// Values[i][j] belongs to Domains[i] and Sectors[j]; missing pairs hold 0.
type IntensityGrid struct {
	Domains []string    `json:"domains"`
	Sectors []string    `json:"sectors"`
	Values  [][]float64 `json:"values"`
}

// Empty reports whether the grid has no cells.
func (g IntensityGrid) Empty() bool {
	return len(g.Domains) == 0 || len(g.Sectors) == 0
}

// TrendPoint counts the records of one sector enacted in one year.
type TrendPoint struct {
	Year   int    `json:"year"`
	Sector string `json:"sector"`
	Count  int    `json:"count"`
}

// ForecastPoint is one projected value.
type ForecastPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// SectorForecast is the linear projection for one sector.
// Values are illustrative and carry no error bound.
type SectorForecast struct {
	Sector string `json:"sector"`

	// Growth is the mean first difference of the sector's yearly counts.
	Growth float64 `json:"growth"`

	// LastYear and LastCount are the final observed point of the sector.
	LastYear  int `json:"last_year"`
	LastCount int `json:"last_count"`

	Points []ForecastPoint `json:"points"`
}

// Forecast defaults.
const (
	DefaultForecastHorizon = 2
	DefaultForecastStep    = 2
)

// ForecastOptions controls the linear projection.
type ForecastOptions struct {
	// Horizon is the number of projected points per sector.
	Horizon int `json:"horizon"`

	// Step is the number of years between projected points.
	Step int `json:"step"`
}

// Normalised returns options with non-positive values replaced by defaults.
func (o ForecastOptions) Normalised() ForecastOptions {
	if o.Horizon <= 0 {
		o.Horizon = DefaultForecastHorizon
	}
	if o.Step <= 0 {
		o.Step = DefaultForecastStep
	}
	return o
}

// DashboardOptions configures BuildDashboard.
type DashboardOptions struct {
	// PrimarySector is the sector whose exclusive domains are reported.
	PrimarySector string `json:"primary_sector"`

	// SecondarySector is the sector compared against.
	SecondarySector string `json:"secondary_sector"`

	Forecast ForecastOptions `json:"forecast"`
}

// Dashboard holds every view computed from one filtered table.
type Dashboard struct {
	Filter  Filter           `json:"filter"`
	Options DashboardOptions `json:"options"`

	// Records is the filtered, enriched table.
	Records []Record `json:"records"`

	Summary []IntensityCell `json:"summary"`
	Grid    IntensityGrid   `json:"grid"`

	ExclusiveDomains []string `json:"exclusive_domains"`
	GapRows          []Record `json:"gap_rows"`

	Trend     []TrendPoint     `json:"trend"`
	Forecasts []SectorForecast `json:"forecasts"`
}

// Empty reports whether the filtered table has no rows.
func (d *Dashboard) Empty() bool {
	return d == nil || len(d.Records) == 0
}

// Snapshot is one loaded and enriched table.
type Snapshot struct {
	// ID uniquely identifies the load.
	ID string `json:"id"`

	// Source is the path the table was read from.
	Source string `json:"source"`

	// LoadedAt is when the table was read.
	LoadedAt time.Time `json:"loaded_at"`

	Records []Record `json:"records,omitempty"`
}

// SnapshotInfo describes a snapshot without its rows.
type SnapshotInfo struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	LoadedAt    time.Time `json:"loaded_at"`
	RecordCount int       `json:"record_count"`
}

// Info returns the row-less description of the snapshot.
func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		ID:          s.ID,
		Source:      s.Source,
		LoadedAt:    s.LoadedAt,
		RecordCount: len(s.Records),
	}
}
