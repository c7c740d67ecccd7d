package domain

const unknownDescription = "Unknown"

// StorageBackend selects where loaded tables are kept.
type StorageBackend string

// Available storage backends.
const (
	// StorageMemory keeps only the current table for the session.
	StorageMemory StorageBackend = "memory"

	// StorageSQLite persists every load as a snapshot on disk.
	StorageSQLite StorageBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageMemory, StorageSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageMemory:
		return "Memory (current session only)"
	case StorageSQLite:
		return "SQLite (snapshot history on disk)"
	default:
		return unknownDescription
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageMemory, StorageSQLite}
}

// SourceSettings describes the input table.
type SourceSettings struct {
	// Path is the CSV file to load.
	Path string

	// Delimiter is the field separator.
	Delimiter rune
}

// SectorSettings names the two sectors compared by the gap analysis.
type SectorSettings struct {
	// Primary is the sector whose exclusive domains are reported.
	Primary string

	// Secondary is the sector compared against.
	Secondary string
}

// StorageSettings holds table storage configuration.
type StorageSettings struct {
	// Backend selects memory or sqlite.
	Backend StorageBackend

	// Dir is the sqlite data directory. Empty means ~/.regdash/data.
	Dir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Source   SourceSettings
	Sectors  SectorSettings
	Forecast ForecastOptions
	Storage  StorageSettings

	// Ranking holds level-rank overrides merged over DefaultRanking.
	Ranking map[string]int

	// Watch reloads the dashboard when the source file changes.
	Watch bool

	// ChartDir is where PNG charts are written.
	ChartDir string
}

// EffectiveRanking returns the default ranking with overrides applied.
func (s *AppSettings) EffectiveRanking() Ranking {
	return DefaultRanking().Merge(s.Ranking)
}

// DashboardOptions returns the options BuildDashboard needs.
func (s *AppSettings) DashboardOptions() DashboardOptions {
	return DashboardOptions{
		PrimarySector:   s.Sectors.Primary,
		SecondarySector: s.Sectors.Secondary,
		Forecast:        s.Forecast.Normalised(),
	}
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Source: SourceSettings{
			Path:      "regulasi.csv",
			Delimiter: ',',
		},
		Sectors: SectorSettings{
			Primary:   "Minol",
			Secondary: "Tembakau",
		},
		Forecast: ForecastOptions{
			Horizon: DefaultForecastHorizon,
			Step:    DefaultForecastStep,
		},
		Storage: StorageSettings{
			Backend: StorageMemory,
		},
		Ranking:  map[string]int{},
		Watch:    false,
		ChartDir: "charts",
	}
}
