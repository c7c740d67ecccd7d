package services

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driven"
	"github.com/custodia-labs/regdash/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySourcePath       = "source.path"
	keySourceDelimiter  = "source.delimiter"
	keySectorPrimary    = "sectors.primary"
	keySectorSecondary  = "sectors.secondary"
	keyForecastHorizon  = "forecast.horizon"
	keyForecastStep     = "forecast.step"
	keyStorageBackend   = "storage.backend"
	keyStorageDir       = "storage.dir"
	keyWatchEnabled     = "watch.enabled"
	keyChartDir         = "charts.dir"
	keyRankingPrefix    = "ranking"
	rankingKeySeparator = "."
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Source: domain.SourceSettings{
			Path:      s.getString(keySourcePath, defaults.Source.Path),
			Delimiter: s.getDelimiter(defaults.Source.Delimiter),
		},
		Sectors: domain.SectorSettings{
			Primary:   s.getString(keySectorPrimary, defaults.Sectors.Primary),
			Secondary: s.getString(keySectorSecondary, defaults.Sectors.Secondary),
		},
		Forecast: domain.ForecastOptions{
			Horizon: s.getPositiveInt(keyForecastHorizon, defaults.Forecast.Horizon),
			Step:    s.getPositiveInt(keyForecastStep, defaults.Forecast.Step),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			Dir:     s.configStore.GetString(keyStorageDir), // Empty means the default data dir
		},
		Ranking:  s.getRanking(),
		Watch:    s.getBool(keyWatchEnabled, defaults.Watch),
		ChartDir: s.getString(keyChartDir, defaults.ChartDir),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keySourcePath, settings.Source.Path); err != nil {
		return fmt.Errorf("save source path: %w", err)
	}
	if err := s.configStore.Set(keySourceDelimiter, string(settings.Source.Delimiter)); err != nil {
		return fmt.Errorf("save source delimiter: %w", err)
	}

	if err := s.configStore.Set(keySectorPrimary, settings.Sectors.Primary); err != nil {
		return fmt.Errorf("save primary sector: %w", err)
	}
	if err := s.configStore.Set(keySectorSecondary, settings.Sectors.Secondary); err != nil {
		return fmt.Errorf("save secondary sector: %w", err)
	}

	if err := s.configStore.Set(keyForecastHorizon, settings.Forecast.Horizon); err != nil {
		return fmt.Errorf("save forecast horizon: %w", err)
	}
	if err := s.configStore.Set(keyForecastStep, settings.Forecast.Step); err != nil {
		return fmt.Errorf("save forecast step: %w", err)
	}

	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if settings.Storage.Dir != "" {
		if err := s.configStore.Set(keyStorageDir, settings.Storage.Dir); err != nil {
			return fmt.Errorf("save storage dir: %w", err)
		}
	}

	if err := s.configStore.Set(keyWatchEnabled, settings.Watch); err != nil {
		return fmt.Errorf("save watch: %w", err)
	}
	if err := s.configStore.Set(keyChartDir, settings.ChartDir); err != nil {
		return fmt.Errorf("save chart dir: %w", err)
	}

	for level, rank := range settings.Ranking {
		if err := s.configStore.Set(keyRankingPrefix+rankingKeySeparator+level, rank); err != nil {
			return fmt.Errorf("save ranking %s: %w", level, err)
		}
	}

	return nil
}

// Set parses value for key and stores it.
// Unknown keys and unparseable values return domain.ErrInvalidInput.
func (s *SettingsService) Set(key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	if level, ok := strings.CutPrefix(key, keyRankingPrefix+rankingKeySeparator); ok {
		if level == "" {
			return fmt.Errorf("%w: ranking key needs a level name", domain.ErrInvalidInput)
		}
		rank, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		return s.configStore.Set(key, rank)
	}

	switch key {
	case keySourcePath, keyStorageDir, keyChartDir:
		if value == "" && key != keyStorageDir {
			return fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, value)

	case keySectorPrimary, keySectorSecondary:
		if value == "" {
			return fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, value)

	case keySourceDelimiter:
		if _, err := parseDelimiter(value); err != nil {
			return err
		}
		return s.configStore.Set(key, value)

	case keyForecastHorizon, keyForecastStep:
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		return s.configStore.Set(key, n)

	case keyStorageBackend:
		backend := domain.StorageBackend(strings.ToLower(value))
		if !backend.IsValid() {
			return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, value)
		}
		return s.configStore.Set(key, backend.String())

	case keyWatchEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, b)

	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Sectors.Primary == settings.Sectors.Secondary {
		return fmt.Errorf("%w: primary and secondary sector are both %q",
			domain.ErrInvalidInput, settings.Sectors.Primary)
	}

	if raw := s.configStore.GetString(keySourceDelimiter); raw != "" {
		if _, err := parseDelimiter(raw); err != nil {
			return err
		}
	}

	if raw := s.configStore.GetString(keyStorageBackend); raw != "" {
		if !domain.StorageBackend(raw).IsValid() {
			return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, raw)
		}
	}

	for level, rank := range s.configStore.GetIntMap(keyRankingPrefix) {
		if rank <= 0 {
			return fmt.Errorf("%w: ranking for %s must be positive", domain.ErrInvalidInput, level)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getDelimiter(defaultVal rune) rune {
	val := s.configStore.GetString(keySourceDelimiter)
	if val == "" {
		return defaultVal
	}
	r, err := parseDelimiter(val)
	if err != nil {
		return defaultVal
	}
	return r
}

func (s *SettingsService) getRanking() map[string]int {
	ranking := make(map[string]int)
	for level, rank := range s.configStore.GetIntMap(keyRankingPrefix) {
		if rank > 0 {
			ranking[level] = rank
		}
	}
	return ranking
}

// parseDelimiter accepts a single character, or "tab" / "\t" for tab.
func parseDelimiter(value string) (rune, error) {
	switch value {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("%w: delimiter must be a single character, got %q", domain.ErrInvalidInput, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: %q cannot be used as a delimiter", domain.ErrInvalidInput, value)
	}
	return r, nil
}

func parsePositiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidInput, key, value)
	}
	return n, nil
}
