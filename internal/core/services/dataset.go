package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driven"
	"github.com/custodia-labs/regdash/internal/core/ports/driving"
	"github.com/custodia-labs/regdash/internal/logger"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// DatasetService loads the regulation table and serves filtered views of it.
type DatasetService struct {
	loader   driven.RecordLoader
	store    driven.RecordStore
	settings driving.SettingsService
	now      func() time.Time

	mu       sync.Mutex
	lastPath string
}

// NewDatasetService creates a new dataset service.
// A nil settings service uses domain.DefaultAppSettings.
func NewDatasetService(
	loader driven.RecordLoader,
	store driven.RecordStore,
	settings driving.SettingsService,
) *DatasetService {
	return &DatasetService{
		loader:   loader,
		store:    store,
		settings: settings,
		now:      time.Now,
	}
}

// Load reads, enriches and stores the table at path.
func (s *DatasetService) Load(ctx context.Context, path string) (*domain.SnapshotInfo, error) {
	if s.loader == nil || s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	defer logger.Timed("load")()

	cfg := s.appSettings()
	if path == "" {
		path = cfg.Source.Path
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no source path", domain.ErrInvalidInput)
	}

	raw, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	snapshot := domain.Snapshot{
		ID:       uuid.New().String(),
		Source:   path,
		LoadedAt: s.now(),
		Records:  NewMetricsService(cfg.EffectiveRanking()).Enrich(raw),
	}
	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}

	s.mu.Lock()
	s.lastPath = path
	s.mu.Unlock()

	logger.Info("loaded %d records from %s as snapshot %s", len(snapshot.Records), path, snapshot.ID)
	info := snapshot.Info()
	return &info, nil
}

// Reload reads the last loaded path again. Before any load in this process
// it falls back to the current snapshot's source, then the configured path.
func (s *DatasetService) Reload(ctx context.Context) (*domain.SnapshotInfo, error) {
	s.mu.Lock()
	path := s.lastPath
	s.mu.Unlock()

	if path == "" && s.store != nil {
		if current, err := s.store.Current(ctx); err == nil {
			path = current.Source
		}
	}
	return s.Load(ctx, path)
}

// Records returns the current enriched table.
func (s *DatasetService) Records(ctx context.Context) ([]domain.Record, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Records, nil
}

// Options returns the sorted distinct sectors and domains of the current table.
func (s *DatasetService) Options(ctx context.Context) (*domain.FilterOptions, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	sectors := make(map[string]struct{})
	domains := make(map[string]struct{})
	for i := range records {
		sectors[records[i].Sector] = struct{}{}
		domains[records[i].Domain] = struct{}{}
	}

	return &domain.FilterOptions{
		Sectors: sortedKeys(sectors),
		Domains: sortedKeys(domains),
	}, nil
}

// Dashboard computes every view over the current table narrowed by filter.
func (s *DatasetService) Dashboard(ctx context.Context, filter domain.Filter) (*domain.Dashboard, error) {
	return s.Analyze(ctx, filter, domain.DashboardOptions{})
}

// Analyze is Dashboard with explicit options. Empty sector names and
// non-positive forecast values fall back to the configured ones.
func (s *DatasetService) Analyze(
	ctx context.Context,
	filter domain.Filter,
	opts domain.DashboardOptions,
) (*domain.Dashboard, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	cfg := s.appSettings()
	configured := cfg.DashboardOptions()
	if opts.PrimarySector == "" {
		opts.PrimarySector = configured.PrimarySector
	}
	if opts.SecondarySector == "" {
		opts.SecondarySector = configured.SecondarySector
	}
	if opts.Forecast.Horizon <= 0 {
		opts.Forecast.Horizon = configured.Forecast.Horizon
	}
	if opts.Forecast.Step <= 0 {
		opts.Forecast.Step = configured.Forecast.Step
	}

	metrics := NewMetricsService(cfg.EffectiveRanking())
	return metrics.BuildDashboard(records, filter, opts), nil
}

// Snapshots lists stored tables, newest first.
func (s *DatasetService) Snapshots(ctx context.Context) ([]domain.SnapshotInfo, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

func (s *DatasetService) current(ctx context.Context) (*domain.Snapshot, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	snapshot, err := s.store.Current(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoDataset
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *DatasetService) appSettings() *domain.AppSettings {
	if s.settings != nil {
		if cfg, err := s.settings.Get(); err == nil && cfg != nil {
			return cfg
		}
		logger.Warn("settings unavailable, using defaults")
	}
	defaults := domain.DefaultAppSettings()
	return &defaults
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
