package mcp

import (
	"context"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driving"
	"github.com/custodia-labs/regdash/internal/core/services"
)

// mockDatasetService is a mock implementation of driving.DatasetService
// that computes dashboards with the real metrics engine.
type mockDatasetService struct {
	records []domain.Record
	err     error

	lastFilter domain.Filter
	lastOpts   domain.DashboardOptions
	reloads    int
}

var _ driving.DatasetService = (*mockDatasetService)(nil)

func newMockDataset() *mockDatasetService {
	metrics := services.NewMetricsService(domain.DefaultRanking())
	return &mockDatasetService{records: metrics.Enrich(testRecords())}
}

func testRecords() []domain.Record {
	return []domain.Record{
		{Sector: "Minol", Domain: "distribusi", Regulasi: "PP 20 Tahun 2019", Level: "PP", Presence: 1, Detail: 1},
		{Sector: "Minol", Domain: "label", Regulasi: "Permendag 2021", Level: "Permen", Presence: 1, Detail: 0},
		{Sector: "Minol", Domain: "iklan", Regulasi: "Perban 2021", Level: "Perban", Presence: 1, Detail: 1},
		{Sector: "Tembakau", Domain: "distribusi", Regulasi: "PP 109 Tahun 2012", Level: "PP", Presence: 1, Detail: 1},
		{Sector: "Tembakau", Domain: "iklan", Regulasi: "UU 2009", Level: "UU", Presence: 0, Detail: 0},
	}
}

func (m *mockDatasetService) Load(_ context.Context, path string) (*domain.SnapshotInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SnapshotInfo{ID: "snap-1", Source: path, RecordCount: len(m.records)}, nil
}

func (m *mockDatasetService) Reload(_ context.Context) (*domain.SnapshotInfo, error) {
	m.reloads++
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SnapshotInfo{ID: "snap-2", Source: "data.csv", RecordCount: len(m.records)}, nil
}

func (m *mockDatasetService) Records(_ context.Context) ([]domain.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Record{}, m.records...), nil
}

func (m *mockDatasetService) Options(_ context.Context) (*domain.FilterOptions, error) {
	return &domain.FilterOptions{}, m.err
}

func (m *mockDatasetService) Dashboard(ctx context.Context, filter domain.Filter) (*domain.Dashboard, error) {
	return m.Analyze(ctx, filter, domain.DashboardOptions{})
}

func (m *mockDatasetService) Analyze(
	_ context.Context, filter domain.Filter, opts domain.DashboardOptions,
) (*domain.Dashboard, error) {
	m.lastFilter = filter
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if opts.PrimarySector == "" {
		opts.PrimarySector = "Minol"
	}
	if opts.SecondarySector == "" {
		opts.SecondarySector = "Tembakau"
	}
	metrics := services.NewMetricsService(domain.DefaultRanking())
	return metrics.BuildDashboard(m.records, filter, opts), nil
}

func (m *mockDatasetService) Snapshots(_ context.Context) ([]domain.SnapshotInfo, error) {
	return nil, m.err
}
