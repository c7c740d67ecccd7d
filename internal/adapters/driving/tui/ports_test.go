package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driving"
)

// MockDatasetService implements driving.DatasetService for testing.
type MockDatasetService struct {
	LoadFunc      func(ctx context.Context, path string) (*domain.SnapshotInfo, error)
	ReloadFunc    func(ctx context.Context) (*domain.SnapshotInfo, error)
	OptionsFunc   func(ctx context.Context) (*domain.FilterOptions, error)
	DashboardFunc func(ctx context.Context, filter domain.Filter) (*domain.Dashboard, error)

	LoadedPaths []string
	Filters     []domain.Filter
	Reloads     int
}

func (m *MockDatasetService) Load(ctx context.Context, path string) (*domain.SnapshotInfo, error) {
	m.LoadedPaths = append(m.LoadedPaths, path)
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, path)
	}
	return &domain.SnapshotInfo{ID: "snap-1", Source: "data.csv", RecordCount: 3}, nil
}

func (m *MockDatasetService) Reload(ctx context.Context) (*domain.SnapshotInfo, error) {
	m.Reloads++
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return &domain.SnapshotInfo{ID: "snap-2", Source: "data.csv", RecordCount: 3}, nil
}

func (m *MockDatasetService) Records(_ context.Context) ([]domain.Record, error) {
	return nil, nil
}

func (m *MockDatasetService) Options(ctx context.Context) (*domain.FilterOptions, error) {
	if m.OptionsFunc != nil {
		return m.OptionsFunc(ctx)
	}
	return &domain.FilterOptions{
		Sectors: []string{"Minol", "Tembakau"},
		Domains: []string{"distribusi", "label"},
	}, nil
}

func (m *MockDatasetService) Dashboard(ctx context.Context, filter domain.Filter) (*domain.Dashboard, error) {
	m.Filters = append(m.Filters, filter)
	if m.DashboardFunc != nil {
		return m.DashboardFunc(ctx, filter)
	}
	return &domain.Dashboard{
		Filter:  filter,
		Records: []domain.Record{{Sector: "Minol", Domain: "distribusi", Regulasi: "PP 20/2021"}},
	}, nil
}

func (m *MockDatasetService) Analyze(
	ctx context.Context, filter domain.Filter, _ domain.DashboardOptions,
) (*domain.Dashboard, error) {
	return m.Dashboard(ctx, filter)
}

func (m *MockDatasetService) Snapshots(_ context.Context) ([]domain.SnapshotInfo, error) {
	return nil, nil
}

// MockExportService implements driving.ExportService for testing.
type MockExportService struct {
	ChartsFunc   func(ctx context.Context, filter domain.Filter, dir string) ([]string, error)
	WorkbookFunc func(ctx context.Context, filter domain.Filter, path string) error
}

func (m *MockExportService) Charts(ctx context.Context, filter domain.Filter, dir string) ([]string, error) {
	if m.ChartsFunc != nil {
		return m.ChartsFunc(ctx, filter, dir)
	}
	return []string{"charts/intensity.png", "charts/trend.png"}, nil
}

func (m *MockExportService) Workbook(ctx context.Context, filter domain.Filter, path string) error {
	if m.WorkbookFunc != nil {
		return m.WorkbookFunc(ctx, filter, path)
	}
	return nil
}

var (
	_ driving.DatasetService = (*MockDatasetService)(nil)
	_ driving.ExportService  = (*MockExportService)(nil)
)

func TestNewPorts(t *testing.T) {
	dataset := &MockDatasetService{}
	export := &MockExportService{}

	ports := NewPorts(dataset, nil, export)

	require.NotNil(t, ports)
	assert.Equal(t, dataset, ports.Dataset)
	assert.Nil(t, ports.Settings)
	assert.Equal(t, export, ports.Export)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name     string
		ports    *Ports
		expected error
	}{
		{"all set", &Ports{Dataset: &MockDatasetService{}, Export: &MockExportService{}}, nil},
		{"dataset only", &Ports{Dataset: &MockDatasetService{}}, nil},
		{"missing dataset", &Ports{Export: &MockExportService{}}, ErrMissingDatasetService},
		{"nil ports", nil, ErrInvalidPorts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.ports.Validate(), tt.expected)
		})
	}
}
