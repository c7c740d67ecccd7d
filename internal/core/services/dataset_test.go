package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdash/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/regdash/internal/core/domain"
)

// --- Mock implementations ---

// mockRecordLoader implements driven.RecordLoader for testing.
type mockRecordLoader struct {
	records map[string][]domain.Record
	err     error
	calls   []string
}

func (m *mockRecordLoader) Load(_ context.Context, location string) ([]domain.Record, error) {
	m.calls = append(m.calls, location)
	if m.err != nil {
		return nil, m.err
	}
	return m.records[location], nil
}

// mockRecordStore implements driven.RecordStore for testing.
type mockRecordStore struct {
	saveErr    error
	currentErr error
}

func (m *mockRecordStore) Save(_ context.Context, _ domain.Snapshot) error {
	return m.saveErr
}

func (m *mockRecordStore) Current(_ context.Context) (*domain.Snapshot, error) {
	return nil, m.currentErr
}

func (m *mockRecordStore) List(_ context.Context) ([]domain.SnapshotInfo, error) {
	return nil, nil
}

func rawTable() []domain.Record {
	return []domain.Record{
		{Sector: "Minol", Domain: "label", Regulasi: "PP No. 3 Tahun 2015", Level: "PP", Presence: 1, Detail: 1},
		{Sector: "Minol", Domain: "distribusi", Regulasi: "UU 11/1995", Level: "UU", Presence: 1, Detail: 0},
		{Sector: "Tembakau", Domain: "label", Regulasi: "Permen 2", Level: "Permen", Presence: 0, Detail: 0},
		{Sector: "Tembakau", Domain: "iklan", Regulasi: "Perda 2012", Level: "Perda", Presence: 1, Detail: 1},
	}
}

func newTestDatasetService(loader *mockRecordLoader) (*DatasetService, *memory.ConfigStore) {
	config := memory.NewConfigStore()
	svc := NewDatasetService(loader, memory.NewRecordStore(), NewSettingsService(config))
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, config
}

func TestDatasetService_NotLoaded(t *testing.T) {
	svc, _ := newTestDatasetService(&mockRecordLoader{})
	ctx := context.Background()

	_, err := svc.Records(ctx)
	assert.ErrorIs(t, err, domain.ErrNoDataset)

	_, err = svc.Options(ctx)
	assert.ErrorIs(t, err, domain.ErrNoDataset)

	_, err = svc.Dashboard(ctx, domain.Filter{})
	assert.ErrorIs(t, err, domain.ErrNoDataset)
}

func TestDatasetService_Load_EnrichesAndStores(t *testing.T) {
	loader := &mockRecordLoader{records: map[string][]domain.Record{"regs.csv": rawTable()}}
	svc, _ := newTestDatasetService(loader)
	ctx := context.Background()

	info, err := svc.Load(ctx, "regs.csv")

	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "regs.csv", info.Source)
	assert.Equal(t, 4, info.RecordCount)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), info.LoadedAt)

	records, err := svc.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, records[0].IntensityScore)
	assert.Equal(t, 2015, records[0].Year)
	assert.Equal(t, 0, records[3].LevelScore)
	assert.Equal(t, 2012, records[3].Year)
}

func TestDatasetService_Load_DefaultsToConfiguredPath(t *testing.T) {
	loader := &mockRecordLoader{records: map[string][]domain.Record{"regulasi.csv": rawTable()}}
	svc, config := newTestDatasetService(loader)

	_, err := svc.Load(context.Background(), "")
	require.NoError(t, err)

	_ = config.Set("source.path", "other.csv")
	_, err = svc.Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"regulasi.csv", "other.csv"}, loader.calls)
}

func TestDatasetService_Load_UsesRankingOverrides(t *testing.T) {
	loader := &mockRecordLoader{records: map[string][]domain.Record{"regulasi.csv": rawTable()}}
	svc, config := newTestDatasetService(loader)
	_ = config.Set("ranking.Perda", 1)

	_, err := svc.Load(context.Background(), "")
	require.NoError(t, err)

	records, err := svc.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, records[3].LevelScore)
	assert.Equal(t, 3, records[3].IntensityScore)
}

func TestDatasetService_Load_LoaderError(t *testing.T) {
	loader := &mockRecordLoader{err: domain.ErrSchema}
	svc, _ := newTestDatasetService(loader)

	info, err := svc.Load(context.Background(), "bad.csv")

	assert.Nil(t, info)
	assert.ErrorIs(t, err, domain.ErrSchema)
	_, err = svc.Records(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoDataset)
}

func TestDatasetService_Load_StoreError(t *testing.T) {
	storeErr := errors.New("disk full")
	loader := &mockRecordLoader{records: map[string][]domain.Record{"a.csv": rawTable()}}
	svc := NewDatasetService(loader, &mockRecordStore{saveErr: storeErr}, nil)

	_, err := svc.Load(context.Background(), "a.csv")

	assert.ErrorIs(t, err, storeErr)
}

func TestDatasetService_Load_NilPorts(t *testing.T) {
	svc := NewDatasetService(nil, nil, nil)

	_, err := svc.Load(context.Background(), "a.csv")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = svc.Snapshots(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = svc.Records(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestDatasetService_Records_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("locked")
	svc := NewDatasetService(&mockRecordLoader{}, &mockRecordStore{currentErr: storeErr}, nil)

	_, err := svc.Records(context.Background())

	assert.ErrorIs(t, err, storeErr)
}

func TestDatasetService_Reload(t *testing.T) {
	loader := &mockRecordLoader{records: map[string][]domain.Record{"a.csv": rawTable(), "regulasi.csv": nil}}
	svc, _ := newTestDatasetService(loader)
	ctx := context.Background()

	_, err := svc.Load(ctx, "a.csv")
	require.NoError(t, err)
	info, err := svc.Reload(ctx)

	require.NoError(t, err)
	assert.Equal(t, "a.csv", info.Source)
	assert.Equal(t, []string{"a.csv", "a.csv"}, loader.calls)

	snapshots, err := svc.Snapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshots, 2)
	assert.NotEqual(t, snapshots[0].ID, snapshots[1].ID)
}

func TestDatasetService_Reload_FromStoredSnapshot(t *testing.T) {
	store := memory.NewRecordStore()
	require.NoError(t, store.Save(context.Background(), domain.Snapshot{ID: "old", Source: "kept.csv"}))
	loader := &mockRecordLoader{records: map[string][]domain.Record{"kept.csv": rawTable()}}
	svc := NewDatasetService(loader, store, nil)

	info, err := svc.Reload(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "kept.csv", info.Source)
}

func TestDatasetService_Options(t *testing.T) {
	loader := &mockRecordLoader{records: map[string][]domain.Record{"regulasi.csv": rawTable()}}
	svc, _ := newTestDatasetService(loader)
	_, err := svc.Load(context.Background(), "")
	require.NoError(t, err)

	opts, err := svc.Options(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Minol", "Tembakau"}, opts.Sectors)
	assert.Equal(t, []string{"distribusi", "iklan", "label"}, opts.Domains)
}

func TestDatasetService_Dashboard(t *testing.T) {
	loader := &mockRecordLoader{records: map[string][]domain.Record{"regulasi.csv": rawTable()}}
	svc, config := newTestDatasetService(loader)
	_, err := svc.Load(context.Background(), "")
	require.NoError(t, err)

	t.Run("all records", func(t *testing.T) {
		dash, err := svc.Dashboard(context.Background(), domain.Filter{})
		require.NoError(t, err)

		assert.Len(t, dash.Records, 4)
		assert.Equal(t, []string{"distribusi", "label"}, dash.ExclusiveDomains)
		assert.Len(t, dash.GapRows, 2)
		assert.Equal(t, "Minol", dash.Options.PrimarySector)
	})

	t.Run("filtered", func(t *testing.T) {
		dash, err := svc.Dashboard(context.Background(), domain.Filter{Domains: []string{"label"}})
		require.NoError(t, err)

		assert.Len(t, dash.Records, 2)
		assert.Equal(t, []string{"label"}, dash.ExclusiveDomains)
	})

	t.Run("configured sectors", func(t *testing.T) {
		_ = config.Set("sectors.primary", "Tembakau")
		_ = config.Set("sectors.secondary", "Minol")
		defer func() {
			_ = config.Set("sectors.primary", "Minol")
			_ = config.Set("sectors.secondary", "Tembakau")
		}()

		dash, err := svc.Dashboard(context.Background(), domain.Filter{})
		require.NoError(t, err)

		assert.Equal(t, []string{"iklan"}, dash.ExclusiveDomains)
	})
}

func TestDatasetService_Analyze(t *testing.T) {
	loader := &mockRecordLoader{records: map[string][]domain.Record{"regulasi.csv": rawTable()}}
	svc, _ := newTestDatasetService(loader)
	_, err := svc.Load(context.Background(), "")
	require.NoError(t, err)

	t.Run("swapped sectors", func(t *testing.T) {
		dash, err := svc.Analyze(context.Background(), domain.Filter{}, domain.DashboardOptions{
			PrimarySector:   "Tembakau",
			SecondarySector: "Minol",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"iklan"}, dash.ExclusiveDomains)
		require.Len(t, dash.GapRows, 1)
		assert.Equal(t, "Tembakau", dash.GapRows[0].Sector)
	})

	t.Run("partial options fall back", func(t *testing.T) {
		dash, err := svc.Analyze(context.Background(), domain.Filter{}, domain.DashboardOptions{
			Forecast: domain.ForecastOptions{Horizon: 4},
		})
		require.NoError(t, err)

		assert.Equal(t, "Minol", dash.Options.PrimarySector)
		assert.Equal(t, "Tembakau", dash.Options.SecondarySector)
		assert.Equal(t, domain.ForecastOptions{Horizon: 4, Step: 2}, dash.Options.Forecast)
		for _, f := range dash.Forecasts {
			assert.Len(t, f.Points, 4)
		}
	})
}
