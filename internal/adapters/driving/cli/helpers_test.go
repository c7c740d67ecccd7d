package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdash/internal/adapters/driven/csvsource"
	"github.com/custodia-labs/regdash/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/services"
)

const testCSV = `sector,domain,regulasi,level,presence,detail
Minol,distribusi,PP 20 Tahun 2019,PP,1,1
Minol,label,Permendag 2021,Permen,1,0
Minol,iklan,Perban 2021,Perban,1,1
Tembakau,distribusi,PP 109 Tahun 2012,PP,1,1
Tembakau,iklan,UU 2009,UU,0,0
`

// mockExportService records export calls instead of writing files.
type mockExportService struct {
	charts    []string
	err       error
	filters   []domain.Filter
	dirs      []string
	workbooks []string
}

func (m *mockExportService) Charts(_ context.Context, filter domain.Filter, dir string) ([]string, error) {
	m.filters = append(m.filters, filter)
	m.dirs = append(m.dirs, dir)
	return m.charts, m.err
}

func (m *mockExportService) Workbook(_ context.Context, filter domain.Filter, path string) error {
	m.filters = append(m.filters, filter)
	m.workbooks = append(m.workbooks, path)
	return m.err
}

// stubWatcher satisfies driven.SourceWatcher without touching the filesystem.
type stubWatcher struct{}

func (stubWatcher) Watch(ctx context.Context, _ string, _ func()) error {
	<-ctx.Done()
	return ctx.Err()
}

// testEnv wires real services over an in-memory store and a temp CSV file.
type testEnv struct {
	csvPath  string
	settings *services.SettingsService
	dataset  *services.DatasetService
	export   *mockExportService
}

func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	csvPath := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(testCSV), 0o600))

	settings := services.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.Set("source.path", csvPath))

	env := &testEnv{
		csvPath:  csvPath,
		settings: settings,
		dataset:  services.NewDatasetService(csvsource.NewLoader(','), memory.NewRecordStore(), settings),
		export:   &mockExportService{charts: []string{"charts/intensity_bar.png", "charts/trend.png"}},
	}
	SetServices(&Services{
		Dataset:  env.dataset,
		Settings: env.settings,
		Export:   env.export,
	})
	t.Cleanup(func() { SetServices(nil) })
	return env
}

// execute runs the root command with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag of cmd and its children to its default.
// Flag values live in package variables, so they leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
