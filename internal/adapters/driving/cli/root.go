// Package cli implements the regdash command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driven"
	"github.com/custodia-labs/regdash/internal/core/ports/driving"
	"github.com/custodia-labs/regdash/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=x.y.z".
var version = "dev"

// Services holds the ports the commands drive.
type Services struct {
	Dataset  driving.DatasetService
	Settings driving.SettingsService
	Export   driving.ExportService

	// Watcher is optional; without it the TUI never reloads on its own.
	Watcher driven.SourceWatcher

	// Close releases resources such as the snapshot database.
	Close func() error
}

// Bootstrap builds the services once flags are parsed.
// configDir is the --config-dir value, empty for the default.
type Bootstrap func(configDir string) (*Services, error)

var (
	bootstrap Bootstrap

	datasetService  driving.DatasetService
	settingsService driving.SettingsService
	exportService   driving.ExportService
	sourceWatcher   driven.SourceWatcher
	closeServices   func() error
)

// Persistent flag values.
var (
	verbose      bool
	configDir    string
	sourceFile   string
	sectorFlags  []string
	domainFlags  []string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "regdash",
	Short: "Regulatory coverage dashboard",
	Long: `regdash compares the regulatory coverage of two product sectors.

It loads a CSV of regulation records (sector, domain, regulasi, level,
presence, detail), scores every row and reports:
  - mean regulatory intensity per domain and sector
  - domains regulated for one sector but not the other
  - yearly counts of enacted regulations with a linear projection

Views are available as tables, JSON or YAML, PNG charts, an XLSX
workbook, an interactive terminal UI and MCP tools.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.regdash)")
	pf.StringVarP(&sourceFile, "file", "f", "", "CSV file to load (default from settings)")
	pf.StringSliceVar(&sectorFlags, "sector", nil, "only include these sectors (repeatable)")
	pf.StringSliceVar(&domainFlags, "domain", nil, "only include these domains (repeatable)")
	pf.StringVarP(&outputFormat, "output", "o", formatTable, "output format: table, json or yaml")
}

// SetBootstrap registers the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs ready-made services, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		datasetService, settingsService, exportService, sourceWatcher, closeServices = nil, nil, nil, nil, nil
		return
	}
	datasetService = s.Dataset
	settingsService = s.Settings
	exportService = s.Export
	sourceWatcher = s.Watcher
	closeServices = s.Close
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if _, err := parseFormat(outputFormat); err != nil {
		return err
	}

	if bootstrap == nil || datasetService != nil {
		return nil
	}
	services, err := bootstrap(configDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	logger.Debug("services ready for %q", cmd.CommandPath())
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	return closeServices()
}

// currentFilter builds the filter from --sector and --domain.
// An unset flag selects every value.
func currentFilter(cmd *cobra.Command) domain.Filter {
	var f domain.Filter
	if cmd.Flags().Changed("sector") {
		f.Sectors = append([]string{}, sectorFlags...)
	}
	if cmd.Flags().Changed("domain") {
		f.Domains = append([]string{}, domainFlags...)
	}
	return f
}

// loadDataset reads the source table into the dataset service.
func loadDataset(ctx context.Context) (*domain.SnapshotInfo, error) {
	if datasetService == nil {
		return nil, errors.New("dataset service not configured")
	}
	info, err := datasetService.Load(ctx, sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return info, nil
}

// loadDashboard loads the table and computes every view for the current filter.
func loadDashboard(cmd *cobra.Command, opts domain.DashboardOptions) (*domain.Dashboard, error) {
	ctx := commandContext(cmd)
	if _, err := loadDataset(ctx); err != nil {
		return nil, err
	}
	dash, err := datasetService.Analyze(ctx, currentFilter(cmd), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return dash, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
