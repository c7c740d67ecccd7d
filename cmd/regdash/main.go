// Command regdash compares the regulatory coverage of two product sectors.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/regdash/internal/adapters/driven/chart"
	"github.com/custodia-labs/regdash/internal/adapters/driven/config/file"
	"github.com/custodia-labs/regdash/internal/adapters/driven/csvsource"
	"github.com/custodia-labs/regdash/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/regdash/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/regdash/internal/adapters/driven/watch"
	"github.com/custodia-labs/regdash/internal/adapters/driven/xlsx"
	"github.com/custodia-labs/regdash/internal/adapters/driving/cli"
	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driven"
	"github.com/custodia-labs/regdash/internal/core/services"
	"github.com/custodia-labs/regdash/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=x.y.z".
var version = ""

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(newServices)

	if err := cli.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newServices wires the adapters selected by the settings in configDir.
func newServices(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	store, closeStore, err := openRecordStore(settings.Storage)
	if err != nil {
		return nil, err
	}

	datasetService := services.NewDatasetService(
		csvsource.NewLoader(settings.Source.Delimiter),
		store,
		settingsService,
	)
	exportService := services.NewExportService(
		datasetService,
		settingsService,
		chart.NewRenderer(),
		xlsx.NewWriter(),
	)

	return &cli.Services{
		Dataset:  datasetService,
		Settings: settingsService,
		Export:   exportService,
		Watcher:  watch.NewWatcher(0, 0),
		Close:    closeStore,
	}, nil
}

// openRecordStore returns the snapshot store for the configured backend
// and the function that releases it.
func openRecordStore(cfg domain.StorageSettings) (driven.RecordStore, func() error, error) {
	switch cfg.Backend {
	case domain.StorageSQLite:
		db, err := sqlite.NewStore(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening snapshot database: %w", err)
		}
		logger.Debug("snapshots stored in %s", db.Path())
		return db.RecordStore(), db.Close, nil
	default:
		return memory.NewRecordStore(), func() error { return nil }, nil
	}
}
