package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driven"
	"github.com/custodia-labs/regdash/internal/core/ports/driving"
	"github.com/custodia-labs/regdash/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// DefaultWorkbookPath is used when no output file is given.
const DefaultWorkbookPath = "regdash.xlsx"

// ExportService renders dashboard views to chart images and workbooks.
type ExportService struct {
	dataset  driving.DatasetService
	settings driving.SettingsService
	charts   driven.ChartRenderer
	report   driven.ReportWriter
}

// NewExportService creates a new export service.
// Either output port may be nil; the matching operation then returns
// domain.ErrNotImplemented.
func NewExportService(
	dataset driving.DatasetService,
	settings driving.SettingsService,
	charts driven.ChartRenderer,
	report driven.ReportWriter,
) *ExportService {
	return &ExportService{
		dataset:  dataset,
		settings: settings,
		charts:   charts,
		report:   report,
	}
}

// Charts renders the filtered dashboard into dir and returns the written files.
func (s *ExportService) Charts(ctx context.Context, filter domain.Filter, dir string) ([]string, error) {
	if s.charts == nil || s.dataset == nil {
		return nil, domain.ErrNotImplemented
	}

	if dir == "" {
		dir = domain.DefaultAppSettings().ChartDir
		if s.settings != nil {
			if cfg, err := s.settings.Get(); err == nil && cfg.ChartDir != "" {
				dir = cfg.ChartDir
			}
		}
	}

	dash, err := s.dataset.Dashboard(ctx, filter)
	if err != nil {
		return nil, err
	}

	files, err := s.charts.Render(ctx, dash, dir)
	if err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}
	logger.Info("wrote %d chart(s) to %s", len(files), dir)
	return files, nil
}

// Workbook writes every view of the filtered dashboard to path.
func (s *ExportService) Workbook(ctx context.Context, filter domain.Filter, path string) error {
	if s.report == nil || s.dataset == nil {
		return domain.ErrNotImplemented
	}
	if path == "" {
		path = DefaultWorkbookPath
	}

	dash, err := s.dataset.Dashboard(ctx, filter)
	if err != nil {
		return err
	}

	if err := s.report.Write(ctx, dash, path); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	logger.Info("wrote workbook %s", path)
	return nil
}
