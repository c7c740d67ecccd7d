// Package xlsx writes dashboard views to an Excel workbook with excelize.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ReportWriter = (*Writer)(nil)

// Sheet names, in workbook order.
const (
	SheetOverview  = "Overview"
	SheetRecords   = "Records"
	SheetIntensity = "Intensity"
	SheetGrid      = "Grid"
	SheetGaps      = "Gaps"
	SheetTrend     = "Trend"
	SheetForecast  = "Forecast"
)

// Writer writes one sheet per dashboard view.
type Writer struct{}

// NewWriter creates a workbook writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write builds the workbook and saves it to path, creating parent directories.
func (w *Writer) Write(ctx context.Context, dash *domain.Dashboard, path string) error {
	if dash == nil {
		dash = &domain.Dashboard{}
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	b := &builder{f: f, header: header}

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}

	steps := []func(*domain.Dashboard) error{
		b.overview,
		b.records,
		b.intensity,
		b.grid,
		b.gaps,
		b.trend,
		b.forecast,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(dash); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// builder appends rows to sheets of one workbook.
type builder struct {
	f      *excelize.File
	header int
}

// table writes a bold header row followed by rows, creating the sheet if needed.
func (b *builder) table(sheet string, headers []string, rows [][]any) error {
	if idx, _ := b.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := b.f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
	}

	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	if err := b.f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := b.f.SetCellStyle(sheet, "A1", last, b.header); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := b.f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("%s column width: %w", sheet, err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		r := row
		if err := b.f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func (b *builder) overview(dash *domain.Dashboard) error {
	selection := func(values []string) string {
		if values == nil {
			return "(all)"
		}
		if len(values) == 0 {
			return "(none)"
		}
		return strings.Join(values, ", ")
	}
	return b.table(SheetOverview, []string{"Setting", "Value"}, [][]any{
		{"Records", len(dash.Records)},
		{"Sector filter", selection(dash.Filter.Sectors)},
		{"Domain filter", selection(dash.Filter.Domains)},
		{"Primary sector", dash.Options.PrimarySector},
		{"Secondary sector", dash.Options.SecondarySector},
		{"Forecast horizon", dash.Options.Forecast.Horizon},
		{"Forecast step", dash.Options.Forecast.Step},
	})
}

func (b *builder) records(dash *domain.Dashboard) error {
	rows := make([][]any, 0, len(dash.Records))
	for _, r := range dash.Records {
		rows = append(rows, recordRow(r))
	}
	return b.table(SheetRecords, recordHeaders(), rows)
}

func (b *builder) intensity(dash *domain.Dashboard) error {
	rows := make([][]any, 0, len(dash.Summary))
	for _, c := range dash.Summary {
		rows = append(rows, []any{c.Domain, c.Sector, c.Mean, c.Count})
	}
	return b.table(SheetIntensity, []string{"Domain", "Sector", "Mean intensity", "Rows"}, rows)
}

func (b *builder) grid(dash *domain.Dashboard) error {
	headers := append([]string{"Domain"}, dash.Grid.Sectors...)
	rows := make([][]any, 0, len(dash.Grid.Domains))
	for i, d := range dash.Grid.Domains {
		row := make([]any, 0, len(dash.Grid.Sectors)+1)
		row = append(row, d)
		for _, v := range dash.Grid.Values[i] {
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return b.table(SheetGrid, headers, rows)
}

func (b *builder) gaps(dash *domain.Dashboard) error {
	rows := make([][]any, 0, len(dash.GapRows))
	for _, r := range dash.GapRows {
		rows = append(rows, recordRow(r))
	}
	return b.table(SheetGaps, recordHeaders(), rows)
}

func (b *builder) trend(dash *domain.Dashboard) error {
	rows := make([][]any, 0, len(dash.Trend))
	for _, p := range dash.Trend {
		rows = append(rows, []any{p.Year, p.Sector, p.Count})
	}
	return b.table(SheetTrend, []string{"Year", "Sector", "Regulations"}, rows)
}

func (b *builder) forecast(dash *domain.Dashboard) error {
	rows := make([][]any, 0)
	for _, f := range dash.Forecasts {
		for _, p := range f.Points {
			rows = append(rows, []any{f.Sector, p.Year, p.Value, f.Growth, f.LastYear, f.LastCount})
		}
	}
	return b.table(SheetForecast,
		[]string{"Sector", "Year", "Projected", "Growth per step", "Last year", "Last count"}, rows)
}

func recordHeaders() []string {
	return []string{
		"Sector", "Domain", "Regulasi", "Level", "Presence", "Detail",
		"Sanction", "Level score", "Intensity", "Year",
	}
}

func recordRow(r domain.Record) []any {
	var year any
	if r.HasYear() {
		year = r.Year
	}
	return []any{
		r.Sector, r.Domain, r.Regulasi, r.Level, r.Presence, r.Detail,
		r.Sanction, r.LevelScore, r.IntensityScore, year,
	}
}
