package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	chartOut  string
	exportOut string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the dashboard views as PNG charts",
	Long: `Writes up to four PNG files for the filtered table:
  intensity_bar.png      mean intensity per domain, one bar per sector
  intensity_heatmap.png  the domain × sector intensity grid
  trend.png              yearly record counts per sector
  forecast.png           yearly counts with the dashed linear projection

Views with no data are skipped. The directory defaults to charts.dir.`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every view to an XLSX workbook",
	Long: `Writes a workbook with one sheet per view: Overview, Records, Intensity,
Grid, Gaps, Trend and Forecast. The filter applies to every sheet.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	chartCmd.Flags().StringVar(&chartOut, "out", "", "output directory (default from settings)")
	exportCmd.Flags().StringVar(&exportOut, "out", "regdash.xlsx", "output workbook path")
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(exportCmd)
}

func runChart(cmd *cobra.Command, _ []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}
	ctx := commandContext(cmd)
	if _, err := loadDataset(ctx); err != nil {
		return err
	}

	files, err := exportService.Charts(ctx, currentFilter(cmd), chartOut)
	if err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	if len(files) == 0 {
		cmd.Println("Nothing to chart: no records match the filter.")
		return nil
	}
	for _, f := range files {
		cmd.Printf("Wrote %s\n", f)
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}
	ctx := commandContext(cmd)
	if _, err := loadDataset(ctx); err != nil {
		return err
	}

	if err := exportService.Workbook(ctx, currentFilter(cmd), exportOut); err != nil {
		return fmt.Errorf("failed to export workbook: %w", err)
	}
	cmd.Printf("Wrote %s\n", exportOut)
	return nil
}
