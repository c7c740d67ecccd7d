package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

var (
	summaryJSON bool
	summaryGrid bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show mean regulatory intensity per domain and sector",
	Long: `Shows the mean intensity score of every (domain, sector) pair present in
the filtered table. Intensity is level rank + detail + sanction.

Use --grid for the domain × sector pivot, with 0 where a pair has no rows.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output as JSON")
	summaryCmd.Flags().BoolVar(&summaryGrid, "grid", false, "show the domain × sector grid")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	dash, err := loadDashboard(cmd, domain.DashboardOptions{})
	if err != nil {
		return err
	}
	format := resolveFormat(summaryJSON)

	if summaryGrid {
		return emit(cmd, format, dash.Grid, func(w io.Writer) error {
			if dash.Grid.Empty() {
				fmt.Fprintln(w, "No data for the current filter.")
				return nil
			}
			headers, rows := gridTable(dash.Grid)
			renderTable(w, headers, rows)
			return nil
		})
	}

	return emit(cmd, format, dash.Summary, func(w io.Writer) error {
		if len(dash.Summary) == 0 {
			fmt.Fprintln(w, "No data for the current filter.")
			return nil
		}
		rows := make([][]string, 0, len(dash.Summary))
		for _, c := range dash.Summary {
			rows = append(rows, []string{c.Domain, c.Sector, formatFloat(c.Mean), strconv.Itoa(c.Count)})
		}
		renderTable(w, []string{"Domain", "Sector", "Mean intensity", "Records"}, rows)
		return nil
	})
}

func gridTable(grid domain.IntensityGrid) ([]string, [][]string) {
	headers := append([]string{"Domain"}, grid.Sectors...)
	rows := make([][]string, 0, len(grid.Domains))
	for i, d := range grid.Domains {
		row := make([]string, 0, len(grid.Sectors)+1)
		row = append(row, d)
		for j := range grid.Sectors {
			row = append(row, formatFloat(grid.Values[i][j]))
		}
		rows = append(rows, row)
	}
	return headers, rows
}
