package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

var (
	trendJSON    bool
	trendHorizon int
	trendStep    int
)

// trendReport is the trend command output.
type trendReport struct {
	Trend     []domain.TrendPoint     `json:"trend"`
	Forecast  domain.ForecastOptions  `json:"forecast_options"`
	Forecasts []domain.SectorForecast `json:"forecasts"`
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show yearly regulation counts and a linear projection",
	Long: `Counts records per enactment year and sector (records without a year are
skipped), then projects each sector forward by its mean yearly change.

The projection starts after the latest year in the whole table and is
illustrative only: it carries no confidence interval.`,
	Args: cobra.NoArgs,
	RunE: runTrend,
}

func init() {
	trendCmd.Flags().BoolVar(&trendJSON, "json", false, "output as JSON")
	trendCmd.Flags().IntVar(&trendHorizon, "horizon", 0, "projected points per sector (default from settings)")
	trendCmd.Flags().IntVar(&trendStep, "step", 0, "years between projected points (default from settings)")
	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, _ []string) error {
	if trendHorizon < 0 || trendStep < 0 {
		return fmt.Errorf("%w: --horizon and --step must not be negative", domain.ErrInvalidInput)
	}

	dash, err := loadDashboard(cmd, domain.DashboardOptions{
		Forecast: domain.ForecastOptions{Horizon: trendHorizon, Step: trendStep},
	})
	if err != nil {
		return err
	}

	report := trendReport{
		Trend:     dash.Trend,
		Forecast:  dash.Options.Forecast,
		Forecasts: dash.Forecasts,
	}

	return emit(cmd, resolveFormat(trendJSON), report, func(w io.Writer) error {
		if len(report.Trend) == 0 {
			fmt.Fprintln(w, "No dated records for the current filter.")
			return nil
		}

		rows := make([][]string, 0, len(report.Trend))
		for _, p := range report.Trend {
			rows = append(rows, []string{strconv.Itoa(p.Year), p.Sector, strconv.Itoa(p.Count)})
		}
		renderTable(w, []string{"Year", "Sector", "Records"}, rows)

		projected := make([][]string, 0, len(report.Forecasts)*report.Forecast.Horizon)
		for _, f := range report.Forecasts {
			for _, pt := range f.Points {
				projected = append(projected, []string{
					f.Sector, strconv.Itoa(pt.Year), formatFloat(pt.Value), formatFloat(f.Growth),
				})
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Projection (%d point(s), every %d year(s)):\n", report.Forecast.Horizon, report.Forecast.Step)
		renderTable(w, []string{"Sector", "Year", "Projected", "Growth/step"}, projected)
		return nil
	})
}
