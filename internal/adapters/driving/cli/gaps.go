package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

var (
	gapsJSON    bool
	gapsFrom    string
	gapsAgainst string
)

// gapReport is the gaps command output.
type gapReport struct {
	Sector           string          `json:"sector"`
	ComparedWith     string          `json:"compared_with"`
	ExclusiveDomains []string        `json:"exclusive_domains"`
	Rows             []domain.Record `json:"rows"`
}

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Show domains regulated for one sector but not the other",
	Long: `Lists the domains where the first sector has at least one present rule and
the second has none, followed by the first sector's rules in those domains,
strictest level first.

The comparison is one-directional: swapping --from and --against gives a
different answer. Both default to the configured sectors.`,
	Args: cobra.NoArgs,
	RunE: runGaps,
}

func init() {
	gapsCmd.Flags().BoolVar(&gapsJSON, "json", false, "output as JSON")
	gapsCmd.Flags().StringVar(&gapsFrom, "from", "", "sector whose exclusive domains are listed")
	gapsCmd.Flags().StringVar(&gapsAgainst, "against", "", "sector compared against")
	rootCmd.AddCommand(gapsCmd)
}

func runGaps(cmd *cobra.Command, _ []string) error {
	dash, err := loadDashboard(cmd, domain.DashboardOptions{
		PrimarySector:   strings.TrimSpace(gapsFrom),
		SecondarySector: strings.TrimSpace(gapsAgainst),
	})
	if err != nil {
		return err
	}

	report := gapReport{
		Sector:           dash.Options.PrimarySector,
		ComparedWith:     dash.Options.SecondarySector,
		ExclusiveDomains: dash.ExclusiveDomains,
		Rows:             dash.GapRows,
	}

	return emit(cmd, resolveFormat(gapsJSON), report, func(w io.Writer) error {
		if len(report.ExclusiveDomains) == 0 {
			fmt.Fprintf(w, "No domains are regulated for %s but not for %s.\n", report.Sector, report.ComparedWith)
			return nil
		}
		fmt.Fprintf(w, "Regulated for %s but not for %s: %s\n\n",
			report.Sector, report.ComparedWith, strings.Join(report.ExclusiveDomains, ", "))

		rows := make([][]string, 0, len(report.Rows))
		for _, r := range report.Rows {
			rows = append(rows, []string{
				r.Domain, r.Regulasi, r.Level,
				strconv.Itoa(r.LevelScore), strconv.Itoa(r.Detail), strconv.Itoa(r.IntensityScore),
			})
		}
		renderTable(w, []string{"Domain", "Regulasi", "Level", "Rank", "Detail", "Intensity"}, rows)
		return nil
	})
}
