package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/regdash/internal/query"
)

var (
	recordsJSON  bool
	recordsWhere string
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the scored regulation records",
	Long: `Loads the source table and prints every record with its derived scores:
sanction, level rank, intensity and enactment year.

--sector and --domain narrow the table. --where narrows it further with a
CEL expression over the record fields, for example:

  regdash records --where 'presence == 1 && level_score >= 4'
  regdash records --where 'domain in ["label", "iklan"] && !has_year'`,
	Args: cobra.NoArgs,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().BoolVar(&recordsJSON, "json", false, "output records as JSON")
	recordsCmd.Flags().StringVar(&recordsWhere, "where", "", "CEL expression selecting records")
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	if _, err := loadDataset(ctx); err != nil {
		return err
	}

	all, err := datasetService.Records(ctx)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	records, err := query.Apply(recordsWhere, currentFilter(cmd).Apply(all))
	if err != nil {
		return fmt.Errorf("invalid --where: %w", err)
	}

	return emit(cmd, resolveFormat(recordsJSON), records, func(w io.Writer) error {
		if len(records) == 0 {
			fmt.Fprintln(w, "No records match.")
			return nil
		}
		renderTable(w, recordHeaders(), recordRows(records))
		fmt.Fprintf(w, "%d of %d record(s)\n", len(records), len(all))
		return nil
	})
}
