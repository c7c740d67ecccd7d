package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var snapshotsJSON bool

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List stored table snapshots",
	Long: `Lists the tables loaded so far, newest first.

With storage.backend = sqlite every load is kept; with the memory backend
only the current process is visible, so the list is usually empty.`,
	Args: cobra.NoArgs,
	RunE: runSnapshots,
}

func init() {
	snapshotsCmd.Flags().BoolVar(&snapshotsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshots(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	snapshots, err := datasetService.Snapshots(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	return emit(cmd, resolveFormat(snapshotsJSON), snapshots, func(w io.Writer) error {
		if len(snapshots) == 0 {
			fmt.Fprintln(w, "No snapshots stored.")
			return nil
		}
		rows := make([][]string, 0, len(snapshots))
		for _, s := range snapshots {
			rows = append(rows, []string{
				s.ID, s.Source, s.LoadedAt.Local().Format(time.DateTime), strconv.Itoa(s.RecordCount),
			})
		}
		renderTable(w, []string{"ID", "Source", "Loaded", "Records"}, rows)
		return nil
	})
}
