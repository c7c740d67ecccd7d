package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change regdash settings.

Settings live in config.toml under the configuration directory
(~/.regdash unless --config-dir is given).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one setting",
	Long: `Change one setting by its key.

Keys:
  source.path         CSV file to load
  source.delimiter    field separator (a single character, or "tab")
  sectors.primary     sector whose exclusive domains are reported
  sectors.secondary   sector compared against
  forecast.horizon    projected points per sector
  forecast.step       years between projected points
  storage.backend     memory or sqlite
  storage.dir         sqlite data directory
  watch.enabled       reload the TUI when the CSV changes (true/false)
  charts.dir          PNG output directory
  ranking.<LEVEL>     rank of a legal level, e.g. ranking.Perda 1`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// settingEntry is one key/value line of settings show.
type settingEntry struct {
	Key   string
	Value string
}

func settingEntries(s *domain.AppSettings) []settingEntry {
	delimiter := string(s.Source.Delimiter)
	if s.Source.Delimiter == '\t' {
		delimiter = "tab"
	}
	storageDir := s.Storage.Dir
	if storageDir == "" {
		storageDir = "(default)"
	}

	entries := []settingEntry{
		{"source.path", s.Source.Path},
		{"source.delimiter", delimiter},
		{"sectors.primary", s.Sectors.Primary},
		{"sectors.secondary", s.Sectors.Secondary},
		{"forecast.horizon", strconv.Itoa(s.Forecast.Horizon)},
		{"forecast.step", strconv.Itoa(s.Forecast.Step)},
		{"storage.backend", s.Storage.Backend.String()},
		{"storage.dir", storageDir},
		{"watch.enabled", strconv.FormatBool(s.Watch)},
		{"charts.dir", s.ChartDir},
	}

	ranking := s.EffectiveRanking()
	levels := make([]string, 0, len(ranking))
	for level := range ranking {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool {
		if ranking[levels[i]] != ranking[levels[j]] {
			return ranking[levels[i]] > ranking[levels[j]]
		}
		return levels[i] < levels[j]
	})
	for _, level := range levels {
		entries = append(entries, settingEntry{"ranking." + level, strconv.Itoa(ranking[level])})
	}
	return entries
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	entries := settingEntries(settings)

	asMap := make(map[string]string, len(entries))
	for _, e := range entries {
		asMap[e.Key] = e.Value
	}

	return emit(cmd, resolveFormat(false), asMap, func(w io.Writer) error {
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Key, e.Value})
		}
		renderTable(w, []string{"Key", "Value"}, rows)

		if err := settingsService.Validate(); err != nil {
			fmt.Fprintf(w, "Warning: %v\n", err)
			fmt.Fprintln(w, "Run 'regdash settings set KEY VALUE' to fix it.")
		} else {
			fmt.Fprintln(w, "Configuration is valid.")
		}
		return nil
	})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}
