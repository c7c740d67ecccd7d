package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func parseFormat(s string) (string, error) {
	switch s {
	case formatTable, formatJSON, formatYAML:
		return s, nil
	case "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q (want table, json or yaml)", domain.ErrInvalidInput, s)
	}
}

// resolveFormat returns the effective format. A command's --json flag wins
// over --output.
func resolveFormat(jsonFlag bool) string {
	if jsonFlag {
		return formatJSON
	}
	f, err := parseFormat(outputFormat)
	if err != nil {
		return formatTable
	}
	return f
}

// emit writes v as JSON or YAML, or calls tableFn for the table format.
func emit(cmd *cobra.Command, format string, v any, tableFn func(io.Writer) error) error {
	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	case formatYAML:
		data, err := marshalYAML(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Fprint(out, string(data))
		return nil
	default:
		return tableFn(out)
	}
}

// marshalYAML renders v as YAML using its JSON field names.
func marshalYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

// renderTable draws rows under headers, fitted to the terminal when there is one.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if width := terminalWidth(); width > 0 {
		t = t.Width(width)
	}
	fmt.Fprintln(w, t.Render())
}

// terminalWidth returns the stdout width, or 0 when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

func recordHeaders() []string {
	return []string{"Sector", "Domain", "Regulasi", "Level", "Presence", "Detail", "Sanction", "Rank", "Intensity", "Year"}
}

func recordRow(r domain.Record) []string {
	year := "-"
	if r.HasYear() {
		year = strconv.Itoa(r.Year)
	}
	return []string{
		r.Sector,
		r.Domain,
		r.Regulasi,
		r.Level,
		strconv.Itoa(r.Presence),
		strconv.Itoa(r.Detail),
		strconv.Itoa(r.Sanction),
		strconv.Itoa(r.LevelScore),
		strconv.Itoa(r.IntensityScore),
		year,
	}
}

func recordRows(records []domain.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for i := range records {
		rows = append(rows, recordRow(records[i]))
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
