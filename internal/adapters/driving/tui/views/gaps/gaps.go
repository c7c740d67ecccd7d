// Package gaps provides the sector-exclusive domain view for the TUI.
package gaps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/regdash/internal/core/domain"
)

// View lists the domains regulated for the primary sector but not the
// secondary one, with the primary sector's rows in those domains.
type View struct {
	styles *styles.Styles
	table  table.Model

	options   domain.DashboardOptions
	exclusive []string
	rows      []domain.Record

	width  int
	height int
	ready  bool
}

// NewView creates a new gaps view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Domain", Width: 14},
			{Title: "Regulasi", Width: 36},
			{Title: "Level", Width: 8},
			{Title: "Rank", Width: 4},
			{Title: "Detail", Width: 6},
			{Title: "Int", Width: 4},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Foreground(s.Theme().Secondary).Bold(true)
	ts.Selected = s.Selected
	t.SetStyles(ts)

	return &View{
		styles: s,
		table:  t,
		width:  80,
		height: 24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the gaps view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// SetDashboard replaces the listed gap rows.
func (v *View) SetDashboard(d *domain.Dashboard) {
	if d == nil {
		v.options = domain.DashboardOptions{}
		v.exclusive = nil
		v.rows = nil
	} else {
		v.options = d.Options
		v.exclusive = d.ExclusiveDomains
		v.rows = d.GapRows
	}

	rows := make([]table.Row, 0, len(v.rows))
	for _, r := range v.rows {
		rows = append(rows, table.Row{
			r.Domain,
			r.Regulasi,
			r.Level,
			strconv.Itoa(r.LevelScore),
			strconv.Itoa(r.Detail),
			strconv.Itoa(r.IntensityScore),
		})
	}
	v.table.SetRows(rows)
	v.table.SetCursor(0)
}

// View renders the gaps view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Regulatory gaps"))
	b.WriteString("\n\n")

	primary, secondary := v.options.PrimarySector, v.options.SecondarySector
	if len(v.exclusive) == 0 {
		b.WriteString(v.styles.Muted.Render(
			fmt.Sprintf("No domains are regulated for %s but not for %s.", primary, secondary),
		))
	} else {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Regulated for %s but not for %s:", primary, secondary)))
		b.WriteString(" ")
		b.WriteString(v.styles.Normal.Render(strings.Join(v.exclusive, ", ")))
		b.WriteString("\n\n")
		b.WriteString(v.table.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(fmt.Sprintf("%d row(s)  [j/k] Scroll  [esc] Back", len(v.rows))))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	if h := height - 8; h > 3 {
		v.table.SetHeight(h)
	}
}

// ExclusiveDomains returns the listed domains.
func (v *View) ExclusiveDomains() []string {
	return v.exclusive
}
