// Package trend provides the yearly count and projection view for the TUI.
package trend

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/regdash/internal/core/domain"
)

const (
	labelWidth  = 20
	minBarWidth = 10
)

// View draws yearly record counts per sector followed by the
// linear projection, which is styled apart from observed values.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model

	trend     []domain.TrendPoint
	forecasts []domain.SectorForecast
	sectors   []string

	width  int
	height int
	ready  bool
}

// NewView creates a new trend view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the trend view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// SetDashboard replaces the trend and projection.
func (v *View) SetDashboard(d *domain.Dashboard) {
	v.trend, v.forecasts, v.sectors = nil, nil, nil
	if d != nil {
		v.trend = d.Trend
		v.forecasts = d.Forecasts
		v.sectors = d.Grid.Sectors
	}
	v.viewport.SetContent(v.content())
	v.viewport.GotoTop()
}

// View renders the trend view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Yearly trend"))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Scroll  [esc] Back"))
	return b.String()
}

func (v *View) content() string {
	if len(v.trend) == 0 {
		return v.styles.Muted.Render("No dated records for the current filter.")
	}

	maxValue := v.maxValue()
	barWidth := max(minBarWidth, v.width-labelWidth-10)

	var b strings.Builder
	for _, p := range v.trend {
		style := v.styles.Series(v.sectorIndex(p.Sector))
		fmt.Fprintf(&b, "%-*s %s %d\n",
			labelWidth, fmt.Sprintf("%d %s", p.Year, p.Sector),
			style.Render(bar("█", float64(p.Count), maxValue, barWidth)),
			p.Count,
		)
	}

	if len(v.forecasts) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Projection"))
	b.WriteString(v.styles.Muted.Render(" (linear, illustrative)"))
	b.WriteString("\n\n")

	for _, f := range v.forecasts {
		for _, p := range f.Points {
			fmt.Fprintf(&b, "%-*s %s %s\n",
				labelWidth, fmt.Sprintf("%d %s", p.Year, f.Sector),
				v.styles.Projection.Render(bar("╌", p.Value, maxValue, barWidth)),
				v.styles.Projection.Render(fmt.Sprintf("%.2f", p.Value)),
			)
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  growth %+.2f/year from %d (%d)", f.Growth, f.LastYear, f.LastCount)))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) sectorIndex(sector string) int {
	for i, s := range v.sectors {
		if s == sector {
			return i
		}
	}
	return -1
}

func (v *View) maxValue() float64 {
	var m float64
	for _, p := range v.trend {
		m = max(m, float64(p.Count))
	}
	for _, f := range v.forecasts {
		for _, p := range f.Points {
			m = max(m, p.Value)
		}
	}
	return m
}

// bar returns glyph repeated in proportion to value; negative values draw nothing.
func bar(glyph string, value, maxValue float64, width int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	return strings.Repeat(glyph, int(value/maxValue*float64(width)))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.viewport.Width = width
	v.viewport.Height = max(height-6, 3)
	v.viewport.SetContent(v.content())
}
