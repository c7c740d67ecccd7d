// Package intensity provides the mean intensity view for the TUI.
package intensity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/regdash/internal/core/domain"
)

const (
	labelWidth  = 14
	cellWidth   = 10
	minBarWidth = 10
)

// View shows mean intensity per domain as bars and as a heatmap.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model

	summary []domain.IntensityCell
	grid    domain.IntensityGrid

	width  int
	height int
	ready  bool
}

// NewView creates a new intensity view.
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

// Update handles messages for the intensity view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// SetDashboard replaces the rendered summary.
func (v *View) SetDashboard(d *domain.Dashboard) {
	if d == nil {
		v.summary = nil
		v.grid = domain.IntensityGrid{}
	} else {
		v.summary = d.Summary
		v.grid = d.Grid
	}
	v.viewport.SetContent(v.content())
	v.viewport.GotoTop()
}

// View renders the intensity view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Mean intensity"))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Scroll  [esc] Back"))
	return b.String()
}

func (v *View) content() string {
	if len(v.summary) == 0 {
		return v.styles.Muted.Render("No data for the current filter.")
	}

	maxValue := v.maxValue()

	var b strings.Builder
	b.WriteString(v.renderBars(maxValue))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Heatmap"))
	b.WriteString("\n\n")
	b.WriteString(v.renderHeatmap(maxValue))
	return b.String()
}

func (v *View) maxValue() float64 {
	var m float64
	for _, c := range v.summary {
		m = max(m, c.Mean)
	}
	return m
}

func (v *View) renderBars(maxValue float64) string {
	barWidth := max(minBarWidth, v.width-labelWidth-12)

	var b strings.Builder
	current := ""
	for _, c := range v.summary {
		if c.Domain != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = c.Domain
			b.WriteString(v.styles.Subtitle.Render(c.Domain))
			b.WriteString("\n")
		}

		n := 0
		if maxValue > 0 {
			n = int(c.Mean / maxValue * float64(barWidth))
		}
		style := v.styles.Series(slices.Index(v.grid.Sectors, c.Sector))
		fmt.Fprintf(&b, "  %s %s %.2f\n",
			pad(c.Sector, labelWidth-2),
			style.Render(strings.Repeat("█", n)),
			c.Mean,
		)
	}
	return b.String()
}

func (v *View) renderHeatmap(maxValue float64) string {
	if v.grid.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString(pad("", labelWidth))
	for _, sector := range v.grid.Sectors {
		b.WriteString(lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right).Render(truncate(sector, cellWidth-1)))
	}
	b.WriteString("\n")

	for i, d := range v.grid.Domains {
		b.WriteString(pad(truncate(d, labelWidth-1), labelWidth))
		for j := range v.grid.Sectors {
			value := v.grid.Values[i][j]
			cell := fmt.Sprintf("%*.2f ", cellWidth-1, value)
			b.WriteString(v.styles.Heat(value, maxValue).Render(cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
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
