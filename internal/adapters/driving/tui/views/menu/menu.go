// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/regdash/internal/core/domain"
)

// Item represents a single menu option.
type Item struct {
	Label string
	View  messages.ViewType

	// Msg, when set, is sent instead of switching views.
	Msg tea.Msg

	Quit bool // If true, selecting this item quits the app
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	info     *domain.SnapshotInfo
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Records", View: messages.ViewRecords},
			{Label: "Intensity", View: messages.ViewIntensity},
			{Label: "Gaps", View: messages.ViewGaps},
			{Label: "Trend", View: messages.ViewTrend},
			{Label: "Filters", View: messages.ViewFilters},
			{Label: "Export charts", Msg: messages.ExportRequested{Kind: messages.ExportCharts}},
			{Label: "Export workbook", Msg: messages.ExportRequested{Kind: messages.ExportWorkbook}},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		selected: 0,
		width:    80,
		height:   24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			if item.Msg != nil {
				return v, func() tea.Msg { return item.Msg }
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("regdash"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render(v.subtitle()))
	b.WriteString("\n\n")

	for i, item := range v.items {
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = v.styles.Subtitle
		}
		b.WriteString(cursor + style.Render(item.Label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))

	return b.String()
}

func (v *View) subtitle() string {
	if v.info == nil {
		return "Regulation intensity dashboard"
	}
	return fmt.Sprintf("%s · %d record(s)", v.info.Source, v.info.RecordCount)
}

// SetInfo shows the loaded table under the title.
func (v *View) SetInfo(info *domain.SnapshotInfo) {
	v.info = info
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu items.
func (v *View) Items() []Item {
	return v.items
}
