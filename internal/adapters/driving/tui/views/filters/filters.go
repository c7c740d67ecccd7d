// Package filters provides the sector and domain selection view for the TUI.
package filters

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/regdash/internal/core/domain"
)

// View holds one check list for sectors and one for domains.
// Every change is announced with messages.FilterChanged.
type View struct {
	styles  *styles.Styles
	sectors *list.CheckList
	domains *list.CheckList

	width  int
	height int
	ready  bool
}

// NewView creates a new filters view with the sector list focused.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:  s,
		sectors: list.NewCheckList("Sectors", s),
		domains: list.NewCheckList("Domains", s),
		width:   80,
		height:  24,
	}
	v.sectors.SetFocused(true)
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the filters view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			v.switchFocus()
			return v, nil
		}

		var changed bool
		if v.sectors.Focused() {
			v.sectors, changed = v.sectors.Update(msg)
		} else {
			v.domains, changed = v.domains.Update(msg)
		}
		if changed {
			filter := v.Filter()
			return v, func() tea.Msg {
				return messages.FilterChanged{Filter: filter}
			}
		}
	}

	return v, nil
}

func (v *View) switchFocus() {
	sectorsFocused := v.sectors.Focused()
	v.sectors.SetFocused(!sectorsFocused)
	v.domains.SetFocused(sectorsFocused)
}

// SetOptions replaces the selectable values, keeping earlier choices.
func (v *View) SetOptions(opts *domain.FilterOptions) {
	if opts == nil {
		return
	}
	v.sectors.SetItems(opts.Sectors)
	v.domains.SetItems(opts.Domains)
}

// SetFilter checks the values selected by f.
func (v *View) SetFilter(f domain.Filter) {
	v.sectors.Select(f.Sectors)
	v.domains.Select(f.Domains)
}

// Filter returns the current selection.
func (v *View) Filter() domain.Filter {
	return domain.Filter{
		Sectors: v.sectors.Selection(),
		Domains: v.domains.Selection(),
	}
}

// View renders the filters view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Filters"))
	b.WriteString("\n\n")

	left := v.frame(v.sectors)
	right := v.frame(v.domains)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Help.Render("[space] Toggle  [a] All  [n] None  [tab] Switch list  [esc] Back"))
	return b.String()
}

func (v *View) frame(c *list.CheckList) string {
	style := v.styles.Border.Padding(0, 1)
	if c.Focused() {
		style = style.BorderForeground(v.styles.Theme().Primary)
	}
	return style.Render(c.View())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	listWidth := max((width-8)/2, 20)
	listHeight := max(height-8, 3)
	v.sectors.SetDimensions(listWidth, listHeight)
	v.domains.SetDimensions(listWidth, listHeight)
}

// SectorsFocused reports whether the sector list has focus.
func (v *View) SectorsFocused() bool {
	return v.sectors.Focused()
}
