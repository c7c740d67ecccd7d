// Package help provides the keybinding and query reference view for the TUI.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/styles"
)

const queryReference = `
## Record queries

Press **/** in the records view and enter an expression, for example
` + "`sector == \"Minol\" && level_score >= 4`" + `.

| Variable | Type |
|----------|------|
| sector, domain, regulasi, level | string |
| presence, detail, sanction | int |
| level_score, intensity_score | int |
| year | int (0 when absent) |
| has_year | bool |

An empty expression shows every record.

## Scores

Intensity is the level rank plus detail plus sanction. A rule that is
present is treated as carrying a sanction.
`

// View renders the help text as markdown in a scrollable viewport.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	viewport viewport.Model
	rendered int // wrap width of the current content, 0 when stale

	width  int
	height int
	ready  bool
}

// NewView creates a new help view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// Markdown returns the unrendered help text.
func (v *View) Markdown() string {
	var b strings.Builder
	b.WriteString("# regdash\n\n## Keys\n\n| Key | Action |\n|-----|--------|\n")
	for _, group := range v.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	b.WriteString("| `/` | query records |\n")
	b.WriteString(queryReference)
	return b.String()
}

func (v *View) render() string {
	md := v.Markdown()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(v.width-4, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// View renders the help view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.rendered != v.width {
		v.viewport.SetContent(v.render())
		v.rendered = v.width
	}

	var b strings.Builder
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Scroll  [esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.viewport.Width = width
	v.viewport.Height = max(height-3, 3)
}
