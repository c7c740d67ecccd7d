// Package records provides the scored record table view for the TUI.
package records

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/query"
)

// Rows reserved for the title, query line and footer.
const chromeHeight = 8

// View shows the filtered records in a scrollable table.
// Typing "/" opens a query line that narrows the table further.
type View struct {
	styles *styles.Styles
	table  table.Model
	input  *input.QueryInput

	records []domain.Record
	shown   []domain.Record
	where   string
	err     error

	width  int
	height int
	ready  bool
}

// NewView creates a new records view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(16),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Foreground(s.Theme().Secondary).Bold(true)
	ts.Selected = s.Selected
	t.SetStyles(ts)

	return &View{
		styles: s,
		table:  t,
		input:  input.NewQueryInput(s),
		width:  80,
		height: 24,
	}
}

func columns() []table.Column {
	return []table.Column{
		{Title: "Sector", Width: 10},
		{Title: "Domain", Width: 14},
		{Title: "Regulasi", Width: 36},
		{Title: "Level", Width: 8},
		{Title: "P", Width: 2},
		{Title: "D", Width: 2},
		{Title: "S", Width: 2},
		{Title: "Rank", Width: 4},
		{Title: "Int", Width: 4},
		{Title: "Year", Width: 5},
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.input.Focused() {
			return v.handleQueryKey(msg)
		}
		if msg.String() == "/" {
			v.input.SetValue(v.where)
			return v, v.input.Focus()
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *View) handleQueryKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.input.Blur()
		v.where = strings.TrimSpace(v.input.Value())
		v.refresh()
		return v, nil
	case tea.KeyEsc:
		v.input.Blur()
		v.input.SetValue(v.where)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// SetRecords replaces the table contents and reapplies the query.
func (v *View) SetRecords(records []domain.Record) {
	v.records = records
	v.refresh()
}

// SetQuery sets the query expression and reapplies it.
func (v *View) SetQuery(expr string) {
	v.where = strings.TrimSpace(expr)
	v.input.SetValue(v.where)
	v.refresh()
}

func (v *View) refresh() {
	shown, err := query.Apply(v.where, v.records)
	v.err = err
	if err != nil {
		shown = nil
	}
	v.shown = shown

	rows := make([]table.Row, 0, len(shown))
	for i := range shown {
		rows = append(rows, row(shown[i]))
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(0)
	}
}

func row(r domain.Record) table.Row {
	year := "-"
	if r.HasYear() {
		year = strconv.Itoa(r.Year)
	}
	return table.Row{
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

// View renders the records view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Records"))
	b.WriteString("\n\n")

	switch {
	case v.input.Focused():
		b.WriteString(v.input.View())
	case v.where != "":
		b.WriteString(v.styles.Muted.Render("where " + v.where))
	default:
		b.WriteString(v.styles.Muted.Render("press / to query records"))
	}
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(v.shown) == 0 {
		b.WriteString(v.styles.Muted.Render("No records match."))
	} else {
		b.WriteString(v.table.View())
	}
	b.WriteString("\n\n")

	b.WriteString(v.styles.Help.Render(
		fmt.Sprintf("%d of %d record(s)  [j/k] Scroll  [/] Query  [esc] Back", len(v.shown), len(v.records)),
	))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	if h := height - chromeHeight; h > 3 {
		v.table.SetHeight(h)
	}
}

// Editing reports whether the query line has focus.
func (v *View) Editing() bool {
	return v.input.Focused()
}

// Query returns the applied query expression.
func (v *View) Query() string {
	return v.where
}

// Shown returns the records currently listed.
func (v *View) Shown() []domain.Record {
	return v.shown
}

// Err returns the last query error.
func (v *View) Err() error {
	return v.err
}
