// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/styles"
)

// CheckList is a navigable multi-select list of strings.
// A new list has every item checked.
type CheckList struct {
	title    string
	items    []string
	checked  map[string]bool
	selected int
	focused  bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewCheckList creates an empty check list.
func NewCheckList(title string, s *styles.Styles) *CheckList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CheckList{
		title:   title,
		checked: make(map[string]bool),
		styles:  s,
		width:   40,
		height:  10,
	}
}

// Init initialises the list.
func (c *CheckList) Init() tea.Cmd {
	return nil
}

// Update handles navigation and selection keys.
// It reports whether the checked set changed.
func (c *CheckList) Update(msg tea.Msg) (*CheckList, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false
	}

	switch keyMsg.String() {
	case "up", "k":
		c.MoveUp()
	case "down", "j":
		c.MoveDown()
	case " ", "x":
		return c, c.ToggleCurrent()
	case "a":
		return c, c.CheckAll()
	case "n":
		return c, c.CheckNone()
	}
	return c, false
}

// View renders the list with a window around the cursor.
func (c *CheckList) View() string {
	header := fmt.Sprintf("%s (%d/%d)", c.title, c.CheckedCount(), len(c.items))
	titleStyle := c.styles.Muted
	if c.focused {
		titleStyle = c.styles.Subtitle
	}

	lines := make([]string, 0, len(c.items)+2)
	lines = append(lines, titleStyle.Render(header), "")

	if len(c.items) == 0 {
		lines = append(lines, c.styles.Muted.Render("  (none)"))
		return strings.Join(lines, "\n")
	}

	visible := c.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if c.selected >= visible {
		start = c.selected - visible + 1
	}
	end := start + visible
	if end > len(c.items) {
		end = len(c.items)
	}

	for i := start; i < end; i++ {
		lines = append(lines, c.renderItem(i))
	}
	return strings.Join(lines, "\n")
}

func (c *CheckList) renderItem(i int) string {
	item := c.items[i]
	box := "[ ]"
	if c.checked[item] {
		box = "[x]"
	}

	cursor := "  "
	if i == c.selected && c.focused {
		cursor = "> "
	}

	maxLen := c.width - 8
	if maxLen < 8 {
		maxLen = 8
	}
	label := item
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}

	line := fmt.Sprintf("%s%s %s", cursor, box, label)
	if i == c.selected && c.focused {
		return c.styles.Selected.Render(line)
	}
	if !c.checked[item] {
		return c.styles.Muted.Render(line)
	}
	return c.styles.Normal.Render(line)
}

// SetItems replaces the items. Items that were unchecked before stay
// unchecked; new items start checked.
func (c *CheckList) SetItems(items []string) {
	previous := c.checked
	hadItems := len(c.items) > 0

	c.items = append([]string{}, items...)
	c.checked = make(map[string]bool, len(items))
	for _, item := range items {
		wasChecked, known := previous[item]
		c.checked[item] = !hadItems || !known || wasChecked
	}
	if c.selected >= len(c.items) {
		c.selected = 0
	}
}

// Items returns the items in display order.
func (c *CheckList) Items() []string {
	return c.items
}

// Checked returns the checked items in display order.
func (c *CheckList) Checked() []string {
	out := make([]string, 0, len(c.items))
	for _, item := range c.items {
		if c.checked[item] {
			out = append(out, item)
		}
	}
	return out
}

// CheckedCount returns the number of checked items.
func (c *CheckList) CheckedCount() int {
	n := 0
	for _, item := range c.items {
		if c.checked[item] {
			n++
		}
	}
	return n
}

// AllChecked reports whether every item is checked.
func (c *CheckList) AllChecked() bool {
	return c.CheckedCount() == len(c.items)
}

// Selection returns the checked items as a filter selection:
// nil when every item is checked, otherwise the checked items.
func (c *CheckList) Selection() []string {
	if c.AllChecked() {
		return nil
	}
	return c.Checked()
}

// Select checks exactly the given items; nil checks every item.
func (c *CheckList) Select(selection []string) {
	if selection == nil {
		c.CheckAll()
		return
	}
	want := make(map[string]bool, len(selection))
	for _, item := range selection {
		want[item] = true
	}
	for _, item := range c.items {
		c.checked[item] = want[item]
	}
}

// ToggleCurrent flips the item under the cursor.
func (c *CheckList) ToggleCurrent() bool {
	if len(c.items) == 0 {
		return false
	}
	item := c.items[c.selected]
	c.checked[item] = !c.checked[item]
	return true
}

// CheckAll checks every item. It reports whether anything changed.
func (c *CheckList) CheckAll() bool {
	changed := false
	for _, item := range c.items {
		if !c.checked[item] {
			c.checked[item] = true
			changed = true
		}
	}
	return changed
}

// CheckNone unchecks every item. It reports whether anything changed.
func (c *CheckList) CheckNone() bool {
	changed := false
	for _, item := range c.items {
		if c.checked[item] {
			c.checked[item] = false
			changed = true
		}
	}
	return changed
}

// Selected returns the cursor index.
func (c *CheckList) Selected() int {
	return c.selected
}

// MoveUp moves the cursor up.
func (c *CheckList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves the cursor down.
func (c *CheckList) MoveDown() {
	if c.selected < len(c.items)-1 {
		c.selected++
	}
}

// SetFocused marks the list as receiving keys.
func (c *CheckList) SetFocused(focused bool) {
	c.focused = focused
}

// Focused reports whether the list receives keys.
func (c *CheckList) Focused() bool {
	return c.focused
}

// SetDimensions sets the component dimensions.
func (c *CheckList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}
