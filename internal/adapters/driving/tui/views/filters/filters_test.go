package filters

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/regdash/internal/core/domain"
)

func newTestView() *View {
	v := NewView(nil)
	v.SetDimensions(100, 30)
	v.SetOptions(&domain.FilterOptions{
		Sectors: []string{"Minol", "Tembakau"},
		Domains: []string{"distribusi", "iklan", "label"},
	})
	return v
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.True(t, v.SectorsFocused())
	assert.Nil(t, v.Init())
	assert.True(t, v.Filter().Sectors == nil && v.Filter().Domains == nil)
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_Toggle_EmitsFilterChanged(t *testing.T) {
	v := newTestView()

	_, cmd := v.Update(keyRune('x'))

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.FilterChanged)
	require.True(t, ok)
	assert.Equal(t, []string{"Tembakau"}, msg.Filter.Sectors)
	assert.Nil(t, msg.Filter.Domains)
}

func TestView_SwitchFocus(t *testing.T) {
	v := newTestView()

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, v.SectorsFocused())

	_, cmd := v.Update(keyRune('n'))
	require.NotNil(t, cmd)
	msg := cmd().(messages.FilterChanged)
	assert.Nil(t, msg.Filter.Sectors)
	assert.Equal(t, []string{}, msg.Filter.Domains)

	v.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.True(t, v.SectorsFocused())
}

func TestView_NoChange_NoCommand(t *testing.T) {
	v := newTestView()

	_, cmd := v.Update(keyRune('a'))
	assert.Nil(t, cmd)

	_, cmd = v.Update(keyRune('j'))
	assert.Nil(t, cmd)
}

func TestView_SetFilter(t *testing.T) {
	v := newTestView()

	v.SetFilter(domain.Filter{Domains: []string{"iklan"}})

	assert.Equal(t, domain.Filter{Domains: []string{"iklan"}}, v.Filter())
}

func TestView_SetOptions_Nil(t *testing.T) {
	v := newTestView()

	v.SetOptions(nil)

	assert.Contains(t, v.View(), "Minol")
}

func TestView_View(t *testing.T) {
	v := newTestView()

	out := v.View()

	assert.Contains(t, out, "Filters")
	assert.Contains(t, out, "Sectors (2/2)")
	assert.Contains(t, out, "Domains (3/3)")
	assert.Contains(t, out, "[tab] Switch list")
}
