package records

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

func testRecords() []domain.Record {
	return []domain.Record{
		{Sector: "Minol", Domain: "distribusi", Regulasi: "PP 20/2021", Level: "PP",
			Presence: 1, Detail: 1, Sanction: 1, LevelScore: 4, IntensityScore: 6, Year: 2021},
		{Sector: "Tembakau", Domain: "iklan", Regulasi: "UU tanpa tahun", Level: "UU",
			Presence: 1, Detail: 0, Sanction: 1, LevelScore: 5, IntensityScore: 6},
		{Sector: "Minol", Domain: "label", Regulasi: "Permendag 2019", Level: "Permen",
			Presence: 0, Detail: 0, Sanction: 0, LevelScore: 3, IntensityScore: 3, Year: 2019},
	}
}

func newTestView() *View {
	v := NewView(nil)
	v.SetDimensions(120, 30)
	v.SetRecords(testRecords())
	return v
}

func typeText(v *View, text string) {
	for _, r := range text {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.Nil(t, v.Init())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_SetRecords(t *testing.T) {
	v := newTestView()

	assert.Len(t, v.Shown(), 3)
	assert.NoError(t, v.Err())

	out := v.View()
	assert.Contains(t, out, "Records")
	assert.Contains(t, out, "3 of 3 record(s)")
	assert.Contains(t, out, "distribusi")
}

func TestView_SetQuery(t *testing.T) {
	v := newTestView()

	v.SetQuery(`sector == "Minol" && presence == 1`)

	require.Len(t, v.Shown(), 1)
	assert.Equal(t, "distribusi", v.Shown()[0].Domain)
	assert.Contains(t, v.View(), "1 of 3 record(s)")
}

func TestView_SetQuery_Invalid(t *testing.T) {
	v := newTestView()

	v.SetQuery("unknown_field > 1")

	assert.Error(t, v.Err())
	assert.Empty(t, v.Shown())
	assert.Contains(t, v.View(), "Error:")
}

func TestView_QueryLine(t *testing.T) {
	v := newTestView()

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.True(t, v.Editing())

	typeText(v, "has_year")
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, v.Editing())
	assert.Equal(t, "has_year", v.Query())
	assert.Len(t, v.Shown(), 2)
	assert.Contains(t, v.View(), "where has_year")
}

func TestView_QueryLine_EscKeepsQuery(t *testing.T) {
	v := newTestView()
	v.SetQuery("detail == 1")

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	typeText(v, " || true")
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, v.Editing())
	assert.Equal(t, "detail == 1", v.Query())
	assert.Len(t, v.Shown(), 1)
}

func TestView_QueryLine_ClearShowsAll(t *testing.T) {
	v := newTestView()
	v.SetQuery("detail == 1")

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	for range "detail == 1" {
		v.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "", v.Query())
	assert.Len(t, v.Shown(), 3)
}

func TestView_SetRecords_ReappliesQuery(t *testing.T) {
	v := newTestView()
	v.SetQuery("year >= 2020")

	v.SetRecords(testRecords()[1:])

	assert.Empty(t, v.Shown())
	assert.Contains(t, v.View(), "No records match.")
}

func TestView_Navigation(t *testing.T) {
	v := newTestView()

	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 1, v.table.Cursor())
}

func TestView_Update_WindowSize(t *testing.T) {
	v := NewView(nil)

	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.True(t, v.ready)
	assert.Equal(t, 100, v.width)
	assert.Equal(t, 40, v.height)
}

func TestRow_MissingYear(t *testing.T) {
	r := row(testRecords()[1])

	assert.Equal(t, "-", r[9])
	assert.Equal(t, "6", r[8])
}
