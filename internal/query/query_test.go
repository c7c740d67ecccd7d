package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

func testRecords() []domain.Record {
	return []domain.Record{
		{Sector: "Minol", Domain: "label", Regulasi: "UU 11/1995", Level: "UU",
			Presence: 1, Detail: 1, Sanction: 1, LevelScore: 4, IntensityScore: 6, Year: 1995},
		{Sector: "Minol", Domain: "iklan", Regulasi: "Permen 2", Level: "Permen",
			Presence: 0, Detail: 0, Sanction: 0, LevelScore: 2, IntensityScore: 2},
		{Sector: "Tembakau", Domain: "label", Regulasi: "PP 109/2012", Level: "PP",
			Presence: 1, Detail: 0, Sanction: 1, LevelScore: 3, IntensityScore: 4, Year: 2012},
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected []string
	}{
		{"empty returns all", "", []string{"UU 11/1995", "Permen 2", "PP 109/2012"}},
		{"blank returns all", "   ", []string{"UU 11/1995", "Permen 2", "PP 109/2012"}},
		{"presence", "presence == 1", []string{"UU 11/1995", "PP 109/2012"}},
		{"sector and score", `sector == "Minol" && level_score >= 4`, []string{"UU 11/1995"}},
		{"membership", `domain in ["iklan"]`, []string{"Permen 2"}},
		{"year absent", "!has_year", []string{"Permen 2"}},
		{"year range", "year > 2000", []string{"PP 109/2012"}},
		{"string function", `regulasi.startsWith("PP")`, []string{"PP 109/2012"}},
		{"no match", `sector == "Kopi"`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.expr, testRecords())
			require.NoError(t, err)

			titles := make([]string, 0, len(got))
			for _, r := range got {
				titles = append(titles, r.Regulasi)
			}
			assert.Equal(t, tt.expected, titles)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"empty", ""},
		{"syntax", "presence =="},
		{"unknown variable", "penalty == 1"},
		{"type mismatch", `presence == "1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPredicate_Match_NonBool(t *testing.T) {
	p, err := Compile("level_score + 1")
	require.NoError(t, err)

	_, err = p.Match(testRecords()[0])

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPredicate_String(t *testing.T) {
	p, err := Compile("  detail == 1 ")
	require.NoError(t, err)

	assert.Equal(t, "detail == 1", p.String())
}

func TestPredicate_Filter_PreservesOrder(t *testing.T) {
	p, err := Compile("intensity_score > 0")
	require.NoError(t, err)

	got, err := p.Filter(testRecords())

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Minol", got[0].Sector)
	assert.Equal(t, "Tembakau", got[2].Sector)
}
