package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Columns lists the CSV header names every input table must carry.
var Columns = []string{"sector", "domain", "regulasi", "level", "presence", "detail"}

// Record is one regulation row.
// The first six fields come from the input table; the rest are derived
// by enrichment and are overwritten every time enrichment runs.
type Record struct {
	// Sector is the product category (e.g., "Minol", "Tembakau").
	Sector string `json:"sector"`

	// Domain is the regulatory area (e.g., "distribusi", "label").
	Domain string `json:"domain"`

	// Regulasi is the title of the legal instrument.
	// It usually embeds the year of enactment.
	Regulasi string `json:"regulasi"`

	// Level is the legal-hierarchy tier key (see Ranking).
	Level string `json:"level"`

	// Presence is 1 when the rule instance exists for the sector, else 0.
	Presence int `json:"presence"`

	// Detail is 1 when the rule is elaborated in detail, else 0.
	Detail int `json:"detail"`

	// Sanction mirrors Presence: an existing rule is treated as carrying a sanction clause.
	Sanction int `json:"sanction"`

	// LevelScore is the rank of Level, 0 when the level is not recognised.
	LevelScore int `json:"level_score"`

	// IntensityScore is LevelScore + Detail + Sanction.
	IntensityScore int `json:"intensity_score"`

	// Year is the enactment year extracted from Regulasi, 0 when absent.
	Year int `json:"year,omitempty"`
}

// HasYear reports whether a year could be extracted from Regulasi.
func (r Record) HasYear() bool {
	return r.Year != 0
}

// Ranking maps level keys to their strictness rank.
// Higher ranks bind more strongly.
type Ranking map[string]int

// Level keys of the Indonesian legal hierarchy.
const (
	LevelUUD     = "UUD"     // constitution
	LevelUU      = "UU"      // statute
	LevelPP      = "PP"      // government regulation
	LevelPerpres = "Perpres" // presidential regulation
	LevelPermen  = "Permen"  // ministerial regulation
	LevelPerban  = "Perban"  // agency regulation
)

// DefaultRanking returns the built-in hierarchy, highest to lowest:
// constitution, statute, government/presidential, ministerial, agency.
func DefaultRanking() Ranking {
	return Ranking{
		LevelUUD:     5,
		LevelUU:      4,
		LevelPP:      3,
		LevelPerpres: 3,
		LevelPermen:  2,
		LevelPerban:  1,
	}
}

// Score returns the rank of a level, or 0 for an unrecognised level.
func (r Ranking) Score(level string) int {
	return r[strings.TrimSpace(level)]
}

// MaxRank returns the highest rank in the table.
func (r Ranking) MaxRank() int {
	maxRank := 0
	for _, rank := range r {
		if rank > maxRank {
			maxRank = rank
		}
	}
	return maxRank
}

// MaxIntensity is the upper bound of IntensityScore under this ranking.
func (r Ranking) MaxIntensity() int {
	return r.MaxRank() + 2
}

// Merge returns a copy of r with the given overrides applied.
// Non-positive overrides are ignored.
func (r Ranking) Merge(overrides map[string]int) Ranking {
	merged := make(Ranking, len(r)+len(overrides))
	for level, rank := range r {
		merged[level] = rank
	}
	for level, rank := range overrides {
		if rank > 0 {
			merged[strings.TrimSpace(level)] = rank
		}
	}
	return merged
}

// yearPattern matches a 4-digit run between 1900 and 2099 that is not part
// of a longer number. Letters and punctuation may touch it.
var yearPattern = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)

// ExtractYear returns the first year in [1900, 2099] embedded in text.
// "PP No. 3 Tahun 2015" and "Tahun2015" yield 2015; "Permen 2" yields false.
func ExtractYear(text string) (int, bool) {
	match := yearPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return year, true
}
