package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

func TestSettingEntries(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Source.Delimiter = '\t'
	settings.Ranking = map[string]int{"Perda": 1}

	entries := settingEntries(&settings)
	values := make(map[string]string, len(entries))
	for _, e := range entries {
		values[e.Key] = e.Value
	}

	tests := []struct {
		key      string
		expected string
	}{
		{"source.delimiter", "tab"},
		{"sectors.primary", "Minol"},
		{"sectors.secondary", "Tembakau"},
		{"forecast.horizon", "2"},
		{"storage.backend", "memory"},
		{"storage.dir", "(default)"},
		{"watch.enabled", "false"},
		{"ranking.UUD", "5"},
		{"ranking.Perda", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, values[tt.key])
		})
	}
}

func TestSettingEntries_RankingOrder(t *testing.T) {
	settings := domain.DefaultAppSettings()

	entries := settingEntries(&settings)

	var ranking []string
	for _, e := range entries {
		if len(e.Key) > len("ranking.") && e.Key[:len("ranking.")] == "ranking." {
			ranking = append(ranking, e.Key)
		}
	}
	assert.Equal(t, []string{
		"ranking.UUD", "ranking.UU", "ranking.PP", "ranking.Perpres", "ranking.Permen", "ranking.Perban",
	}, ranking)
}

func TestSettingsCmd_Show(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "sectors.primary")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_ShowJSON(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "settings", "-o", "json")
	require.NoError(t, err)

	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.Equal(t, env.csvPath, values["source.path"])
	assert.Equal(t, "2", values["forecast.step"])
}

func TestSettingsCmd_Set(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "settings", "set", "forecast.horizon", "4")

	require.NoError(t, err)
	assert.Contains(t, out, "forecast.horizon = 4")
	cfg, err := env.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Forecast.Horizon)
}

func TestSettingsCmd_SetWarnsOnInvalidCombination(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "set", "sectors.secondary", "Minol")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
}

func TestSettingsCmd_SetErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"settings", "set", "colour", "blue"}},
		{"bad number", []string{"settings", "set", "forecast.step", "soon"}},
		{"missing value", []string{"settings", "set", "forecast.step"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)

			_, err := execute(t, tt.args...)

			assert.Error(t, err)
		})
	}
}

func TestSettingsCmd_NoService(t *testing.T) {
	SetServices(nil)

	_, err := execute(t, "settings")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
