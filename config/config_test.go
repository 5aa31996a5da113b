package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/nightplan/core/model"
)

const validYAML = `
site:
  latitude_deg: 44.0
  longitude_deg: 5.0
  elevation_m: 650
  timezone: Europe/Paris
constraints:
  min_altitude_deg: 20
  max_altitude_deg: 85
  min_moon_sep_deg: 15
  min_score: 0.6
  status_multipliers:
    complete: 0.1
    needs_more_data: 2.0
mode: quality
catalog:
  path: targets.json
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)

	assert.Equal(t, 44.0, cfg.Site.LatitudeDeg)
	assert.Equal(t, "Europe/Paris", cfg.Site.Timezone)
	assert.Equal(t, 20.0, cfg.Constraints.MinAltitudeDeg)
	assert.Equal(t, 0.1, cfg.Constraints.Multiplier(model.StatusComplete))
	assert.Equal(t, model.ModeQuality, cfg.Mode)
	assert.Equal(t, "targets.json", cfg.Catalog.Path)

	// Unset sections pick up defaults.
	assert.Equal(t, 15, cfg.Planner.SampleStepMinutes)
	assert.Equal(t, 5, cfg.Planner.SlewBufferMinutes)
	assert.Equal(t, 0.5, cfg.Planner.RelaxedScoreFloor)
	assert.Equal(t, ":9090", cfg.Metrics.PrometheusAddr)
	assert.False(t, cfg.MQTT.Enabled)
}

func TestLoadJSON(t *testing.T) {
	payload := `{
		"site": {"latitude_deg": 44, "longitude_deg": 5},
		"constraints": {"min_altitude_deg": 20, "max_altitude_deg": 85, "min_moon_sep_deg": 15, "min_score": 0.6},
		"catalog": {"path": "targets.json"}
	}`
	cfg, err := Load(writeConfig(t, "config.json", payload))
	require.NoError(t, err)
	// Mode defaults when omitted.
	assert.Equal(t, model.ModeBalanced, cfg.Mode)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NP_SITE__LATITUDE_DEG", "46.2")
	t.Setenv("NP_MODE", "quantity")

	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)
	assert.Equal(t, 46.2, cfg.Site.LatitudeDeg)
	assert.Equal(t, model.ModeQuantity, cfg.Mode)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", "mode = 'quality'"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"bad mode": `
site: {latitude_deg: 44, longitude_deg: 5}
constraints: {min_altitude_deg: 20, max_altitude_deg: 85, min_score: 0.6}
mode: turbo
catalog: {path: targets.json}
`,
		"missing catalog": `
site: {latitude_deg: 44, longitude_deg: 5}
constraints: {min_altitude_deg: 20, max_altitude_deg: 85, min_score: 0.6}
`,
		"bad constraints": `
site: {latitude_deg: 44, longitude_deg: 5}
constraints: {min_altitude_deg: 50, max_altitude_deg: 20}
catalog: {path: targets.json}
`,
		"mqtt enabled without broker": `
site: {latitude_deg: 44, longitude_deg: 5}
constraints: {min_altitude_deg: 20, max_altitude_deg: 85, min_score: 0.6}
catalog: {path: targets.json}
mqtt: {enabled: true}
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", content))
			assert.Error(t, err)
		})
	}
}
