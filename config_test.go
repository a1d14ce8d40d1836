package gridengine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioFixture = `
bounds:
  min_lon: 5.0
  min_lat: 52.0
  max_lon: 5.02
  max_lat: 52.01
cell_size_m: 25
zone_dir: zones
cost_types:
  - id: crowded
    name: Crowded area
    multiplier: 3
    color: "#ff0000"
  - id: corridor
    name: Preferred corridor
    multiplier: 0.5
avoid_high_multiplier: true
rolloff_distance_m: 100
start: {lon: 5.001, lat: 52.001}
goal: {lon: 5.019, lat: 52.009}
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioFixture))
	require.NoError(t, err)

	assert.Equal(t, 25.0, s.CellSizeM)
	assert.Equal(t, "zones", s.ZoneDir)
	assert.True(t, s.AvoidHighMultiplier)
	assert.Equal(t, 100.0, s.RolloffDistanceM)
	assert.Equal(t, DefaultNoFlyBufferM, s.NoFlyBuffer(), "buffer defaults to 10 m")

	table := s.CostTypeTable()
	require.Len(t, table, 2)
	assert.Equal(t, 3.0, table["crowded"].Multiplier)
	assert.Equal(t, 0.5, table["corridor"].Multiplier)

	bounds := s.PlanarBounds()
	assert.Less(t, bounds.Min.X(), bounds.Max.X())
	assert.Less(t, bounds.Min.Y(), bounds.Max.Y())

	w, h := GridSize(bounds, s.CellSizeM)
	assert.NoError(t, CheckGridSize(w, h))
}

func TestScenarioExplicitBuffer(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioFixture+"no_fly_buffer_m: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.NoFlyBuffer())
}

func TestScenarioValidation(t *testing.T) {
	cases := map[string]Scenario{
		"zero cell size": {
			Bounds: GeoRect{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1},
		},
		"inverted bounds": {
			Bounds:    GeoRect{MinLon: 1, MinLat: 0, MaxLon: 0, MaxLat: 1},
			CellSizeM: 10,
		},
		"negative rolloff": {
			Bounds:           GeoRect{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1},
			CellSizeM:        10,
			RolloffDistanceM: -5,
		},
		"bad cost type": {
			Bounds:    GeoRect{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1},
			CellSizeM: 10,
			CostTypes: []CostZoneType{{ID: "zero", Multiplier: 0}},
		},
	}
	for name, s := range cases {
		s := s
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Validate())
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
