package gridengine

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end: geographic zones through projection, rasterization and the
// contract boundary, the way the CLI drives it.
func TestPipelineGeoToProblem(t *testing.T) {
	zones, err := ParseZones([]byte(zoneFixture), 10)
	require.NoError(t, err)

	bounds := ForwardBound(orb.Bound{
		Min: orb.Point{4.999, 51.999},
		Max: orb.Point{5.006, 52.003},
	})
	width, height := GridSize(bounds, 25)
	require.NoError(t, CheckGridSize(width, height))

	env := Rasterize(RasterOptions{
		CellSizeM: 25,
		Bounds:    bounds,
		Zones:     zones,
		CostTypes: map[string]CostZoneType{
			"crowded": {ID: "crowded", Name: "Crowded", Multiplier: 3},
		},
	})

	// The hospital no-fly zone blocked something, and its own center is
	// blocked for sure.
	hospital := Forward(orb.Point{5.0005, 52.0005})
	id, ok := env.WorldToCell(hospital.X(), hospital.Y())
	require.True(t, ok)
	assert.True(t, env.IsBlocked(id))

	// The stadium cost zone multiplied at least part of its interior.
	maxMult := 0.0
	for id := 0; id < env.CellCount(); id++ {
		if !env.IsBlocked(id) && env.CostMultiplierAt(id) > maxMult {
			maxMult = env.CostMultiplierAt(id)
		}
	}
	assert.Equal(t, 3.0, maxMult)

	// Freeze into the contract and round-trip over the wire.
	start, ok := env.WorldToCell(Forward(orb.Point{4.9995, 51.9995}).X(), Forward(orb.Point{4.9995, 51.9995}).Y())
	require.True(t, ok)
	goal, ok := env.WorldToCell(Forward(orb.Point{5.0055, 52.0025}).X(), Forward(orb.Point{5.0055, 52.0025}).Y())
	require.True(t, ok)

	problem := env.ToProblem(start, goal)
	require.NoError(t, problem.Validate())

	data, err := json.Marshal(problem)
	require.NoError(t, err)
	var back GridProblem
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, back.Width*back.Height, len(back.Blocked))
	assert.Equal(t, problem.Blocked, back.Blocked)

	// A registered algorithm consumes the round-tripped problem untouched.
	r := NewRegistry()
	require.NoError(t, r.Register(straightWalker()))
	res, err := r.Execute("walker", &back, DefaultRunOptions())
	require.NoError(t, err)
	// Start and goal are on different rows, so the naive walker gives up;
	// that is Unreachable, not an error.
	if len(res.Path) == 0 {
		assert.True(t, math.IsInf(res.Cost, 1))
	}
}
