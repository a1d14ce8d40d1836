package gridengine

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openGrid(width, height int, cellSizeM float64) *GridEnvironment {
	cells := width * height
	cost := make([]float64, cells)
	for i := range cost {
		cost[i] = 1.0
	}
	return &GridEnvironment{
		Width:     width,
		Height:    height,
		CellSizeM: cellSizeM,
		Bounds: orb.Bound{
			Min: orb.Point{0, 0},
			Max: orb.Point{float64(width) * cellSizeM, float64(height) * cellSizeM},
		},
		Blocked:        make([]bool, cells),
		CostMultiplier: cost,
	}
}

func TestCellIDRoundTrip(t *testing.T) {
	g := openGrid(7, 5, 10)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			id := g.CellID(col, row)
			c, r := g.ColRow(id)
			assert.Equal(t, col, c)
			assert.Equal(t, row, r)
		}
	}
	assert.Equal(t, 0, g.CellID(0, 0))
	assert.Equal(t, g.CellCount()-1, g.CellID(6, 4))
}

func TestWorldToCell(t *testing.T) {
	g := openGrid(10, 10, 10)

	id, ok := g.WorldToCell(5, 5)
	require.True(t, ok)
	assert.Equal(t, 0, id)

	id, ok = g.WorldToCell(99.999, 99.999)
	require.True(t, ok)
	assert.Equal(t, 99, id)

	// Min edge is inside, max edge is not (half-open rectangle).
	_, ok = g.WorldToCell(0, 0)
	assert.True(t, ok)
	_, ok = g.WorldToCell(100, 50)
	assert.False(t, ok)
	_, ok = g.WorldToCell(50, 100)
	assert.False(t, ok)
	_, ok = g.WorldToCell(-0.001, 50)
	assert.False(t, ok)
}

func TestCellCenter(t *testing.T) {
	g := openGrid(10, 10, 10)

	c := g.CellCenter(0)
	assert.Equal(t, orb.Point{5, 5}, c)
	c = g.CellCenter(g.CellID(3, 7))
	assert.Equal(t, orb.Point{35, 75}, c)

	// The center maps back to its own cell.
	id, ok := g.WorldToCell(c.X(), c.Y())
	require.True(t, ok)
	assert.Equal(t, g.CellID(3, 7), id)
}

func TestCostMultiplierAtDefaults(t *testing.T) {
	g := openGrid(3, 3, 10)
	g.CostMultiplier[0] = math.NaN()
	g.CostMultiplier[1] = math.Inf(1)
	g.CostMultiplier[2] = -2
	g.CostMultiplier[3] = 0
	g.CostMultiplier[4] = 2.5

	assert.Equal(t, 1.0, g.CostMultiplierAt(0))
	assert.Equal(t, 1.0, g.CostMultiplierAt(1))
	assert.Equal(t, 1.0, g.CostMultiplierAt(2))
	assert.Equal(t, 1.0, g.CostMultiplierAt(3))
	assert.Equal(t, 2.5, g.CostMultiplierAt(4))
}

func TestNeighbors8Interior(t *testing.T) {
	g := openGrid(10, 10, 10)
	ns := g.Neighbors8(g.CellID(5, 5))
	require.Len(t, ns, 8)

	orthogonal, diagonal := 0, 0
	for _, n := range ns {
		switch {
		case math.Abs(n.DistanceM-10) < 1e-12:
			orthogonal++
		case math.Abs(n.DistanceM-10*math.Sqrt2) < 1e-12:
			diagonal++
		default:
			t.Fatalf("unexpected step distance %v", n.DistanceM)
		}
	}
	assert.Equal(t, 4, orthogonal)
	assert.Equal(t, 4, diagonal)
}

func TestNeighbors8Edges(t *testing.T) {
	g := openGrid(10, 10, 10)

	assert.Len(t, g.Neighbors8(g.CellID(0, 0)), 3)
	assert.Len(t, g.Neighbors8(g.CellID(5, 0)), 5)
	assert.Len(t, g.Neighbors8(g.CellID(9, 9)), 3)

	for _, n := range g.Neighbors8(g.CellID(0, 0)) {
		assert.GreaterOrEqual(t, n.ID, 0)
		assert.Less(t, n.ID, g.CellCount())
	}
}

func TestNeighbors8FiltersBlocked(t *testing.T) {
	g := openGrid(10, 10, 10)
	center := g.CellID(5, 5)
	g.Blocked[g.CellID(5, 4)] = true
	g.Blocked[g.CellID(6, 6)] = true

	ns := g.Neighbors8(center)
	assert.Len(t, ns, 6)
	for _, n := range ns {
		assert.False(t, g.Blocked[n.ID], "neighbor %d must not be blocked", n.ID)
	}
}

func TestStepCost(t *testing.T) {
	g := openGrid(10, 10, 10)
	g.CostMultiplier[g.CellID(3, 3)] = 3

	// Cost belongs to the destination cell.
	assert.Equal(t, 30.0, g.StepCost(g.CellID(3, 3), 10))
	assert.Equal(t, 10.0, g.StepCost(g.CellID(4, 3), 10))
}

func TestCellCenterGeo(t *testing.T) {
	bounds := ForwardBound(orb.Bound{Min: orb.Point{5.0, 52.0}, Max: orb.Point{5.01, 52.01}})
	env := Rasterize(RasterOptions{CellSizeM: 50, Bounds: bounds})

	geo := env.CellCenterGeo(0)
	assert.Greater(t, geo.Lon(), 5.0)
	assert.Less(t, geo.Lon(), 5.01)
	assert.Greater(t, geo.Lat(), 52.0)
	assert.Less(t, geo.Lat(), 52.01)
}
