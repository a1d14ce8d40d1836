package gridengine

import (
	"math"

	"github.com/paulmach/orb"
)

// GridEnvironment is the rasterizer's output: a stateless, read-only view
// over dense row-major arrays. Cell ids are row*Width + col with rows
// increasing northward. Built once per (bounds, resolution, zone-set)
// combination and rebuilt from scratch whenever any of those change.
type GridEnvironment struct {
	Width          int
	Height         int
	CellSizeM      float64
	Bounds         orb.Bound
	Blocked        []bool
	CostMultiplier []float64
}

// Neighbor is one traversable step out of a cell.
type Neighbor struct {
	ID        int
	DistanceM float64
}

// neighborDirs lists the 8-connected offsets with their distance factors.
var neighborDirs = [8]struct {
	dc, dr int
	factor float64
}{
	{1, 0, 1}, {-1, 0, 1}, {0, 1, 1}, {0, -1, 1},
	{1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

// CellCount returns Width*Height.
func (g *GridEnvironment) CellCount() int {
	return g.Width * g.Height
}

// InBounds reports whether the column/row pair addresses a cell.
func (g *GridEnvironment) InBounds(col, row int) bool {
	return col >= 0 && col < g.Width && row >= 0 && row < g.Height
}

// CellID converts a column/row pair to a row-major cell id.
func (g *GridEnvironment) CellID(col, row int) int {
	return row*g.Width + col
}

// ColRow is the inverse of CellID.
func (g *GridEnvironment) ColRow(id int) (col, row int) {
	row = id / g.Width
	col = id - row*g.Width
	return col, row
}

// WorldToCell maps planar coordinates to the owning cell id. Points outside
// the half-open rectangle [minX,maxX) x [minY,maxY) own no cell.
func (g *GridEnvironment) WorldToCell(x, y float64) (int, bool) {
	if x < g.Bounds.Min.X() || x >= g.Bounds.Max.X() ||
		y < g.Bounds.Min.Y() || y >= g.Bounds.Max.Y() {
		return 0, false
	}
	col := int((x - g.Bounds.Min.X()) / g.CellSizeM)
	row := int((y - g.Bounds.Min.Y()) / g.CellSizeM)
	if col >= g.Width {
		col = g.Width - 1
	}
	if row >= g.Height {
		row = g.Height - 1
	}
	return g.CellID(col, row), true
}

// CellCenter returns the planar center point of a cell.
func (g *GridEnvironment) CellCenter(id int) orb.Point {
	col, row := g.ColRow(id)
	return orb.Point{
		g.Bounds.Min.X() + (float64(col)+0.5)*g.CellSizeM,
		g.Bounds.Min.Y() + (float64(row)+0.5)*g.CellSizeM,
	}
}

// CellCenterGeo returns the cell center as (lon, lat) degrees, for mapping
// results back onto a basemap.
func (g *GridEnvironment) CellCenterGeo(id int) orb.Point {
	return Inverse(g.CellCenter(id))
}

// IsBlocked reports whether a cell is impassable.
func (g *GridEnvironment) IsBlocked(id int) bool {
	return g.Blocked[id]
}

// CostMultiplierAt returns the cell's cost multiplier, defaulting to 1.0
// when the stored value is non-finite or non-positive.
func (g *GridEnvironment) CostMultiplierAt(id int) float64 {
	m := g.CostMultiplier[id]
	if !(m > 0) || math.IsInf(m, 0) || math.IsNaN(m) {
		return 1.0
	}
	return m
}

// StepCost prices a move by the destination cell: geometric step distance
// scaled by the multiplier of the cell being entered. This is the default
// cost model every algorithm is compared under.
func (g *GridEnvironment) StepCost(toID int, stepDistanceM float64) float64 {
	return stepDistanceM * g.CostMultiplierAt(toID)
}

// Neighbors8 returns the up-to-8 in-bounds, non-blocked neighbors of a cell
// with their step distances (CellSizeM orthogonally, CellSizeM*sqrt(2)
// diagonally). Blocked cells are filtered here so algorithms never re-check.
func (g *GridEnvironment) Neighbors8(id int) []Neighbor {
	col, row := g.ColRow(id)
	out := make([]Neighbor, 0, 8)
	for _, d := range neighborDirs {
		c := col + d.dc
		r := row + d.dr
		if !g.InBounds(c, r) {
			continue
		}
		nid := g.CellID(c, r)
		if g.Blocked[nid] {
			continue
		}
		out = append(out, Neighbor{ID: nid, DistanceM: g.CellSizeM * d.factor})
	}
	return out
}

// ToProblem freezes the environment into the contract shape handed to
// algorithms. The arrays are shared, not copied; the contract requires
// algorithms to treat them as read-only.
func (g *GridEnvironment) ToProblem(start, goal int) GridProblem {
	return GridProblem{
		Width:          g.Width,
		Height:         g.Height,
		CellSizeM:      g.CellSizeM,
		Bounds:         BoundsMeters{MinX: g.Bounds.Min.X(), MinY: g.Bounds.Min.Y(), MaxX: g.Bounds.Max.X(), MaxY: g.Bounds.Max.Y()},
		Start:          start,
		Goal:           goal,
		Blocked:        g.Blocked,
		CostMultiplier: g.CostMultiplier,
	}
}

// cellRange converts a planar bounding box to the clamped inclusive
// column/row span it covers, so zone scans touch only the cells the zone can
// reach.
func (g *GridEnvironment) cellRange(b orb.Bound) (colMin, colMax, rowMin, rowMax int) {
	colMin = clampInt(int(math.Floor((b.Min.X()-g.Bounds.Min.X())/g.CellSizeM)), 0, g.Width-1)
	colMax = clampInt(int(math.Floor((b.Max.X()-g.Bounds.Min.X())/g.CellSizeM)), 0, g.Width-1)
	rowMin = clampInt(int(math.Floor((b.Min.Y()-g.Bounds.Min.Y())/g.CellSizeM)), 0, g.Height-1)
	rowMax = clampInt(int(math.Floor((b.Max.Y()-g.Bounds.Min.Y())/g.CellSizeM)), 0, g.Height-1)
	return colMin, colMax, rowMin, rowMax
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
