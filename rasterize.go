package gridengine

import (
	"math"

	"github.com/paulmach/orb"
)

// MaxGridCells is the guard callers must enforce before rasterizing.
// Rasterize itself never rejects a request; it must simply stay correct at
// this scale.
const MaxGridCells = 250000

// RasterOptions are the inputs to one rasterization run. Bounds are planar
// meters with MinX < MaxX and MinY < MaxY; CellSizeM must be positive.
type RasterOptions struct {
	CellSizeM float64
	Bounds    orb.Bound
	Zones     []*Zone
	CostTypes map[string]CostZoneType

	// AvoidHighMultiplier enables the soft rolloff pass: cells near a
	// discouraging cost zone get a linearly decaying multiplier instead of
	// a cost cliff at the zone boundary.
	AvoidHighMultiplier bool
	RolloffDistanceM    float64
}

// GridSize derives the grid dimensions for a bounds/resolution pair. A
// degenerate rectangle still yields at least one cell per axis.
func GridSize(bounds orb.Bound, cellSizeM float64) (width, height int) {
	width = int(math.Ceil((bounds.Max.X() - bounds.Min.X()) / cellSizeM))
	height = int(math.Ceil((bounds.Max.Y() - bounds.Min.Y()) / cellSizeM))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// CheckGridSize is the caller-side cap check. It is never called from inside
// Rasterize.
func CheckGridSize(width, height int) error {
	if width*height > MaxGridCells {
		return ErrInputTooLarge
	}
	return nil
}

// Rasterize projects the zone set onto a dense grid. No-fly zones rasterize
// first so the output is independent of the order zones arrive in: a blocked
// cell is final and skips all later cost processing. Cost zones compose
// multiplicatively where they overlap. Cell membership is decided by testing
// the cell center against the zone polygon (point sampling); a polygon sliver
// that threads between cell centers is invisible to the grid.
func Rasterize(opts RasterOptions) *GridEnvironment {
	width, height := GridSize(opts.Bounds, opts.CellSizeM)
	cells := width * height

	blocked := make([]bool, cells)
	cost := make([]float64, cells)
	for i := range cost {
		cost[i] = 1.0
	}

	env := &GridEnvironment{
		Width:          width,
		Height:         height,
		CellSizeM:      opts.CellSizeM,
		Bounds:         opts.Bounds,
		Blocked:        blocked,
		CostMultiplier: cost,
	}

	// Zones whose bounding box misses the planning rectangle contribute no
	// work at all.
	index := NewSpatialIndex(opts.Zones)
	candidates := index.QueryRegion(
		opts.Bounds.Min.X(), opts.Bounds.Min.Y(),
		opts.Bounds.Max.X(), opts.Bounds.Max.Y(),
	)

	var noFly, costZones []*Zone
	for _, z := range candidates {
		switch z.Kind {
		case ZoneNoFly:
			noFly = append(noFly, z)
		case ZoneCost:
			costZones = append(costZones, z)
		}
	}

	for _, zone := range noFly {
		geom := zone.RasterGeometry()
		colMin, colMax, rowMin, rowMax := env.cellRange(geom.Bound())
		for row := rowMin; row <= rowMax; row++ {
			for col := colMin; col <= colMax; col++ {
				id := row*width + col
				if blocked[id] {
					continue
				}
				if PointInMultiPolygon(env.CellCenter(id), geom) {
					blocked[id] = true
				}
			}
		}
	}

	// Cells covered by a cost zone exactly (center inside the polygon); the
	// rolloff pass must not touch these.
	exact := make([]bool, cells)

	for _, zone := range costZones {
		mult, ok := costMultiplierFor(zone, opts.CostTypes)
		if !ok {
			continue
		}
		geom := zone.RasterGeometry()
		colMin, colMax, rowMin, rowMax := env.cellRange(geom.Bound())
		for row := rowMin; row <= rowMax; row++ {
			for col := colMin; col <= colMax; col++ {
				id := row*width + col
				if blocked[id] {
					continue
				}
				if PointInMultiPolygon(env.CellCenter(id), geom) {
					cost[id] *= mult
					exact[id] = true
				}
			}
		}
	}

	if opts.AvoidHighMultiplier && opts.RolloffDistanceM > 0 {
		applyRolloff(env, costZones, opts.CostTypes, opts.RolloffDistanceM, exact)
	}

	return env
}

// applyRolloff spreads a decaying multiplier around every discouraging
// (multiplier > 1) cost zone. Each qualifying cell accumulates one falloff
// factor per nearby zone; the arithmetic mean of those factors is applied
// multiplicatively, and only when it still discourages (> 1). Blocked cells
// and cells already inside a cost zone are left alone.
func applyRolloff(env *GridEnvironment, costZones []*Zone, types map[string]CostZoneType, rolloffM float64, exact []bool) {
	cells := env.Width * env.Height
	sum := make([]float64, cells)
	count := make([]int, cells)

	for _, zone := range costZones {
		mult, ok := costMultiplierFor(zone, types)
		if !ok || mult <= 1 {
			continue
		}
		geom := zone.RasterGeometry()
		b := geom.Bound()
		padded := orb.Bound{
			Min: orb.Point{b.Min.X() - rolloffM, b.Min.Y() - rolloffM},
			Max: orb.Point{b.Max.X() + rolloffM, b.Max.Y() + rolloffM},
		}
		colMin, colMax, rowMin, rowMax := env.cellRange(padded)
		for row := rowMin; row <= rowMax; row++ {
			for col := colMin; col <= colMax; col++ {
				id := row*env.Width + col
				if env.Blocked[id] || exact[id] {
					continue
				}
				d := DistanceToMultiPolygon(env.CellCenter(id), geom)
				if d > rolloffM {
					continue
				}
				sum[id] += 1 + (mult-1)*(1-d/rolloffM)
				count[id]++
			}
		}
	}

	for id := 0; id < cells; id++ {
		if count[id] == 0 {
			continue
		}
		avg := sum[id] / float64(count[id])
		if avg > 1 {
			env.CostMultiplier[id] *= avg
		}
	}
}

// costMultiplierFor resolves a cost zone's multiplier through the type table.
// Zones referencing a missing type or a non-positive multiplier are inert.
func costMultiplierFor(zone *Zone, types map[string]CostZoneType) (float64, bool) {
	t, ok := types[zone.CostTypeID]
	if !ok || !(t.Multiplier > 0) {
		return 0, false
	}
	return t.Multiplier, true
}
