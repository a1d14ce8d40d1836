package gridengine

import (
	"math"

	"github.com/paulmach/orb"
)

// ZoneKind distinguishes impassable zones from cost-multiplier zones.
type ZoneKind string

const (
	ZoneNoFly ZoneKind = "no_fly"
	ZoneCost  ZoneKind = "cost"
)

// DefaultNoFlyBufferM is the default outward safety margin applied to no-fly
// geometry before rasterization.
const DefaultNoFlyBufferM = 10.0

// CostZoneType describes a reusable cost category referenced by cost zones.
// Multipliers above 1 discourage traversal, below 1 encourage it. Color is
// display-only and never affects rasterization.
type CostZoneType struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
	Color      string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Zone is a user-drawn constraint in planar (Web Mercator meter) coordinates.
// A no-fly zone carries both its original geometry and a buffered copy; the
// buffered copy is authoritative for rasterization. A cost zone references a
// CostZoneType by id and rasterizes its original, unbuffered geometry.
type Zone struct {
	ID         string
	Name       string
	Kind       ZoneKind
	Geometry   orb.MultiPolygon
	Buffered   orb.MultiPolygon
	CostTypeID string
}

// NewNoFlyZone builds a no-fly zone, expanding the geometry outward by
// bufferM meters. A zero or negative buffer keeps the original geometry.
func NewNoFlyZone(id, name string, geom orb.MultiPolygon, bufferM float64) *Zone {
	return &Zone{
		ID:       id,
		Name:     name,
		Kind:     ZoneNoFly,
		Geometry: geom,
		Buffered: BufferMultiPolygon(geom, bufferM),
	}
}

// NewCostZone builds a cost zone referencing a cost type by id.
func NewCostZone(id, name string, geom orb.MultiPolygon, costTypeID string) *Zone {
	return &Zone{
		ID:         id,
		Name:       name,
		Kind:       ZoneCost,
		Geometry:   geom,
		CostTypeID: costTypeID,
	}
}

// RasterGeometry returns the geometry the rasterizer must test against: the
// buffered polygon for no-fly zones, the original for cost zones.
func (z *Zone) RasterGeometry() orb.MultiPolygon {
	if z.Kind == ZoneNoFly && len(z.Buffered) > 0 {
		return z.Buffered
	}
	return z.Geometry
}

// Bound returns the bounding box of the raster geometry.
func (z *Zone) Bound() orb.Bound {
	return z.RasterGeometry().Bound()
}

// BufferMultiPolygon expands every member polygon outward by margin meters:
// outer rings grow, holes shrink. A margin <= 0 returns the input unchanged.
func BufferMultiPolygon(mp orb.MultiPolygon, margin float64) orb.MultiPolygon {
	if margin <= 0 {
		return mp
	}
	out := make(orb.MultiPolygon, len(mp))
	for i, poly := range mp {
		out[i] = BufferPolygon(poly, margin)
	}
	return out
}

// BufferPolygon offsets each ring of a polygon by margin meters away from the
// polygon interior.
func BufferPolygon(poly orb.Polygon, margin float64) orb.Polygon {
	if margin <= 0 {
		return poly
	}
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		out[i] = offsetRing(ring, margin, i > 0)
	}
	return out
}

// offsetRing moves each vertex along its angle bisector by a mitered margin.
// Flat edges move by exactly margin; the miter is capped at 4x margin so
// near-degenerate spikes cannot shoot vertices off to infinity. Rings with
// fewer than three distinct vertices are returned unchanged.
func offsetRing(ring orb.Ring, margin float64, hole bool) orb.Ring {
	pts := ring
	closed := len(pts) > 1 && pts[0] == pts[len(pts)-1]
	if closed {
		pts = pts[:len(pts)-1]
	}
	n := len(pts)
	if n < 3 {
		return ring
	}

	// Outward normal of an edge is right-of-travel for counter-clockwise
	// rings, left-of-travel for clockwise ones. Holes offset the other way
	// so the solid grows into them.
	sign := 1.0
	if ringSignedArea(pts) < 0 {
		sign = -1.0
	}
	if hole {
		sign = -sign
	}

	out := make(orb.Ring, n, n+1)
	for i := 0; i < n; i++ {
		prev := pts[(i+n-1)%n]
		cur := pts[i]
		next := pts[(i+1)%n]

		n1x, n1y := edgeNormal(prev, cur, sign)
		n2x, n2y := edgeNormal(cur, next, sign)
		bx, by := n1x+n2x, n1y+n2y
		bLen := math.Hypot(bx, by)
		if bLen < 1e-12 {
			bx, by = n1x, n1y
		} else {
			bx, by = bx/bLen, by/bLen
		}

		scale := margin
		cosHalf := math.Sqrt(math.Max(0, (1+n1x*n2x+n1y*n2y)/2))
		if cosHalf > 0.25 {
			scale = margin / cosHalf
		} else {
			scale = margin * 4
		}
		out[i] = orb.Point{cur.X() + bx*scale, cur.Y() + by*scale}
	}
	if closed {
		out = append(out, out[0])
	}
	return out
}

// edgeNormal returns the unit normal of edge a->b on the sign side.
// Zero-length edges yield a zero normal.
func edgeNormal(a, b orb.Point, sign float64) (float64, float64) {
	dx := b.X() - a.X()
	dy := b.Y() - a.Y()
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return sign * dy / l, -sign * dx / l
}

// ringSignedArea is the shoelace area over an open vertex list; positive for
// counter-clockwise winding.
func ringSignedArea(pts orb.Ring) float64 {
	area := 0.0
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X()*pts[j].Y() - pts[j].X()*pts[i].Y()
	}
	return area / 2
}
