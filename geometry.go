package gridengine

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Containment and distance primitives for the rasterizer. Everything here is
// total: degenerate geometry answers "outside" or +Inf, never an error.

// PointInRing reports whether p is inside the ring using a ray-casting parity
// test. The ring is treated as closed whether or not the last vertex repeats
// the first. Horizontal-edge degeneracies are handled by nudging the
// denominator off exact zero, so results on axis-aligned edges are a
// numerical compromise rather than geometrically exact.
func PointInRing(p orb.Point, ring orb.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y() > p.Y()) == (b.Y() > p.Y()) {
			continue
		}
		den := b.Y() - a.Y()
		if den == 0 {
			den = 1e-12
		}
		crossX := a.X() + (p.Y()-a.Y())*(b.X()-a.X())/den
		if p.X() < crossX {
			inside = !inside
		}
	}
	return inside
}

// PointInPolygon reports whether p is inside the outer ring and outside every
// hole ring. An empty polygon contains nothing.
func PointInPolygon(p orb.Point, poly orb.Polygon) bool {
	if len(poly) == 0 {
		return false
	}
	if !PointInRing(p, poly[0]) {
		return false
	}
	for _, hole := range poly[1:] {
		if PointInRing(p, hole) {
			return false
		}
	}
	return true
}

// PointInMultiPolygon reports whether p is inside any member polygon.
func PointInMultiPolygon(p orb.Point, mp orb.MultiPolygon) bool {
	for _, poly := range mp {
		if PointInPolygon(p, poly) {
			return true
		}
	}
	return false
}

// PointSegmentDistance returns the distance from p to the segment ab,
// clamped to the segment endpoints.
func PointSegmentDistance(p, a, b orb.Point) float64 {
	dx := b.X() - a.X()
	dy := b.Y() - a.Y()
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return planar.Distance(p, a)
	}
	t := ((p.X()-a.X())*dx + (p.Y()-a.Y())*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := orb.Point{a.X() + t*dx, a.Y() + t*dy}
	return planar.Distance(p, closest)
}

// DistanceToMultiPolygon returns the minimum distance from p to any edge of
// any ring of any member polygon. Geometry with no edges yields +Inf. The
// result is a distance to the boundary, so points inside a polygon still get
// their distance to the nearest edge.
func DistanceToMultiPolygon(p orb.Point, mp orb.MultiPolygon) float64 {
	best := math.Inf(1)
	for _, poly := range mp {
		for _, ring := range poly {
			n := len(ring)
			if n < 2 {
				continue
			}
			for i := 0; i < n; i++ {
				d := PointSegmentDistance(p, ring[i], ring[(i+1)%n])
				if d < best {
					best = d
				}
			}
		}
	}
	return best
}
