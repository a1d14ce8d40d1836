package gridengine

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusM is the spherical Web Mercator earth radius (EPSG:3857).
const EarthRadiusM = 6378137.0

// Forward projects a geographic point (lon, lat in degrees) to planar Web
// Mercator meters. The spherical approximation is fine at city/campus scale;
// distances in the projected plane are treated as Euclidean.
//
// Unlike orb/project this does not clamp y at the Mercator pole, so the
// forward/inverse round trip stays exact for every latitude short of ±90.
func Forward(lonLat orb.Point) orb.Point {
	lonRad := lonLat.Lon() * math.Pi / 180.0
	latRad := lonLat.Lat() * math.Pi / 180.0
	x := lonRad * EarthRadiusM
	y := EarthRadiusM * math.Log(math.Tan(math.Pi/4.0+latRad/2.0))
	return orb.Point{x, y}
}

// Inverse converts planar Web Mercator meters back to (lon, lat) degrees.
func Inverse(xy orb.Point) orb.Point {
	lonRad := xy.X() / EarthRadiusM
	latRad := 2.0*math.Atan(math.Exp(xy.Y()/EarthRadiusM)) - math.Pi/2.0
	return orb.Point{lonRad * 180.0 / math.Pi, latRad * 180.0 / math.Pi}
}

// ForwardRing projects every vertex of a geographic ring.
func ForwardRing(ring orb.Ring) orb.Ring {
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		out[i] = Forward(p)
	}
	return out
}

// ForwardPolygon projects every ring of a geographic polygon.
func ForwardPolygon(poly orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		out[i] = ForwardRing(ring)
	}
	return out
}

// ForwardMultiPolygon projects every member polygon.
func ForwardMultiPolygon(mp orb.MultiPolygon) orb.MultiPolygon {
	out := make(orb.MultiPolygon, len(mp))
	for i, poly := range mp {
		out[i] = ForwardPolygon(poly)
	}
	return out
}

// ForwardBound projects a geographic rectangle to a planar one. Corners map
// to corners because the projection is axis-separable.
func ForwardBound(b orb.Bound) orb.Bound {
	return orb.Bound{Min: Forward(b.Min), Max: Forward(b.Max)}
}
